package services

import (
	"context"
	"fmt"

	"skillcheck/apperr"
	"skillcheck/cache"
	"skillcheck/models"
	"skillcheck/store"
)

const (
	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 100
)

// QuizService is the operation surface the HTTP layer talks to.
type QuizService struct {
	store       store.Store
	questions   *QuestionSetProvider
	recorder    *AttemptRecorder
	reports     *ReportAggregator
	invalidator *CacheInvalidator
	hub         *ActivityHub
}

func NewQuizService(
	s store.Store,
	questions *QuestionSetProvider,
	recorder *AttemptRecorder,
	reports *ReportAggregator,
	invalidator *CacheInvalidator,
	hub *ActivityHub,
) *QuizService {
	return &QuizService{
		store:       s,
		questions:   questions,
		recorder:    recorder,
		reports:     reports,
		invalidator: invalidator,
		hub:         hub,
	}
}

type StartQuizResponse struct {
	Skill          models.Skill          `json:"skill"`
	Questions      []models.QuestionView `json:"questions"`
	TotalQuestions int                   `json:"total_questions"`
}

type SubmitQuizRequest struct {
	SkillID          uint              `json:"skill_id" binding:"required"`
	Answers          []SubmittedAnswer `json:"answers"`
	TimeTakenSeconds *int              `json:"time_taken_seconds"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

type HistoryResponse struct {
	Attempts   []models.AttemptSummary `json:"attempts"`
	Pagination Pagination              `json:"pagination"`
}

func (s *QuizService) StartQuiz(ctx context.Context, skillID uint) (*StartQuizResponse, error) {
	skill, err := s.store.FindSkill(ctx, skillID)
	if err != nil {
		return nil, err
	}
	views, err := s.questions.GetQuestionSet(ctx, skillID)
	if err != nil {
		return nil, err
	}
	return &StartQuizResponse{
		Skill:          *skill,
		Questions:      views,
		TotalQuestions: len(views),
	}, nil
}

func (s *QuizService) SubmitQuiz(ctx context.Context, userID uint, req *SubmitQuizRequest) (AttemptResult, error) {
	if req.TimeTakenSeconds != nil && *req.TimeTakenSeconds < 0 {
		return AttemptResult{}, fmt.Errorf("time taken must not be negative: %w", apperr.ErrInvalidInput)
	}

	result, err := s.recorder.RecordAttempt(ctx, userID, req.SkillID, req.Answers, req.TimeTakenSeconds)
	if err != nil {
		return AttemptResult{}, err
	}
	if s.hub != nil {
		s.hub.PublishAttempt(userID, result)
	}
	return result, nil
}

func (s *QuizService) GetUserPerformance(ctx context.Context, userID uint) (*models.UserPerformance, error) {
	return s.reports.GetUserPerformance(ctx, userID)
}

func (s *QuizService) GetAdminStats(ctx context.Context) (*models.AdminStats, error) {
	return s.reports.GetAdminStats(ctx)
}

func (s *QuizService) GetSkillGaps(ctx context.Context) ([]models.SkillGap, error) {
	return s.reports.GetSkillGaps(ctx)
}

func (s *QuizService) GetUserStats(ctx context.Context) ([]models.UserStat, error) {
	return s.reports.GetUserStats(ctx)
}

func (s *QuizService) GetTimeAnalysis(ctx context.Context, period string) (*models.TimeAnalysis, error) {
	return s.reports.GetTimeAnalysis(ctx, period)
}

// InvalidateQuestionCache drops the cached question set of a skill.
func (s *QuizService) InvalidateQuestionCache(ctx context.Context, skillID uint) {
	s.invalidator.Invalidate(ctx, cache.QuestionSetKey(skillID))
}

// GetHistory pages through the user's attempts, newest first. Page is 1-based.
func (s *QuizService) GetHistory(ctx context.Context, userID uint, page, limit int) (*HistoryResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultHistoryLimit
	}
	limit = min(limit, MaxHistoryLimit)

	attempts, total, err := s.store.ListAttempts(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	return &HistoryResponse{
		Attempts: attempts,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: (total + int64(limit) - 1) / int64(limit),
		},
	}, nil
}

// GetAttempt returns one of the user's own attempts with its graded answers.
func (s *QuizService) GetAttempt(ctx context.Context, userID, attemptID uint) (*models.AttemptDetail, error) {
	return s.store.FindAttemptDetail(ctx, userID, attemptID)
}
