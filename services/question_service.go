package services

import (
	"context"
	"fmt"
	"strings"

	"skillcheck/apperr"
	"skillcheck/cache"
	"skillcheck/logger"
	"skillcheck/models"
	"skillcheck/store"
)

// QuestionService manages the question bank for administrators. Every write
// drops the affected question sets after it commits.
type QuestionService struct {
	store       store.QuestionBank
	invalidator *CacheInvalidator
	log         *logger.Logger
}

func NewQuestionService(s store.QuestionBank, invalidator *CacheInvalidator, log *logger.Logger) *QuestionService {
	return &QuestionService{
		store:       s,
		invalidator: invalidator,
		log:         log.With("service", "QuestionService"),
	}
}

type QuestionRequest struct {
	SkillID       uint   `json:"skill_id" binding:"required"`
	QuestionText  string `json:"question_text" binding:"required"`
	OptionA       string `json:"option_a" binding:"required"`
	OptionB       string `json:"option_b" binding:"required"`
	OptionC       string `json:"option_c" binding:"required"`
	OptionD       string `json:"option_d" binding:"required"`
	CorrectOption string `json:"correct_option" binding:"required"`
	Difficulty    string `json:"difficulty"`
}

type CreateSkillRequest struct {
	Name string `json:"name" binding:"required"`
}

func (r *QuestionRequest) toModel() (*models.Question, error) {
	q := &models.Question{
		SkillID:       r.SkillID,
		QuestionText:  strings.TrimSpace(r.QuestionText),
		OptionA:       strings.TrimSpace(r.OptionA),
		OptionB:       strings.TrimSpace(r.OptionB),
		OptionC:       strings.TrimSpace(r.OptionC),
		OptionD:       strings.TrimSpace(r.OptionD),
		CorrectOption: models.ParseOption(r.CorrectOption),
		Difficulty:    models.Difficulty(strings.TrimSpace(r.Difficulty)),
	}
	if q.Difficulty == "" {
		q.Difficulty = models.DifficultyMedium
	}

	switch {
	case q.SkillID == 0:
		return nil, fmt.Errorf("skill_id is required: %w", apperr.ErrInvalidInput)
	case q.QuestionText == "":
		return nil, fmt.Errorf("question_text is required: %w", apperr.ErrInvalidInput)
	case q.OptionA == "" || q.OptionB == "" || q.OptionC == "" || q.OptionD == "":
		return nil, fmt.Errorf("all four options are required: %w", apperr.ErrInvalidInput)
	case !q.CorrectOption.Valid():
		return nil, fmt.Errorf("correct_option must be one of A, B, C, D: %w", apperr.ErrInvalidInput)
	case !q.Difficulty.Valid():
		return nil, fmt.Errorf("difficulty must be Easy, Medium or Hard: %w", apperr.ErrInvalidInput)
	}
	return q, nil
}

func (s *QuestionService) ListSkills(ctx context.Context) ([]models.SkillSummary, error) {
	return s.store.ListSkills(ctx)
}

func (s *QuestionService) CreateSkill(ctx context.Context, req *CreateSkillRequest) (*models.Skill, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("name is required: %w", apperr.ErrInvalidInput)
	}
	skill := &models.Skill{Name: name}
	if err := s.store.CreateSkill(ctx, skill); err != nil {
		return nil, err
	}
	s.log.Info("skill created", "skill_id", skill.ID, "name", skill.Name)
	return skill, nil
}

func (s *QuestionService) ListQuestions(ctx context.Context) ([]models.QuestionWithSkill, error) {
	return s.store.ListQuestions(ctx)
}

func (s *QuestionService) CreateQuestion(ctx context.Context, req *QuestionRequest) (*models.Question, error) {
	q, err := req.toModel()
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateQuestion(ctx, q); err != nil {
		return nil, err
	}

	s.invalidator.Invalidate(ctx, cache.QuestionSetKey(q.SkillID))
	s.log.Info("question created", "question_id", q.ID, "skill_id", q.SkillID)
	return q, nil
}

// UpdateQuestion rewrites a question. When it moves to another skill both
// skills' question sets are dropped.
func (s *QuestionService) UpdateQuestion(ctx context.Context, id uint, req *QuestionRequest) (*models.Question, error) {
	q, err := req.toModel()
	if err != nil {
		return nil, err
	}
	q.ID = id

	previousSkillID, err := s.store.UpdateQuestion(ctx, q)
	if err != nil {
		return nil, err
	}

	s.invalidator.Invalidate(ctx, cache.QuestionSetKey(previousSkillID), cache.QuestionSetKey(q.SkillID))
	s.log.Info("question updated", "question_id", id, "skill_id", q.SkillID, "previous_skill_id", previousSkillID)

	return s.store.FindQuestion(ctx, id)
}

func (s *QuestionService) DeleteQuestion(ctx context.Context, id uint) error {
	skillID, err := s.store.DeleteQuestion(ctx, id)
	if err != nil {
		return err
	}

	s.invalidator.Invalidate(ctx, cache.QuestionSetKey(skillID))
	s.log.Info("question deleted", "question_id", id, "skill_id", skillID)
	return nil
}
