package services

import (
	"context"
	"time"

	"skillcheck/cache"
	"skillcheck/logger"
	"skillcheck/models"
	"skillcheck/store"
)

type AttemptResult struct {
	AttemptID      uint      `json:"attempt_id"`
	SkillID        uint      `json:"skill_id"`
	SkillName      string    `json:"skill_name"`
	Score          int       `json:"score"`
	CorrectCount   int       `json:"correct_answers"`
	TotalQuestions int       `json:"total_questions"`
	Correct        []bool    `json:"results"`
	CompletedAt    time.Time `json:"completed_at"`
}

// AttemptRecorder scores a submission, persists it and drops the user's cached
// performance report once the write is durable.
type AttemptRecorder struct {
	store       store.AttemptStore
	scorer      *ScoringEngine
	invalidator *CacheInvalidator
	log         *logger.Logger
}

func NewAttemptRecorder(s store.AttemptStore, scorer *ScoringEngine, invalidator *CacheInvalidator, log *logger.Logger) *AttemptRecorder {
	return &AttemptRecorder{
		store:       s,
		scorer:      scorer,
		invalidator: invalidator,
		log:         log.With("service", "AttemptRecorder"),
	}
}

func (r *AttemptRecorder) RecordAttempt(ctx context.Context, userID, skillID uint, answers []SubmittedAnswer, timeTakenSeconds *int) (AttemptResult, error) {
	skill, err := r.store.FindSkill(ctx, skillID)
	if err != nil {
		return AttemptResult{}, err
	}

	scored, err := r.scorer.Score(ctx, skillID, answers)
	if err != nil {
		return AttemptResult{}, err
	}

	attempt := &models.QuizAttempt{
		UserID:           userID,
		SkillID:          skillID,
		Score:            scored.Score,
		TotalQuestions:   scored.TotalQuestions,
		TimeTakenSeconds: timeTakenSeconds,
	}

	// Answers to unknown questions count in the score but have no row to
	// reference, so they are not stored.
	rows := make([]models.QuizAnswer, 0, len(scored.Graded))
	for _, g := range scored.Graded {
		if !g.Known {
			continue
		}
		rows = append(rows, models.QuizAnswer{
			QuestionID:     g.QuestionID,
			SelectedOption: g.SelectedOption,
			IsCorrect:      g.IsCorrect,
		})
	}

	if err := r.store.InsertAttempt(ctx, attempt, rows); err != nil {
		r.log.Error("failed to record attempt", "user_id", userID, "skill_id", skillID, "error", err)
		return AttemptResult{}, err
	}

	r.invalidator.Invalidate(ctx, cache.UserPerformanceKey(userID))

	r.log.Info("attempt recorded",
		"attempt_id", attempt.ID, "user_id", userID, "skill_id", skillID,
		"score", scored.Score, "correct", scored.CorrectCount, "total", scored.TotalQuestions)

	return AttemptResult{
		AttemptID:      attempt.ID,
		SkillID:        skillID,
		SkillName:      skill.Name,
		Score:          scored.Score,
		CorrectCount:   scored.CorrectCount,
		TotalQuestions: scored.TotalQuestions,
		Correct:        scored.Correct,
		CompletedAt:    attempt.CompletedAt,
	}, nil
}
