package store

import (
	"context"
	"time"

	"skillcheck/models"
)

// SkillStore resolves skills.
type SkillStore interface {
	FindSkill(ctx context.Context, id uint) (*models.Skill, error)
}

// QuestionStore feeds the question-set provider.
type QuestionStore interface {
	SkillStore
	// ListQuestionsBySkill returns every question of the skill in id order.
	// Randomization is the caller's job.
	ListQuestionsBySkill(ctx context.Context, skillID uint) ([]models.Question, error)
}

// AnswerKeyStore is the only thing the scoring engine can see. It has no
// cache counterpart on purpose: the answer key always comes from the store.
type AnswerKeyStore interface {
	FindQuestionCorrectOption(ctx context.Context, questionID uint) (models.Option, error)
}

// AttemptStore persists scored attempts.
type AttemptStore interface {
	SkillStore
	// InsertAttempt writes the attempt and its answers in one transaction and
	// fills in attempt.ID and attempt.CompletedAt.
	InsertAttempt(ctx context.Context, attempt *models.QuizAttempt, answers []models.QuizAnswer) error
}

// ReportStore computes aggregates directly from the attempt tables.
type ReportStore interface {
	AggregateUserPerformance(ctx context.Context, userID uint, recentLimit int) (*models.UserPerformance, error)
	AggregateAdminStats(ctx context.Context, recentLimit int) (*models.AdminStats, error)
	SkillGaps(ctx context.Context) ([]models.SkillGap, error)
	UserStats(ctx context.Context) ([]models.UserStat, error)
	TimeAnalysis(ctx context.Context, period string, since time.Time) ([]models.PeriodBucket, error)
}

// HistoryStore reads back a user's own attempts.
type HistoryStore interface {
	ListAttempts(ctx context.Context, userID uint, limit, offset int) ([]models.AttemptSummary, int64, error)
	FindAttemptDetail(ctx context.Context, userID, attemptID uint) (*models.AttemptDetail, error)
}

// QuestionBank is the administrator's view of skills and questions.
type QuestionBank interface {
	SkillStore
	ListSkills(ctx context.Context) ([]models.SkillSummary, error)
	CreateSkill(ctx context.Context, skill *models.Skill) error
	ListQuestions(ctx context.Context) ([]models.QuestionWithSkill, error)
	FindQuestion(ctx context.Context, id uint) (*models.Question, error)
	CreateQuestion(ctx context.Context, q *models.Question) error
	// UpdateQuestion overwrites the editable fields of q.ID and returns the
	// skill the question belonged to before the update.
	UpdateQuestion(ctx context.Context, q *models.Question) (previousSkillID uint, err error)
	// DeleteQuestion removes the question and returns the skill it belonged to.
	DeleteQuestion(ctx context.Context, id uint) (skillID uint, err error)
}

// Store is everything the application needs from durable storage.
type Store interface {
	QuestionStore
	AnswerKeyStore
	AttemptStore
	ReportStore
	HistoryStore
	QuestionBank
}
