package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"skillcheck/apperr"
	"skillcheck/models"
)

// GormStore implements Store on top of gorm. Production runs it against
// Postgres; tests run it against SQLite.
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

func New(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) DB() *gorm.DB {
	return s.db
}

func (s *GormStore) AutoMigrate() error {
	return s.db.AutoMigrate(
		&models.User{},
		&models.Skill{},
		&models.Question{},
		&models.QuizAttempt{},
		&models.QuizAnswer{},
	)
}

// translate maps gorm errors onto the apperr taxonomy. notFound is returned
// for a missing row; any other failure is reported as the store being unavailable.
func translate(err, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		if notFound == nil {
			return apperr.ErrNotFound
		}
		return notFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errors.Join(apperr.ErrInvalidInput, err)
	default:
		return apperr.Unavailable(err)
	}
}

func (s *GormStore) FindSkill(ctx context.Context, id uint) (*models.Skill, error) {
	var skill models.Skill
	if err := s.db.WithContext(ctx).Take(&skill, id).Error; err != nil {
		return nil, translate(err, apperr.ErrSkillNotFound)
	}
	return &skill, nil
}

func (s *GormStore) ListQuestionsBySkill(ctx context.Context, skillID uint) ([]models.Question, error) {
	var questions []models.Question
	err := s.db.WithContext(ctx).
		Where("skill_id = ?", skillID).
		Order("id").
		Find(&questions).Error
	if err != nil {
		return nil, translate(err, nil)
	}
	return questions, nil
}

func (s *GormStore) FindQuestionCorrectOption(ctx context.Context, questionID uint) (models.Option, error) {
	var q models.Question
	err := s.db.WithContext(ctx).
		Select("id", "correct_option").
		Where("id = ?", questionID).
		Take(&q).Error
	if err != nil {
		return "", translate(err, apperr.ErrQuestionNotFound)
	}
	return q.CorrectOption, nil
}
