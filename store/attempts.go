package store

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"skillcheck/apperr"
	"skillcheck/models"
)

func (s *GormStore) InsertAttempt(ctx context.Context, attempt *models.QuizAttempt, answers []models.QuizAnswer) error {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return translate(tx.Error, nil)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if attempt.CompletedAt.IsZero() {
		attempt.CompletedAt = time.Now().UTC()
	}
	if err := tx.Omit(clause.Associations).Create(attempt).Error; err != nil {
		tx.Rollback()
		return translate(err, nil)
	}

	if len(answers) > 0 {
		rows := make([]models.QuizAnswer, len(answers))
		for i, a := range answers {
			a.ID = 0
			a.AttemptID = attempt.ID
			rows[i] = a
		}
		if err := tx.Create(&rows).Error; err != nil {
			tx.Rollback()
			attempt.ID = 0
			return translate(err, nil)
		}
	}

	if err := tx.Commit().Error; err != nil {
		attempt.ID = 0
		return translate(err, nil)
	}
	return nil
}

func (s *GormStore) ListAttempts(ctx context.Context, userID uint, limit, offset int) ([]models.AttemptSummary, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.QuizAttempt{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, translate(err, nil)
	}

	attempts := []models.AttemptSummary{}
	err := s.attemptSummaries(ctx).
		Where("qa.user_id = ?", userID).
		Order("qa.completed_at DESC, qa.id DESC").
		Limit(limit).
		Offset(offset).
		Scan(&attempts).Error
	if err != nil {
		return nil, 0, translate(err, nil)
	}
	return attempts, total, nil
}

func (s *GormStore) FindAttemptDetail(ctx context.Context, userID, attemptID uint) (*models.AttemptDetail, error) {
	var summaries []models.AttemptSummary
	err := s.attemptSummaries(ctx).
		Where("qa.id = ? AND qa.user_id = ?", attemptID, userID).
		Limit(1).
		Scan(&summaries).Error
	if err != nil {
		return nil, translate(err, nil)
	}
	if len(summaries) == 0 {
		return nil, apperr.ErrAttemptNotFound
	}

	answers := []models.AnswerDetail{}
	err = s.db.WithContext(ctx).Table("quiz_answers AS qaa").
		Select("qaa.question_id, q.question_text, q.option_a, q.option_b, q.option_c, q.option_d, " +
			"qaa.selected_option, q.correct_option, qaa.is_correct").
		Joins("JOIN questions q ON q.id = qaa.question_id").
		Where("qaa.attempt_id = ?", attemptID).
		Order("qaa.id").
		Scan(&answers).Error
	if err != nil {
		return nil, translate(err, nil)
	}

	return &models.AttemptDetail{Attempt: summaries[0], Answers: answers}, nil
}

func (s *GormStore) attemptSummaries(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Table("quiz_attempts AS qa").
		Select("qa.id, qa.skill_id, s.name AS skill_name, qa.score, qa.total_questions, " +
			"qa.time_taken_seconds, qa.completed_at").
		Joins("JOIN skills s ON s.id = qa.skill_id")
}
