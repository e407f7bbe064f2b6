package store

import (
	"context"

	"skillcheck/apperr"
	"skillcheck/models"
)

func (s *GormStore) ListSkills(ctx context.Context) ([]models.SkillSummary, error) {
	skills := []models.SkillSummary{}
	err := s.db.WithContext(ctx).Table("skills AS s").
		Select("s.id, s.name, COUNT(q.id) AS question_count").
		Joins("LEFT JOIN questions q ON q.skill_id = s.id").
		Group("s.id, s.name").
		Order("s.name").
		Scan(&skills).Error
	if err != nil {
		return nil, translate(err, nil)
	}
	return skills, nil
}

func (s *GormStore) CreateSkill(ctx context.Context, skill *models.Skill) error {
	return translate(s.db.WithContext(ctx).Create(skill).Error, nil)
}

func (s *GormStore) ListQuestions(ctx context.Context) ([]models.QuestionWithSkill, error) {
	questions := []models.QuestionWithSkill{}
	err := s.db.WithContext(ctx).Table("questions AS q").
		Select("q.*, s.name AS skill_name").
		Joins("JOIN skills s ON s.id = q.skill_id").
		Order("q.created_at DESC, q.id DESC").
		Scan(&questions).Error
	if err != nil {
		return nil, translate(err, nil)
	}
	return questions, nil
}

func (s *GormStore) FindQuestion(ctx context.Context, id uint) (*models.Question, error) {
	var q models.Question
	if err := s.db.WithContext(ctx).Take(&q, id).Error; err != nil {
		return nil, translate(err, apperr.ErrQuestionNotFound)
	}
	return &q, nil
}

func (s *GormStore) CreateQuestion(ctx context.Context, q *models.Question) error {
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

	var skill models.Skill
	if err := tx.Take(&skill, q.SkillID).Error; err != nil {
		tx.Rollback()
		return translate(err, apperr.ErrSkillNotFound)
	}

	q.ID = 0
	if err := tx.Omit("Skill").Create(q).Error; err != nil {
		tx.Rollback()
		return translate(err, nil)
	}

	return translate(tx.Commit().Error, nil)
}

func (s *GormStore) UpdateQuestion(ctx context.Context, q *models.Question) (uint, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return 0, translate(tx.Error, nil)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	var existing models.Question
	if err := tx.Take(&existing, q.ID).Error; err != nil {
		tx.Rollback()
		return 0, translate(err, apperr.ErrQuestionNotFound)
	}
	previousSkillID := existing.SkillID

	if q.SkillID != previousSkillID {
		var skill models.Skill
		if err := tx.Take(&skill, q.SkillID).Error; err != nil {
			tx.Rollback()
			return 0, translate(err, apperr.ErrSkillNotFound)
		}
	}

	err := tx.Model(&existing).
		Select("skill_id", "question_text", "option_a", "option_b", "option_c", "option_d",
			"correct_option", "difficulty", "updated_at").
		Updates(models.Question{
			SkillID:       q.SkillID,
			QuestionText:  q.QuestionText,
			OptionA:       q.OptionA,
			OptionB:       q.OptionB,
			OptionC:       q.OptionC,
			OptionD:       q.OptionD,
			CorrectOption: q.CorrectOption,
			Difficulty:    q.Difficulty,
		}).Error
	if err != nil {
		tx.Rollback()
		return 0, translate(err, nil)
	}

	if err := tx.Commit().Error; err != nil {
		return 0, translate(err, nil)
	}
	return previousSkillID, nil
}

func (s *GormStore) DeleteQuestion(ctx context.Context, id uint) (uint, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return 0, translate(tx.Error, nil)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	var existing models.Question
	if err := tx.Select("id", "skill_id").Take(&existing, id).Error; err != nil {
		tx.Rollback()
		return 0, translate(err, apperr.ErrQuestionNotFound)
	}

	if err := tx.Delete(&models.Question{}, id).Error; err != nil {
		tx.Rollback()
		return 0, translate(err, nil)
	}

	if err := tx.Commit().Error; err != nil {
		return 0, translate(err, nil)
	}
	return existing.SkillID, nil
}
