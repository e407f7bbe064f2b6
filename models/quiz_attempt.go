package models

import (
	"time"
)

type QuizAttempt struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	UserID           uint      `json:"user_id" gorm:"not null;index"`
	SkillID          uint      `json:"skill_id" gorm:"not null;index"`
	Score            int       `json:"score" gorm:"not null"`
	TotalQuestions   int       `json:"total_questions" gorm:"not null"`
	TimeTakenSeconds *int      `json:"time_taken_seconds"`
	CompletedAt      time.Time `json:"completed_at" gorm:"not null;index"`

	// Relationships
	Skill   Skill        `json:"-"`
	Answers []QuizAnswer `json:"answers,omitempty" gorm:"foreignKey:AttemptID"`
}

type QuizAnswer struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	AttemptID      uint   `json:"attempt_id" gorm:"not null;index"`
	QuestionID     uint   `json:"question_id" gorm:"not null"`
	SelectedOption Option `json:"selected_option" gorm:"type:varchar(1)"`
	IsCorrect      bool   `json:"is_correct" gorm:"not null"`
}

// AttemptSummary is one row of a user's quiz history.
type AttemptSummary struct {
	ID               uint      `json:"id"`
	SkillID          uint      `json:"skill_id"`
	SkillName        string    `json:"skill_name"`
	Score            int       `json:"score"`
	TotalQuestions   int       `json:"total_questions"`
	TimeTakenSeconds *int      `json:"time_taken_seconds"`
	CompletedAt      time.Time `json:"completed_at"`
}

// AnswerDetail is a stored answer joined with its question. Only shown after
// the attempt has been submitted.
type AnswerDetail struct {
	QuestionID     uint   `json:"question_id"`
	QuestionText   string `json:"question_text"`
	OptionA        string `json:"option_a"`
	OptionB        string `json:"option_b"`
	OptionC        string `json:"option_c"`
	OptionD        string `json:"option_d"`
	SelectedOption Option `json:"selected_option"`
	CorrectOption  Option `json:"correct_option"`
	IsCorrect      bool   `json:"is_correct"`
}

type AttemptDetail struct {
	Attempt AttemptSummary `json:"attempt"`
	Answers []AnswerDetail `json:"answers"`
}
