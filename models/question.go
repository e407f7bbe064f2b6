package models

import (
	"time"
)

type Skill struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// SkillSummary is a skill with the number of questions in its bank.
type SkillSummary struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	QuestionCount int64  `json:"question_count"`
}

type Question struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	SkillID       uint       `json:"skill_id" gorm:"not null;index"`
	QuestionText  string     `json:"question_text" gorm:"not null"`
	OptionA       string     `json:"option_a" gorm:"not null"`
	OptionB       string     `json:"option_b" gorm:"not null"`
	OptionC       string     `json:"option_c" gorm:"not null"`
	OptionD       string     `json:"option_d" gorm:"not null"`
	CorrectOption Option     `json:"correct_option" gorm:"type:varchar(1);not null"`
	Difficulty    Difficulty `json:"difficulty" gorm:"type:varchar(10);not null;default:'Medium'"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Relationships
	Skill Skill `json:"-"`
}

// QuestionView is what a quiz taker sees. It has no correct option field at all,
// so it cannot leak through serialization.
type QuestionView struct {
	ID           uint       `json:"id"`
	SkillID      uint       `json:"skill_id"`
	QuestionText string     `json:"question_text"`
	OptionA      string     `json:"option_a"`
	OptionB      string     `json:"option_b"`
	OptionC      string     `json:"option_c"`
	OptionD      string     `json:"option_d"`
	Difficulty   Difficulty `json:"difficulty"`
}

func (q Question) View() QuestionView {
	return QuestionView{
		ID:           q.ID,
		SkillID:      q.SkillID,
		QuestionText: q.QuestionText,
		OptionA:      q.OptionA,
		OptionB:      q.OptionB,
		OptionC:      q.OptionC,
		OptionD:      q.OptionD,
		Difficulty:   q.Difficulty,
	}
}

// QuestionWithSkill is the admin listing row.
type QuestionWithSkill struct {
	Question
	SkillName string `json:"skill_name"`
}
