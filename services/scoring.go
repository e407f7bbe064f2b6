package services

import (
	"context"
	"errors"
	"math"

	"skillcheck/apperr"
	"skillcheck/models"
	"skillcheck/store"
)

// SubmittedAnswer is one entry of a quiz submission.
type SubmittedAnswer struct {
	QuestionID     uint   `json:"question_id" binding:"required"`
	SelectedOption string `json:"selected_option"`
}

// GradedAnswer is a submitted answer after it was checked against the answer key.
// Known is false when the question does not exist.
type GradedAnswer struct {
	QuestionID     uint
	SelectedOption models.Option
	IsCorrect      bool
	Known          bool
}

type ScoreResult struct {
	Score          int
	CorrectCount   int
	TotalQuestions int
	Correct        []bool
	Graded         []GradedAnswer
}

// ScoringEngine grades submissions against the store's answer key. It has no
// cache: the key is never served stale.
type ScoringEngine struct {
	answers store.AnswerKeyStore
}

func NewScoringEngine(answers store.AnswerKeyStore) *ScoringEngine {
	return &ScoringEngine{answers: answers}
}

// Score grades every answer in submission order. Repeated questions are graded
// independently and unknown questions count as wrong. The skill id is not
// checked against the questions' own skill.
func (e *ScoringEngine) Score(ctx context.Context, skillID uint, answers []SubmittedAnswer) (ScoreResult, error) {
	result := ScoreResult{
		TotalQuestions: len(answers),
		Correct:        make([]bool, len(answers)),
		Graded:         make([]GradedAnswer, len(answers)),
	}

	for i, a := range answers {
		selected := models.ParseOption(a.SelectedOption)
		graded := GradedAnswer{QuestionID: a.QuestionID, SelectedOption: selected}

		correct, err := e.answers.FindQuestionCorrectOption(ctx, a.QuestionID)
		switch {
		case errors.Is(err, apperr.ErrNotFound):
		case err != nil:
			return ScoreResult{}, err
		default:
			graded.Known = true
			graded.IsCorrect = selected != "" && selected == correct
		}

		if graded.IsCorrect {
			result.CorrectCount++
		}
		result.Correct[i] = graded.IsCorrect
		result.Graded[i] = graded
	}

	result.Score = Percentage(result.CorrectCount, result.TotalQuestions)
	return result, nil
}

// Percentage rounds correct/total to a whole percent. Zero total scores zero.
func Percentage(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}
