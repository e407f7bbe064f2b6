package models

import "strings"

// Option identifies one of the four answer slots of a question.
type Option string

const (
	OptionA Option = "A"
	OptionB Option = "B"
	OptionC Option = "C"
	OptionD Option = "D"
)

// Valid reports whether o is one of A, B, C or D. The empty option (unanswered)
// is not valid.
func (o Option) Valid() bool {
	switch o {
	case OptionA, OptionB, OptionC, OptionD:
		return true
	}
	return false
}

// ParseOption normalizes user input. Anything other than A-D becomes the empty
// option, which never matches a correct answer.
func ParseOption(s string) Option {
	o := Option(strings.ToUpper(strings.TrimSpace(s)))
	if !o.Valid() {
		return ""
	}
	return o
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}
