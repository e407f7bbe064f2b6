package models

import (
	"time"
)

type OverallPerformance struct {
	TotalQuizzes int64    `json:"total_quizzes"`
	AverageScore *float64 `json:"average_score"`
	BestScore    *int     `json:"best_score"`
	WorstScore   *int     `json:"worst_score"`
}

type SkillPerformance struct {
	SkillID      uint      `json:"skill_id"`
	SkillName    string    `json:"skill_name"`
	QuizzesTaken int64     `json:"quizzes_taken"`
	AverageScore float64   `json:"average_score"`
	BestScore    int       `json:"best_score"`
	FirstAttempt time.Time `json:"first_attempt"`
	LastAttempt  time.Time `json:"last_attempt"`
}

type RecentAttempt struct {
	AttemptID      uint      `json:"attempt_id"`
	SkillName      string    `json:"skill_name"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	CompletedAt    time.Time `json:"completed_at"`
}

type UserPerformance struct {
	Overall        OverallPerformance `json:"overall"`
	Skills         []SkillPerformance `json:"skills"`
	RecentActivity []RecentAttempt    `json:"recent_activity"`
}

type UserCounts struct {
	Total   int64 `json:"total_users"`
	Admins  int64 `json:"admin_users"`
	Regular int64 `json:"regular_users"`
}

type QuizCounts struct {
	TotalAttempts int64    `json:"total_attempts"`
	AverageScore  *float64 `json:"average_score"`
	ActiveUsers   int64    `json:"active_users"`
}

type QuestionCounts struct {
	TotalQuestions int64 `json:"total_questions"`
	TotalSkills    int64 `json:"total_skills"`
}

type SkillOverview struct {
	SkillID        uint     `json:"skill_id"`
	SkillName      string   `json:"skill_name"`
	QuestionsCount int64    `json:"questions_count"`
	AttemptsCount  int64    `json:"attempts_count"`
	AverageScore   *float64 `json:"average_score"`
}

type AdminActivity struct {
	AttemptID   uint      `json:"attempt_id"`
	Username    string    `json:"username"`
	SkillName   string    `json:"skill_name"`
	Score       int       `json:"score"`
	CompletedAt time.Time `json:"completed_at"`
}

type AdminStats struct {
	Users          UserCounts      `json:"users"`
	Quizzes        QuizCounts      `json:"quizzes"`
	Questions      QuestionCounts  `json:"questions"`
	SkillsOverview []SkillOverview `json:"skills_overview"`
	RecentActivity []AdminActivity `json:"recent_activity"`
}

type SkillGap struct {
	SkillID       uint    `json:"skill_id"`
	SkillName     string  `json:"skill_name"`
	AverageScore  float64 `json:"average_score"`
	TotalAttempts int64   `json:"total_attempts"`
	UniqueUsers   int64   `json:"unique_users"`
	LowestScore   int     `json:"lowest_score"`
	HighestScore  int     `json:"highest_score"`
}

// UserStat is one row of the administrator's user overview.
type UserStat struct {
	UserID       uint       `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	Role         string     `json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
	QuizzesTaken int64      `json:"quizzes_taken"`
	AverageScore *float64   `json:"average_score"`
	LastActivity *time.Time `json:"last_activity"`
}

// Granularities of the time analysis report.
const (
	PeriodWeek    = "week"
	PeriodMonth   = "month"
	PeriodQuarter = "quarter"
)

// PeriodBucket aggregates the attempts completed within one calendar period.
type PeriodBucket struct {
	Period        string  `json:"period"`
	AttemptsCount int64   `json:"attempts_count"`
	AverageScore  float64 `json:"average_score"`
	UniqueUsers   int64   `json:"unique_users"`
}

type TimeAnalysis struct {
	Period string         `json:"period"`
	Data   []PeriodBucket `json:"data"`
}
