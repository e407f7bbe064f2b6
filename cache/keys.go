package cache

import (
	"fmt"
	"time"
)

const (
	DefaultQuestionSetTTL     = time.Hour
	DefaultUserPerformanceTTL = 10 * time.Minute
	DefaultAdminStatsTTL      = 5 * time.Minute
)

// QuestionSetKey holds the shuffled question views of one skill.
func QuestionSetKey(skillID uint) string {
	return fmt.Sprintf("questions:skill:%d", skillID)
}

// UserPerformanceKey holds one user's performance report.
func UserPerformanceKey(userID uint) string {
	return fmt.Sprintf("performance:user:%d", userID)
}

// AdminStatsKey holds the system-wide dashboard. It is only refreshed by expiry.
const AdminStatsKey = "stats:admin"
