package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"skillcheck/models"
)

type userAttemptRow struct {
	ID             uint
	SkillID        uint
	SkillName      string
	Score          int
	TotalQuestions int
	CompletedAt    time.Time
}

// AggregateUserPerformance loads the user's attempts joined with their skills
// and folds them in one pass. Skills the user never attempted do not appear.
func (s *GormStore) AggregateUserPerformance(ctx context.Context, userID uint, recentLimit int) (*models.UserPerformance, error) {
	var rows []userAttemptRow
	err := s.db.WithContext(ctx).Table("quiz_attempts AS qa").
		Select("qa.id, qa.skill_id, s.name AS skill_name, qa.score, qa.total_questions, qa.completed_at").
		Joins("JOIN skills s ON s.id = qa.skill_id").
		Where("qa.user_id = ?", userID).
		Order("qa.completed_at DESC, qa.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, nil)
	}
	return foldUserPerformance(rows, recentLimit), nil
}

type skillAccumulator struct {
	perf models.SkillPerformance
	sum  int
}

// foldUserPerformance expects rows ordered newest first.
func foldUserPerformance(rows []userAttemptRow, recentLimit int) *models.UserPerformance {
	report := &models.UserPerformance{
		Skills:         []models.SkillPerformance{},
		RecentActivity: []models.RecentAttempt{},
	}
	if len(rows) == 0 {
		return report
	}

	var (
		sum         int
		best, worst = rows[0].Score, rows[0].Score
		bySkill     = make(map[uint]*skillAccumulator)
	)
	for i, r := range rows {
		sum += r.Score
		best = max(best, r.Score)
		worst = min(worst, r.Score)

		acc, ok := bySkill[r.SkillID]
		if !ok {
			acc = &skillAccumulator{perf: models.SkillPerformance{
				SkillID:      r.SkillID,
				SkillName:    r.SkillName,
				BestScore:    r.Score,
				FirstAttempt: r.CompletedAt,
				LastAttempt:  r.CompletedAt,
			}}
			bySkill[r.SkillID] = acc
		}
		acc.perf.QuizzesTaken++
		acc.sum += r.Score
		acc.perf.BestScore = max(acc.perf.BestScore, r.Score)
		if r.CompletedAt.Before(acc.perf.FirstAttempt) {
			acc.perf.FirstAttempt = r.CompletedAt
		}
		if r.CompletedAt.After(acc.perf.LastAttempt) {
			acc.perf.LastAttempt = r.CompletedAt
		}

		if i < recentLimit {
			report.RecentActivity = append(report.RecentActivity, models.RecentAttempt{
				AttemptID:      r.ID,
				SkillName:      r.SkillName,
				Score:          r.Score,
				TotalQuestions: r.TotalQuestions,
				CompletedAt:    r.CompletedAt,
			})
		}
	}

	avg := float64(sum) / float64(len(rows))
	report.Overall = models.OverallPerformance{
		TotalQuizzes: int64(len(rows)),
		AverageScore: &avg,
		BestScore:    &best,
		WorstScore:   &worst,
	}

	for _, acc := range bySkill {
		acc.perf.AverageScore = float64(acc.sum) / float64(acc.perf.QuizzesTaken)
		report.Skills = append(report.Skills, acc.perf)
	}
	sort.Slice(report.Skills, func(i, j int) bool {
		a, b := report.Skills[i], report.Skills[j]
		if a.AverageScore != b.AverageScore {
			return a.AverageScore > b.AverageScore
		}
		return a.SkillName < b.SkillName
	})
	return report
}

// AggregateAdminStats runs the dashboard queries concurrently.
func (s *GormStore) AggregateAdminStats(ctx context.Context, recentLimit int) (*models.AdminStats, error) {
	stats := &models.AdminStats{
		SkillsOverview: []models.SkillOverview{},
		RecentActivity: []models.AdminActivity{},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.db.WithContext(gctx).Raw(`
			SELECT
				COUNT(*) AS total,
				COALESCE(SUM(CASE WHEN role = 'admin' THEN 1 ELSE 0 END), 0) AS admins,
				COALESCE(SUM(CASE WHEN role = 'user' THEN 1 ELSE 0 END), 0) AS regular
			FROM users`).Scan(&stats.Users).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Raw(`
			SELECT
				COUNT(*) AS total_attempts,
				AVG(score) AS average_score,
				COUNT(DISTINCT user_id) AS active_users
			FROM quiz_attempts`).Scan(&stats.Quizzes).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Raw(`
			SELECT
				COUNT(*) AS total_questions,
				COUNT(DISTINCT skill_id) AS total_skills
			FROM questions`).Scan(&stats.Questions).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Raw(`
			SELECT
				s.id AS skill_id,
				s.name AS skill_name,
				(SELECT COUNT(*) FROM questions q WHERE q.skill_id = s.id) AS questions_count,
				(SELECT COUNT(*) FROM quiz_attempts qa WHERE qa.skill_id = s.id) AS attempts_count,
				(SELECT AVG(qa.score) FROM quiz_attempts qa WHERE qa.skill_id = s.id) AS average_score
			FROM skills s
			ORDER BY attempts_count DESC, s.name ASC`).Scan(&stats.SkillsOverview).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Table("quiz_attempts AS qa").
			Select("qa.id AS attempt_id, u.username, s.name AS skill_name, qa.score, qa.completed_at").
			Joins("JOIN users u ON u.id = qa.user_id").
			Joins("JOIN skills s ON s.id = qa.skill_id").
			Order("qa.completed_at DESC, qa.id DESC").
			Limit(recentLimit).
			Scan(&stats.RecentActivity).Error
	})
	if err := g.Wait(); err != nil {
		return nil, translate(err, nil)
	}
	return stats, nil
}

// SkillGaps lists attempted skills from weakest to strongest average.
func (s *GormStore) SkillGaps(ctx context.Context) ([]models.SkillGap, error) {
	gaps := []models.SkillGap{}
	err := s.db.WithContext(ctx).Raw(`
		SELECT
			s.id AS skill_id,
			s.name AS skill_name,
			AVG(qa.score) AS average_score,
			COUNT(qa.id) AS total_attempts,
			COUNT(DISTINCT qa.user_id) AS unique_users,
			MIN(qa.score) AS lowest_score,
			MAX(qa.score) AS highest_score
		FROM skills s
		JOIN quiz_attempts qa ON qa.skill_id = s.id
		GROUP BY s.id, s.name
		ORDER BY average_score ASC, s.name ASC`).Scan(&gaps).Error
	if err != nil {
		return nil, translate(err, nil)
	}
	return gaps, nil
}

type attemptPoint struct {
	UserID      uint
	Score       int
	CompletedAt time.Time
}

// UserStats lists every user, newest account first, with their attempt totals.
// Users without attempts report zero quizzes and no average or last activity.
func (s *GormStore) UserStats(ctx context.Context) ([]models.UserStat, error) {
	var users []models.User
	var points []attemptPoint

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.db.WithContext(gctx).Order("created_at DESC, id DESC").Find(&users).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Table("quiz_attempts").
			Select("user_id, score, completed_at").
			Scan(&points).Error
	})
	if err := g.Wait(); err != nil {
		return nil, translate(err, nil)
	}

	type userAcc struct {
		count int64
		sum   int
		last  time.Time
	}
	byUser := make(map[uint]*userAcc)
	for _, p := range points {
		acc, ok := byUser[p.UserID]
		if !ok {
			acc = &userAcc{last: p.CompletedAt}
			byUser[p.UserID] = acc
		}
		acc.count++
		acc.sum += p.Score
		if p.CompletedAt.After(acc.last) {
			acc.last = p.CompletedAt
		}
	}

	out := make([]models.UserStat, 0, len(users))
	for _, u := range users {
		stat := models.UserStat{
			UserID:    u.ID,
			Username:  u.Username,
			Email:     u.Email,
			Role:      u.Role,
			CreatedAt: u.CreatedAt,
		}
		if acc, ok := byUser[u.ID]; ok {
			avg := float64(acc.sum) / float64(acc.count)
			last := acc.last
			stat.QuizzesTaken = acc.count
			stat.AverageScore = &avg
			stat.LastActivity = &last
		}
		out = append(out, stat)
	}
	return out, nil
}

// TimeAnalysis buckets the attempts completed since the given time by
// calendar period in UTC, newest period first.
func (s *GormStore) TimeAnalysis(ctx context.Context, period string, since time.Time) ([]models.PeriodBucket, error) {
	var points []attemptPoint
	err := s.db.WithContext(ctx).Table("quiz_attempts").
		Select("user_id, score, completed_at").
		Where("completed_at >= ?", since.UTC()).
		Scan(&points).Error
	if err != nil {
		return nil, translate(err, nil)
	}
	return foldPeriods(points, period), nil
}

// PeriodLabel names the calendar period containing t: "2026-W07" for weeks
// (ISO 8601), "2026-02" for months and "2026-Q1" for quarters.
func PeriodLabel(period string, t time.Time) string {
	t = t.UTC()
	switch period {
	case models.PeriodMonth:
		return t.Format("2006-01")
	case models.PeriodQuarter:
		return fmt.Sprintf("%d-Q%d", t.Year(), (int(t.Month())-1)/3+1)
	default:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	}
}

func foldPeriods(points []attemptPoint, period string) []models.PeriodBucket {
	type bucketAcc struct {
		bucket models.PeriodBucket
		sum    int
		users  map[uint]struct{}
	}
	byLabel := make(map[string]*bucketAcc)
	for _, p := range points {
		label := PeriodLabel(period, p.CompletedAt)
		acc, ok := byLabel[label]
		if !ok {
			acc = &bucketAcc{
				bucket: models.PeriodBucket{Period: label},
				users:  make(map[uint]struct{}),
			}
			byLabel[label] = acc
		}
		acc.bucket.AttemptsCount++
		acc.sum += p.Score
		acc.users[p.UserID] = struct{}{}
	}

	out := make([]models.PeriodBucket, 0, len(byLabel))
	for _, acc := range byLabel {
		acc.bucket.AverageScore = float64(acc.sum) / float64(acc.bucket.AttemptsCount)
		acc.bucket.UniqueUsers = int64(len(acc.users))
		out = append(out, acc.bucket)
	}
	// Labels of one granularity sort chronologically as strings.
	sort.Slice(out, func(i, j int) bool { return out[i].Period > out[j].Period })
	return out
}
