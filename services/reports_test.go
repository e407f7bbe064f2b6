package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillcheck/apperr"
	"skillcheck/cache"
	"skillcheck/logger"
	"skillcheck/models"
	"skillcheck/store"
	"skillcheck/store/storetest"
)

func TestAdminStatsRefreshOnlyByExpiry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := storetest.SeedUser(t, env.store, "ada", models.RoleUser)
	skill := storetest.SeedSkill(t, env.store, "Arrays")
	qs := storetest.SeedQuestions(t, env.store, skill.ID, models.OptionA)

	stats, err := env.reports.GetAdminStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Quizzes.TotalAttempts)
	assert.Equal(t, cache.DefaultAdminStatsTTL, env.mr.TTL(cache.AdminStatsKey))

	_, err = env.recorder.RecordAttempt(ctx, user.ID, skill.ID, []SubmittedAnswer{answer(qs[0], "A")}, nil)
	require.NoError(t, err)

	stats, err = env.reports.GetAdminStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Quizzes.TotalAttempts, "attempts do not invalidate the dashboard")

	env.mr.FastForward(cache.DefaultAdminStatsTTL + time.Second)
	stats, err = env.reports.GetAdminStats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.Quizzes.TotalAttempts)
	require.Len(t, stats.RecentActivity, 1)
	assert.Equal(t, "ada", stats.RecentActivity[0].Username)
}

func TestUserPerformanceTTL(t *testing.T) {
	env := newTestEnv(t)
	user := storetest.SeedUser(t, env.store, "ada", models.RoleUser)

	_, err := env.reports.GetUserPerformance(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, cache.DefaultUserPerformanceTTL, env.mr.TTL(cache.UserPerformanceKey(user.ID)))
}

func TestReportsServeFromCache(t *testing.T) {
	stub := &reportStoreStub{}
	mc := newMemCache()
	r := NewReportAggregator(stub, mc, logger.Nop(), WithAdminStatsTTL(time.Minute))
	ctx := context.Background()

	for range 3 {
		stats, err := r.GetAdminStats(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 7, stats.Users.Total)
		_, err = r.GetUserPerformance(ctx, 1)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, stub.adminCalls)
	assert.Equal(t, 1, stub.userCalls)
}

func TestReportsCacheDown(t *testing.T) {
	stub := &reportStoreStub{}
	mc := newMemCache()
	mc.failGet = true
	mc.failSet = true
	r := NewReportAggregator(stub, mc, logger.Nop())
	ctx := context.Background()

	for range 2 {
		stats, err := r.GetAdminStats(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 7, stats.Users.Total)
	}
	assert.Equal(t, 2, stub.adminCalls)
}

func TestReportsStoreFailurePropagates(t *testing.T) {
	stub := &reportStoreStub{err: apperr.Unavailable(assert.AnError)}
	mc := newMemCache()
	r := NewReportAggregator(stub, mc, logger.Nop())
	ctx := context.Background()

	_, err := r.GetUserPerformance(ctx, 1)
	assert.ErrorIs(t, err, apperr.ErrStoreUnavailable)
	_, err = r.GetAdminStats(ctx)
	assert.ErrorIs(t, err, apperr.ErrStoreUnavailable)
	assert.Zero(t, mc.setCalls)
}

func TestReportsCorruptEntry(t *testing.T) {
	stub := &reportStoreStub{}
	mc := newMemCache()
	mc.data[cache.AdminStatsKey] = []byte("[]garbage")
	r := NewReportAggregator(stub, mc, logger.Nop())

	stats, err := r.GetAdminStats(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 7, stats.Users.Total)
	assert.Equal(t, 1, stub.adminCalls)
	require.NotEmpty(t, mc.deletes)
	assert.Equal(t, []string{cache.AdminStatsKey}, mc.deletes[0])
}

func TestTimeAnalysisWindowAndPeriod(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := storetest.SeedUser(t, env.store, "ada", models.RoleUser)
	skill := storetest.SeedSkill(t, env.store, "Arrays")
	now := time.Now()
	storetest.SeedAttempt(t, env.store, user.ID, skill.ID, 80, now)
	storetest.SeedAttempt(t, env.store, user.ID, skill.ID, 20, now.AddDate(0, -TimeAnalysisMonths-1, 0))

	report, err := env.reports.GetTimeAnalysis(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, models.PeriodWeek, report.Period)
	require.Len(t, report.Data, 1)
	assert.Equal(t, store.PeriodLabel(models.PeriodWeek, now), report.Data[0].Period)
	assert.InDelta(t, 80.0, report.Data[0].AverageScore, 0.001)

	report, err = env.reports.GetTimeAnalysis(ctx, models.PeriodQuarter)
	require.NoError(t, err)
	assert.Equal(t, models.PeriodQuarter, report.Period)
	require.Len(t, report.Data, 1)
	assert.EqualValues(t, 1, report.Data[0].AttemptsCount)

	_, err = env.reports.GetTimeAnalysis(ctx, "year")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestUserStatsIsNotCached(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := storetest.SeedUser(t, env.store, "ada", models.RoleUser)
	skill := storetest.SeedSkill(t, env.store, "Arrays")

	users, err := env.reports.GetUserStats(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Zero(t, users[0].QuizzesTaken)

	storetest.SeedAttempt(t, env.store, user.ID, skill.ID, 50, time.Now())
	users, err = env.reports.GetUserStats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, users[0].QuizzesTaken)
}
