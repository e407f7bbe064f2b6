package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillcheck/apperr"
	"skillcheck/cache"
	"skillcheck/logger"
	"skillcheck/models"
	"skillcheck/store/storetest"
)

func TestRecordAttemptPersistsAnswers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := storetest.SeedUser(t, env.store, "ada", models.RoleUser)
	skill := storetest.SeedSkill(t, env.store, "Arrays")
	qs := storetest.SeedQuestions(t, env.store, skill.ID, models.OptionA, models.OptionB, models.OptionC)
	took := 95

	res, err := env.recorder.RecordAttempt(ctx, user.ID, skill.ID, []SubmittedAnswer{
		answer(qs[0], "A"), answer(qs[1], "B"), answer(qs[2], "D"),
	}, &took)
	require.NoError(t, err)
	assert.NotZero(t, res.AttemptID)
	assert.Equal(t, 67, res.Score)
	assert.Equal(t, 2, res.CorrectCount)
	assert.Equal(t, "Arrays", res.SkillName)
	assert.False(t, res.CompletedAt.IsZero())

	detail, err := env.store.FindAttemptDetail(ctx, user.ID, res.AttemptID)
	require.NoError(t, err)
	assert.Equal(t, 67, detail.Attempt.Score)
	assert.Equal(t, 3, detail.Attempt.TotalQuestions)
	require.NotNil(t, detail.Attempt.TimeTakenSeconds)
	assert.Equal(t, 95, *detail.Attempt.TimeTakenSeconds)
	require.Len(t, detail.Answers, 3)
	assert.False(t, detail.Answers[2].IsCorrect)
}

func TestRecordAttemptSkipsRowsForUnknownQuestions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := storetest.SeedUser(t, env.store, "ada", models.RoleUser)
	skill := storetest.SeedSkill(t, env.store, "Arrays")
	qs := storetest.SeedQuestions(t, env.store, skill.ID, models.OptionA, models.OptionB, models.OptionC)

	res, err := env.recorder.RecordAttempt(ctx, user.ID, skill.ID, []SubmittedAnswer{
		answer(qs[0], "A"), answer(qs[1], "B"), answer(qs[2], "C"), {QuestionID: 5000, SelectedOption: "A"},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, res.TotalQuestions)
	assert.Equal(t, 3, res.CorrectCount)
	assert.Equal(t, 75, res.Score)

	detail, err := env.store.FindAttemptDetail(ctx, user.ID, res.AttemptID)
	require.NoError(t, err)
	assert.Equal(t, 4, detail.Attempt.TotalQuestions)
	assert.Len(t, detail.Answers, 3)
}

func TestRecordAttemptUnknownSkill(t *testing.T) {
	env := newTestEnv(t)
	user := storetest.SeedUser(t, env.store, "ada", models.RoleUser)

	_, err := env.recorder.RecordAttempt(context.Background(), user.ID, 77, nil, nil)
	assert.ErrorIs(t, err, apperr.ErrSkillNotFound)
}

func TestRecordAttemptRefreshesUserPerformance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := storetest.SeedUser(t, env.store, "ada", models.RoleUser)
	skill := storetest.SeedSkill(t, env.store, "Arrays")
	qs := storetest.SeedQuestions(t, env.store, skill.ID, models.OptionA, models.OptionB)

	before, err := env.reports.GetUserPerformance(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, before.Overall.TotalQuizzes)
	require.True(t, env.mr.Exists(cache.UserPerformanceKey(user.ID)))

	res, err := env.recorder.RecordAttempt(ctx, user.ID, skill.ID, []SubmittedAnswer{
		answer(qs[0], "A"), answer(qs[1], "A"),
	}, nil)
	require.NoError(t, err)
	assert.False(t, env.mr.Exists(cache.UserPerformanceKey(user.ID)))

	after, err := env.reports.GetUserPerformance(ctx, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, after.Overall.TotalQuizzes)
	require.Len(t, after.RecentActivity, 1)
	assert.Equal(t, res.AttemptID, after.RecentActivity[0].AttemptID)
	assert.Equal(t, 50, after.RecentActivity[0].Score)
}

func TestRecordAttemptStoreFailureLeavesCacheAlone(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := storetest.SeedUser(t, env.store, "ada", models.RoleUser)
	skill := storetest.SeedSkill(t, env.store, "Arrays")
	qs := storetest.SeedQuestions(t, env.store, skill.ID, models.OptionA)

	key := cache.UserPerformanceKey(user.ID)
	require.NoError(t, env.mr.Set(key, `{"overall":{"total_quizzes":0}}`))

	failing := &failingInsertStore{GormStore: env.store, err: apperr.Unavailable(assert.AnError)}
	recorder := NewAttemptRecorder(failing, env.scorer, env.invalidator, logger.Nop())

	_, err := recorder.RecordAttempt(ctx, user.ID, skill.ID, []SubmittedAnswer{answer(qs[0], "A")}, nil)
	assert.ErrorIs(t, err, apperr.ErrStoreUnavailable)
	assert.True(t, env.mr.Exists(key))

	history, total, err := env.store.ListAttempts(ctx, user.ID, 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, history)
}

func TestRecordAttemptSurvivesCacheFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := storetest.SeedUser(t, env.store, "ada", models.RoleUser)
	skill := storetest.SeedSkill(t, env.store, "Arrays")
	qs := storetest.SeedQuestions(t, env.store, skill.ID, models.OptionA)

	mc := newMemCache()
	mc.failDel = true
	recorder := NewAttemptRecorder(env.store, env.scorer, NewCacheInvalidator(mc, logger.Nop()), logger.Nop())

	res, err := recorder.RecordAttempt(ctx, user.ID, skill.ID, []SubmittedAnswer{answer(qs[0], "A")}, nil)
	require.NoError(t, err)
	assert.Equal(t, 100, res.Score)
	require.Len(t, mc.deletes, 1)
	assert.Equal(t, []string{cache.UserPerformanceKey(user.ID)}, mc.deletes[0])
}
