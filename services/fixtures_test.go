package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"skillcheck/apperr"
	"skillcheck/cache"
	"skillcheck/logger"
	"skillcheck/models"
	"skillcheck/store"
	"skillcheck/store/storetest"
)

type testEnv struct {
	store       *store.GormStore
	cache       *cache.RedisCache
	mr          *miniredis.Miniredis
	invalidator *CacheInvalidator
	provider    *QuestionSetProvider
	scorer      *ScoringEngine
	recorder    *AttemptRecorder
	reports     *ReportAggregator
	hub         *ActivityHub
	quiz        *QuizService
	questions   *QuestionService
}

func newTestEnv(t *testing.T, opts ...QuestionSetOption) *testEnv {
	t.Helper()
	log := logger.Nop()

	s := storetest.Open(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	c := cache.NewRedisCache(client)

	env := &testEnv{store: s, cache: c, mr: mr}
	env.invalidator = NewCacheInvalidator(c, log)
	env.provider = NewQuestionSetProvider(s, c, log, opts...)
	env.scorer = NewScoringEngine(s)
	env.recorder = NewAttemptRecorder(s, env.scorer, env.invalidator, log)
	env.reports = NewReportAggregator(s, c, log)
	env.invalidator.Track(env.provider, env.reports)
	env.hub = NewActivityHub(log)
	env.quiz = NewQuizService(s, env.provider, env.recorder, env.reports, env.invalidator, env.hub)
	env.questions = NewQuestionService(s, env.invalidator, log)
	return env
}

func reverseShuffle(n int, swap func(i, j int)) {
	for i := 0; i < n/2; i++ {
		swap(i, n-1-i)
	}
}

func answer(q models.Question, selected string) SubmittedAnswer {
	return SubmittedAnswer{QuestionID: q.ID, SelectedOption: selected}
}

// memCache is an in-process Cache whose operations can be made to fail.
type memCache struct {
	mu       sync.Mutex
	data     map[string][]byte
	failGet  bool
	failSet  bool
	failDel  bool
	deletes  [][]string
	setCalls int
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return nil, false, apperr.ErrCacheUnavailable
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memCache) SetWithTTL(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalls++
	if m.failSet {
		return apperr.ErrCacheUnavailable
	}
	m.data[key] = value
	return nil
}

func (m *memCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes = append(m.deletes, keys)
	if m.failDel {
		return apperr.ErrCacheUnavailable
	}
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memCache) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

// failingInsertStore behaves like the wrapped store except that every
// attempt insert fails.
type failingInsertStore struct {
	*store.GormStore
	err error
}

func (f *failingInsertStore) InsertAttempt(context.Context, *models.QuizAttempt, []models.QuizAnswer) error {
	return f.err
}

type answerKeyFunc func(ctx context.Context, questionID uint) (models.Option, error)

func (f answerKeyFunc) FindQuestionCorrectOption(ctx context.Context, questionID uint) (models.Option, error) {
	return f(ctx, questionID)
}

type reportStoreStub struct {
	userCalls  int
	adminCalls int
	err        error
}

func (r *reportStoreStub) AggregateUserPerformance(context.Context, uint, int) (*models.UserPerformance, error) {
	r.userCalls++
	if r.err != nil {
		return nil, r.err
	}
	return &models.UserPerformance{Skills: []models.SkillPerformance{}, RecentActivity: []models.RecentAttempt{}}, nil
}

func (r *reportStoreStub) AggregateAdminStats(context.Context, int) (*models.AdminStats, error) {
	r.adminCalls++
	if r.err != nil {
		return nil, r.err
	}
	return &models.AdminStats{Users: models.UserCounts{Total: 7}}, nil
}

func (r *reportStoreStub) SkillGaps(context.Context) ([]models.SkillGap, error) {
	return []models.SkillGap{}, r.err
}

func (r *reportStoreStub) UserStats(context.Context) ([]models.UserStat, error) {
	return []models.UserStat{}, r.err
}

func (r *reportStoreStub) TimeAnalysis(context.Context, string, time.Time) ([]models.PeriodBucket, error) {
	return []models.PeriodBucket{}, r.err
}

// gate holds the first call that passes through it until release is closed.
type gate struct {
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func newGate() *gate {
	return &gate{entered: make(chan struct{}), release: make(chan struct{})}
}

func (g *gate) pass() {
	first := false
	g.once.Do(func() { first = true })
	if first {
		close(g.entered)
		<-g.release
	}
}

// gatedReportStore reports as many quizzes as were committed when the
// user-performance read began. The first read blocks on the gate.
type gatedReportStore struct {
	reportStoreStub
	*gate
	committed atomic.Int64
}

func (g *gatedReportStore) AggregateUserPerformance(ctx context.Context, _ uint, _ int) (*models.UserPerformance, error) {
	snapshot := g.committed.Load()
	g.pass()
	if err := ctx.Err(); err != nil {
		return nil, apperr.Unavailable(err)
	}
	return &models.UserPerformance{
		Overall:        models.OverallPerformance{TotalQuizzes: snapshot},
		Skills:         []models.SkillPerformance{},
		RecentActivity: []models.RecentAttempt{},
	}, nil
}

// gatedQuestionStore reads the questions, then blocks the first read on the
// gate before returning them.
type gatedQuestionStore struct {
	*store.GormStore
	*gate
}

func (g *gatedQuestionStore) ListQuestionsBySkill(ctx context.Context, skillID uint) ([]models.Question, error) {
	qs, err := g.GormStore.ListQuestionsBySkill(ctx, skillID)
	g.pass()
	if err == nil {
		err = ctx.Err()
	}
	return qs, err
}
