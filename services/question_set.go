package services

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"slices"
	"time"

	"skillcheck/apperr"
	"skillcheck/cache"
	"skillcheck/logger"
	"skillcheck/models"
	"skillcheck/store"
)

// ShuffleFunc permutes n elements in place through swap.
type ShuffleFunc func(n int, swap func(i, j int))

// QuestionSetProvider serves the question set of a skill, cache-aside. The
// order is randomized once when the entry is populated, so every caller within
// one TTL window sees the same order.
type QuestionSetProvider struct {
	store   store.QuestionStore
	cache   cache.Cache
	ttl     time.Duration
	shuffle ShuffleFunc
	loads   *loadGroup
	log     *logger.Logger
}

type QuestionSetOption func(*QuestionSetProvider)

func WithQuestionSetTTL(ttl time.Duration) QuestionSetOption {
	return func(p *QuestionSetProvider) {
		if ttl > 0 {
			p.ttl = ttl
		}
	}
}

func WithShuffle(fn ShuffleFunc) QuestionSetOption {
	return func(p *QuestionSetProvider) {
		if fn != nil {
			p.shuffle = fn
		}
	}
}

func NewQuestionSetProvider(s store.QuestionStore, c cache.Cache, log *logger.Logger, opts ...QuestionSetOption) *QuestionSetProvider {
	p := &QuestionSetProvider{
		store:   s,
		cache:   c,
		ttl:     cache.DefaultQuestionSetTTL,
		shuffle: rand.Shuffle,
		log:     log.With("service", "QuestionSetProvider"),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.loads = newLoadGroup(c, p.log)
	return p
}

// GetQuestionSet returns the skill's questions without their correct options.
// It fails with apperr.ErrSkillNotFound for an unknown skill and
// apperr.ErrNoQuestions when the skill has an empty bank. The returned slice
// belongs to the caller.
func (p *QuestionSetProvider) GetQuestionSet(ctx context.Context, skillID uint) ([]models.QuestionView, error) {
	key := cache.QuestionSetKey(skillID)
	read := func(ctx context.Context) (any, bool) {
		return p.fromCache(ctx, key)
	}
	v, err := p.loads.do(ctx, key, p.ttl, read, func(ctx context.Context) (any, error) {
		return p.load(ctx, skillID)
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]models.QuestionView)), nil
}

func (p *QuestionSetProvider) forget(key string) {
	p.loads.forget(key)
}

func (p *QuestionSetProvider) fromCache(ctx context.Context, key string) ([]models.QuestionView, bool) {
	data, found, err := p.cache.Get(ctx, key)
	if err != nil {
		p.log.Warn("cache read failed, falling back to store", "key", key, "error", err)
		return nil, false
	}
	if !found {
		return nil, false
	}

	var views []models.QuestionView
	if err := json.Unmarshal(data, &views); err != nil || len(views) == 0 {
		p.log.Warn("discarding unreadable cache entry", "key", key, "error", err)
		if err := p.cache.Delete(ctx, key); err != nil {
			p.log.Warn("cache delete failed", "key", key, "error", err)
		}
		return nil, false
	}
	return views, true
}

func (p *QuestionSetProvider) load(ctx context.Context, skillID uint) ([]models.QuestionView, error) {
	if _, err := p.store.FindSkill(ctx, skillID); err != nil {
		return nil, err
	}

	questions, err := p.store.ListQuestionsBySkill(ctx, skillID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, apperr.ErrNoQuestions
	}

	views := make([]models.QuestionView, len(questions))
	for i, q := range questions {
		views[i] = q.View()
	}
	p.shuffle(len(views), func(i, j int) { views[i], views[j] = views[j], views[i] })
	return views, nil
}
