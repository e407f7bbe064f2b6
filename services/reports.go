package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"skillcheck/apperr"
	"skillcheck/cache"
	"skillcheck/logger"
	"skillcheck/models"
	"skillcheck/store"
)

// RecentActivityLimit caps the recent-attempt lists of both reports.
const RecentActivityLimit = 10

// TimeAnalysisMonths is how far back the time analysis report looks.
const TimeAnalysisMonths = 6

// ReportAggregator serves the per-user and system-wide reports, cache-aside.
// The admin dashboard is only ever refreshed by expiry.
type ReportAggregator struct {
	store    store.ReportStore
	cache    cache.Cache
	userTTL  time.Duration
	adminTTL time.Duration
	loads    *loadGroup
	log      *logger.Logger
}

type ReportOption func(*ReportAggregator)

func WithUserPerformanceTTL(ttl time.Duration) ReportOption {
	return func(r *ReportAggregator) {
		if ttl > 0 {
			r.userTTL = ttl
		}
	}
}

func WithAdminStatsTTL(ttl time.Duration) ReportOption {
	return func(r *ReportAggregator) {
		if ttl > 0 {
			r.adminTTL = ttl
		}
	}
}

func NewReportAggregator(s store.ReportStore, c cache.Cache, log *logger.Logger, opts ...ReportOption) *ReportAggregator {
	r := &ReportAggregator{
		store:    s,
		cache:    c,
		userTTL:  cache.DefaultUserPerformanceTTL,
		adminTTL: cache.DefaultAdminStatsTTL,
		log:      log.With("service", "ReportAggregator"),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.loads = newLoadGroup(c, r.log)
	return r
}

func (r *ReportAggregator) GetUserPerformance(ctx context.Context, userID uint) (*models.UserPerformance, error) {
	key := cache.UserPerformanceKey(userID)
	read := func(ctx context.Context) (any, bool) {
		var report models.UserPerformance
		return &report, r.fromCache(ctx, key, &report)
	}
	v, err := r.loads.do(ctx, key, r.userTTL, read, func(ctx context.Context) (any, error) {
		return r.store.AggregateUserPerformance(ctx, userID, RecentActivityLimit)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.UserPerformance), nil
}

func (r *ReportAggregator) GetAdminStats(ctx context.Context) (*models.AdminStats, error) {
	read := func(ctx context.Context) (any, bool) {
		var stats models.AdminStats
		return &stats, r.fromCache(ctx, cache.AdminStatsKey, &stats)
	}
	v, err := r.loads.do(ctx, cache.AdminStatsKey, r.adminTTL, read, func(ctx context.Context) (any, error) {
		return r.store.AggregateAdminStats(ctx, RecentActivityLimit)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.AdminStats), nil
}

// GetSkillGaps is computed on every call.
func (r *ReportAggregator) GetSkillGaps(ctx context.Context) ([]models.SkillGap, error) {
	return r.store.SkillGaps(ctx)
}

// GetUserStats is computed on every call.
func (r *ReportAggregator) GetUserStats(ctx context.Context) ([]models.UserStat, error) {
	return r.store.UserStats(ctx)
}

// GetTimeAnalysis buckets the last TimeAnalysisMonths of attempts by week,
// month or quarter. An empty period means week.
func (r *ReportAggregator) GetTimeAnalysis(ctx context.Context, period string) (*models.TimeAnalysis, error) {
	switch period {
	case "":
		period = models.PeriodWeek
	case models.PeriodWeek, models.PeriodMonth, models.PeriodQuarter:
	default:
		return nil, fmt.Errorf("period must be week, month or quarter: %w", apperr.ErrInvalidInput)
	}

	since := time.Now().AddDate(0, -TimeAnalysisMonths, 0)
	buckets, err := r.store.TimeAnalysis(ctx, period, since)
	if err != nil {
		return nil, err
	}
	return &models.TimeAnalysis{Period: period, Data: buckets}, nil
}

func (r *ReportAggregator) fromCache(ctx context.Context, key string, dst any) bool {
	data, found, err := r.cache.Get(ctx, key)
	if err != nil {
		r.log.Warn("cache read failed, falling back to store", "key", key, "error", err)
		return false
	}
	if !found {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		r.log.Warn("discarding unreadable cache entry", "key", key, "error", err)
		if err := r.cache.Delete(ctx, key); err != nil {
			r.log.Warn("cache delete failed", "key", key, "error", err)
		}
		return false
	}
	return true
}

func (r *ReportAggregator) forget(key string) {
	r.loads.forget(key)
}
