package usecase

import (
	"context"
	"iter"
	"sync"
	"time"

	"github.com/fardannozami/ecoscan-bot/internal/domain"
	"github.com/fardannozami/ecoscan-bot/internal/logging"
	"github.com/fardannozami/ecoscan-bot/internal/metrics"
)

// PointsUsecase computes point totals over local-time windows. Totals are
// display statistics: a store failure is logged and counts as zero.
type PointsUsecase struct {
	repo domain.PointEventRepository
	loc  *time.Location
	now  func() time.Time
}

func NewPointsUsecase(repo domain.PointEventRepository, loc *time.Location) *PointsUsecase {
	if loc == nil {
		loc = time.Local
	}
	return &PointsUsecase{repo: repo, loc: loc, now: time.Now}
}

// SumPoints sums the user's rewards with from <= created_at < to.
func (uc *PointsUsecase) SumPoints(ctx context.Context, userID string, from, to time.Time) int {
	events, err := uc.repo.ListPointEvents(ctx, userID, from, to)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("sum points").Inc()
		logging.Warn().Err(err).Str("user_id", userID).Msg("sum points failed, reporting zero")
		return 0
	}
	return domain.SumRewards(events)
}

// DailyPoints sums the calendar day of day; a zero day means today.
func (uc *PointsUsecase) DailyPoints(ctx context.Context, userID string, day time.Time) int {
	w := domain.DayWindow(uc.orNow(day), uc.loc)
	return uc.SumPoints(ctx, userID, w.From, w.To)
}

// WeeklyPoints sums the Monday-based week of ref; a zero ref means now.
func (uc *PointsUsecase) WeeklyPoints(ctx context.Context, userID string, ref time.Time) int {
	w := domain.WeekWindow(uc.orNow(ref), uc.loc)
	return uc.SumPoints(ctx, userID, w.From, w.To)
}

// DailyBreakdown returns one total per day for the last days days, oldest
// first, ending today. Every day is present even with no events. The log
// is queried once, on the first iteration; later iterations replay the
// same totals.
func (uc *PointsUsecase) DailyBreakdown(ctx context.Context, userID string, days int) iter.Seq[domain.DailyTotal] {
	if days < 1 {
		return func(func(domain.DailyTotal) bool) {}
	}

	var (
		once    sync.Once
		buckets []domain.DailyTotal
	)
	load := func() {
		buckets = uc.breakdown(ctx, userID, days)
	}

	return func(yield func(domain.DailyTotal) bool) {
		once.Do(load)
		for _, b := range buckets {
			if !yield(b) {
				return
			}
		}
	}
}

func (uc *PointsUsecase) breakdown(ctx context.Context, userID string, days int) []domain.DailyTotal {
	window := domain.TrailingDays(uc.now(), days, uc.loc)
	buckets := make([]domain.DailyTotal, days)
	index := make(map[string]int, days)
	for i := range buckets {
		buckets[i] = domain.DailyTotal{Date: window.From.AddDate(0, 0, i)}
		index[buckets[i].Key()] = i
	}

	events, err := uc.repo.ListPointEvents(ctx, userID, window.From, window.To)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("daily breakdown").Inc()
		logging.Warn().Err(err).Str("user_id", userID).Msg("daily breakdown failed, reporting zeros")
		return buckets
	}
	for _, e := range events {
		if e == nil {
			continue
		}
		i, ok := index[e.CreatedAt.In(uc.loc).Format(domain.DateKeyLayout)]
		if !ok {
			continue
		}
		buckets[i].Total += e.Reward.Points()
	}
	return buckets
}

// WithClock replaces the time source used for "today" and "this week".
func (uc *PointsUsecase) WithClock(now func() time.Time) *PointsUsecase {
	uc.now = now
	return uc
}

func (uc *PointsUsecase) orNow(t time.Time) time.Time {
	if t.IsZero() {
		return uc.now()
	}
	return t
}
