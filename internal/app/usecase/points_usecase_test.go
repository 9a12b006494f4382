package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fardannozami/ecoscan-bot/internal/app/usecase"
	"github.com/fardannozami/ecoscan-bot/internal/domain"
)

// =============================================================================
// POINT AGGREGATION TESTS
// =============================================================================
//
// Windows are half-open [from, to) in local time:
// - day:  [midnight, next midnight)
// - week: [Monday 00:00, +7 days)
//
// Non-numeric rewards count as zero. Store failures report zero instead of
// an error.
//
// =============================================================================

var testLoc = time.FixedZone("WIB", 7*3600)

// Saturday 17 October 2026, 15:00 local.
var testNow = time.Date(2026, 10, 17, 15, 0, 0, 0, testLoc)

func newPointsUC(store *memStore) *usecase.PointsUsecase {
	return usecase.NewPointsUsecase(store, testLoc).WithClock(func() time.Time { return testNow })
}

func TestSumPoints_NonNumericCountsAsZero(t *testing.T) {
	store := newMemStore()
	dayStart := time.Date(2026, 10, 17, 0, 0, 0, 0, testLoc)
	store.addEvent("u", "10", dayStart.Add(time.Hour))
	store.addEvent("u", "-5", dayStart.Add(2*time.Hour))
	store.addEvent("u", "bad", dayStart.Add(3*time.Hour))
	uc := newPointsUC(store)

	got := uc.SumPoints(context.Background(), "u", dayStart, dayStart.AddDate(0, 0, 1))
	if got != 5 {
		t.Errorf("Expected 5, got %d", got)
	}
}

func TestSumPoints_HalfOpenInterval(t *testing.T) {
	store := newMemStore()
	from := time.Date(2026, 10, 17, 0, 0, 0, 0, testLoc)
	to := from.AddDate(0, 0, 1)
	store.addEvent("u", "1", from)                   // included
	store.addEvent("u", "2", to.Add(-time.Second))   // included
	store.addEvent("u", "4", to)                     // excluded
	store.addEvent("u", "8", from.Add(-time.Second)) // excluded
	store.addEvent("other", "16", from)              // other user
	uc := newPointsUC(store)

	if got := uc.SumPoints(context.Background(), "u", from, to); got != 3 {
		t.Errorf("Expected 3, got %d", got)
	}
}

func TestSumPoints_EmptyAndFailure(t *testing.T) {
	store := newMemStore()
	uc := newPointsUC(store)
	ctx := context.Background()

	if got := uc.SumPoints(ctx, "nobody", testNow.Add(-time.Hour), testNow); got != 0 {
		t.Errorf("Empty log: expected 0, got %d", got)
	}

	store.addEvent("u", "10", testNow)
	store.err = errors.New("timeout")
	if got := uc.SumPoints(ctx, "u", testNow.Add(-time.Hour), testNow.Add(time.Hour)); got != 0 {
		t.Errorf("Store failure: expected 0, got %d", got)
	}
}

func TestDailyPoints(t *testing.T) {
	store := newMemStore()
	store.addEvent("u", "10", time.Date(2026, 10, 17, 0, 0, 0, 0, testLoc))
	store.addEvent("u", "20", time.Date(2026, 10, 17, 23, 59, 0, 0, testLoc))
	store.addEvent("u", "40", time.Date(2026, 10, 16, 23, 59, 0, 0, testLoc))
	uc := newPointsUC(store)
	ctx := context.Background()

	if got := uc.DailyPoints(ctx, "u", time.Time{}); got != 30 {
		t.Errorf("Today: expected 30, got %d", got)
	}
	if got := uc.DailyPoints(ctx, "u", time.Date(2026, 10, 16, 12, 0, 0, 0, testLoc)); got != 40 {
		t.Errorf("Yesterday: expected 40, got %d", got)
	}
}

func TestWeeklyPoints_MondayToSunday(t *testing.T) {
	store := newMemStore()
	monday := time.Date(2026, 10, 12, 0, 0, 0, 0, testLoc)
	store.addEvent("u", "1", monday)                   // Monday 00:00, included
	store.addEvent("u", "2", monday.AddDate(0, 0, 6))  // Sunday, included
	store.addEvent("u", "4", monday.AddDate(0, 0, 7))  // next Monday, excluded
	store.addEvent("u", "8", monday.Add(-time.Minute)) // previous Sunday, excluded
	uc := newPointsUC(store)

	if got := uc.WeeklyPoints(context.Background(), "u", time.Time{}); got != 3 {
		t.Errorf("Expected 3, got %d", got)
	}
}

func TestDailyBreakdown_ZeroFilledAscending(t *testing.T) {
	store := newMemStore()
	uc := newPointsUC(store)

	var got []domain.DailyTotal
	for d := range uc.DailyBreakdown(context.Background(), "nobody", 3) {
		got = append(got, d)
	}

	want := []string{"2026-10-15", "2026-10-16", "2026-10-17"}
	if len(got) != len(want) {
		t.Fatalf("Expected %d entries, got %d", len(want), len(got))
	}
	for i, d := range got {
		if d.Key() != want[i] {
			t.Errorf("Entry %d: expected %s, got %s", i, want[i], d.Key())
		}
		if d.Total != 0 {
			t.Errorf("Entry %d: expected 0, got %d", i, d.Total)
		}
	}
}

func TestDailyBreakdown_BucketsByLocalDate(t *testing.T) {
	store := newMemStore()
	// 18:30 UTC on the 15th is 01:30 on the 16th in WIB.
	store.addEvent("u", "10", time.Date(2026, 10, 15, 18, 30, 0, 0, time.UTC))
	store.addEvent("u", "5", time.Date(2026, 10, 17, 8, 0, 0, 0, testLoc))
	store.addEvent("u", "bad", time.Date(2026, 10, 17, 9, 0, 0, 0, testLoc))
	store.addEvent("u", "7", time.Date(2026, 10, 14, 12, 0, 0, 0, testLoc)) // before the window
	uc := newPointsUC(store)

	totals := map[string]int{}
	count := 0
	for d := range uc.DailyBreakdown(context.Background(), "u", 3) {
		totals[d.Key()] = d.Total
		count++
	}

	if count != 3 {
		t.Fatalf("Expected 3 entries, got %d", count)
	}
	if totals["2026-10-15"] != 0 || totals["2026-10-16"] != 10 || totals["2026-10-17"] != 5 {
		t.Errorf("Unexpected totals: %v", totals)
	}
}

func TestDailyBreakdown_Restartable(t *testing.T) {
	store := newMemStore()
	store.addEvent("u", "3", testNow)
	uc := newPointsUC(store)

	seq := uc.DailyBreakdown(context.Background(), "u", 7)
	sum := func() (n, total int) {
		for d := range seq {
			n++
			total += d.Total
		}
		return n, total
	}

	n1, t1 := sum()
	n2, t2 := sum()
	if n1 != 7 || n2 != 7 || t1 != 3 || t2 != 3 {
		t.Errorf("Expected two identical passes of 7 entries totalling 3, got (%d,%d) and (%d,%d)", n1, t1, n2, t2)
	}

	// Stopping early must not panic.
	for range seq {
		break
	}
}

func TestDailyBreakdown_QueriesOnFirstIteration(t *testing.T) {
	store := newMemStore()
	store.addEvent("u", "3", testNow)
	uc := newPointsUC(store)

	seq := uc.DailyBreakdown(context.Background(), "u", 2)
	if store.listCalls != 0 {
		t.Fatalf("Expected no query before iterating, got %d", store.listCalls)
	}

	// Events written before the first pass are seen.
	store.addEvent("u", "4", testNow)
	total := 0
	for d := range seq {
		total += d.Total
	}
	for range seq {
	}
	if store.listCalls != 1 {
		t.Errorf("Expected exactly one query across two passes, got %d", store.listCalls)
	}
	if total != 7 {
		t.Errorf("Expected 7, got %d", total)
	}
}

func TestDailyBreakdown_EdgeCases(t *testing.T) {
	store := newMemStore()
	uc := newPointsUC(store)
	ctx := context.Background()

	for range uc.DailyBreakdown(ctx, "u", 0) {
		t.Error("Zero days should yield nothing")
	}

	store.err = errors.New("timeout")
	n := 0
	for d := range uc.DailyBreakdown(ctx, "u", 4) {
		n++
		if d.Total != 0 {
			t.Errorf("Store failure should yield zero totals, got %d", d.Total)
		}
	}
	if n != 4 {
		t.Errorf("Store failure should still yield 4 entries, got %d", n)
	}
}
