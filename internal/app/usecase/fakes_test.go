package usecase_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fardannozami/ecoscan-bot/internal/domain"
)

// memStore is an in-memory stand-in for the relational store. It honours
// the same contracts as the SQL repositories: CompleteActivity is a
// compare-and-swap on status and Redeem checks the balance atomically.
type memStore struct {
	mu          sync.Mutex
	nextID      int64
	activities  map[int64]*domain.Activity
	events      []*domain.PointEvent
	users       map[string]*domain.User
	redemptions []*domain.Redemption

	// err is returned by every operation when set.
	err error
	// listCalls counts ListPointEvents calls.
	listCalls int
	// beforeComplete runs inside CompleteActivity, before the status check,
	// to simulate a concurrent writer.
	beforeComplete func(a *domain.Activity)
}

func newMemStore() *memStore {
	return &memStore{
		activities: make(map[int64]*domain.Activity),
		users:      make(map[string]*domain.User),
	}
}

func (m *memStore) addActivity(a *domain.Activity) *domain.Activity {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	cp := *a
	cp.ID = m.nextID
	if cp.Status == "" {
		cp.Status = domain.StatusActive
	}
	m.activities[cp.ID] = &cp
	return &cp
}

func (m *memStore) addEvent(userID string, reward domain.RewardValue, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, &domain.PointEvent{
		LogID:     time.Now().String(),
		UserID:    userID,
		Action:    "seed",
		Reward:    reward,
		CreatedAt: at,
	})
}

func (m *memStore) eventCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

func (m *memStore) status(id int64) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activities[id].Status
}

func (m *memStore) GetActivityByCode(ctx context.Context, code string) (*domain.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, a := range m.activities {
		if a.Code == code {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) CompleteActivity(ctx context.Context, id int64, award *domain.PointEvent) (*domain.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	a, ok := m.activities[id]
	if m.beforeComplete != nil {
		m.beforeComplete(a)
		a, ok = m.activities[id]
	}
	if !ok || a.Status != domain.StatusActive {
		return nil, nil
	}
	a.Status = domain.StatusCompleted
	if award != nil {
		m.events = append(m.events, award)
	}
	cp := *a
	return &cp, nil
}

func (m *memStore) GetActivityStatus(ctx context.Context, id int64) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", false, m.err
	}
	a, ok := m.activities[id]
	if !ok {
		return "", false, nil
	}
	return a.Status, true, nil
}

func (m *memStore) ListActivities(ctx context.Context, filter domain.ActivityFilter) ([]*domain.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.Activity
	for _, a := range m.activities {
		if filter.Category != "" && a.Category != filter.Category {
			continue
		}
		if len(filter.Statuses) > 0 && !containsString(filter.Statuses, a.Status) {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsActive() != out[j].IsActive() {
			return out[i].IsActive()
		}
		if out[i].QValue != out[j].QValue {
			return out[i].QValue > out[j].QValue
		}
		return out[i].ID > out[j].ID
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m *memStore) SeedActivity(ctx context.Context, a *domain.Activity) (bool, error) {
	if existing, _ := m.GetActivityByCode(ctx, a.Code); existing != nil {
		return false, nil
	}
	m.addActivity(a)
	return true, nil
}

func (m *memStore) ListPointEvents(ctx context.Context, userID string, from, to time.Time) ([]*domain.PointEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.PointEvent
	for _, e := range m.events {
		if e.UserID == userID && !e.CreatedAt.Before(from) && e.CreatedAt.Before(to) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) ListRecentPointEvents(ctx context.Context, userID string, limit, offset int) ([]*domain.PointEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.PointEvent
	for _, e := range m.events {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) GetUser(ctx context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) UpsertUser(ctx context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memStore) balances() []*domain.LeaderboardEntry {
	totals := make(map[string]*domain.LeaderboardEntry)
	for id, u := range m.users {
		totals[id] = &domain.LeaderboardEntry{UserID: id, Name: u.Name}
	}
	for _, e := range m.events {
		t, ok := totals[e.UserID]
		if !ok {
			continue
		}
		p := e.Reward.Points()
		if p > 0 {
			t.Earned += p
		} else {
			t.Spent -= p
		}
	}
	var out []*domain.LeaderboardEntry
	for _, t := range totals {
		t.Balance = t.Earned - t.Spent
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Balance != out[j].Balance {
			return out[i].Balance > out[j].Balance
		}
		if out[i].Earned != out[j].Earned {
			return out[i].Earned > out[j].Earned
		}
		return out[i].UserID < out[j].UserID
	})
	for i, e := range out {
		e.Rank = i + 1
		if i > 0 && e.Balance == out[i-1].Balance && e.Earned == out[i-1].Earned {
			e.Rank = out[i-1].Rank
		}
	}
	return out
}

func (m *memStore) TopBalances(ctx context.Context, limit int) ([]*domain.LeaderboardEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := m.balances()
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) UserStanding(ctx context.Context, userID string) (*domain.LeaderboardEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, e := range m.balances() {
		if e.UserID == userID {
			return e, nil
		}
	}
	return nil, nil
}

func (m *memStore) Redeem(ctx context.Context, r *domain.Redemption) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	balance := 0
	for _, e := range m.events {
		if e.UserID == r.UserID {
			balance += e.Reward.Points()
		}
	}
	if balance < r.PointsSpent {
		return domain.ErrInsufficientPoints
	}
	m.events = append(m.events, &domain.PointEvent{
		LogID:     r.ID,
		UserID:    r.UserID,
		Action:    domain.ActionRedeem,
		Reward:    domain.NewReward(-r.PointsSpent),
		Status:    "redeemed",
		CreatedAt: r.CreatedAt,
	})
	cp := *r
	m.redemptions = append(m.redemptions, &cp)
	return nil
}

func (m *memStore) ListRedemptions(ctx context.Context, userID string, limit int) ([]*domain.Redemption, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.Redemption
	for i := len(m.redemptions) - 1; i >= 0; i-- {
		if m.redemptions[i].UserID == userID {
			out = append(out, m.redemptions[i])
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
