package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fardannozami/ecoscan-bot/internal/domain"
)

// rewardPointsSQL is the SQL form of domain.RewardValue.Points: trimmed
// plain decimal text truncated toward zero, 0 for anything else or anything
// outside 32 bits. The nested CASE keeps the cast behind the pattern check.
// It avoids "?" so gorm does not read a placeholder into it.
const rewardPointsSQL = `(CASE WHEN reward ~ '^\s*[-+]{0,1}[0-9]+(\.[0-9]+){0,1}\s*$'
	THEN (CASE WHEN trunc(reward::numeric) BETWEEN -2147483648 AND 2147483647 THEN trunc(reward::numeric)::bigint ELSE 0 END)
	ELSE 0 END)`

const standingsSQL = `
	WITH totals AS (
		SELECT
			u.id AS user_id,
			u.name AS name,
			COALESCE(SUM(CASE WHEN e.points > 0 THEN e.points ELSE 0 END), 0)::bigint AS earned_total,
			COALESCE(SUM(CASE WHEN e.points < 0 THEN -e.points ELSE 0 END), 0)::bigint AS spent_total
		FROM users u
		LEFT JOIN (SELECT user_id, ` + rewardPointsSQL + ` AS points FROM point_events) e ON e.user_id = u.id
		GROUP BY u.id, u.name
	),
	ranked AS (
		SELECT
			user_id, name, earned_total, spent_total,
			earned_total - spent_total AS balance,
			RANK() OVER (ORDER BY earned_total - spent_total DESC, earned_total DESC) AS standing
		FROM totals
	)
	SELECT user_id, name, earned_total, spent_total, balance, standing FROM ranked`

type standingRow struct {
	UserID      string `gorm:"column:user_id"`
	Name        string `gorm:"column:name"`
	EarnedTotal int    `gorm:"column:earned_total"`
	SpentTotal  int    `gorm:"column:spent_total"`
	Balance     int    `gorm:"column:balance"`
	Standing    int    `gorm:"column:standing"`
}

func (r standingRow) entry() *domain.LeaderboardEntry {
	return &domain.LeaderboardEntry{
		UserID:  r.UserID,
		Name:    r.Name,
		Earned:  r.EarnedTotal,
		Spent:   r.SpentTotal,
		Balance: r.Balance,
		Rank:    r.Standing,
	}
}

// AppendPointEvent writes a single ledger entry outside of any completion
// or redemption.
func (s *Store) AppendPointEvent(ctx context.Context, e *domain.PointEvent) error {
	return s.db.WithContext(ctx).Create(fromPointEvent(e)).Error
}

func (s *Store) ListPointEvents(ctx context.Context, userID string, from, to time.Time) ([]*domain.PointEvent, error) {
	var rows []pointEventModel
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, from, to).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toPointEvents(rows), nil
}

func (s *Store) ListRecentPointEvents(ctx context.Context, userID string, limit, offset int) ([]*domain.PointEvent, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []pointEventModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toPointEvents(rows), nil
}

func toPointEvents(rows []pointEventModel) []*domain.PointEvent {
	out := make([]*domain.PointEvent, len(rows))
	for i := range rows {
		out[i] = toPointEvent(&rows[i])
	}
	return out
}

func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var m userModel
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &domain.User{ID: m.ID, Name: m.Name, Email: m.Email, CreatedAt: m.CreatedAt}, nil
}

// UpsertUser keeps the original created_at of an existing user.
func (s *Store) UpsertUser(ctx context.Context, user *domain.User) error {
	m := userModel{ID: user.ID, Name: user.Name, Email: user.Email, CreatedAt: user.CreatedAt}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "email"}),
		}).
		Create(&m).Error
}

func (s *Store) TopBalances(ctx context.Context, limit int) ([]*domain.LeaderboardEntry, error) {
	query := standingsSQL + ` ORDER BY standing ASC, user_id ASC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	var rows []standingRow
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.LeaderboardEntry, len(rows))
	for i, r := range rows {
		out[i] = r.entry()
	}
	return out, nil
}

func (s *Store) UserStanding(ctx context.Context, userID string) (*domain.LeaderboardEntry, error) {
	var rows []standingRow
	if err := s.db.WithContext(ctx).Raw(standingsSQL+` WHERE user_id = ?`, userID).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].entry(), nil
}

// Redeem serialises redemptions per user with a transaction-scoped
// advisory lock, then checks the balance and writes both rows.
func (s *Store) Redeem(ctx context.Context, r *domain.Redemption) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`SELECT pg_advisory_xact_lock(hashtext(?))`, r.UserID).Error; err != nil {
			return err
		}

		var balance int
		err := tx.Raw(`SELECT COALESCE(SUM(`+rewardPointsSQL+`), 0)::bigint FROM point_events WHERE user_id = ?`, r.UserID).
			Scan(&balance).Error
		if err != nil {
			return err
		}
		if balance < r.PointsSpent {
			return domain.ErrInsufficientPoints
		}

		event := &pointEventModel{
			LogID:     r.ID,
			UserID:    r.UserID,
			Action:    domain.ActionRedeem,
			Reward:    string(domain.NewReward(-r.PointsSpent)),
			Status:    "redeemed",
			CreatedAt: r.CreatedAt,
		}
		if err := tx.Create(event).Error; err != nil {
			return err
		}
		return tx.Create(&redemptionModel{
			ID:          r.ID,
			UserID:      r.UserID,
			PointsSpent: r.PointsSpent,
			CouponCode:  r.CouponCode,
			CreatedAt:   r.CreatedAt,
		}).Error
	})
}

func (s *Store) ListRedemptions(ctx context.Context, userID string, limit int) ([]*domain.Redemption, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []redemptionModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Redemption, len(rows))
	for i, m := range rows {
		out[i] = &domain.Redemption{
			ID:          m.ID,
			UserID:      m.UserID,
			PointsSpent: m.PointsSpent,
			CouponCode:  m.CouponCode,
			CreatedAt:   m.CreatedAt,
		}
	}
	return out, nil
}
