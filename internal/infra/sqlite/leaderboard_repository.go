package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fardannozami/ecoscan-bot/internal/domain"
)

// standingsQuery ranks every registered user by balance, then by lifetime
// earnings. Rewards are converted with rewardPoints.
var standingsQuery = `
	WITH totals AS (
		SELECT
			u.id AS user_id,
			u.name AS name,
			COALESCE(SUM(CASE WHEN e.points > 0 THEN e.points ELSE 0 END), 0) AS earned_total,
			COALESCE(SUM(CASE WHEN e.points < 0 THEN -e.points ELSE 0 END), 0) AS spent_total
		FROM users u
		LEFT JOIN (SELECT user_id, ` + rewardPoints("reward") + ` AS points FROM point_events) e ON e.user_id = u.id
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

type LeaderboardRepository struct {
	db *sql.DB
}

func NewLeaderboardRepository(db *sql.DB) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

func (r *LeaderboardRepository) TopBalances(ctx context.Context, limit int) ([]*domain.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, standingsQuery+` ORDER BY standing ASC, user_id ASC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.LeaderboardEntry
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Name, &e.Earned, &e.Spent, &e.Balance, &e.Rank); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

func (r *LeaderboardRepository) UserStanding(ctx context.Context, userID string) (*domain.LeaderboardEntry, error) {
	var e domain.LeaderboardEntry
	err := r.db.QueryRowContext(ctx, standingsQuery+` WHERE user_id = ?`, userID).
		Scan(&e.UserID, &e.Name, &e.Earned, &e.Spent, &e.Balance, &e.Rank)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}
