package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fardannozami/ecoscan-bot/internal/domain"
)

type RedemptionRepository struct {
	db *sql.DB
}

func NewRedemptionRepository(db *sql.DB) *RedemptionRepository {
	return &RedemptionRepository{db: db}
}

// Redeem appends the negative ledger entry only if the balance covers it,
// in a single statement, then records the redemption in the same
// transaction.
func (r *RedemptionRepository) Redeem(ctx context.Context, red *domain.Redemption) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO point_events (`+pointEventColumns+`)
		SELECT ?, ?, NULL, ?, ?, '', ?, ?
		WHERE (SELECT COALESCE(SUM(`+rewardPoints("reward")+`), 0) FROM point_events WHERE user_id = ?) >= ?`,
		red.ID, red.UserID, domain.ActionRedeem, string(domain.NewReward(-red.PointsSpent)), "redeemed",
		formatTime(red.CreatedAt), red.UserID, red.PointsSpent)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrInsufficientPoints
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO redemptions (id, user_id, points_spent, coupon_code, created_at) VALUES (?, ?, ?, ?, ?)`,
		red.ID, red.UserID, red.PointsSpent, red.CouponCode, formatTime(red.CreatedAt))
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (r *RedemptionRepository) ListRedemptions(ctx context.Context, userID string, limit int) ([]*domain.Redemption, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `SELECT id, user_id, points_spent, coupon_code, created_at FROM redemptions
		WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*domain.Redemption
	for rows.Next() {
		var red domain.Redemption
		var createdAt string
		if err := rows.Scan(&red.ID, &red.UserID, &red.PointsSpent, &red.CouponCode, &createdAt); err != nil {
			return nil, err
		}
		red.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, fmt.Errorf("redemption %s: %w", red.ID, err)
		}
		list = append(list, &red)
	}
	return list, rows.Err()
}
