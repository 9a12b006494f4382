package domain

import (
	"context"
	"time"
)

type LeaderboardEntry struct {
	UserID  string `json:"user_id" db:"user_id"`
	Name    string `json:"name" db:"name"`
	Earned  int    `json:"earned_total" db:"earned_total"`
	Spent   int    `json:"spent_total" db:"spent_total"`
	Balance int    `json:"balance" db:"balance"`
	Rank    int    `json:"rank" db:"rank"`
}

type LeaderboardRepository interface {
	// TopBalances orders by balance desc, then earned desc. Ties share a rank.
	TopBalances(ctx context.Context, limit int) ([]*LeaderboardEntry, error)
	// UserStanding returns nil for an unknown user.
	UserStanding(ctx context.Context, userID string) (*LeaderboardEntry, error)
}

type Redemption struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	PointsSpent int       `json:"points_spent" db:"points_spent"`
	CouponCode  string    `json:"coupon_code" db:"coupon_code"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type RedemptionRepository interface {
	// Redeem records the redemption and its negative point event atomically.
	// It returns ErrInsufficientPoints when the balance does not cover it.
	Redeem(ctx context.Context, redemption *Redemption) error
	// ListRedemptions is newest first; limit <= 0 returns all.
	ListRedemptions(ctx context.Context, userID string, limit int) ([]*Redemption, error)
}
