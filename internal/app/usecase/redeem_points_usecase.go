package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/fardannozami/ecoscan-bot/internal/domain"
	"github.com/fardannozami/ecoscan-bot/internal/logging"
	"github.com/fardannozami/ecoscan-bot/internal/metrics"
)

type RedeemPointsUsecase struct {
	repo domain.RedemptionRepository
	now  func() time.Time
}

func NewRedeemPointsUsecase(repo domain.RedemptionRepository) *RedeemPointsUsecase {
	return &RedeemPointsUsecase{repo: repo, now: time.Now}
}

// Execute spends points from the user's balance and returns the issued
// coupon. ErrInvalidPoints and ErrInsufficientPoints are returned as-is;
// anything else is a store failure.
func (uc *RedeemPointsUsecase) Execute(ctx context.Context, userID string, points int) (*domain.Redemption, error) {
	if points <= 0 {
		return nil, domain.ErrInvalidPoints
	}

	redemption := &domain.Redemption{
		ID:          uuid.NewString(),
		UserID:      userID,
		PointsSpent: points,
		CouponCode:  uuid.NewString(),
		CreatedAt:   uc.now(),
	}

	if err := uc.repo.Redeem(ctx, redemption); err != nil {
		if errors.Is(err, domain.ErrInsufficientPoints) {
			return nil, domain.ErrInsufficientPoints
		}
		metrics.StoreErrors.WithLabelValues("redeem").Inc()
		return nil, domain.WrapStore("redeem", err)
	}

	metrics.Redemptions.Inc()
	logging.Info().Str("user_id", userID).Int("points", points).Str("redemption_id", redemption.ID).Msg("points redeemed")
	return redemption, nil
}

// Recent lists the user's redemptions newest first; limit <= 0 returns all.
func (uc *RedeemPointsUsecase) Recent(ctx context.Context, userID string, limit int) ([]*domain.Redemption, error) {
	list, err := uc.repo.ListRedemptions(ctx, userID, limit)
	if err != nil {
		return nil, domain.WrapStore("list redemptions", err)
	}
	return list, nil
}
