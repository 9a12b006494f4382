package usecase

import (
	"context"

	"github.com/fardannozami/ecoscan-bot/internal/domain"
)

const defaultHistoryLimit = 25

type ActivityHistoryUsecase struct {
	repo domain.PointEventRepository
}

func NewActivityHistoryUsecase(repo domain.PointEventRepository) *ActivityHistoryUsecase {
	return &ActivityHistoryUsecase{repo: repo}
}

// Execute pages the user's point log newest first.
func (uc *ActivityHistoryUsecase) Execute(ctx context.Context, userID string, limit, offset int) ([]*domain.PointEvent, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}
	events, err := uc.repo.ListRecentPointEvents(ctx, userID, limit, offset)
	if err != nil {
		return nil, domain.WrapStore("list history", err)
	}
	return events, nil
}
