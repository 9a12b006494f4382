package usecase

import (
	"context"

	"github.com/fardannozami/ecoscan-bot/internal/domain"
)

type CategoryActivities struct {
	Category   string             `json:"category"`
	Activities []*domain.Activity `json:"activities"`
}

type ListActivitiesUsecase struct {
	repo domain.ActivityRepository
}

func NewListActivitiesUsecase(repo domain.ActivityRepository) *ListActivitiesUsecase {
	return &ListActivitiesUsecase{repo: repo}
}

// TopByCategory returns up to perCategory activities for every category,
// in category order. Active activities come first, padded with completed
// ones when a category has too few.
func (uc *ListActivitiesUsecase) TopByCategory(ctx context.Context, perCategory int) ([]CategoryActivities, error) {
	if perCategory <= 0 {
		perCategory = 2
	}
	out := make([]CategoryActivities, 0, len(domain.Categories))
	for _, category := range domain.Categories {
		list, err := uc.repo.ListActivities(ctx, domain.ActivityFilter{
			Category: category,
			Statuses: []string{domain.StatusActive, domain.StatusCompleted},
			Limit:    perCategory,
		})
		if err != nil {
			return nil, domain.WrapStore("list activities", err)
		}
		out = append(out, CategoryActivities{Category: category, Activities: list})
	}
	return out, nil
}

// All returns every active or completed activity.
func (uc *ListActivitiesUsecase) All(ctx context.Context) ([]*domain.Activity, error) {
	list, err := uc.repo.ListActivities(ctx, domain.ActivityFilter{
		Statuses: []string{domain.StatusActive, domain.StatusCompleted},
	})
	if err != nil {
		return nil, domain.WrapStore("list activities", err)
	}
	return list, nil
}

// ByCode returns ErrActivityNotFound when no activity has the code.
func (uc *ListActivitiesUsecase) ByCode(ctx context.Context, code string) (*domain.Activity, error) {
	a, err := uc.repo.GetActivityByCode(ctx, code)
	if err != nil {
		return nil, domain.WrapStore("get activity", err)
	}
	if a == nil {
		return nil, domain.ErrActivityNotFound
	}
	return a, nil
}
