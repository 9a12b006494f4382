package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fardannozami/ecoscan-bot/internal/domain"
)

type RegisterUserUsecase struct {
	repo domain.UserRepository
	now  func() time.Time
}

func NewRegisterUserUsecase(repo domain.UserRepository) *RegisterUserUsecase {
	return &RegisterUserUsecase{repo: repo, now: time.Now}
}

// Execute creates the user or refreshes the name and email of an existing
// one. An empty email keeps the stored one.
func (uc *RegisterUserUsecase) Execute(ctx context.Context, id, name, email string) (*domain.User, error) {
	user, err := uc.repo.GetUser(ctx, id)
	if err != nil {
		return nil, domain.WrapStore("get user", err)
	}
	if user == nil {
		user = &domain.User{ID: id, CreatedAt: uc.now()}
	}
	if name = strings.TrimSpace(name); name != "" {
		user.Name = name // Update name if changed
	}
	if email = strings.TrimSpace(email); email != "" {
		user.Email = email
	}
	if err := uc.repo.UpsertUser(ctx, user); err != nil {
		return nil, domain.WrapStore("upsert user", err)
	}
	return user, nil
}
