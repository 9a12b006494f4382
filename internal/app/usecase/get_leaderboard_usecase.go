package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fardannozami/ecoscan-bot/internal/domain"
)

const defaultLeaderboardLimit = 20

type GetLeaderboardUsecase struct {
	repo  domain.LeaderboardRepository
	limit int
	now   func() time.Time
}

func NewGetLeaderboardUsecase(repo domain.LeaderboardRepository, limit int) *GetLeaderboardUsecase {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	return &GetLeaderboardUsecase{repo: repo, limit: limit, now: time.Now}
}

// Top returns the first limit entries; limit <= 0 uses the configured size.
func (uc *GetLeaderboardUsecase) Top(ctx context.Context, limit int) ([]*domain.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = uc.limit
	}
	entries, err := uc.repo.TopBalances(ctx, limit)
	if err != nil {
		return nil, domain.WrapStore("top balances", err)
	}
	return entries, nil
}

// Standing returns nil for a user with no account.
func (uc *GetLeaderboardUsecase) Standing(ctx context.Context, userID string) (*domain.LeaderboardEntry, error) {
	entry, err := uc.repo.UserStanding(ctx, userID)
	if err != nil {
		return nil, domain.WrapStore("user standing", err)
	}
	return entry, nil
}

// Execute renders the leaderboard as a chat message, with the caller's own
// rank appended when userID is known.
func (uc *GetLeaderboardUsecase) Execute(ctx context.Context, userID string) (string, error) {
	entries, err := uc.Top(ctx, uc.limit)
	if err != nil {
		return "", err
	}

	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("EcoScan Leaderboard (%s)\n\n", uc.now().Format("02-01-2006")))

	if len(entries) == 0 {
		sb.WriteString("No points yet. Send #actions and be the first on the board 🌱")
		return sb.String(), nil
	}

	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("%d. %s - %d pts\n", e.Rank, displayName(e), e.Balance))
	}

	if userID != "" {
		self, err := uc.Standing(ctx, userID)
		if err != nil {
			return "", err
		}
		if self != nil {
			sb.WriteString(fmt.Sprintf("\nYou: #%d with %d pts (earned %d, spent %d)\n", self.Rank, self.Balance, self.Earned, self.Spent))
		}
	}

	sb.WriteString("\nScan an action to climb the board 💪")
	return sb.String(), nil
}

func displayName(e *domain.LeaderboardEntry) string {
	if strings.TrimSpace(e.Name) != "" {
		return e.Name
	}
	return e.UserID
}
