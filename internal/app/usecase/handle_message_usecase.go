package usecase

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"
	"time"

	"github.com/fardannozami/ecoscan-bot/internal/domain"
)

const (
	breakdownDays  = 7
	historyPreview = 10
	rewardsPreview = 3
)

type scanCompleter interface {
	Execute(ctx context.Context, userID, code, payload string) (domain.ScanResult, error)
}

type pointsReader interface {
	DailyPoints(ctx context.Context, userID string, day time.Time) int
	WeeklyPoints(ctx context.Context, userID string, ref time.Time) int
	DailyBreakdown(ctx context.Context, userID string, days int) iter.Seq[domain.DailyTotal]
}

type leaderboardReader interface {
	Execute(ctx context.Context, userID string) (string, error)
	Standing(ctx context.Context, userID string) (*domain.LeaderboardEntry, error)
}

type activityCatalog interface {
	TopByCategory(ctx context.Context, perCategory int) ([]CategoryActivities, error)
	ByCode(ctx context.Context, code string) (*domain.Activity, error)
}

type pointRedeemer interface {
	Execute(ctx context.Context, userID string, points int) (*domain.Redemption, error)
	Recent(ctx context.Context, userID string, limit int) ([]*domain.Redemption, error)
}

type historyReader interface {
	Execute(ctx context.Context, userID string, limit, offset int) ([]*domain.PointEvent, error)
}

type userRegistrar interface {
	Execute(ctx context.Context, id, name, email string) (*domain.User, error)
}

// MessageHandlers are the usecases a chat command can reach.
type MessageHandlers struct {
	Scan        scanCompleter
	Points      pointsReader
	Leaderboard leaderboardReader
	Catalog     activityCatalog
	Redeem      pointRedeemer
	History     historyReader
	Users       userRegistrar
}

type HandleMessageUsecase struct {
	h MessageHandlers
}

func NewHandleMessageUsecase(h MessageHandlers) *HandleMessageUsecase {
	return &HandleMessageUsecase{h: h}
}

// Execute routes a chat message to its command. Unknown input yields an
// empty reply so the bot stays quiet in group chats.
func (uc *HandleMessageUsecase) Execute(ctx context.Context, userID, name, msg string) (string, error) {
	fields := strings.Fields(msg)
	if len(fields) == 0 {
		return "", nil
	}
	cmd := strings.ToLower(fields[0])
	args := fields[1:]

	var run func(context.Context, string, []string) (string, error)
	switch cmd {
	case "#actions":
		run = uc.actions
	case "#action":
		run = uc.action
	case "#scan":
		run = uc.scan
	case "#points":
		run = uc.points
	case "#leaderboard":
		run = uc.leaderboard
	case "#redeem":
		run = uc.redeem
	case "#rewards":
		run = uc.rewards
	case "#history":
		run = uc.history
	case "#help":
		return helpText, nil
	default:
		return "", nil
	}

	if _, err := uc.h.Users.Execute(ctx, userID, name, ""); err != nil {
		return "", err
	}
	return run(ctx, userID, args)
}

const helpText = `EcoScan commands:
#actions - suggested actions by category
#action <code> - action details
#scan <code> <qr text> - complete an action
#points - today, this week and the last 7 days
#leaderboard - top savers
#redeem <points> - turn points into a coupon
#rewards - balance and recent coupons
#history - your latest activity`

func (uc *HandleMessageUsecase) actions(ctx context.Context, _ string, _ []string) (string, error) {
	groups, err := uc.h.Catalog.TopByCategory(ctx, 2)
	if err != nil {
		return "", err
	}

	sb := strings.Builder{}
	sb.WriteString("Suggested actions 🌍\n")
	for _, g := range groups {
		if len(g.Activities) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("\n%s\n", g.Category))
		for _, a := range g.Activities {
			done := ""
			if !a.IsActive() {
				done = " ✅"
			}
			sb.WriteString(fmt.Sprintf("• %s (%s) - %d pts%s\n", a.Name, a.Code, a.RewardPoints, done))
		}
	}
	sb.WriteString("\nSend #action <code> for details.")
	return sb.String(), nil
}

func (uc *HandleMessageUsecase) action(ctx context.Context, _ string, args []string) (string, error) {
	if len(args) == 0 {
		return "Usage: #action <code>", nil
	}
	a, err := uc.h.Catalog.ByCode(ctx, args[0])
	if errors.Is(err, domain.ErrActivityNotFound) {
		return fmt.Sprintf("Action '%s' not found. Send #actions to see what's available.", args[0]), nil
	}
	if err != nil {
		return "", err
	}

	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("%s (%s)\n", a.Name, a.Code))
	sb.WriteString(fmt.Sprintf("%s · %d pts", a.Category, a.RewardPoints))
	if a.EstimatedMins != nil {
		sb.WriteString(fmt.Sprintf(" · ~%d min", *a.EstimatedMins))
	}
	if len(a.SDGs) > 0 {
		goals := make([]string, len(a.SDGs))
		for i, g := range a.SDGs {
			goals[i] = strconv.Itoa(g)
		}
		sb.WriteString(fmt.Sprintf("\nSDGs: %s", strings.Join(goals, ", ")))
	}
	if a.Description != "" {
		sb.WriteString("\n\n" + a.Description)
	}
	for i, step := range a.Steps {
		sb.WriteString(fmt.Sprintf("\n%d. %s", i+1, step))
	}
	if a.IsActive() {
		sb.WriteString(fmt.Sprintf("\n\nScan the QR code on site, then send #scan %s <qr text>", a.Code))
	} else {
		sb.WriteString("\n\nAlready completed ✅")
	}
	return sb.String(), nil
}

func (uc *HandleMessageUsecase) scan(ctx context.Context, userID string, args []string) (string, error) {
	if len(args) < 2 {
		return "Usage: #scan <code> <qr text>", nil
	}
	code := args[0]
	res, err := uc.h.Scan.Execute(ctx, userID, code, strings.Join(args[1:], " "))
	if err != nil {
		return "", err
	}

	switch res.Reason {
	case domain.ScanOK:
		return fmt.Sprintf("✅ %s completed! You earned %d points 🌱", res.Code, res.Points), nil
	case domain.ScanNotFound:
		return fmt.Sprintf("Action '%s' not found. Send #actions to see what's available.", code), nil
	case domain.ScanMismatch:
		return fmt.Sprintf("That QR code doesn't match '%s'. Scan the code at the action location.", res.Code), nil
	case domain.ScanAlreadyCompleted:
		return fmt.Sprintf("'%s' has already been completed 🙌", res.Code), nil
	default:
		return fmt.Sprintf("Couldn't complete '%s' right now, please try again.", res.Code), nil
	}
}

func (uc *HandleMessageUsecase) points(ctx context.Context, userID string, _ []string) (string, error) {
	sb := strings.Builder{}
	sb.WriteString("Your points 🌱\n")
	sb.WriteString(fmt.Sprintf("Today: %d\n", uc.h.Points.DailyPoints(ctx, userID, time.Time{})))
	sb.WriteString(fmt.Sprintf("This week: %d\n", uc.h.Points.WeeklyPoints(ctx, userID, time.Time{})))
	sb.WriteString(fmt.Sprintf("\nLast %d days:\n", breakdownDays))
	for d := range uc.h.Points.DailyBreakdown(ctx, userID, breakdownDays) {
		sb.WriteString(fmt.Sprintf("%s: %d\n", d.Date.Format("Mon 02-01"), d.Total))
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

func (uc *HandleMessageUsecase) leaderboard(ctx context.Context, userID string, _ []string) (string, error) {
	return uc.h.Leaderboard.Execute(ctx, userID)
}

func (uc *HandleMessageUsecase) redeem(ctx context.Context, userID string, args []string) (string, error) {
	if len(args) == 0 {
		return "Usage: #redeem <points>", nil
	}
	points, err := strconv.Atoi(args[0])
	if err != nil || points <= 0 {
		return "Points must be a positive number, e.g. #redeem 50", nil
	}

	r, err := uc.h.Redeem.Execute(ctx, userID, points)
	switch {
	case errors.Is(err, domain.ErrInsufficientPoints):
		return fmt.Sprintf("Not enough points to redeem %d. Send #rewards to check your balance.", points), nil
	case err != nil:
		return "", err
	}
	return fmt.Sprintf("🎁 Redeemed %d points. Coupon: %s", r.PointsSpent, couponLabel(r.CouponCode)), nil
}

func (uc *HandleMessageUsecase) rewards(ctx context.Context, userID string, _ []string) (string, error) {
	self, err := uc.h.Leaderboard.Standing(ctx, userID)
	if err != nil {
		return "", err
	}
	recent, err := uc.h.Redeem.Recent(ctx, userID, rewardsPreview)
	if err != nil {
		return "", err
	}

	balance := 0
	if self != nil {
		balance = self.Balance
	}

	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("Rewards 🎁\nBalance: %d pts\n", balance))
	if len(recent) == 0 {
		sb.WriteString("\nNo redemptions yet. Send #redeem <points> to get a coupon.")
		return sb.String(), nil
	}
	sb.WriteString("\nRecent coupons:\n")
	for _, r := range recent {
		sb.WriteString(fmt.Sprintf("• %s - %d pts (%s)\n", couponLabel(r.CouponCode), r.PointsSpent, r.CreatedAt.Format("02-01-2006")))
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

func (uc *HandleMessageUsecase) history(ctx context.Context, userID string, _ []string) (string, error) {
	events, err := uc.h.History.Execute(ctx, userID, historyPreview, 0)
	if err != nil {
		return "", err
	}
	if len(events) == 0 {
		return "No activity yet. Send #actions to get started 🌱", nil
	}

	sb := strings.Builder{}
	sb.WriteString("Latest activity:\n")
	for _, e := range events {
		sb.WriteString(fmt.Sprintf("%s %s %+d\n", e.CreatedAt.Format("02-01 15:04"), e.Action, e.Reward.Points()))
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

// couponLabel shortens a coupon code the way it is shown to users.
func couponLabel(code string) string {
	if len(code) > 8 {
		code = code[:8]
	}
	return strings.ToUpper(code)
}
