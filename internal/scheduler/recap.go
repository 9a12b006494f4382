// Package scheduler posts the daily leaderboard recap to the group chat.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/fardannozami/ecoscan-bot/internal/logging"
)

const recapTimeout = 30 * time.Second

// Sender delivers a text message to a chat.
type Sender interface {
	SendText(ctx context.Context, chatJID, text string) error
}

// Leaderboard renders the recap text.
type Leaderboard interface {
	Execute(ctx context.Context, userID string) (string, error)
}

type Recap struct {
	sender  Sender
	board   Leaderboard
	chatJID string
	sched   gocron.Scheduler
}

func NewRecap(sender Sender, board Leaderboard, chatJID string) *Recap {
	return &Recap{sender: sender, board: board, chatJID: chatJID}
}

// Start schedules the recap every day at hour:minute in loc.
func (r *Recap) Start(hour, minute uint, loc *time.Location) error {
	sched, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(hour, minute, 0))),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), recapTimeout)
			defer cancel()
			if err := r.RunRecap(ctx); err != nil {
				logging.Error().Err(err).Msg("daily recap failed")
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return fmt.Errorf("schedule recap: %w", err)
	}

	sched.Start()
	r.sched = sched
	logging.Info().Str("chat", r.chatJID).Msgf("daily recap scheduled at %02d:%02d %s", hour, minute, loc)
	return nil
}

// RunRecap renders the leaderboard and sends it once.
func (r *Recap) RunRecap(ctx context.Context) error {
	if r.chatJID == "" {
		return fmt.Errorf("no chat configured for the recap")
	}
	text, err := r.board.Execute(ctx, "")
	if err != nil {
		return fmt.Errorf("render leaderboard: %w", err)
	}
	if err := r.sender.SendText(ctx, r.chatJID, text); err != nil {
		return fmt.Errorf("send recap: %w", err)
	}
	logging.Info().Str("chat", r.chatJID).Msg("daily recap sent")
	return nil
}

func (r *Recap) Stop() error {
	if r.sched == nil {
		return nil
	}
	return r.sched.Shutdown()
}
