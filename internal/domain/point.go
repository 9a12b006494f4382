package domain

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const ActionRedeem = "redeem"

// RewardValue is the reward column as stored. The log is written by more
// than one producer, so the value is parsed leniently on read.
type RewardValue string

func NewReward(points int) RewardValue {
	return RewardValue(strconv.Itoa(points))
}

// rewardPattern is plain decimal notation. The SQL stores apply the same
// rule, so exponents, hex and words are not numbers here.
var rewardPattern = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]+)?$`)

const rewardSpace = " \t\n\v\f\r"

// Points returns the numeric reward. Decimals are truncated toward zero.
// Anything that is not plain decimal notation, or whose integer part does
// not fit in 32 bits, is 0.
func (v RewardValue) Points() int {
	s := strings.Trim(string(v), rewardSpace)
	if !rewardPattern.MatchString(s) {
		return 0
	}
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0
	}
	return int(n)
}

type PointEvent struct {
	LogID       string      `json:"log_id" db:"log_id"`
	UserID      string      `json:"user_id" db:"user_id"`
	ActivityID  *int64      `json:"activity_id,omitempty" db:"activity_id"`
	Action      string      `json:"action" db:"action"`
	Reward      RewardValue `json:"reward" db:"reward"`
	ScannedCode string      `json:"scanned_code,omitempty" db:"scanned_code"`
	Status      string      `json:"status" db:"status"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
}

type PointEventRepository interface {
	// ListPointEvents returns the user's events with from <= created_at < to,
	// oldest first.
	ListPointEvents(ctx context.Context, userID string, from, to time.Time) ([]*PointEvent, error)
	// ListRecentPointEvents pages the user's events newest first.
	ListRecentPointEvents(ctx context.Context, userID string, limit, offset int) ([]*PointEvent, error)
}

// SumRewards adds up the numeric rewards of events.
func SumRewards(events []*PointEvent) int {
	total := 0
	for _, e := range events {
		if e == nil {
			continue
		}
		total += e.Reward.Points()
	}
	return total
}
