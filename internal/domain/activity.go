package domain

import (
	"context"
	"strings"
)

const (
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// Categories lists the catalog categories in display order.
var Categories = []string{
	"Donate & Buy",
	"Volunteering",
	"Mind Body Spirit",
	"Protect Land/Sea/Wildlife",
	"Reuse/Reduce/Recycle",
	"Advocate & Empower",
}

type Activity struct {
	ID            int64    `json:"id" db:"id"`
	Code          string   `json:"code" db:"code" validate:"required,max=64"`
	Name          string   `json:"name" db:"name" validate:"required"`
	Description   string   `json:"description" db:"description"`
	Category      string   `json:"category" db:"category" validate:"required,category"`
	RewardPoints  int      `json:"reward_points" db:"reward_points" validate:"gte=0"`
	EstimatedMins *int     `json:"estimated_mins,omitempty" db:"estimated_mins" validate:"omitempty,gte=0"`
	SDGs          []int    `json:"sdgs" db:"sdgs" validate:"dive,min=1,max=17"`
	Steps         []string `json:"steps" db:"steps"`
	QRCodeValue   string   `json:"-" db:"qr_code_value" validate:"required"`
	QValue        float64  `json:"q_value" db:"q_value"`
	Status        string   `json:"status" db:"status" validate:"required"`
}

// IsActive reports whether the activity can still be completed.
func (a *Activity) IsActive() bool {
	return NormalizeStatus(a.Status) == StatusActive
}

// ActivityFilter narrows ListActivities. Empty fields match everything.
// Results are ordered active first, then by q_value desc and id desc.
type ActivityFilter struct {
	Category string
	Statuses []string
	Limit    int
}

type ActivityRepository interface {
	GetActivityByCode(ctx context.Context, code string) (*Activity, error)
	// CompleteActivity flips status active -> completed for the given id only
	// if it is still active, returning the updated row or nil when no row
	// matched. When award is non-nil it is appended to the point log in the
	// same transaction as a successful flip.
	CompleteActivity(ctx context.Context, id int64, award *PointEvent) (*Activity, error)
	GetActivityStatus(ctx context.Context, id int64) (status string, found bool, err error)
	ListActivities(ctx context.Context, filter ActivityFilter) ([]*Activity, error)
	SeedActivity(ctx context.Context, activity *Activity) (created bool, err error)
}

// NormalizeQR collapses whitespace runs, trims and lower-cases a QR payload.
func NormalizeQR(v string) string {
	return strings.ToLower(strings.Join(strings.Fields(v), " "))
}

// QRMatches compares a scanned payload with the expected one.
func QRMatches(scanned, expected string) bool {
	return NormalizeQR(scanned) == NormalizeQR(expected)
}

func NormalizeStatus(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

type ScanReason string

const (
	ScanOK               ScanReason = "ok"
	ScanNotFound         ScanReason = "not_found"
	ScanMismatch         ScanReason = "mismatch"
	ScanAlreadyCompleted ScanReason = "already_completed"
	ScanUpdateFailed     ScanReason = "update_failed"
)

// ScanResult is the outcome of a completion attempt. Transitioned is true
// only when this attempt's own conditional update flipped the row.
type ScanResult struct {
	Reason       ScanReason `json:"reason"`
	Points       int        `json:"points"`
	Code         string     `json:"code"`
	Transitioned bool       `json:"transitioned"`
}

func (r ScanResult) OK() bool {
	return r.Reason == ScanOK
}
