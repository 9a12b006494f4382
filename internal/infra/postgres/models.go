package postgres

import (
	"time"

	"github.com/fardannozami/ecoscan-bot/internal/domain"
)

type userModel struct {
	ID        string    `gorm:"primaryKey"`
	Name      string    `gorm:"not null;default:''"`
	Email     string    `gorm:"not null;default:''"`
	CreatedAt time.Time `gorm:"not null"`
}

func (userModel) TableName() string { return "users" }

type activityModel struct {
	ID            int64    `gorm:"primaryKey;autoIncrement"`
	Code          string   `gorm:"uniqueIndex;not null"`
	Name          string   `gorm:"not null"`
	Description   string   `gorm:"not null;default:''"`
	Category      string   `gorm:"index;not null"`
	RewardPoints  int      `gorm:"not null;default:0"`
	EstimatedMins *int     `gorm:"column:estimated_mins"`
	SDGs          []int    `gorm:"column:sdgs;type:text;serializer:json"`
	Steps         []string `gorm:"type:text;serializer:json"`
	QRCodeValue   string   `gorm:"column:qr_code_value;not null"`
	QValue        float64  `gorm:"column:q_value;not null;default:0"`
	Status        string   `gorm:"index;not null;default:active"`
}

func (activityModel) TableName() string { return "activities" }

// pointEventModel keeps reward as text; see rewardPointsSQL.
type pointEventModel struct {
	LogID       string    `gorm:"primaryKey"`
	UserID      string    `gorm:"index:idx_point_events_user_created,priority:1;not null"`
	ActivityID  *int64    `gorm:"index"`
	Action      string    `gorm:"not null;default:''"`
	Reward      string    `gorm:"type:text"`
	ScannedCode string    `gorm:"not null;default:''"`
	Status      string    `gorm:"not null;default:''"`
	CreatedAt   time.Time `gorm:"index:idx_point_events_user_created,priority:2;not null"`
}

func (pointEventModel) TableName() string { return "point_events" }

type redemptionModel struct {
	ID          string    `gorm:"primaryKey"`
	UserID      string    `gorm:"index;not null"`
	PointsSpent int       `gorm:"not null"`
	CouponCode  string    `gorm:"uniqueIndex;not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

func (redemptionModel) TableName() string { return "redemptions" }

func toActivity(m *activityModel) *domain.Activity {
	return &domain.Activity{
		ID:            m.ID,
		Code:          m.Code,
		Name:          m.Name,
		Description:   m.Description,
		Category:      m.Category,
		RewardPoints:  m.RewardPoints,
		EstimatedMins: m.EstimatedMins,
		SDGs:          m.SDGs,
		Steps:         m.Steps,
		QRCodeValue:   m.QRCodeValue,
		QValue:        m.QValue,
		Status:        m.Status,
	}
}

func fromActivity(a *domain.Activity) *activityModel {
	m := &activityModel{
		Code:          a.Code,
		Name:          a.Name,
		Description:   a.Description,
		Category:      a.Category,
		RewardPoints:  a.RewardPoints,
		EstimatedMins: a.EstimatedMins,
		SDGs:          a.SDGs,
		Steps:         a.Steps,
		QRCodeValue:   a.QRCodeValue,
		QValue:        a.QValue,
		Status:        a.Status,
	}
	if m.SDGs == nil {
		m.SDGs = []int{}
	}
	if m.Steps == nil {
		m.Steps = []string{}
	}
	if m.Status == "" {
		m.Status = domain.StatusActive
	}
	return m
}

func toPointEvent(m *pointEventModel) *domain.PointEvent {
	return &domain.PointEvent{
		LogID:       m.LogID,
		UserID:      m.UserID,
		ActivityID:  m.ActivityID,
		Action:      m.Action,
		Reward:      domain.RewardValue(m.Reward),
		ScannedCode: m.ScannedCode,
		Status:      m.Status,
		CreatedAt:   m.CreatedAt,
	}
}

func fromPointEvent(e *domain.PointEvent) *pointEventModel {
	return &pointEventModel{
		LogID:       e.LogID,
		UserID:      e.UserID,
		ActivityID:  e.ActivityID,
		Action:      e.Action,
		Reward:      string(e.Reward),
		ScannedCode: e.ScannedCode,
		Status:      e.Status,
		CreatedAt:   e.CreatedAt,
	}
}
