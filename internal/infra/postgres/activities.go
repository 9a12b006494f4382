package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fardannozami/ecoscan-bot/internal/domain"
)

func (s *Store) GetActivityByCode(ctx context.Context, code string) (*domain.Activity, error) {
	var m activityModel
	err := s.db.WithContext(ctx).Where("code = ?", code).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toActivity(&m), nil
}

// CompleteActivity flips the row with UPDATE ... RETURNING and writes the
// award in the same transaction.
func (s *Store) CompleteActivity(ctx context.Context, id int64, award *domain.PointEvent) (*domain.Activity, error) {
	var updated []activityModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&updated).
			Clauses(clause.Returning{}).
			Where("id = ? AND lower(trim(status)) = ?", id, domain.StatusActive).
			Update("status", domain.StatusCompleted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 || award == nil {
			return nil
		}
		return tx.Create(fromPointEvent(award)).Error
	})
	if err != nil {
		return nil, err
	}
	if len(updated) == 0 {
		return nil, nil
	}
	return toActivity(&updated[0]), nil
}

func (s *Store) GetActivityStatus(ctx context.Context, id int64) (string, bool, error) {
	var m activityModel
	err := s.db.WithContext(ctx).Select("status").Where("id = ?", id).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return m.Status, true, nil
}

func (s *Store) ListActivities(ctx context.Context, filter domain.ActivityFilter) ([]*domain.Activity, error) {
	q := s.db.WithContext(ctx).Model(&activityModel{})
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, st := range filter.Statuses {
			statuses[i] = domain.NormalizeStatus(st)
		}
		q = q.Where("lower(trim(status)) IN ?", statuses)
	}
	q = q.Order("CASE WHEN lower(trim(status)) = 'active' THEN 0 ELSE 1 END").
		Order("q_value DESC").
		Order("id DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var rows []activityModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Activity, len(rows))
	for i := range rows {
		out[i] = toActivity(&rows[i])
	}
	return out, nil
}

func (s *Store) SeedActivity(ctx context.Context, a *domain.Activity) (bool, error) {
	m := fromActivity(a)
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "code"}}, DoNothing: true}).
		Create(m)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	a.ID = m.ID
	a.Status = m.Status
	return true, nil
}
