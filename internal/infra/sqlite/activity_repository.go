package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/fardannozami/ecoscan-bot/internal/domain"
)

const activityColumns = `id, code, name, description, category, reward_points, estimated_mins, sdgs, steps, qr_code_value, q_value, status`

type ActivityRepository struct {
	db *sql.DB
}

func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) GetActivityByCode(ctx context.Context, code string) (*domain.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE code = ?`
	a, err := scanActivity(r.db.QueryRowContext(ctx, query, code))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// CompleteActivity runs the conditional update and the optional ledger
// insert in one transaction. A nil activity means the row was missing or no
// longer active.
func (r *ActivityRepository) CompleteActivity(ctx context.Context, id int64, award *domain.PointEvent) (*domain.Activity, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE activities SET status = ? WHERE id = ? AND lower(trim(status)) = ?`,
		domain.StatusCompleted, id, domain.StatusActive)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}

	if award != nil {
		if err := insertPointEvent(ctx, tx, award); err != nil {
			return nil, err
		}
	}

	a, err := scanActivity(tx.QueryRowContext(ctx, `SELECT `+activityColumns+` FROM activities WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *ActivityRepository) GetActivityStatus(ctx context.Context, id int64) (string, bool, error) {
	var status string
	err := r.db.QueryRowContext(ctx, `SELECT status FROM activities WHERE id = ?`, id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return status, true, nil
}

func (r *ActivityRepository) ListActivities(ctx context.Context, filter domain.ActivityFilter) ([]*domain.Activity, error) {
	var (
		where []string
		args  []any
	)
	if filter.Category != "" {
		where = append(where, "category = ?")
		args = append(args, filter.Category)
	}
	if len(filter.Statuses) > 0 {
		marks := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			marks[i] = "?"
			args = append(args, domain.NormalizeStatus(s))
		}
		where = append(where, fmt.Sprintf("lower(trim(status)) IN (%s)", strings.Join(marks, ", ")))
	}

	query := `SELECT ` + activityColumns + ` FROM activities`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY CASE WHEN lower(trim(status)) = 'active' THEN 0 ELSE 1 END, q_value DESC, id DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []*domain.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

// SeedActivity inserts the activity unless its code already exists, so a
// completed status survives restarts.
func (r *ActivityRepository) SeedActivity(ctx context.Context, a *domain.Activity) (bool, error) {
	sdgs, err := json.Marshal(nonNilInts(a.SDGs))
	if err != nil {
		return false, err
	}
	steps, err := json.Marshal(nonNilStrings(a.Steps))
	if err != nil {
		return false, err
	}
	var mins sql.NullInt64
	if a.EstimatedMins != nil {
		mins = sql.NullInt64{Int64: int64(*a.EstimatedMins), Valid: true}
	}
	status := a.Status
	if status == "" {
		status = domain.StatusActive
	}

	query := `
		INSERT INTO activities (code, name, description, category, reward_points, estimated_mins, sdgs, steps, qr_code_value, q_value, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(code) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query,
		a.Code, a.Name, a.Description, a.Category, a.RewardPoints, mins,
		string(sdgs), string(steps), a.QRCodeValue, a.QValue, status)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	if id, err := res.LastInsertId(); err == nil {
		a.ID = id
	}
	a.Status = status
	return true, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanActivity(row rowScanner) (*domain.Activity, error) {
	var (
		a           domain.Activity
		mins        sql.NullInt64
		sdgs, steps string
	)
	err := row.Scan(&a.ID, &a.Code, &a.Name, &a.Description, &a.Category, &a.RewardPoints,
		&mins, &sdgs, &steps, &a.QRCodeValue, &a.QValue, &a.Status)
	if err != nil {
		return nil, err
	}
	if mins.Valid {
		m := int(mins.Int64)
		a.EstimatedMins = &m
	}
	// Malformed lists are shown as empty rather than failing the read.
	_ = json.Unmarshal([]byte(sdgs), &a.SDGs)
	_ = json.Unmarshal([]byte(steps), &a.Steps)
	return &a, nil
}

func nonNilInts(v []int) []int {
	if v == nil {
		return []int{}
	}
	return v
}

func nonNilStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
