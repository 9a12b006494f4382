package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fardannozami/ecoscan-bot/internal/domain"
)

const pointEventColumns = `log_id, user_id, activity_id, action, reward, scanned_code, status, created_at`

// pointEventSelect reads reward as text so integer and real values written
// by other producers reach domain.RewardValue in SQLite's own spelling.
const pointEventSelect = `log_id, user_id, activity_id, action, CAST(reward AS TEXT), scanned_code, status, created_at`

type PointEventRepository struct {
	db *sql.DB
}

func NewPointEventRepository(db *sql.DB) *PointEventRepository {
	return &PointEventRepository{db: db}
}

// AppendPointEvent writes a single ledger entry outside of any completion
// or redemption.
func (r *PointEventRepository) AppendPointEvent(ctx context.Context, e *domain.PointEvent) error {
	return insertPointEvent(ctx, r.db, e)
}

func (r *PointEventRepository) ListPointEvents(ctx context.Context, userID string, from, to time.Time) ([]*domain.PointEvent, error) {
	query := `SELECT ` + pointEventSelect + ` FROM point_events
		WHERE user_id = ? AND created_at >= ? AND created_at < ?
		ORDER BY created_at ASC, rowid ASC`
	return r.query(ctx, query, userID, formatTime(from), formatTime(to))
}

func (r *PointEventRepository) ListRecentPointEvents(ctx context.Context, userID string, limit, offset int) ([]*domain.PointEvent, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `SELECT ` + pointEventSelect + ` FROM point_events
		WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ? OFFSET ?`
	return r.query(ctx, query, userID, limit, offset)
}

func (r *PointEventRepository) query(ctx context.Context, query string, args ...any) ([]*domain.PointEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.PointEvent
	for rows.Next() {
		var (
			e          domain.PointEvent
			activityID sql.NullInt64
			reward     sql.NullString
			createdAt  string
		)
		if err := rows.Scan(&e.LogID, &e.UserID, &activityID, &e.Action, &reward, &e.ScannedCode, &e.Status, &createdAt); err != nil {
			return nil, err
		}
		if activityID.Valid {
			id := activityID.Int64
			e.ActivityID = &id
		}
		e.Reward = domain.RewardValue(reward.String)
		e.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, fmt.Errorf("point event %s: %w", e.LogID, err)
		}
		events = append(events, &e)
	}
	return events, rows.Err()
}

func insertPointEvent(ctx context.Context, q querier, e *domain.PointEvent) error {
	var activityID sql.NullInt64
	if e.ActivityID != nil {
		activityID = sql.NullInt64{Int64: *e.ActivityID, Valid: true}
	}
	query := `INSERT INTO point_events (` + pointEventColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := q.ExecContext(ctx, query,
		e.LogID, e.UserID, activityID, e.Action, string(e.Reward), e.ScannedCode, e.Status, formatTime(e.CreatedAt))
	return err
}
