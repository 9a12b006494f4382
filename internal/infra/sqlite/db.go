package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/fardannozami/ecoscan-bot/internal/domain"
)

var (
	_ domain.ActivityRepository    = (*ActivityRepository)(nil)
	_ domain.PointEventRepository  = (*PointEventRepository)(nil)
	_ domain.UserRepository        = (*UserRepository)(nil)
	_ domain.LeaderboardRepository = (*LeaderboardRepository)(nil)
	_ domain.RedemptionRepository  = (*RedemptionRepository)(nil)
)

// timeLayout is fixed-width UTC so created_at range filters compare as text.
const timeLayout = "2006-01-02T15:04:05.000Z"

// Open opens the application database with WAL and a busy timeout to avoid
// "database is locked" errors under concurrent writers.
func Open(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return db, nil
}

// rewardPoints is the SQL form of domain.RewardValue.Points: trimmed plain
// decimal text truncated toward zero, 0 for anything else or anything
// outside 32 bits. The integer part is cut from the text so long decimals
// never round through REAL.
func rewardPoints(col string) string {
	text := "trim(CAST(" + col + " AS TEXT), ' ' || char(9, 10, 11, 12, 13))"
	unsigned := "(CASE WHEN substr(" + text + ", 1, 1) IN ('+', '-') THEN substr(" + text + ", 2) ELSE " + text + " END)"
	whole := "CAST((CASE WHEN instr(" + text + ", '.') > 0 THEN substr(" + text + ", 1, instr(" + text + ", '.') - 1) ELSE " + text + " END) AS INTEGER)"
	return "(CASE WHEN " + unsigned + " <> ''" +
		" AND " + unsigned + " NOT GLOB '*[^0-9.]*'" +
		" AND " + unsigned + " NOT GLOB '*.*.*'" +
		" AND " + unsigned + " NOT GLOB '.*'" +
		" AND " + unsigned + " NOT GLOB '*.'" +
		" THEN (CASE WHEN " + whole + " BETWEEN -2147483648 AND 2147483647 THEN " + whole + " ELSE 0 END)" +
		" ELSE 0 END)"
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS activities (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		code TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL,
		reward_points INTEGER NOT NULL DEFAULT 0,
		estimated_mins INTEGER,
		sdgs TEXT NOT NULL DEFAULT '[]',
		steps TEXT NOT NULL DEFAULT '[]',
		qr_code_value TEXT NOT NULL,
		q_value REAL NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'active'
	)`,
	// reward has no declared type: other producers write integers, decimals
	// or free text into it.
	`CREATE TABLE IF NOT EXISTS point_events (
		log_id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		activity_id INTEGER,
		action TEXT NOT NULL DEFAULT '',
		reward,
		scanned_code TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_point_events_user_created ON point_events (user_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS redemptions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		points_spent INTEGER NOT NULL,
		coupon_code TEXT NOT NULL UNIQUE,
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_redemptions_user_created ON redemptions (user_id, created_at)`,
}

// InitTables creates every table the repositories use. It is safe to call
// on an existing database.
func InitTables(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime also accepts RFC3339 for rows written by other tools.
func parseTime(v string) (time.Time, error) {
	if t, err := time.Parse(timeLayout, v); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, v)
}
