package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/fardannozami/ecoscan-bot/internal/domain"
	"github.com/fardannozami/ecoscan-bot/internal/infra/sqlite"
)

// =============================================================================
// SQLITE REPOSITORY TESTS
// =============================================================================
//
// Tests the SQLite repositories using an in-memory database.
// Each test gets a fresh database to ensure isolation. Concurrency tests
// use a WAL file instead so their callers really run in parallel.
//
// =============================================================================

type repos struct {
	db          *sql.DB
	activities  *sqlite.ActivityRepository
	events      *sqlite.PointEventRepository
	users       *sqlite.UserRepository
	leaderboard *sqlite.LeaderboardRepository
	redemptions *sqlite.RedemptionRepository
}

func setupTestDB(t *testing.T) (*repos, func()) {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	if err := sqlite.InitTables(context.Background(), db); err != nil {
		t.Fatalf("Failed to initialize tables: %v", err)
	}

	cleanup := func() {
		db.Close()
	}
	return newRepos(db), cleanup
}

// setupFileDB opens a WAL database file through the runtime driver with a
// real connection pool, so concurrent callers actually overlap.
func setupFileDB(t *testing.T) *repos {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "ecoscan.db"))
	if err != nil {
		t.Fatalf("Failed to open database file: %v", err)
	}
	db.SetMaxOpenConns(8)
	t.Cleanup(func() { db.Close() })

	if err := sqlite.InitTables(context.Background(), db); err != nil {
		t.Fatalf("Failed to initialize tables: %v", err)
	}
	return newRepos(db)
}

func newRepos(db *sql.DB) *repos {
	return &repos{
		db:          db,
		activities:  sqlite.NewActivityRepository(db),
		events:      sqlite.NewPointEventRepository(db),
		users:       sqlite.NewUserRepository(db),
		leaderboard: sqlite.NewLeaderboardRepository(db),
		redemptions: sqlite.NewRedemptionRepository(db),
	}
}

func seedActivity(t *testing.T, r *repos, a *domain.Activity) *domain.Activity {
	t.Helper()
	created, err := r.activities.SeedActivity(context.Background(), a)
	if err != nil {
		t.Fatalf("Failed to seed activity: %v", err)
	}
	if !created {
		t.Fatalf("Activity %s already existed", a.Code)
	}
	return a
}

func appendEvent(t *testing.T, r *repos, logID, userID string, reward domain.RewardValue, at time.Time) {
	t.Helper()
	err := r.events.AppendPointEvent(context.Background(), &domain.PointEvent{
		LogID:     logID,
		UserID:    userID,
		Action:    "seed",
		Reward:    reward,
		CreatedAt: at,
	})
	if err != nil {
		t.Fatalf("Failed to append event: %v", err)
	}
}

func TestInitTables_Idempotent(t *testing.T) {
	r, cleanup := setupTestDB(t)
	defer cleanup()

	// InitTables was already called in setup, call it again
	if err := sqlite.InitTables(context.Background(), r.db); err != nil {
		t.Fatalf("Second InitTables should not fail: %v", err)
	}
}
