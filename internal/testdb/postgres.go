package testdb

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/transit-api/internal/ciutil"
	"github.com/phrazzld/transit-api/internal/platform/logger"
	"github.com/phrazzld/transit-api/internal/platform/postgres"
	"github.com/phrazzld/transit-api/internal/redact"
	"github.com/stretchr/testify/require"
)

// TestTimeout defines a default timeout for test database operations.
const TestTimeout = 10 * time.Second

// PostgresURLEnv names the preferred variable holding the test database URL.
// DATABASE_URL is accepted as a fallback.
const PostgresURLEnv = ciutil.EnvTestPostgresURL

// PostgresURL returns the test database URL, or "" when unset.
func PostgresURL() string {
	return ciutil.TestPostgresURL(nil)
}

// OpenPostgres connects to the test database and applies the migrations.
// Without a configured URL the test is skipped, or failed in CI.
// The connection is closed on cleanup.
func OpenPostgres(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := PostgresURL()
	if dbURL == "" {
		skipOrFail(t, PostgresURLEnv)
	}

	db, err := sql.Open("pgx", dbURL)
	require.NoError(t, err, "Failed to open database connection")

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: failed to close database connection: %v", err)
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	require.NoError(t, db.PingContext(ctx),
		"Database ping failed for %s", redact.ConnectionString(dbURL))

	_, log := logger.NewTestLogger()
	require.NoError(t, postgres.Migrate(ctx, db, log), "Failed to run migrations")

	return db
}

// ResetPostgres empties every table and restarts the ID sequences so each
// test observes IDs starting at 1.
func ResetPostgres(t *testing.T, db *sql.DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	_, err := db.ExecContext(ctx, `TRUNCATE transactions, cards, stations RESTART IDENTITY CASCADE`)
	require.NoError(t, err, "Failed to truncate tables")
}

// WithTx executes a test function within a transaction, automatically rolling back
// after the test completes. This ensures test isolation and prevents side effects.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err, "Failed to begin transaction")

	defer func() {
		err := tx.Rollback()
		// sql.ErrTxDone is expected if tx is already committed or rolled back
		if err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("Warning: failed to rollback transaction: %v", err)
		}
	}()

	fn(t, tx)
}

// skipOrFail stops a test whose storage is not configured. Local runs skip;
// CI runs fail so a misconfigured pipeline cannot pass silently.
func skipOrFail(t *testing.T, envVar string) {
	t.Helper()

	if ciutil.IsCI() || ciutil.IntegrationRequired() {
		t.Fatalf("%s not set - integration storage is required in this environment", envVar)
	}
	t.Skip(envVar + " not set - skipping integration test")
}
