package integration

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/algoviz-io/algoviz-backend/config"
	"github.com/algoviz-io/algoviz-backend/internal/bootstrap"
)

// testDSN resolves the test database DSN.
// Skips the test if TEST_DB_DSN is not set. You can set TEST_DB_DSN
// directly, or use individual env vars:
//
//	TEST_DB_HOST, TEST_DB_PORT, TEST_DB_USER, TEST_DB_PASSWORD, TEST_DB_NAME
func testDSN(t *testing.T) string {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn != "" {
		return dsn
	}

	host := os.Getenv("TEST_DB_HOST")
	port := os.Getenv("TEST_DB_PORT")
	user := os.Getenv("TEST_DB_USER")
	password := os.Getenv("TEST_DB_PASSWORD")
	dbname := os.Getenv("TEST_DB_NAME")
	if host != "" && port != "" && user != "" && dbname != "" {
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			host, port, user, password, dbname)
	}

	t.Skip("TEST_DB_DSN or TEST_DB_* environment variables not set, skipping PostgreSQL integration test")
	return ""
}

// setupTestPool connects a pgx pool and applies the schema.
func setupTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	pool, err := bootstrap.OpenDB(context.Background(), config.DBConfig{DSN: testDSN(t)})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

// setupRawDB opens a plain database/sql connection for direct row
// assertions alongside the repositories under test.
func setupRawDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("postgres", testDSN(t))
	require.NoError(t, err)
	require.NoError(t, db.Ping())
	t.Cleanup(func() { _ = db.Close() })
	return db
}
