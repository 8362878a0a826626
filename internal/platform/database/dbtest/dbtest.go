// Package dbtest starts a throwaway Postgres for repository integration tests.
package dbtest

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/georgemunganga/printa-pos/internal/platform/database"
)

// Start runs a migrated Postgres container. Tests are skipped unless
// POS_INTEGRATION is set, since they need a Docker daemon.
func Start(t *testing.T) *sql.DB {
	t.Helper()
	if os.Getenv("POS_INTEGRATION") == "" || testing.Short() {
		t.Skip("set POS_INTEGRATION=1 to run Postgres integration tests")
	}
	ctx := context.Background()

	pg, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("pos"),
		tcpostgres.WithUsername("pos"),
		tcpostgres.WithPassword("pos"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pg.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.Open(dsn, 5, 2)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}
