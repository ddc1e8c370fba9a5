package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/fenilmodi00/neet-cutoff-backend/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSQLStatements(t *testing.T) {
	content := `
-- header comment
CREATE TABLE a (
    id INTEGER
);

CREATE INDEX idx_a ON a(id);
SELECT 1`

	statements := parseSQLStatements(content)
	assert.Equal(t, []string{
		"CREATE TABLE a ( id INTEGER )",
		"CREATE INDEX idx_a ON a(id)",
		"SELECT 1",
	}, statements)
}

func TestEmbeddedSchemaParses(t *testing.T) {
	statements := parseSQLStatements(schemaSQL)
	assert.Len(t, statements, 7)
}

func TestParseDialect(t *testing.T) {
	tests := []struct {
		input   string
		want    Dialect
		wantErr bool
	}{
		{"", DialectPostgres, false},
		{"postgres", DialectPostgres, false},
		{"PostgreSQL", DialectPostgres, false},
		{"pq", DialectPostgres, false},
		{"pgx", DialectPgx, false},
		{"sqlite3", DialectSQLite, false},
		{" sqlite ", DialectSQLite, false},
		{"mysql", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDialect(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRebindAndPlaceholders(t *testing.T) {
	query := "SELECT * FROM cutoffs WHERE id IN (" + Placeholders(1, 3) + ") AND state_id = $4"

	assert.Equal(t, "SELECT * FROM cutoffs WHERE id IN ($1, $2, $3) AND state_id = $4", DialectPostgres.Rebind(query))
	assert.Equal(t, query, DialectPgx.Rebind(query))
	assert.Equal(t, "SELECT * FROM cutoffs WHERE id IN (?, ?, ?) AND state_id = ?", DialectSQLite.Rebind(query))
}

func TestConnectAndMigrateSQLite(t *testing.T) {
	config := shared.NewDefaultUnifiedConfiguration().Database
	config.Driver = "sqlite"
	config.URL = "file:connect_test?mode=memory&cache=shared"
	config.MaxOpenConns = 1

	db, err := Connect(config)
	require.NoError(t, err)
	defer Close(db)

	ctx := context.Background()
	require.NoError(t, Migrate(ctx, db))
	// Idempotent
	require.NoError(t, Migrate(ctx, db))
	require.NoError(t, HealthCheck(ctx, db))

	stats := ConnectionStats(db)
	assert.Equal(t, 1, stats.MaxOpenConnections)
}

func TestConnectRejectsUnknownDriver(t *testing.T) {
	config := shared.NewDefaultUnifiedConfiguration().Database
	config.Driver = "oracle"

	_, err := Connect(config)
	assert.Error(t, err)
}

func TestHealthCheckWithoutConnection(t *testing.T) {
	assert.Error(t, HealthCheck(context.Background(), nil))
	assert.Error(t, Migrate(context.Background(), nil))
	assert.Equal(t, 0, ConnectionStats(nil).OpenConnections)
}

// TestConnectPostgres runs against a real server when TEST_DATABASE_URL is reachable
func TestConnectPostgres(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("Skipping Postgres connection test - TEST_DATABASE_URL not set")
	}

	for _, driver := range []string{"postgres", "pgx"} {
		t.Run(driver, func(t *testing.T) {
			config := shared.NewDefaultUnifiedConfiguration().Database
			config.Driver = driver
			config.URL = dbURL
			config.PingTimeout = 3 * time.Second

			db, err := Connect(config)
			if err != nil {
				t.Skipf("Skipping Postgres connection test - database not available: %v", err)
			}
			defer Close(db)

			require.NoError(t, Migrate(context.Background(), db))

			dialect, _ := ParseDialect(driver)
			store := NewSQLStore(db, dialect)
			_, err = store.ListStates(context.Background())
			assert.NoError(t, err)
		})
	}
}
