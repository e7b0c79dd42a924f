package catalog

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playpen/internal/sqlobj"
	"playpen/internal/testutil"
)

const testSchema = `
CREATE TABLE users (
	id INTEGER PRIMARY KEY,
	email text NOT NULL,
	name TEXT
);
CREATE TABLE "order lines" (
	order_id INTEGER NOT NULL,
	line INTEGER NOT NULL,
	amount NUMERIC,
	PRIMARY KEY (order_id, line)
);
CREATE TABLE empty_table (x);
`

func newSQLiteDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Exec(testSchema)
	require.NoError(t, err)
	return path
}

type colSummary struct {
	Name     string
	Type     string
	Nullable bool
	PK       bool
}

func summarize(t *sqlobj.Table) []colSummary {
	var out []colSummary
	for _, c := range t.Columns() {
		out = append(out, colSummary{c.Name(), c.Type(), c.Nullable(), c.PrimaryKey()})
	}
	return out
}

func tableNames(tables []*sqlobj.Table) []string {
	var names []string
	for _, t := range tables {
		names = append(names, t.Name())
	}
	return names
}

func TestOpen_SQLite(t *testing.T) {
	ctx := context.Background()
	src, err := Open(ctx, DriverSQLite, newSQLiteDB(t), WithLogger(testutil.NewTestLogger(t)), WithWorkers(2))
	require.NoError(t, err)
	t.Cleanup(func() { src.Close() })

	tables, err := src.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"empty_table", "order lines", "users"}, tableNames(tables))

	assert.Equal(t, []colSummary{
		{"order_id", "INTEGER", false, true},
		{"line", "INTEGER", false, true},
		{"amount", "NUMERIC", true, false},
	}, summarize(tables[1]))

	users := tables[2]
	assert.Equal(t, []colSummary{
		{"id", "INTEGER", false, true},
		{"email", "TEXT", false, false},
		{"name", "TEXT", true, false},
	}, summarize(users))
	assert.Equal(t, "users", users.QualifiedName())
	for _, c := range users.Columns() {
		assert.Same(t, users, c.Parent())
	}

	assert.Equal(t, []colSummary{{"x", "", true, false}}, summarize(tables[0]))
}

func TestLoad_ReturnsFreshTables(t *testing.T) {
	ctx := context.Background()
	src, err := Open(ctx, DriverSQLite, newSQLiteDB(t))
	require.NoError(t, err)
	defer src.Close()

	first, err := src.Load(ctx)
	require.NoError(t, err)
	second, err := src.Load(ctx)
	require.NoError(t, err)
	assert.NotSame(t, first[0], second[0])
	assert.NotEqual(t, first[0].ID(), second[0].ID())
}

func TestLoad_CanceledContext(t *testing.T) {
	src, err := Open(context.Background(), DriverSQLite, newSQLiteDB(t))
	require.NoError(t, err)
	defer src.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = src.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpen_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := Open(ctx, "mysql", "whatever")
	assert.ErrorIs(t, err, ErrUnknownDriver)

	_, err = Open(ctx, DriverSQLite, "  ")
	assert.ErrorContains(t, err, "DSN must not be empty")

	_, err = Open(ctx, DriverPostgres, "")
	assert.ErrorContains(t, err, "DSN must not be empty")
}

func TestOpen_Postgres(t *testing.T) {
	dsn := os.Getenv("PLAYPEN_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("PLAYPEN_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	src, err := Open(ctx, DriverPostgres, dsn)
	require.NoError(t, err)
	defer src.Close()

	_, err = src.Load(ctx)
	require.NoError(t, err)
}

func TestDemo(t *testing.T) {
	src, err := Open(context.Background(), "DEMO", "")
	require.NoError(t, err)

	tables, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"customers", "order_items", "orders", "products"}, tableNames(tables))
	assert.Equal(t, "demo.customers", tables[0].QualifiedName())
	assert.Len(t, tables[1].PrimaryKey(), 2)
	assert.NoError(t, src.Close())
}
