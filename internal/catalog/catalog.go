// Package catalog reverse-engineers table definitions from a live database
// into sqlobj tables, which the diagram editor offers as drag sources.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"playpen/internal/sqlobj"
)

// Drivers understood by Open.
const (
	DriverDemo     = "demo"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// ErrUnknownDriver is returned by Open for drivers it cannot serve.
var ErrUnknownDriver = errors.New("unknown catalog driver")

// Source produces the tables of a catalog. Every call returns fresh tables.
type Source interface {
	Load(ctx context.Context) ([]*sqlobj.Table, error)
	Close() error
}

// tableRef names one table found while listing the catalog.
type tableRef struct {
	schema string
	name   string
}

// dialect hides the introspection queries that differ per database.
type dialect interface {
	name() string
	listTables(ctx context.Context, db *sql.DB) ([]tableRef, error)
	columns(ctx context.Context, db *sql.DB, ref tableRef) ([]*sqlobj.Column, error)
}

// Catalog is a Source backed by a database/sql connection.
type Catalog struct {
	db      *sql.DB
	dialect dialect
	logger  *slog.Logger
	workers int
}

var _ Source = (*Catalog)(nil)

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(c *Catalog) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithWorkers limits how many tables have their columns loaded at once.
func WithWorkers(n int) Option {
	return func(c *Catalog) {
		if n > 0 {
			c.workers = n
		}
	}
}

// Open connects to the catalog described by driver and dsn. The demo driver
// ignores dsn and needs no database.
func Open(ctx context.Context, driver, dsn string, opts ...Option) (Source, error) {
	var (
		c   *Catalog
		err error
	)
	switch strings.ToLower(driver) {
	case DriverDemo:
		return Demo(), nil
	case DriverSQLite:
		c, err = open(ctx, "sqlite", dsn, sqliteDialect{}, opts)
	case DriverPostgres:
		c, err = open(ctx, "pgx", dsn, postgresDialect{}, opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func open(ctx context.Context, sqlDriver, dsn string, d dialect, opts []Option) (*Catalog, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("%s: DSN must not be empty", d.name())
	}
	db, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: open: %w", d.name(), err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: ping: %w", d.name(), err)
	}
	return newCatalog(db, d, opts...), nil
}

func newCatalog(db *sql.DB, d dialect, opts ...Option) *Catalog {
	c := &Catalog{
		db:      db,
		dialect: d,
		logger:  slog.New(slog.DiscardHandler),
		workers: 4,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load lists the catalog's tables, then reads their columns concurrently.
// The result keeps the listing order.
func (c *Catalog) Load(ctx context.Context) ([]*sqlobj.Table, error) {
	start := time.Now()
	refs, err := c.dialect.listTables(ctx, c.db)
	if err != nil {
		return nil, fmt.Errorf("%s: list tables: %w", c.dialect.name(), err)
	}

	tables := make([]*sqlobj.Table, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i, ref := range refs {
		g.Go(func() error {
			cols, err := c.dialect.columns(gctx, c.db, ref)
			if err != nil {
				return fmt.Errorf("%s: columns of %s: %w", c.dialect.name(), ref.qualified(), err)
			}
			t := sqlobj.NewTable(ref.name, cols...)
			t.SetSchema(ref.schema)
			tables[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.logger.Info("catalog loaded",
		"driver", c.dialect.name(),
		"tables", len(tables),
		"duration", time.Since(start))
	return tables, nil
}

// Close releases the database connection.
func (c *Catalog) Close() error {
	return c.db.Close()
}

func (r tableRef) qualified() string {
	if r.schema == "" {
		return r.name
	}
	return r.schema + "." + r.name
}

// newColumn builds a column from introspected attributes.
func newColumn(name, sqlType string, nullable, pk bool) *sqlobj.Column {
	col := sqlobj.NewColumn(name, strings.ToUpper(sqlType))
	col.SetNullable(nullable && !pk)
	col.SetPrimaryKey(pk)
	return col
}
