package catalog

import (
	"context"
	"database/sql"
	"strings"

	_ "modernc.org/sqlite"

	"playpen/internal/sqlobj"
)

type sqliteDialect struct{}

func (sqliteDialect) name() string { return DriverSQLite }

func (sqliteDialect) listTables(ctx context.Context, db *sql.DB) ([]tableRef, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT name FROM sqlite_master
		 WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		 ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []tableRef
	for rows.Next() {
		var ref tableRef
		if err := rows.Scan(&ref.name); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func (sqliteDialect) columns(ctx context.Context, db *sql.DB, ref tableRef) ([]*sqlobj.Column, error) {
	// PRAGMA does not take bind parameters.
	rows, err := db.QueryContext(ctx, "PRAGMA table_info("+quoteIdent(ref.name)+")")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []*sqlobj.Column
	for rows.Next() {
		var (
			cid      int
			name     string
			sqlType  string
			notNull  bool
			defValue sql.NullString
			pk       int
		)
		if err := rows.Scan(&cid, &name, &sqlType, &notNull, &defValue, &pk); err != nil {
			return nil, err
		}
		cols = append(cols, newColumn(name, sqlType, !notNull, pk > 0))
	}
	return cols, rows.Err()
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
