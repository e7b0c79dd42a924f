package catalog

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"

	"playpen/internal/sqlobj"
)

type postgresDialect struct{}

func (postgresDialect) name() string { return DriverPostgres }

func (postgresDialect) listTables(ctx context.Context, db *sql.DB) ([]tableRef, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT table_schema, table_name
		FROM information_schema.tables
		WHERE table_type = 'BASE TABLE'
		  AND table_schema NOT IN ('pg_catalog', 'information_schema')
		ORDER BY table_schema, table_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []tableRef
	for rows.Next() {
		var ref tableRef
		if err := rows.Scan(&ref.schema, &ref.name); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

const postgresColumnsQuery = `
	SELECT c.column_name,
	       c.data_type,
	       c.is_nullable = 'YES',
	       EXISTS (
	           SELECT 1
	           FROM information_schema.table_constraints tc
	           JOIN information_schema.key_column_usage k
	             ON k.constraint_name = tc.constraint_name
	            AND k.table_schema = tc.table_schema
	            AND k.table_name = tc.table_name
	           WHERE tc.constraint_type = 'PRIMARY KEY'
	             AND tc.table_schema = c.table_schema
	             AND tc.table_name = c.table_name
	             AND k.column_name = c.column_name
	       )
	FROM information_schema.columns c
	WHERE c.table_schema = $1 AND c.table_name = $2
	ORDER BY c.ordinal_position`

func (postgresDialect) columns(ctx context.Context, db *sql.DB, ref tableRef) ([]*sqlobj.Column, error) {
	rows, err := db.QueryContext(ctx, postgresColumnsQuery, ref.schema, ref.name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []*sqlobj.Column
	for rows.Next() {
		var (
			name     string
			sqlType  string
			nullable bool
			pk       bool
		)
		if err := rows.Scan(&name, &sqlType, &nullable, &pk); err != nil {
			return nil, err
		}
		cols = append(cols, newColumn(name, sqlType, nullable, pk))
	}
	return cols, rows.Err()
}
