package catalog

import (
	"context"

	"playpen/internal/sqlobj"
)

// DemoSource serves a small built-in shop schema so the editor can be tried
// without a database.
type DemoSource struct{}

var _ Source = DemoSource{}

// Demo returns the built-in catalog.
func Demo() DemoSource { return DemoSource{} }

type demoColumn struct {
	name     string
	sqlType  string
	nullable bool
	pk       bool
}

var demoSchema = []struct {
	name    string
	columns []demoColumn
}{
	{"customers", []demoColumn{
		{"id", "INTEGER", false, true},
		{"email", "TEXT", false, false},
		{"name", "TEXT", true, false},
		{"created_at", "TIMESTAMP", false, false},
	}},
	{"order_items", []demoColumn{
		{"order_id", "INTEGER", false, true},
		{"product_id", "INTEGER", false, true},
		{"quantity", "INTEGER", false, false},
	}},
	{"orders", []demoColumn{
		{"id", "INTEGER", false, true},
		{"customer_id", "INTEGER", false, false},
		{"placed_at", "TIMESTAMP", false, false},
		{"total", "NUMERIC", true, false},
	}},
	{"products", []demoColumn{
		{"id", "INTEGER", false, true},
		{"sku", "TEXT", false, false},
		{"title", "TEXT", false, false},
		{"price", "NUMERIC", false, false},
	}},
}

// Load builds fresh copies of the demo tables.
func (DemoSource) Load(ctx context.Context) ([]*sqlobj.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tables := make([]*sqlobj.Table, 0, len(demoSchema))
	for _, def := range demoSchema {
		cols := make([]*sqlobj.Column, 0, len(def.columns))
		for _, c := range def.columns {
			cols = append(cols, newColumn(c.name, c.sqlType, c.nullable, c.pk))
		}
		t := sqlobj.NewTable(def.name, cols...)
		t.SetSchema("demo")
		tables = append(tables, t)
	}
	return tables, nil
}

// Close is a no-op.
func (DemoSource) Close() error { return nil }
