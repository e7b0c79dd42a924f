package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"playpen/internal/sqlobj"
)

func newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Print the tables of the configured catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := configFrom(cmd)
			src, err := openCatalog(cmd.Context(), cfg, slog.New(slog.DiscardHandler))
			if err != nil {
				return err
			}
			defer src.Close()

			tables, err := src.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}
			renderCatalog(cmd.OutOrStdout(), tables)
			return nil
		},
	}
}

func renderCatalog(w io.Writer, tables []*sqlobj.Table) {
	if len(tables) == 0 {
		_, _ = fmt.Fprintln(w, "(no tables)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Table", "Column", "Type", "Nullable", "PK"})

	columns := 0
	for i, tbl := range tables {
		if i > 0 {
			t.AppendSeparator()
		}
		if tbl.ColumnCount() == 0 {
			t.AppendRow(table.Row{tbl.QualifiedName(), "", "", "", ""})
			continue
		}
		for j, c := range tbl.Columns() {
			name := ""
			if j == 0 {
				name = tbl.QualifiedName()
			}
			t.AppendRow(table.Row{name, c.Name(), c.Type(), yesNo(c.Nullable()), pkMark(c.PrimaryKey())})
			columns++
		}
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d tables, %d columns)\n", len(tables), columns)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func pkMark(b bool) string {
	if b {
		return "*"
	}
	return ""
}
