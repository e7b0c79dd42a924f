// Command playpen is a terminal ER-diagram editor. Tables are read from a
// database catalog and dragged onto a diagram of table panes.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"playpen/internal/catalog"
	"playpen/internal/config"
	"playpen/internal/dnd"
	"playpen/internal/trace"
	"playpen/internal/ui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// configKey stores the loaded config in the command context.
type configKey struct{}

func configFrom(cmd *cobra.Command) *config.Config {
	cfg, _ := cmd.Context().Value(configKey{}).(*config.Config)
	return cfg
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:   "playpen",
		Short: "Terminal ER-diagram editor",
		Long: `playpen shows the tables of a database catalog and lets you lay them out
as panes on a diagram. Pick tables or columns up in the catalog and drop
them onto a pane to copy them into that table.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), configFrom(cmd))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./playpen.yaml)")
	root.PersistentFlags().String("catalog-driver", catalog.DriverDemo, "catalog source (demo|sqlite|postgres)")
	root.PersistentFlags().String("catalog-dsn", "", "catalog data source name")
	root.PersistentFlags().String("log-level", "info", "log level (debug|info|warn|error)")
	root.PersistentFlags().String("log-file", "", "log file (default: playpen.log)")
	root.PersistentFlags().String("trace-endpoint", "", "OTLP/HTTP collector for drop spans")

	_ = root.RegisterFlagCompletionFunc("catalog-driver", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{catalog.DriverDemo, catalog.DriverSQLite, catalog.DriverPostgres}, cobra.ShellCompDirectiveNoFileComp
	})

	root.AddCommand(newCatalogCmd())
	return root
}

// openLogger returns a text logger on the configured log file. The terminal
// belongs to the TUI.
func openLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { f.Close() }, nil
}

func openCatalog(ctx context.Context, cfg *config.Config, logger *slog.Logger) (catalog.Source, error) {
	src, err := catalog.Open(ctx, cfg.Catalog.Driver, cfg.Catalog.DSN, catalog.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	return src, nil
}

func runTUI(ctx context.Context, cfg *config.Config) error {
	logger, closeLog, err := openLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	tp, shutdownTracing, err := trace.Setup(ctx, trace.Config{
		Endpoint:    cfg.Trace.Endpoint,
		ServiceName: cfg.Trace.ServiceName,
	})
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Error("trace shutdown", "err", err)
		}
	}()

	src, err := openCatalog(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer src.Close()

	m := ui.NewAppModel(ui.AppOptions{
		Loader: src,
		Logger: logger,
		Diagram: ui.DiagramOptions{
			Delegate: ui.NewBasicDelegate(cfg.Pane.MinWidth),
			Margin: ui.Insets{
				Top:    cfg.Pane.Margin.Top,
				Left:   cfg.Pane.Margin.Left,
				Bottom: cfg.Pane.Margin.Bottom,
				Right:  cfg.Pane.Margin.Right,
			},
			DropOptions: []dnd.Option{dnd.WithTracerProvider(tp)},
		},
	})
	defer m.Close()

	logger.Info("playpen starting", "driver", cfg.Catalog.Driver, "config", cfg.File)
	p := tea.NewProgram(m.AsTeaModel(), tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}
