package main

import (
	"context"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cattyman919/contact/app/config"
	"github.com/cattyman919/contact/app/utils/database"
	"github.com/cattyman919/contact/app/utils/logger"
	"github.com/cattyman919/contact/app/utils/migration"
)

//go:embed migrations
var migrationsFS embed.FS

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Could not load .env file", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(migrationsFS, viper.New()).ExecuteContext(ctx); err != nil {
		slog.Error("migration command failed", "error", err)
		os.Exit(1)
	}
}

// newRootCmd builds the migrate CLI. Flags can also be set through
// MIGRATE_* environment variables.
func newRootCmd(files fs.FS, v *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the contacts database schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	_ = v.BindPFlag("verbose", root.PersistentFlags().Lookup("verbose"))
	v.SetEnvPrefix("MIGRATE")
	v.AutomaticEnv()

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd.Context(), files, v, func(ctx context.Context, m *migration.Migrator, log *slog.Logger) error {
				start := time.Now()
				count, err := m.Up(ctx)
				if err != nil {
					return err
				}
				logger.LogDuration(ctx, log, start, "migrate_up", "applied", count)
				return nil
			})
		},
	}

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the newest applied migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			steps := v.GetInt("steps")
			if steps < 1 {
				return fmt.Errorf("--steps must be at least 1, got %d", steps)
			}
			return withMigrator(cmd.Context(), files, v, func(ctx context.Context, m *migration.Migrator, log *slog.Logger) error {
				start := time.Now()
				count, err := m.Down(ctx, steps)
				if err != nil {
					return err
				}
				logger.LogDuration(ctx, log, start, "migrate_down", "rolled_back", count)
				return nil
			})
		},
	}
	down.Flags().Int("steps", 1, "number of migrations to roll back")
	_ = v.BindPFlag("steps", down.Flags().Lookup("steps"))

	status := &cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd.Context(), files, v, func(ctx context.Context, m *migration.Migrator, _ *slog.Logger) error {
				statuses, err := m.Status(ctx)
				if err != nil {
					return err
				}
				return printStatus(cmd.OutOrStdout(), statuses)
			})
		},
	}

	root.AddCommand(up, down, status)
	return root
}

func withMigrator(
	ctx context.Context,
	files fs.FS,
	v *viper.Viper,
	fn func(context.Context, *migration.Migrator, *slog.Logger) error,
) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	level := cfg.LogLevel
	if v.GetBool("verbose") {
		level = "debug"
	}
	log, err := logger.New(level)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	conn, err := database.NewConnection(ctx, database.ConfigFrom(cfg), log)
	if err != nil {
		return err
	}
	defer conn.Close()

	return fn(ctx, migration.NewMigrator(conn.DB(), log, files), log)
}

func printStatus(w io.Writer, statuses []migration.Status) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{
					ShowHeader:     tw.Off,
					BetweenRows:    tw.Off,
					BetweenColumns: tw.Off,
				},
				Lines: tw.Lines{ShowHeaderLine: tw.Off},
			},
		}),
	)
	table.Header([]string{"Version", "Name", "Status", "Applied At"})

	rows := make([][]string, 0, len(statuses))
	for _, s := range statuses {
		state, at := color.YellowString("pending"), "-"
		if s.Applied {
			state, at = color.GreenString("applied"), s.AppliedAt.UTC().Format(time.RFC3339)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%03d", s.Version),
			strings.ReplaceAll(s.Name, "_", " "),
			state,
			at,
		})
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}
