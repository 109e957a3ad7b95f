package migration

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"slices"
	"strconv"
	"strings"
	"time"

	applog "github.com/cattyman919/contact/app/utils/logger"
)

type Migration struct {
	Version int
	Name    string
	UpSQL   string
	DownSQL string
}

// Status describes one known migration and whether it is applied
type Status struct {
	Version   int
	Name      string
	Applied   bool
	AppliedAt time.Time
}

type Migrator struct {
	db           *sql.DB
	logger       *slog.Logger
	migrationsFS fs.FS
}

// NewMigrator creates a new migration manager
func NewMigrator(db *sql.DB, logger *slog.Logger, migrationsFS fs.FS) *Migrator {
	return &Migrator{
		db:           db,
		logger:       applog.WithComponent(logger, "migrator"),
		migrationsFS: migrationsFS,
	}
}

const createMigrationsTableSQL = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
		checksum VARCHAR(64) NOT NULL
	)`

// CreateMigrationsTable creates the migrations tracking table
func (m *Migrator) CreateMigrationsTable(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, createMigrationsTableSQL); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

// LoadMigrations reads every NNN_name.up.sql with its .down.sql pair, sorted by version
func LoadMigrations(migrationsFS fs.FS) ([]Migration, error) {
	var migrations []Migration

	err := fs.WalkDir(migrationsFS, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".up.sql") {
			return nil
		}

		base := strings.TrimSuffix(path.Base(p), ".up.sql")
		versionPart, name, ok := strings.Cut(base, "_")
		if !ok {
			return fmt.Errorf("invalid migration filename %q: expected NNN_name.up.sql", p)
		}
		version, err := strconv.Atoi(versionPart)
		if err != nil {
			return fmt.Errorf("invalid migration version in %q: %w", p, err)
		}

		upContent, err := fs.ReadFile(migrationsFS, p)
		if err != nil {
			return fmt.Errorf("failed to read up migration %s: %w", p, err)
		}
		downPath := strings.TrimSuffix(p, ".up.sql") + ".down.sql"
		downContent, err := fs.ReadFile(migrationsFS, downPath)
		if err != nil {
			return fmt.Errorf("failed to read down migration %s: %w", downPath, err)
		}

		migrations = append(migrations, Migration{
			Version: version,
			Name:    name,
			UpSQL:   string(upContent),
			DownSQL: string(downContent),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}

	slices.SortFunc(migrations, func(a, b Migration) int { return a.Version - b.Version })
	for i := 1; i < len(migrations); i++ {
		if migrations[i].Version == migrations[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d", migrations[i].Version)
		}
	}

	return migrations, nil
}

type appliedMigration struct {
	version   int
	appliedAt time.Time
}

func (m *Migrator) appliedMigrations(ctx context.Context) ([]appliedMigration, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT version, applied_at FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer rows.Close()

	var applied []appliedMigration
	for rows.Next() {
		var a appliedMigration
		if err := rows.Scan(&a.version, &a.appliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan migration row: %w", err)
		}
		applied = append(applied, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating migration rows: %w", err)
	}

	return applied, nil
}

// Up runs all pending migrations and returns how many were applied
func (m *Migrator) Up(ctx context.Context) (int, error) {
	if err := m.CreateMigrationsTable(ctx); err != nil {
		return 0, err
	}

	statuses, migrations, err := m.status(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for i, s := range statuses {
		if s.Applied {
			continue
		}
		if err := m.apply(ctx, migrations[i]); err != nil {
			return count, fmt.Errorf("failed to apply migration %d: %w", s.Version, err)
		}
		m.logger.InfoContext(ctx, "applied migration", "version", s.Version, "name", s.Name)
		count++
	}

	return count, nil
}

// Down rolls back up to steps applied migrations, newest first
func (m *Migrator) Down(ctx context.Context, steps int) (int, error) {
	if err := m.CreateMigrationsTable(ctx); err != nil {
		return 0, err
	}

	statuses, migrations, err := m.status(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for i := len(statuses) - 1; i >= 0 && count < steps; i-- {
		if !statuses[i].Applied {
			continue
		}
		if err := m.rollback(ctx, migrations[i]); err != nil {
			return count, fmt.Errorf("failed to rollback migration %d: %w", statuses[i].Version, err)
		}
		m.logger.InfoContext(ctx, "rolled back migration", "version", statuses[i].Version, "name", statuses[i].Name)
		count++
	}

	return count, nil
}

// Status reports every known migration in version order
func (m *Migrator) Status(ctx context.Context) ([]Status, error) {
	if err := m.CreateMigrationsTable(ctx); err != nil {
		return nil, err
	}
	statuses, _, err := m.status(ctx)
	return statuses, err
}

func (m *Migrator) status(ctx context.Context) ([]Status, []Migration, error) {
	migrations, err := LoadMigrations(m.migrationsFS)
	if err != nil {
		return nil, nil, err
	}
	applied, err := m.appliedMigrations(ctx)
	if err != nil {
		return nil, nil, err
	}

	statuses, err := mergeStatus(migrations, applied)
	if err != nil {
		return nil, nil, err
	}
	return statuses, migrations, nil
}

// mergeStatus fails when the database holds a version with no file
func mergeStatus(migrations []Migration, applied []appliedMigration) ([]Status, error) {
	appliedAt := make(map[int]time.Time, len(applied))
	for _, a := range applied {
		appliedAt[a.version] = a.appliedAt
	}

	statuses := make([]Status, len(migrations))
	for i, mig := range migrations {
		at, ok := appliedAt[mig.Version]
		statuses[i] = Status{Version: mig.Version, Name: mig.Name, Applied: ok, AppliedAt: at}
		delete(appliedAt, mig.Version)
	}
	for version := range appliedAt {
		return nil, fmt.Errorf("migration %d is applied but not found in filesystem", version)
	}

	return statuses, nil
}

func (m *Migrator) apply(ctx context.Context, migration Migration) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, migration.UpSQL); err != nil {
		return fmt.Errorf("failed to execute migration: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, name, checksum) VALUES ($1, $2, $3)`,
		migration.Version, migration.Name, Checksum(migration.UpSQL),
	); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}

	return tx.Commit()
}

func (m *Migrator) rollback(ctx context.Context, migration Migration) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, migration.DownSQL); err != nil {
		return fmt.Errorf("failed to execute rollback: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM schema_migrations WHERE version = $1`, migration.Version); err != nil {
		return fmt.Errorf("failed to remove migration record: %w", err)
	}

	return tx.Commit()
}

// Checksum returns the hex SHA-256 of a migration body
func Checksum(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
