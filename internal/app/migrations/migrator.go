package migrations

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/yigit/topicreg/internal/db"
)

// DB is the part of a pgx pool the migrator needs.
type DB interface {
	Executor
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Status describes one known migration and whether it has been applied.
type Status struct {
	Migration Migration
	AppliedAt *time.Time
}

// Migrator manages database migrations
type Migrator struct {
	db         DB
	migrations []Migration
	logger     zerolog.Logger
}

// NewMigrator creates a migrator over every known migration.
func NewMigrator(db DB, logger zerolog.Logger) *Migrator {
	return &Migrator{
		db:         db,
		migrations: All(),
		logger:     logger,
	}
}

// ensureMigrationTableExists creates the migration tracking table if it doesn't exist
func (m *Migrator) ensureMigrationTableExists(ctx context.Context) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`

	_, err := m.db.Exec(ctx, createTableSQL)
	if err != nil {
		return fmt.Errorf("failed to create migration tracking table: %w", err)
	}
	return nil
}

// applied returns the applied versions and when they ran.
func (m *Migrator) applied(ctx context.Context) (map[string]time.Time, error) {
	rows, err := m.db.Query(ctx, `SELECT version, applied_at FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("failed to check migration status: %w", err)
	}
	defer rows.Close()

	out := make(map[string]time.Time)
	for rows.Next() {
		var version string
		var at time.Time
		if err := rows.Scan(&version, &at); err != nil {
			return nil, fmt.Errorf("failed to scan migration status: %w", err)
		}
		out[version] = at
	}
	return out, rows.Err()
}

// Up applies every pending migration in version order, each in its own
// transaction, and returns the IDs it applied.
func (m *Migrator) Up(ctx context.Context) ([]string, error) {
	if err := m.ensureMigrationTableExists(ctx); err != nil {
		return nil, err
	}
	done, err := m.applied(ctx)
	if err != nil {
		return nil, err
	}

	var ran []string
	for _, mig := range m.migrations {
		if _, ok := done[mig.Version]; ok {
			m.logger.Debug().Str("migration", mig.ID()).Msg("Migration already applied, skipping")
			continue
		}

		err := m.inTx(ctx, func(exec Executor) error {
			if err := mig.Up(ctx, exec); err != nil {
				return err
			}
			_, err := exec.Exec(ctx, `INSERT INTO schema_migrations (version, applied_at) VALUES ($1, $2)`,
				mig.Version, time.Now())
			return err
		})
		if err != nil {
			return ran, fmt.Errorf("migration %s failed: %w", mig.ID(), err)
		}

		m.logger.Info().Str("migration", mig.ID()).Msg("Migration successfully applied")
		ran = append(ran, mig.ID())
	}
	return ran, nil
}

// Down rolls back the most recently applied migration. It returns an empty
// ID when nothing is applied.
func (m *Migrator) Down(ctx context.Context) (string, error) {
	if err := m.ensureMigrationTableExists(ctx); err != nil {
		return "", err
	}
	done, err := m.applied(ctx)
	if err != nil {
		return "", err
	}

	for i := len(m.migrations) - 1; i >= 0; i-- {
		mig := m.migrations[i]
		if _, ok := done[mig.Version]; !ok {
			continue
		}

		err := m.inTx(ctx, func(exec Executor) error {
			if err := mig.Down(ctx, exec); err != nil {
				return err
			}
			_, err := exec.Exec(ctx, `DELETE FROM schema_migrations WHERE version = $1`, mig.Version)
			return err
		})
		if err != nil {
			return "", fmt.Errorf("rollback of %s failed: %w", mig.ID(), err)
		}

		m.logger.Info().Str("migration", mig.ID()).Msg("Migration rolled back")
		return mig.ID(), nil
	}
	return "", nil
}

// Status lists every known migration with its application time.
func (m *Migrator) Status(ctx context.Context) ([]Status, error) {
	if err := m.ensureMigrationTableExists(ctx); err != nil {
		return nil, err
	}
	done, err := m.applied(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Status, 0, len(m.migrations))
	for _, mig := range m.migrations {
		s := Status{Migration: mig}
		if at, ok := done[mig.Version]; ok {
			s.AppliedAt = &at
		}
		out = append(out, s)
	}
	return out, nil
}

// inTx runs fn in a transaction. The executor handed to fn serializes
// statements, so a migration may fan out over it.
func (m *Migrator) inTx(ctx context.Context, fn func(exec Executor) error) error {
	return db.RunInTx(ctx, m.db, func(ctx context.Context, tx pgx.Tx) error {
		return fn(&lockedExecutor{exec: tx})
	})
}
