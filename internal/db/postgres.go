package db

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/yigit/topicreg/internal/config"
)

// ErrNotReady is returned by every query issued before the connection pool
// has been established and prepared.
var ErrNotReady = errors.New("database connection not ready")

// Querier is the query surface shared by the pool, transactions and PostgresDB.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SetupFn runs once against a freshly connected pool before it is published,
// typically to apply migrations and seed data.
type SetupFn func(ctx context.Context, pool *pgxpool.Pool) error

// PostgresDB is the process-wide store handle. It starts empty and becomes
// usable once ConnectInBackground succeeds; Ready is closed at that point.
type PostgresDB struct {
	cfg    *config.Config
	logger zerolog.Logger

	mu    sync.RWMutex
	pool  *pgxpool.Pool
	ready chan struct{}
	once  sync.Once
}

// NewPostgresDB creates an unconnected handle.
func NewPostgresDB(cfg *config.Config, logger zerolog.Logger) *PostgresDB {
	return &PostgresDB{
		cfg:    cfg,
		logger: logger,
		ready:  make(chan struct{}),
	}
}

// PoolConfig translates the database section of the configuration.
func PoolConfig(cfg *config.Config) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.GetPostgresConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgxpool config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)

	idle, err := time.ParseDuration(cfg.Database.MaxConnIdleTime)
	if err != nil {
		return nil, fmt.Errorf("failed to parse max connection idle time: %w", err)
	}
	poolConfig.MaxConnIdleTime = idle

	return poolConfig, nil
}

// Connect makes a single attempt to open and verify a pool.
func Connect(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolConfig, err := PoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to establish database connection: %w", err)
	}

	return pool, nil
}

// ConnectInBackground keeps trying to connect and run setup every retry
// interval until it succeeds or ctx is cancelled. Failures are logged and
// never stop the process.
func (db *PostgresDB) ConnectInBackground(ctx context.Context, retry time.Duration, setup SetupFn) {
	go func() {
		attempt := 0
		for {
			attempt++
			err := db.connectOnce(ctx, setup)
			if err == nil {
				db.logger.Info().Int("attempt", attempt).Msg("Connection has been established successfully")
				return
			}
			db.logger.Error().Err(err).Int("attempt", attempt).Dur("retryIn", retry).Msg("Unable to connect to the database")

			select {
			case <-ctx.Done():
				db.logger.Warn().Msg("Giving up database connection attempts")
				return
			case <-time.After(retry):
			}
		}
	}()
}

func (db *PostgresDB) connectOnce(ctx context.Context, setup SetupFn) error {
	pool, err := Connect(ctx, db.cfg)
	if err != nil {
		return err
	}
	if setup != nil {
		if err := setup(ctx, pool); err != nil {
			pool.Close()
			return fmt.Errorf("database setup failed: %w", err)
		}
	}
	db.publish(pool)
	return nil
}

func (db *PostgresDB) publish(pool *pgxpool.Pool) {
	db.once.Do(func() {
		db.mu.Lock()
		db.pool = pool
		db.mu.Unlock()
		close(db.ready)
	})
}

// Ready is closed once the pool is usable.
func (db *PostgresDB) Ready() <-chan struct{} {
	return db.ready
}

// IsReady reports readiness without blocking.
func (db *PostgresDB) IsReady() bool {
	select {
	case <-db.ready:
		return true
	default:
		return false
	}
}

// WaitReady blocks until the pool is ready or ctx ends, returning ErrNotReady
// in the latter case.
func (db *PostgresDB) WaitReady(ctx context.Context) error {
	select {
	case <-db.ready:
		return nil
	case <-ctx.Done():
		return ErrNotReady
	}
}

func (db *PostgresDB) current() (*pgxpool.Pool, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if db.pool == nil {
		return nil, ErrNotReady
	}
	return db.pool, nil
}

func (db *PostgresDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	pool, err := db.current()
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	return pool.Exec(ctx, sql, args...)
}

func (db *PostgresDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	pool, err := db.current()
	if err != nil {
		return nil, err
	}
	return pool.Query(ctx, sql, args...)
}

func (db *PostgresDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	pool, err := db.current()
	if err != nil {
		return errRow{err: err}
	}
	return pool.QueryRow(ctx, sql, args...)
}

// Ping checks connectivity of a ready pool.
func (db *PostgresDB) Ping(ctx context.Context) error {
	pool, err := db.current()
	if err != nil {
		return err
	}
	return pool.Ping(ctx)
}

// Close releases the pool if one was established.
func (db *PostgresDB) Close() {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.pool != nil {
		db.pool.Close()
		db.pool = nil
	}
}

// TransactionFn is a function that executes within a transaction
type TransactionFn func(ctx context.Context, tx pgx.Tx) error

// WithTransaction runs fn inside a transaction, rolling back on error or panic.
func (db *PostgresDB) WithTransaction(ctx context.Context, fn TransactionFn) error {
	pool, err := db.current()
	if err != nil {
		return err
	}
	return RunInTx(ctx, pool, fn)
}

// TxStarter is anything that can begin a transaction: a pool, a connection or
// an outer transaction.
type TxStarter interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// RunInTx is WithTransaction for callers holding a pool directly.
func RunInTx(ctx context.Context, db TxStarter, fn TransactionFn) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback(ctx)
			panic(r)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type errRow struct {
	err error
}

func (r errRow) Scan(...any) error {
	return r.err
}
