package persist

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/symbiote/engine/internal/config"
	"go.uber.org/zap"
)

// DB is the snapshot database: a pgx pool whose world_snapshots schema has
// been migrated to the latest version.
type DB struct {
	Pool   *pgxpool.Pool
	log    *zap.Logger
	schema int64
}

// OpenSnapshotDB connects, applies pending migrations and records the
// resulting schema version.
func OpenSnapshotDB(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (*DB, error) {
	pool, err := connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := RunMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	schema, err := SchemaVersion(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}

	db := &DB{Pool: pool, log: log, schema: schema}
	log.Info("snapshot database ready",
		zap.String("host", pool.Config().ConnConfig.Host),
		zap.String("database", pool.Config().ConnConfig.Database),
		zap.Int64("schema_version", schema),
	)
	return db, nil
}

func connect(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	}
	poolCfg.MinConns = int32(cfg.MaxIdleConns)
	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect snapshot db: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping snapshot db: %w", err)
	}
	return pool, nil
}

// SchemaVersion returns the migration version seen when the database was
// opened.
func (db *DB) SchemaVersion() int64 { return db.schema }

// Snapshots returns the snapshot repository backed by db.
func (db *DB) Snapshots() *SnapshotRepo { return NewSnapshotRepo(db) }

func (db *DB) Close() {
	db.Pool.Close()
	db.log.Debug("snapshot database closed")
}
