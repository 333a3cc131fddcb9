package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"time"

	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/gardenexchange/backend/config"
	"github.com/gardenexchange/backend/database/models"
)

const (
	defaultConnTimeout   = 5 * time.Second
	defaultMaxRetries    = 3
	defaultRetryInterval = time.Second
)

type DB struct {
	pool  *pgxpool.Pool
	bunDB *bun.DB
}

// New dials the Postgres server, configures the connection pool and
// returns a ready DB handle. The raw TCP probe keeps startup failures
// fast and distinguishable from query errors.
func New(ctx context.Context, cfg config.DBConfig) (*DB, error) {
	var conn net.Conn
	var err error

	addr := net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", cfg.Port))
	for i := 0; i < defaultMaxRetries; i++ {
		conn, err = net.DialTimeout("tcp", addr, defaultConnTimeout)
		if err == nil {
			break
		}
		time.Sleep(defaultRetryInterval)
	}
	if err != nil {
		return nil, fmt.Errorf("database server unreachable after %d attempts: %w", defaultMaxRetries, err)
	}
	conn.Close()

	poolConfig, err := pgxpool.ParseConfig(buildConnString(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	if cfg.PoolSize > 0 {
		poolConfig.MaxConns = int32(cfg.PoolSize)
	}
	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = int32(cfg.MaxIdleConns)
	}
	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = time.Duration(cfg.MaxLifetime) * time.Second
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return &DB{pool: pool, bunDB: newBunDB(cfg)}, nil
}

func buildConnString(cfg config.DBConfig) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?connect_timeout=5",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database,
	)
}

func newBunDB(cfg config.DBConfig) *bun.DB {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database)

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

func (db *DB) BunDB() *bun.DB {
	return db.bunDB
}

func (db *DB) Close() {
	if db.bunDB != nil {
		db.bunDB.Close()
	}
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the application tables when they do not exist.
// Creation order follows foreign key dependencies.
func (db *DB) EnsureSchema(ctx context.Context) error {
	tables := []interface{}{
		(*models.User)(nil),
		(*models.TradingItem)(nil),
		(*models.TradeAd)(nil),
		(*models.ChatMessage)(nil),
		(*models.Vouch)(nil),
	}

	for _, table := range tables {
		start := time.Now()
		_, err := db.bunDB.NewCreateTable().
			Model(table).
			IfNotExists().
			WithForeignKeys().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create table for %T: %w", table, err)
		}
		slog.Debug("Table ensured",
			slog.String("type", "db"),
			slog.String("model", fmt.Sprintf("%T", table)),
			slog.Duration("took", time.Since(start)))
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_trade_ads_user_id ON trade_ads (user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_trade_ads_status ON trade_ads (status)`,
		`CREATE INDEX IF NOT EXISTS idx_trade_ads_status_created ON trade_ads (status, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_chat_trade_ad_id ON chat_messages (trade_ad_id)`,
		`CREATE INDEX IF NOT EXISTS idx_vouches_to_user_id ON vouches (to_user_id)`,
	}
	for _, stmt := range indexes {
		if _, err := db.bunDB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}
