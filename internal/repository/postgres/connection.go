package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// Connection holds the pgx pool and a database/sql view over the same pool.
type Connection struct {
	*pgxpool.Pool
	sqlDB *sql.DB
}

// NewConnection opens a connection pool to dsn and verifies it is reachable.
func NewConnection(ctx context.Context, dsn string) (*Connection, error) {
	conf, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Connection{
		Pool:  pool,
		sqlDB: stdlib.OpenDBFromPool(pool),
	}, nil
}

// SQL returns a database/sql handle backed by the pool.
func (s *Connection) SQL() *sql.DB {
	return s.sqlDB
}

func (s *Connection) Close() error {
	if s.sqlDB != nil {
		_ = s.sqlDB.Close()
	}
	if s.Pool != nil {
		s.Pool.Close()
	}
	return nil
}

func (s *Connection) Ping(ctx context.Context) error {
	if s.Pool == nil {
		return fmt.Errorf("connection pool is nil")
	}
	return s.Pool.Ping(ctx)
}
