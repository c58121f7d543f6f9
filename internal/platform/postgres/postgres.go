// Package postgres opens the two PostgreSQL handles the service uses: a
// database/sql pool on lib/pq for transactional writes and a pgx pool for
// read-heavy registry queries.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"

	"ffwpu/internal/platform/config"
)

// Handles groups the connections opened for one DATABASE_URL.
type Handles struct {
	DB   *sql.DB
	Pool *pgxpool.Pool
}

// Open connects both pools and pings them.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Handles, error) {
	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	pool, err := pgxpool.New(ctx, cfg.URL)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open pgx pool: %w", err)
	}
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		_ = db.Close()
		return nil, fmt.Errorf("ping pgx pool: %w", err)
	}

	return &Handles{DB: db, Pool: pool}, nil
}

// Health pings the transactional pool.
func (h *Handles) Health(ctx context.Context) error {
	return h.DB.PingContext(ctx)
}

// Close releases both pools.
func (h *Handles) Close() error {
	h.Pool.Close()
	return h.DB.Close()
}
