package database

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicdesk/clinic-bookings/pkg/config"
)

func Connect(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	pc, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}

	pc.MinConns = int32(cfg.MinConns)
	pc.MaxConns = int32(cfg.MaxConns)
	pc.MaxConnLifetime = cfg.MaxLifetime
	pc.HealthCheckPeriod = 30 * time.Second

	return pgxpool.NewWithConfig(ctx, pc)
}

// Lazy defers pool creation until first use. Concurrent first callers share
// a single underlying pool; the connect attempt happens exactly once.
type Lazy struct {
	cfg  config.DatabaseConfig
	once sync.Once
	pool *pgxpool.Pool
	err  error
}

func NewLazy(cfg config.DatabaseConfig) *Lazy {
	return &Lazy{cfg: cfg}
}

func (l *Lazy) Get(ctx context.Context) (*pgxpool.Pool, error) {
	l.once.Do(func() {
		l.pool, l.err = Connect(ctx, l.cfg)
	})
	return l.pool, l.err
}

func (l *Lazy) Close() {
	if l.pool != nil {
		l.pool.Close()
	}
}
