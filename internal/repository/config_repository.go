package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicdesk/clinic-bookings/internal/domain"
)

type ConfigRepository interface {
	Get(ctx context.Context, tenant string) (*domain.TenantConfig, error)
	Upsert(ctx context.Context, cfg *domain.TenantConfig) error
}

type configRepository struct {
	pool *pgxpool.Pool
}

func NewConfigRepository(pool *pgxpool.Pool) ConfigRepository {
	return &configRepository{pool: pool}
}

func (r *configRepository) Get(ctx context.Context, tenant string) (*domain.TenantConfig, error) {
	const q = `SELECT tenant, slots_per_hour, updated_at FROM tenant_configs WHERE tenant=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var c domain.TenantConfig
	err := r.pool.QueryRow(ctx, q, tenant).Scan(&c.Tenant, &c.SlotsPerHour, &c.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return &c, err
}

func (r *configRepository) Upsert(ctx context.Context, cfg *domain.TenantConfig) error {
	const q = `INSERT INTO tenant_configs (tenant, slots_per_hour, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (tenant) DO UPDATE SET slots_per_hour=$2, updated_at=now()`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx, q, cfg.Tenant, cfg.SlotsPerHour)
	return err
}
