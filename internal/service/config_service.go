package service

import (
	"context"
	"strconv"

	"github.com/clinicdesk/clinic-bookings/internal/domain"
	"github.com/clinicdesk/clinic-bookings/internal/repository"
	"github.com/clinicdesk/clinic-bookings/internal/utils"
)

type ConfigService interface {
	// Get returns the stored tenant config, lazily persisting the default on
	// first access so subsequent reads do not re-derive it.
	Get(ctx context.Context, tenant string) (*domain.TenantConfig, error)
	// Set parses and stores a new slot capacity; unparseable or non-positive
	// values fall back to the configured default.
	Set(ctx context.Context, tenant, slotsPerHour string) (*domain.TenantConfig, error)
}

type configService struct {
	configs    repository.ConfigRepository
	defaultCap int
}

func NewConfigService(configs repository.ConfigRepository) ConfigService {
	return &configService{configs: configs, defaultCap: domain.DefaultSlotsPerHour}
}

// NewConfigServiceWithDefault overrides the fallback capacity used when a
// tenant has no stored config, normally sourced from DEFAULT_SLOTS_PER_HOUR.
func NewConfigServiceWithDefault(configs repository.ConfigRepository, defaultCap int) ConfigService {
	if defaultCap < 1 {
		defaultCap = domain.DefaultSlotsPerHour
	}
	return &configService{configs: configs, defaultCap: defaultCap}
}

func (s *configService) Get(ctx context.Context, tenant string) (*domain.TenantConfig, error) {
	tenant = utils.NormalizeEmail(tenant)

	cfg, err := s.configs.Get(ctx, tenant)
	if err != nil {
		return nil, &domain.StorageError{Op: "get config", Err: err}
	}
	if cfg != nil {
		return cfg, nil
	}

	cfg = &domain.TenantConfig{Tenant: tenant, SlotsPerHour: s.defaultCap}
	if err := s.configs.Upsert(ctx, cfg); err != nil {
		return nil, &domain.StorageError{Op: "persist default config", Err: err}
	}
	return cfg, nil
}

func (s *configService) Set(ctx context.Context, tenant, slotsPerHour string) (*domain.TenantConfig, error) {
	tenant = utils.NormalizeEmail(tenant)

	n, err := strconv.Atoi(utils.NormalizeString(slotsPerHour))
	if err != nil || n < 1 {
		n = s.defaultCap
	}

	cfg := &domain.TenantConfig{Tenant: tenant, SlotsPerHour: n}
	if err := s.configs.Upsert(ctx, cfg); err != nil {
		return nil, &domain.StorageError{Op: "upsert config", Err: err}
	}
	return cfg, nil
}
