package repository

import (
	"context"
	"encoding/json"
	"time"

	"catotel/internal/domain/pricing"
	"catotel/internal/infra"
	"catotel/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PricingConfigRepository manages the single active pricing snapshot with
// optimistic versioning.
type PricingConfigRepository struct {
	db *pgxpool.Pool
}

func NewPricingConfigRepository(db *pgxpool.Pool) *PricingConfigRepository {
	return &PricingConfigRepository{db: db}
}

func (r *PricingConfigRepository) Active(ctx context.Context) (pricing.Config, int64, error) {
	var (
		raw     []byte
		version int64
	)
	err := r.db.QueryRow(ctx,
		`SELECT config, version FROM pricing_configurations WHERE id = 1`,
	).Scan(&raw, &version)
	if err != nil {
		return pricing.Config{}, 0, classify("failed to load pricing config", err)
	}

	var cfg pricing.Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return pricing.Config{}, 0, infra.WrapRepoErr("failed to decode pricing config", err)
	}
	return cfg, version, nil
}

func (r *PricingConfigRepository) Replace(ctx context.Context, cfg pricing.Config, expectedVersion int64) (int64, error) {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to encode pricing config", err)
	}

	var newVersion int64
	err = r.db.QueryRow(ctx, `
		UPDATE pricing_configurations
		SET config = $1, version = version + 1, updated_at = now()
		WHERE id = 1 AND version = $2
		RETURNING version`,
		raw, expectedVersion,
	).Scan(&newVersion)
	if err != nil {
		// No row matched: the version moved under us.
		return 0, classifyVersionMiss(err)
	}
	return newVersion, nil
}

func classifyVersionMiss(err error) error {
	wrapped := classify("failed to replace pricing config", err)
	if infra.IsKind(wrapped, infra.KindNotFound) {
		return infra.WrapRepoErr("pricing config version conflict", err, infra.KindConflict)
	}
	return wrapped
}

// ActiveConfig serves the admin read model.
func (r *PricingConfigRepository) ActiveConfig(ctx context.Context) (*queries.PricingConfigView, error) {
	var (
		raw       []byte
		version   int64
		updatedAt time.Time
	)
	err := r.db.QueryRow(ctx,
		`SELECT config, version, updated_at FROM pricing_configurations WHERE id = 1`,
	).Scan(&raw, &version, &updatedAt)
	if err != nil {
		return nil, classify("failed to load pricing config view", err)
	}

	var cfg pricing.Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, infra.WrapRepoErr("failed to decode pricing config", err)
	}
	return &queries.PricingConfigView{Version: version, Config: cfg, UpdatedAt: updatedAt}, nil
}
