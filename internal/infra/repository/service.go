package repository

import (
	"context"

	"catotel/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ServiceRepository struct {
	db *pgxpool.Pool
}

func NewServiceRepository(db *pgxpool.Pool) *ServiceRepository {
	return &ServiceRepository{db: db}
}

func (r *ServiceRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]shared.ServiceSnapshot, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, name, price_cents, active FROM services WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, classify("failed to find services", err)
	}
	defer rows.Close()

	var services []shared.ServiceSnapshot
	for rows.Next() {
		var svc shared.ServiceSnapshot
		if err := rows.Scan(&svc.ID, &svc.Name, &svc.PriceCents, &svc.Active); err != nil {
			return nil, classify("failed to scan service", err)
		}
		services = append(services, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("failed to iterate services", err)
	}
	return services, nil
}

// ServicesByIDs satisfies the read-side port with the same lookup.
func (r *ServiceRepository) ServicesByIDs(ctx context.Context, ids []uuid.UUID) ([]shared.ServiceSnapshot, error) {
	return r.FindByIDs(ctx, ids)
}
