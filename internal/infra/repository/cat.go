package repository

import (
	"context"

	"catotel/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CatRepository struct {
	db *pgxpool.Pool
}

func NewCatRepository(db *pgxpool.Pool) *CatRepository {
	return &CatRepository{db: db}
}

func (r *CatRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]shared.CatSnapshot, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, owner_id, name FROM cats WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, classify("failed to find cats", err)
	}
	defer rows.Close()

	var cats []shared.CatSnapshot
	for rows.Next() {
		var cat shared.CatSnapshot
		if err := rows.Scan(&cat.ID, &cat.OwnerID, &cat.Name); err != nil {
			return nil, classify("failed to scan cat", err)
		}
		cats = append(cats, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("failed to iterate cats", err)
	}
	return cats, nil
}
