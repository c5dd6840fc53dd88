package repository

import (
	"context"

	"catotel/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CatalogRepository struct {
	db *pgxpool.Pool
}

func NewCatalogRepository(db *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) RoomTypeByID(ctx context.Context, id uuid.UUID) (*shared.RoomTypeSnapshot, error) {
	var snap shared.RoomTypeSnapshot
	err := r.db.QueryRow(ctx, `
		SELECT id, name, nightly_rate_cents, capacity_per_room, active
		FROM room_types WHERE id = $1`, id,
	).Scan(&snap.ID, &snap.Name, &snap.NightlyRateCents, &snap.CapacityPerRoom, &snap.Active)
	if err != nil {
		return nil, classify("failed to find room type", err)
	}
	return &snap, nil
}

func (r *CatalogRepository) RoomsByType(ctx context.Context, roomTypeID uuid.UUID) ([]shared.RoomSnapshot, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, room_type_id, name, capacity, active
		FROM rooms WHERE room_type_id = $1 ORDER BY id`, roomTypeID)
	if err != nil {
		return nil, classify("failed to list rooms", err)
	}
	defer rows.Close()

	var rooms []shared.RoomSnapshot
	for rows.Next() {
		var room shared.RoomSnapshot
		if err := rows.Scan(&room.ID, &room.RoomTypeID, &room.Name, &room.Capacity, &room.Active); err != nil {
			return nil, classify("failed to scan room", err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("failed to iterate rooms", err)
	}
	return rooms, nil
}
