package commands

import (
	"context"
	"time"

	"catotel/internal/domain/pricing"
	"catotel/internal/domain/reservation"
	"catotel/internal/domain/scheduling"
	"catotel/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ReservationRepository interface {
	Create(ctx context.Context, tx pgx.Tx, res *reservation.Reservation, asg *reservation.RoomAssignment) error
	// VerifyRoomCapacity re-checks, inside the caller's transaction, that no
	// night of the window oversubscribes the room. Guards against bookings
	// committed by another process between allocation and commit.
	VerifyRoomCapacity(ctx context.Context, tx pgx.Tx, roomID uuid.UUID, window reservation.Stay) error
	FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	FindAssignment(ctx context.Context, reservationID uuid.UUID) (*reservation.RoomAssignment, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status reservation.Status, updatedAt time.Time) error
	LockAssignment(ctx context.Context, tx pgx.Tx, reservationID uuid.UUID, lockedAt time.Time) error
}

type CatalogRepository interface {
	RoomTypeByID(ctx context.Context, id uuid.UUID) (*shared.RoomTypeSnapshot, error)
	RoomsByType(ctx context.Context, roomTypeID uuid.UUID) ([]shared.RoomSnapshot, error)
}

type CatRepository interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]shared.CatSnapshot, error)
}

type ServiceRepository interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]shared.ServiceSnapshot, error)
}

// ScheduleReads is the schedule snapshot the pure engine core operates on.
type ScheduleReads interface {
	// BookingsForCats returns every non-cancelled booking touching the given
	// cats within the window.
	BookingsForCats(ctx context.Context, catIDs []uuid.UUID, window reservation.Stay) ([]scheduling.CatBooking, error)
	// AssignmentSpans returns every capacity-blocking assignment of the room
	// type overlapping the window.
	AssignmentSpans(ctx context.Context, roomTypeID uuid.UUID, window reservation.Stay) ([]scheduling.AssignmentSpan, error)
}

type PricingConfigRepository interface {
	// Active returns the single active configuration snapshot and its
	// optimistic version stamp. The row is seeded by the schema migration;
	// its absence is a NOT_FOUND repository error.
	Active(ctx context.Context) (pricing.Config, int64, error)
	// Replace swaps the active snapshot if the version still matches and
	// returns the new version.
	Replace(ctx context.Context, cfg pricing.Config, expectedVersion int64) (int64, error)
}

type IdempotencyRepository interface {
	// TryInsert reports whether the key was claimed for this request.
	TryInsert(ctx context.Context, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error)
	Get(ctx context.Context, key, userID uuid.UUID) (*shared.IdempotencyRecord, error)
	UpdateStatusCompleted(ctx context.Context, tx pgx.Tx, key, userID uuid.UUID, responseBodyHash string, resultReservationID uuid.UUID) error
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, tx pgx.Tx, kind, topic string, payload []byte, runAt time.Time) error
}
