package repository

import (
	"context"

	"catotel/internal/domain/reservation"
	"catotel/internal/domain/scheduling"
	"catotel/internal/infra"
	"catotel/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ScheduleRepository serves the snapshot reads the conflict detector and the
// availability resolver operate on. Only capacity-blocking statuses
// (pending, confirmed, checked_in) count.
type ScheduleRepository struct {
	db *pgxpool.Pool
}

func NewScheduleRepository(db *pgxpool.Pool) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func (r *ScheduleRepository) BookingsForCats(ctx context.Context, catIDs []uuid.UUID, window reservation.Stay) ([]scheduling.CatBooking, error) {
	if len(catIDs) == 0 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx, `
		SELECT rc.cat_id, c.name, res.id, res.code, res.check_in, res.check_out
		FROM reservation_cats rc
		JOIN reservations res ON res.id = rc.reservation_id
		JOIN cats c ON c.id = rc.cat_id
		WHERE rc.cat_id = ANY($1)
		  AND res.status IN ('pending', 'confirmed', 'checked_in')
		  AND res.check_in < $3 AND res.check_out > $2`,
		catIDs, pgconv.DateToPgtype(window.CheckIn()), pgconv.DateToPgtype(window.CheckOut()))
	if err != nil {
		return nil, classify("failed to load cat bookings", err)
	}
	defer rows.Close()

	var bookings []scheduling.CatBooking
	for rows.Next() {
		var (
			booking  scheduling.CatBooking
			checkIn  pgtype.Date
			checkOut pgtype.Date
		)
		if err := rows.Scan(&booking.CatID, &booking.CatName, &booking.ReservationID,
			&booking.ReservationCode, &checkIn, &checkOut); err != nil {
			return nil, classify("failed to scan cat booking", err)
		}
		stay, err := reservation.ReconstructStay(pgconv.DateFromPgtype(checkIn), pgconv.DateFromPgtype(checkOut))
		if err != nil {
			return nil, infra.WrapRepoErr("stored booking has invalid stay", err)
		}
		booking.Stay = stay
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("failed to iterate cat bookings", err)
	}
	return bookings, nil
}

func (r *ScheduleRepository) AssignmentSpans(ctx context.Context, roomTypeID uuid.UUID, window reservation.Stay) ([]scheduling.AssignmentSpan, error) {
	rows, err := r.db.Query(ctx, `
		SELECT ra.room_id, ra.cat_count, res.check_in, res.check_out
		FROM room_assignments ra
		JOIN reservations res ON res.id = ra.reservation_id
		JOIN rooms rm ON rm.id = ra.room_id
		WHERE rm.room_type_id = $1
		  AND res.status IN ('pending', 'confirmed', 'checked_in')
		  AND res.check_in < $3 AND res.check_out > $2`,
		roomTypeID, pgconv.DateToPgtype(window.CheckIn()), pgconv.DateToPgtype(window.CheckOut()))
	if err != nil {
		return nil, classify("failed to load assignment spans", err)
	}
	defer rows.Close()

	var spans []scheduling.AssignmentSpan
	for rows.Next() {
		var (
			span     scheduling.AssignmentSpan
			checkIn  pgtype.Date
			checkOut pgtype.Date
		)
		if err := rows.Scan(&span.RoomID, &span.CatCount, &checkIn, &checkOut); err != nil {
			return nil, classify("failed to scan assignment span", err)
		}
		stay, err := reservation.ReconstructStay(pgconv.DateFromPgtype(checkIn), pgconv.DateFromPgtype(checkOut))
		if err != nil {
			return nil, infra.WrapRepoErr("stored assignment has invalid stay", err)
		}
		span.Stay = stay
		spans = append(spans, span)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("failed to iterate assignment spans", err)
	}
	return spans, nil
}
