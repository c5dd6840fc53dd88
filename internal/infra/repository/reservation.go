package repository

import (
	"context"
	"encoding/json"
	"time"

	"catotel/internal/domain/pricing"
	"catotel/internal/domain/reservation"
	"catotel/internal/infra"
	"catotel/internal/infra/converter"
	"catotel/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReservationRepository struct {
	db *pgxpool.Pool
}

func NewReservationRepository(db *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// Create persists the reservation aggregate: the reservation row, its cat
// and add-on lines, and the tentative room assignment. Must run inside the
// caller's transaction.
func (r *ReservationRepository) Create(ctx context.Context, tx pgx.Tx, res *reservation.Reservation, asg *reservation.RoomAssignment) error {
	breakdown, err := json.Marshal(converter.BreakdownToRecord(res.Breakdown()))
	if err != nil {
		return infra.WrapRepoErr("failed to encode price breakdown", err)
	}

	var specialRequests *string
	if !res.SpecialRequests().IsEmpty() {
		s := res.SpecialRequests().String()
		specialRequests = &s
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO reservations (
			id, code, room_type_id, customer_id, check_in, check_out,
			status, allow_sharing, special_requests, price_breakdown,
			total_cents, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)`,
		res.ID(), res.Code().String(), res.RoomTypeID(), res.CustomerID(),
		pgconv.DateToPgtype(res.Stay().CheckIn()), pgconv.DateToPgtype(res.Stay().CheckOut()),
		string(res.Status()), res.AllowSharing(), pgconv.StringPtrToPgtype(specialRequests),
		breakdown, res.Breakdown().TotalCents, pgconv.TimeToPgtype(res.CreatedAt()),
	)
	if err != nil {
		return classify("failed to create reservation", err)
	}

	for _, catID := range res.CatIDs() {
		if _, err := tx.Exec(ctx,
			`INSERT INTO reservation_cats (reservation_id, cat_id) VALUES ($1, $2)`,
			res.ID(), catID,
		); err != nil {
			return classify("failed to attach cat to reservation", err)
		}
	}

	for _, line := range res.Addons() {
		if _, err := tx.Exec(ctx, `
			INSERT INTO reservation_services (reservation_id, service_id, quantity, unit_price_cents)
			VALUES ($1, $2, $3, $4)`,
			res.ID(), line.ServiceID, line.Quantity, line.UnitPriceCents,
		); err != nil {
			return classify("failed to attach service to reservation", err)
		}
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO room_assignments (reservation_id, room_id, cat_count, locked_at)
		VALUES ($1, $2, $3, $4)`,
		asg.ReservationID(), asg.RoomID(), asg.CatCount(), pgconv.TimePtrToPgtype(asg.LockedAt()),
	); err != nil {
		return classify("failed to create room assignment", err)
	}

	return nil
}

// VerifyRoomCapacity compares the room's peak nightly occupancy over the
// window against its capacity, inside the caller's transaction. The keyed
// mutex serializes bookings within one process; this catches a competing
// instance committing between allocation and our commit.
func (r *ReservationRepository) VerifyRoomCapacity(ctx context.Context, tx pgx.Tx, roomID uuid.UUID, window reservation.Stay) error {
	var capacity, peak int
	err := tx.QueryRow(ctx, `
		SELECT rm.capacity,
		       COALESCE((
		           SELECT MAX(night_total) FROM (
		               SELECT SUM(ra.cat_count) AS night_total
		               FROM room_assignments ra
		               JOIN reservations res ON res.id = ra.reservation_id
		               CROSS JOIN generate_series($2::date, $3::date - 1, '1 day') AS night
		               WHERE ra.room_id = rm.id
		                 AND res.status IN ('pending', 'confirmed', 'checked_in')
		                 AND res.check_in <= night::date AND res.check_out > night::date
		               GROUP BY night
		           ) nightly
		       ), 0)
		FROM rooms rm WHERE rm.id = $1`,
		roomID, pgconv.DateToPgtype(window.CheckIn()), pgconv.DateToPgtype(window.CheckOut()),
	).Scan(&capacity, &peak)
	if err != nil {
		return classify("failed to verify room capacity", err)
	}
	if peak > capacity {
		return infra.WrapRepoErr("room capacity oversubscribed", nil, infra.KindConflict)
	}
	return nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	var (
		code            string
		roomTypeID      uuid.UUID
		customerID      uuid.UUID
		checkIn         pgtype.Date
		checkOut        pgtype.Date
		status          string
		allowSharing    bool
		specialRequests pgtype.Text
		breakdownRaw    []byte
		createdAt       pgtype.Timestamptz
		updatedAt       pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, `
		SELECT code, room_type_id, customer_id, check_in, check_out,
		       status, allow_sharing, special_requests, price_breakdown,
		       created_at, updated_at
		FROM reservations WHERE id = $1`, id,
	).Scan(&code, &roomTypeID, &customerID, &checkIn, &checkOut,
		&status, &allowSharing, &specialRequests, &breakdownRaw,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, classify("failed to find reservation", err)
	}

	stay, err := reservation.ReconstructStay(pgconv.DateFromPgtype(checkIn), pgconv.DateFromPgtype(checkOut))
	if err != nil {
		return nil, infra.WrapRepoErr("stored reservation has invalid stay", err)
	}

	catIDs, err := r.catIDsFor(ctx, id)
	if err != nil {
		return nil, err
	}
	addons, err := r.addonsFor(ctx, id)
	if err != nil {
		return nil, err
	}

	var record converter.PriceBreakdownRecord
	if err := json.Unmarshal(breakdownRaw, &record); err != nil {
		return nil, infra.WrapRepoErr("failed to decode price breakdown", err)
	}

	return reservation.ReconstructReservation(
		id,
		reservation.ReconstructCode(code),
		roomTypeID, customerID,
		stay,
		reservation.Status(status),
		allowSharing,
		catIDs,
		addons,
		converter.RecordToBreakdown(record),
		reservation.NewSpecialRequests(stringOrEmpty(specialRequests)),
		pgconv.TimeFromPgtype(createdAt), pgconv.TimeFromPgtype(updatedAt),
	), nil
}

func (r *ReservationRepository) catIDsFor(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx,
		`SELECT cat_id FROM reservation_cats WHERE reservation_id = $1 ORDER BY cat_id`, id)
	if err != nil {
		return nil, classify("failed to load reservation cats", err)
	}
	defer rows.Close()

	var catIDs []uuid.UUID
	for rows.Next() {
		var catID uuid.UUID
		if err := rows.Scan(&catID); err != nil {
			return nil, classify("failed to scan reservation cat", err)
		}
		catIDs = append(catIDs, catID)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("failed to iterate reservation cats", err)
	}
	return catIDs, nil
}

func (r *ReservationRepository) addonsFor(ctx context.Context, id uuid.UUID) ([]pricing.AddonLine, error) {
	rows, err := r.db.Query(ctx, `
		SELECT service_id, quantity, unit_price_cents
		FROM reservation_services WHERE reservation_id = $1 ORDER BY service_id`, id)
	if err != nil {
		return nil, classify("failed to load reservation services", err)
	}
	defer rows.Close()

	var addons []pricing.AddonLine
	for rows.Next() {
		var line pricing.AddonLine
		if err := rows.Scan(&line.ServiceID, &line.Quantity, &line.UnitPriceCents); err != nil {
			return nil, classify("failed to scan reservation service", err)
		}
		addons = append(addons, line)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("failed to iterate reservation services", err)
	}
	return addons, nil
}

func (r *ReservationRepository) FindAssignment(ctx context.Context, reservationID uuid.UUID) (*reservation.RoomAssignment, error) {
	var (
		roomID   uuid.UUID
		catCount int
		lockedAt pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, `
		SELECT room_id, cat_count, locked_at
		FROM room_assignments WHERE reservation_id = $1`, reservationID,
	).Scan(&roomID, &catCount, &lockedAt)
	if err != nil {
		return nil, classify("failed to find room assignment", err)
	}

	return reservation.ReconstructRoomAssignment(
		reservationID, roomID, catCount, pgconv.TimePtrFromPgtype(lockedAt)), nil
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status reservation.Status, updatedAt time.Time) error {
	tag, err := tx.Exec(ctx,
		`UPDATE reservations SET status = $1, updated_at = $2 WHERE id = $3`,
		string(status), pgconv.TimeToPgtype(updatedAt), id)
	if err != nil {
		return classify("failed to update reservation status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation not found for status update", nil, infra.KindNotFound)
	}
	return nil
}

func (r *ReservationRepository) LockAssignment(ctx context.Context, tx pgx.Tx, reservationID uuid.UUID, lockedAt time.Time) error {
	tag, err := tx.Exec(ctx, `
		UPDATE room_assignments SET locked_at = $1
		WHERE reservation_id = $2 AND locked_at IS NULL`,
		pgconv.TimeToPgtype(lockedAt), reservationID)
	if err != nil {
		return classify("failed to lock room assignment", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("assignment missing or already locked", nil, infra.KindConflict)
	}
	return nil
}

func stringOrEmpty(t pgtype.Text) string {
	if !t.Valid {
		return ""
	}
	return t.String
}
