package readstore

import (
	"context"
	"encoding/json"

	"catotel/internal/infra"
	"catotel/internal/infra/converter"
	"catotel/internal/pkg/pgconv"
	"catotel/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReservationReadStore struct {
	db *pgxpool.Pool
}

func NewReservationReadStore(db *pgxpool.Pool) *ReservationReadStore {
	return &ReservationReadStore{db: db}
}

func (r *ReservationReadStore) ReservationByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	var (
		view            queries.ReservationView
		checkIn         pgtype.Date
		checkOut        pgtype.Date
		roomID          pgtype.UUID
		roomName        pgtype.Text
		lockedAt        pgtype.Timestamptz
		specialRequests pgtype.Text
		breakdownRaw    []byte
		createdAt       pgtype.Timestamptz
		updatedAt       pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, `
		SELECT res.id, res.code, res.room_type_id, rt.name, res.customer_id,
		       res.check_in, res.check_out, res.status, res.allow_sharing,
		       ra.room_id, rm.name, ra.locked_at,
		       res.special_requests, res.price_breakdown,
		       res.created_at, res.updated_at
		FROM reservations res
		JOIN room_types rt ON rt.id = res.room_type_id
		LEFT JOIN room_assignments ra ON ra.reservation_id = res.id
		LEFT JOIN rooms rm ON rm.id = ra.room_id
		WHERE res.id = $1`, id,
	).Scan(&view.ID, &view.Code, &view.RoomTypeID, &view.RoomTypeName, &view.CustomerID,
		&checkIn, &checkOut, &view.Status, &view.AllowSharing,
		&roomID, &roomName, &lockedAt,
		&specialRequests, &breakdownRaw,
		&createdAt, &updatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation view", err)
	}

	view.CheckIn = pgconv.DateFromPgtype(checkIn)
	view.CheckOut = pgconv.DateFromPgtype(checkOut)
	view.Nights = int(view.CheckOut.Sub(view.CheckIn).Hours() / 24)
	view.RoomID = pgconv.UUIDPtrFromPgtype(roomID)
	view.RoomName = pgconv.StringPtrFromPgtype(roomName)
	view.AssignmentLocked = lockedAt.Valid
	view.SpecialRequests = pgconv.StringPtrFromPgtype(specialRequests)
	view.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	view.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)

	var record converter.PriceBreakdownRecord
	if err := json.Unmarshal(breakdownRaw, &record); err != nil {
		return nil, infra.WrapRepoErr("failed to decode price breakdown", err)
	}
	view.Price = recordToView(record)

	if view.Cats, err = r.catsFor(ctx, id); err != nil {
		return nil, err
	}
	if view.Addons, err = r.addonsFor(ctx, id); err != nil {
		return nil, err
	}
	return &view, nil
}

func (r *ReservationReadStore) catsFor(ctx context.Context, id uuid.UUID) ([]queries.CatView, error) {
	rows, err := r.db.Query(ctx, `
		SELECT c.id, c.name
		FROM reservation_cats rc
		JOIN cats c ON c.id = rc.cat_id
		WHERE rc.reservation_id = $1
		ORDER BY c.name, c.id`, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load reservation cats", err)
	}
	defer rows.Close()

	var cats []queries.CatView
	for rows.Next() {
		var cat queries.CatView
		if err := rows.Scan(&cat.ID, &cat.Name); err != nil {
			return nil, infra.WrapRepoErr("failed to scan cat view", err)
		}
		cats = append(cats, cat)
	}
	return cats, rows.Err()
}

func (r *ReservationReadStore) addonsFor(ctx context.Context, id uuid.UUID) ([]queries.AddonLineView, error) {
	rows, err := r.db.Query(ctx, `
		SELECT rs.service_id, s.name, rs.quantity, rs.unit_price_cents
		FROM reservation_services rs
		JOIN services s ON s.id = rs.service_id
		WHERE rs.reservation_id = $1
		ORDER BY s.name`, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load reservation add-ons", err)
	}
	defer rows.Close()

	var addons []queries.AddonLineView
	for rows.Next() {
		var line queries.AddonLineView
		if err := rows.Scan(&line.ServiceID, &line.ServiceName, &line.Quantity, &line.UnitPriceCents); err != nil {
			return nil, infra.WrapRepoErr("failed to scan add-on view", err)
		}
		addons = append(addons, line)
	}
	return addons, rows.Err()
}

func (r *ReservationReadStore) ListReservations(ctx context.Context, filter queries.ListReservationsFilter) ([]queries.ReservationListItem, error) {
	sql := `
		SELECT res.id, res.code, rt.name, res.check_in, res.check_out, res.status,
		       (SELECT count(*) FROM reservation_cats rc WHERE rc.reservation_id = res.id),
		       res.total_cents, res.created_at
		FROM reservations res
		JOIN room_types rt ON rt.id = res.room_type_id
		WHERE ($1::uuid IS NULL OR res.customer_id = $1)
		  AND ($2::text IS NULL OR res.status = $2)
		ORDER BY res.created_at DESC, res.id DESC
		LIMIT $3 OFFSET $4`

	rows, err := r.db.Query(ctx, sql,
		pgconv.UUIDPtrToPgtype(filter.CustomerID),
		pgconv.StringPtrToPgtype(filter.Status),
		filter.Limit, filter.Offset)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations", err)
	}
	defer rows.Close()

	var items []queries.ReservationListItem
	for rows.Next() {
		var (
			item      queries.ReservationListItem
			checkIn   pgtype.Date
			checkOut  pgtype.Date
			createdAt pgtype.Timestamptz
		)
		if err := rows.Scan(&item.ID, &item.Code, &item.RoomTypeName, &checkIn, &checkOut,
			&item.Status, &item.CatCount, &item.TotalCents, &createdAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation list item", err)
		}
		item.CheckIn = pgconv.DateFromPgtype(checkIn)
		item.CheckOut = pgconv.DateFromPgtype(checkOut)
		item.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate reservation list", err)
	}
	return items, nil
}

func recordToView(r converter.PriceBreakdownRecord) queries.PriceBreakdownView {
	discounts := make([]queries.AppliedDiscountView, len(r.Discounts))
	for i, d := range r.Discounts {
		discounts[i] = queries.AppliedDiscountView{
			Kind:           d.Kind,
			TierKey:        d.TierKey,
			Percent:        d.Percent,
			AmountOffCents: d.AmountOffCents,
		}
	}
	return queries.PriceBreakdownView{
		BaseCents:   r.BaseCents,
		Discounts:   discounts,
		AddonsCents: r.AddonsCents,
		TotalCents:  r.TotalCents,
	}
}
