package queries

import (
	"context"

	"github.com/google/uuid"

	"catotel/internal/infra"
	"catotel/internal/pkg/errs"
	"catotel/internal/usecase/shared"
)

type ListReservationsFilter struct {
	CustomerID *uuid.UUID
	Status     *string
	Limit      int
	Offset     int
}

// ReservationReadStore is the denormalized read side. Implementations join
// across reservations, assignments, cats and addons in one round trip.
type ReservationReadStore interface {
	ReservationByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	ListReservations(ctx context.Context, filter ListReservationsFilter) ([]ReservationListItem, error)
}

type ReservationQueries interface {
	// GetByID enforces visibility: customers see only their own reservations.
	GetByID(ctx context.Context, id uuid.UUID, actor shared.Actor) (*ReservationView, error)
	// GetByIDSystem bypasses visibility for internal read-after-write paths.
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	List(ctx context.Context, filter ListReservationsFilter, actor shared.Actor) ([]ReservationListItem, error)
}

type reservationQueriesImpl struct {
	store ReservationReadStore
}

func NewReservationQueries(store ReservationReadStore) ReservationQueries {
	return &reservationQueriesImpl{store: store}
}

func (q *reservationQueriesImpl) GetByID(ctx context.Context, id uuid.UUID, actor shared.Actor) (*ReservationView, error) {
	view, err := q.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff() && view.CustomerID != actor.ID {
		return nil, errs.ErrForbiddenView
	}
	return view, nil
}

func (q *reservationQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*ReservationView, error) {
	view, err := q.store.ReservationByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrReservationNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (q *reservationQueriesImpl) List(ctx context.Context, filter ListReservationsFilter, actor shared.Actor) ([]ReservationListItem, error) {
	if !actor.IsStaff() {
		// Customers can only list their own reservations.
		filter.CustomerID = &actor.ID
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}
	items, err := q.store.ListReservations(ctx, filter)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return items, nil
}
