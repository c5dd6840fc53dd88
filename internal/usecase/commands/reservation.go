package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"catotel/internal/domain/pricing"
	"catotel/internal/domain/reservation"
	"catotel/internal/domain/scheduling"
	"catotel/internal/infra"
	"catotel/internal/pkg/clock"
	"catotel/internal/pkg/config"
	"catotel/internal/pkg/errs"
	"catotel/internal/pkg/lock"
	"catotel/internal/usecase/queries"
	"catotel/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Serialization failures and deadlocks on the create transaction are retried
// this many times before surfacing.
const createTxMaxRetries = 3

var (
	ErrIdempotencyInProgress  = errs.New("idempotency in progress")
	ErrDuplicateReservation   = errs.New("duplicate reservation request")
	ErrIdempotencyCheckFailed = errs.New("idempotency check failed")
	ErrDomainValidation       = errs.New("domain validation error")
	ErrLockTimeout            = errs.New("allocation lock acquire timed out")
)

// CatConflictError carries which cats collide with which reservations so the
// operator sees names, not ids.
type CatConflictError struct {
	Conflicts []scheduling.Conflict
}

func (e *CatConflictError) Error() string {
	names := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		names[i] = fmt.Sprintf("%s (reservation %s)", c.CatName, c.ReservationCode)
	}
	return "cats already booked: " + strings.Join(names, ", ")
}

func (e *CatConflictError) Unwrap() error {
	return errs.ErrCatConflict
}

// CatsNotFoundError names the missing cat ids.
type CatsNotFoundError struct {
	Missing []uuid.UUID
}

func (e *CatsNotFoundError) Error() string {
	ids := make([]string, len(e.Missing))
	for i, id := range e.Missing {
		ids[i] = id.String()
	}
	return "cats not found: " + strings.Join(ids, ", ")
}

func (e *CatsNotFoundError) Unwrap() error {
	return errs.ErrCatsNotFound
}

type AddonParams struct {
	ServiceID uuid.UUID
	Quantity  int
}

type CreateReservationParams struct {
	RoomTypeID      uuid.UUID
	CheckIn         time.Time
	CheckOut        time.Time
	CatIDs          []uuid.UUID
	AllowSharing    bool
	Addons          []AddonParams
	SpecialRequests string
	// CustomerID is required when a staff actor books on a guest's behalf;
	// customer actors always book for themselves.
	CustomerID *uuid.UUID
}

type CreateReservationResult struct {
	Reservation *queries.ReservationView
	IsReplayed  bool
}

type ReservationCommands interface {
	Create(ctx context.Context, params CreateReservationParams, actor shared.Actor, idempotencyKey uuid.UUID) (*CreateReservationResult, error)
	Confirm(ctx context.Context, id uuid.UUID, actor shared.Actor) error
	CheckIn(ctx context.Context, id uuid.UUID, actor shared.Actor) error
	CheckOut(ctx context.Context, id uuid.UUID, actor shared.Actor) error
	Cancel(ctx context.Context, id uuid.UUID, actor shared.Actor) error
}

type reservationCommandsImpl struct {
	reservationRepo    ReservationRepository
	catalogRepo        CatalogRepository
	catRepo            CatRepository
	serviceRepo        ServiceRepository
	scheduleReads      ScheduleReads
	pricingRepo        PricingConfigRepository
	idempotencyRepo    IdempotencyRepository
	notificationRepo   NotificationRepository
	factory            *reservation.Factory
	allocator          *scheduling.Allocator
	reservationQueries queries.ReservationQueries
	db                 *pgxpool.Pool
	clock              clock.Clock
	locks              *lock.KeyedMutex
	engineCfg          config.EngineConfig
}

func NewReservationCommands(
	reservationRepo ReservationRepository,
	catalogRepo CatalogRepository,
	catRepo CatRepository,
	serviceRepo ServiceRepository,
	scheduleReads ScheduleReads,
	pricingRepo PricingConfigRepository,
	idempotencyRepo IdempotencyRepository,
	notificationRepo NotificationRepository,
	factory *reservation.Factory,
	allocator *scheduling.Allocator,
	reservationQueries queries.ReservationQueries,
	db *pgxpool.Pool,
	clk clock.Clock,
	locks *lock.KeyedMutex,
	cfg config.Config,
) ReservationCommands {
	return &reservationCommandsImpl{
		reservationRepo:    reservationRepo,
		catalogRepo:        catalogRepo,
		catRepo:            catRepo,
		serviceRepo:        serviceRepo,
		scheduleReads:      scheduleReads,
		pricingRepo:        pricingRepo,
		idempotencyRepo:    idempotencyRepo,
		notificationRepo:   notificationRepo,
		factory:            factory,
		allocator:          allocator,
		reservationQueries: reservationQueries,
		db:                 db,
		clock:              clk,
		locks:              locks,
		engineCfg:          cfg.Engine,
	}
}

func (r *reservationCommandsImpl) Create(
	ctx context.Context,
	params CreateReservationParams,
	actor shared.Actor,
	idempotencyKey uuid.UUID,
) (*CreateReservationResult, error) {
	requestHash := r.calculateRequestHash(params)
	expiresAt := r.clock.Now().Add(r.engineCfg.IdempotencyTTL)

	existing, err := r.handleIdempotency(ctx, idempotencyKey, actor.ID, requestHash, expiresAt)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &CreateReservationResult{Reservation: existing, IsReplayed: true}, nil
	}

	view, err := r.createNewReservation(ctx, params, actor, idempotencyKey)
	if err != nil {
		return nil, err
	}
	return &CreateReservationResult{Reservation: view, IsReplayed: false}, nil
}

func (r *reservationCommandsImpl) handleIdempotency(
	ctx context.Context,
	idempotencyKey, userID uuid.UUID,
	requestHash string,
	expiresAt time.Time,
) (*queries.ReservationView, error) {
	claimed, err := r.idempotencyRepo.TryInsert(ctx, idempotencyKey, userID, "POST /reservations", requestHash, expiresAt)
	if err != nil {
		return nil, errs.Mark(err, ErrIdempotencyCheckFailed)
	}
	if claimed {
		return nil, nil
	}

	record, err := r.idempotencyRepo.Get(ctx, idempotencyKey, userID)
	if err != nil {
		return nil, errs.Mark(err, ErrIdempotencyCheckFailed)
	}

	switch record.Status {
	case "completed":
		if record.ResultReservationID != nil {
			// System-level read: replay bypasses per-actor visibility checks
			return r.reservationQueries.GetByIDSystem(ctx, *record.ResultReservationID)
		}
		return nil, errs.New("completed request missing result reservation ID")

	case "processing":
		if record.RequestHash != requestHash {
			return nil, ErrDuplicateReservation
		}
		return nil, ErrIdempotencyInProgress

	default:
		return nil, errs.New("invalid idempotency key status")
	}
}

func (r *reservationCommandsImpl) createNewReservation(
	ctx context.Context,
	params CreateReservationParams,
	actor shared.Actor,
	idempotencyKey uuid.UUID,
) (*queries.ReservationView, error) {
	customerID, err := resolveCustomer(params, actor)
	if err != nil {
		return nil, err
	}

	roomType, err := r.lookupRoomType(ctx, params.RoomTypeID)
	if err != nil {
		return nil, err
	}

	stay, err := reservation.NewStay(params.CheckIn, params.CheckOut, clock.Today(r.clock))
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	if len(params.CatIDs) == 0 {
		return nil, errs.Mark(reservation.ErrMinCatsRequired, ErrDomainValidation)
	}
	cats, err := r.lookupCats(ctx, params.CatIDs)
	if err != nil {
		return nil, err
	}

	addons, err := r.snapshotAddons(ctx, params.Addons)
	if err != nil {
		return nil, err
	}

	// Conflict detection is a pure read; it runs outside the category lock.
	bookings, err := r.scheduleReads.BookingsForCats(ctx, params.CatIDs, stay)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if conflicts := scheduling.FindConflicts(bookings, params.CatIDs, stay, uuid.Nil); len(conflicts) > 0 {
		return nil, &CatConflictError{Conflicts: conflicts}
	}

	// resolve -> allocate -> persist is one atomic step per room type.
	release, err := r.acquireCategoryLock(ctx, params.RoomTypeID)
	if err != nil {
		return nil, err
	}
	defer release()

	chosen, remaining, sharingApplied, err := r.allocate(ctx, roomType, stay, len(cats), params.AllowSharing)
	if err != nil {
		return nil, err
	}

	breakdown, err := r.price(ctx, roomType, stay, len(cats), sharingApplied, remaining, addons)
	if err != nil {
		return nil, err
	}

	initial := reservation.StatusPending
	if actor.IsStaff() {
		initial = reservation.StatusConfirmed
	}

	entity, err := r.factory.NewReservation(
		roomType.ID, customerID, stay, params.CatIDs, params.AllowSharing,
		addons, breakdown, reservation.NewSpecialRequests(params.SpecialRequests), initial,
	)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	assignment, err := reservation.NewRoomAssignment(entity.ID(), chosen, len(cats))
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	// Every statement in the block is a plain insert keyed by fresh UUIDs, so
	// replaying it after a serialization failure is safe.
	if _, err := shared.RunInTxWithRetry(ctx, r.db, createTxMaxRetries, func(tx pgx.Tx) (struct{}, error) {
		if err := r.reservationRepo.Create(ctx, tx, entity, assignment); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return struct{}{}, errs.Mark(err, errs.ErrRoomCapacityExceeded)
			}
			return struct{}{}, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := r.reservationRepo.VerifyRoomCapacity(ctx, tx, chosen, stay); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return struct{}{}, errs.Mark(err, errs.ErrRoomCapacityExceeded)
			}
			return struct{}{}, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := r.createNotificationJob(ctx, tx, entity.ID(), "reservation_created"); err != nil {
			return struct{}{}, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := r.idempotencyRepo.UpdateStatusCompleted(ctx, tx, idempotencyKey, actor.ID, r.calculateIDHash(entity.ID()), entity.ID()); err != nil {
			return struct{}{}, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return struct{}{}, nil
	}); err != nil {
		return nil, err
	}

	// Read-after-write: hand back the complete view from the read store.
	view, err := r.reservationQueries.GetByIDSystem(ctx, entity.ID())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return view, nil
}

func resolveCustomer(params CreateReservationParams, actor shared.Actor) (uuid.UUID, error) {
	if actor.IsStaff() {
		if params.CustomerID == nil {
			return uuid.Nil, errs.ErrCustomerIDRequired
		}
		return *params.CustomerID, nil
	}
	return actor.ID, nil
}

func (r *reservationCommandsImpl) lookupRoomType(ctx context.Context, id uuid.UUID) (*shared.RoomTypeSnapshot, error) {
	roomType, err := r.catalogRepo.RoomTypeByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrRoomTypeNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if !roomType.Active {
		return nil, errs.ErrRoomTypeNotActive
	}
	return roomType, nil
}

func (r *reservationCommandsImpl) lookupCats(ctx context.Context, ids []uuid.UUID) ([]shared.CatSnapshot, error) {
	cats, err := r.catRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if len(cats) != len(ids) {
		found := make(map[uuid.UUID]struct{}, len(cats))
		for _, c := range cats {
			found[c.ID] = struct{}{}
		}
		var missing []uuid.UUID
		for _, id := range ids {
			if _, ok := found[id]; !ok {
				missing = append(missing, id)
			}
		}
		return nil, &CatsNotFoundError{Missing: missing}
	}
	return cats, nil
}

func (r *reservationCommandsImpl) snapshotAddons(ctx context.Context, params []AddonParams) ([]pricing.AddonLine, error) {
	if len(params) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, len(params))
	for i, p := range params {
		ids[i] = p.ServiceID
	}
	services, err := r.serviceRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	byID := make(map[uuid.UUID]shared.ServiceSnapshot, len(services))
	for _, s := range services {
		byID[s.ID] = s
	}

	lines := make([]pricing.AddonLine, 0, len(params))
	for _, p := range params {
		svc, ok := byID[p.ServiceID]
		if !ok || !svc.Active {
			return nil, errs.ErrServicesNotFound
		}
		if p.Quantity <= 0 {
			return nil, errs.Mark(pricing.ErrInvalidAddon, ErrDomainValidation)
		}
		lines = append(lines, pricing.AddonLine{
			ServiceID:      svc.ID,
			Quantity:       p.Quantity,
			UnitPriceCents: svc.PriceCents,
		})
	}
	return lines, nil
}

func (r *reservationCommandsImpl) acquireCategoryLock(ctx context.Context, roomTypeID uuid.UUID) (func(), error) {
	lockCtx, cancel := context.WithTimeout(ctx, r.engineCfg.LockAcquireTimeout)
	defer cancel()

	release, err := r.locks.Acquire(lockCtx, roomTypeID)
	if err != nil {
		return nil, errs.Mark(err, ErrLockTimeout)
	}
	return release, nil
}

// allocate must run under the category lock.
func (r *reservationCommandsImpl) allocate(
	ctx context.Context,
	roomType *shared.RoomTypeSnapshot,
	stay reservation.Stay,
	partySize int,
	allowSharing bool,
) (roomID uuid.UUID, remainingCapacity int, sharingApplied bool, err error) {
	rooms, err := r.catalogRepo.RoomsByType(ctx, roomType.ID)
	if err != nil {
		return uuid.Nil, 0, false, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	spans, err := r.scheduleReads.AssignmentSpans(ctx, roomType.ID, stay)
	if err != nil {
		return uuid.Nil, 0, false, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	states := make([]scheduling.RoomState, len(rooms))
	for i, room := range rooms {
		states[i] = scheduling.RoomState{
			ID:       room.ID,
			Name:     room.Name,
			Capacity: room.Capacity,
			Active:   room.Active,
		}
	}

	candidates, err := scheduling.ResolveAvailability(states, spans, stay, partySize)
	if err != nil {
		switch {
		case errs.Is(err, scheduling.ErrNoActiveRooms):
			return uuid.Nil, 0, false, errs.Mark(err, errs.ErrNoActiveRooms)
		default:
			return uuid.Nil, 0, false, errs.Mark(err, ErrDomainValidation)
		}
	}

	chosen, err := r.allocator.Assign(candidates, partySize, allowSharing)
	if err != nil {
		switch {
		case errs.Is(err, scheduling.ErrPartyExceedsCapacity):
			return uuid.Nil, 0, false, errs.Mark(err, errs.ErrPartyExceedsCapacity)
		case errs.Is(err, scheduling.ErrNoRoomAvailable):
			return uuid.Nil, 0, false, errs.Mark(err, errs.ErrNoRoomAvailable)
		default:
			return uuid.Nil, 0, false, errs.Mark(err, ErrDomainValidation)
		}
	}

	for _, c := range candidates {
		if c.RoomID == chosen {
			// Sharing applies when the room already hosts another party.
			return chosen, c.FreeCapacity - partySize, c.Occupied, nil
		}
	}
	return uuid.Nil, 0, false, errs.New("allocator chose a room outside the candidate set")
}

func (r *reservationCommandsImpl) price(
	ctx context.Context,
	roomType *shared.RoomTypeSnapshot,
	stay reservation.Stay,
	catCount int,
	sharingApplied bool,
	remainingCapacity int,
	addons []pricing.AddonLine,
) (pricing.Breakdown, error) {
	cfg, _, err := r.pricingRepo.Active(ctx)
	if err != nil {
		return pricing.Breakdown{}, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	breakdown, err := pricing.Quote(pricing.QuoteInput{
		NightlyRateCents: roomType.NightlyRateCents,
		Nights:           stay.Nights(),
		CatCount:         catCount,
		Sharing:          pricing.Sharing{Applied: sharingApplied, RemainingCapacity: remainingCapacity},
		Addons:           addons,
	}, pricing.Compile(cfg))
	if err != nil {
		return pricing.Breakdown{}, errs.Mark(err, ErrDomainValidation)
	}
	return breakdown, nil
}

// ---------------------------------------------------------------------------
// Lifecycle transitions
// ---------------------------------------------------------------------------

func (r *reservationCommandsImpl) Confirm(ctx context.Context, id uuid.UUID, actor shared.Actor) error {
	if !actor.IsStaff() {
		return errs.ErrUpdateForbidden
	}

	// Confirmation does not recompute capacity, so no category lock.
	entity, err := r.findReservation(ctx, id)
	if err != nil {
		return err
	}
	now := r.clock.Now()
	if err := entity.Confirm(now); err != nil {
		return errs.Mark(err, errs.ErrInvalidTransition)
	}

	return r.persistStatus(ctx, entity, now, "reservation_confirmed")
}

func (r *reservationCommandsImpl) CheckIn(ctx context.Context, id uuid.UUID, actor shared.Actor) error {
	if !actor.IsStaff() {
		return errs.ErrUpdateForbidden
	}

	entity, err := r.findReservation(ctx, id)
	if err != nil {
		return err
	}

	release, err := r.acquireCategoryLock(ctx, entity.RoomTypeID())
	if err != nil {
		return err
	}
	defer release()

	assignment, err := r.reservationRepo.FindAssignment(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.ErrRoomNotFound
		}
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	now := r.clock.Now()
	if err := entity.CheckIn(now); err != nil {
		return errs.Mark(err, errs.ErrInvalidTransition)
	}
	if err := assignment.Lock(now); err != nil {
		return errs.Mark(err, errs.ErrInvalidTransition)
	}

	_, err = shared.RunInTx(ctx, r.db, func(tx pgx.Tx) (struct{}, error) {
		if err := r.reservationRepo.UpdateStatus(ctx, tx, id, entity.Status(), now); err != nil {
			return struct{}{}, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := r.reservationRepo.LockAssignment(ctx, tx, id, now); err != nil {
			return struct{}{}, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return struct{}{}, nil
	})
	return err
}

func (r *reservationCommandsImpl) CheckOut(ctx context.Context, id uuid.UUID, actor shared.Actor) error {
	if !actor.IsStaff() {
		return errs.ErrUpdateForbidden
	}

	entity, err := r.findReservation(ctx, id)
	if err != nil {
		return err
	}

	// Releases capacity, so the category lock applies.
	release, err := r.acquireCategoryLock(ctx, entity.RoomTypeID())
	if err != nil {
		return err
	}
	defer release()

	now := r.clock.Now()
	if err := entity.CheckOut(now); err != nil {
		return errs.Mark(err, errs.ErrInvalidTransition)
	}

	return r.persistStatus(ctx, entity, now, "reservation_checked_out")
}

func (r *reservationCommandsImpl) Cancel(ctx context.Context, id uuid.UUID, actor shared.Actor) error {
	entity, err := r.findReservation(ctx, id)
	if err != nil {
		return err
	}
	if !actor.IsStaff() && !entity.IsOwnedBy(actor.ID) {
		return errs.ErrUpdateForbidden
	}

	release, err := r.acquireCategoryLock(ctx, entity.RoomTypeID())
	if err != nil {
		return err
	}
	defer release()

	now := r.clock.Now()
	if err := entity.Cancel(now); err != nil {
		return errs.Mark(err, errs.ErrInvalidTransition)
	}

	return r.persistStatus(ctx, entity, now, "reservation_cancelled")
}

func (r *reservationCommandsImpl) findReservation(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	entity, err := r.reservationRepo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrReservationNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return entity, nil
}

func (r *reservationCommandsImpl) persistStatus(ctx context.Context, entity *reservation.Reservation, now time.Time, topic string) error {
	_, err := shared.RunInTx(ctx, r.db, func(tx pgx.Tx) (struct{}, error) {
		if err := r.reservationRepo.UpdateStatus(ctx, tx, entity.ID(), entity.Status(), now); err != nil {
			return struct{}{}, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := r.createNotificationJob(ctx, tx, entity.ID(), topic); err != nil {
			return struct{}{}, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return struct{}{}, nil
	})
	return err
}

func (r *reservationCommandsImpl) createNotificationJob(ctx context.Context, tx pgx.Tx, reservationID uuid.UUID, topic string) error {
	payload, err := json.Marshal(map[string]any{
		"reservation_id": reservationID,
		"type":           topic,
	})
	if err != nil {
		return err
	}
	return r.notificationRepo.CreateJob(ctx, tx, "email", topic, payload, r.clock.Now())
}

func (r *reservationCommandsImpl) calculateRequestHash(params CreateReservationParams) string {
	data, _ := json.Marshal(params)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

func (r *reservationCommandsImpl) calculateIDHash(id uuid.UUID) string {
	hash := sha256.Sum256([]byte(id.String()))
	return hex.EncodeToString(hash[:])
}
