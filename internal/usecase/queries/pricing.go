package queries

import (
	"context"
	"time"

	"github.com/google/uuid"

	"catotel/internal/domain/pricing"
	"catotel/internal/domain/reservation"
	"catotel/internal/infra"
	"catotel/internal/pkg/errs"
	"catotel/internal/usecase/shared"
)

type PricingReadStore interface {
	ActiveConfig(ctx context.Context) (*PricingConfigView, error)
}

type QuoteParams struct {
	RoomTypeID uuid.UUID
	CheckIn    time.Time
	CheckOut   time.Time
	CatCount   int
	// Sharing inputs are caller-supplied assumptions: a preview has no room
	// assignment, so it cannot observe occupancy.
	SharingApplied    bool
	RemainingCapacity int
	Addons            []QuoteAddonParams
}

type QuoteAddonParams struct {
	ServiceID uuid.UUID
	Quantity  int
}

type QuoteView struct {
	RoomTypeID       uuid.UUID          `json:"room_type_id"`
	NightlyRateCents int64              `json:"nightly_rate_cents"`
	Nights           int                `json:"nights"`
	CatCount         int                `json:"cat_count"`
	Price            PriceBreakdownView `json:"price"`
}

type PricingQueries interface {
	ActiveConfig(ctx context.Context) (*PricingConfigView, error)
	Quote(ctx context.Context, params QuoteParams) (*QuoteView, error)
}

type pricingQueriesImpl struct {
	store        PricingReadStore
	catalogStore AvailabilityReadStore
	serviceRepo  ServiceReadStore
}

type ServiceReadStore interface {
	ServicesByIDs(ctx context.Context, ids []uuid.UUID) ([]shared.ServiceSnapshot, error)
}

func NewPricingQueries(store PricingReadStore, catalogStore AvailabilityReadStore, serviceRepo ServiceReadStore) PricingQueries {
	return &pricingQueriesImpl{store: store, catalogStore: catalogStore, serviceRepo: serviceRepo}
}

func (q *pricingQueriesImpl) ActiveConfig(ctx context.Context) (*PricingConfigView, error) {
	view, err := q.store.ActiveConfig(ctx)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return view, nil
}

// Quote prices a hypothetical stay without reserving anything.
func (q *pricingQueriesImpl) Quote(ctx context.Context, params QuoteParams) (*QuoteView, error) {
	roomType, err := q.catalogStore.RoomTypeByID(ctx, params.RoomTypeID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrRoomTypeNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if !roomType.Active {
		return nil, errs.ErrRoomTypeNotActive
	}

	window, err := reservation.ReconstructStay(params.CheckIn, params.CheckOut)
	if err != nil {
		return nil, err
	}

	addons, err := q.snapshotAddons(ctx, params.Addons)
	if err != nil {
		return nil, err
	}

	cfgView, err := q.store.ActiveConfig(ctx)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	breakdown, err := pricing.Quote(pricing.QuoteInput{
		NightlyRateCents: roomType.NightlyRateCents,
		Nights:           window.Nights(),
		CatCount:         params.CatCount,
		Sharing: pricing.Sharing{
			Applied:           params.SharingApplied,
			RemainingCapacity: params.RemainingCapacity,
		},
		Addons: addons,
	}, pricing.Compile(cfgView.Config))
	if err != nil {
		return nil, err
	}

	return &QuoteView{
		RoomTypeID:       roomType.ID,
		NightlyRateCents: roomType.NightlyRateCents,
		Nights:           window.Nights(),
		CatCount:         params.CatCount,
		Price:            breakdownView(breakdown),
	}, nil
}

func (q *pricingQueriesImpl) snapshotAddons(ctx context.Context, params []QuoteAddonParams) ([]pricing.AddonLine, error) {
	if len(params) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, len(params))
	for i, p := range params {
		ids[i] = p.ServiceID
	}
	services, err := q.serviceRepo.ServicesByIDs(ctx, ids)
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
			return nil, pricing.ErrInvalidAddon
		}
		lines = append(lines, pricing.AddonLine{
			ServiceID:      svc.ID,
			Quantity:       p.Quantity,
			UnitPriceCents: svc.PriceCents,
		})
	}
	return lines, nil
}

func breakdownView(b pricing.Breakdown) PriceBreakdownView {
	discounts := make([]AppliedDiscountView, len(b.Discounts))
	for i, d := range b.Discounts {
		discounts[i] = AppliedDiscountView{
			Kind:           string(d.Kind),
			TierKey:        d.TierKey,
			Percent:        d.Percent,
			AmountOffCents: d.AmountOffCents,
		}
	}
	return PriceBreakdownView{
		BaseCents:   b.BaseCents,
		Discounts:   discounts,
		AddonsCents: b.AddonsCents,
		TotalCents:  b.TotalCents,
	}
}
