package queries

import (
	"time"

	"github.com/google/uuid"

	"catotel/internal/domain/pricing"
)

// Read models (DTO for read side)
type ReservationView struct {
	ID               uuid.UUID          `json:"id"`
	Code             string             `json:"code"`
	RoomTypeID       uuid.UUID          `json:"room_type_id"`
	RoomTypeName     string             `json:"room_type_name"`
	CustomerID       uuid.UUID          `json:"customer_id"`
	CheckIn          time.Time          `json:"check_in"`
	CheckOut         time.Time          `json:"check_out"`
	Nights           int                `json:"nights"`
	Status           string             `json:"status"`
	AllowSharing     bool               `json:"allow_sharing"`
	RoomID           *uuid.UUID         `json:"room_id,omitempty"`
	RoomName         *string            `json:"room_name,omitempty"`
	AssignmentLocked bool               `json:"assignment_locked"`
	Cats             []CatView          `json:"cats"`
	Addons           []AddonLineView    `json:"addons,omitempty"`
	Price            PriceBreakdownView `json:"price"`
	SpecialRequests  *string            `json:"special_requests,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

type ReservationListItem struct {
	ID           uuid.UUID `json:"id"`
	Code         string    `json:"code"`
	RoomTypeName string    `json:"room_type_name"`
	CheckIn      time.Time `json:"check_in"`
	CheckOut     time.Time `json:"check_out"`
	Status       string    `json:"status"`
	CatCount     int       `json:"cat_count"`
	TotalCents   int64     `json:"total_cents"`
	CreatedAt    time.Time `json:"created_at"`
}

type CatView struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type AddonLineView struct {
	ServiceID      uuid.UUID `json:"service_id"`
	ServiceName    string    `json:"service_name"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int64     `json:"unit_price_cents"`
}

// PriceBreakdownView mirrors the audit trail the engine produced: every
// applied discount with its resolved tier.
type PriceBreakdownView struct {
	BaseCents   int64                 `json:"base_cents"`
	Discounts   []AppliedDiscountView `json:"discounts"`
	AddonsCents int64                 `json:"addons_cents"`
	TotalCents  int64                 `json:"total_cents"`
}

type AppliedDiscountView struct {
	Kind           string  `json:"kind"`
	TierKey        int     `json:"tier_key"`
	Percent        float64 `json:"percent"`
	AmountOffCents int64   `json:"amount_off_cents"`
}

type RoomAvailabilityView struct {
	RoomID       uuid.UUID `json:"room_id"`
	RoomName     string    `json:"room_name"`
	FreeCapacity int       `json:"free_capacity"`
}

type PricingConfigView struct {
	Version   int64          `json:"version"`
	Config    pricing.Config `json:"config"`
	UpdatedAt time.Time      `json:"updated_at"`
}
