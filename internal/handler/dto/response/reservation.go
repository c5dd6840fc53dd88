package response

import (
	"time"

	"catotel/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationResponse struct {
	ID               uuid.UUID              `json:"id"`
	Code             string                 `json:"code"`
	RoomTypeID       uuid.UUID              `json:"roomTypeId"`
	RoomTypeName     string                 `json:"roomTypeName"`
	CustomerID       uuid.UUID              `json:"customerId"`
	CheckIn          string                 `json:"checkIn"`
	CheckOut         string                 `json:"checkOut"`
	Nights           int                    `json:"nights"`
	Status           string                 `json:"status"`
	AllowSharing     bool                   `json:"allowSharing"`
	RoomID           *uuid.UUID             `json:"roomId,omitempty"`
	RoomName         *string                `json:"roomName,omitempty"`
	AssignmentLocked bool                   `json:"assignmentLocked"`
	Cats             []CatResponse          `json:"cats"`
	Addons           []AddonLineResponse    `json:"addons,omitempty"`
	Price            PriceBreakdownResponse `json:"price"`
	SpecialRequests  *string                `json:"specialRequests,omitempty"`
	CreatedAt        time.Time              `json:"createdAt"`
	UpdatedAt        time.Time              `json:"updatedAt"`
}

type CatResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type AddonLineResponse struct {
	ServiceID      uuid.UUID `json:"serviceId"`
	ServiceName    string    `json:"serviceName"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int64     `json:"unitPriceCents"`
}

type PriceBreakdownResponse struct {
	BaseCents   int64                     `json:"baseCents"`
	Discounts   []AppliedDiscountResponse `json:"discounts"`
	AddonsCents int64                     `json:"addonsCents"`
	TotalCents  int64                     `json:"totalCents"`
}

type AppliedDiscountResponse struct {
	Kind           string  `json:"kind"`
	TierKey        int     `json:"tierKey"`
	Percent        float64 `json:"percent"`
	AmountOffCents int64   `json:"amountOffCents"`
}

type ReservationListResponse struct {
	ID           uuid.UUID `json:"id"`
	Code         string    `json:"code"`
	RoomTypeName string    `json:"roomTypeName"`
	CheckIn      string    `json:"checkIn"`
	CheckOut     string    `json:"checkOut"`
	Status       string    `json:"status"`
	CatCount     int       `json:"catCount"`
	TotalCents   int64     `json:"totalCents"`
	CreatedAt    time.Time `json:"createdAt"`
}

const dateLayout = "2006-01-02"

func FromReservationView(rm *queries.ReservationView) *ReservationResponse {
	cats := make([]CatResponse, len(rm.Cats))
	for i, c := range rm.Cats {
		cats[i] = CatResponse{ID: c.ID, Name: c.Name}
	}
	addons := make([]AddonLineResponse, len(rm.Addons))
	for i, a := range rm.Addons {
		addons[i] = AddonLineResponse{
			ServiceID:      a.ServiceID,
			ServiceName:    a.ServiceName,
			Quantity:       a.Quantity,
			UnitPriceCents: a.UnitPriceCents,
		}
	}

	return &ReservationResponse{
		ID:               rm.ID,
		Code:             rm.Code,
		RoomTypeID:       rm.RoomTypeID,
		RoomTypeName:     rm.RoomTypeName,
		CustomerID:       rm.CustomerID,
		CheckIn:          rm.CheckIn.Format(dateLayout),
		CheckOut:         rm.CheckOut.Format(dateLayout),
		Nights:           rm.Nights,
		Status:           rm.Status,
		AllowSharing:     rm.AllowSharing,
		RoomID:           rm.RoomID,
		RoomName:         rm.RoomName,
		AssignmentLocked: rm.AssignmentLocked,
		Cats:             cats,
		Addons:           addons,
		Price:            FromPriceBreakdownView(rm.Price),
		SpecialRequests:  rm.SpecialRequests,
		CreatedAt:        rm.CreatedAt,
		UpdatedAt:        rm.UpdatedAt,
	}
}

func FromPriceBreakdownView(v queries.PriceBreakdownView) PriceBreakdownResponse {
	discounts := make([]AppliedDiscountResponse, len(v.Discounts))
	for i, d := range v.Discounts {
		discounts[i] = AppliedDiscountResponse{
			Kind:           d.Kind,
			TierKey:        d.TierKey,
			Percent:        d.Percent,
			AmountOffCents: d.AmountOffCents,
		}
	}
	return PriceBreakdownResponse{
		BaseCents:   v.BaseCents,
		Discounts:   discounts,
		AddonsCents: v.AddonsCents,
		TotalCents:  v.TotalCents,
	}
}

func FromReservationListItem(rm *queries.ReservationListItem) *ReservationListResponse {
	return &ReservationListResponse{
		ID:           rm.ID,
		Code:         rm.Code,
		RoomTypeName: rm.RoomTypeName,
		CheckIn:      rm.CheckIn.Format(dateLayout),
		CheckOut:     rm.CheckOut.Format(dateLayout),
		Status:       rm.Status,
		CatCount:     rm.CatCount,
		TotalCents:   rm.TotalCents,
		CreatedAt:    rm.CreatedAt,
	}
}
