package response

import (
	"time"

	"catotel/internal/domain/pricing"
	"catotel/internal/usecase/queries"

	"github.com/google/uuid"
)

type QuoteResponse struct {
	RoomTypeID       uuid.UUID              `json:"roomTypeId"`
	NightlyRateCents int64                  `json:"nightlyRateCents"`
	Nights           int                    `json:"nights"`
	CatCount         int                    `json:"catCount"`
	Price            PriceBreakdownResponse `json:"price"`
}

func FromQuoteView(v *queries.QuoteView) *QuoteResponse {
	return &QuoteResponse{
		RoomTypeID:       v.RoomTypeID,
		NightlyRateCents: v.NightlyRateCents,
		Nights:           v.Nights,
		CatCount:         v.CatCount,
		Price:            FromPriceBreakdownView(v.Price),
	}
}

type PricingConfigResponse struct {
	Version   int64          `json:"version"`
	Config    pricing.Config `json:"config"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func FromPricingConfigView(v *queries.PricingConfigView) *PricingConfigResponse {
	return &PricingConfigResponse{
		Version:   v.Version,
		Config:    v.Config,
		UpdatedAt: v.UpdatedAt,
	}
}

type RoomAvailabilityResponse struct {
	RoomID       uuid.UUID `json:"roomId"`
	RoomName     string    `json:"roomName"`
	FreeCapacity int       `json:"freeCapacity"`
}

func FromRoomAvailabilityViews(views []queries.RoomAvailabilityView) []RoomAvailabilityResponse {
	out := make([]RoomAvailabilityResponse, len(views))
	for i, v := range views {
		out[i] = RoomAvailabilityResponse{
			RoomID:       v.RoomID,
			RoomName:     v.RoomName,
			FreeCapacity: v.FreeCapacity,
		}
	}
	return out
}
