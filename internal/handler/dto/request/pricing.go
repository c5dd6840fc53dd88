package request

import (
	"catotel/internal/domain/pricing"
	"catotel/internal/usecase/commands"
	"catotel/internal/usecase/queries"

	"github.com/google/uuid"
)

type QuoteRequest struct {
	RoomTypeID        uuid.UUID      `json:"room_type_id" binding:"required"`
	CheckIn           string         `json:"check_in" binding:"required"`
	CheckOut          string         `json:"check_out" binding:"required"`
	CatCount          int            `json:"cat_count" binding:"required,min=1"`
	SharingApplied    bool           `json:"sharing_applied"`
	RemainingCapacity int            `json:"remaining_capacity"`
	Addons            []AddonRequest `json:"addons,omitempty"`
}

func (r QuoteRequest) ToParams() (queries.QuoteParams, error) {
	checkIn, err := ParseDate(r.CheckIn)
	if err != nil {
		return queries.QuoteParams{}, err
	}
	checkOut, err := ParseDate(r.CheckOut)
	if err != nil {
		return queries.QuoteParams{}, err
	}

	addons := make([]queries.QuoteAddonParams, len(r.Addons))
	for i, a := range r.Addons {
		addons[i] = queries.QuoteAddonParams{ServiceID: a.ServiceID, Quantity: a.Quantity}
	}

	return queries.QuoteParams{
		RoomTypeID:        r.RoomTypeID,
		CheckIn:           checkIn,
		CheckOut:          checkOut,
		CatCount:          r.CatCount,
		SharingApplied:    r.SharingApplied,
		RemainingCapacity: r.RemainingCapacity,
		Addons:            addons,
	}, nil
}

type UpdatePricingConfigRequest struct {
	Config          pricing.Config `json:"config" binding:"required"`
	ExpectedVersion int64          `json:"expected_version" binding:"required,min=1"`
}

func (r UpdatePricingConfigRequest) ToParams() commands.UpdatePricingConfigParams {
	return commands.UpdatePricingConfigParams{
		Config:          r.Config,
		ExpectedVersion: r.ExpectedVersion,
	}
}
