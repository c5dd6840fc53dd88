package request

import (
	"strings"
	"time"

	"catotel/internal/usecase/commands"

	"github.com/google/uuid"
)

// Dates travel as plain YYYY-MM-DD strings; stays have no time-of-day.
const dateLayout = "2006-01-02"

type CreateReservationRequest struct {
	RoomTypeID      uuid.UUID      `json:"room_type_id" binding:"required"`
	CheckIn         string         `json:"check_in" binding:"required"`
	CheckOut        string         `json:"check_out" binding:"required"`
	CatIDs          []uuid.UUID    `json:"cat_ids" binding:"required,min=1"`
	AllowSharing    bool           `json:"allow_sharing"`
	Addons          []AddonRequest `json:"addons,omitempty"`
	SpecialRequests *string        `json:"special_requests,omitempty"`
	// CustomerID is only honored for staff actors booking on a guest's behalf.
	CustomerID *uuid.UUID `json:"customer_id,omitempty"`
}

type AddonRequest struct {
	ServiceID uuid.UUID `json:"service_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

func (r CreateReservationRequest) ToParams() (commands.CreateReservationParams, error) {
	checkIn, err := ParseDate(r.CheckIn)
	if err != nil {
		return commands.CreateReservationParams{}, err
	}
	checkOut, err := ParseDate(r.CheckOut)
	if err != nil {
		return commands.CreateReservationParams{}, err
	}

	addons := make([]commands.AddonParams, len(r.Addons))
	for i, a := range r.Addons {
		addons[i] = commands.AddonParams{ServiceID: a.ServiceID, Quantity: a.Quantity}
	}

	var specialRequests string
	if r.SpecialRequests != nil {
		specialRequests = strings.TrimSpace(*r.SpecialRequests)
	}

	return commands.CreateReservationParams{
		RoomTypeID:      r.RoomTypeID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		CatIDs:          r.CatIDs,
		AllowSharing:    r.AllowSharing,
		Addons:          addons,
		SpecialRequests: specialRequests,
		CustomerID:      r.CustomerID,
	}, nil
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, strings.TrimSpace(s))
}
