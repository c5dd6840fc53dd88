//go:build unit || e2e

package builder

import (
	"time"

	reqdto "catotel/internal/handler/dto/request"
	"catotel/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationBuilder struct {
	CustomerID   uuid.UUID
	RoomTypeID   uuid.UUID
	RoomTypeName string
	RoomID       uuid.UUID
	RoomName     string
	CheckIn      time.Time
	CheckOut     time.Time
	CatIDs       []uuid.UUID
	CatNames     []string
	Status       string
	AllowSharing bool
	TotalCents   int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewReservationBuilder() *ReservationBuilder {
	now := time.Now()
	return &ReservationBuilder{
		CustomerID:   uuid.New(),
		RoomTypeID:   uuid.New(),
		RoomTypeName: "Window Suite",
		RoomID:       uuid.New(),
		RoomName:     "W-1",
		CheckIn:      time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:     time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC),
		CatIDs:       []uuid.UUID{uuid.New()},
		CatNames:     []string{"Mochi"},
		Status:       "pending",
		AllowSharing: false,
		TotalCents:   13500,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

const dateLayout = "2006-01-02"

func (b *ReservationBuilder) BuildCreateRequestDTO() reqdto.CreateReservationRequest {
	return reqdto.CreateReservationRequest{
		RoomTypeID:   b.RoomTypeID,
		CheckIn:      b.CheckIn.Format(dateLayout),
		CheckOut:     b.CheckOut.Format(dateLayout),
		CatIDs:       b.CatIDs,
		AllowSharing: b.AllowSharing,
	}
}

func (b *ReservationBuilder) BuildView() *queries.ReservationView {
	id := uuid.New()
	cats := make([]queries.CatView, len(b.CatIDs))
	for i, catID := range b.CatIDs {
		cats[i] = queries.CatView{ID: catID, Name: b.CatNames[i]}
	}
	roomID := b.RoomID
	roomName := b.RoomName
	return &queries.ReservationView{
		ID:           id,
		Code:         "RSV-" + id.String()[:8],
		RoomTypeID:   b.RoomTypeID,
		RoomTypeName: b.RoomTypeName,
		CustomerID:   b.CustomerID,
		CheckIn:      b.CheckIn,
		CheckOut:     b.CheckOut,
		Nights:       int(b.CheckOut.Sub(b.CheckIn).Hours() / 24),
		Status:       b.Status,
		AllowSharing: b.AllowSharing,
		RoomID:       &roomID,
		RoomName:     &roomName,
		Cats:         cats,
		Price: queries.PriceBreakdownView{
			BaseCents:  b.TotalCents,
			TotalCents: b.TotalCents,
		},
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func (b *ReservationBuilder) BuildListItem() queries.ReservationListItem {
	id := uuid.New()
	return queries.ReservationListItem{
		ID:           id,
		Code:         "RSV-" + id.String()[:8],
		RoomTypeName: b.RoomTypeName,
		CheckIn:      b.CheckIn,
		CheckOut:     b.CheckOut,
		Status:       b.Status,
		CatCount:     len(b.CatIDs),
		TotalCents:   b.TotalCents,
		CreatedAt:    b.CreatedAt,
	}
}

// Fluent builder methods
func (b *ReservationBuilder) WithCustomerID(id uuid.UUID) *ReservationBuilder {
	b.CustomerID = id
	return b
}

func (b *ReservationBuilder) WithRoomTypeID(id uuid.UUID) *ReservationBuilder {
	b.RoomTypeID = id
	return b
}

func (b *ReservationBuilder) WithStatus(status string) *ReservationBuilder {
	b.Status = status
	return b
}

func (b *ReservationBuilder) WithCats(ids []uuid.UUID, names []string) *ReservationBuilder {
	b.CatIDs = ids
	b.CatNames = names
	return b
}

func (b *ReservationBuilder) WithStay(checkIn, checkOut time.Time) *ReservationBuilder {
	b.CheckIn = checkIn
	b.CheckOut = checkOut
	return b
}

func (b *ReservationBuilder) WithAllowSharing(allow bool) *ReservationBuilder {
	b.AllowSharing = allow
	return b
}
