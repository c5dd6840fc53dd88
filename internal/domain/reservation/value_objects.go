package reservation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"catotel/internal/pkg/clock"

	"github.com/google/uuid"
)

var (
	ErrInvalidDateRange = errors.New("check-out must be after check-in")
	ErrCheckInInPast    = errors.New("check-in cannot be in the past")
)

// Stay is a half-open [checkIn, checkOut) date range in UTC. The check-out
// night is not occupied, so back-to-back stays never collide.
type Stay struct {
	checkIn  time.Time
	checkOut time.Time
}

// NewStay validates a requested stay against today. Historical stays read
// back from storage go through ReconstructStay instead.
func NewStay(checkIn, checkOut, today time.Time) (Stay, error) {
	s, err := ReconstructStay(checkIn, checkOut)
	if err != nil {
		return Stay{}, err
	}
	if s.checkIn.Before(clock.Midnight(today)) {
		return Stay{}, ErrCheckInInPast
	}
	return s, nil
}

func ReconstructStay(checkIn, checkOut time.Time) (Stay, error) {
	in := clock.Midnight(checkIn)
	out := clock.Midnight(checkOut)
	if !out.After(in) {
		return Stay{}, ErrInvalidDateRange
	}
	return Stay{checkIn: in, checkOut: out}, nil
}

func (s Stay) CheckIn() time.Time  { return s.checkIn }
func (s Stay) CheckOut() time.Time { return s.checkOut }

func (s Stay) Nights() int {
	return int(s.checkOut.Sub(s.checkIn) / (24 * time.Hour))
}

func (s Stay) Overlaps(other Stay) bool {
	return s.checkIn.Before(other.checkOut) && other.checkIn.Before(s.checkOut)
}

// Night returns the i-th occupied night (0-based).
func (s Stay) Night(i int) time.Time {
	return s.checkIn.AddDate(0, 0, i)
}

func (s Stay) String() string {
	return fmt.Sprintf("[%s,%s)", s.checkIn.Format(time.DateOnly), s.checkOut.Format(time.DateOnly))
}

// Code is the operator-facing reservation identifier printed on collars and
// confirmation mails.
type Code string

// NewCode derives a short uppercase code from the reservation id.
func NewCode(id uuid.UUID) Code {
	raw := strings.ToUpper(strings.ReplaceAll(id.String(), "-", ""))
	return Code("RSV-" + raw[:8])
}

func ReconstructCode(value string) Code {
	return Code(value)
}

func (c Code) String() string {
	return string(c)
}

// SpecialRequests is free-form text from the guest wizard ("Oliver only eats
// from the blue bowl").
type SpecialRequests struct {
	value string
}

func NewSpecialRequests(value string) SpecialRequests {
	return SpecialRequests{value: strings.TrimSpace(value)}
}

func (r SpecialRequests) String() string {
	return r.value
}

func (r SpecialRequests) IsEmpty() bool {
	return r.value == ""
}
