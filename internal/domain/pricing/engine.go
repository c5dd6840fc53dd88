package pricing

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrInvalidNights   = errors.New("nights must be positive")
	ErrInvalidCatCount = errors.New("cat count must be positive")
	ErrInvalidAddon    = errors.New("addon quantity must be positive")
)

// QuoteInput is everything the engine needs to price a stay. Sharing carries
// the allocation outcome: whether the party was packed into a room with
// residual capacity left over, and how much.
type QuoteInput struct {
	NightlyRateCents int64
	Nights           int
	CatCount         int
	Sharing          Sharing
	Addons           []AddonLine
}

type Sharing struct {
	Applied           bool
	RemainingCapacity int
}

// AddonLine is one add-on service line with the unit price snapshotted at
// booking time. Add-ons are never discounted.
type AddonLine struct {
	ServiceID      uuid.UUID
	Quantity       int
	UnitPriceCents int64
}

// AppliedDiscount records which tier fired and what it took off the running
// total, so an admin view can later explain the price.
type AppliedDiscount struct {
	Kind           DiscountKind
	TierKey        int
	Percent        float64
	AmountOffCents int64
}

type Breakdown struct {
	BaseCents   int64
	Discounts   []AppliedDiscount
	AddonsCents int64
	TotalCents  int64
}

// Quote computes the itemized price. Discounts compose sequentially as
// percentage-off-the-running-total in fixed order: multi-cat, then
// shared-room, then long-stay. The total is clamped at zero.
func Quote(in QuoteInput, cfg Compiled) (Breakdown, error) {
	if in.Nights <= 0 {
		return Breakdown{}, ErrInvalidNights
	}
	if in.CatCount <= 0 {
		return Breakdown{}, ErrInvalidCatCount
	}
	for _, a := range in.Addons {
		if a.Quantity <= 0 || a.UnitPriceCents < 0 {
			return Breakdown{}, ErrInvalidAddon
		}
	}

	base := in.NightlyRateCents * int64(in.Nights)
	running := base

	var discounts []AppliedDiscount
	apply := func(kind DiscountKind, tier ResolvedTier) {
		off := PercentOf(running, tier.Percent)
		running -= off
		discounts = append(discounts, AppliedDiscount{
			Kind:           kind,
			TierKey:        tier.Key,
			Percent:        tier.Percent,
			AmountOffCents: off,
		})
	}

	if tier, ok := cfg.multiCat.resolve(in.CatCount); ok {
		apply(KindMultiCat, tier)
	}
	if in.Sharing.Applied {
		if tier, ok := cfg.sharedRoom.resolve(in.Sharing.RemainingCapacity); ok {
			apply(KindSharedRoom, tier)
		}
	}
	if tier, ok := cfg.longStay.resolve(in.Nights); ok {
		apply(KindLongStay, tier)
	}

	var addonsTotal int64
	for _, a := range in.Addons {
		addonsTotal += a.UnitPriceCents * int64(a.Quantity)
	}

	total := running + addonsTotal
	if total < 0 {
		total = 0
	}

	return Breakdown{
		BaseCents:   base,
		Discounts:   discounts,
		AddonsCents: addonsTotal,
		TotalCents:  total,
	}, nil
}
