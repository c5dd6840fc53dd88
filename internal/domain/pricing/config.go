package pricing

import (
	"errors"
	"sort"
)

var (
	ErrInvalidDiscountPercent = errors.New("discount percent must be between 0 and 100")
	ErrInvalidTierKey         = errors.New("tier threshold must be positive")
)

// Config is the persisted pricing configuration snapshot. The JSON field
// names are the wire format shared with the admin dashboard; exactly one
// snapshot is active at a time.
//
// LegacyLongStay is the pre-tier single-threshold shape kept readable for
// historical configurations. When both it and LongStayDiscounts are set, the
// tiered table wins.
type Config struct {
	MultiCatDiscountEnabled bool           `json:"multiCatDiscountEnabled"`
	MultiCatDiscounts       []CatCountTier `json:"multiCatDiscounts"`

	SharedRoomDiscountEnabled bool             `json:"sharedRoomDiscountEnabled"`
	SharedRoomDiscountPercent float64          `json:"sharedRoomDiscountPercent"`
	SharedRoomDiscounts       []SharedRoomTier `json:"sharedRoomDiscounts"`

	LongStayDiscountEnabled bool            `json:"longStayDiscountEnabled"`
	LongStayDiscounts       []LongStayTier  `json:"longStayDiscounts"`
	LegacyLongStay          *LegacyLongStay `json:"longStayDiscount"`
}

type CatCountTier struct {
	CatCount        int     `json:"catCount"`
	DiscountPercent float64 `json:"discountPercent"`
}

type SharedRoomTier struct {
	RemainingCapacity int     `json:"remainingCapacity"`
	DiscountPercent   float64 `json:"discountPercent"`
}

type LongStayTier struct {
	MinNights       int     `json:"minNights"`
	DiscountPercent float64 `json:"discountPercent"`
}

type LegacyLongStay struct {
	Enabled         bool    `json:"enabled"`
	MinNights       int     `json:"minNights"`
	DiscountPercent float64 `json:"discountPercent"`
}

// Validate rejects percents outside [0, 100] and non-positive thresholds.
// Normalization handles duplicates and ordering, so it is not a validation
// concern.
func (c Config) Validate() error {
	checkPercent := func(p float64) error {
		if p < 0 || p > 100 {
			return ErrInvalidDiscountPercent
		}
		return nil
	}

	for _, t := range c.MultiCatDiscounts {
		if t.CatCount < 1 {
			return ErrInvalidTierKey
		}
		if err := checkPercent(t.DiscountPercent); err != nil {
			return err
		}
	}
	if err := checkPercent(c.SharedRoomDiscountPercent); err != nil {
		return err
	}
	for _, t := range c.SharedRoomDiscounts {
		if t.RemainingCapacity < 1 {
			return ErrInvalidTierKey
		}
		if err := checkPercent(t.DiscountPercent); err != nil {
			return err
		}
	}
	for _, t := range c.LongStayDiscounts {
		if t.MinNights < 1 {
			return ErrInvalidTierKey
		}
		if err := checkPercent(t.DiscountPercent); err != nil {
			return err
		}
	}
	if l := c.LegacyLongStay; l != nil {
		if l.MinNights < 1 {
			return ErrInvalidTierKey
		}
		if err := checkPercent(l.DiscountPercent); err != nil {
			return err
		}
	}
	return nil
}

// Normalize returns a copy with every tier list deduplicated (last write
// wins) and sorted ascending by key. Idempotent: Normalize(Normalize(c)) ==
// Normalize(c).
func (c Config) Normalize() Config {
	out := c
	out.MultiCatDiscounts = normalizeTiers(c.MultiCatDiscounts,
		func(t CatCountTier) int { return t.CatCount })
	out.SharedRoomDiscounts = normalizeTiers(c.SharedRoomDiscounts,
		func(t SharedRoomTier) int { return t.RemainingCapacity })
	out.LongStayDiscounts = normalizeTiers(c.LongStayDiscounts,
		func(t LongStayTier) int { return t.MinNights })
	return out
}

func normalizeTiers[T any](tiers []T, key func(T) int) []T {
	if len(tiers) == 0 {
		return nil
	}

	byKey := make(map[int]T, len(tiers))
	keys := make([]int, 0, len(tiers))
	for _, t := range tiers {
		k := key(t)
		if _, seen := byKey[k]; !seen {
			keys = append(keys, k)
		}
		byKey[k] = t
	}

	sort.Ints(keys)
	out := make([]T, 0, len(keys))
	for _, k := range keys {
		out = append(out, byKey[k])
	}
	return out
}
