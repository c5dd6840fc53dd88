package converter

import (
	"catotel/internal/domain/pricing"
)

// PriceBreakdownRecord is the JSONB shape persisted on reservations. It is
// the storage contract, kept separate from the domain type so schema and
// domain can evolve independently.
type PriceBreakdownRecord struct {
	BaseCents   int64                   `json:"base_cents"`
	Discounts   []AppliedDiscountRecord `json:"discounts"`
	AddonsCents int64                   `json:"addons_cents"`
	TotalCents  int64                   `json:"total_cents"`
}

type AppliedDiscountRecord struct {
	Kind           string  `json:"kind"`
	TierKey        int     `json:"tier_key"`
	Percent        float64 `json:"percent"`
	AmountOffCents int64   `json:"amount_off_cents"`
}

func BreakdownToRecord(b pricing.Breakdown) PriceBreakdownRecord {
	discounts := make([]AppliedDiscountRecord, len(b.Discounts))
	for i, d := range b.Discounts {
		discounts[i] = AppliedDiscountRecord{
			Kind:           string(d.Kind),
			TierKey:        d.TierKey,
			Percent:        d.Percent,
			AmountOffCents: d.AmountOffCents,
		}
	}
	return PriceBreakdownRecord{
		BaseCents:   b.BaseCents,
		Discounts:   discounts,
		AddonsCents: b.AddonsCents,
		TotalCents:  b.TotalCents,
	}
}

func RecordToBreakdown(r PriceBreakdownRecord) pricing.Breakdown {
	discounts := make([]pricing.AppliedDiscount, len(r.Discounts))
	for i, d := range r.Discounts {
		discounts[i] = pricing.AppliedDiscount{
			Kind:           pricing.DiscountKind(d.Kind),
			TierKey:        d.TierKey,
			Percent:        d.Percent,
			AmountOffCents: d.AmountOffCents,
		}
	}
	return pricing.Breakdown{
		BaseCents:   r.BaseCents,
		Discounts:   discounts,
		AddonsCents: r.AddonsCents,
		TotalCents:  r.TotalCents,
	}
}
