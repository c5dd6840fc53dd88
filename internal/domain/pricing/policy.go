package pricing

// DiscountKind identifies the discount dimension in itemized breakdowns.
type DiscountKind string

const (
	KindMultiCat   DiscountKind = "multi_cat"
	KindSharedRoom DiscountKind = "shared_room"
	KindLongStay   DiscountKind = "long_stay"
)

// ResolvedTier is the tier actually applied: its threshold key and percent.
// Flat discounts report key 0.
type ResolvedTier struct {
	Key     int
	Percent float64
}

// policy is the per-dimension discount variant, resolved once when the
// configuration snapshot is loaded instead of re-interpreting the raw JSON
// shape on every quote.
type policy interface {
	// resolve picks the applicable tier for the observed value, or reports
	// that none applies.
	resolve(observed int) (ResolvedTier, bool)
}

type disabledPolicy struct{}

func (disabledPolicy) resolve(int) (ResolvedTier, bool) {
	return ResolvedTier{}, false
}

// tieredPolicy selects the highest threshold not exceeding the observed
// value. Tiers must already be normalized (unique keys, ascending).
type tieredPolicy struct {
	tiers []ResolvedTier
}

func (p tieredPolicy) resolve(observed int) (ResolvedTier, bool) {
	var (
		best  ResolvedTier
		found bool
	)
	for _, t := range p.tiers {
		if t.Key > observed {
			break
		}
		best = t
		found = true
	}
	if !found || best.Percent <= 0 {
		return ResolvedTier{}, false
	}
	return best, true
}

type flatPolicy struct {
	percent float64
}

func (p flatPolicy) resolve(int) (ResolvedTier, bool) {
	if p.percent <= 0 {
		return ResolvedTier{}, false
	}
	return ResolvedTier{Key: 0, Percent: p.percent}, true
}

// legacyPolicy is the single-threshold long-stay shape retained for
// historical configurations.
type legacyPolicy struct {
	minNights int
	percent   float64
}

func (p legacyPolicy) resolve(observed int) (ResolvedTier, bool) {
	if observed < p.minNights || p.percent <= 0 {
		return ResolvedTier{}, false
	}
	return ResolvedTier{Key: p.minNights, Percent: p.percent}, true
}

// Compiled holds one resolved policy per discount dimension.
type Compiled struct {
	multiCat   policy
	sharedRoom policy
	longStay   policy
}

// Compile normalizes a configuration snapshot and resolves each dimension's
// variant: tiered tables win over the flat shared-room percent and over the
// legacy long-stay shape when both are present.
func Compile(cfg Config) Compiled {
	cfg = cfg.Normalize()

	out := Compiled{
		multiCat:   disabledPolicy{},
		sharedRoom: disabledPolicy{},
		longStay:   disabledPolicy{},
	}

	if cfg.MultiCatDiscountEnabled && len(cfg.MultiCatDiscounts) > 0 {
		tiers := make([]ResolvedTier, len(cfg.MultiCatDiscounts))
		for i, t := range cfg.MultiCatDiscounts {
			tiers[i] = ResolvedTier{Key: t.CatCount, Percent: t.DiscountPercent}
		}
		out.multiCat = tieredPolicy{tiers: tiers}
	}

	if cfg.SharedRoomDiscountEnabled {
		switch {
		case len(cfg.SharedRoomDiscounts) > 0:
			tiers := make([]ResolvedTier, len(cfg.SharedRoomDiscounts))
			for i, t := range cfg.SharedRoomDiscounts {
				tiers[i] = ResolvedTier{Key: t.RemainingCapacity, Percent: t.DiscountPercent}
			}
			out.sharedRoom = tieredPolicy{tiers: tiers}
		case cfg.SharedRoomDiscountPercent > 0:
			out.sharedRoom = flatPolicy{percent: cfg.SharedRoomDiscountPercent}
		}
	}

	switch {
	case cfg.LongStayDiscountEnabled && len(cfg.LongStayDiscounts) > 0:
		tiers := make([]ResolvedTier, len(cfg.LongStayDiscounts))
		for i, t := range cfg.LongStayDiscounts {
			tiers[i] = ResolvedTier{Key: t.MinNights, Percent: t.DiscountPercent}
		}
		out.longStay = tieredPolicy{tiers: tiers}
	case len(cfg.LongStayDiscounts) == 0 && cfg.LegacyLongStay != nil && cfg.LegacyLongStay.Enabled:
		// Historical rows predate the outer flag and carry only the legacy
		// shape with its own enabled bit, so it is honored on its own when no
		// tiered table was ever written.
		out.longStay = legacyPolicy{
			minNights: cfg.LegacyLongStay.MinNights,
			percent:   cfg.LegacyLongStay.DiscountPercent,
		}
	}

	return out
}
