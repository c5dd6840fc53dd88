//go:build unit

package pricing_test

import (
	"encoding/json"
	"testing"

	"catotel/internal/domain/pricing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multiCatConfig() pricing.Config {
	return pricing.Config{
		MultiCatDiscountEnabled: true,
		MultiCatDiscounts: []pricing.CatCountTier{
			{CatCount: 1, DiscountPercent: 0},
			{CatCount: 3, DiscountPercent: 5},
			{CatCount: 5, DiscountPercent: 10},
		},
	}
}

func quote(t *testing.T, in pricing.QuoteInput, cfg pricing.Config) pricing.Breakdown {
	t.Helper()
	got, err := pricing.Quote(in, pricing.Compile(cfg))
	require.NoError(t, err)
	return got
}

func TestQuote(t *testing.T) {
	t.Run("base price without discounts", func(t *testing.T) {
		got := quote(t, pricing.QuoteInput{
			NightlyRateCents: 10000,
			Nights:           4,
			CatCount:         1,
		}, pricing.Config{})

		assert.Equal(t, int64(40000), got.BaseCents)
		assert.Empty(t, got.Discounts)
		assert.Equal(t, int64(40000), got.TotalCents)
	})

	t.Run("multi-cat tier applies and long-stay stays inert below threshold", func(t *testing.T) {
		cfg := pricing.Config{
			MultiCatDiscountEnabled: true,
			MultiCatDiscounts:       []pricing.CatCountTier{{CatCount: 3, DiscountPercent: 10}},
			LongStayDiscountEnabled: true,
			LongStayDiscounts:       []pricing.LongStayTier{{MinNights: 7, DiscountPercent: 10}},
		}

		got := quote(t, pricing.QuoteInput{
			NightlyRateCents: 10000,
			Nights:           4,
			CatCount:         3,
		}, cfg)

		want := pricing.Breakdown{
			BaseCents: 40000,
			Discounts: []pricing.AppliedDiscount{
				{Kind: pricing.KindMultiCat, TierKey: 3, Percent: 10, AmountOffCents: 4000},
			},
			TotalCents: 36000,
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("breakdown mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("tier selection picks highest threshold not exceeding count", func(t *testing.T) {
		cases := []struct {
			name        string
			catCount    int
			wantTierKey int
			wantPercent float64
			wantNone    bool
		}{
			{name: "between tiers selects lower", catCount: 4, wantTierKey: 3, wantPercent: 5},
			{name: "above top tier selects top", catCount: 6, wantTierKey: 5, wantPercent: 10},
			{name: "exact match", catCount: 3, wantTierKey: 3, wantPercent: 5},
			{name: "zero-percent tier applies nothing", catCount: 1, wantNone: true},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				got := quote(t, pricing.QuoteInput{
					NightlyRateCents: 10000,
					Nights:           2,
					CatCount:         tc.catCount,
				}, multiCatConfig())

				if tc.wantNone {
					assert.Empty(t, got.Discounts)
					return
				}
				require.Len(t, got.Discounts, 1)
				assert.Equal(t, tc.wantTierKey, got.Discounts[0].TierKey)
				assert.Equal(t, tc.wantPercent, got.Discounts[0].Percent)
			})
		}
	})

	t.Run("zero cat count is invalid", func(t *testing.T) {
		_, err := pricing.Quote(pricing.QuoteInput{
			NightlyRateCents: 10000,
			Nights:           2,
			CatCount:         0,
		}, pricing.Compile(multiCatConfig()))
		assert.ErrorIs(t, err, pricing.ErrInvalidCatCount)
	})

	t.Run("discounts stack sequentially off the running total", func(t *testing.T) {
		cfg := pricing.Config{
			MultiCatDiscountEnabled:   true,
			MultiCatDiscounts:         []pricing.CatCountTier{{CatCount: 2, DiscountPercent: 10}},
			SharedRoomDiscountEnabled: true,
			SharedRoomDiscountPercent: 10,
			LongStayDiscountEnabled:   true,
			LongStayDiscounts:         []pricing.LongStayTier{{MinNights: 7, DiscountPercent: 10}},
		}

		got := quote(t, pricing.QuoteInput{
			NightlyRateCents: 10000,
			Nights:           10,
			CatCount:         2,
			Sharing:          pricing.Sharing{Applied: true, RemainingCapacity: 1},
		}, cfg)

		// 100000 -> 90000 -> 81000 -> 72900, not 3x10% off the base.
		require.Len(t, got.Discounts, 3)
		assert.Equal(t, int64(10000), got.Discounts[0].AmountOffCents)
		assert.Equal(t, int64(9000), got.Discounts[1].AmountOffCents)
		assert.Equal(t, int64(8100), got.Discounts[2].AmountOffCents)
		assert.Equal(t, int64(72900), got.TotalCents)
	})

	t.Run("shared-room tiered table takes precedence over flat percent", func(t *testing.T) {
		cfg := pricing.Config{
			SharedRoomDiscountEnabled: true,
			SharedRoomDiscountPercent: 3,
			SharedRoomDiscounts: []pricing.SharedRoomTier{
				{RemainingCapacity: 1, DiscountPercent: 5},
				{RemainingCapacity: 3, DiscountPercent: 8},
			},
		}

		got := quote(t, pricing.QuoteInput{
			NightlyRateCents: 10000,
			Nights:           1,
			CatCount:         1,
			Sharing:          pricing.Sharing{Applied: true, RemainingCapacity: 2},
		}, cfg)

		require.Len(t, got.Discounts, 1)
		assert.Equal(t, pricing.KindSharedRoom, got.Discounts[0].Kind)
		assert.Equal(t, 1, got.Discounts[0].TierKey)
		assert.Equal(t, 5.0, got.Discounts[0].Percent)
	})

	t.Run("shared-room discount needs sharing applied", func(t *testing.T) {
		cfg := pricing.Config{
			SharedRoomDiscountEnabled: true,
			SharedRoomDiscountPercent: 5,
		}

		got := quote(t, pricing.QuoteInput{
			NightlyRateCents: 10000,
			Nights:           1,
			CatCount:         1,
			Sharing:          pricing.Sharing{Applied: false, RemainingCapacity: 2},
		}, cfg)

		assert.Empty(t, got.Discounts)
	})

	t.Run("long-stay tiered table wins over legacy single tier", func(t *testing.T) {
		cfg := pricing.Config{
			LongStayDiscountEnabled: true,
			LongStayDiscounts:       []pricing.LongStayTier{{MinNights: 7, DiscountPercent: 12}},
			LegacyLongStay:          &pricing.LegacyLongStay{Enabled: true, MinNights: 5, DiscountPercent: 20},
		}

		got := quote(t, pricing.QuoteInput{
			NightlyRateCents: 10000,
			Nights:           8,
			CatCount:         1,
		}, cfg)

		require.Len(t, got.Discounts, 1)
		assert.Equal(t, 7, got.Discounts[0].TierKey)
		assert.Equal(t, 12.0, got.Discounts[0].Percent)
	})

	t.Run("legacy long-stay applies when no tiered table exists", func(t *testing.T) {
		cfg := pricing.Config{
			LongStayDiscountEnabled: true,
			LegacyLongStay:          &pricing.LegacyLongStay{Enabled: true, MinNights: 5, DiscountPercent: 20},
		}

		got := quote(t, pricing.QuoteInput{
			NightlyRateCents: 10000,
			Nights:           6,
			CatCount:         1,
		}, cfg)

		require.Len(t, got.Discounts, 1)
		assert.Equal(t, 5, got.Discounts[0].TierKey)
		assert.Equal(t, int64(48000), got.TotalCents)
	})

	t.Run("legacy-only historical config still discounts", func(t *testing.T) {
		// Rows written before the tiered rework carry only the legacy shape
		// with its own enabled bit and no outer flag.
		var cfg pricing.Config
		raw := `{"longStayDiscount":{"enabled":true,"minNights":5,"discountPercent":10}}`
		require.NoError(t, json.Unmarshal([]byte(raw), &cfg))

		got := quote(t, pricing.QuoteInput{
			NightlyRateCents: 10000,
			Nights:           6,
			CatCount:         1,
		}, cfg)

		require.Len(t, got.Discounts, 1)
		assert.Equal(t, pricing.KindLongStay, got.Discounts[0].Kind)
		assert.Equal(t, 5, got.Discounts[0].TierKey)
		assert.Equal(t, int64(54000), got.TotalCents)
	})

	t.Run("legacy shape stays inert when its own flag is off", func(t *testing.T) {
		cfg := pricing.Config{
			LegacyLongStay: &pricing.LegacyLongStay{Enabled: false, MinNights: 5, DiscountPercent: 10},
		}

		got := quote(t, pricing.QuoteInput{
			NightlyRateCents: 10000,
			Nights:           6,
			CatCount:         1,
		}, cfg)

		assert.Empty(t, got.Discounts)
	})

	t.Run("addons are added after discounts and never discounted", func(t *testing.T) {
		cfg := pricing.Config{
			MultiCatDiscountEnabled: true,
			MultiCatDiscounts:       []pricing.CatCountTier{{CatCount: 1, DiscountPercent: 50}},
		}

		got := quote(t, pricing.QuoteInput{
			NightlyRateCents: 10000,
			Nights:           2,
			CatCount:         1,
			Addons: []pricing.AddonLine{
				{Quantity: 2, UnitPriceCents: 1500},
				{Quantity: 1, UnitPriceCents: 500},
			},
		}, cfg)

		assert.Equal(t, int64(3500), got.AddonsCents)
		assert.Equal(t, int64(10000+3500), got.TotalCents)
	})

	t.Run("percent discount rounds half-up", func(t *testing.T) {
		cfg := pricing.Config{
			MultiCatDiscountEnabled: true,
			MultiCatDiscounts:       []pricing.CatCountTier{{CatCount: 1, DiscountPercent: 7.5}},
		}

		got := quote(t, pricing.QuoteInput{
			NightlyRateCents: 333,
			Nights:           1,
			CatCount:         1,
		}, cfg)

		// 333 * 7.5% = 24.975 -> 25 off
		require.Len(t, got.Discounts, 1)
		assert.Equal(t, int64(25), got.Discounts[0].AmountOffCents)
		assert.Equal(t, int64(308), got.TotalCents)
	})

	t.Run("invalid nights rejected", func(t *testing.T) {
		_, err := pricing.Quote(pricing.QuoteInput{
			NightlyRateCents: 10000,
			Nights:           0,
			CatCount:         1,
		}, pricing.Compile(pricing.Config{}))
		assert.ErrorIs(t, err, pricing.ErrInvalidNights)
	})
}
