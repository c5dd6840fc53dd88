//go:build unit

package pricing_test

import (
	"testing"

	"catotel/internal/domain/pricing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestConfigNormalize(t *testing.T) {
	t.Run("dedup keeps last value and sorts ascending", func(t *testing.T) {
		cfg := pricing.Config{
			MultiCatDiscounts: []pricing.CatCountTier{
				{CatCount: 3, DiscountPercent: 5},
				{CatCount: 1, DiscountPercent: 0},
				{CatCount: 3, DiscountPercent: 7},
			},
		}

		got := cfg.Normalize()

		want := []pricing.CatCountTier{
			{CatCount: 1, DiscountPercent: 0},
			{CatCount: 3, DiscountPercent: 7},
		}
		if diff := cmp.Diff(want, got.MultiCatDiscounts); diff != "" {
			t.Errorf("multi-cat tiers mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("normalization is idempotent", func(t *testing.T) {
		cfg := pricing.Config{
			SharedRoomDiscounts: []pricing.SharedRoomTier{
				{RemainingCapacity: 2, DiscountPercent: 10},
				{RemainingCapacity: 1, DiscountPercent: 5},
				{RemainingCapacity: 2, DiscountPercent: 12},
			},
			LongStayDiscounts: []pricing.LongStayTier{
				{MinNights: 14, DiscountPercent: 15},
				{MinNights: 7, DiscountPercent: 10},
			},
		}

		once := cfg.Normalize()
		twice := once.Normalize()

		if diff := cmp.Diff(once, twice); diff != "" {
			t.Errorf("second normalization changed the config (-once +twice):\n%s", diff)
		}
	})

	t.Run("empty tier lists normalize to nil", func(t *testing.T) {
		got := pricing.Config{MultiCatDiscounts: []pricing.CatCountTier{}}.Normalize()
		assert.Nil(t, got.MultiCatDiscounts)
	})
}
