//go:build unit

package scheduling_test

import (
	"testing"

	"catotel/internal/domain/scheduling"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocatorAssign(t *testing.T) {
	alloc := scheduling.NewAllocator()

	candidate := func(free, capacity int, occupied bool) scheduling.Candidate {
		return scheduling.Candidate{
			RoomID:       uuid.New(),
			Capacity:     capacity,
			FreeCapacity: free,
			Occupied:     occupied,
		}
	}

	t.Run("tightest fit wins", func(t *testing.T) {
		loose := candidate(4, 4, false)
		tight := candidate(2, 4, true)

		got, err := alloc.Assign([]scheduling.Candidate{loose, tight}, 2, true)
		require.NoError(t, err)

		assert.Equal(t, tight.RoomID, got)
	})

	t.Run("capacity tie breaks on ascending room id deterministically", func(t *testing.T) {
		a := candidate(3, 4, false)
		b := candidate(3, 4, false)
		lowest := a.RoomID
		if b.RoomID.String() < a.RoomID.String() {
			lowest = b.RoomID
		}

		for range 10 {
			got, err := alloc.Assign([]scheduling.Candidate{a, b}, 2, true)
			require.NoError(t, err)
			assert.Equal(t, lowest, got)
		}
	})

	t.Run("no-sharing party prefers an empty room over a tighter shared one", func(t *testing.T) {
		shared := candidate(1, 4, true)
		empty := candidate(4, 4, false)

		got, err := alloc.Assign([]scheduling.Candidate{shared, empty}, 1, false)
		require.NoError(t, err)

		assert.Equal(t, empty.RoomID, got)
	})

	t.Run("no-sharing is a preference, not a guarantee", func(t *testing.T) {
		shared := candidate(2, 4, true)

		got, err := alloc.Assign([]scheduling.Candidate{shared}, 1, false)
		require.NoError(t, err)

		assert.Equal(t, shared.RoomID, got)
	})

	t.Run("sharing party ignores the private preference", func(t *testing.T) {
		shared := candidate(1, 4, true)
		empty := candidate(4, 4, false)

		got, err := alloc.Assign([]scheduling.Candidate{shared, empty}, 1, true)
		require.NoError(t, err)

		assert.Equal(t, shared.RoomID, got)
	})

	t.Run("all rooms full fails with no-room", func(t *testing.T) {
		full := candidate(0, 4, true)

		_, err := alloc.Assign([]scheduling.Candidate{full}, 2, true)

		assert.ErrorIs(t, err, scheduling.ErrNoRoomAvailable)
	})

	t.Run("party larger than any room fails with capacity, not no-room", func(t *testing.T) {
		small := candidate(2, 2, false)

		_, err := alloc.Assign([]scheduling.Candidate{small}, 3, true)

		assert.ErrorIs(t, err, scheduling.ErrPartyExceedsCapacity)
		assert.NotErrorIs(t, err, scheduling.ErrNoRoomAvailable)
	})

	t.Run("invalid party size rejected", func(t *testing.T) {
		_, err := alloc.Assign([]scheduling.Candidate{candidate(2, 2, false)}, 0, true)
		assert.ErrorIs(t, err, scheduling.ErrInvalidPartySize)
	})
}
