//go:build unit

package scheduling_test

import (
	"testing"
	"time"

	"catotel/internal/domain/scheduling"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAvailability(t *testing.T) {
	may := func(d int) time.Time { return date(2025, 5, d) }

	t.Run("free capacity is the minimum across every night", func(t *testing.T) {
		room := scheduling.RoomState{ID: uuid.New(), Name: "Sunroom 1", Capacity: 4, Active: true}
		spans := []scheduling.AssignmentSpan{
			// Two cats for the first half, three for one middle night.
			{RoomID: room.ID, CatCount: 2, Stay: stay(t, may(1), may(3))},
			{RoomID: room.ID, CatCount: 3, Stay: stay(t, may(3), may(4))},
		}

		got, err := scheduling.ResolveAvailability([]scheduling.RoomState{room}, spans, stay(t, may(1), may(5)), 1)
		require.NoError(t, err)

		require.Len(t, got, 1)
		assert.Equal(t, 1, got[0].FreeCapacity)
		assert.True(t, got[0].Occupied)
	})

	t.Run("assignments outside the stay do not count", func(t *testing.T) {
		room := scheduling.RoomState{ID: uuid.New(), Name: "Sunroom 1", Capacity: 2, Active: true}
		spans := []scheduling.AssignmentSpan{
			// Checked out the morning the requested stay begins.
			{RoomID: room.ID, CatCount: 2, Stay: stay(t, may(1), may(3))},
		}

		got, err := scheduling.ResolveAvailability([]scheduling.RoomState{room}, spans, stay(t, may(3), may(5)), 1)
		require.NoError(t, err)

		require.Len(t, got, 1)
		assert.Equal(t, 2, got[0].FreeCapacity)
		assert.False(t, got[0].Occupied)
	})

	t.Run("inactive rooms are skipped", func(t *testing.T) {
		active := scheduling.RoomState{ID: uuid.New(), Name: "Sunroom 1", Capacity: 2, Active: true}
		retired := scheduling.RoomState{ID: uuid.New(), Name: "Old annex", Capacity: 6, Active: false}

		got, err := scheduling.ResolveAvailability([]scheduling.RoomState{active, retired}, nil, stay(t, may(1), may(3)), 1)
		require.NoError(t, err)

		require.Len(t, got, 1)
		assert.Equal(t, active.ID, got[0].RoomID)
	})

	t.Run("no active rooms is a distinct failure", func(t *testing.T) {
		retired := scheduling.RoomState{ID: uuid.New(), Name: "Old annex", Capacity: 6, Active: false}

		_, err := scheduling.ResolveAvailability([]scheduling.RoomState{retired}, nil, stay(t, may(1), may(3)), 1)

		assert.ErrorIs(t, err, scheduling.ErrNoActiveRooms)
	})

	t.Run("full rooms still appear with zero free capacity", func(t *testing.T) {
		room := scheduling.RoomState{ID: uuid.New(), Name: "Sunroom 1", Capacity: 2, Active: true}
		spans := []scheduling.AssignmentSpan{
			{RoomID: room.ID, CatCount: 2, Stay: stay(t, may(1), may(5))},
		}

		got, err := scheduling.ResolveAvailability([]scheduling.RoomState{room}, spans, stay(t, may(2), may(4)), 1)
		require.NoError(t, err)

		require.Len(t, got, 1)
		assert.Equal(t, 0, got[0].FreeCapacity)
	})

	t.Run("zero party size rejected", func(t *testing.T) {
		room := scheduling.RoomState{ID: uuid.New(), Name: "Sunroom 1", Capacity: 2, Active: true}

		_, err := scheduling.ResolveAvailability([]scheduling.RoomState{room}, nil, stay(t, may(1), may(3)), 0)

		assert.ErrorIs(t, err, scheduling.ErrInvalidPartySize)
	})
}
