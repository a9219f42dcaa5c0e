package fleet

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProposeAssignsOrdinals(t *testing.T) {
	acc := NewAccumulator()

	ord, err := acc.Propose("ship-1", "Cutlass Black", "solo cargo with teeth")
	require.NoError(t, err)
	assert.Equal(t, 1, ord)

	ord, err = acc.Propose("ship-2", "Gladius", "dedicated dogfighter")
	require.NoError(t, err)
	assert.Equal(t, 2, ord)

	snap := acc.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "ship-1", snap[0].ShipID)
	assert.Equal(t, "ship-2", snap[1].ShipID)
}

func TestProposeRejectsDuplicates(t *testing.T) {
	acc := NewAccumulator()

	_, err := acc.Propose("ship-1", "Cutlass Black", "first")
	require.NoError(t, err)

	_, err = acc.Propose("ship-1", "Cutlass Black", "again")
	assert.ErrorIs(t, err, ErrDuplicateSelection)
	assert.Equal(t, 1, acc.Size())
}

func TestProposeRejectsOverCapacity(t *testing.T) {
	acc := NewAccumulator()
	for i := 1; i <= MaxSelections; i++ {
		_, err := acc.Propose(fmt.Sprintf("ship-%d", i), "Ship", "reason")
		require.NoError(t, err)
	}

	before := acc.Snapshot()
	_, err := acc.Propose("ship-6", "One Too Many", "reason")
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, before, acc.Snapshot(), "accumulator must be unchanged after rejection")
}

func TestSnapshotNeverExceedsCapOrDuplicates(t *testing.T) {
	acc := NewAccumulator()
	for i := 0; i < 20; i++ {
		acc.Propose(fmt.Sprintf("ship-%d", i%7), "Ship", "reason")
	}

	snap := acc.Snapshot()
	assert.LessOrEqual(t, len(snap), MaxSelections)
	seen := map[string]bool{}
	for _, s := range snap {
		assert.False(t, seen[s.ShipID], "duplicate %s in snapshot", s.ShipID)
		seen[s.ShipID] = true
	}
}

func TestRemoveThenReproposeGetsFreshOrdinal(t *testing.T) {
	acc := NewAccumulator()
	acc.Propose("ship-1", "Cutlass Black", "first")
	acc.Propose("ship-2", "Gladius", "second")

	acc.Remove("ship-1")
	assert.False(t, acc.Contains("ship-1"))

	ord, err := acc.Propose("ship-1", "Cutlass Black", "back again")
	require.NoError(t, err)
	assert.Equal(t, 3, ord, "ordinal reassigned, not reused")
}

func TestRemoveAbsentIsNoOp(t *testing.T) {
	acc := NewAccumulator()
	acc.Propose("ship-1", "Cutlass Black", "first")

	acc.Remove("ship-missing")
	assert.Equal(t, 1, acc.Size())
}

func TestRestoreContinuesOrdinals(t *testing.T) {
	acc := Restore([]Selection{
		{ShipID: "ship-1", ShipName: "Cutlass Black", Ordinal: 1},
		{ShipID: "ship-3", ShipName: "Prospector", Ordinal: 3},
	})

	ord, err := acc.Propose("ship-4", "Freelancer", "hauling")
	require.NoError(t, err)
	assert.Equal(t, 4, ord)
	assert.True(t, acc.Contains("ship-3"))
}

func TestErrorsAreSentinel(t *testing.T) {
	assert.True(t, errors.Is(ErrDuplicateSelection, ErrDuplicateSelection))
	assert.NotErrorIs(t, ErrDuplicateSelection, ErrCapacityExceeded)
}
