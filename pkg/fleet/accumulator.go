package fleet

import (
	"errors"
	"fmt"
)

// MaxSelections caps the fleet per session.
const MaxSelections = 5

var (
	// ErrDuplicateSelection means the ship is already in the fleet. Callers
	// treat it as "already selected", not as idempotent success.
	ErrDuplicateSelection = errors.New("ship already selected")

	// ErrCapacityExceeded means the fleet already holds MaxSelections ships
	// and one must be removed before another can be proposed.
	ErrCapacityExceeded = fmt.Errorf("fleet holds the maximum of %d ships", MaxSelections)
)

// Selection is one ship accepted into the fleet, with the consultant's
// rationale and its 1-based presentation ordinal.
type Selection struct {
	ShipID    string `json:"ship_id"`
	ShipName  string `json:"ship_name"`
	Rationale string `json:"rationale"`
	Ordinal   int    `json:"ordinal"`
}

// Accumulator maintains the growing, deduplicated, size-bounded fleet for
// one session. Not safe for concurrent use: the per-session turn lock
// guarantees a single writer.
type Accumulator struct {
	selections []Selection
	nextOrd    int
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{nextOrd: 1}
}

// Restore rebuilds an accumulator from persisted selections, preserving
// order. The next ordinal continues after the highest restored one.
func Restore(selections []Selection) *Accumulator {
	acc := NewAccumulator()
	for _, s := range selections {
		acc.selections = append(acc.selections, s)
		if s.Ordinal >= acc.nextOrd {
			acc.nextOrd = s.Ordinal + 1
		}
	}
	return acc
}

// Size returns the current number of selections.
func (a *Accumulator) Size() int {
	return len(a.selections)
}

// Full reports whether the fleet is at capacity.
func (a *Accumulator) Full() bool {
	return len(a.selections) >= MaxSelections
}

// Contains reports whether the ship id is already selected.
func (a *Accumulator) Contains(shipID string) bool {
	for _, s := range a.selections {
		if s.ShipID == shipID {
			return true
		}
	}
	return false
}

// Propose adds the ship and returns its ordinal position. Fails with
// ErrDuplicateSelection when the id is already present and with
// ErrCapacityExceeded at capacity; the fleet is unchanged on error.
func (a *Accumulator) Propose(shipID, shipName, rationale string) (int, error) {
	if a.Contains(shipID) {
		return 0, ErrDuplicateSelection
	}
	if a.Full() {
		return 0, ErrCapacityExceeded
	}
	sel := Selection{
		ShipID:    shipID,
		ShipName:  shipName,
		Rationale: rationale,
		Ordinal:   a.nextOrd,
	}
	a.nextOrd++
	a.selections = append(a.selections, sel)
	return sel.Ordinal, nil
}

// Remove drops the ship if present. Removing an absent ship is a benign
// no-op. Ordinals of remaining selections are not renumbered; a later
// re-propose of the same ship gets a fresh ordinal.
func (a *Accumulator) Remove(shipID string) {
	for i, s := range a.selections {
		if s.ShipID == shipID {
			a.selections = append(a.selections[:i], a.selections[i+1:]...)
			return
		}
	}
}

// Snapshot returns the ordered selections. The slice is a copy; mutating it
// does not affect the accumulator.
func (a *Accumulator) Snapshot() []Selection {
	out := make([]Selection, len(a.selections))
	copy(out, a.selections)
	return out
}
