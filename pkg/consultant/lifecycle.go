package consultant

import "ship-consultant-be/pkg/store"

// Trigger is an out-of-band lifecycle event applied to a session without a
// user turn.
type Trigger string

const (
	TriggerIdleTimeout   Trigger = "idle_timeout"
	TriggerForceComplete Trigger = "force_complete"
)

// Evaluate returns the phase a session should move to when a trigger fires.
// It is pure: transcript and fleet are always preserved, the caller only
// stores the new phase. A trigger on a terminal session is a no-op.
func Evaluate(phase string, trigger Trigger) (next string, changed bool) {
	switch phase {
	case store.PhaseCompleted, store.PhaseAbandoned:
		return phase, false
	}

	switch trigger {
	case TriggerIdleTimeout:
		return store.PhaseAbandoned, true
	case TriggerForceComplete:
		return store.PhaseCompleted, true
	default:
		return phase, false
	}
}
