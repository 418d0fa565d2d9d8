// Package batch contains the pure state machine for a batch run.
// This is part of the Functional Core - no I/O, only pure functions.
package batch

// State represents the possible states of a batch run.
type State string

const (
	StateIdle        State = "idle"
	StateEnumerating State = "enumerating"
	StateProcessing  State = "processing"
	StatePaused      State = "paused"
	StateCancelled   State = "cancelled"
	StateDone        State = "done"
)

// CanTransition reports whether moving between two run states is legal.
// Paused is only ever entered from Processing (the pacing checkpoint
// between files), and both terminal states are unreachable from Idle.
func CanTransition(from, to State) bool {
	switch from {
	case StateIdle:
		return to == StateEnumerating
	case StateEnumerating:
		// An empty file list finishes the run without processing.
		return to == StateProcessing || to == StateDone || to == StateCancelled
	case StateProcessing:
		return to == StateProcessing || to == StatePaused || to == StateCancelled || to == StateDone
	case StatePaused:
		return to == StateProcessing || to == StateCancelled
	default:
		return false
	}
}

// Terminal reports whether a state ends the run.
func Terminal(s State) bool {
	return s == StateCancelled || s == StateDone
}
