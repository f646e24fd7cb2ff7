package lead

import "fmt"

// State is a step of one submission attempt.
//
//	idle -> submitting -> persisted -> dispatching -> settled
//	           |              |
//	           +--> failed <--+  (validation or persistence)
//
// A resubmission is a new attempt starting again at idle.
type State string

const (
	StateIdle        State = "idle"
	StateSubmitting  State = "submitting"
	StatePersisted   State = "persisted"
	StateDispatching State = "dispatching"
	StateSettled     State = "settled"
	StateFailed      State = "failed"
)

var transitions = map[State][]State{
	StateIdle:        {StateSubmitting},
	StateSubmitting:  {StatePersisted, StateFailed},
	StatePersisted:   {StateDispatching},
	StateDispatching: {StateSettled},
}

func (s State) Terminal() bool {
	return s == StateSettled || s == StateFailed
}

// CanTransition reports whether from -> to is a legal step.
func CanTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// attempt tracks the state of one Submit call.
type attempt struct {
	state State
	trace []State
}

func newAttempt() *attempt {
	return &attempt{state: StateIdle, trace: []State{StateIdle}}
}

func (a *attempt) advance(to State) error {
	if !CanTransition(a.state, to) {
		return fmt.Errorf("illegal submission transition %s -> %s", a.state, to)
	}
	a.state = to
	a.trace = append(a.trace, to)
	return nil
}
