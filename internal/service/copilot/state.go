package copilot

import "fmt"

// State is a step of the submit flow.
type State string

const (
	StateEditing       State = "editing"
	StateValidating    State = "validating"
	StateValid         State = "valid"
	StateInvalid       State = "invalid"
	StateConverting    State = "converting"
	StateSubmitting    State = "submitting"
	StatePersisted     State = "persisted"
	StatePersistFailed State = "persist_failed"
)

var transitions = map[State][]State{
	StateEditing:       {StateValidating},
	StateValidating:    {StateValid, StateInvalid},
	StateValid:         {StateConverting},
	StateInvalid:       {StateEditing},
	StateConverting:    {StateSubmitting, StateEditing},
	StateSubmitting:    {StatePersisted, StatePersistFailed},
	StatePersistFailed: {StateEditing},
}

// CanTransition reports whether the flow may move from one state to another.
// Persisted is terminal.
func CanTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// flow tracks one document through the submit states.
type flow struct {
	state State
	trace []State
}

func newFlow() *flow {
	return &flow{state: StateEditing, trace: []State{StateEditing}}
}

func (f *flow) advance(to State) {
	if !CanTransition(f.state, to) {
		panic(fmt.Sprintf("copilot: illegal transition %s -> %s", f.state, to))
	}
	f.state = to
	f.trace = append(f.trace, to)
}

func (f *flow) Trace() []State {
	return append([]State(nil), f.trace...)
}
