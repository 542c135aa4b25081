package extract

import "fmt"

// State is a task's position in the extract/validate/correct cycle.
type State int

const (
	StatePending State = iota
	StateExtracting
	StateValidating
	StateCorrecting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "PENDING"
	case StateExtracting:
		return "EXTRACTING"
	case StateValidating:
		return "VALIDATING"
	case StateCorrecting:
		return "CORRECTING"
	case StateSucceeded:
		return "SUCCEEDED"
	case StateFailed:
		return "FAILED"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name written by MarshalText.
func (s *State) UnmarshalText(text []byte) error {
	for st := StatePending; st <= StateFailed; st++ {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown extraction state %q", text)
}

// IsTerminal reports whether no further transitions are possible.
func (s State) IsTerminal() bool {
	return s == StateSucceeded || s == StateFailed
}

var transitions = map[State][]State{
	StatePending:    {StateExtracting, StateFailed},
	StateExtracting: {StateValidating, StateFailed},
	StateValidating: {StateSucceeded, StateCorrecting, StateFailed},
	StateCorrecting: {StateValidating, StateFailed},
}

// transition returns to, panicking if the move is not part of the cycle.
func transition(from, to State) State {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return to
		}
	}
	panic(fmt.Sprintf("extract: illegal transition %s -> %s", from, to))
}
