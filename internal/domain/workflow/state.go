package workflow

// State represents a claim state in the approval lifecycle
type State string

const (
	StatePending             State = "PENDING"
	StateCoordinatorApproved State = "COORDINATOR_APPROVED"
	StateApproved            State = "APPROVED"
	StateRejected            State = "REJECTED"
)

var validStates = map[State]bool{
	StatePending:             true,
	StateCoordinatorApproved: true,
	StateApproved:            true,
	StateRejected:            true,
}

// StateRejected is the only terminal state. StateApproved still accepts the
// invoice-processing trigger, which is a self transition.
var terminalStates = map[State]bool{
	StateRejected: true,
}

// IsTerminal returns true if no further transitions are allowed from the state
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

// IsValid returns true if the state is a valid claim state
func (s State) IsValid() bool {
	return validStates[s]
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}
