package workflow

import "errors"

var (
	// ErrInvalidTransition is returned when a trigger is not permitted from the current state
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrInvalidState is returned when a state is not a valid claim state
	ErrInvalidState = errors.New("invalid state")

	// ErrGuardFailed is returned when a transition's guard condition rejects the trigger
	ErrGuardFailed = errors.New("guard condition failed")
)
