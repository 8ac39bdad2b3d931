package claim

import "errors"

var (
	// ErrNotFound is returned when the referenced claim does not exist
	ErrNotFound = errors.New("claim not found")

	// ErrOutOfOrderTransition is returned when an action is attempted on a
	// claim that is not in the required prerequisite state
	ErrOutOfOrderTransition = errors.New("claim is not in the required state for this action")

	// ErrValidationFailed is returned when a business rule check fails;
	// wrapped errors carry the specific rule message
	ErrValidationFailed = errors.New("claim validation failed")

	// ErrMissingRequiredField is returned when a required input is empty
	ErrMissingRequiredField = errors.New("required field is missing")

	// ErrAlreadyProcessed is returned when invoice generation is requested
	// for a claim HR has already processed
	ErrAlreadyProcessed = errors.New("claim has already been processed")

	// ErrStorageRejected is returned when an upload fails the type/size policy
	ErrStorageRejected = errors.New("document rejected by upload policy")

	// ErrUnauthorized is returned when the actor lacks the role an operation requires
	ErrUnauthorized = errors.New("actor does not have the required role")
)
