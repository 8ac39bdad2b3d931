package workflow

// Trigger represents an action that can cause a state transition
type Trigger string

const (
	TriggerCoordinatorApprove Trigger = "COORDINATOR_APPROVE"
	TriggerManagerApprove     Trigger = "MANAGER_APPROVE"
	TriggerReject             Trigger = "REJECT"
	TriggerProcessInvoice     Trigger = "PROCESS_INVOICE"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}
