package claim

import (
	"context"

	"github.com/cmcs/claimflow/internal/domain/workflow"
)

// NewMachine builds the canonical claim state machine positioned at the
// claim's current status. The guard on invoice processing closes over the
// claim so a second processing attempt fails at the machine level.
//
//	PENDING --COORDINATOR_APPROVE--> COORDINATOR_APPROVED
//	COORDINATOR_APPROVED --MANAGER_APPROVE--> APPROVED
//	PENDING | COORDINATOR_APPROVED --REJECT--> REJECTED (terminal)
//	APPROVED --PROCESS_INVOICE--> APPROVED (HR-processed flag set by caller)
func NewMachine(c *Claim) workflow.StateMachine {
	b := workflow.NewBuilder()

	b.Configure(workflow.StatePending).
		Permit(workflow.TriggerCoordinatorApprove, workflow.StateCoordinatorApproved).
		Permit(workflow.TriggerReject, workflow.StateRejected)

	b.Configure(workflow.StateCoordinatorApproved).
		Permit(workflow.TriggerManagerApprove, workflow.StateApproved).
		Permit(workflow.TriggerReject, workflow.StateRejected)

	b.Configure(workflow.StateApproved).
		PermitIf(workflow.TriggerProcessInvoice, workflow.StateApproved, func(ctx context.Context) bool {
			return !c.HRProcessed
		})

	return b.Build(c.Status)
}
