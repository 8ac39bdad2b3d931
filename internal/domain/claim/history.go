package claim

import (
	"time"

	"github.com/cmcs/claimflow/internal/domain/workflow"
)

// HistoryEntry records one claim transition for the audit trail
type HistoryEntry struct {
	ID             int64          `json:"id"`
	ClaimID        int64          `json:"claim_id"`
	ActorEmail     string         `json:"actor_email"`
	Action         string         `json:"action"`
	PreviousStatus workflow.State `json:"previous_status"`
	NewStatus      workflow.State `json:"new_status"`
	Comment        string         `json:"comment,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// Action constants for HistoryEntry
const (
	ActionSubmit             = "SUBMIT"
	ActionCoordinatorApprove = "COORDINATOR_APPROVE"
	ActionManagerApprove     = "MANAGER_APPROVE"
	ActionReject             = "REJECT"
	ActionProcessInvoice     = "PROCESS_INVOICE"
)
