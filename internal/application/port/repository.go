package port

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/cmcs/claimflow/internal/domain/claim"
	"github.com/cmcs/claimflow/internal/domain/workflow"
)

// ClaimRepository defines persistence operations for Claim
type ClaimRepository interface {
	Create(ctx context.Context, c *claim.Claim) error
	GetByID(ctx context.Context, id int64) (*claim.Claim, error)
	Update(ctx context.Context, c *claim.Claim) error
	ListByLecturer(ctx context.Context, lecturerID string) ([]*claim.Claim, error)
	ListByStatus(ctx context.Context, status workflow.State) ([]*claim.Claim, error)

	// ListApprovedUnprocessed returns approved claims awaiting HR, oldest review first
	ListApprovedUnprocessed(ctx context.Context) ([]*claim.Claim, error)

	// ListProcessed returns HR-processed claims, newest first
	ListProcessed(ctx context.Context, limit int) ([]*claim.Claim, error)

	Stats(ctx context.Context) (*ClaimStats, error)
}

// ClaimStats aggregates claim counts and amounts for the HR summary
type ClaimStats struct {
	TotalClaims          int             `json:"total_claims"`
	PendingClaims        int             `json:"pending_claims"`
	CoordinatorApproved  int             `json:"coordinator_approved_claims"`
	ApprovedClaims       int             `json:"approved_claims"`
	RejectedClaims       int             `json:"rejected_claims"`
	ProcessedClaims      int             `json:"processed_claims"`
	TotalApprovedAmount  decimal.Decimal `json:"total_approved_amount"`
	TotalProcessedAmount decimal.Decimal `json:"total_processed_amount"`
}

// InvoiceRepository defines persistence operations for Invoice.
// The invoice_number column carries a UNIQUE index as the backstop for
// generator clock collisions.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *claim.Invoice) error
	GetByClaimID(ctx context.Context, claimID int64) (*claim.Invoice, error)
	GetByNumber(ctx context.Context, number string) (*claim.Invoice, error)
	List(ctx context.Context, limit, offset int) ([]*claim.Invoice, error)
	UpdatePaymentStatus(ctx context.Context, id int64, status, reference string) error
}

// LecturerRepository defines persistence operations for the lecturer directory
type LecturerRepository interface {
	Create(ctx context.Context, l *claim.Lecturer) error
	GetByUserID(ctx context.Context, userID string) (*claim.Lecturer, error)
	GetByEmail(ctx context.Context, email string) (*claim.Lecturer, error)
	List(ctx context.Context) ([]*claim.Lecturer, error)
}

// HistoryRepository defines persistence operations for the claim audit trail
type HistoryRepository interface {
	Append(ctx context.Context, entry *claim.HistoryEntry) error
	ListByClaim(ctx context.Context, claimID int64) ([]*claim.HistoryEntry, error)
}

// TransactionManager runs a function inside a database transaction. Mutating
// engine operations use it to serialize the load-mutate-save cycle per claim.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
