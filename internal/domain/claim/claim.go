package claim

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cmcs/claimflow/internal/domain/workflow"
)

// Document describes an uploaded supporting document
type Document struct {
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes"`
	MediaType string `json:"media_type"`
}

// Claim represents a lecturer's monthly pay claim
type Claim struct {
	ID            int64           `json:"id"`
	LecturerID    string          `json:"lecturer_id"`
	LecturerName  string          `json:"lecturer_name"`
	LecturerEmail string          `json:"lecturer_email"`
	HoursWorked   decimal.Decimal `json:"hours_worked"`
	HourlyRate    decimal.Decimal `json:"hourly_rate"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Notes         string          `json:"notes,omitempty"`
	SubmittedAt   time.Time       `json:"submitted_at"`
	Status        workflow.State  `json:"status"`

	// First approval stage
	CoordinatorName    string     `json:"coordinator_name,omitempty"`
	CoordinatorComment string     `json:"coordinator_comment,omitempty"`
	CoordinatorAt      *time.Time `json:"coordinator_at,omitempty"`

	// Second approval stage
	ManagerName    string     `json:"manager_name,omitempty"`
	ManagerComment string     `json:"manager_comment,omitempty"`
	ManagerAt      *time.Time `json:"manager_at,omitempty"`

	// Terminal rejection
	RejectedBy      string     `json:"rejected_by,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty"`

	// HR processing
	HRProcessed   bool       `json:"hr_processed"`
	HRProcessedBy string     `json:"hr_processed_by,omitempty"`
	HRProcessedAt *time.Time `json:"hr_processed_at,omitempty"`

	Document *Document `json:"document,omitempty"`

	InvoiceNumber      string     `json:"invoice_number,omitempty"`
	InvoiceGeneratedAt *time.Time `json:"invoice_generated_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CalculateTotalAmount recomputes TotalAmount from hours and rate.
// Must be called after every edit that touches either factor.
func (c *Claim) CalculateTotalAmount() {
	c.TotalAmount = c.HoursWorked.Mul(c.HourlyRate)
}

// CoordinatorApproved reports whether the first review stage is complete
func (c *Claim) CoordinatorApproved() bool {
	return c.CoordinatorAt != nil
}

// ManagerApproved reports whether the second review stage is complete
func (c *Claim) ManagerApproved() bool {
	return c.ManagerAt != nil
}
