package claim

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cmcs/claimflow/internal/domain/workflow"
)

// Payment status constants for Invoice
const (
	PaymentStatusUnpaid = "UNPAID"
	PaymentStatusPaid   = "PAID"
)

// Invoice is the billing artifact generated once a claim is fully approved
// and processed by HR. It is created exactly once per claim; afterwards only
// the payment fields change.
type Invoice struct {
	ID            int64           `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	ClaimID       int64           `json:"claim_id"`
	LecturerName  string          `json:"lecturer_name"`
	LecturerEmail string          `json:"lecturer_email"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	NetAmount     decimal.Decimal `json:"net_amount"`
	InvoiceDate   time.Time       `json:"invoice_date"`
	DueDate       time.Time       `json:"due_date"`
	PaymentStatus string          `json:"payment_status"`
	PaymentDate   *time.Time      `json:"payment_date,omitempty"`
	PaymentRef    string          `json:"payment_reference,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	GeneratedBy   string          `json:"generated_by"`
	CreatedAt     time.Time       `json:"created_at"`
}

// InvoiceParams carries the configurable parts of invoice generation
type InvoiceParams struct {
	TaxRate   decimal.Decimal
	DueInDays int
}

// DefaultInvoiceParams returns the standard 15% tax rate and 30-day due offset
func DefaultInvoiceParams() InvoiceParams {
	return InvoiceParams{
		TaxRate:   decimal.RequireFromString("0.15"),
		DueInDays: 30,
	}
}

// NewInvoiceNumber builds a human-readable invoice number from the claim id
// and the generation time. Millisecond resolution keeps numbers unique in
// practice; the persistence layer's UNIQUE index is the backstop for clock
// collisions under bulk generation.
func NewInvoiceNumber(claimID int64, now time.Time) string {
	return fmt.Sprintf("INV-%d-%s-%s", claimID, now.Format("20060102"), now.Format("150405.000"))
}

// GenerateInvoice marks the claim HR-processed and returns its invoice.
// Only an Approved, not-yet-processed claim qualifies; on any failure the
// claim is left unmodified.
func GenerateInvoice(c *Claim, actor Identity, now time.Time, params InvoiceParams) (*Invoice, error) {
	if c.Status != workflow.StateApproved {
		return nil, fmt.Errorf("%w: invoice requires an approved claim, status is %s", ErrOutOfOrderTransition, c.Status)
	}
	if c.HRProcessed || c.InvoiceNumber != "" {
		return nil, fmt.Errorf("%w: invoice %s already generated", ErrAlreadyProcessed, c.InvoiceNumber)
	}

	number := NewInvoiceNumber(c.ID, now)
	taxAmount := c.TotalAmount.Mul(params.TaxRate)

	invoice := &Invoice{
		InvoiceNumber: number,
		ClaimID:       c.ID,
		LecturerName:  c.LecturerName,
		LecturerEmail: c.LecturerEmail,
		TotalAmount:   c.TotalAmount,
		TaxAmount:     taxAmount,
		NetAmount:     c.TotalAmount.Sub(taxAmount),
		InvoiceDate:   now,
		DueDate:       now.AddDate(0, 0, params.DueInDays),
		PaymentStatus: PaymentStatusUnpaid,
		GeneratedBy:   actor.Email,
		CreatedAt:     now,
	}

	c.InvoiceNumber = number
	generatedAt := now
	c.InvoiceGeneratedAt = &generatedAt
	c.HRProcessed = true
	c.HRProcessedBy = actor.Email
	processedAt := now
	c.HRProcessedAt = &processedAt

	return invoice, nil
}
