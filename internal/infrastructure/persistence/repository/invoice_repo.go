package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cmcs/claimflow/internal/application/port"
	"github.com/cmcs/claimflow/internal/domain/claim"
)

const invoiceColumns = `
	id, invoice_number, claim_id, lecturer_name, lecturer_email,
	total_amount, tax_amount, net_amount, invoice_date, due_date,
	payment_status, payment_date, payment_reference, notes, generated_by, created_at`

// InvoiceRepository implements port.InvoiceRepository on sqlite
type InvoiceRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *sql.DB, logger *zap.Logger) port.InvoiceRepository {
	return &InvoiceRepository{db: db, logger: logger}
}

// Create inserts a new invoice. The UNIQUE index on invoice_number rejects
// duplicate numbers from generator clock collisions.
func (r *InvoiceRepository) Create(ctx context.Context, inv *claim.Invoice) error {
	query := `
		INSERT INTO invoices (
			invoice_number, claim_id, lecturer_name, lecturer_email,
			total_amount, tax_amount, net_amount, invoice_date, due_date,
			payment_status, notes, generated_by, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		inv.InvoiceNumber, inv.ClaimID, inv.LecturerName, inv.LecturerEmail,
		inv.TotalAmount.String(), inv.TaxAmount.String(), inv.NetAmount.String(),
		inv.InvoiceDate, inv.DueDate,
		inv.PaymentStatus, inv.Notes, inv.GeneratedBy, inv.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create invoice",
			zap.String("invoice_number", inv.InvoiceNumber),
			zap.Error(err))
		return fmt.Errorf("failed to create invoice %s: %w", inv.InvoiceNumber, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	inv.ID = id
	return nil
}

// GetByClaimID retrieves the invoice generated for a claim
func (r *InvoiceRepository) GetByClaimID(ctx context.Context, claimID int64) (*claim.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE claim_id = ?`
	row := getExecutor(ctx, r.db).QueryRowContext(ctx, query, claimID)

	inv, err := scanInvoice(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no invoice for claim %d", claim.ErrNotFound, claimID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice for claim %d: %w", claimID, err)
	}
	return inv, nil
}

// GetByNumber retrieves an invoice by its unique number
func (r *InvoiceRepository) GetByNumber(ctx context.Context, number string) (*claim.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_number = ?`
	row := getExecutor(ctx, r.db).QueryRowContext(ctx, query, number)

	inv, err := scanInvoice(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: invoice %s", claim.ErrNotFound, number)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice %s: %w", number, err)
	}
	return inv, nil
}

// List returns invoices, newest first
func (r *InvoiceRepository) List(ctx context.Context, limit, offset int) ([]*claim.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices ORDER BY created_at DESC LIMIT ? OFFSET ?`
	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*claim.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// UpdatePaymentStatus records a payment against an invoice
func (r *InvoiceRepository) UpdatePaymentStatus(ctx context.Context, id int64, status, reference string) error {
	query := `
		UPDATE invoices SET
			payment_status = ?,
			payment_date = CASE WHEN ? = 'PAID' THEN CURRENT_TIMESTAMP ELSE payment_date END,
			payment_reference = ?
		WHERE id = ?
	`
	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query, status, status, nullStr(reference), id)
	if err != nil {
		return fmt.Errorf("failed to update invoice %d payment status: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: invoice id %d", claim.ErrNotFound, id)
	}
	return nil
}

func scanInvoice(row rowScanner) (*claim.Invoice, error) {
	var inv claim.Invoice
	var total, tax, net string
	var paymentDate sql.NullTime
	var paymentRef, notes sql.NullString

	err := row.Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.ClaimID, &inv.LecturerName, &inv.LecturerEmail,
		&total, &tax, &net, &inv.InvoiceDate, &inv.DueDate,
		&inv.PaymentStatus, &paymentDate, &paymentRef, &notes, &inv.GeneratedBy, &inv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if inv.TotalAmount, err = parseDecimal(total); err != nil {
		return nil, err
	}
	if inv.TaxAmount, err = parseDecimal(tax); err != nil {
		return nil, err
	}
	if inv.NetAmount, err = parseDecimal(net); err != nil {
		return nil, err
	}

	inv.PaymentDate = timePtr(paymentDate)
	inv.PaymentRef = paymentRef.String
	inv.Notes = notes.String
	return &inv, nil
}
