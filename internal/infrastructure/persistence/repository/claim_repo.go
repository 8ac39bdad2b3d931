package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cmcs/claimflow/internal/application/port"
	"github.com/cmcs/claimflow/internal/domain/claim"
	"github.com/cmcs/claimflow/internal/domain/workflow"
)

const claimColumns = `
	id, lecturer_id, lecturer_name, lecturer_email,
	hours_worked, hourly_rate, total_amount, notes, submitted_at, status,
	coordinator_name, coordinator_comment, coordinator_at,
	manager_name, manager_comment, manager_at,
	rejected_by, rejection_reason, rejected_at,
	hr_processed, hr_processed_by, hr_processed_at,
	document_path, document_size, document_type,
	invoice_number, invoice_generated_at,
	created_at, updated_at`

// ClaimRepository implements port.ClaimRepository on sqlite
type ClaimRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewClaimRepository creates a new claim repository
func NewClaimRepository(db *sql.DB, logger *zap.Logger) port.ClaimRepository {
	return &ClaimRepository{db: db, logger: logger}
}

// Create inserts a new claim and sets its generated id
func (r *ClaimRepository) Create(ctx context.Context, c *claim.Claim) error {
	query := `
		INSERT INTO claims (
			lecturer_id, lecturer_name, lecturer_email,
			hours_worked, hourly_rate, total_amount, notes, submitted_at, status,
			hr_processed, document_path, document_size, document_type,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var docPath, docType sql.NullString
	var docSize sql.NullInt64
	if c.Document != nil {
		docPath = sql.NullString{String: c.Document.Path, Valid: true}
		docSize = sql.NullInt64{Int64: c.Document.SizeBytes, Valid: true}
		docType = sql.NullString{String: c.Document.MediaType, Valid: true}
	}

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		c.LecturerID, c.LecturerName, c.LecturerEmail,
		c.HoursWorked.String(), c.HourlyRate.String(), c.TotalAmount.String(),
		c.Notes, c.SubmittedAt, c.Status.String(),
		c.HRProcessed, docPath, docSize, docType,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create claim", zap.Error(err))
		return fmt.Errorf("failed to create claim: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	c.ID = id
	return nil
}

// GetByID retrieves a claim by id
func (r *ClaimRepository) GetByID(ctx context.Context, id int64) (*claim.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims WHERE id = ?`
	row := getExecutor(ctx, r.db).QueryRowContext(ctx, query, id)

	c, err := scanClaim(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", claim.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get claim %d: %w", id, err)
	}
	return c, nil
}

// Update persists every mutable claim field
func (r *ClaimRepository) Update(ctx context.Context, c *claim.Claim) error {
	query := `
		UPDATE claims SET
			hours_worked = ?, hourly_rate = ?, total_amount = ?, notes = ?, status = ?,
			coordinator_name = ?, coordinator_comment = ?, coordinator_at = ?,
			manager_name = ?, manager_comment = ?, manager_at = ?,
			rejected_by = ?, rejection_reason = ?, rejected_at = ?,
			hr_processed = ?, hr_processed_by = ?, hr_processed_at = ?,
			invoice_number = ?, invoice_generated_at = ?,
			updated_at = ?
		WHERE id = ?
	`

	var invoiceNumber sql.NullString
	if c.InvoiceNumber != "" {
		invoiceNumber = sql.NullString{String: c.InvoiceNumber, Valid: true}
	}

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		c.HoursWorked.String(), c.HourlyRate.String(), c.TotalAmount.String(), c.Notes, c.Status.String(),
		nullStr(c.CoordinatorName), nullStr(c.CoordinatorComment), nullTime(c.CoordinatorAt),
		nullStr(c.ManagerName), nullStr(c.ManagerComment), nullTime(c.ManagerAt),
		nullStr(c.RejectedBy), nullStr(c.RejectionReason), nullTime(c.RejectedAt),
		c.HRProcessed, nullStr(c.HRProcessedBy), nullTime(c.HRProcessedAt),
		invoiceNumber, nullTime(c.InvoiceGeneratedAt),
		c.UpdatedAt, c.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update claim", zap.Int64("claim_id", c.ID), zap.Error(err))
		return fmt.Errorf("failed to update claim %d: %w", c.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %d", claim.ErrNotFound, c.ID)
	}
	return nil
}

// ListByLecturer returns a lecturer's claims, newest submission first
func (r *ClaimRepository) ListByLecturer(ctx context.Context, lecturerID string) ([]*claim.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims WHERE lecturer_id = ? ORDER BY submitted_at DESC`
	return r.queryClaims(ctx, query, lecturerID)
}

// ListByStatus returns claims in the given status, newest submission first
func (r *ClaimRepository) ListByStatus(ctx context.Context, status workflow.State) ([]*claim.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims WHERE status = ? ORDER BY submitted_at DESC`
	return r.queryClaims(ctx, query, status.String())
}

// ListApprovedUnprocessed returns approved claims awaiting HR, oldest approval first
func (r *ClaimRepository) ListApprovedUnprocessed(ctx context.Context) ([]*claim.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims
		WHERE status = ? AND hr_processed = 0
		ORDER BY manager_at ASC`
	return r.queryClaims(ctx, query, workflow.StateApproved.String())
}

// ListProcessed returns HR-processed claims, newest processing first
func (r *ClaimRepository) ListProcessed(ctx context.Context, limit int) ([]*claim.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims
		WHERE hr_processed = 1
		ORDER BY hr_processed_at DESC
		LIMIT ?`
	return r.queryClaims(ctx, query, limit)
}

// Stats aggregates claim counts and amounts
func (r *ClaimRepository) Stats(ctx context.Context) (*port.ClaimStats, error) {
	stats := &port.ClaimStats{}

	countQuery := `SELECT status, COUNT(*) FROM claims GROUP BY status`
	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, countQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to count claims: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.TotalClaims += count
		switch workflow.State(status) {
		case workflow.StatePending:
			stats.PendingClaims = count
		case workflow.StateCoordinatorApproved:
			stats.CoordinatorApproved = count
		case workflow.StateApproved:
			stats.ApprovedClaims = count
		case workflow.StateRejected:
			stats.RejectedClaims = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sumQuery := `
		SELECT
			COUNT(CASE WHEN hr_processed = 1 THEN 1 END),
			COALESCE(SUM(CASE WHEN status = ? THEN total_amount END), 0),
			COALESCE(SUM(CASE WHEN hr_processed = 1 THEN total_amount END), 0)
		FROM claims
	`
	var approvedSum, processedSum string
	err = getExecutor(ctx, r.db).QueryRowContext(ctx, sumQuery, workflow.StateApproved.String()).
		Scan(&stats.ProcessedClaims, &approvedSum, &processedSum)
	if err != nil {
		return nil, fmt.Errorf("failed to sum claim amounts: %w", err)
	}

	if stats.TotalApprovedAmount, err = parseDecimal(approvedSum); err != nil {
		return nil, err
	}
	if stats.TotalProcessedAmount, err = parseDecimal(processedSum); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *ClaimRepository) queryClaims(ctx context.Context, query string, args ...interface{}) ([]*claim.Claim, error) {
	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list claims: %w", err)
	}
	defer rows.Close()

	var claims []*claim.Claim
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, err
		}
		claims = append(claims, c)
	}
	return claims, rows.Err()
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanClaim(row rowScanner) (*claim.Claim, error) {
	var c claim.Claim
	var hours, rate, total, status string
	var notes, coordName, coordComment, mgrName, mgrComment sql.NullString
	var rejectedBy, rejectionReason, hrBy, docPath, docType, invoiceNumber sql.NullString
	var coordAt, mgrAt, rejectedAt, hrAt, invoiceAt sql.NullTime
	var docSize sql.NullInt64

	err := row.Scan(
		&c.ID, &c.LecturerID, &c.LecturerName, &c.LecturerEmail,
		&hours, &rate, &total, &notes, &c.SubmittedAt, &status,
		&coordName, &coordComment, &coordAt,
		&mgrName, &mgrComment, &mgrAt,
		&rejectedBy, &rejectionReason, &rejectedAt,
		&c.HRProcessed, &hrBy, &hrAt,
		&docPath, &docSize, &docType,
		&invoiceNumber, &invoiceAt,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if c.HoursWorked, err = parseDecimal(hours); err != nil {
		return nil, err
	}
	if c.HourlyRate, err = parseDecimal(rate); err != nil {
		return nil, err
	}
	if c.TotalAmount, err = parseDecimal(total); err != nil {
		return nil, err
	}

	c.Status = workflow.State(status)
	c.Notes = notes.String
	c.CoordinatorName = coordName.String
	c.CoordinatorComment = coordComment.String
	c.ManagerName = mgrName.String
	c.ManagerComment = mgrComment.String
	c.RejectedBy = rejectedBy.String
	c.RejectionReason = rejectionReason.String
	c.HRProcessedBy = hrBy.String
	c.InvoiceNumber = invoiceNumber.String

	c.CoordinatorAt = timePtr(coordAt)
	c.ManagerAt = timePtr(mgrAt)
	c.RejectedAt = timePtr(rejectedAt)
	c.HRProcessedAt = timePtr(hrAt)
	c.InvoiceGeneratedAt = timePtr(invoiceAt)

	if docPath.Valid {
		c.Document = &claim.Document{
			Path:      docPath.String,
			SizeBytes: docSize.Int64,
			MediaType: docType.String,
		}
	}

	return &c, nil
}
