package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cmcs/claimflow/internal/application/port"
	"github.com/cmcs/claimflow/internal/domain/claim"
	"github.com/cmcs/claimflow/pkg/utils"
)

const lecturerColumns = `
	id, user_id, full_name, email, phone_number, department, specialization,
	default_hourly_rate, bank_name, account_number, branch_code, tax_number,
	status, hire_date, terminated_at, created_at, updated_at`

// LecturerRepository implements port.LecturerRepository on sqlite
type LecturerRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewLecturerRepository creates a new lecturer repository
func NewLecturerRepository(db *sql.DB, logger *zap.Logger) port.LecturerRepository {
	return &LecturerRepository{db: db, logger: logger}
}

// Create inserts a new lecturer record
func (r *LecturerRepository) Create(ctx context.Context, l *claim.Lecturer) error {
	if err := utils.ValidateEmail(l.Email); err != nil {
		return fmt.Errorf("%w: %v", claim.ErrValidationFailed, err)
	}

	query := `
		INSERT INTO lecturers (
			user_id, full_name, email, phone_number, department, specialization,
			default_hourly_rate, bank_name, account_number, branch_code, tax_number,
			status, hire_date, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		l.UserID, l.FullName, l.Email, nullStr(l.PhoneNumber), l.Department, nullStr(l.Specialization),
		l.DefaultHourlyRate.String(), nullStr(l.BankName), nullStr(l.AccountNumber),
		nullStr(l.BranchCode), nullStr(l.TaxNumber),
		l.Status, l.HireDate, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create lecturer", zap.String("email", l.Email), zap.Error(err))
		return fmt.Errorf("failed to create lecturer: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	l.ID = id
	return nil
}

// GetByUserID retrieves a lecturer by identity-provider user id
func (r *LecturerRepository) GetByUserID(ctx context.Context, userID string) (*claim.Lecturer, error) {
	query := `SELECT ` + lecturerColumns + ` FROM lecturers WHERE user_id = ?`
	return r.getOne(ctx, query, userID)
}

// GetByEmail retrieves a lecturer by email
func (r *LecturerRepository) GetByEmail(ctx context.Context, email string) (*claim.Lecturer, error) {
	query := `SELECT ` + lecturerColumns + ` FROM lecturers WHERE email = ?`
	return r.getOne(ctx, query, email)
}

// List returns all lecturers ordered by name
func (r *LecturerRepository) List(ctx context.Context) ([]*claim.Lecturer, error) {
	query := `SELECT ` + lecturerColumns + ` FROM lecturers ORDER BY full_name`
	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list lecturers: %w", err)
	}
	defer rows.Close()

	var lecturers []*claim.Lecturer
	for rows.Next() {
		l, err := scanLecturer(rows)
		if err != nil {
			return nil, err
		}
		lecturers = append(lecturers, l)
	}
	return lecturers, rows.Err()
}

func (r *LecturerRepository) getOne(ctx context.Context, query string, arg interface{}) (*claim.Lecturer, error) {
	row := getExecutor(ctx, r.db).QueryRowContext(ctx, query, arg)
	l, err := scanLecturer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: lecturer %v", claim.ErrNotFound, arg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lecturer: %w", err)
	}
	return l, nil
}

func scanLecturer(row rowScanner) (*claim.Lecturer, error) {
	var l claim.Lecturer
	var rate string
	var phone, specialization, bank, account, branch, taxNumber sql.NullString
	var terminatedAt sql.NullTime

	err := row.Scan(
		&l.ID, &l.UserID, &l.FullName, &l.Email, &phone, &l.Department, &specialization,
		&rate, &bank, &account, &branch, &taxNumber,
		&l.Status, &l.HireDate, &terminatedAt, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if l.DefaultHourlyRate, err = parseDecimal(rate); err != nil {
		return nil, err
	}

	l.PhoneNumber = phone.String
	l.Specialization = specialization.String
	l.BankName = bank.String
	l.AccountNumber = account.String
	l.BranchCode = branch.String
	l.TaxNumber = taxNumber.String
	l.TerminatedAt = timePtr(terminatedAt)
	return &l, nil
}
