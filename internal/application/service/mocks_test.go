package service

import (
	"context"
	"time"

	"github.com/cmcs/claimflow/internal/application/port"
	"github.com/cmcs/claimflow/internal/domain/claim"
	"github.com/cmcs/claimflow/internal/domain/workflow"
)

// Mock repositories with overridable behavior per test

type mockClaimRepo struct {
	createFunc                  func(ctx context.Context, c *claim.Claim) error
	getByIDFunc                 func(ctx context.Context, id int64) (*claim.Claim, error)
	updateFunc                  func(ctx context.Context, c *claim.Claim) error
	listByLecturerFunc          func(ctx context.Context, lecturerID string) ([]*claim.Claim, error)
	listByStatusFunc            func(ctx context.Context, status workflow.State) ([]*claim.Claim, error)
	listApprovedUnprocessedFunc func(ctx context.Context) ([]*claim.Claim, error)
	listProcessedFunc           func(ctx context.Context, limit int) ([]*claim.Claim, error)
	statsFunc                   func(ctx context.Context) (*port.ClaimStats, error)
}

func (m *mockClaimRepo) Create(ctx context.Context, c *claim.Claim) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, c)
	}
	c.ID = 1
	return nil
}

func (m *mockClaimRepo) GetByID(ctx context.Context, id int64) (*claim.Claim, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, claim.ErrNotFound
}

func (m *mockClaimRepo) Update(ctx context.Context, c *claim.Claim) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, c)
	}
	return nil
}

func (m *mockClaimRepo) ListByLecturer(ctx context.Context, lecturerID string) ([]*claim.Claim, error) {
	if m.listByLecturerFunc != nil {
		return m.listByLecturerFunc(ctx, lecturerID)
	}
	return []*claim.Claim{}, nil
}

func (m *mockClaimRepo) ListByStatus(ctx context.Context, status workflow.State) ([]*claim.Claim, error) {
	if m.listByStatusFunc != nil {
		return m.listByStatusFunc(ctx, status)
	}
	return []*claim.Claim{}, nil
}

func (m *mockClaimRepo) ListApprovedUnprocessed(ctx context.Context) ([]*claim.Claim, error) {
	if m.listApprovedUnprocessedFunc != nil {
		return m.listApprovedUnprocessedFunc(ctx)
	}
	return []*claim.Claim{}, nil
}

func (m *mockClaimRepo) ListProcessed(ctx context.Context, limit int) ([]*claim.Claim, error) {
	if m.listProcessedFunc != nil {
		return m.listProcessedFunc(ctx, limit)
	}
	return []*claim.Claim{}, nil
}

func (m *mockClaimRepo) Stats(ctx context.Context) (*port.ClaimStats, error) {
	if m.statsFunc != nil {
		return m.statsFunc(ctx)
	}
	return &port.ClaimStats{}, nil
}

type mockInvoiceRepo struct {
	createFunc       func(ctx context.Context, inv *claim.Invoice) error
	getByClaimIDFunc func(ctx context.Context, claimID int64) (*claim.Invoice, error)
}

func (m *mockInvoiceRepo) Create(ctx context.Context, inv *claim.Invoice) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, inv)
	}
	inv.ID = 1
	return nil
}

func (m *mockInvoiceRepo) GetByClaimID(ctx context.Context, claimID int64) (*claim.Invoice, error) {
	if m.getByClaimIDFunc != nil {
		return m.getByClaimIDFunc(ctx, claimID)
	}
	return nil, claim.ErrNotFound
}

func (m *mockInvoiceRepo) GetByNumber(ctx context.Context, number string) (*claim.Invoice, error) {
	return nil, claim.ErrNotFound
}

func (m *mockInvoiceRepo) List(ctx context.Context, limit, offset int) ([]*claim.Invoice, error) {
	return []*claim.Invoice{}, nil
}

func (m *mockInvoiceRepo) UpdatePaymentStatus(ctx context.Context, id int64, status, reference string) error {
	return nil
}

type mockLecturerRepo struct {
	getByUserIDFunc func(ctx context.Context, userID string) (*claim.Lecturer, error)
}

func (m *mockLecturerRepo) Create(ctx context.Context, l *claim.Lecturer) error { return nil }

func (m *mockLecturerRepo) GetByUserID(ctx context.Context, userID string) (*claim.Lecturer, error) {
	if m.getByUserIDFunc != nil {
		return m.getByUserIDFunc(ctx, userID)
	}
	return nil, claim.ErrNotFound
}

func (m *mockLecturerRepo) GetByEmail(ctx context.Context, email string) (*claim.Lecturer, error) {
	return nil, claim.ErrNotFound
}

func (m *mockLecturerRepo) List(ctx context.Context) ([]*claim.Lecturer, error) {
	return []*claim.Lecturer{}, nil
}

type mockHistoryRepo struct {
	appendFunc func(ctx context.Context, entry *claim.HistoryEntry) error
	entries    []*claim.HistoryEntry
}

func (m *mockHistoryRepo) Append(ctx context.Context, entry *claim.HistoryEntry) error {
	if m.appendFunc != nil {
		return m.appendFunc(ctx, entry)
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockHistoryRepo) ListByClaim(ctx context.Context, claimID int64) ([]*claim.HistoryEntry, error) {
	return m.entries, nil
}

// mockTxManager runs the function directly without a database
type mockTxManager struct{}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fixedClock always returns the same instant
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

// nopLogger discards everything
type nopLogger struct{}

func (nopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Error(msg string, keysAndValues ...interface{}) {}
