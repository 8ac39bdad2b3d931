package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmcs/claimflow/internal/application/port"
	"github.com/cmcs/claimflow/internal/domain/claim"
	"github.com/cmcs/claimflow/internal/domain/workflow"
)

func approvedClaim(id int64) *claim.Claim {
	c := pendingClaim(id)
	c.Status = workflow.StateApproved
	coordAt := testNow.Add(-48 * time.Hour)
	mgrAt := testNow.Add(-24 * time.Hour)
	c.CoordinatorAt = &coordAt
	c.ManagerAt = &mgrAt
	return c
}

func newHRService(claimRepo *mockClaimRepo, invoiceRepo *mockInvoiceRepo, historyRepo *mockHistoryRepo) HRService {
	return NewHRService(claimRepo, invoiceRepo, historyRepo, &mockTxManager{}, claim.DefaultInvoiceParams(), fixedClock{testNow}, nopLogger{})
}

func TestHRService_ProcessInvoice(t *testing.T) {
	c := approvedClaim(7)
	var saved *claim.Invoice
	invoiceRepo := &mockInvoiceRepo{
		createFunc: func(ctx context.Context, inv *claim.Invoice) error {
			saved = inv
			return nil
		},
	}
	historyRepo := &mockHistoryRepo{}
	svc := newHRService(claimRepoHolding(c), invoiceRepo, historyRepo)

	processed, inv, err := svc.ProcessInvoice(context.Background(), hrClerkActor, 7)
	require.NoError(t, err)

	assert.True(t, processed.HRProcessed)
	assert.Equal(t, inv.InvoiceNumber, processed.InvoiceNumber)
	assert.Contains(t, inv.InvoiceNumber, "INV-7-")
	assert.True(t, inv.TaxAmount.Equal(decimal.NewFromInt(7500)))
	assert.True(t, inv.NetAmount.Equal(decimal.NewFromInt(42500)))
	require.NotNil(t, saved, "the invoice must be persisted")

	require.Len(t, historyRepo.entries, 1)
	assert.Equal(t, claim.ActionProcessInvoice, historyRepo.entries[0].Action)
	assert.Equal(t, inv.InvoiceNumber, historyRepo.entries[0].Comment)
}

func TestHRService_ProcessInvoiceRequiresHRRole(t *testing.T) {
	svc := newHRService(claimRepoHolding(approvedClaim(7)), &mockInvoiceRepo{}, &mockHistoryRepo{})

	_, _, err := svc.ProcessInvoice(context.Background(), managerActor, 7)

	assert.ErrorIs(t, err, claim.ErrUnauthorized)
}

func TestHRService_ProcessInvoiceRequiresApprovedClaim(t *testing.T) {
	c := pendingClaim(7)
	svc := newHRService(claimRepoHolding(c), &mockInvoiceRepo{}, &mockHistoryRepo{})

	_, _, err := svc.ProcessInvoice(context.Background(), hrClerkActor, 7)

	assert.ErrorIs(t, err, claim.ErrOutOfOrderTransition)
	assert.False(t, c.HRProcessed)
}

func TestHRService_ProcessInvoiceTwice(t *testing.T) {
	c := approvedClaim(7)
	svc := newHRService(claimRepoHolding(c), &mockInvoiceRepo{}, &mockHistoryRepo{})

	_, first, err := svc.ProcessInvoice(context.Background(), hrClerkActor, 7)
	require.NoError(t, err)

	_, _, err = svc.ProcessInvoice(context.Background(), hrClerkActor, 7)

	assert.ErrorIs(t, err, claim.ErrAlreadyProcessed)
	assert.Equal(t, first.InvoiceNumber, c.InvoiceNumber, "repeat processing must not change the invoice number")
}

func TestHRService_BulkProcessInvoices(t *testing.T) {
	claims := []*claim.Claim{approvedClaim(1), approvedClaim(2), approvedClaim(3)}
	// Claim 2 is malformed: approved but already carrying an invoice number
	claims[1].InvoiceNumber = "INV-2-20250101-000000.000"
	claims[1].HRProcessed = true

	byID := map[int64]*claim.Claim{}
	for _, c := range claims {
		byID[c.ID] = c
	}
	claimRepo := &mockClaimRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*claim.Claim, error) {
			if c, ok := byID[id]; ok {
				return c, nil
			}
			return nil, claim.ErrNotFound
		},
		listApprovedUnprocessedFunc: func(ctx context.Context) ([]*claim.Claim, error) {
			return claims, nil
		},
	}
	svc := newHRService(claimRepo, &mockInvoiceRepo{}, &mockHistoryRepo{})

	result, err := svc.BulkProcessInvoices(context.Background(), hrClerkActor)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, int64(2), result.Failures[0].ClaimID)
	assert.Contains(t, result.Failures[0].Reason, "already")

	// The healthy claims were processed despite the failure
	assert.True(t, claims[0].HRProcessed)
	assert.True(t, claims[2].HRProcessed)
}

func TestHRService_BulkProcessEmptyQueue(t *testing.T) {
	svc := newHRService(&mockClaimRepo{}, &mockInvoiceRepo{}, &mockHistoryRepo{})

	result, err := svc.BulkProcessInvoices(context.Background(), hrClerkActor)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Succeeded)
	assert.Equal(t, 0, result.Failed)
	assert.Empty(t, result.Failures)
}

func TestHRService_ListAwaitingProcessing(t *testing.T) {
	claimRepo := &mockClaimRepo{
		listApprovedUnprocessedFunc: func(ctx context.Context) ([]*claim.Claim, error) {
			return []*claim.Claim{approvedClaim(1)}, nil
		},
	}
	svc := newHRService(claimRepo, &mockInvoiceRepo{}, &mockHistoryRepo{})

	claims, err := svc.ListAwaitingProcessing(context.Background(), hrClerkActor)
	require.NoError(t, err)
	assert.Len(t, claims, 1)

	_, err = svc.ListAwaitingProcessing(context.Background(), lecturerActor)
	assert.ErrorIs(t, err, claim.ErrUnauthorized)
}

func TestHRService_Report(t *testing.T) {
	claimRepo := &mockClaimRepo{
		statsFunc: func(ctx context.Context) (*port.ClaimStats, error) {
			return &port.ClaimStats{
				TotalClaims:          10,
				ProcessedClaims:      4,
				TotalProcessedAmount: decimal.NewFromInt(100000),
			}, nil
		},
	}
	svc := newHRService(claimRepo, &mockInvoiceRepo{}, &mockHistoryRepo{})

	summary, err := svc.Report(context.Background(), hrClerkActor)
	require.NoError(t, err)

	assert.Equal(t, 10, summary.TotalClaims)
	assert.True(t, summary.TotalTaxAmount.Equal(decimal.NewFromInt(15000)), "tax = %s", summary.TotalTaxAmount)
	assert.True(t, summary.TotalNetAmount.Equal(decimal.NewFromInt(85000)), "net = %s", summary.TotalNetAmount)
}

func TestHRService_GetInvoice(t *testing.T) {
	invoiceRepo := &mockInvoiceRepo{
		getByClaimIDFunc: func(ctx context.Context, claimID int64) (*claim.Invoice, error) {
			return &claim.Invoice{ClaimID: claimID, InvoiceNumber: "INV-7-20250315-100000.000"}, nil
		},
	}
	svc := newHRService(&mockClaimRepo{}, invoiceRepo, &mockHistoryRepo{})

	inv, err := svc.GetInvoice(context.Background(), hrClerkActor, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), inv.ClaimID)

	_, err = svc.GetInvoice(context.Background(), coordinatorActor, 7)
	assert.ErrorIs(t, err, claim.ErrUnauthorized)
}
