package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cmcs/claimflow/internal/application/port"
	"github.com/cmcs/claimflow/internal/domain/claim"
)

// BulkFailure records one claim skipped during bulk invoice generation
type BulkFailure struct {
	ClaimID int64  `json:"claim_id"`
	Reason  string `json:"reason"`
}

// BulkResult reports the outcome of a bulk invoice run. Failures are counted
// and listed, never silently dropped.
type BulkResult struct {
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Failures  []BulkFailure `json:"failures,omitempty"`
}

// Summary is the HR reporting view over all claims
type Summary struct {
	port.ClaimStats
	TaxRate        decimal.Decimal `json:"tax_rate"`
	TotalTaxAmount decimal.Decimal `json:"total_tax_amount"`
	TotalNetAmount decimal.Decimal `json:"total_net_amount"`
}

// HRService covers invoice processing and HR reporting
type HRService interface {
	// ProcessInvoice generates the invoice for one approved claim
	ProcessInvoice(ctx context.Context, actor claim.Identity, claimID int64) (*claim.Claim, *claim.Invoice, error)

	// BulkProcessInvoices generates invoices for every approved, unprocessed
	// claim. One claim's failure never aborts the batch.
	BulkProcessInvoices(ctx context.Context, actor claim.Identity) (*BulkResult, error)

	// ListAwaitingProcessing returns approved claims HR has not yet processed
	ListAwaitingProcessing(ctx context.Context, actor claim.Identity) ([]*claim.Claim, error)

	// ListProcessed returns HR-processed claims, newest first
	ListProcessed(ctx context.Context, actor claim.Identity, limit int) ([]*claim.Claim, error)

	// GetInvoice returns the invoice generated for a claim
	GetInvoice(ctx context.Context, actor claim.Identity, claimID int64) (*claim.Invoice, error)

	// Report aggregates claim counts and amounts with tax totals
	Report(ctx context.Context, actor claim.Identity) (*Summary, error)
}

type hrServiceImpl struct {
	claimRepo   port.ClaimRepository
	invoiceRepo port.InvoiceRepository
	historyRepo port.HistoryRepository
	txManager   port.TransactionManager
	params      claim.InvoiceParams
	clock       Clock
	logger      Logger
}

// NewHRService creates a new HRService with the given invoice parameters
func NewHRService(
	claimRepo port.ClaimRepository,
	invoiceRepo port.InvoiceRepository,
	historyRepo port.HistoryRepository,
	txManager port.TransactionManager,
	params claim.InvoiceParams,
	clock Clock,
	logger Logger,
) HRService {
	return &hrServiceImpl{
		claimRepo:   claimRepo,
		invoiceRepo: invoiceRepo,
		historyRepo: historyRepo,
		txManager:   txManager,
		params:      params,
		clock:       clock,
		logger:      logger,
	}
}

func (s *hrServiceImpl) ProcessInvoice(ctx context.Context, actor claim.Identity, claimID int64) (*claim.Claim, *claim.Invoice, error) {
	if !actor.HasRole(claim.RoleHR) {
		return nil, nil, fmt.Errorf("%w: processing invoices requires the HR role", claim.ErrUnauthorized)
	}

	var processed *claim.Claim
	var invoice *claim.Invoice
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		c, err := s.claimRepo.GetByID(ctx, claimID)
		if err != nil {
			return err
		}

		inv, err := claim.GenerateInvoice(c, actor, s.clock.Now(), s.params)
		if err != nil {
			return err
		}

		c.UpdatedAt = *c.HRProcessedAt
		if err := s.claimRepo.Update(ctx, c); err != nil {
			return err
		}
		if err := s.invoiceRepo.Create(ctx, inv); err != nil {
			return err
		}
		if err := s.historyRepo.Append(ctx, &claim.HistoryEntry{
			ClaimID:        c.ID,
			ActorEmail:     actor.Email,
			Action:         claim.ActionProcessInvoice,
			PreviousStatus: c.Status,
			NewStatus:      c.Status,
			Comment:        inv.InvoiceNumber,
			CreatedAt:      inv.CreatedAt,
		}); err != nil {
			return err
		}
		processed = c
		invoice = inv
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("Invoice generated",
		"claim_id", processed.ID,
		"invoice_number", invoice.InvoiceNumber,
		"net_amount", invoice.NetAmount.String())
	return processed, invoice, nil
}

func (s *hrServiceImpl) BulkProcessInvoices(ctx context.Context, actor claim.Identity) (*BulkResult, error) {
	if !actor.HasRole(claim.RoleHR) {
		return nil, fmt.Errorf("%w: processing invoices requires the HR role", claim.ErrUnauthorized)
	}

	claims, err := s.claimRepo.ListApprovedUnprocessed(ctx)
	if err != nil {
		return nil, err
	}

	result := &BulkResult{}
	for _, c := range claims {
		// Each claim is its own transaction so one failure cannot
		// poison the rest of the batch
		if _, _, err := s.ProcessInvoice(ctx, actor, c.ID); err != nil {
			result.Failed++
			result.Failures = append(result.Failures, BulkFailure{ClaimID: c.ID, Reason: err.Error()})
			s.logger.Error("Bulk invoice generation skipped claim", "claim_id", c.ID, "error", err)
			continue
		}
		result.Succeeded++
	}

	s.logger.Info("Bulk invoice generation finished",
		"succeeded", result.Succeeded,
		"failed", result.Failed)
	return result, nil
}

func (s *hrServiceImpl) ListAwaitingProcessing(ctx context.Context, actor claim.Identity) ([]*claim.Claim, error) {
	if !actor.HasRole(claim.RoleHR) {
		return nil, fmt.Errorf("%w: the HR role is required", claim.ErrUnauthorized)
	}
	return s.claimRepo.ListApprovedUnprocessed(ctx)
}

func (s *hrServiceImpl) ListProcessed(ctx context.Context, actor claim.Identity, limit int) ([]*claim.Claim, error) {
	if !actor.HasRole(claim.RoleHR) {
		return nil, fmt.Errorf("%w: the HR role is required", claim.ErrUnauthorized)
	}
	return s.claimRepo.ListProcessed(ctx, limit)
}

func (s *hrServiceImpl) GetInvoice(ctx context.Context, actor claim.Identity, claimID int64) (*claim.Invoice, error) {
	if !actor.HasRole(claim.RoleHR) {
		return nil, fmt.Errorf("%w: the HR role is required", claim.ErrUnauthorized)
	}
	return s.invoiceRepo.GetByClaimID(ctx, claimID)
}

func (s *hrServiceImpl) Report(ctx context.Context, actor claim.Identity) (*Summary, error) {
	if !actor.HasRole(claim.RoleHR) {
		return nil, fmt.Errorf("%w: the HR role is required", claim.ErrUnauthorized)
	}

	stats, err := s.claimRepo.Stats(ctx)
	if err != nil {
		return nil, err
	}

	tax := stats.TotalProcessedAmount.Mul(s.params.TaxRate)
	return &Summary{
		ClaimStats:     *stats,
		TaxRate:        s.params.TaxRate,
		TotalTaxAmount: tax,
		TotalNetAmount: stats.TotalProcessedAmount.Sub(tax),
	}, nil
}
