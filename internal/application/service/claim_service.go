package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cmcs/claimflow/internal/application/port"
	"github.com/cmcs/claimflow/internal/domain/claim"
	"github.com/cmcs/claimflow/internal/domain/workflow"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// SubmitClaimInput carries a lecturer's claim submission. Document is the
// already-stored upload, if any; rate may be zero to fall back to the
// lecturer's default hourly rate.
type SubmitClaimInput struct {
	HoursWorked decimal.Decimal
	HourlyRate  decimal.Decimal
	Notes       string
	Document    *claim.Document
}

// ClaimService covers the lecturer-facing operations
type ClaimService interface {
	Submit(ctx context.Context, actor claim.Identity, input SubmitClaimInput) (*claim.Claim, error)
	GetClaim(ctx context.Context, actor claim.Identity, id int64) (*claim.Claim, error)
	ListOwn(ctx context.Context, actor claim.Identity) ([]*claim.Claim, error)
	History(ctx context.Context, actor claim.Identity, claimID int64) ([]*claim.HistoryEntry, error)
}

type claimServiceImpl struct {
	claimRepo    port.ClaimRepository
	lecturerRepo port.LecturerRepository
	historyRepo  port.HistoryRepository
	txManager    port.TransactionManager
	clock        Clock
	logger       Logger
}

// NewClaimService creates a new ClaimService
func NewClaimService(
	claimRepo port.ClaimRepository,
	lecturerRepo port.LecturerRepository,
	historyRepo port.HistoryRepository,
	txManager port.TransactionManager,
	clock Clock,
	logger Logger,
) ClaimService {
	return &claimServiceImpl{
		claimRepo:    claimRepo,
		lecturerRepo: lecturerRepo,
		historyRepo:  historyRepo,
		txManager:    txManager,
		clock:        clock,
		logger:       logger,
	}
}

// Submit validates and stores a new claim in Pending status
func (s *claimServiceImpl) Submit(ctx context.Context, actor claim.Identity, input SubmitClaimInput) (*claim.Claim, error) {
	if !actor.HasRole(claim.RoleLecturer) {
		return nil, fmt.Errorf("%w: submitting a claim requires the lecturer role", claim.ErrUnauthorized)
	}

	rate := input.HourlyRate
	if rate.IsZero() {
		lecturer, err := s.lecturerRepo.GetByUserID(ctx, actor.UserID)
		if err == nil && lecturer != nil {
			rate = lecturer.DefaultHourlyRate
		}
	}

	now := s.clock.Now()
	c := &claim.Claim{
		LecturerID:    actor.UserID,
		LecturerName:  actor.Name,
		LecturerEmail: actor.Email,
		HoursWorked:   input.HoursWorked,
		HourlyRate:    rate,
		Notes:         strings.TrimSpace(input.Notes),
		SubmittedAt:   now,
		Status:        workflow.StatePending,
		Document:      input.Document,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	c.CalculateTotalAmount()

	if ok, msg := c.ValidateRules(); !ok {
		return nil, fmt.Errorf("%w: %s", claim.ErrValidationFailed, msg)
	}

	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.claimRepo.Create(ctx, c); err != nil {
			return err
		}
		return s.historyRepo.Append(ctx, &claim.HistoryEntry{
			ClaimID:        c.ID,
			ActorEmail:     actor.Email,
			Action:         claim.ActionSubmit,
			PreviousStatus: "",
			NewStatus:      workflow.StatePending,
			CreatedAt:      now,
		})
	})
	if err != nil {
		s.logger.Error("Failed to submit claim", "lecturer_id", actor.UserID, "error", err)
		return nil, err
	}

	s.logger.Info("Claim submitted",
		"claim_id", c.ID,
		"lecturer_id", c.LecturerID,
		"total_amount", c.TotalAmount.String())
	return c, nil
}

// GetClaim returns a single claim. Lecturers may only see their own claims;
// reviewer and HR roles may see any claim.
func (s *claimServiceImpl) GetClaim(ctx context.Context, actor claim.Identity, id int64) (*claim.Claim, error) {
	c, err := s.claimRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if actor.HasRole(claim.RoleCoordinator) || actor.HasRole(claim.RoleManager) || actor.HasRole(claim.RoleHR) {
		return c, nil
	}
	if actor.HasRole(claim.RoleLecturer) && c.LecturerID == actor.UserID {
		return c, nil
	}
	return nil, fmt.Errorf("%w: claim %d belongs to another lecturer", claim.ErrUnauthorized, id)
}

// ListOwn returns the actor's claims, newest first
func (s *claimServiceImpl) ListOwn(ctx context.Context, actor claim.Identity) ([]*claim.Claim, error) {
	if !actor.HasRole(claim.RoleLecturer) {
		return nil, fmt.Errorf("%w: listing own claims requires the lecturer role", claim.ErrUnauthorized)
	}
	return s.claimRepo.ListByLecturer(ctx, actor.UserID)
}

// History returns the audit trail for a claim
func (s *claimServiceImpl) History(ctx context.Context, actor claim.Identity, claimID int64) ([]*claim.HistoryEntry, error) {
	if _, err := s.GetClaim(ctx, actor, claimID); err != nil {
		return nil, err
	}
	return s.historyRepo.ListByClaim(ctx, claimID)
}
