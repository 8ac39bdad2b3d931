package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmcs/claimflow/internal/application/port"
	"github.com/cmcs/claimflow/internal/domain/claim"
	"github.com/cmcs/claimflow/internal/domain/workflow"
)

// ReviewService covers the Coordinator and Manager review operations
type ReviewService interface {
	// ListByStatus returns claims in the given status, newest submission first
	ListByStatus(ctx context.Context, actor claim.Identity, status workflow.State) ([]*claim.Claim, error)

	// ValidationReport runs the automated checks against a claim snapshot
	ValidationReport(ctx context.Context, actor claim.Identity, claimID int64) (*claim.ValidationReport, error)

	// Approve advances the claim one review stage according to the actor's role
	Approve(ctx context.Context, actor claim.Identity, claimID int64, comment string) (*claim.Claim, error)

	// Reject moves the claim to the terminal Rejected status
	Reject(ctx context.Context, actor claim.Identity, claimID int64, reason string) (*claim.Claim, error)
}

type reviewServiceImpl struct {
	claimRepo   port.ClaimRepository
	historyRepo port.HistoryRepository
	txManager   port.TransactionManager
	clock       Clock
	logger      Logger
}

// NewReviewService creates a new ReviewService
func NewReviewService(
	claimRepo port.ClaimRepository,
	historyRepo port.HistoryRepository,
	txManager port.TransactionManager,
	clock Clock,
	logger Logger,
) ReviewService {
	return &reviewServiceImpl{
		claimRepo:   claimRepo,
		historyRepo: historyRepo,
		txManager:   txManager,
		clock:       clock,
		logger:      logger,
	}
}

func (s *reviewServiceImpl) ListByStatus(ctx context.Context, actor claim.Identity, status workflow.State) ([]*claim.Claim, error) {
	if err := requireReviewer(actor); err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %s", workflow.ErrInvalidState, status)
	}
	return s.claimRepo.ListByStatus(ctx, status)
}

func (s *reviewServiceImpl) ValidationReport(ctx context.Context, actor claim.Identity, claimID int64) (*claim.ValidationReport, error) {
	if err := requireReviewer(actor); err != nil {
		return nil, err
	}
	c, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}
	return claim.GenerateValidationReport(c, s.clock.Now()), nil
}

// Approve records the coordinator stage for coordinators and the manager
// stage for managers. A manager approval on a claim the coordinator has not
// approved fails with ErrOutOfOrderTransition and leaves the claim untouched.
func (s *reviewServiceImpl) Approve(ctx context.Context, actor claim.Identity, claimID int64, comment string) (*claim.Claim, error) {
	var trigger workflow.Trigger
	var action string
	switch {
	case actor.HasRole(claim.RoleCoordinator):
		trigger = workflow.TriggerCoordinatorApprove
		action = claim.ActionCoordinatorApprove
	case actor.HasRole(claim.RoleManager):
		trigger = workflow.TriggerManagerApprove
		action = claim.ActionManagerApprove
	default:
		return nil, fmt.Errorf("%w: approving requires the coordinator or manager role", claim.ErrUnauthorized)
	}

	var approved *claim.Claim
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		c, err := s.claimRepo.GetByID(ctx, claimID)
		if err != nil {
			return err
		}

		machine := claim.NewMachine(c)
		if err := machine.Fire(ctx, trigger); err != nil {
			if errors.Is(err, workflow.ErrInvalidTransition) || errors.Is(err, workflow.ErrGuardFailed) {
				return fmt.Errorf("%w: %s on claim %d in status %s", claim.ErrOutOfOrderTransition, trigger, claimID, c.Status)
			}
			return err
		}

		now := s.clock.Now()
		previous := c.Status
		c.Status = machine.State()
		switch trigger {
		case workflow.TriggerCoordinatorApprove:
			c.CoordinatorName = actor.Email
			c.CoordinatorComment = strings.TrimSpace(comment)
			at := now
			c.CoordinatorAt = &at
		case workflow.TriggerManagerApprove:
			c.ManagerName = actor.Email
			// The manager comment is kept alongside the coordinator's, never replacing it
			c.ManagerComment = strings.TrimSpace(comment)
			at := now
			c.ManagerAt = &at
		}
		c.UpdatedAt = now

		if err := s.claimRepo.Update(ctx, c); err != nil {
			return err
		}
		if err := s.historyRepo.Append(ctx, &claim.HistoryEntry{
			ClaimID:        c.ID,
			ActorEmail:     actor.Email,
			Action:         action,
			PreviousStatus: previous,
			NewStatus:      c.Status,
			Comment:        strings.TrimSpace(comment),
			CreatedAt:      now,
		}); err != nil {
			return err
		}
		approved = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Claim approved",
		"claim_id", approved.ID,
		"stage", action,
		"reviewer", actor.Email,
		"status", approved.Status.String())
	return approved, nil
}

// Reject requires a non-empty reason and is terminal
func (s *reviewServiceImpl) Reject(ctx context.Context, actor claim.Identity, claimID int64, reason string) (*claim.Claim, error) {
	if !actor.HasRole(claim.RoleCoordinator) && !actor.HasRole(claim.RoleManager) {
		return nil, fmt.Errorf("%w: rejecting requires the coordinator or manager role", claim.ErrUnauthorized)
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: a rejection reason is required", claim.ErrMissingRequiredField)
	}

	var rejected *claim.Claim
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		c, err := s.claimRepo.GetByID(ctx, claimID)
		if err != nil {
			return err
		}

		machine := claim.NewMachine(c)
		if err := machine.Fire(ctx, workflow.TriggerReject); err != nil {
			return fmt.Errorf("%w: reject on claim %d in status %s", claim.ErrOutOfOrderTransition, claimID, c.Status)
		}

		now := s.clock.Now()
		previous := c.Status
		c.Status = machine.State()
		c.RejectedBy = actor.Email
		c.RejectionReason = reason
		at := now
		c.RejectedAt = &at
		c.UpdatedAt = now

		if err := s.claimRepo.Update(ctx, c); err != nil {
			return err
		}
		if err := s.historyRepo.Append(ctx, &claim.HistoryEntry{
			ClaimID:        c.ID,
			ActorEmail:     actor.Email,
			Action:         claim.ActionReject,
			PreviousStatus: previous,
			NewStatus:      c.Status,
			Comment:        reason,
			CreatedAt:      now,
		}); err != nil {
			return err
		}
		rejected = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Claim rejected", "claim_id", rejected.ID, "reviewer", actor.Email)
	return rejected, nil
}

func requireReviewer(actor claim.Identity) error {
	if actor.HasRole(claim.RoleCoordinator) || actor.HasRole(claim.RoleManager) || actor.HasRole(claim.RoleHR) {
		return nil
	}
	return fmt.Errorf("%w: a reviewer role is required", claim.ErrUnauthorized)
}
