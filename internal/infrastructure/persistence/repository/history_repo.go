package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/cmcs/claimflow/internal/application/port"
	"github.com/cmcs/claimflow/internal/domain/claim"
	"github.com/cmcs/claimflow/internal/domain/workflow"
)

// HistoryRepository implements port.HistoryRepository on sqlite
type HistoryRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *sql.DB, logger *zap.Logger) port.HistoryRepository {
	return &HistoryRepository{db: db, logger: logger}
}

// Append adds an audit-trail entry for a claim transition
func (r *HistoryRepository) Append(ctx context.Context, entry *claim.HistoryEntry) error {
	query := `
		INSERT INTO claim_history (
			claim_id, actor_email, action, previous_status, new_status, comment, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		entry.ClaimID, entry.ActorEmail, entry.Action,
		nullStr(entry.PreviousStatus.String()), entry.NewStatus.String(),
		nullStr(entry.Comment), entry.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to append claim history", zap.Int64("claim_id", entry.ClaimID), zap.Error(err))
		return fmt.Errorf("failed to append claim history: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	entry.ID = id
	return nil
}

// ListByClaim returns the audit trail for a claim, oldest first
func (r *HistoryRepository) ListByClaim(ctx context.Context, claimID int64) ([]*claim.HistoryEntry, error) {
	query := `
		SELECT id, claim_id, actor_email, action, previous_status, new_status, comment, created_at
		FROM claim_history
		WHERE claim_id = ?
		ORDER BY created_at ASC, id ASC
	`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, claimID)
	if err != nil {
		return nil, fmt.Errorf("failed to list claim history: %w", err)
	}
	defer rows.Close()

	var entries []*claim.HistoryEntry
	for rows.Next() {
		var e claim.HistoryEntry
		var previous, comment sql.NullString
		var newStatus string
		if err := rows.Scan(&e.ID, &e.ClaimID, &e.ActorEmail, &e.Action, &previous, &newStatus, &comment, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.PreviousStatus = workflow.State(previous.String)
		e.NewStatus = workflow.State(newStatus)
		e.Comment = comment.String
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
