package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/pow3r/cashout/pkg/cashout/domain"
)

// FlowActionRepository provides methods to persist and query the flow audit trail.
type FlowActionRepository struct {
	db *sql.DB
}

func NewFlowActionRepository(db *sql.DB) *FlowActionRepository {
	return &FlowActionRepository{db: db}
}

// Save inserts a new flow action and returns its ID.
func (r *FlowActionRepository) Save(ctx context.Context, a *domain.FlowAction) (int64, error) {
	base := `
		INSERT INTO flow_actions (
			flow_id, step_key, type, text, date_time
		) VALUES (` + placeholders(1, 5) + `)`
	id, err := insertReturningID(ctx, r.db, base, a.FlowID, a.StepKey, a.Type, a.Text, formatDateInDatabase(a.DateTime))
	if err != nil {
		slog.ErrorContext(ctx, "Failed to save flow action", "error", err)
		return 0, err
	}
	a.ID = id
	return id, nil
}

// FindAllByFlowID returns the actions of a flow, oldest first.
func (r *FlowActionRepository) FindAllByFlowID(ctx context.Context, flowID int64) ([]domain.FlowAction, error) {
	query := `
		SELECT id, flow_id, step_key, type, text, date_time
		FROM flow_actions
		WHERE flow_id = ` + placeholder(1) + `
		ORDER BY id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, flowID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	actions := make([]domain.FlowAction, 0)
	for rows.Next() {
		var a domain.FlowAction
		if err := rows.Scan(
			&a.ID,
			&a.FlowID,
			&a.StepKey,
			&a.Type,
			&a.Text,
			&a.DateTime,
		); err != nil {
			return nil, err
		}
		a.DateTime = utc(a.DateTime)
		actions = append(actions, a)
	}
	return actions, rows.Err()
}
