package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pow3r/cashout/pkg/cashout/domain"
)

type PostFlowRepository struct {
	db *sql.DB
}

const FLOW_COLUMNS = ` id, external_id, status, current_step, state_vars, version, created, modified `

const STEP_COLUMNS = ` id, flow_id, step_key, title, status, step_order, started, completed, assigned_to, note `

func NewPostFlowRepository(db *sql.DB) *PostFlowRepository {
	return &PostFlowRepository{db: db}
}

// Save inserts the flow and its steps in one transaction and returns the flow id.
func (r *PostFlowRepository) Save(ctx context.Context, f *domain.PostFlow) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	base := `INSERT INTO post_flows (
		external_id, status, current_step, state_vars, version, created, modified
	) VALUES (` + placeholders(1, 7) + `)`
	id, err := insertReturningID(ctx, tx, base,
		f.ExternalID, f.Status, f.CurrentStep, f.StateVars, f.Version,
		formatDateInDatabase(f.Created), formatDateInDatabase(f.Modified))
	if err != nil {
		slog.ErrorContext(ctx, "Failed to save post flow", "externalId", f.ExternalID, "error", err)
		return 0, err
	}

	for i := range f.Steps {
		s := &f.Steps[i]
		s.FlowID = id
		stepBase := `INSERT INTO post_flow_steps (
			flow_id, step_key, title, status, step_order, started, completed, assigned_to, note
		) VALUES (` + placeholders(1, 9) + `)`
		s.ID, err = insertReturningID(ctx, tx, stepBase,
			s.FlowID, s.Key, s.Title, s.Status, s.Order,
			formatDateInDatabaseNull(s.Started), formatDateInDatabaseNull(s.Completed), s.AssignedTo, s.Note)
		if err != nil {
			return 0, fmt.Errorf("save step %s: %w", s.Key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	f.ID = id
	return id, nil
}

func (r *PostFlowRepository) FindByID(ctx context.Context, id int64) (*domain.PostFlow, error) {
	query := `SELECT ` + FLOW_COLUMNS + ` FROM post_flows WHERE id = ` + placeholder(1)
	return r.findOne(ctx, query, id)
}

func (r *PostFlowRepository) FindByExternalID(ctx context.Context, externalID string) (*domain.PostFlow, error) {
	query := `SELECT ` + FLOW_COLUMNS + ` FROM post_flows WHERE external_id = ` + placeholder(1)
	return r.findOne(ctx, query, externalID)
}

func (r *PostFlowRepository) findOne(ctx context.Context, query string, arg any) (*domain.PostFlow, error) {
	f, err := scanFlow(r.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	f.Steps, err = r.findSteps(ctx, f.ID)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// List returns flows newest first, each with its steps.
func (r *PostFlowRepository) List(ctx context.Context, limit, offset int) ([]domain.PostFlow, error) {
	query := `
		SELECT ` + FLOW_COLUMNS + `
		FROM post_flows
		ORDER BY id DESC
		LIMIT ` + placeholder(1) + ` OFFSET ` + placeholder(2)
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	flows := make([]domain.PostFlow, 0)
	for rows.Next() {
		f, err := scanFlow(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		flows = append(flows, *f)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	// the rows must be released before the step queries on a single connection pool
	rows.Close()

	for i := range flows {
		flows[i].Steps, err = r.findSteps(ctx, flows[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return flows, nil
}

// Update writes the flow and its steps when the stored version still matches.
func (r *PostFlowRepository) Update(ctx context.Context, f *domain.PostFlow, expectedVersion int64) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	query := `
		UPDATE post_flows
		SET status = ` + placeholder(1) + `, current_step = ` + placeholder(2) + `, state_vars = ` + placeholder(3) + `,
		    modified = ` + placeholder(4) + `, version = version + 1
		WHERE id = ` + placeholder(5) + ` AND version = ` + placeholder(6)
	res, err := tx.ExecContext(ctx, query,
		f.Status, f.CurrentStep, f.StateVars, formatDateInDatabase(f.Modified), f.ID, expectedVersion)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		slog.WarnContext(ctx, "Post flow version changed", "flow_id", f.ID, "expected", expectedVersion)
		return false, nil
	}

	stepQuery := `
		UPDATE post_flow_steps
		SET status = ` + placeholder(1) + `, started = ` + placeholder(2) + `, completed = ` + placeholder(3) + `,
		    assigned_to = ` + placeholder(4) + `, note = ` + placeholder(5) + `
		WHERE flow_id = ` + placeholder(6) + ` AND step_key = ` + placeholder(7)
	for _, s := range f.Steps {
		if _, err := tx.ExecContext(ctx, stepQuery,
			s.Status, formatDateInDatabaseNull(s.Started), formatDateInDatabaseNull(s.Completed),
			s.AssignedTo, s.Note, f.ID, s.Key); err != nil {
			return false, fmt.Errorf("update step %s: %w", s.Key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

func (r *PostFlowRepository) findSteps(ctx context.Context, flowID int64) ([]domain.WorkflowStep, error) {
	query := `
		SELECT ` + STEP_COLUMNS + `
		FROM post_flow_steps
		WHERE flow_id = ` + placeholder(1) + `
		ORDER BY step_order ASC`
	rows, err := r.db.QueryContext(ctx, query, flowID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	steps := make([]domain.WorkflowStep, 0, 5)
	for rows.Next() {
		var s domain.WorkflowStep
		if err := rows.Scan(
			&s.ID,
			&s.FlowID,
			&s.Key,
			&s.Title,
			&s.Status,
			&s.Order,
			&s.Started,
			&s.Completed,
			&s.AssignedTo,
			&s.Note,
		); err != nil {
			return nil, err
		}
		s.Started = utcNull(s.Started)
		s.Completed = utcNull(s.Completed)
		steps = append(steps, s)
	}
	return steps, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFlow(row rowScanner) (*domain.PostFlow, error) {
	var f domain.PostFlow
	err := row.Scan(
		&f.ID,
		&f.ExternalID,
		&f.Status,
		&f.CurrentStep,
		&f.StateVars,
		&f.Version,
		&f.Created,
		&f.Modified,
	)
	if err != nil {
		return nil, err
	}
	f.Created = utc(f.Created)
	f.Modified = utc(f.Modified)
	return &f, nil
}
