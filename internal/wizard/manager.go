package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/pow3r/cashout/pkg/cashout/core"
	"github.com/pow3r/cashout/pkg/cashout/domain"
	"github.com/pow3r/cashout/pkg/cashout/models"
)

// Action types recorded in the flow audit trail.
const (
	ActionCreated    = "CREATED"
	ActionCompleted  = "COMPLETED"
	ActionSkipped    = "SKIPPED"
	ActionFailed     = "FAILED"
	ActionRetried    = "RETRIED"
	ActionWentBack   = "WENT_BACK"
	ActionManual     = "MANUAL"
	ActionStateVar   = "STATE_VAR"
	ActionAssigned   = "ASSIGNED"
	ActionGarage     = "GARAGE"
	ActionTransition = "TRANSITION"
)

// Manager runs the New Post Flow state machine against the repositories.
type Manager struct {
	FlowRepo   FlowRepo
	ActionRepo FlowActionRepo
	GarageRepo GarageRepo
	clock      core.Clock
}

func NewManager(flowRepo FlowRepo, actionRepo FlowActionRepo, garageRepo GarageRepo, clock core.Clock) *Manager {
	if clock == nil {
		clock = core.NewRealClock()
	}
	return &Manager{FlowRepo: flowRepo, ActionRepo: actionRepo, GarageRepo: garageRepo, clock: clock}
}

// StartFlow creates a new flow. An existing flow with the same external id is
// returned unchanged.
func (m *Manager) StartFlow(ctx context.Context, externalID string, vars map[string]string) (*domain.PostFlow, error) {
	if externalID == "" {
		externalID = uuid.NewString()
	} else {
		existing, err := m.FlowRepo.FindByExternalID(ctx, externalID)
		if err != nil {
			return nil, fmt.Errorf("find flow by external id: %w", err)
		}
		if existing != nil {
			slog.WarnContext(ctx, "Post flow already exists", "externalId", externalID)
			return existing, nil
		}
	}

	now := m.clock.Now().UTC()
	f := NewPostFlow(externalID, vars, now)
	id, err := m.FlowRepo.Save(ctx, f)
	if err != nil {
		// a concurrent create with the same external id wins the unique key
		if existing, findErr := m.FlowRepo.FindByExternalID(ctx, externalID); findErr == nil && existing != nil {
			slog.WarnContext(ctx, "Post flow already exists", "externalId", externalID)
			return existing, nil
		}
		return nil, fmt.Errorf("save flow: %w", err)
	}
	f.ID = id
	slog.InfoContext(ctx, "Started post flow", "flow_id", id, "externalId", externalID)
	m.record(ctx, f.ID, f.CurrentStep, ActionCreated, "Post flow created")
	return f, nil
}

func (m *Manager) GetFlow(ctx context.Context, id int64) (*domain.PostFlow, error) {
	f, err := m.FlowRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find flow %d: %w", id, err)
	}
	if f == nil {
		return nil, fmt.Errorf("%w: %d", ErrFlowNotFound, id)
	}
	return f, nil
}

// GetFlowByRef resolves a numeric id first and falls back to the external id.
func (m *Manager) GetFlowByRef(ctx context.Context, ref string) (*domain.PostFlow, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		f, err := m.FlowRepo.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("find flow %d: %w", id, err)
		}
		if f != nil {
			return f, nil
		}
	}
	f, err := m.FlowRepo.FindByExternalID(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("find flow %s: %w", ref, err)
	}
	if f == nil {
		return nil, fmt.Errorf("%w: %s", ErrFlowNotFound, ref)
	}
	return f, nil
}

func (m *Manager) ListFlows(ctx context.Context, limit, offset int) ([]domain.PostFlow, error) {
	return m.FlowRepo.List(ctx, limit, offset)
}

func (m *Manager) Actions(ctx context.Context, flowID int64) ([]domain.FlowAction, error) {
	return m.ActionRepo.FindAllByFlowID(ctx, flowID)
}

// Complete finishes the current step. Completing confirm stores the listing
// in the garage before the step is committed.
func (m *Manager) Complete(ctx context.Context, ref string, key string, vars map[string]string) (*domain.PostFlow, error) {
	var garageNote string
	f, err := m.apply(ctx, ref, key, ActionCompleted, "Completed step "+key, func(f *domain.PostFlow, now time.Time) error {
		if err := Complete(f, key, vars, now); err != nil {
			return err
		}
		if key != StepConfirm {
			return nil
		}
		note, err := m.postToGarage(ctx, f, now)
		garageNote = note
		return err
	})
	if err != nil {
		return nil, err
	}
	if garageNote != "" {
		m.record(ctx, f.ID, StepConfirm, ActionGarage, garageNote)
	}
	return f, nil
}

func (m *Manager) Skip(ctx context.Context, ref string, key string) (*domain.PostFlow, error) {
	return m.apply(ctx, ref, key, ActionSkipped, "Skipped step "+key, func(f *domain.PostFlow, now time.Time) error {
		return Skip(f, key, now)
	})
}

func (m *Manager) Fail(ctx context.Context, ref string, key string, reason string) (*domain.PostFlow, error) {
	return m.apply(ctx, ref, key, ActionFailed, "Step "+key+" failed: "+reason, func(f *domain.PostFlow, now time.Time) error {
		return Fail(f, key, reason, now)
	})
}

func (m *Manager) Retry(ctx context.Context, ref string, key string) (*domain.PostFlow, error) {
	return m.apply(ctx, ref, key, ActionRetried, "Retrying step "+key, func(f *domain.PostFlow, now time.Time) error {
		return Retry(f, key, now)
	})
}

func (m *Manager) GoTo(ctx context.Context, ref string, key string) (*domain.PostFlow, error) {
	return m.apply(ctx, ref, key, ActionWentBack, "Went back to step "+key, func(f *domain.PostFlow, now time.Time) error {
		return GoTo(f, key, now)
	})
}

// SetStatus is the unvalidated manual override.
func (m *Manager) SetStatus(ctx context.Context, ref string, key string, status models.StepStatus) (*domain.PostFlow, error) {
	return m.apply(ctx, ref, key, ActionManual, "User manually changed step "+key+" to "+string(status), func(f *domain.PostFlow, now time.Time) error {
		return SetStatus(f, key, status, now)
	})
}

func (m *Manager) Assign(ctx context.Context, ref string, key string, assignee string) (*domain.PostFlow, error) {
	return m.apply(ctx, ref, key, ActionAssigned, "Assigned step "+key+" to "+assignee, func(f *domain.PostFlow, now time.Time) error {
		return Assign(f, key, assignee, now)
	})
}

// UpdateStateVar upserts a single state variable without touching the steps.
func (m *Manager) UpdateStateVar(ctx context.Context, ref string, key string, value string) (*domain.PostFlow, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: key is required", ErrValidation)
	}
	return m.apply(ctx, ref, "", ActionStateVar, "Updated state var: "+key, func(f *domain.PostFlow, now time.Time) error {
		vars := Vars(f)
		vars[key] = value
		SetVars(f, vars)
		f.Modified = now
		return nil
	})
}

func (m *Manager) Garage(ctx context.Context, limit, offset int) ([]domain.GarageItem, error) {
	return m.GarageRepo.List(ctx, limit, offset)
}

func (m *Manager) GarageItem(ctx context.Context, id int64) (*domain.GarageItem, error) {
	return m.GarageRepo.FindByID(ctx, id)
}

// apply loads a flow, runs fn and writes the result guarded by the version
// that was read.
func (m *Manager) apply(ctx context.Context, ref string, stepKey string, actionType string, text string, fn func(f *domain.PostFlow, now time.Time) error) (*domain.PostFlow, error) {
	f, err := m.GetFlowByRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	from := f.CurrentStep
	expected := f.Version
	now := m.clock.Now().UTC()
	if err := fn(f, now); err != nil {
		if IsClientError(err) {
			slog.WarnContext(ctx, "Post flow action rejected", "flow_id", f.ID, "step", stepKey, "action", actionType, "error", err)
		} else {
			slog.ErrorContext(ctx, "Post flow action failed", "flow_id", f.ID, "step", stepKey, "action", actionType, "error", err)
		}
		return nil, err
	}
	ok, err := m.FlowRepo.Update(ctx, f, expected)
	if err != nil {
		return nil, fmt.Errorf("update flow %d: %w", f.ID, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrConflict, f.ID)
	}
	f.Version = expected + 1
	slog.InfoContext(ctx, "Post flow updated", "flow_id", f.ID, "action", actionType, "step", stepKey, "status", f.Status, "current", f.CurrentStep)
	m.record(ctx, f.ID, stepKey, actionType, text)
	if from != f.CurrentStep {
		m.record(ctx, f.ID, from, ActionTransition, "From "+orNone(from)+" to "+orNone(f.CurrentStep))
	}
	return f, nil
}

// postToGarage stores the listing unless an identical one is already there,
// and returns the audit text for it.
func (m *Manager) postToGarage(ctx context.Context, f *domain.PostFlow, now time.Time) (string, error) {
	item := GarageItemFromFlow(f, now)
	existing, err := m.GarageRepo.FindByFingerprint(ctx, item.Fingerprint)
	if err != nil {
		return "", fmt.Errorf("find garage item: %w", err)
	}
	if existing == nil {
		id, err := m.GarageRepo.Save(ctx, item)
		if err == nil {
			slog.InfoContext(ctx, "Listing posted to garage", "flow_id", f.ID, "garage_id", id)
			return "Posted to garage as item " + strconv.FormatInt(id, 10), nil
		}
		// a concurrent confirm of the same listing wins the unique fingerprint
		existing, _ = m.GarageRepo.FindByFingerprint(ctx, item.Fingerprint)
		if existing == nil {
			return "", fmt.Errorf("save garage item: %w", err)
		}
	}
	slog.WarnContext(ctx, "Listing already in garage", "flow_id", f.ID, "garage_id", existing.ID)
	return "Listing already in garage as item " + strconv.FormatInt(existing.ID, 10), nil
}

func (m *Manager) record(ctx context.Context, flowID int64, stepKey, actionType, text string) {
	_, err := m.ActionRepo.Save(ctx, &domain.FlowAction{
		FlowID:   flowID,
		StepKey:  stepKey,
		Type:     actionType,
		Text:     text,
		DateTime: m.clock.Now().UTC(),
	})
	if err != nil {
		slog.ErrorContext(ctx, "Failed to save flow action", "flow_id", flowID, "type", actionType, "error", err)
	}
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

// IsClientError reports whether err is caused by the request rather than storage.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidTransition) || errors.Is(err, ErrStepNotCurrent) ||
		errors.Is(err, ErrValidation) || errors.Is(err, ErrStepNotFound)
}
