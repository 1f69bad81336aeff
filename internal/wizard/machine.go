package wizard

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/pow3r/cashout/pkg/cashout/domain"
	"github.com/pow3r/cashout/pkg/cashout/models"
)

// transitions lists the step status changes the guided actions may make.
// SetStatus bypasses this table on purpose.
var transitions = map[models.StepStatus][]models.StepStatus{
	models.StepPending:    {models.StepInProgress},
	models.StepInProgress: {models.StepCompleted, models.StepSkipped, models.StepError},
	models.StepError:      {models.StepInProgress},
	models.StepCompleted:  {models.StepInProgress},
	models.StepSkipped:    {models.StepInProgress},
}

// Transitions returns a copy of the guided transition table.
func Transitions() map[models.StepStatus][]models.StepStatus {
	out := make(map[models.StepStatus][]models.StepStatus, len(transitions))
	for from, tos := range transitions {
		out[from] = append([]models.StepStatus(nil), tos...)
	}
	return out
}

func canTransition(from, to models.StepStatus) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

func transition(step *domain.WorkflowStep, to models.StepStatus) error {
	if !canTransition(step.Status, to) {
		return fmt.Errorf("%w: %s from %s to %s", ErrInvalidTransition, step.Key, step.Status, to)
	}
	step.Status = to
	return nil
}

// NewPostFlow builds a flow with the five fixed steps. The first step is in
// progress, the rest are pending.
func NewPostFlow(externalID string, vars map[string]string, now time.Time) *domain.PostFlow {
	f := &domain.PostFlow{
		ExternalID: externalID,
		Status:     models.ProgressPending,
		Created:    now,
		Modified:   now,
	}
	for _, d := range definitions {
		f.Steps = append(f.Steps, domain.WorkflowStep{
			Key:    d.Key,
			Title:  d.Title,
			Status: models.StepPending,
			Order:  d.Order,
		})
	}
	if len(vars) > 0 {
		SetVars(f, vars)
	}
	first := &f.Steps[0]
	first.Status = models.StepInProgress
	first.Started = sql.NullTime{Time: now, Valid: true}
	derive(f)
	return f
}

// Vars decodes the flow state variables.
func Vars(f *domain.PostFlow) map[string]string {
	vars := map[string]string{}
	if f.StateVars.Valid && f.StateVars.String != "" && f.StateVars.String != "null" {
		if err := json.Unmarshal([]byte(f.StateVars.String), &vars); err != nil {
			slog.Error("Error parsing state vars", "flow_id", f.ID, "error", err)
		}
	}
	return vars
}

func SetVars(f *domain.PostFlow, vars map[string]string) {
	b, err := json.Marshal(vars)
	if err != nil {
		// map[string]string always marshals
		panic(err)
	}
	f.StateVars = sql.NullString{String: string(b), Valid: true}
}

func mergeVars(f *domain.PostFlow, vars map[string]string) map[string]string {
	merged := Vars(f)
	for k, v := range vars {
		merged[k] = v
	}
	return merged
}

func currentStep(f *domain.PostFlow, key string) (*domain.WorkflowStep, error) {
	step := f.Step(key)
	if step == nil {
		return nil, fmt.Errorf("%w: %s", ErrStepNotFound, key)
	}
	if f.CurrentStep != key {
		return nil, fmt.Errorf("%w: %s (current is %q)", ErrStepNotCurrent, key, f.CurrentStep)
	}
	return step, nil
}

// Complete finishes the current step, merges vars into the flow state and
// starts the next pending step.
func Complete(f *domain.PostFlow, key string, vars map[string]string, now time.Time) error {
	step, err := currentStep(f, key)
	if err != nil {
		return err
	}
	merged := mergeVars(f, vars)
	def, _ := Definition(key)
	if err := def.Validate(merged); err != nil {
		return err
	}
	if err := transition(step, models.StepCompleted); err != nil {
		return err
	}
	if p, err := NormalizePrice(merged[VarPrice]); err == nil {
		merged[VarPrice] = p
	}
	SetVars(f, merged)
	step.Completed = sql.NullTime{Time: now, Valid: true}
	step.Note = sql.NullString{}
	advance(f, now)
	return nil
}

// Skip passes over an optional current step.
func Skip(f *domain.PostFlow, key string, now time.Time) error {
	step, err := currentStep(f, key)
	if err != nil {
		return err
	}
	if def, _ := Definition(key); !def.Optional {
		return fmt.Errorf("%w: %s is not optional", ErrInvalidTransition, key)
	}
	if err := transition(step, models.StepSkipped); err != nil {
		return err
	}
	step.Completed = sql.NullTime{Time: now, Valid: true}
	advance(f, now)
	return nil
}

// Fail marks the current step as errored; the flow stops until Retry.
func Fail(f *domain.PostFlow, key string, reason string, now time.Time) error {
	step, err := currentStep(f, key)
	if err != nil {
		return err
	}
	if err := transition(step, models.StepError); err != nil {
		return err
	}
	if reason != "" {
		step.Note = sql.NullString{String: reason, Valid: true}
	}
	f.Modified = now
	derive(f)
	return nil
}

// Retry puts an errored step back in progress.
func Retry(f *domain.PostFlow, key string, now time.Time) error {
	step := f.Step(key)
	if step == nil {
		return fmt.Errorf("%w: %s", ErrStepNotFound, key)
	}
	if step.Status != models.StepError {
		return fmt.Errorf("%w: %s is %s, not error", ErrInvalidTransition, key, step.Status)
	}
	if err := transition(step, models.StepInProgress); err != nil {
		return err
	}
	step.Note = sql.NullString{}
	step.Started = sql.NullTime{Time: now, Valid: true}
	f.Modified = now
	derive(f)
	return nil
}

// GoTo reopens an earlier completed or skipped step. Every later step is
// reset to pending.
func GoTo(f *domain.PostFlow, key string, now time.Time) error {
	step := f.Step(key)
	if step == nil {
		return fmt.Errorf("%w: %s", ErrStepNotFound, key)
	}
	if !step.Status.Done() {
		return fmt.Errorf("%w: cannot go back to %s while it is %s", ErrInvalidTransition, key, step.Status)
	}
	if cur := f.Step(f.CurrentStep); cur != nil && step.Order >= cur.Order {
		return fmt.Errorf("%w: %s is not before the current step %s", ErrInvalidTransition, key, cur.Key)
	}
	if err := transition(step, models.StepInProgress); err != nil {
		return err
	}
	step.Started = sql.NullTime{Time: now, Valid: true}
	step.Completed = sql.NullTime{}
	for i := range f.Steps {
		s := &f.Steps[i]
		if s.Order > step.Order {
			s.Status = models.StepPending
			s.Started = sql.NullTime{}
			s.Completed = sql.NullTime{}
			s.Note = sql.NullString{}
		}
	}
	f.Modified = now
	derive(f)
	return nil
}

// SetStatus overwrites a step status without checking the transition table.
// Only the status value itself must be known.
func SetStatus(f *domain.PostFlow, key string, status models.StepStatus, now time.Time) error {
	step := f.Step(key)
	if step == nil {
		return fmt.Errorf("%w: %s", ErrStepNotFound, key)
	}
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	step.Status = status
	switch status {
	case models.StepInProgress:
		step.Started = sql.NullTime{Time: now, Valid: true}
		step.Completed = sql.NullTime{}
	case models.StepCompleted, models.StepSkipped:
		step.Completed = sql.NullTime{Time: now, Valid: true}
	case models.StepPending:
		step.Started = sql.NullTime{}
		step.Completed = sql.NullTime{}
	}
	f.Modified = now
	derive(f)
	return nil
}

// Assign records who is working on a step.
func Assign(f *domain.PostFlow, key string, assignee string, now time.Time) error {
	step := f.Step(key)
	if step == nil {
		return fmt.Errorf("%w: %s", ErrStepNotFound, key)
	}
	step.AssignedTo = sql.NullString{String: assignee, Valid: assignee != ""}
	f.Modified = now
	return nil
}

// advance starts the first pending step, if any, and re-derives the flow.
func advance(f *domain.PostFlow, now time.Time) {
	for i := range f.Steps {
		s := &f.Steps[i]
		if s.Status == models.StepPending {
			s.Status = models.StepInProgress
			s.Started = sql.NullTime{Time: now, Valid: true}
			break
		}
	}
	f.Modified = now
	derive(f)
}

// derive recomputes the flow status and current step from the steps.
func derive(f *domain.PostFlow) {
	var inProgress, errored, firstPending *domain.WorkflowStep
	done, pending := 0, 0
	for i := range f.Steps {
		s := &f.Steps[i]
		switch s.Status {
		case models.StepError:
			if errored == nil {
				errored = s
			}
		case models.StepInProgress:
			if inProgress == nil {
				inProgress = s
			}
		case models.StepPending:
			pending++
			if firstPending == nil {
				firstPending = s
			}
		default:
			done++
		}
	}
	switch {
	case errored != nil:
		f.Status = models.ProgressError
		f.CurrentStep = errored.Key
	case inProgress != nil:
		f.Status = models.ProgressActive
		f.CurrentStep = inProgress.Key
	case done == len(f.Steps):
		f.Status = models.ProgressCompleted
		f.CurrentStep = ""
	case pending == len(f.Steps):
		f.Status = models.ProgressPending
		f.CurrentStep = ""
	default:
		f.Status = models.ProgressActive
		f.CurrentStep = firstPending.Key
	}
}
