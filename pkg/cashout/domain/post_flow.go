package domain

import (
	"database/sql"
	"time"

	"github.com/pow3r/cashout/pkg/cashout/models"
)

// PostFlow is one run of the New Post Flow wizard.
type PostFlow struct {
	ID          int64
	ExternalID  string
	Status      models.ProgressStatus
	CurrentStep string
	StateVars   sql.NullString
	Version     int64
	Created     time.Time
	Modified    time.Time
	Steps       []WorkflowStep
}

// Step returns a pointer into Steps for the given key, or nil.
func (f *PostFlow) Step(key string) *WorkflowStep {
	for i := range f.Steps {
		if f.Steps[i].Key == key {
			return &f.Steps[i]
		}
	}
	return nil
}

type WorkflowStep struct {
	ID         int64
	FlowID     int64
	Key        string
	Title      string
	Status     models.StepStatus
	Order      int
	Started    sql.NullTime
	Completed  sql.NullTime
	AssignedTo sql.NullString
	Note       sql.NullString
}
