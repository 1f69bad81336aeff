package models

// StepStatus is the lifecycle status of a single New Post Flow step.
type StepStatus string

const (
	StepPending    StepStatus = "pending"
	StepInProgress StepStatus = "in_progress"
	StepCompleted  StepStatus = "completed"
	StepSkipped    StepStatus = "skipped"
	StepError      StepStatus = "error"
)

var allStepStatuses = []StepStatus{StepPending, StepInProgress, StepCompleted, StepSkipped, StepError}

// AllStepStatuses returns every known step status in lifecycle order.
func AllStepStatuses() []StepStatus {
	out := make([]StepStatus, len(allStepStatuses))
	copy(out, allStepStatuses)
	return out
}

func (s StepStatus) Valid() bool {
	for _, v := range allStepStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Done reports whether the step no longer blocks the flow.
func (s StepStatus) Done() bool {
	return s == StepCompleted || s == StepSkipped
}

func (s StepStatus) Label() string {
	switch s {
	case StepPending:
		return "Pending"
	case StepInProgress:
		return "In Progress"
	case StepCompleted:
		return "Completed"
	case StepSkipped:
		return "Skipped"
	case StepError:
		return "Error"
	default:
		return "Unknown"
	}
}

// CardStatus maps a step status onto the status shown on progress cards,
// where an in-progress step is displayed as active.
func (s StepStatus) CardStatus() ProgressStatus {
	switch s {
	case StepInProgress:
		return ProgressActive
	case StepCompleted:
		return ProgressCompleted
	case StepSkipped:
		return ProgressSkipped
	case StepError:
		return ProgressError
	default:
		return ProgressPending
	}
}
