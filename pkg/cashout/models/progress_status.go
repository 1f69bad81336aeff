package models

// ProgressStatus is the status rendered on workflow cards and progress bars.
// A post flow moves pending -> active -> completed or error.
type ProgressStatus string

const (
	ProgressPending   ProgressStatus = "pending"
	ProgressActive    ProgressStatus = "active"
	ProgressCompleted ProgressStatus = "completed"
	ProgressSkipped   ProgressStatus = "skipped"
	ProgressError     ProgressStatus = "error"
)

func (s ProgressStatus) Label() string {
	switch s {
	case ProgressPending:
		return "Pending"
	case ProgressActive:
		return "Active"
	case ProgressCompleted:
		return "Completed"
	case ProgressSkipped:
		return "Skipped"
	case ProgressError:
		return "Error"
	default:
		return "Unknown"
	}
}

func (s ProgressStatus) BadgeClass() string {
	switch s {
	case ProgressActive:
		return "badge badge-active"
	case ProgressCompleted:
		return "badge badge-done"
	case ProgressSkipped:
		return "badge badge-skipped"
	case ProgressError:
		return "badge badge-error"
	default:
		return "badge badge-pending"
	}
}
