package wizard

import "errors"

var (
	ErrFlowNotFound      = errors.New("post flow not found")
	ErrStepNotFound      = errors.New("step not found")
	ErrInvalidTransition = errors.New("invalid step transition")
	ErrStepNotCurrent    = errors.New("step is not the current step")
	ErrValidation        = errors.New("validation failed")
	ErrConflict          = errors.New("post flow was modified concurrently")
)
