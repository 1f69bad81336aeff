package models

import "time"

// CreatePostFlowRequest is the payload for starting a New Post Flow.
// Both fields are optional; a random external id is generated when empty.
type CreatePostFlowRequest struct {
	ExternalID string            `json:"externalId"`
	StateVars  map[string]string `json:"stateVars"`
}

type CreatePostFlowResponse struct {
	ID         int64  `json:"id"`
	ExternalID string `json:"externalId"`
}

// StepActionRequest carries the optional inputs of a step action. Vars are
// merged into the flow state on complete, Reason is recorded on fail,
// AssignedTo is read by assign and Status only by the manual status override.
type StepActionRequest struct {
	Vars       map[string]string `json:"vars,omitempty"`
	Reason     string            `json:"reason,omitempty"`
	AssignedTo string            `json:"assignedTo,omitempty"`
	Status     StepStatus        `json:"status,omitempty"`
}

type UpdateStateVarRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type UpdateStateVarResponse struct {
	OK bool `json:"ok"`
}

type StepApiResponse struct {
	Key        string         `json:"key"`
	Title      string         `json:"title"`
	Order      int            `json:"order"`
	Optional   bool           `json:"optional"`
	Status     StepStatus     `json:"status"`
	CardStatus ProgressStatus `json:"cardStatus"`
	Label      string         `json:"label"`
	Started    *time.Time     `json:"started,omitempty"`
	Completed  *time.Time     `json:"completed,omitempty"`
	AssignedTo string         `json:"assignedTo,omitempty"`
	Note       string         `json:"note,omitempty"`
}

type ProgressApiResponse struct {
	Total       int            `json:"total"`
	Completed   int            `json:"completed"`
	Skipped     int            `json:"skipped"`
	Errored     int            `json:"errored"`
	Percent     int            `json:"percent"`
	CurrentStep string         `json:"currentStep,omitempty"`
	Status      ProgressStatus `json:"status"`
}

type PostFlowApiResponse struct {
	ID          int64               `json:"id"`
	ExternalID  string              `json:"externalId"`
	Status      ProgressStatus      `json:"status"`
	CurrentStep string              `json:"currentStep,omitempty"`
	Version     int64               `json:"version"`
	Created     time.Time           `json:"created"`
	Modified    time.Time           `json:"modified"`
	StateVars   map[string]string   `json:"stateVars,omitempty"`
	Steps       []StepApiResponse   `json:"steps"`
	Progress    ProgressApiResponse `json:"progress"`
}

type ListPostFlowsResponse struct {
	Results int                   `json:"results"`
	Offset  int                   `json:"offset"`
	Flows   []PostFlowApiResponse `json:"flows"`
}

type FlowActionApiResponse struct {
	ID       int64     `json:"id"`
	StepKey  string    `json:"stepKey,omitempty"`
	Type     string    `json:"type"`
	Text     string    `json:"text"`
	DateTime time.Time `json:"dateTime"`
}
