package domain

import "time"

type FlowAction struct {
	ID       int64     // BIGSERIAL
	FlowID   int64     // BIGINT (foreign key to post_flows.id)
	StepKey  string    // TEXT
	Type     string    // TEXT
	Text     string    // TEXT
	DateTime time.Time // TIMESTAMP
}
