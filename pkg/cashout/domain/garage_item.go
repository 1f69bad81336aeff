package domain

import "time"

// GarageItem is a listing that went through the Confirm step.
type GarageItem struct {
	ID          int64
	FlowID      int64
	Title       string
	Description string
	Price       string
	Platforms   []string
	Tags        []string
	Status      string
	Fingerprint string
	Created     time.Time
}
