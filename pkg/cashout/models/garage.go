package models

import "time"

const GarageStatusPosted = "posted"

type GarageItemApiResponse struct {
	ID          int64     `json:"id"`
	FlowID      int64     `json:"flowId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Price       string    `json:"price"`
	Platforms   []string  `json:"platforms"`
	Tags        []string  `json:"tags,omitempty"`
	Status      string    `json:"status"`
	Fingerprint string    `json:"fingerprint"`
	Created     time.Time `json:"created"`
}

type ListGarageResponse struct {
	Results int                     `json:"results"`
	Offset  int                     `json:"offset"`
	Items   []GarageItemApiResponse `json:"items"`
}
