package models

type WorkflowItemApiResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Status      ItemStatus `json:"status"`
	StatusLabel string     `json:"statusLabel"`
	Category    Category   `json:"category"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}
