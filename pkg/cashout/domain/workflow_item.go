package domain

import "github.com/pow3r/cashout/pkg/cashout/models"

// WorkflowItem is a dashboard card. Items are static and never persisted.
type WorkflowItem struct {
	ID          string
	Title       string
	Description string
	Icon        string
	Status      models.ItemStatus
	Category    models.Category
}
