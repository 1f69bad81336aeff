// Package catalog holds the static list of workflow cards shown on the
// dashboard. The list is built once and never mutated.
package catalog

import (
	"errors"
	"fmt"

	"github.com/pow3r/cashout/pkg/cashout/domain"
	"github.com/pow3r/cashout/pkg/cashout/models"
)

var ErrWorkflowNotFound = errors.New("workflow not found")

const (
	FlowModificationID  = "flow-modification"
	MessageReviewID     = "message-review"
	ProjectManagementID = "project-management"
	NewPostFlowID       = "new-post-flow"
	GarageID            = "garage"
	APIHealthID         = "api-health"
)

var items = []domain.WorkflowItem{
	{
		ID:          FlowModificationID,
		Title:       "Flow Modification",
		Description: "Adjust the automation flows that push listings and messages between platforms.",
		Icon:        "⚙",
		Status:      models.ItemActive,
		Category:    models.CategoryAPI,
	},
	{
		ID:          MessageReviewID,
		Title:       "Message Review",
		Description: "Review buyer messages collected from every marketplace before replying.",
		Icon:        "✉",
		Status:      models.ItemActive,
		Category:    models.CategoryUI,
	},
	{
		ID:          ProjectManagementID,
		Title:       "Project Management",
		Description: "Track sourcing, repairs and shipping for items in flight.",
		Icon:        "▦",
		Status:      models.ItemPending,
		Category:    models.CategoryUI,
	},
	{
		ID:          NewPostFlowID,
		Title:       "New Post Flow",
		Description: "Create a cross-platform marketplace listing in five guided steps.",
		Icon:        "✚",
		Status:      models.ItemActive,
		Category:    models.CategoryUI,
	},
	{
		ID:          GarageID,
		Title:       "Garage",
		Description: "Everything you have created or posted so far.",
		Icon:        "⌂",
		Status:      models.ItemActive,
		Category:    models.CategoryUI,
	},
	{
		ID:          APIHealthID,
		Title:       "API Health",
		Description: "Health and CORS status of the backend functions.",
		Icon:        "♥",
		Status:      models.ItemInactive,
		Category:    models.CategoryAPI,
	},
}

// All returns a copy of every workflow item in display order.
func All() []domain.WorkflowItem {
	out := make([]domain.WorkflowItem, len(items))
	copy(out, items)
	return out
}

func Find(id string) (domain.WorkflowItem, error) {
	for _, it := range items {
		if it.ID == id {
			return it, nil
		}
	}
	return domain.WorkflowItem{}, fmt.Errorf("%w: %s", ErrWorkflowNotFound, id)
}

// ByCategory filters the catalog; an empty category returns everything.
func ByCategory(category models.Category) []domain.WorkflowItem {
	if category == "" {
		return All()
	}
	out := make([]domain.WorkflowItem, 0, len(items))
	for _, it := range items {
		if it.Category == category {
			out = append(out, it)
		}
	}
	return out
}

// Counts returns the number of items per status for the overview badges.
func Counts() map[models.ItemStatus]int {
	counts := map[models.ItemStatus]int{
		models.ItemActive:   0,
		models.ItemInactive: 0,
		models.ItemPending:  0,
	}
	for _, it := range items {
		counts[it.Status]++
	}
	return counts
}
