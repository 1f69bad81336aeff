package controllers

import (
	"errors"
	"net/http"

	"github.com/pow3r/cashout/internal/catalog"
	"github.com/pow3r/cashout/internal/util"
	"github.com/pow3r/cashout/pkg/cashout/domain"
	"github.com/pow3r/cashout/pkg/cashout/models"
)

// CatalogController serves the static dashboard cards.
type CatalogController struct{}

func NewCatalogController() *CatalogController {
	return &CatalogController{}
}

func (c *CatalogController) handleListWorkflows(w http.ResponseWriter, r *http.Request) {
	items := catalog.All()
	if cat := r.URL.Query().Get("category"); cat != "" {
		category := models.Category(cat)
		if !category.Valid() {
			http.Error(w, "category must be api or ui", http.StatusBadRequest)
			return
		}
		items = catalog.ByCategory(category)
	}
	results := make([]models.WorkflowItemApiResponse, 0, len(items))
	for _, it := range items {
		results = append(results, mapWorkflowItemToApi(it))
	}
	util.WriteJSONResponse(w, http.StatusOK, results)
}

func (c *CatalogController) handleGetWorkflow(w http.ResponseWriter, r *http.Request) {
	item, err := catalog.Find(r.PathValue("id"))
	if errors.Is(err, catalog.ErrWorkflowNotFound) {
		http.Error(w, "workflow not found", http.StatusNotFound)
		return
	}
	util.WriteJSONResponse(w, http.StatusOK, mapWorkflowItemToApi(item))
}

func mapWorkflowItemToApi(it domain.WorkflowItem) models.WorkflowItemApiResponse {
	return models.WorkflowItemApiResponse{
		ID:          it.ID,
		Title:       it.Title,
		Description: it.Description,
		Icon:        it.Icon,
		Status:      it.Status,
		StatusLabel: it.Status.Label(),
		Category:    it.Category,
	}
}
