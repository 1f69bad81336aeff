package controllers

import (
	"net/http"
	"strconv"

	"github.com/pow3r/cashout/internal/config"
	"github.com/pow3r/cashout/internal/util"
	"github.com/pow3r/cashout/internal/wizard"
	"github.com/pow3r/cashout/pkg/cashout/domain"
	"github.com/pow3r/cashout/pkg/cashout/models"
)

type GarageController struct {
	Manager *wizard.Manager
}

func NewGarageController(manager *wizard.Manager) *GarageController {
	return &GarageController{Manager: manager}
}

func (c *GarageController) handleListGarage(w http.ResponseWriter, r *http.Request) {
	limit, offset := util.PageParams(r, config.GetSystemSettingPageSize(config.GARAGE_PAGE_SIZE), maxPageSize)
	items, err := c.Manager.Garage(r.Context(), limit, offset)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := models.ListGarageResponse{Results: len(items), Offset: offset, Items: make([]models.GarageItemApiResponse, 0, len(items))}
	for _, it := range items {
		out.Items = append(out.Items, MapGarageItemToApi(it))
	}
	util.WriteJSONResponse(w, http.StatusOK, out)
}

func (c *GarageController) handleGetGarageItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	item, err := c.Manager.GarageItem(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if item == nil {
		http.Error(w, "garage item not found", http.StatusNotFound)
		return
	}
	util.WriteJSONResponse(w, http.StatusOK, MapGarageItemToApi(*item))
}

func MapGarageItemToApi(g domain.GarageItem) models.GarageItemApiResponse {
	return models.GarageItemApiResponse{
		ID:          g.ID,
		FlowID:      g.FlowID,
		Title:       g.Title,
		Description: g.Description,
		Price:       g.Price,
		Platforms:   g.Platforms,
		Tags:        g.Tags,
		Status:      g.Status,
		Fingerprint: g.Fingerprint,
		Created:     g.Created,
	}
}
