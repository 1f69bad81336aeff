package controllers

import (
	"net/http"

	"github.com/pow3r/cashout/internal/util"
	"github.com/pow3r/cashout/pkg/cashout/models"
)

const ServiceName = "pow3r.cashout"

// HealthController answers liveness checks with a static payload.
type HealthController struct {
	Version string
}

func NewHealthController(version string) *HealthController {
	return &HealthController{Version: version}
}

func (c *HealthController) handleHealth(w http.ResponseWriter, r *http.Request) {
	util.WriteJSONResponse(w, http.StatusOK, models.HealthResponse{
		Status:  "ok",
		Service: ServiceName,
		Version: c.Version,
	})
}
