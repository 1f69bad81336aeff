package controllers

import "net/http"

// RegisterRoutes wires the HTTP routes for this controller.
func (c *PostFlowsController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/postflows", c.handleListPostFlows)
	mux.HandleFunc("POST /api/postflows", c.handleCreatePostFlow)
	mux.HandleFunc("GET /api/postflows/{id}", c.handleGetPostFlow)
	mux.HandleFunc("GET /api/postflows/{id}/actions", c.handleGetActions)
	mux.HandleFunc("POST /api/postflows/{id}/statevars", c.handleUpdateStateVar)
	mux.HandleFunc("POST /api/postflows/{id}/steps/{step}/{action}", c.handleStepAction)
}
func (c *CatalogController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/workflows", c.handleListWorkflows)
	mux.HandleFunc("GET /api/workflows/{id}", c.handleGetWorkflow)
}
func (c *GarageController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/garage", c.handleListGarage)
	mux.HandleFunc("GET /api/garage/{id}", c.handleGetGarageItem)
}
func (c *HealthController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", c.handleHealth)
	mux.HandleFunc("GET /api/health", c.handleHealth)
}
