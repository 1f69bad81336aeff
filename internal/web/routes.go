package web

import (
	"net/http"
)

func (c *WebController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", c.dashboardHandler)
	mux.HandleFunc("GET /workflows/{id}", c.workflowHandler)
	// New Post Flow wizard
	mux.HandleFunc("GET /postflow/new", c.newPostFlowHandler)
	mux.HandleFunc("POST /postflow", c.createPostFlowHandler)
	mux.HandleFunc("GET /postflow/{id}", c.postFlowHandler)
	mux.HandleFunc("POST /postflow/{id}/steps/{step}/{action}", c.stepActionHandler)
	mux.HandleFunc("GET /garage", c.garageHandler)
}
