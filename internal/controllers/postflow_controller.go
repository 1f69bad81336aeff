package controllers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/pow3r/cashout/internal/config"
	"github.com/pow3r/cashout/internal/util"
	"github.com/pow3r/cashout/internal/wizard"
	"github.com/pow3r/cashout/pkg/cashout/domain"
	"github.com/pow3r/cashout/pkg/cashout/models"
)

const maxPageSize = 100

// PostFlowsController exposes the New Post Flow wizard as JSON.
type PostFlowsController struct {
	Manager *wizard.Manager
}

func NewPostFlowsController(manager *wizard.Manager) *PostFlowsController {
	return &PostFlowsController{Manager: manager}
}

func (c *PostFlowsController) handleCreatePostFlow(w http.ResponseWriter, r *http.Request) {
	req, err := util.DecodeJSONBody[models.CreatePostFlowRequest](r)
	if err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	slog.InfoContext(r.Context(), "Creating post flow", "externalId", req.ExternalID)
	f, err := c.Manager.StartFlow(r.Context(), req.ExternalID, req.StateVars)
	if err != nil {
		writeError(w, r, err)
		return
	}
	util.WriteJSONResponse(w, http.StatusOK, models.CreatePostFlowResponse{ID: f.ID, ExternalID: f.ExternalID})
}

func (c *PostFlowsController) handleListPostFlows(w http.ResponseWriter, r *http.Request) {
	limit, offset := util.PageParams(r, config.GetSystemSettingPageSize(config.FLOWS_PAGE_SIZE), maxPageSize)
	flows, err := c.Manager.ListFlows(r.Context(), limit, offset)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := models.ListPostFlowsResponse{Results: len(flows), Offset: offset, Flows: make([]models.PostFlowApiResponse, 0, len(flows))}
	for i := range flows {
		out.Flows = append(out.Flows, MapPostFlowToApi(&flows[i]))
	}
	util.WriteJSONResponse(w, http.StatusOK, out)
}

func (c *PostFlowsController) handleGetPostFlow(w http.ResponseWriter, r *http.Request) {
	f, err := c.Manager.GetFlowByRef(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	util.WriteJSONResponse(w, http.StatusOK, MapPostFlowToApi(f))
}

func (c *PostFlowsController) handleGetActions(w http.ResponseWriter, r *http.Request) {
	f, err := c.Manager.GetFlowByRef(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	actions, err := c.Manager.Actions(r.Context(), f.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	results := make([]models.FlowActionApiResponse, 0, len(actions))
	for _, a := range actions {
		results = append(results, models.FlowActionApiResponse{
			ID:       a.ID,
			StepKey:  a.StepKey,
			Type:     a.Type,
			Text:     a.Text,
			DateTime: a.DateTime,
		})
	}
	util.WriteJSONResponse(w, http.StatusOK, results)
}

func (c *PostFlowsController) handleUpdateStateVar(w http.ResponseWriter, r *http.Request) {
	req, err := util.DecodeJSONBody[models.UpdateStateVarRequest](r)
	if err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	if _, err := c.Manager.UpdateStateVar(r.Context(), r.PathValue("id"), req.Key, req.Value); err != nil {
		writeError(w, r, err)
		return
	}
	util.WriteJSONResponse(w, http.StatusOK, models.UpdateStateVarResponse{OK: true})
}

func (c *PostFlowsController) handleStepAction(w http.ResponseWriter, r *http.Request) {
	req, err := util.DecodeJSONBody[models.StepActionRequest](r)
	if err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	f, err := RunStepAction(r.Context(), c.Manager, r.PathValue("id"), r.PathValue("step"), r.PathValue("action"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	util.WriteJSONResponse(w, http.StatusOK, MapPostFlowToApi(f))
}

// RunStepAction dispatches a named step action to the manager. It is shared
// by the JSON API and the HTML forms.
func RunStepAction(ctx context.Context, m *wizard.Manager, ref, step, action string, req models.StepActionRequest) (*domain.PostFlow, error) {
	switch action {
	case "complete":
		return m.Complete(ctx, ref, step, req.Vars)
	case "skip":
		return m.Skip(ctx, ref, step)
	case "fail":
		return m.Fail(ctx, ref, step, req.Reason)
	case "retry":
		return m.Retry(ctx, ref, step)
	case "goto":
		return m.GoTo(ctx, ref, step)
	case "status":
		return m.SetStatus(ctx, ref, step, req.Status)
	case "assign":
		return m.Assign(ctx, ref, step, req.AssignedTo)
	default:
		return nil, fmt.Errorf("%w: unknown action %q", wizard.ErrValidation, action)
	}
}

// MapPostFlowToApi builds the JSON view of a flow including its progress.
func MapPostFlowToApi(f *domain.PostFlow) models.PostFlowApiResponse {
	out := models.PostFlowApiResponse{
		ID:          f.ID,
		ExternalID:  f.ExternalID,
		Status:      f.Status,
		CurrentStep: f.CurrentStep,
		Version:     f.Version,
		Created:     f.Created,
		Modified:    f.Modified,
		StateVars:   wizard.Vars(f),
		Steps:       make([]models.StepApiResponse, 0, len(f.Steps)),
		Progress:    wizard.ProgressOf(f).Api(),
	}
	for _, s := range f.Steps {
		def, _ := wizard.Definition(s.Key)
		out.Steps = append(out.Steps, models.StepApiResponse{
			Key:        s.Key,
			Title:      s.Title,
			Order:      s.Order,
			Optional:   def.Optional,
			Status:     s.Status,
			CardStatus: s.Status.CardStatus(),
			Label:      s.Status.Label(),
			Started:    nullTimePtr(s.Started.Valid, s.Started.Time),
			Completed:  nullTimePtr(s.Completed.Valid, s.Completed.Time),
			AssignedTo: s.AssignedTo.String,
			Note:       s.Note.String,
		})
	}
	return out
}

func nullTimePtr(valid bool, t time.Time) *time.Time {
	if !valid {
		return nil
	}
	return &t
}
