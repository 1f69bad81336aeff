package web

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/pow3r/cashout/internal/catalog"
	"github.com/pow3r/cashout/internal/config"
	"github.com/pow3r/cashout/internal/controllers"
	"github.com/pow3r/cashout/internal/navigation"
	"github.com/pow3r/cashout/internal/util"
	"github.com/pow3r/cashout/internal/wizard"
	"github.com/pow3r/cashout/pkg/cashout/domain"
	"github.com/pow3r/cashout/pkg/cashout/models"
)

const timeFormat = "2006-01-02 15:04:05"

type WebController struct {
	manager *wizard.Manager
	version string
}

func NewWebController(manager *wizard.Manager, version string) *WebController {
	return &WebController{manager: manager, version: version}
}

type basePage struct {
	Title       string
	CurrentPath string
	Tabs        []navigation.TabInfo
	Shell       navigation.Shell
}

type flowRow struct {
	ID           int64
	Title        string
	Status       models.ProgressStatus
	CurrentTitle string
	Percent      int
	Modified     string
}

type garageRow struct {
	ID        int64
	FlowID    int64
	Title     string
	Price     string
	Platforms string
	Tags      string
	Created   string
}

type dashboardPage struct {
	basePage
	View       navigation.View
	ViewHTML   template.HTML
	Counts     map[models.ItemStatus]int
	Steps      []wizard.StepDefinition
	Flows      []flowRow
	Garage     []garageRow
	Health     models.HealthResponse
	CorsOrigin string
}

type field struct {
	Name      string
	Label     string
	Value     string
	Multiline bool
}

// stepFields lists the form inputs each step collects.
var stepFields = map[string][]field{
	wizard.StepEnterItem: {
		{Name: wizard.VarTitle, Label: "Title"},
		{Name: wizard.VarPrice, Label: "Price"},
		{Name: wizard.VarCondition, Label: "Condition"},
		{Name: wizard.VarDescription, Label: "Description", Multiline: true},
	},
	wizard.StepCreatePost: {
		{Name: wizard.VarPlatforms, Label: "Platforms (comma separated)"},
		{Name: wizard.VarPostBody, Label: "Post", Multiline: true},
	},
	wizard.StepCustomize: {
		{Name: wizard.VarTags, Label: "Tags (comma separated)"},
		{Name: wizard.VarShipping, Label: "Shipping"},
	},
}

type stepVM struct {
	Key         string
	Title       string
	Description string
	Order       int
	Optional    bool
	Label       string
	BadgeClass  string
	Started     string
	Completed   string
	AssignedTo  string
	Note        string
	Fields      []field
	CanComplete bool
	CanSkip     bool
	CanFail     bool
	CanRetry    bool
	CanGoTo     bool
}

type actionVM struct {
	Type     string
	StepKey  string
	Text     string
	DateTime string
}

type postFlowPage struct {
	basePage
	Flow      *domain.PostFlow
	Progress  wizard.Progress
	FlowChart string
	Steps     []stepVM
	Vars      map[string]string
	Actions   []actionVM
	Error     string
}

type newPostFlowPage struct {
	basePage
	Vars  map[string]string
	Error string
}

type garagePage struct {
	basePage
	Garage  []garageRow
	PrevURL string
	NextURL string
}

func (wc *WebController) base(r *http.Request, title string, shell navigation.Shell) basePage {
	return basePage{Title: title, CurrentPath: r.URL.Path, Tabs: navigation.Tabs(), Shell: shell}
}

func (wc *WebController) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	shell := navigation.FromQuery(r.URL.Query())
	wc.renderShell(w, r, shell, "dashboard", http.StatusOK)
}

func (wc *WebController) workflowHandler(w http.ResponseWriter, r *http.Request) {
	shell := navigation.Shell{Tab: navigation.TabOverview}.Select(r.PathValue("id"))
	if shell.Error != "" {
		http.Error(w, shell.Error, http.StatusNotFound)
		return
	}
	wc.renderShell(w, r, shell, "workflow_page", http.StatusOK)
}

// renderShell loads the data the resolved view needs and renders the page
// around it.
func (wc *WebController) renderShell(w http.ResponseWriter, r *http.Request, shell navigation.Shell, page string, status int) {
	view := shell.View()
	title := "Dashboard"
	if view.Kind == navigation.ViewWorkflow {
		title = view.Item.Title
	}
	data := dashboardPage{
		basePage:   wc.base(r, title, shell),
		View:       view,
		Counts:     catalog.Counts(),
		Steps:      wizard.Definitions(),
		Health:     models.HealthResponse{Status: "ok", Service: controllers.ServiceName, Version: wc.version},
		CorsOrigin: config.GetSystemSettingString(config.CORS_ALLOWED_ORIGIN),
	}

	switch view.Item.ID {
	case catalog.NewPostFlowID:
		flows, err := wc.manager.ListFlows(r.Context(), 10, 0)
		if err != nil {
			slog.ErrorContext(r.Context(), "Failed to load post flows", "error", err)
			http.Error(w, "Failed to load", http.StatusInternalServerError)
			return
		}
		data.Flows = flowRows(flows)
	case catalog.GarageID:
		items, err := wc.manager.Garage(r.Context(), config.GetSystemSettingPageSize(config.GARAGE_PAGE_SIZE), 0)
		if err != nil {
			slog.ErrorContext(r.Context(), "Failed to load garage", "error", err)
			http.Error(w, "Failed to load", http.StatusInternalServerError)
			return
		}
		data.Garage = garageRows(items)
	}

	tmpl, err := parse("templates/dashboard.html", "templates/workflow_page.html", "templates/views/*.html")
	if err != nil {
		slog.Error("Failed to parse dashboard templates", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if view.Kind == navigation.ViewWorkflow {
		var buf bytes.Buffer
		if err := tmpl.ExecuteTemplate(&buf, view.Template, data); err != nil {
			slog.Error("Failed to execute view template", "view", view.Template, "error", err)
			http.Error(w, "Template render error", http.StatusInternalServerError)
			return
		}
		data.ViewHTML = template.HTML(buf.String())
	}
	execute(w, tmpl, page, status, data)
}

func (wc *WebController) newPostFlowHandler(w http.ResponseWriter, r *http.Request) {
	wc.renderNewPostFlow(w, r, map[string]string{}, "", http.StatusOK)
}

func (wc *WebController) renderNewPostFlow(w http.ResponseWriter, r *http.Request, vars map[string]string, msg string, status int) {
	data := newPostFlowPage{
		basePage: wc.base(r, "New Post", navigation.Shell{Tab: navigation.TabUI}),
		Vars:     vars,
		Error:    msg,
	}
	tmpl, err := parse("templates/postflow/new.html")
	if err != nil {
		slog.Error("Failed to parse new post template", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	execute(w, tmpl, "postflow_new", status, data)
}

func (wc *WebController) createPostFlowHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	vars := formVars(r.PostForm)
	f, err := wc.manager.StartFlow(r.Context(), "", vars)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to start post flow", "error", err)
		wc.renderNewPostFlow(w, r, vars, "Could not start the post flow.", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/postflow/%d", f.ID), http.StatusSeeOther)
}

func (wc *WebController) postFlowHandler(w http.ResponseWriter, r *http.Request) {
	f, err := wc.manager.GetFlowByRef(r.Context(), r.PathValue("id"))
	if err != nil {
		http.Error(w, err.Error(), controllers.StatusForError(err))
		return
	}
	wc.renderPostFlow(w, r, f, "", http.StatusOK)
}

func (wc *WebController) stepActionHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	req := models.StepActionRequest{
		Vars:       formVars(r.PostForm),
		Reason:     strings.TrimSpace(r.PostForm.Get("reason")),
		AssignedTo: strings.TrimSpace(r.PostForm.Get("assignedTo")),
		Status:     models.StepStatus(r.PostForm.Get("status")),
	}
	delete(req.Vars, "reason")
	delete(req.Vars, "assignedTo")
	delete(req.Vars, "status")

	ref := r.PathValue("id")
	f, err := controllers.RunStepAction(r.Context(), wc.manager, ref, r.PathValue("step"), r.PathValue("action"), req)
	if err != nil {
		status := controllers.StatusForError(err)
		if status != http.StatusBadRequest && status != http.StatusConflict {
			http.Error(w, err.Error(), status)
			return
		}
		current, loadErr := wc.manager.GetFlowByRef(r.Context(), ref)
		if loadErr != nil {
			http.Error(w, loadErr.Error(), controllers.StatusForError(loadErr))
			return
		}
		wc.renderPostFlow(w, r, current, friendlyError(err), status)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/postflow/%d", f.ID), http.StatusSeeOther)
}

func (wc *WebController) renderPostFlow(w http.ResponseWriter, r *http.Request, f *domain.PostFlow, msg string, status int) {
	actions, err := wc.manager.Actions(r.Context(), f.ID)
	if err != nil {
		slog.WarnContext(r.Context(), "Failed to load flow actions", "flow_id", f.ID, "error", err)
	}
	actionRows := make([]actionVM, 0, len(actions))
	for i := len(actions) - 1; i >= 0; i-- {
		a := actions[i]
		actionRows = append(actionRows, actionVM{
			Type:     a.Type,
			StepKey:  a.StepKey,
			Text:     a.Text,
			DateTime: a.DateTime.Local().Format(timeFormat),
		})
	}

	vars := wizard.Vars(f)
	data := postFlowPage{
		basePage:  wc.base(r, fmt.Sprintf("Post flow %d", f.ID), navigation.Shell{Tab: navigation.TabUI}),
		Flow:      f,
		Progress:  wizard.ProgressOf(f),
		FlowChart: wizard.FlowChart(f),
		Steps:     stepVMs(f, vars),
		Vars:      vars,
		Actions:   actionRows,
		Error:     msg,
	}
	tmpl, err := parse("templates/postflow/page.html")
	if err != nil {
		slog.Error("Failed to parse post flow template", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	execute(w, tmpl, "postflow_page", status, data)
}

func (wc *WebController) garageHandler(w http.ResponseWriter, r *http.Request) {
	limit, offset := util.PageParams(r, config.GetSystemSettingPageSize(config.GARAGE_PAGE_SIZE), 100)
	items, err := wc.manager.Garage(r.Context(), limit, offset)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to load garage", "error", err)
		http.Error(w, "Failed to load", http.StatusInternalServerError)
		return
	}
	data := garagePage{
		basePage: wc.base(r, "Garage", navigation.Shell{Tab: navigation.TabGarage}),
		Garage:   garageRows(items),
	}
	if offset > 0 {
		data.PrevURL = fmt.Sprintf("/garage?offset=%d&limit=%d", max(offset-limit, 0), limit)
	}
	if len(items) == limit {
		data.NextURL = fmt.Sprintf("/garage?offset=%d&limit=%d", offset+limit, limit)
	}
	tmpl, err := parse("templates/garage_page.html", "templates/views/garage.html")
	if err != nil {
		slog.Error("Failed to parse garage template", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	execute(w, tmpl, "garage_page", http.StatusOK, data)
}

func stepVMs(f *domain.PostFlow, vars map[string]string) []stepVM {
	out := make([]stepVM, 0, len(f.Steps))
	for _, s := range f.Steps {
		def, _ := wizard.Definition(s.Key)
		current := s.Key == f.CurrentStep
		inProgress := current && s.Status == models.StepInProgress
		vm := stepVM{
			Key:         s.Key,
			Title:       s.Title,
			Description: def.Description,
			Order:       s.Order,
			Optional:    def.Optional,
			Label:       s.Status.Label(),
			BadgeClass:  s.Status.CardStatus().BadgeClass(),
			AssignedTo:  s.AssignedTo.String,
			Note:        s.Note.String,
			CanComplete: inProgress,
			CanSkip:     inProgress && def.Optional,
			CanFail:     inProgress,
			CanRetry:    s.Status == models.StepError,
			CanGoTo:     s.Status.Done(),
		}
		if s.Started.Valid {
			vm.Started = s.Started.Time.Local().Format(timeFormat)
		}
		if s.Completed.Valid {
			vm.Completed = s.Completed.Time.Local().Format(timeFormat)
		}
		for _, fd := range stepFields[s.Key] {
			fd.Value = vars[fd.Name]
			vm.Fields = append(vm.Fields, fd)
		}
		out = append(out, vm)
	}
	return out
}

func flowRows(flows []domain.PostFlow) []flowRow {
	rows := make([]flowRow, 0, len(flows))
	for i := range flows {
		f := &flows[i]
		p := wizard.ProgressOf(f)
		title := wizard.Vars(f)[wizard.VarTitle]
		if title == "" {
			title = f.ExternalID
		}
		rows = append(rows, flowRow{
			ID:           f.ID,
			Title:        title,
			Status:       f.Status,
			CurrentTitle: p.CurrentTitle,
			Percent:      p.Percent,
			Modified:     f.Modified.Local().Format(timeFormat),
		})
	}
	return rows
}

func garageRows(items []domain.GarageItem) []garageRow {
	rows := make([]garageRow, 0, len(items))
	for _, g := range items {
		rows = append(rows, garageRow{
			ID:        g.ID,
			FlowID:    g.FlowID,
			Title:     g.Title,
			Price:     g.Price,
			Platforms: strings.Join(g.Platforms, ", "),
			Tags:      strings.Join(g.Tags, ", "),
			Created:   g.Created.Local().Format(timeFormat),
		})
	}
	return rows
}

// formVars keeps the non-empty single values of a submitted form.
func formVars(form url.Values) map[string]string {
	vars := map[string]string{}
	for k, v := range form {
		if len(v) > 0 && strings.TrimSpace(v[0]) != "" {
			vars[k] = strings.TrimSpace(v[0])
		}
	}
	return vars
}

func friendlyError(err error) string {
	switch {
	case errors.Is(err, wizard.ErrConflict):
		return "This flow was changed by someone else. Review the latest state and try again."
	default:
		return err.Error()
	}
}

func hasPrefix(s, prefix string) bool {
	return strings.HasPrefix(s, prefix)
}

func parse(files ...string) (*template.Template, error) {
	patterns := append([]string{
		"templates/fragments/header.html",
		"templates/fragments/nav.html",
	}, files...)
	return template.New("").Funcs(template.FuncMap{"hasPrefix": hasPrefix}).ParseFS(templatesFS, patterns...)
}

// execute renders to a buffer first so a template error can still set the status.
func execute(w http.ResponseWriter, tmpl *template.Template, name string, status int, data any) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("Failed to execute template", "template", name, "error", err)
		http.Error(w, "Template render error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
