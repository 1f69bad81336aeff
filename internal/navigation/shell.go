// Package navigation resolves the dashboard shell state (selected tab and
// selected workflow) into the view that should be rendered.
package navigation

import (
	"net/url"

	"github.com/pow3r/cashout/internal/catalog"
	"github.com/pow3r/cashout/pkg/cashout/domain"
	"github.com/pow3r/cashout/pkg/cashout/models"
)

type Tab string

const (
	TabOverview Tab = "overview"
	TabAPI      Tab = "api"
	TabUI       Tab = "ui"
	TabGarage   Tab = "garage"
)

type TabInfo struct {
	Tab   Tab
	Title string
}

var tabs = []TabInfo{
	{Tab: TabOverview, Title: "Overview"},
	{Tab: TabAPI, Title: "API Workflows"},
	{Tab: TabUI, Title: "UI Workflows"},
	{Tab: TabGarage, Title: "Garage"},
}

func Tabs() []TabInfo {
	out := make([]TabInfo, len(tabs))
	copy(out, tabs)
	return out
}

func ParseTab(s string) Tab {
	for _, t := range tabs {
		if string(t.Tab) == s {
			return t.Tab
		}
	}
	return TabOverview
}

// viewTemplates maps every workflow id to its static view template.
var viewTemplates = map[string]string{
	catalog.FlowModificationID:  "view_flow_modification",
	catalog.MessageReviewID:     "view_message_review",
	catalog.ProjectManagementID: "view_project_management",
	catalog.NewPostFlowID:       "view_new_post_flow",
	catalog.GarageID:            "view_garage",
	catalog.APIHealthID:         "view_api_health",
}

type ViewKind string

const (
	ViewListing  ViewKind = "listing"
	ViewWorkflow ViewKind = "workflow"
)

// View is the resolved target of a Shell.
type View struct {
	Kind     ViewKind
	Tab      Tab
	Template string
	Item     domain.WorkflowItem
	Items    []domain.WorkflowItem
}

// Shell is the root navigation state. It is a value type; every transition
// returns a new Shell.
type Shell struct {
	Tab      Tab
	Selected string
	Error    string
}

func FromQuery(q url.Values) Shell {
	return Shell{Tab: ParseTab(q.Get("tab"))}.Select(q.Get("workflow"))
}

// SelectTab switches tabs and clears any selected workflow.
func (s Shell) SelectTab(tab Tab) Shell {
	return Shell{Tab: ParseTab(string(tab))}
}

// Select opens a workflow view while remembering the tab it was opened from.
// Unknown ids leave the shell on the listing with an error message.
func (s Shell) Select(id string) Shell {
	s.Error = ""
	if id == "" {
		s.Selected = ""
		return s
	}
	if _, err := catalog.Find(id); err != nil {
		s.Selected = ""
		s.Error = err.Error()
		return s
	}
	s.Selected = id
	return s
}

func (s Shell) Back() Shell {
	s.Selected = ""
	s.Error = ""
	return s
}

func (s Shell) View() View {
	tab := ParseTab(string(s.Tab))
	if s.Selected == "" && tab == TabGarage {
		s.Selected = catalog.GarageID
	}
	if s.Selected != "" {
		if item, err := catalog.Find(s.Selected); err == nil {
			return View{Kind: ViewWorkflow, Tab: tab, Template: viewTemplates[item.ID], Item: item}
		}
	}
	var items []domain.WorkflowItem
	switch tab {
	case TabAPI:
		items = catalog.ByCategory(models.CategoryAPI)
	case TabUI:
		items = catalog.ByCategory(models.CategoryUI)
	default:
		items = catalog.All()
	}
	return View{Kind: ViewListing, Tab: tab, Template: "listing", Items: items}
}

// Query encodes the shell back into URL query parameters.
func (s Shell) Query() string {
	q := url.Values{}
	if s.Tab != "" && s.Tab != TabOverview {
		q.Set("tab", string(s.Tab))
	}
	if s.Selected != "" {
		q.Set("workflow", s.Selected)
	}
	return q.Encode()
}

// SelectURL is used by templates to link a card while keeping the current tab.
func (s Shell) SelectURL(id string) string {
	next := s.Select(id)
	return "/?" + next.Query()
}

func (s Shell) BackURL() string {
	q := s.Back().Query()
	if q == "" {
		return "/"
	}
	return "/?" + q
}
