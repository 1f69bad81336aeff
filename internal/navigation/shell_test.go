package navigation

import (
	"net/url"
	"testing"

	"github.com/pow3r/cashout/internal/catalog"
)

func TestFromQuery_DefaultsToOverviewListing(t *testing.T) {
	s := FromQuery(url.Values{})
	if s.Tab != TabOverview {
		t.Errorf("Expected overview tab, got %s", s.Tab)
	}
	v := s.View()
	if v.Kind != ViewListing || len(v.Items) != 6 {
		t.Errorf("Expected listing of 6 items, got %s with %d", v.Kind, len(v.Items))
	}
}

func TestFromQuery_UnknownTabFallsBack(t *testing.T) {
	s := FromQuery(url.Values{"tab": {"nonsense"}})
	if s.Tab != TabOverview {
		t.Errorf("Expected fallback to overview, got %s", s.Tab)
	}
}

func TestTabFiltersListing(t *testing.T) {
	v := Shell{Tab: TabAPI}.View()
	if len(v.Items) != 2 {
		t.Errorf("Expected 2 api items, got %d", len(v.Items))
	}
	v = Shell{Tab: TabUI}.View()
	if len(v.Items) != 4 {
		t.Errorf("Expected 4 ui items, got %d", len(v.Items))
	}
}

func TestSelectKeepsTab(t *testing.T) {
	s := Shell{Tab: TabUI}.Select(catalog.NewPostFlowID)
	if s.Tab != TabUI || s.Selected != catalog.NewPostFlowID {
		t.Fatalf("Unexpected shell state: %+v", s)
	}
	v := s.View()
	if v.Kind != ViewWorkflow || v.Template != "view_new_post_flow" {
		t.Errorf("Expected new post flow view, got %+v", v)
	}

	back := s.Back()
	if back.Selected != "" || back.Tab != TabUI {
		t.Errorf("Expected back to clear selection only, got %+v", back)
	}
}

func TestSelectUnknownWorkflow(t *testing.T) {
	s := Shell{Tab: TabOverview}.Select("missing")
	if s.Selected != "" {
		t.Errorf("Expected no selection, got %s", s.Selected)
	}
	if s.Error == "" {
		t.Error("Expected an error message for unknown workflow")
	}
	if s.View().Kind != ViewListing {
		t.Error("Expected listing view for unknown workflow")
	}
}

func TestEveryCatalogItemHasAView(t *testing.T) {
	for _, it := range catalog.All() {
		v := Shell{}.Select(it.ID).View()
		if v.Kind != ViewWorkflow || v.Template == "" {
			t.Errorf("Expected a workflow view for %s, got %+v", it.ID, v)
		}
	}
}

func TestGarageTabShowsGarageView(t *testing.T) {
	v := Shell{Tab: TabGarage}.View()
	if v.Kind != ViewWorkflow || v.Item.ID != catalog.GarageID {
		t.Errorf("Expected garage workflow view, got %+v", v)
	}
}

func TestSelectTabClearsSelection(t *testing.T) {
	s := Shell{Tab: TabUI, Selected: catalog.GarageID}.SelectTab(TabAPI)
	if s.Selected != "" || s.Tab != TabAPI {
		t.Errorf("Unexpected shell after tab switch: %+v", s)
	}
}

func TestURLs(t *testing.T) {
	s := Shell{Tab: TabUI}
	if got := s.SelectURL(catalog.GarageID); got != "/?tab=ui&workflow=garage" {
		t.Errorf("Unexpected select url %s", got)
	}
	if got := (Shell{Tab: TabOverview, Selected: catalog.GarageID}).BackURL(); got != "/" {
		t.Errorf("Unexpected back url %s", got)
	}
}
