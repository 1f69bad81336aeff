package web

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/pow3r/cashout/internal/config"
	"github.com/pow3r/cashout/internal/repository"
	"github.com/pow3r/cashout/internal/wizard"
)

func newTestServer(t *testing.T) (*httptest.Server, *wizard.Manager) {
	t.Helper()
	t.Setenv(config.DATABASE_TYPE, config.DATABASE_TYPE_SQLLITE)
	db, err := repository.OpenSqlLite(config.SQLLITE_IN_MEMORY)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	m := wizard.NewManager(repository.NewPostFlowRepository(db), repository.NewFlowActionRepository(db), repository.NewGarageRepository(db), nil)
	mux := http.NewServeMux()
	NewWebController(m, "test").RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, m
}

// noRedirect returns a client that surfaces redirects instead of following them.
func noRedirect() *http.Client {
	return &http.Client{CheckRedirect: func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}}
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestDashboard(t *testing.T) {
	srv, _ := newTestServer(t)

	status, body := get(t, srv.URL+"/")
	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	for _, want := range []string{"pow3r.cashout", "Flow Modification", "New Post Flow", "API Health", "badge badge-inactive"} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected dashboard to contain %q", want)
		}
	}

	_, body = get(t, srv.URL+"/?tab=api")
	if strings.Contains(body, "Message Review") || !strings.Contains(body, "Flow Modification") {
		t.Error("Expected api tab to list only api workflows")
	}
}

func TestDashboard_SelectedWorkflow(t *testing.T) {
	srv, _ := newTestServer(t)

	_, body := get(t, srv.URL+"/?tab=ui&workflow=new-post-flow")
	if !strings.Contains(body, "Start a new post") || !strings.Contains(body, "/?tab=ui") {
		t.Error("Expected new post flow view with a back link to the ui tab")
	}

	_, body = get(t, srv.URL+"/?workflow=api-health")
	if !strings.Contains(body, "/api/health") {
		t.Error("Expected api health view")
	}

	_, body = get(t, srv.URL+"/?workflow=nope")
	if !strings.Contains(body, "workflow not found") || !strings.Contains(body, "Flow Modification") {
		t.Error("Expected listing with error for unknown workflow")
	}

	_, body = get(t, srv.URL+"/?tab=garage")
	if !strings.Contains(body, "Your garage is empty") {
		t.Error("Expected garage tab to show the garage view")
	}
}

func TestWorkflowPage(t *testing.T) {
	srv, _ := newTestServer(t)
	status, body := get(t, srv.URL+"/workflows/message-review")
	if status != http.StatusOK || !strings.Contains(body, "Message Review") {
		t.Errorf("Expected message review view, got %d", status)
	}
	status, _ = get(t, srv.URL+"/workflows/nope")
	if status != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", status)
	}
}

func TestPostFlowWizard(t *testing.T) {
	srv, m := newTestServer(t)
	client := noRedirect()

	status, body := get(t, srv.URL+"/postflow/new")
	if status != http.StatusOK || !strings.Contains(body, `action="/postflow"`) {
		t.Fatalf("Expected new post form, got %d", status)
	}

	resp, err := client.PostForm(srv.URL+"/postflow", url.Values{"title": {"Desk Lamp"}, "price": {""}})
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/postflow/1" {
		t.Fatalf("Expected redirect to /postflow/1, got %d %s", resp.StatusCode, resp.Header.Get("Location"))
	}

	_, body = get(t, srv.URL+"/postflow/1")
	for _, want := range []string{"Desk Lamp", "flowchart LR", "1. Enter Item", "/postflow/1/steps/enter_item/complete"} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected wizard page to contain %q", want)
		}
	}

	// missing price re-renders with the validation error
	resp, err = client.PostForm(srv.URL+"/postflow/1/steps/enter_item/complete", url.Values{})
	if err != nil {
		t.Fatal(err)
	}
	errBody, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest || !strings.Contains(string(errBody), "price") {
		t.Errorf("Expected 400 with price error, got %d", resp.StatusCode)
	}

	steps := []struct {
		path string
		form url.Values
	}{
		{"/postflow/1/steps/enter_item/complete", url.Values{"price": {"$30"}}},
		{"/postflow/1/steps/create_post/complete", url.Values{"platforms": {"ebay, craigslist"}}},
		{"/postflow/1/steps/customize/skip", nil},
		{"/postflow/1/steps/confirm/complete", nil},
	}
	for _, s := range steps {
		resp, err := client.PostForm(srv.URL+s.path, s.form)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusSeeOther {
			t.Fatalf("%s: expected 303, got %d", s.path, resp.StatusCode)
		}
	}

	f, err := m.GetFlow(t.Context(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if f.CurrentStep != wizard.StepGarage {
		t.Errorf("Expected garage step current, got %s", f.CurrentStep)
	}

	_, body = get(t, srv.URL+"/garage")
	if !strings.Contains(body, "Desk Lamp") || !strings.Contains(body, "$30.00") {
		t.Error("Expected the confirmed listing in the garage")
	}

	status, _ = get(t, srv.URL+"/postflow/42")
	if status != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown flow, got %d", status)
	}
}

func TestGaragePage_InvalidPageSize(t *testing.T) {
	t.Setenv(config.GARAGE_PAGE_SIZE, "0")
	srv, m := newTestServer(t)
	ctx := t.Context()
	f, err := m.StartFlow(ctx, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	ref := f.ExternalID
	_, _ = m.Complete(ctx, ref, wizard.StepEnterItem, map[string]string{wizard.VarTitle: "Desk Lamp", wizard.VarPrice: "30"})
	_, _ = m.Complete(ctx, ref, wizard.StepCreatePost, map[string]string{wizard.VarPlatforms: "ebay"})
	_, _ = m.Skip(ctx, ref, wizard.StepCustomize)
	if _, err := m.Complete(ctx, ref, wizard.StepConfirm, nil); err != nil {
		t.Fatal(err)
	}

	status, body := get(t, srv.URL+"/garage")
	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	if !strings.Contains(body, "Desk Lamp") {
		t.Error("Expected the listing despite an invalid page size")
	}
	if strings.Contains(body, "Older") {
		t.Error("Expected no next page link for a single listing")
	}
}
