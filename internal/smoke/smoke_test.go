package smoke

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pow3r/cashout/internal/config"
	"github.com/pow3r/cashout/internal/repository"
	"github.com/pow3r/cashout/pkg/cashout"
)

func TestDefaultSuiteAgainstApp(t *testing.T) {
	db, err := repository.OpenSqlLite(config.SQLLITE_IN_MEMORY)
	require.NoError(t, err)
	defer db.Close()

	srv := httptest.NewServer(cashout.NewHandler(db, nil))
	defer srv.Close()

	report := NewRunner(5*time.Second).Run(context.Background(), DefaultSuite(srv.URL))

	for _, res := range report.Results {
		assert.True(t, res.Passed(), "%s: %v", res.Check.Name, res.Failures)
	}
	assert.Equal(t, 0, report.Failed())
	assert.Len(t, report.Results, len(DefaultChecks()))
}

func TestRunner_ReportsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.Header().Set("X-Env", "staging")
			_, _ = w.Write([]byte("hello cashout"))
		case "/moved":
			http.Redirect(w, r, "/ok", http.StatusFound)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	suite := Suite{Name: "unit", BaseURL: srv.URL, Checks: []Check{
		{Name: "ok", Path: "/ok", ExpectContains: []string{"cashout"}, ExpectHeaders: map[string]string{"x-env": "stag"}},
		{Name: "wrong body", Path: "/ok", ExpectContains: []string{"garage"}},
		{Name: "missing header", Path: "/ok", ExpectHeaders: map[string]string{"X-Missing": ""}},
		{Name: "not found", Path: "/nope"},
		{Name: "redirect", Path: "/moved", ExpectStatus: http.StatusFound},
	}}

	report := NewRunner(time.Second).Run(context.Background(), suite)
	require.Len(t, report.Results, 5)

	assert.True(t, report.Results[0].Passed())
	assert.Equal(t, []string{`body does not contain "garage"`}, report.Results[1].Failures)
	assert.Equal(t, []string{"missing header X-Missing"}, report.Results[2].Failures)
	assert.Equal(t, http.StatusNotFound, report.Results[3].Status)
	assert.Equal(t, []string{"status 404, want 200"}, report.Results[3].Failures)
	assert.True(t, report.Results[4].Passed(), "redirects are not followed")
	assert.Equal(t, 3, report.Failed())
}

func TestRunner_UnreachableTarget(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	report := NewRunner(time.Second).Run(context.Background(), DefaultSuite(url))

	assert.Equal(t, len(DefaultChecks()), report.Failed())
	assert.Contains(t, report.Results[0].Failures[0], "request failed")
}

func TestReportRender(t *testing.T) {
	report := Report{Suite: "default", BaseURL: "http://localhost:8080", Results: []Result{
		{Check: Check{Name: "health"}, Status: 200},
		{Check: Check{Name: "dashboard"}, Status: 500, Failures: []string{"status 500, want 200"}},
	}}

	var buf bytes.Buffer
	report.Render(&buf)
	out := buf.String()

	assert.Contains(t, out, "✓")
	assert.Contains(t, out, "health")
	assert.Contains(t, out, "✗")
	assert.Contains(t, out, "status 500, want 200")
	assert.Contains(t, out, "1 of 2 checks failed")
}

func TestLoader_Load(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		suite, err := NewLoader().Load()
		require.NoError(t, err)
		assert.Equal(t, "default", suite.Name)
		assert.Equal(t, defaultTimeout, suite.Timeout)
		assert.Equal(t, DefaultChecks(), suite.Checks)
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("CASHOUT_SMOKE_BASE_URL", "http://staging.example")
		t.Setenv("CASHOUT_SMOKE_TIMEOUT", "3s")
		suite, err := NewLoader().Load()
		require.NoError(t, err)
		assert.Equal(t, "http://staging.example", suite.BaseURL)
		assert.Equal(t, 3*time.Second, suite.Timeout)
	})
}

func TestLoader_LoadFromFile(t *testing.T) {
	t.Run("valid suite", func(t *testing.T) {
		path := writeSuite(t, `
name: release
base_url: http://localhost:9090
timeout: 2s
checks:
  - name: health
    path: /health
    expect_contains: ["ok"]
  - path: /api/postflows
    method: post
    body: '{"externalId":"smoke-1"}'
    expect_status: 201
    expect_headers:
      content-type: application/json
`)
		suite, err := NewLoader().LoadFromFile(path)
		require.NoError(t, err)

		assert.Equal(t, "release", suite.Name)
		assert.Equal(t, "http://localhost:9090", suite.BaseURL)
		assert.Equal(t, 2*time.Second, suite.Timeout)
		require.Len(t, suite.Checks, 2)
		assert.Equal(t, []string{"ok"}, suite.Checks[0].ExpectContains)
		assert.Equal(t, "POST /api/postflows", suite.Checks[1].Name)
		assert.Equal(t, http.StatusCreated, suite.Checks[1].ExpectStatus)
		assert.Equal(t, "application/json", suite.Checks[1].ExpectHeaders["content-type"])
	})

	t.Run("env wins over file", func(t *testing.T) {
		t.Setenv("CASHOUT_SMOKE_BASE_URL", "http://override.example")
		path := writeSuite(t, "base_url: http://localhost:9090\n")
		suite, err := NewLoader().LoadFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, "http://override.example", suite.BaseURL)
		assert.Equal(t, DefaultChecks(), suite.Checks)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewLoader().LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error reading config file")
	})

	t.Run("check without path", func(t *testing.T) {
		path := writeSuite(t, "checks:\n  - name: broken\n")
		_, err := NewLoader().LoadFromFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "has no path")
	})
}

func TestResolveTarget(t *testing.T) {
	t.Run("local default", func(t *testing.T) {
		t.Setenv(config.SMOKE_LOCAL_URL, "")
		got, err := ResolveTarget("local")
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8080", got)
	})

	t.Run("live requires setting", func(t *testing.T) {
		t.Setenv(config.SMOKE_LIVE_URL, "")
		_, err := ResolveTarget("live")
		require.Error(t, err)

		t.Setenv(config.SMOKE_LIVE_URL, "https://cashout.example/")
		got, err := ResolveTarget("live")
		require.NoError(t, err)
		assert.Equal(t, "https://cashout.example", got)
	})

	t.Run("explicit url", func(t *testing.T) {
		got, err := ResolveTarget("http://127.0.0.1:9000/")
		require.NoError(t, err)
		assert.Equal(t, "http://127.0.0.1:9000", got)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ResolveTarget("staging")
		assert.Error(t, err)
	})
}

func writeSuite(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "suite.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
