// Package smoke runs end-to-end HTTP checks against a running cashout
// deployment.
//
// A [Suite] is a base URL plus an ordered list of [Check]s. Suites come from
// [DefaultSuite] or from a YAML file read by [Loader], which also applies
// CASHOUT_SMOKE_* environment overrides. [Runner] executes the checks one
// after another and returns a [Report] that renders as a console summary.
package smoke

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pow3r/cashout/internal/config"
)

// Check is a single request and the expectations on its response.
type Check struct {
	// Name is shown in the report.
	Name string `mapstructure:"name"`

	// Method defaults to GET.
	Method string `mapstructure:"method"`

	// Path is appended to the suite base URL.
	Path string `mapstructure:"path"`

	// Body is sent as JSON when set.
	Body string `mapstructure:"body"`

	// ExpectStatus defaults to 200.
	ExpectStatus int `mapstructure:"expect_status"`

	// ExpectContains lists substrings the response body must contain.
	ExpectContains []string `mapstructure:"expect_contains"`

	// ExpectHeaders maps header names to a substring of the expected value.
	// An empty value only requires the header to be present.
	ExpectHeaders map[string]string `mapstructure:"expect_headers"`
}

func (c Check) method() string {
	if c.Method == "" {
		return http.MethodGet
	}
	return strings.ToUpper(c.Method)
}

func (c Check) expectStatus() int {
	if c.ExpectStatus == 0 {
		return http.StatusOK
	}
	return c.ExpectStatus
}

// Suite is an ordered set of checks against one deployment.
type Suite struct {
	Name    string        `mapstructure:"name"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Checks  []Check       `mapstructure:"checks"`
}

const defaultTimeout = 10 * time.Second

// DefaultChecks covers health, the dashboard, CORS, the catalog API and the
// wizard page.
func DefaultChecks() []Check {
	return []Check{
		{
			Name:           "health",
			Path:           "/health",
			ExpectContains: []string{`"status":"ok"`, "pow3r.cashout"},
		},
		{
			Name:           "api health",
			Path:           "/api/health",
			ExpectContains: []string{`"service":"pow3r.cashout"`},
		},
		{
			Name:           "dashboard",
			Path:           "/",
			ExpectContains: []string{"<title>", "pow3r.cashout", "New Post Flow"},
		},
		{
			Name: "cors headers",
			Path: "/health",
			ExpectHeaders: map[string]string{
				"Access-Control-Allow-Origin":  "",
				"Access-Control-Allow-Methods": "GET",
			},
		},
		{
			Name:         "cors preflight",
			Method:       http.MethodOptions,
			Path:         "/api/postflows",
			ExpectStatus: http.StatusNoContent,
			ExpectHeaders: map[string]string{
				"Access-Control-Allow-Headers": "Content-Type",
			},
		},
		{
			Name:           "catalog api",
			Path:           "/api/workflows",
			ExpectContains: []string{`"id":"new-post-flow"`, `"id":"garage"`},
		},
		{
			Name:           "wizard page",
			Path:           "/postflow/new",
			ExpectContains: []string{"New Post", `action="/postflow"`},
		},
		{
			Name:           "garage api",
			Path:           "/api/garage",
			ExpectContains: []string{`"items"`},
		},
	}
}

func DefaultSuite(baseURL string) Suite {
	return Suite{Name: "default", BaseURL: baseURL, Timeout: defaultTimeout, Checks: DefaultChecks()}
}

// ResolveTarget turns local, live or an explicit URL into a base URL.
func ResolveTarget(target string) (string, error) {
	switch target {
	case "", "local":
		return strings.TrimRight(config.GetSystemSettingString(config.SMOKE_LOCAL_URL), "/"), nil
	case "live":
		live := config.GetSystemSettingString(config.SMOKE_LIVE_URL)
		if live == "" {
			return "", fmt.Errorf("%s must be set to smoke test the live deployment", config.SMOKE_LIVE_URL)
		}
		return strings.TrimRight(live, "/"), nil
	}
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("target must be local, live or an http(s) URL, got %q", target)
	}
	return strings.TrimRight(target, "/"), nil
}
