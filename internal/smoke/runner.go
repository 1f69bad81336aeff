package smoke

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Result is the outcome of one check.
type Result struct {
	Check    Check
	Status   int
	Duration time.Duration
	// Failures lists every unmet expectation. Empty means the check passed.
	Failures []string
}

func (r Result) Passed() bool {
	return len(r.Failures) == 0
}

// Report collects the results of one suite run.
type Report struct {
	Suite    string
	BaseURL  string
	Results  []Result
	Duration time.Duration
}

// Failed returns the number of checks that did not pass.
func (r Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if !res.Passed() {
			n++
		}
	}
	return n
}

type Runner struct {
	client *http.Client
}

// NewRunner returns a runner whose requests time out after timeout.
// Redirects are not followed so checks see the raw status.
func NewRunner(timeout time.Duration) *Runner {
	return &Runner{client: &http.Client{
		Timeout: timeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}}
}

// Run executes the checks in order. It never stops early; a cancelled
// context fails the remaining checks.
func (r *Runner) Run(ctx context.Context, s Suite) Report {
	start := time.Now()
	report := Report{Suite: s.Name, BaseURL: s.BaseURL}
	for _, c := range s.Checks {
		res := r.runCheck(ctx, s.BaseURL, c)
		if res.Passed() {
			slog.Debug("Smoke check passed", "check", c.Name, "status", res.Status, "duration", res.Duration)
		} else {
			slog.Warn("Smoke check failed", "check", c.Name, "status", res.Status, "failures", res.Failures)
		}
		report.Results = append(report.Results, res)
	}
	report.Duration = time.Since(start)
	return report
}

func (r *Runner) runCheck(ctx context.Context, baseURL string, c Check) (res Result) {
	res.Check = c
	start := time.Now()
	defer func() { res.Duration = time.Since(start) }()

	var body io.Reader
	if c.Body != "" {
		body = strings.NewReader(c.Body)
	}
	req, err := http.NewRequestWithContext(ctx, c.method(), baseURL+c.Path, body)
	if err != nil {
		res.Failures = append(res.Failures, fmt.Sprintf("building request: %v", err))
		return res
	}
	if c.Body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.method() == http.MethodOptions {
		req.Header.Set("Origin", baseURL)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		res.Failures = append(res.Failures, fmt.Sprintf("request failed: %v", err))
		return res
	}
	defer resp.Body.Close()
	res.Status = resp.StatusCode

	if want := c.expectStatus(); resp.StatusCode != want {
		res.Failures = append(res.Failures, fmt.Sprintf("status %d, want %d", resp.StatusCode, want))
	}
	for name, want := range c.ExpectHeaders {
		got := resp.Header.Get(name)
		switch {
		case got == "":
			res.Failures = append(res.Failures, fmt.Sprintf("missing header %s", http.CanonicalHeaderKey(name)))
		case want != "" && !strings.Contains(got, want):
			res.Failures = append(res.Failures, fmt.Sprintf("header %s = %q, want it to contain %q", http.CanonicalHeaderKey(name), got, want))
		}
	}
	if len(c.ExpectContains) > 0 {
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			res.Failures = append(res.Failures, fmt.Sprintf("reading body: %v", err))
			return res
		}
		text := string(b)
		for _, want := range c.ExpectContains {
			if !strings.Contains(text, want) {
				res.Failures = append(res.Failures, fmt.Sprintf("body does not contain %q", want))
			}
		}
	}
	return res
}
