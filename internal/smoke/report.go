package smoke

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	purple = lipgloss.Color("99")
	green  = lipgloss.Color("76")
	red    = lipgloss.Color("204")
	dim    = lipgloss.Color("243")
)

var (
	accentStyle  = lipgloss.NewStyle().Foreground(purple)
	successStyle = lipgloss.NewStyle().Foreground(green)
	errorStyle   = lipgloss.NewStyle().Foreground(red)
	mutedStyle   = lipgloss.NewStyle().Foreground(dim)
	boldStyle    = lipgloss.NewStyle().Bold(true)
)

func successMsg(format string, a ...any) string {
	return successStyle.Render("✓") + " " + fmt.Sprintf(format, a...)
}

func errorMsg(format string, a ...any) string {
	return errorStyle.Render("✗") + " " + fmt.Sprintf(format, a...)
}

func infoMsg(format string, a ...any) string {
	return accentStyle.Render("●") + " " + fmt.Sprintf(format, a...)
}

// Render writes the console summary: one line per check, failure details
// indented below it, and a totals line.
func (r Report) Render(w io.Writer) {
	var b strings.Builder
	b.WriteString(infoMsg("%s %s", boldStyle.Render("smoke "+r.Suite), mutedStyle.Render(r.BaseURL)))
	b.WriteString("\n")
	for _, res := range r.Results {
		took := mutedStyle.Render(res.Duration.Round(time.Millisecond).String())
		if res.Passed() {
			b.WriteString("  " + successMsg("%s %s", res.Check.Name, took))
		} else {
			b.WriteString("  " + errorMsg("%s %s", res.Check.Name, took))
			for _, f := range res.Failures {
				b.WriteString("\n      " + mutedStyle.Render(f))
			}
		}
		b.WriteString("\n")
	}
	total := len(r.Results)
	if failed := r.Failed(); failed > 0 {
		b.WriteString(errorStyle.Render(fmt.Sprintf("%d of %d checks failed", failed, total)))
	} else {
		b.WriteString(successStyle.Render(fmt.Sprintf("all %d checks passed", total)))
	}
	b.WriteString("\n")
	_, _ = io.WriteString(w, b.String())
}
