package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/iankiku/preflight/pkg/types"
)

var severityColors = map[types.Severity]*color.Color{
	types.SeverityCritical: color.New(color.FgRed, color.Bold),
	types.SeverityHigh:     color.New(color.FgRed),
	types.SeverityMedium:   color.New(color.FgYellow),
	types.SeverityLow:      color.New(color.FgCyan),
	types.SeverityInfo:     color.New(color.FgWhite),
}

func colorize(sev types.Severity) string {
	c, ok := severityColors[sev]
	if !ok {
		return string(sev)
	}
	return c.Sprint(strings.ToUpper(string(sev)))
}

func scoreColor(score int) *color.Color {
	switch {
	case score >= 80:
		return color.New(color.FgGreen, color.Bold)
	case score >= 50:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

// WriteTable renders findings as an aligned human-readable table followed by
// a score summary.
func WriteTable(w io.Writer, findings []types.Finding, score int) error {
	if len(findings) == 0 {
		fmt.Fprintln(w, "No findings.")
		fmt.Fprintf(w, "Score: %s\n", scoreColor(score).Sprintf("%d/100", score))
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEVERITY\tRULE\tLOCATION\tMESSAGE")
	for _, f := range findings {
		loc := fmt.Sprintf("%s:%d", f.Location.File, f.Location.StartLine)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", colorize(f.Severity), f.RuleID, loc, f.Message)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	summary := Summarize(findings, score)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d finding(s)", summary.Total)
	for _, sev := range []types.Severity{
		types.SeverityCritical,
		types.SeverityHigh,
		types.SeverityMedium,
		types.SeverityLow,
		types.SeverityInfo,
	} {
		if n := summary.BySeverity[string(sev)]; n > 0 {
			fmt.Fprintf(w, "  %s: %d", colorize(sev), n)
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Score: %s\n", scoreColor(score).Sprintf("%d/100", score))
	return nil
}
