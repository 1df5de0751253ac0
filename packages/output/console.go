package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/abdul-hamid-achik/crudspec/packages/store"
	"github.com/fatih/color"
)

const maxValueLen = 120

// formatValue formats a value for display, truncating or summarizing large values
func formatValue(v any, maxLen int) string {
	switch val := v.(type) {
	case nil:
		return "(empty)"
	case []any:
		return fmt.Sprintf("[array with %d items]", len(val))
	case string:
		return truncate(val, maxLen)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return truncate(fmt.Sprintf("%v", v), maxLen)
	}
	return truncate(string(b), maxLen)
}

// truncate cuts s to at most maxLen bytes, backing off to a rune boundary
func truncate(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

func formatStatus(code int, text string) string {
	if text == "" {
		return fmt.Sprintf("%d", code)
	}
	return fmt.Sprintf("%d %s", code, text)
}

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%dms", d.Milliseconds())
}

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) FormatResult(report *Report) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	fmt.Fprintf(f.writer, "\n")

	for _, row := range report.Rows {
		step := row.Step
		label := fmt.Sprintf("%-6s %-22s %s", step.Method, step.Endpoint, faint(step.ID))

		switch row.Status() {
		case StatusNeverRun:
			fmt.Fprintf(f.writer, "  %s %s %s\n", yellow("-"), label, yellow("never run"))
			continue
		case StatusLoading:
			fmt.Fprintf(f.writer, "  %s %s %s\n", cyan("…"), label, cyan("loading"))
			continue
		case StatusError:
			fmt.Fprintf(f.writer, "  %s %s %s %s\n", red("✗"), label, red(truncate(row.detail(), maxValueLen)),
				cyan(fmt.Sprintf("(%s)", formatDuration(row.State.Duration()))))
		case StatusResponse:
			fmt.Fprintf(f.writer, "  %s %s %s %s\n", green("✓"), label, green(row.detail()),
				cyan(fmt.Sprintf("(%s)", formatDuration(row.State.Duration()))))
		}

		if f.verbose {
			f.formatDetails(row)
		}
	}

	counts := report.Counts()
	fmt.Fprintf(f.writer, "\n")
	fmt.Fprintf(f.writer, "Steps:   ")
	if counts.Responses > 0 {
		fmt.Fprintf(f.writer, "%s, ", green(fmt.Sprintf("%d responses", counts.Responses)))
	}
	if counts.Errors > 0 {
		fmt.Fprintf(f.writer, "%s, ", red(fmt.Sprintf("%d errors", counts.Errors)))
	}
	if counts.Loading > 0 {
		fmt.Fprintf(f.writer, "%s, ", cyan(fmt.Sprintf("%d loading", counts.Loading)))
	}
	if counts.NeverRun > 0 {
		fmt.Fprintf(f.writer, "%s, ", yellow(fmt.Sprintf("%d never run", counts.NeverRun)))
	}
	fmt.Fprintf(f.writer, "%d total\n", counts.Total)

	if run := report.Run; run != nil {
		if run.Latency.Count > 0 {
			fmt.Fprintf(f.writer, "Latency: p50 %s, p95 %s, p99 %s, max %s\n",
				formatDuration(run.Latency.P50),
				formatDuration(run.Latency.P95),
				formatDuration(run.Latency.P99),
				formatDuration(run.Latency.Max))
		}
		fmt.Fprintf(f.writer, "Time:    %dms\n", run.Duration.Milliseconds())
		if run.Interrupted {
			fmt.Fprintf(f.writer, "%s\n", yellow("Run interrupted"))
		}
		if f.verbose {
			fmt.Fprintf(f.writer, "Run:     %s\n", run.ID)
		}
	}
	fmt.Fprintf(f.writer, "\n")
}

func (f *ConsoleFormatter) formatDetails(row Row) {
	if row.Step.Title != "" {
		fmt.Fprintf(f.writer, "    %s\n", row.Step.Title)
	}
	if row.Step.ExpectedBehavior != "" {
		fmt.Fprintf(f.writer, "    Expected: %s\n", row.Step.ExpectedBehavior)
	}
	if row.Step.HasBody() {
		fmt.Fprintf(f.writer, "    Body:     %s\n", formatValue(row.Step.Body, maxValueLen))
	}
	if o, ok := row.State.Response(); ok {
		fmt.Fprintf(f.writer, "    Response: %s\n", formatValue(o.Data, maxValueLen))
	}
	if ne, failed := row.State.Err(); failed {
		fmt.Fprintf(f.writer, "    Error:    %s (%s)\n", truncate(ne.Display(), maxValueLen), ne.Kind)
	}
}

// Progress is a store listener that prints each step as it starts. Only
// verbose mode shows progress.
func (f *ConsoleFormatter) Progress(id string, state store.State, present bool) {
	if !f.verbose || !present || !state.Loading {
		return
	}
	faint := color.New(color.Faint).SprintFunc()
	fmt.Fprintf(f.writer, "%s\n", faint(fmt.Sprintf("  running %s...", id)))
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("crudspec"), version)
}
