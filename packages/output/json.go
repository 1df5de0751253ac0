package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/crudspec/packages/store"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	RunID       string      `json:"runId,omitempty"`
	Summary     JSONSummary `json:"summary"`
	Steps       []JSONStep  `json:"steps"`
	Interrupted bool        `json:"interrupted,omitempty"`
	Duration    float64     `json:"duration"`
	Time        string      `json:"time"`
}

// JSONSummary counts steps by status, with run latencies in milliseconds
type JSONSummary struct {
	Counts
	Latency *JSONLatency `json:"latency,omitempty"`
}

type JSONLatency struct {
	Min  float64 `json:"min"`
	Mean float64 `json:"mean"`
	P50  float64 `json:"p50"`
	P95  float64 `json:"p95"`
	P99  float64 `json:"p99"`
	Max  float64 `json:"max"`
}

// JSONStep is one catalog step and its store entry. State is omitted for
// steps that never ran.
type JSONStep struct {
	ID       string         `json:"id"`
	Title    string         `json:"title,omitempty"`
	Method   string         `json:"method"`
	Endpoint string         `json:"endpoint"`
	Body     map[string]any `json:"body,omitempty"`
	Status   Status         `json:"status"`
	State    *store.State   `json:"state,omitempty"`
	Duration float64        `json:"duration,omitempty"`
}

// JSONFormatter accumulates a report and writes it on Flush
type JSONFormatter struct {
	writer io.Writer
	output JSONOutput
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer: os.Stdout,
		output: JSONOutput{Steps: make([]JSONStep, 0)},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatResult(report *Report) {
	steps := make([]JSONStep, 0, len(report.Rows))
	for _, row := range report.Rows {
		step := JSONStep{
			ID:       row.Step.ID,
			Title:    row.Step.Title,
			Method:   row.Step.Method,
			Endpoint: row.Step.Endpoint,
			Body:     row.Step.Body,
			Status:   row.Status(),
		}
		if row.Present {
			state := row.State
			step.State = &state
			step.Duration = ms(state.Duration())
		}
		steps = append(steps, step)
	}

	f.output.Steps = steps
	f.output.Summary = JSONSummary{Counts: report.Counts()}

	if run := report.Run; run != nil {
		f.output.RunID = run.ID
		f.output.Interrupted = run.Interrupted
		if run.Latency.Count > 0 {
			f.output.Summary.Latency = &JSONLatency{
				Min:  ms(run.Latency.Min),
				Mean: ms(run.Latency.Mean),
				P50:  ms(run.Latency.P50),
				P95:  ms(run.Latency.P95),
				P99:  ms(run.Latency.P99),
				Max:  ms(run.Latency.Max),
			}
		}
	}
}

func (f *JSONFormatter) FormatError(err error) {
	// Errors are part of each step's state
}

func (f *JSONFormatter) FormatHeader(version string) {
	// No header needed for JSON output
}

// Flush writes the accumulated JSON output
func (f *JSONFormatter) Flush(totalDuration time.Duration) error {
	f.output.Duration = ms(totalDuration)
	f.output.Time = time.Now().Format(time.RFC3339)

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(f.output)
}

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
