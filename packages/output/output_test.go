package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/abdul-hamid-achik/crudspec/packages/catalog"
	"github.com/abdul-hamid-achik/crudspec/packages/core/runner"
	"github.com/abdul-hamid-achik/crudspec/packages/metrics"
	"github.com/abdul-hamid-achik/crudspec/packages/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// sampleReport has one response, one error, one loading step and leaves
// the rest of the default catalog unrun
func sampleReport(t *testing.T) *Report {
	t.Helper()
	s := store.New()

	require.NoError(t, s.Apply("root", store.Settled(store.Outcome{
		Data:       map[string]any{"message": "Users API is running"},
		Status:     200,
		StatusText: "OK",
		Duration:   3 * time.Millisecond,
	})))
	require.NoError(t, s.Apply("post-user-invalid", store.Settled(store.NormalizedError{
		Kind:     store.KindServer,
		Message:  "Name and age are required",
		Status:   400,
		Payload:  map[string]any{"error": "Name and age are required"},
		Duration: 2 * time.Millisecond,
	})))
	require.NoError(t, s.Apply("get-all-users", store.Loading()))

	latency := metrics.NewLatency()
	latency.Record(3*time.Millisecond, false)
	latency.Record(2*time.Millisecond, true)

	run := &runner.RunResult{
		ID:        "3f1c2a9e-0000-4000-8000-000000000001",
		StartedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Duration:  20 * time.Millisecond,
		Responses: 1,
		Errors:    1,
		Latency:   latency.Summary(),
	}
	return NewReport(run, catalog.Default(), s)
}

func TestReport_RowsAndCounts(t *testing.T) {
	report := sampleReport(t)

	require.Len(t, report.Rows, catalog.Default().Len())
	assert.Equal(t, "root", report.Rows[0].Step.ID)

	statuses := map[string]Status{}
	for _, row := range report.Rows {
		statuses[row.Step.ID] = row.Status()
	}
	assert.Equal(t, StatusResponse, statuses["root"])
	assert.Equal(t, StatusError, statuses["post-user-invalid"])
	assert.Equal(t, StatusLoading, statuses["get-all-users"])
	assert.Equal(t, StatusNeverRun, statuses["drop-users-table"])

	assert.Equal(t, Counts{Total: 16, Responses: 1, Errors: 1, Loading: 1, NeverRun: 13}, report.Counts())
}

func TestConsoleFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))

	f.FormatHeader("1.0.0")
	f.FormatResult(sampleReport(t))
	out := buf.String()

	assert.Contains(t, out, "crudspec 1.0.0")
	assert.Contains(t, out, "✓ GET")
	assert.Contains(t, out, "200 OK")
	assert.Contains(t, out, `✗ POST`)
	assert.Contains(t, out, `400 {"error":"Name and age are required"}`)
	assert.Contains(t, out, "never run")
	assert.Contains(t, out, "loading")
	assert.Contains(t, out, "1 responses, 1 errors, 1 loading, 13 never run, 16 total")
	assert.Contains(t, out, "Latency: p50")
	assert.NotContains(t, out, "Run:")
}

func TestConsoleFormatter_Verbose(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true), WithVerbose(true))

	f.FormatResult(sampleReport(t))
	out := buf.String()

	assert.Contains(t, out, `Response: {"message":"Users API is running"}`)
	assert.Contains(t, out, "Error:")
	assert.Contains(t, out, "(server)")
	assert.Contains(t, out, `Body:     {"name":"Jane"}`)
	assert.Contains(t, out, "Run:     3f1c2a9e")
}

func TestConsoleFormatter_Progress(t *testing.T) {
	var buf bytes.Buffer
	quiet := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))
	quiet.Progress("root", store.Loading(), true)
	assert.Empty(t, buf.String())

	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true), WithVerbose(true))
	s := store.New()
	s.Subscribe(f.Progress)

	ticket := s.Begin("root")
	s.Settle(ticket, store.Outcome{Status: 200})
	s.Reset()

	assert.Equal(t, "  running root...\n", buf.String())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a b", truncate("a\nb", 10))
	assert.Equal(t, "abcde...", truncate("abcdefgh", 5))

	long := "a" + strings.Repeat("é", 100)
	got := truncate(long, 120)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "a"+strings.Repeat("é", 59)+"...", got)
}

func TestConsoleFormatter_FormatError(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))
	f.FormatError(errors.New("boom"))
	assert.Equal(t, "Error: boom\n", buf.String())
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(JSONWithWriter(&buf))

	f.FormatResult(sampleReport(t))
	require.NoError(t, f.Flush(20*time.Millisecond))

	var out struct {
		RunID   string `json:"runId"`
		Summary struct {
			Total    int `json:"total"`
			Errors   int `json:"errors"`
			NeverRun int `json:"neverRun"`
			Latency  *struct {
				P95 float64 `json:"p95"`
			} `json:"latency"`
		} `json:"summary"`
		Steps []struct {
			ID     string          `json:"id"`
			Status string          `json:"status"`
			State  json.RawMessage `json:"state"`
		} `json:"steps"`
		Duration float64 `json:"duration"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, "3f1c2a9e-0000-4000-8000-000000000001", out.RunID)
	assert.Equal(t, 16, out.Summary.Total)
	assert.Equal(t, 1, out.Summary.Errors)
	assert.Equal(t, 13, out.Summary.NeverRun)
	require.NotNil(t, out.Summary.Latency)
	assert.Equal(t, 20.0, out.Duration)
	require.Len(t, out.Steps, 16)

	byID := map[string]int{}
	for i, s := range out.Steps {
		byID[s.ID] = i
	}

	root := out.Steps[byID["root"]]
	assert.Equal(t, "response", root.Status)
	assert.JSONEq(t, `{"response":{"data":{"message":"Users API is running"},"status":200,"statusText":"OK"},"error":null,"loading":false}`, string(root.State))

	invalid := out.Steps[byID["post-user-invalid"]]
	assert.Equal(t, "error", invalid.Status)
	assert.JSONEq(t, `{"response":null,"error":{"kind":"server","message":"Name and age are required","status":400,"payload":{"error":"Name and age are required"}},"loading":false}`, string(invalid.State))

	loading := out.Steps[byID["get-all-users"]]
	assert.JSONEq(t, `{"response":null,"error":null,"loading":true}`, string(loading.State))

	never := out.Steps[byID["drop-users-table"]]
	assert.Equal(t, "never-run", never.Status)
	assert.Empty(t, never.State)
}

func TestXLSXFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewXLSXFormatter(XLSXWithWriter(&buf))

	f.FormatResult(sampleReport(t))
	require.NoError(t, f.Flush(20*time.Millisecond))

	book, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer book.Close()

	assert.Equal(t, []string{"Steps", "Summary"}, book.GetSheetList())

	rows, err := book.GetRows("Steps")
	require.NoError(t, err)
	require.Len(t, rows, 17)
	assert.Equal(t, xlsxHeaders, rows[0])

	root := rows[1]
	assert.Equal(t, "root", root[1])
	assert.Equal(t, "response", root[6])
	assert.Equal(t, "200", root[7])

	var invalid []string
	for _, r := range rows[1:] {
		if r[1] == "post-user-invalid" {
			invalid = r
		}
	}
	require.NotNil(t, invalid)
	assert.Equal(t, "error", invalid[6])
	assert.Equal(t, "400", invalid[7])
	assert.Equal(t, `{"error":"Name and age are required"}`, invalid[8])

	last := rows[16]
	assert.Equal(t, "drop-users-table", last[1])
	assert.Equal(t, "never-run", last[6])

	runID, err := book.GetCellValue("Summary", "B1")
	require.NoError(t, err)
	assert.Equal(t, "3f1c2a9e-0000-4000-8000-000000000001", runID)
}

func TestXLSXFormatter_FlushWithoutResult(t *testing.T) {
	f := NewXLSXFormatter(XLSXWithWriter(&bytes.Buffer{}))
	assert.Error(t, f.Flush(0))
}
