package output

import (
	"github.com/abdul-hamid-achik/crudspec/packages/catalog"
	"github.com/abdul-hamid-achik/crudspec/packages/core/runner"
	"github.com/abdul-hamid-achik/crudspec/packages/store"
)

// Status is the rendered condition of one step
type Status string

const (
	StatusResponse Status = "response"
	StatusError    Status = "error"
	StatusLoading  Status = "loading"
	StatusNeverRun Status = "never-run"
)

// Row is a catalog step joined with its entry in the result store
type Row struct {
	Step    catalog.Step
	State   store.State
	Present bool
}

func (r Row) Status() Status {
	switch {
	case !r.Present:
		return StatusNeverRun
	case r.State.Loading:
		return StatusLoading
	}
	if _, failed := r.State.Err(); failed {
		return StatusError
	}
	return StatusResponse
}

// Report is what formatters render: the run that just finished and the
// whole catalog as the store sees it
type Report struct {
	Run  *runner.RunResult
	Rows []Row
}

// Counts tallies rows by status
type Counts struct {
	Total     int `json:"total"`
	Responses int `json:"responses"`
	Errors    int `json:"errors"`
	Loading   int `json:"loading"`
	NeverRun  int `json:"neverRun"`
}

// NewReport reads every catalog step from s in catalog order
func NewReport(run *runner.RunResult, c *catalog.Catalog, s *store.Store) *Report {
	snapshot := s.Snapshot()

	report := &Report{Run: run}
	for _, step := range c.Steps() {
		state, ok := snapshot[step.ID]
		report.Rows = append(report.Rows, Row{Step: step, State: state, Present: ok})
	}
	return report
}

func (r *Report) Counts() Counts {
	c := Counts{Total: len(r.Rows)}
	for _, row := range r.Rows {
		switch row.Status() {
		case StatusResponse:
			c.Responses++
		case StatusError:
			c.Errors++
		case StatusLoading:
			c.Loading++
		case StatusNeverRun:
			c.NeverRun++
		}
	}
	return c
}

// detail is the one-line text shown next to a settled step
func (r Row) detail() string {
	if ne, failed := r.State.Err(); failed {
		if ne.Status != 0 {
			return formatStatus(ne.Status, ne.Display())
		}
		return ne.Display()
	}
	if o, ok := r.State.Response(); ok {
		return formatStatus(o.Status, o.StatusText)
	}
	return ""
}
