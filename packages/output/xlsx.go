package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	stepsSheet   = "Steps"
	summarySheet = "Summary"

	errorBgColor    = "#F8CBAD"
	neverRunBgColor = "#FFF2CC"
)

var xlsxHeaders = []string{
	"#", "ID", "Title", "Method", "Endpoint", "Body",
	"Status", "HTTP Status", "Result", "Duration (ms)", "Expected Behavior",
}

var xlsxColumnWidths = []float64{5, 24, 32, 9, 24, 36, 11, 12, 60, 14, 48}

// XLSXFormatter writes the report as a spreadsheet with a Steps sheet and a
// Summary sheet
type XLSXFormatter struct {
	writer io.Writer
	file   *excelize.File
	err    error
}

type XLSXOption func(*XLSXFormatter)

func NewXLSXFormatter(opts ...XLSXOption) *XLSXFormatter {
	f := &XLSXFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func XLSXWithWriter(w io.Writer) XLSXOption {
	return func(f *XLSXFormatter) {
		f.writer = w
	}
}

func (f *XLSXFormatter) FormatResult(report *Report) {
	if f.file != nil {
		_ = f.file.Close()
	}
	f.file = excelize.NewFile()
	f.err = f.build(report)
}

func (f *XLSXFormatter) build(report *Report) error {
	x := f.file

	if err := x.SetSheetName("Sheet1", stepsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := x.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	errorStyle, err := fillStyle(x, errorBgColor)
	if err != nil {
		return err
	}
	neverRunStyle, err := fillStyle(x, neverRunBgColor)
	if err != nil {
		return err
	}

	for i, header := range xlsxHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := x.SetColWidth(stepsSheet, col, col, xlsxColumnWidths[i]); err != nil {
			return err
		}
		if err := x.SetCellValue(stepsSheet, col+"1", header); err != nil {
			return err
		}
	}
	if err := x.SetRowStyle(stepsSheet, 1, 1, headerStyle); err != nil {
		return err
	}

	for i, row := range report.Rows {
		r := i + 2
		cells := []any{
			i + 1,
			row.Step.ID,
			row.Step.Title,
			row.Step.Method,
			row.Step.Endpoint,
			"",
			string(row.Status()),
			"",
			"",
			"",
			row.Step.ExpectedBehavior,
		}
		if row.Step.HasBody() {
			cells[5] = formatValue(row.Step.Body, 1000)
		}
		if o, ok := row.State.Response(); ok {
			cells[7] = o.Status
			cells[8] = formatValue(o.Data, 1000)
			cells[9] = ms(o.Duration)
		}
		if ne, failed := row.State.Err(); failed {
			if ne.Status != 0 {
				cells[7] = ne.Status
			}
			cells[8] = ne.Display()
			cells[9] = ms(ne.Duration)
		}

		for c, value := range cells {
			cell, _ := excelize.CoordinatesToCellName(c+1, r)
			if err := x.SetCellValue(stepsSheet, cell, value); err != nil {
				return err
			}
		}

		first, _ := excelize.CoordinatesToCellName(1, r)
		last, _ := excelize.CoordinatesToCellName(len(cells), r)
		switch row.Status() {
		case StatusError:
			err = x.SetCellStyle(stepsSheet, first, last, errorStyle)
		case StatusNeverRun:
			err = x.SetCellStyle(stepsSheet, first, last, neverRunStyle)
		}
		if err != nil {
			return err
		}
	}

	return f.writeSummary(report)
}

func (f *XLSXFormatter) writeSummary(report *Report) error {
	x := f.file
	if _, err := x.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	if err := x.SetColWidth(summarySheet, "A", "A", 18); err != nil {
		return err
	}
	if err := x.SetColWidth(summarySheet, "B", "B", 40); err != nil {
		return err
	}

	counts := report.Counts()
	rows := [][2]any{
		{"Steps", counts.Total},
		{"Responses", counts.Responses},
		{"Errors", counts.Errors},
		{"Loading", counts.Loading},
		{"Never run", counts.NeverRun},
	}
	if run := report.Run; run != nil {
		rows = append([][2]any{
			{"Run", run.ID},
			{"Started", run.StartedAt.Format(time.RFC3339)},
			{"Duration (ms)", ms(run.Duration)},
		}, rows...)
		if run.Latency.Count > 0 {
			rows = append(rows,
				[2]any{"p50 (ms)", ms(run.Latency.P50)},
				[2]any{"p95 (ms)", ms(run.Latency.P95)},
				[2]any{"p99 (ms)", ms(run.Latency.P99)},
				[2]any{"max (ms)", ms(run.Latency.Max)},
			)
		}
		if run.Interrupted {
			rows = append(rows, [2]any{"Interrupted", true})
		}
	}

	for i, kv := range rows {
		if err := x.SetCellValue(summarySheet, fmt.Sprintf("A%d", i+1), kv[0]); err != nil {
			return err
		}
		if err := x.SetCellValue(summarySheet, fmt.Sprintf("B%d", i+1), kv[1]); err != nil {
			return err
		}
	}
	return nil
}

func fillStyle(x *excelize.File, color string) (int, error) {
	return x.NewStyle(&excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{color},
		},
	})
}

func (f *XLSXFormatter) FormatError(err error) {
	// Errors are part of each step's row
}

func (f *XLSXFormatter) FormatHeader(version string) {
	// No header needed for spreadsheets
}

// Flush writes the workbook built by the last FormatResult
func (f *XLSXFormatter) Flush(totalDuration time.Duration) error {
	if f.file == nil {
		return fmt.Errorf("no report to write")
	}
	defer func() {
		_ = f.file.Close()
		f.file = nil
	}()

	if f.err != nil {
		return fmt.Errorf("building xlsx report: %w", f.err)
	}
	if err := f.file.Write(f.writer); err != nil {
		return fmt.Errorf("writing xlsx report: %w", err)
	}
	return nil
}
