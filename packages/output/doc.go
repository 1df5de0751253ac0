// Package output renders a suite run and the result store.
//
// Supported output formats:
//   - Console: Human-readable colored terminal output
//   - JSON: Machine-readable JSON output
//   - XLSX: Spreadsheet report with one row per step
//
// Each formatter renders a Report. Formatters that accumulate rows before
// writing implement Flush.
package output
