package importer

import "fmt"

// Entry is one recorded error or warning: which row, which field, and what
// went wrong. Entries are immutable once created.
type Entry struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
	Kind    string `json:"type"`
}

func (e Entry) String() string {
	return fmt.Sprintf("row %d, field %s: %s", e.Row, e.Field, e.Message)
}

// Summary is the read-only view over an Accumulator's state.
type Summary struct {
	TotalProcessed int     `json:"total_processed"`
	Successful     int     `json:"successful"`
	Failed         int     `json:"failed"`
	Errors         []Entry `json:"errors"`
	Warnings       []Entry `json:"warnings"`
	HasErrors      bool    `json:"has_errors"`
}

// Accumulator collects per-row errors and warnings during an import run.
// It is append-only apart from Clear, which is used only between independent
// runs, never mid-run. Not safe for concurrent use; each import invocation
// constructs its own.
type Accumulator struct {
	errors       []Entry
	warnings     []Entry
	successCount int
	failedCount  int
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// AddError records a row-level error and counts the row as failed.
func (a *Accumulator) AddError(row int, field, message string) {
	a.errors = append(a.errors, Entry{Row: row, Field: field, Message: message, Kind: "error"})
	a.failedCount++
}

// AddWarning records a warning. Warnings never affect HasErrors.
func (a *Accumulator) AddWarning(row int, field, message string) {
	a.warnings = append(a.warnings, Entry{Row: row, Field: field, Message: message, Kind: "warning"})
}

// RecordSuccess counts one successfully processed row.
func (a *Accumulator) RecordSuccess() {
	a.successCount++
}

// Errors returns the recorded error entries.
func (a *Accumulator) Errors() []Entry {
	return a.errors
}

// Summary returns counters and the accumulated entries. HasErrors is true
// exactly when at least one error (not warning) was recorded.
func (a *Accumulator) Summary() Summary {
	return Summary{
		TotalProcessed: a.successCount + a.failedCount,
		Successful:     a.successCount,
		Failed:         a.failedCount,
		Errors:         a.errors,
		Warnings:       a.warnings,
		HasErrors:      len(a.errors) > 0,
	}
}

// Clear resets all entries and counters.
func (a *Accumulator) Clear() {
	a.errors = nil
	a.warnings = nil
	a.successCount = 0
	a.failedCount = 0
}
