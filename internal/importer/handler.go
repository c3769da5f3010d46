package importer

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// ErrUnsupportedFormat is returned when neither the filename extension nor
// the content type identifies a supported format.
var ErrUnsupportedFormat = errors.New("unsupported file format; supported formats: XLSX, XLS, CSV, XML")

// Process runs the full pipeline on one uploaded file: format detection,
// parsing, per-table classification, cross-table grouping, and mapping
// suggestions. The returned error is fatal (unknown format, undecodable or
// unreadable file); every partial failure instead lands in Outcome.Errors
// and the remaining tables still process. Process never panics to its
// caller.
func Process(file RawFile) (outcome *Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("import parse panic", "file", file.Name, "panic", r)
			outcome = nil
			err = fmt.Errorf("error parsing file %q: %v", file.Name, r)
		}
	}()

	format := DetectFormat(file.Name, file.ContentType)
	if format == FormatUnknown {
		return nil, ErrUnsupportedFormat
	}

	switch format {
	case FormatWorkbook, FormatLegacyWorkbook:
		outcome, err = workbookOutcome(file.Data)
	case FormatDelimited:
		outcome, err = delimitedOutcome(file.Data)
	case FormatMarkup:
		outcome, err = markupOutcome(file.Data)
	}
	if err != nil {
		return nil, err
	}

	outcome.FileType = format
	attachSuggestions(outcome)
	return outcome, nil
}

func newOutcome() *Outcome {
	return &Outcome{
		Sheets:     []SheetInfo{},
		DataByType: map[DomainType][]Record{},
		Errors:     []string{},
	}
}

// workbookOutcome classifies every parsed sheet and merges records of the
// same detected type across sheets into one list.
func workbookOutcome(data []byte) (*Outcome, error) {
	tables, sheetErrs, warnings, err := ParseWorkbook(data)
	if err != nil {
		return nil, err
	}

	outcome := newOutcome()
	for _, sheetErr := range sheetErrs {
		outcome.Errors = append(outcome.Errors, sheetErr.Error())
	}
	for _, warning := range warnings {
		slog.Warn("workbook parse", "warning", warning)
	}

	for _, table := range tables {
		detected, confidence := Classify(table.Columns)
		if detected == TypeUnclassified {
			slog.Warn("could not detect sheet type",
				"sheet", table.Name, "columns", strings.Join(table.Columns, ","))
		} else if confidence < LowConfidence {
			slog.Warn("low confidence sheet classification",
				"sheet", table.Name, "type", detected, "confidence", confidence)
		}

		outcome.Sheets = append(outcome.Sheets, SheetInfo{
			Name:    table.Name,
			Type:    detected,
			Rows:    len(table.Rows),
			Columns: table.Columns,
		})
		if detected != TypeUnclassified {
			outcome.DataByType[detected] = append(outcome.DataByType[detected], table.Rows...)
		}
	}
	return outcome, nil
}

// delimitedOutcome wraps the single CSV table, classified with the weighted
// string-scoring variant.
func delimitedOutcome(data []byte) (*Outcome, error) {
	table, err := ParseDelimited(data)
	if err != nil {
		return nil, err
	}

	detected, score := ClassifyDelimited(table.Columns)
	if detected == TypeUnclassified {
		slog.Warn("could not reliably detect CSV type",
			"columns", strings.Join(table.Columns, ","))
	} else {
		slog.Info("detected CSV type", "type", detected, "score", score)
	}

	outcome := newOutcome()
	outcome.Sheets = append(outcome.Sheets, SheetInfo{
		Name:    table.Name,
		Type:    detected,
		Rows:    len(table.Rows),
		Columns: table.Columns,
	})
	if detected != TypeUnclassified {
		outcome.DataByType[detected] = table.Rows
	}
	return outcome, nil
}

// markupOutcome passes through the tree parser's inline grouping, deriving
// table metadata from each group.
func markupOutcome(data []byte) (*Outcome, error) {
	grouped, err := ParseMarkup(data)
	if err != nil {
		return nil, err
	}

	outcome := newOutcome()
	for _, domainType := range DomainTypes {
		records := grouped[domainType]
		if len(records) == 0 {
			continue
		}
		outcome.Sheets = append(outcome.Sheets, SheetInfo{
			Name:    "XML " + titleCase(string(domainType)),
			Type:    domainType,
			Rows:    len(records),
			Columns: recordColumns(records[0]),
		})
		outcome.DataByType[domainType] = records
	}
	return outcome, nil
}

func attachSuggestions(outcome *Outcome) {
	for i := range outcome.Sheets {
		sheet := &outcome.Sheets[i]
		if sheet.Type == TypeUnclassified {
			continue
		}
		if len(outcome.DataByType[sheet.Type]) == 0 {
			continue
		}
		if suggestions := SuggestMappings(sheet.Columns, sheet.Type); len(suggestions) > 0 {
			sheet.SuggestedMappings = suggestions
		}
	}
}

func recordColumns(rec Record) []string {
	columns := make([]string, 0, len(rec))
	for key := range rec {
		columns = append(columns, key)
	}
	sort.Strings(columns)
	return columns
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
