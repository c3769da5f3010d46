package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// codecCandidates is the ordered list of encodings tried when decoding text
// input: UTF-8 first, then Latin-1 (ISO-8859-1) and Windows-1252. The first
// codec that decodes cleanly wins.
var codecCandidates = []struct {
	name string
	enc  encoding.Encoding
}{
	{"utf-8", unicode.UTF8},
	{"iso-8859-1", charmap.ISO8859_1},
	{"windows-1252", charmap.Windows1252},
}

// ErrUndecodable is returned when no candidate codec decodes the input.
var ErrUndecodable = errors.New("could not decode file with common encodings")

// sniffSampleSize bounds how much decoded text the delimiter sniffer looks at.
const sniffSampleSize = 1024

// decodeText decodes raw bytes using the codec fallback list. A UTF-8 BOM
// is stripped when present.
func decodeText(data []byte) (string, error) {
	if utf8.Valid(data) {
		s := string(data)
		return strings.TrimPrefix(s, "\ufeff"), nil
	}
	for _, candidate := range codecCandidates[1:] {
		decoded, err := candidate.enc.NewDecoder().Bytes(data)
		if err != nil {
			continue
		}
		return string(decoded), nil
	}
	return "", ErrUndecodable
}

// sniffDelimiter inspects the first ~1KB of decoded text and picks the
// delimiter candidate that occurs most often outside quoted regions of the
// header line, defaulting to comma. A header with strictly more semicolons
// than commas always selects semicolon; this corrects the common mis-sniff
// on semicolon-delimited exports.
func sniffDelimiter(text string) rune {
	sample := text
	if len(sample) > sniffSampleSize {
		sample = sample[:sniffSampleSize]
	}
	header, _, _ := strings.Cut(sample, "\n")

	counts := map[rune]int{}
	inQuotes := false
	for _, r := range header {
		switch r {
		case '"':
			inQuotes = !inQuotes
		case ',', ';', '\t', '|':
			if !inQuotes {
				counts[r]++
			}
		}
	}

	delimiter := ','
	best := 0
	for _, candidate := range []rune{',', ';', '\t', '|'} {
		if counts[candidate] > best {
			delimiter = candidate
			best = counts[candidate]
		}
	}
	if counts[';'] > counts[','] {
		delimiter = ';'
	}
	return delimiter
}

// ParseDelimited parses delimited text into exactly one Table (CSV has no
// concept of multiple sheets). Any returned error is fatal for the file.
func ParseDelimited(data []byte) (*Table, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, err
	}
	delimiter := sniffDelimiter(text)

	rows, err := readDelimitedRows(text, delimiter)
	if err != nil {
		// The strict reader chokes on malformed but common input (stray
		// quotes, ragged rows); retry with the manual splitter before
		// giving up.
		rows = splitRows(text, delimiter)
	}
	if len(rows) < 1 || rowIsEmpty(rows[0]) {
		return nil, errors.New("empty CSV file")
	}

	columns := make([]string, len(rows[0]))
	for i, col := range rows[0] {
		columns[i] = CleanColumn(col)
	}

	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if rowIsEmpty(row) {
			continue
		}
		record := make(Record, len(columns))
		for i, column := range columns {
			if column == "" {
				continue
			}
			raw := ""
			if i < len(row) {
				raw = row[i]
			}
			record[column] = cellValue(raw)
		}
		records = append(records, record)
	}
	if len(records) == 0 {
		return nil, errors.New("no data rows in CSV file")
	}

	return &Table{Name: "CSV Data", Columns: columns, Rows: records}, nil
}

func readDelimitedRows(text string, delimiter rune) ([][]string, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read delimited rows: %w", err)
	}
	return rows, nil
}

// splitRows is the fallback row splitter. It honors the same quote
// conventions as the primary reader: fields may be quoted with '"', a
// doubled quote inside a quoted field is an escaped quote, and the
// delimiter is literal inside quotes.
func splitRows(text string, delimiter rune) [][]string {
	var (
		rows     [][]string
		fields   []string
		field    strings.Builder
		inQuotes bool
	)
	runes := []rune(strings.ReplaceAll(text, "\r\n", "\n"))

	endField := func() {
		fields = append(fields, field.String())
		field.Reset()
	}
	endRow := func() {
		endField()
		rows = append(rows, fields)
		fields = nil
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				field.WriteRune('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case r == delimiter && !inQuotes:
			endField()
		case r == '\n' && !inQuotes:
			endRow()
		default:
			field.WriteRune(r)
		}
	}
	if field.Len() > 0 || len(fields) > 0 {
		endRow()
	}
	return rows
}
