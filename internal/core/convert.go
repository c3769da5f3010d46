package core

// convert.go maps normalized import values onto pgx parameter types.
//
// All toPg* helpers return pgtype values with Valid=false for null/empty
// input, letting the database handle NULLs; the validation pass has already
// rejected rows where an absent value matters. Money-valued text tolerates
// currency symbols, thousands separators, and the accounting negative
// format "(123.45)".

import (
	"regexp"
	"strings"

	"github.com/bookshophere/bookshop/internal/importer"
	"github.com/jackc/pgx/v5/pgtype"
)

// numericRegex validates a numeric string after cleanup. Matches integers,
// decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// toPgText returns an invalid Text for null or blank values.
func toPgText(v importer.Value) pgtype.Text {
	s := strings.TrimSpace(v.String())
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

// toPgTextDefault substitutes def when the value is null or blank.
func toPgTextDefault(v importer.Value, def string) pgtype.Text {
	s := strings.TrimSpace(v.String())
	if s == "" {
		s = def
	}
	return pgtype.Text{String: s, Valid: true}
}

// toPgInt coerces through the normalizer so "1775", 1775, and 1775.0 all
// land as the same integer.
func toPgInt(v importer.Value) pgtype.Int4 {
	normalized := importer.Normalize(v, importer.FieldInteger)
	if normalized.Kind != importer.KindNumber {
		return pgtype.Int4{Valid: false}
	}
	return pgtype.Int4{Int32: int32(normalized.Num.IntPart()), Valid: true}
}

// toPgNumeric converts a money-ish value to pgtype.Numeric, stripping
// currency symbols and separators from textual input first.
func toPgNumeric(v importer.Value) pgtype.Numeric {
	if v.Kind == importer.KindString {
		v = importer.Str(cleanMoney(v.Str))
	}
	normalized := importer.Normalize(v, importer.FieldDecimal)
	if normalized.Kind != importer.KindNumber {
		return pgtype.Numeric{Valid: false}
	}
	var n pgtype.Numeric
	if err := n.Scan(normalized.Num.String()); err != nil {
		return pgtype.Numeric{Valid: false}
	}
	return n
}

// cleanMoney strips currency symbols and thousands separators and rewrites
// the accounting negative format. Returns the input unchanged when the
// result is not numeric, so the caller's normalization can reject it.
func cleanMoney(s string) string {
	cleaned := strings.TrimSpace(s)

	isNegative := false
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		isNegative = true
		cleaned = strings.TrimSpace(cleaned[1 : len(cleaned)-1])
	}

	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, "€", "") // Euro
	cleaned = strings.ReplaceAll(cleaned, "£", "") // Pound
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)

	if isNegative {
		cleaned = "-" + cleaned
	}

	if !numericRegex.MatchString(cleaned) {
		return s
	}
	return cleaned
}
