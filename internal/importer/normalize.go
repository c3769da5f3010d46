package importer

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FieldType is the declared target type for a field, used by Normalize and
// by the validation pass in core.
type FieldType string

const (
	FieldText    FieldType = "text"
	FieldInteger FieldType = "integer"
	FieldDecimal FieldType = "decimal"
	FieldBoolean FieldType = "boolean"
)

// nullTokens is the single null-token set shared by all parsers. The original
// implementation carried slightly different lists per parser ("N/A" only in
// the delimited parser, "nil" only in the tree parser); the superset is used
// uniformly so null handling behaves the same regardless of input format.
var nullTokens = map[string]struct{}{
	"":     {},
	"null": {},
	"none": {},
	"nan":  {},
	"n/a":  {},
	"#n/a": {},
	"nil":  {},
}

// IsNullToken reports whether the trimmed, lower-cased form of s is one of
// the recognized null-like tokens.
func IsNullToken(s string) bool {
	_, ok := nullTokens[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// truthyTokens are the string spellings coerced to true by Normalize when
// the declared type is boolean.
var truthyTokens = map[string]struct{}{
	"true": {}, "yes": {}, "1": {}, "t": {}, "y": {},
}

// CleanColumn canonicalizes a column or field name: trim, lower-case,
// internal whitespace to underscores.
func CleanColumn(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.Join(strings.Fields(name), "_")
}

// Normalize cleans a single scalar value against a declared field type.
//
// Textual values are trimmed; null-like tokens collapse to the null
// sentinel. Integer and decimal targets coerce numerically, degrading to
// null on unparseable input so the required-field check stays with the
// validation pass. Boolean targets map the usual truthy spellings; any other
// string is false, numbers are true when non-zero. Normalize is pure and
// never fails.
func Normalize(v Value, declared FieldType) Value {
	if v.Kind == KindString {
		trimmed := strings.TrimSpace(v.Str)
		if _, null := nullTokens[strings.ToLower(trimmed)]; null && trimmed != "" {
			v = Null()
		} else if trimmed == "" && declared != FieldText {
			v = Null()
		} else {
			v = Str(trimmed)
		}
	}
	if v.Kind == KindNull || v.Kind == KindNested {
		return v
	}

	switch declared {
	case FieldInteger:
		return normalizeInteger(v)
	case FieldDecimal:
		return normalizeDecimal(v)
	case FieldBoolean:
		return normalizeBoolean(v)
	default:
		return v
	}
}

func normalizeInteger(v Value) Value {
	switch v.Kind {
	case KindNumber:
		return Num(v.Num.Truncate(0))
	case KindString:
		d, err := decimal.NewFromString(v.Str)
		if err != nil || !d.Equal(d.Truncate(0)) {
			return Null()
		}
		return Num(d)
	case KindBool:
		if v.Bool {
			return Num(decimal.NewFromInt(1))
		}
		return Num(decimal.NewFromInt(0))
	default:
		return Null()
	}
}

func normalizeDecimal(v Value) Value {
	switch v.Kind {
	case KindNumber:
		return v
	case KindString:
		d, err := decimal.NewFromString(v.Str)
		if err != nil {
			return Null()
		}
		return Num(d)
	default:
		return Null()
	}
}

func normalizeBoolean(v Value) Value {
	switch v.Kind {
	case KindBool:
		return v
	case KindString:
		_, truthy := truthyTokens[strings.ToLower(v.Str)]
		return Boolean(truthy)
	case KindNumber:
		return Boolean(!v.Num.IsZero())
	default:
		return Null()
	}
}

// cellValue converts one tabular cell to its record value. Tabular parsers
// keep the looser empty-string convention: null-like tokens become "" rather
// than the null sentinel, because the field-level validation pass treats ""
// as the absent marker for spreadsheet and CSV input.
func cellValue(raw string) Value {
	trimmed := strings.TrimSpace(raw)
	if _, null := nullTokens[strings.ToLower(trimmed)]; null {
		return Str("")
	}
	return Str(trimmed)
}
