// Package importer implements the multi-format import pipeline: format
// detection, per-format parsing (XLSX workbooks, delimited text, XML trees),
// record-type classification, and value normalization. The package has no
// persistence dependencies; it turns an uploaded file into classified,
// cleaned records that the core layer validates and inserts.
package importer

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// DomainType identifies the business entity a table or record represents.
type DomainType string

const (
	TypeAuthor   DomainType = "author"
	TypeBook     DomainType = "book"
	TypeCustomer DomainType = "customer"
	TypeEmployee DomainType = "employee"
	TypeOrder    DomainType = "order"

	// TypeUnclassified marks a table whose columns matched no signature.
	TypeUnclassified DomainType = "unclassified"
)

// DomainTypes lists the classifiable types in declaration order.
// Classification ties are broken by this order.
var DomainTypes = []DomainType{TypeAuthor, TypeBook, TypeCustomer, TypeEmployee, TypeOrder}

// Format is the detected file format of an upload.
type Format string

const (
	FormatWorkbook       Format = "xlsx"
	FormatLegacyWorkbook Format = "xls"
	FormatDelimited      Format = "csv"
	FormatMarkup         Format = "xml"
	FormatUnknown        Format = ""
)

// ValueKind discriminates the variants of Value.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindString
	KindNumber
	KindBool
	KindNested
)

// Value is a single parsed field value. It is a closed sum over the shapes
// the parsers can produce: string, number, bool, a nested record (XML), or
// the explicit null sentinel. The zero Value is null.
type Value struct {
	Kind   ValueKind
	Str    string
	Num    decimal.Decimal
	Bool   bool
	Nested Record
}

// Null returns the explicit "value absent" sentinel.
func Null() Value { return Value{Kind: KindNull} }

// Str wraps a string value.
func Str(s string) Value { return Value{Kind: KindString, Str: s} }

// Num wraps a numeric value.
func Num(d decimal.Decimal) Value { return Value{Kind: KindNumber, Num: d} }

// Boolean wraps a bool value.
func Boolean(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Nest wraps a nested record value.
func Nest(r Record) Value { return Value{Kind: KindNested, Nested: r} }

// IsNull reports whether the value is the null sentinel.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// IsEmpty reports whether the value is null or an empty string. Downstream
// field rules treat both as "absent"; only the normalization boundary
// distinguishes them.
func (v Value) IsEmpty() bool {
	return v.Kind == KindNull || (v.Kind == KindString && v.Str == "")
}

// String renders the value for display and for text-typed fields.
func (v Value) String() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return v.Num.String()
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindNested:
		b, _ := json.Marshal(v.Nested)
		return string(b)
	default:
		return ""
	}
}

// MarshalJSON writes each variant as its natural JSON shape; null sentinels
// become JSON null so the confirm/process round trip preserves them.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindString:
		return json.Marshal(v.Str)
	case KindNumber:
		return []byte(v.Num.String()), nil
	case KindBool:
		return json.Marshal(v.Bool)
	case KindNested:
		return json.Marshal(v.Nested)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON reverses MarshalJSON. JSON numbers are decoded through
// json.Number to avoid float64 precision loss on money columns.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	val, err := fromJSONValue(raw)
	if err != nil {
		return err
	}
	*v = val
	return nil
}

func fromJSONValue(raw any) (Value, error) {
	switch t := raw.(type) {
	case nil:
		return Null(), nil
	case string:
		return Str(t), nil
	case bool:
		return Boolean(t), nil
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q: %w", t.String(), err)
		}
		return Num(d), nil
	case map[string]any:
		rec := make(Record, len(t))
		for k, rv := range t {
			val, err := fromJSONValue(rv)
			if err != nil {
				return Value{}, err
			}
			rec[k] = val
		}
		return Nest(rec), nil
	default:
		return Value{}, fmt.Errorf("unsupported JSON value of type %T", raw)
	}
}

// Record is one row or element's worth of field-value pairs. Keys are
// lower-cased with internal whitespace replaced by underscores.
type Record map[string]Value

// Table is one logical rectangular dataset: a worksheet, a CSV file, or an
// XML container. Its identity is scoped to a single parse; it is discarded
// after classification and grouping.
type Table struct {
	Name    string
	Columns []string
	Rows    []Record
}

// SheetInfo is the per-table metadata surfaced to the upload UI.
type SheetInfo struct {
	Name              string            `json:"name"`
	Type              DomainType        `json:"type"`
	Rows              int               `json:"rows"`
	Columns           []string          `json:"columns"`
	SuggestedMappings map[string]string `json:"suggested_mappings,omitempty"`
}

// Outcome is the terminal result of one import attempt.
type Outcome struct {
	FileType   Format                  `json:"file_type"`
	Sheets     []SheetInfo             `json:"sheets_info"`
	DataByType map[DomainType][]Record `json:"data_by_type"`
	Errors     []string                `json:"errors"`
}

// RawFile is an uploaded byte stream plus its declared name and content type.
type RawFile struct {
	Name        string
	ContentType string
	Data        []byte
}
