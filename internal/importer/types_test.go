package importer

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValueJSONRoundTrip(t *testing.T) {
	original := Record{
		"title":     Str("Emma"),
		"cost":      Num(decimal.RequireFromString("4.50")),
		"in_print":  Boolean(true),
		"publisher": Null(),
		"address":   Nest(Record{"city": Str("Portland")}),
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded Record
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got := decoded["title"]; got.Kind != KindString || got.Str != "Emma" {
		t.Errorf("title = %v", got)
	}
	if got := decoded["cost"]; got.Kind != KindNumber || got.Num.String() != "4.50" {
		t.Errorf("cost = %v, want exact 4.50", got)
	}
	if got := decoded["in_print"]; got.Kind != KindBool || !got.Bool {
		t.Errorf("in_print = %v", got)
	}
	if !decoded["publisher"].IsNull() {
		t.Errorf("publisher = %v, want null", decoded["publisher"])
	}
	nested := decoded["address"]
	if nested.Kind != KindNested || nested.Nested["city"].String() != "Portland" {
		t.Errorf("address = %v", nested)
	}
}

func TestValueString(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"string", Str("hello"), "hello"},
		{"number", Num(decimal.RequireFromString("12.990")), "12.990"},
		{"bool true", Boolean(true), "true"},
		{"bool false", Boolean(false), "false"},
		{"null", Null(), ""},
		{"zero value", Value{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValueIsEmpty(t *testing.T) {
	if !Null().IsEmpty() || !Str("").IsEmpty() {
		t.Error("null and empty string should both be empty")
	}
	if Str("x").IsEmpty() || Num(decimal.Zero).IsEmpty() || Boolean(false).IsEmpty() {
		t.Error("non-null values should not be empty")
	}
}

func TestValueUnmarshalInvalid(t *testing.T) {
	var v Value
	if err := v.UnmarshalJSON([]byte(`[1,2,3]`)); err == nil {
		t.Error("arrays are not a supported value shape")
	}
}
