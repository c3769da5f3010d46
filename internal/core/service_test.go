package core

import (
	"testing"

	"github.com/bookshophere/bookshop/internal/importer"
)

func TestApplyMappings(t *testing.T) {
	record := importer.Record{
		"surname":    importer.Str("Austen"),
		"given_name": importer.Str("Jane"),
		"born":       importer.Str("1775"),
	}

	mapped := applyMappings(record, map[string]string{
		"last_name":  "Surname",
		"first_name": "given_name",
		"death_year": "died",
	})

	if got := mapped["last_name"].String(); got != "Austen" {
		t.Errorf("last_name = %q (source column lookup is case-insensitive)", got)
	}
	if got := mapped["first_name"].String(); got != "Jane" {
		t.Errorf("first_name = %q", got)
	}
	if _, ok := mapped["death_year"]; ok {
		t.Error("mapping to a missing source column should be omitted")
	}
	if _, ok := mapped["born"]; ok {
		t.Error("unmapped source columns should not pass through")
	}
}

func TestApplyMappings_EmptyPassThrough(t *testing.T) {
	record := importer.Record{"last_name": importer.Str("Austen")}

	if got := applyMappings(record, nil); len(got) != 1 || got["last_name"].String() != "Austen" {
		t.Errorf("applyMappings(nil) = %v, want record unchanged", got)
	}
	if got := applyMappings(record, map[string]string{}); len(got) != 1 {
		t.Errorf("applyMappings(empty) = %v, want record unchanged", got)
	}
}

func TestRecordIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		rec  importer.Record
		want bool
	}{
		{"no fields", importer.Record{}, true},
		{"all null", importer.Record{"a": importer.Null(), "b": importer.Null()}, true},
		{"all blank strings", importer.Record{"a": importer.Str(""), "b": importer.Str("")}, true},
		{"one value", importer.Record{"a": importer.Str(""), "b": importer.Str("x")}, false},
		{"bool false counts", importer.Record{"a": importer.Boolean(false)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := recordIsEmpty(tt.rec); got != tt.want {
				t.Errorf("recordIsEmpty(%v) = %v, want %v", tt.rec, got, tt.want)
			}
		})
	}
}
