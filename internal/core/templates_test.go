package core

import (
	"bytes"
	"testing"

	"github.com/bookshophere/bookshop/internal/importer"
	"github.com/xuri/excelize/v2"
)

func TestBuildTemplate(t *testing.T) {
	data, err := BuildTemplate(importer.TypeBook)
	if err != nil {
		t.Fatalf("BuildTemplate() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("template is not a readable workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != "Books" {
		t.Fatalf("sheets = %v, want [Books]", sheets)
	}

	rows, err := f.GetRows("Books")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want header plus example", len(rows))
	}

	fields := importer.CanonicalFields(importer.TypeBook)
	if len(rows[0]) != len(fields) {
		t.Fatalf("header = %v, want %v", rows[0], fields)
	}
	for i, field := range fields {
		if rows[0][i] != field {
			t.Errorf("header[%d] = %q, want %q", i, rows[0][i], field)
		}
	}
	if rows[1][0] != "Pride and Prejudice" {
		t.Errorf("example title = %q", rows[1][0])
	}
}

func TestBuildTemplate_UnknownType(t *testing.T) {
	if _, err := BuildTemplate(importer.TypeUnclassified); err == nil {
		t.Error("BuildTemplate() expected error for unknown type")
	}
}

func TestTemplateFilename(t *testing.T) {
	if got := TemplateFilename(importer.TypeAuthor); got != "author_import_template.xlsx" {
		t.Errorf("TemplateFilename = %q", got)
	}
}
