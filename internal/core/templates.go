package core

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/bookshophere/bookshop/internal/importer"
	"github.com/xuri/excelize/v2"
)

// BuildTemplate renders a downloadable XLSX template for one record type:
// a single sheet with a bold header row of the canonical field names, plus
// one example row so users can see the expected shape.
func BuildTemplate(domainType importer.DomainType) ([]byte, error) {
	fields := importer.CanonicalFields(domainType)
	if len(fields) == 0 {
		return nil, fmt.Errorf("unknown record type: %s", domainType)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := templateSheetName(domainType)
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for i, field := range fields {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, field); err != nil {
			return nil, err
		}
		width := float64(len(field)) + 4
		if width < 12 {
			width = 12
		}
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return nil, err
		}
	}
	lastCell, _ := excelize.CoordinatesToCellName(len(fields), 1)
	if err := f.SetCellStyle(sheet, "A1", lastCell, headerStyle); err != nil {
		return nil, err
	}

	for i, field := range fields {
		cell, err := excelize.CoordinatesToCellName(i+1, 2)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, exampleValue(domainType, field)); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// TemplateFilename returns the download filename for a record type template.
func TemplateFilename(domainType importer.DomainType) string {
	return fmt.Sprintf("%s_import_template.xlsx", domainType)
}

func templateSheetName(domainType importer.DomainType) string {
	name := string(domainType)
	return strings.ToUpper(name[:1]) + name[1:] + "s"
}

// exampleValue returns a plausible sample for the template's second row.
func exampleValue(domainType importer.DomainType, field string) string {
	samples := map[importer.DomainType]map[string]string{
		importer.TypeAuthor: {
			"first_name":  "Jane",
			"last_name":   "Austen",
			"birth_year":  "1775",
			"death_year":  "1817",
			"description": "English novelist",
		},
		importer.TypeBook: {
			"title":                  "Pride and Prejudice",
			"cost":                   "4.50",
			"suggested_retail_price": "12.99",
			"legacy_id":              "B-1042",
			"condition":              "good",
			"book_status":            "available",
			"publisher":              "T. Egerton",
			"edition":                "First",
			"author_names":           "Jane Austen",
		},
		importer.TypeCustomer: {
			"first_name":                "Alice",
			"last_name":                 "Nguyen",
			"phone_number":              "555-0101",
			"mailing_address":           "12 Oak St",
			"secondary_mailing_address": "Apt 3",
			"city":                      "Portland",
			"state":                     "OR",
			"zip_code":                  "97201",
		},
		importer.TypeEmployee: {
			"first_name":        "Sam",
			"last_name":         "Rivera",
			"phone_number":      "555-0102",
			"address":           "44 Pine Ave",
			"secondary_address": "N/A",
			"city":              "Portland",
			"state":             "OR",
			"zip_code":          "97202",
			"email":             "sam.rivera@example.com",
			"group_name":        "Staff",
		},
		importer.TypeOrder: {
			"customer_name":   "Alice Nguyen",
			"employee_name":   "Sam Rivera",
			"sale_amount":     "25.98",
			"discount_amount": "0.00",
			"payment_method":  "credit card",
			"order_status":    "pickup",
			"book_titles":     "Pride and Prejudice",
		},
	}
	return samples[domainType][field]
}
