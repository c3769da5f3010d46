package core

import (
	"testing"

	"github.com/bookshophere/bookshop/internal/importer"
	"github.com/bookshophere/bookshop/internal/schema"
)

func TestProcessRow_Author(t *testing.T) {
	row := importer.Record{
		"last_name":  importer.Str("  Austen "),
		"birth_year": importer.Str("1775"),
		"extra":      importer.Str("ignored"),
	}

	processed := ProcessRow(row, schema.FieldConfigs(importer.TypeAuthor))

	if got := processed["last_name"].String(); got != "Austen" {
		t.Errorf("last_name = %q, want trimmed %q", got, "Austen")
	}
	year := processed["birth_year"]
	if year.Kind != importer.KindNumber || year.Num.IntPart() != 1775 {
		t.Errorf("birth_year = %v, want number 1775", year)
	}
	// first_name is defaulted, death_year and description drop as absent
	// optional fields, extra is not configured.
	if got, ok := processed["first_name"]; !ok || got.String() != "" {
		t.Errorf("first_name = %v, want defaulted empty string", got)
	}
	if _, ok := processed["death_year"]; ok {
		t.Error("absent optional death_year should be dropped")
	}
	if _, ok := processed["extra"]; ok {
		t.Error("unconfigured fields should be ignored")
	}
	if len(processed) != 3 {
		t.Errorf("processed = %v, want 3 fields", processed)
	}
}

func TestProcessRow_Defaults(t *testing.T) {
	book := ProcessRow(importer.Record{
		"title":                  importer.Str("Emma"),
		"cost":                   importer.Str("4.50"),
		"suggested_retail_price": importer.Str("12.99"),
	}, schema.FieldConfigs(importer.TypeBook))

	if got := book["condition"].String(); got != "unrated" {
		t.Errorf("condition = %q, want default %q", got, "unrated")
	}
	if got := book["book_status"].String(); got != "processing" {
		t.Errorf("book_status = %q, want default %q", got, "processing")
	}

	order := ProcessRow(importer.Record{
		"customer_name": importer.Str("Alice Nguyen"),
	}, schema.FieldConfigs(importer.TypeOrder))

	discount := order["discount_amount"]
	if discount.Kind != importer.KindNumber || !discount.Num.IsZero() {
		t.Errorf("discount_amount = %v, want defaulted 0", discount)
	}
}

func TestProcessRow_RequiredNullKept(t *testing.T) {
	processed := ProcessRow(importer.Record{}, schema.FieldConfigs(importer.TypeAuthor))

	v, ok := processed["last_name"]
	if !ok || !v.IsNull() {
		t.Errorf("last_name = %v, want present null so validation can flag it", v)
	}
}

func TestProcessRow_UnparseableNumberDropped(t *testing.T) {
	processed := ProcessRow(importer.Record{
		"last_name":  importer.Str("Austen"),
		"birth_year": importer.Str("circa 1775"),
	}, schema.FieldConfigs(importer.TypeAuthor))

	if _, ok := processed["birth_year"]; ok {
		t.Errorf("birth_year = %v, want dropped for unparseable input", processed["birth_year"])
	}
}

func TestValidateRow(t *testing.T) {
	authorConfigs := schema.FieldConfigs(importer.TypeAuthor)
	orderConfigs := schema.FieldConfigs(importer.TypeOrder)

	tests := []struct {
		name    string
		row     importer.Record
		configs map[string]schema.FieldConfig
		want    []string
	}{
		{
			name:    "valid author",
			row:     importer.Record{"last_name": importer.Str("Austen")},
			configs: authorConfigs,
			want:    nil,
		},
		{
			name:    "missing required field",
			row:     importer.Record{"first_name": importer.Str("Jane")},
			configs: authorConfigs,
			want:    []string{"last_name is required"},
		},
		{
			name: "year above bound",
			row: importer.Record{
				"last_name":  importer.Str("Austen"),
				"birth_year": importer.Str("5000"),
			},
			configs: authorConfigs,
			want:    []string{"birth_year must be at most 2100"},
		},
		{
			name: "year below bound",
			row: importer.Record{
				"last_name":  importer.Str("Austen"),
				"birth_year": importer.Str("0"),
			},
			configs: authorConfigs,
			want:    []string{"birth_year must be at least 1"},
		},
		{
			name: "negative sale amount",
			row: importer.Record{
				"customer_name":  importer.Str("Alice Nguyen"),
				"employee_name":  importer.Str("Sam Rivera"),
				"payment_method": importer.Str("cash"),
				"sale_amount":    importer.Str("-5"),
			},
			configs: orderConfigs,
			want:    []string{"sale_amount must be at least 0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateRow(tt.row, tt.configs)
			if len(got) != len(tt.want) {
				t.Fatalf("violations = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("violations[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestValidateRow_SortedViolations(t *testing.T) {
	row := importer.Record{
		"first_name":   importer.Str("Sam"),
		"last_name":    importer.Str("Rivera"),
		"phone_number": importer.Str("555-0100"),
		"address":      importer.Str("12 Oak St"),
		"state":        importer.Str("OR"),
		"zip_code":     importer.Str("97201"),
	}

	got := ValidateRow(row, schema.FieldConfigs(importer.TypeEmployee))

	want := []string{"city is required", "group_name is required"}
	if len(got) != len(want) {
		t.Fatalf("violations = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("violations[%d] = %q, want %q (sorted)", i, got[i], want[i])
		}
	}
}
