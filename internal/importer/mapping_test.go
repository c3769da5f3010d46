package importer

import "testing"

func TestSuggestMappings_Book(t *testing.T) {
	columns := []string{"Title", "Cost", "Retail Price", "Condition"}

	got := SuggestMappings(columns, TypeBook)

	want := map[string]string{
		"title":                  "title",
		"cost":                   "cost",
		"suggested_retail_price": "retail_price",
		"condition":              "condition",
	}
	if len(got) != len(want) {
		t.Fatalf("suggestions = %v, want %v", got, want)
	}
	for field, col := range want {
		if got[field] != col {
			t.Errorf("suggestion[%q] = %q, want %q", field, got[field], col)
		}
	}
}

func TestSuggestMappings_OrderOmitsUnmatched(t *testing.T) {
	columns := []string{"customer", "total", "payment", "books"}

	got := SuggestMappings(columns, TypeOrder)

	if got["customer_name"] != "customer" {
		t.Errorf("customer_name = %q", got["customer_name"])
	}
	if got["sale_amount"] != "total" {
		t.Errorf("sale_amount = %q", got["sale_amount"])
	}
	if got["book_titles"] != "books" {
		t.Errorf("book_titles = %q", got["book_titles"])
	}
	if _, ok := got["employee_name"]; ok {
		t.Error("employee_name should be omitted when no column matches")
	}
	if _, ok := got["order_status"]; ok {
		t.Error("order_status should be omitted when no column matches")
	}
}

func TestSuggestMappings_FirstColumnWins(t *testing.T) {
	// Both columns contain "price"; the earlier one is suggested.
	got := SuggestMappings([]string{"sell_price", "retail_price"}, TypeBook)
	if got["suggested_retail_price"] != "sell_price" {
		t.Errorf("suggested_retail_price = %q, want first match", got["suggested_retail_price"])
	}
}

func TestSuggestMappings_UnknownType(t *testing.T) {
	if got := SuggestMappings([]string{"a", "b"}, TypeUnclassified); got != nil {
		t.Errorf("SuggestMappings(unclassified) = %v, want nil", got)
	}
}

func TestCanonicalFields(t *testing.T) {
	author := CanonicalFields(TypeAuthor)
	if len(author) != 5 || author[0] != "last_name" {
		t.Errorf("author fields = %v", author)
	}
	order := CanonicalFields(TypeOrder)
	if len(order) != 6 || order[5] != "book_titles" {
		t.Errorf("order fields = %v", order)
	}
	if got := CanonicalFields(TypeUnclassified); got != nil {
		t.Errorf("unclassified fields = %v, want nil", got)
	}
}
