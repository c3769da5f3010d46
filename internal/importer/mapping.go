package importer

import "strings"

// mappingSynonyms lists, per domain type, the source-column spellings that
// suggest each canonical field. Advisory only; the UI may override any
// suggestion before the process step.
var mappingSynonyms = map[DomainType]map[string][]string{
	TypeAuthor: {
		"last_name":   {"last_name", "lastname", "surname", "family_name"},
		"first_name":  {"first_name", "firstname", "given_name", "name"},
		"birth_year":  {"birth_year", "born", "birth", "year_born"},
		"death_year":  {"death_year", "died", "death", "year_died"},
		"description": {"description", "bio", "biography", "about"},
	},
	TypeBook: {
		"title":                  {"title", "book_title", "name"},
		"cost":                   {"cost", "purchase_price", "buy_price"},
		"suggested_retail_price": {"price", "retail_price", "suggested_price", "sell_price"},
		"condition":              {"condition", "state", "quality"},
		"book_status":            {"book_status", "status", "availability"},
		"publisher":              {"publisher", "pub", "publishing_house"},
		"edition":                {"edition", "printing"},
		"author_names":           {"author", "authors", "author_name", "author_names"},
		"legacy_id":              {"legacy_id", "old_id", "isbn", "barcode"},
	},
	TypeCustomer: {
		"first_name":                {"first_name", "firstname", "given_name"},
		"last_name":                 {"last_name", "lastname", "surname"},
		"phone_number":              {"phone", "phone_number", "tel", "telephone"},
		"mailing_address":           {"address", "mailing_address", "street", "location"},
		"secondary_mailing_address": {"secondary_address", "address_2", "apt"},
		"city":                      {"city", "town"},
		"state":                     {"state", "province", "region"},
		"zip_code":                  {"zip", "zip_code", "postal_code", "postcode"},
	},
	TypeEmployee: {
		"first_name":        {"first_name", "firstname", "given_name"},
		"last_name":         {"last_name", "lastname", "surname"},
		"email":             {"email", "email_address", "mail"},
		"phone_number":      {"phone", "phone_number", "tel"},
		"address":           {"address", "street", "location"},
		"secondary_address": {"secondary_address", "address_2", "apt"},
		"city":              {"city", "town"},
		"state":             {"state", "province", "region"},
		"zip_code":          {"zip", "zip_code", "postal_code", "postcode"},
		"group_name":        {"group", "role", "position", "department"},
	},
	TypeOrder: {
		"customer_name":  {"customer", "customer_name", "buyer"},
		"employee_name":  {"employee", "employee_name", "seller"},
		"sale_amount":    {"amount", "total", "sale_amount", "price"},
		"payment_method": {"payment", "payment_method", "pay_method"},
		"order_status":   {"status", "order_status", "state"},
		"book_titles":    {"books", "book_titles", "items"},
	},
}

// canonicalFields returns the suggestion-eligible field names for a type in
// a stable order, for template generation and tests.
var canonicalFields = map[DomainType][]string{
	TypeAuthor:   {"last_name", "first_name", "birth_year", "death_year", "description"},
	TypeBook:     {"title", "cost", "suggested_retail_price", "condition", "book_status", "publisher", "edition", "author_names", "legacy_id"},
	TypeCustomer: {"first_name", "last_name", "phone_number", "mailing_address", "secondary_mailing_address", "city", "state", "zip_code"},
	TypeEmployee: {"first_name", "last_name", "email", "phone_number", "address", "secondary_address", "city", "state", "zip_code", "group_name"},
	TypeOrder:    {"customer_name", "employee_name", "sale_amount", "payment_method", "order_status", "book_titles"},
}

// CanonicalFields returns the canonical field names for a domain type.
func CanonicalFields(domainType DomainType) []string {
	return canonicalFields[domainType]
}

// SuggestMappings produces a best-effort mapping from canonical field name
// to source column name using the fixed synonym lists. The first matching
// source column wins per field; a field with no match is omitted.
func SuggestMappings(columns []string, domainType DomainType) map[string]string {
	synonyms, ok := mappingSynonyms[domainType]
	if !ok {
		return nil
	}

	lowered := make([]string, len(columns))
	for i, col := range columns {
		lowered[i] = CleanColumn(col)
	}

	suggestions := map[string]string{}
	for _, field := range canonicalFields[domainType] {
		for _, col := range lowered {
			if containsAny(col, synonyms[field]) {
				suggestions[field] = col
				break
			}
		}
	}
	return suggestions
}

func containsAny(col string, candidates []string) bool {
	for _, candidate := range candidates {
		if candidate != "" && strings.Contains(col, candidate) {
			return true
		}
	}
	return false
}
