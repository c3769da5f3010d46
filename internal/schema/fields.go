// Package schema defines the per-type field configurations the import
// pipeline validates against. These tables are the single source of truth
// for field types, required flags, defaults, and numeric bounds; the
// normalizer and the validation pass both honor them.
package schema

import (
	"github.com/bookshophere/bookshop/internal/importer"
	"github.com/shopspring/decimal"
)

// FieldConfig describes one importable field.
type FieldConfig struct {
	Type     importer.FieldType
	Required bool
	Default  *importer.Value
	Min      *decimal.Decimal
	Max      *decimal.Decimal
}

func text(required bool) FieldConfig {
	return FieldConfig{Type: importer.FieldText, Required: required}
}

func textDefault(def string) FieldConfig {
	v := importer.Str(def)
	return FieldConfig{Type: importer.FieldText, Default: &v}
}

func integer(min, max int64) FieldConfig {
	lo := decimal.NewFromInt(min)
	hi := decimal.NewFromInt(max)
	return FieldConfig{Type: importer.FieldInteger, Min: &lo, Max: &hi}
}

func money(required bool) FieldConfig {
	zero := decimal.Zero
	return FieldConfig{Type: importer.FieldDecimal, Required: required, Min: &zero}
}

func moneyDefault(def int64) FieldConfig {
	zero := decimal.Zero
	v := importer.Num(decimal.NewFromInt(def))
	return FieldConfig{Type: importer.FieldDecimal, Min: &zero, Default: &v}
}

// fieldConfigs holds the importable fields per domain type.
var fieldConfigs = map[importer.DomainType]map[string]FieldConfig{
	importer.TypeAuthor: {
		"last_name":   text(true),
		"first_name":  textDefault(""),
		"birth_year":  integer(1, 2100),
		"death_year":  integer(1, 2100),
		"description": text(false),
	},
	importer.TypeBook: {
		"title":                  text(true),
		"cost":                   money(true),
		"suggested_retail_price": money(true),
		"legacy_id":              text(false),
		"condition":              textDefault("unrated"),
		"book_status":            textDefault("processing"),
		"publisher":              text(false),
		"edition":                text(false),
		"author_names":           text(false),
	},
	importer.TypeCustomer: {
		"first_name":                text(false),
		"last_name":                 text(false),
		"phone_number":              text(false),
		"mailing_address":           text(false),
		"secondary_mailing_address": textDefault("N/A"),
		"city":                      text(false),
		"state":                     text(false),
		"zip_code":                  text(false),
	},
	importer.TypeEmployee: {
		"first_name":        text(true),
		"last_name":         text(true),
		"phone_number":      text(true),
		"address":           text(true),
		"secondary_address": textDefault("N/A"),
		"city":              text(true),
		"zip_code":          text(true),
		"state":             text(true),
		"email":             text(false),
		"group_name":        text(true),
	},
	importer.TypeOrder: {
		"customer_name":   text(true),
		"employee_name":   text(true),
		"sale_amount":     money(true),
		"discount_amount": moneyDefault(0),
		"payment_method":  text(true),
		"order_status":    textDefault("pickup"),
		"book_titles":     text(false),
	},
}

// FieldConfigs returns the field configuration for a domain type, or nil if
// the type is not importable.
func FieldConfigs(domainType importer.DomainType) map[string]FieldConfig {
	return fieldConfigs[domainType]
}
