package core

import (
	"fmt"
	"sort"

	"github.com/bookshophere/bookshop/internal/importer"
	"github.com/bookshophere/bookshop/internal/schema"
)

// ProcessRow cleans one record against the field configuration: each
// configured field is normalized to its declared type, defaults fill null
// results, and null values for non-required fields are dropped. Fields not
// present in the configuration are ignored.
func ProcessRow(row importer.Record, configs map[string]schema.FieldConfig) importer.Record {
	processed := make(importer.Record, len(configs))

	for field, config := range configs {
		value, ok := row[field]
		if !ok {
			value = importer.Null()
		}

		cleaned := importer.Normalize(value, config.Type)

		if cleaned.IsNull() && config.Default != nil {
			cleaned = *config.Default
		}

		if !cleaned.IsNull() || config.Required {
			processed[field] = cleaned
		}
	}

	return processed
}

// ValidateRow checks a processed record against the field configuration:
// required fields must be present and non-empty, and numeric fields must
// fall inside their declared bounds. Returns the list of violation
// messages; an empty list means the row is valid.
func ValidateRow(row importer.Record, configs map[string]schema.FieldConfig) []string {
	var violations []string

	for field, config := range configs {
		value := importer.Normalize(row[field], config.Type)

		if config.Required && value.IsEmpty() {
			violations = append(violations, fmt.Sprintf("%s is required", field))
			continue
		}

		if value.Kind == importer.KindNumber {
			if config.Min != nil && value.Num.LessThan(*config.Min) {
				violations = append(violations, fmt.Sprintf("%s must be at least %s", field, config.Min.String()))
			}
			if config.Max != nil && value.Num.GreaterThan(*config.Max) {
				violations = append(violations, fmt.Sprintf("%s must be at most %s", field, config.Max.String()))
			}
		}
	}

	sort.Strings(violations)
	return violations
}
