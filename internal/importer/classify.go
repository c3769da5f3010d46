package importer

import "strings"

// signatureColumns lists the field names considered characteristic of each
// domain type. Matching is by substring, so "author_last_name" still counts
// toward last_name.
var signatureColumns = map[DomainType][]string{
	TypeAuthor:   {"last_name", "first_name", "birth_year", "death_year"},
	TypeBook:     {"title", "cost", "suggested_retail_price", "condition"},
	TypeCustomer: {"first_name", "last_name", "phone_number", "mailing_address"},
	TypeEmployee: {"first_name", "last_name", "phone_number", "address", "group"},
	TypeOrder:    {"customer", "employee", "sale_amount", "payment_method"},
}

// LowConfidence is the floor under which a classification is surfaced to the
// caller as a warning.
const LowConfidence = 0.5

// Classify scores the supplied column set against each domain type's
// signature columns and returns the best match with its confidence
// (matches / signature size). Ties are broken by DomainTypes declaration
// order. A zero score yields TypeUnclassified.
func Classify(columns []string) (DomainType, float64) {
	lowered := make([]string, len(columns))
	for i, col := range columns {
		lowered[i] = strings.ToLower(col)
	}

	best := TypeUnclassified
	bestScore := 0.0
	for _, domainType := range DomainTypes {
		signature := signatureColumns[domainType]
		matches := 0
		for _, want := range signature {
			for _, col := range lowered {
				if strings.Contains(col, want) {
					matches++
					break
				}
			}
		}
		if matches == 0 {
			continue
		}
		score := float64(matches) / float64(len(signature))
		if score > bestScore {
			best = domainType
			bestScore = score
		}
	}
	return best, bestScore
}

// ClassifyDelimited is the weighted scoring variant used for delimited text,
// where a single headerless-looking table is all there is and ambiguity is
// higher. Distinctive columns and co-occurring column pairs earn bonus
// points; ties break in DomainTypes order. Returns TypeUnclassified when no
// signal is present.
func ClassifyDelimited(columns []string) (DomainType, int) {
	lowered := make([]string, len(columns))
	exact := make(map[string]bool, len(columns))
	for i, col := range columns {
		l := strings.ToLower(col)
		lowered[i] = l
		exact[l] = true
	}
	anyContains := func(substrings ...string) bool {
		for _, col := range lowered {
			for _, s := range substrings {
				if strings.Contains(col, s) {
					return true
				}
			}
		}
		return false
	}

	scores := map[DomainType]int{}

	// Strong signals.
	if exact["payment_method"] || exact["sale_amount"] {
		scores[TypeOrder] += 5
	}
	if exact["hire_date"] || exact["group"] {
		scores[TypeEmployee] += 4
	}

	// General signals.
	if anyContains("author", "birth", "death") {
		scores[TypeAuthor] += 2
	}
	if anyContains("title", "isbn", "publisher") {
		scores[TypeBook] += 2
	}
	if anyContains("customer") {
		scores[TypeCustomer] += 2
	}
	// "employee" alone is too weak; require a second employee-specific field.
	if exact["employee"] && (exact["hire_date"] || exact["group"] || exact["email"]) {
		scores[TypeEmployee] += 2
	}
	if anyContains("order", "payment") {
		scores[TypeOrder] += 2
	}

	// Co-occurring column pairs.
	if exact["last_name"] && exact["first_name"] {
		switch {
		case exact["birth_year"] || exact["death_year"]:
			scores[TypeAuthor] += 3
		case exact["hire_date"]:
			scores[TypeEmployee] += 3
		case exact["mailing_address"]:
			scores[TypeCustomer] += 3
		}
	}
	if exact["title"] && (exact["cost"] || exact["price"]) {
		scores[TypeBook] += 3
	}

	best := TypeUnclassified
	bestScore := 0
	for _, domainType := range DomainTypes {
		if scores[domainType] > bestScore {
			best = domainType
			bestScore = scores[domainType]
		}
	}
	return best, bestScore
}

// ClassifyRecord infers the domain type of a single flattened record from
// its distinctive fields. Used by the markup parser's content fallback when
// tag names carry no type signal.
func ClassifyRecord(rec Record) DomainType {
	has := func(field string) bool {
		_, ok := rec[field]
		return ok
	}
	switch {
	case has("title") && (has("cost") || has("price")):
		return TypeBook
	case has("birth_year") || has("death_year"):
		return TypeAuthor
	case has("hire_date") || has("group"):
		return TypeEmployee
	case has("mailing_address") && !has("customer"):
		return TypeCustomer
	case has("sale_amount") || has("payment_method"):
		return TypeOrder
	default:
		return TypeUnclassified
	}
}

// typeFromTag maps an XML tag to the domain type it names, if any.
func typeFromTag(tag string) DomainType {
	tag = strings.ToLower(tag)
	for _, domainType := range DomainTypes {
		if strings.Contains(tag, string(domainType)) {
			return domainType
		}
	}
	return TypeUnclassified
}
