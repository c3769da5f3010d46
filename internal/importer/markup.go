package importer

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// element is a minimal generic XML tree node. encoding/xml has no built-in
// document model, so the parser walks the token stream into this shape
// before flattening.
type element struct {
	tag      string
	attrs    []xml.Attr
	text     string
	children []*element
}

// ParseMarkup parses an XML document and returns records grouped by domain
// type. Unlike the tabular parsers it classifies inline, because tag names
// are themselves the primary classification signal. Structure detection
// tries, in order: plural container tags anywhere in the tree, a root tag
// that names a domain type, and finally treating every direct child of the
// root as a record and classifying by field content.
func ParseMarkup(data []byte) (map[DomainType][]Record, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, err
	}

	root, err := parseTree(text)
	if err != nil {
		return nil, fmt.Errorf("parse XML: %w", err)
	}

	grouped := map[DomainType][]Record{}

	// Pattern 1: <books><book>...</book></books> anywhere in the tree.
	for _, domainType := range DomainTypes {
		plural := string(domainType) + "s"
		for _, container := range findAll(root, plural) {
			var records []Record
			for _, child := range container.children {
				if !strings.EqualFold(child.tag, string(domainType)) {
					continue
				}
				if record := flatten(child); len(record) > 0 {
					records = append(records, record)
				}
			}
			if len(records) > 0 {
				grouped[domainType] = append(grouped[domainType], records...)
			}
		}
	}
	if len(grouped) > 0 {
		return grouped, nil
	}

	// Pattern 2: the root tag itself names a domain type; its direct
	// children are the records.
	if rootType := typeFromTag(root.tag); rootType != TypeUnclassified {
		records := childRecords(root)
		if len(records) > 0 {
			grouped[rootType] = records
		}
		return grouped, nil
	}

	// Fallback: direct children are records regardless of naming; the first
	// record's fields decide the type.
	records := childRecords(root)
	if len(records) > 0 {
		if detected := ClassifyRecord(records[0]); detected != TypeUnclassified {
			grouped[detected] = records
		}
	}
	return grouped, nil
}

func childRecords(el *element) []Record {
	var records []Record
	for _, child := range el.children {
		if record := flatten(child); len(record) > 0 {
			records = append(records, record)
		}
	}
	return records
}

// parseTree reads the token stream into an element tree rooted at the
// document element.
func parseTree(text string) (*element, error) {
	decoder := xml.NewDecoder(strings.NewReader(text))
	// decodeText already transcoded the stream to UTF-8, but the XML
	// declaration may still name the original encoding. Pass the stream
	// through as-is instead of failing on the declared charset.
	decoder.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	var stack []*element
	var root *element

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := token.(type) {
		case xml.StartElement:
			el := &element{tag: t.Name.Local, attrs: t.Attr}
			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New("multiple root elements")
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, errors.New("unbalanced end element")
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text += string(t)
			}
		}
	}
	if root == nil {
		return nil, errors.New("no root element")
	}
	return root, nil
}

// findAll returns every element in the tree whose tag matches, including
// the root itself.
func findAll(el *element, tag string) []*element {
	var found []*element
	if strings.EqualFold(el.tag, tag) {
		found = append(found, el)
	}
	for _, child := range el.children {
		found = append(found, findAll(child, tag)...)
	}
	return found
}

// flatten converts one element into a record: attributes become fields
// (lower-cased, hyphens to underscores), each child element becomes a field
// keyed by its tag, and a child with children of its own recurses into a
// nested record. Null-like child text collapses to empty string. An element
// with neither attributes nor children but with standalone text yields a
// single "value" field.
func flatten(el *element) Record {
	record := Record{}

	for _, attr := range el.attrs {
		record[fieldKey(attr.Name.Local)] = Str(attr.Value)
	}

	for _, child := range el.children {
		key := fieldKey(child.tag)
		if len(child.children) > 0 {
			record[key] = Nest(flatten(child))
			continue
		}
		text := strings.TrimSpace(child.text)
		if IsNullToken(text) {
			text = ""
		}
		record[key] = Str(text)
	}

	if len(record) == 0 {
		if text := strings.TrimSpace(el.text); text != "" {
			record["value"] = Str(text)
		}
	}

	return record
}

func fieldKey(tag string) string {
	return CleanColumn(strings.ReplaceAll(tag, "-", "_"))
}
