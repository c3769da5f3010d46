package importer

import (
	"path/filepath"
	"strings"
)

// mimeTypes maps each format to the content-type substrings accepted when
// the filename extension is missing or unrecognized.
var mimeTypes = map[Format][]string{
	FormatWorkbook: {
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"application/octet-stream",
	},
	FormatLegacyWorkbook: {"application/vnd.ms-excel"},
	FormatDelimited:      {"text/csv", "application/csv", "text/plain"},
	FormatMarkup:         {"text/xml", "application/xml"},
}

// detectOrder fixes the content-type matching order; "application/
// octet-stream" is deliberately checked under workbook last so the more
// specific formats win first.
var detectOrder = []Format{FormatLegacyWorkbook, FormatDelimited, FormatMarkup, FormatWorkbook}

// DetectFormat picks the file format from the filename extension, falling
// back to substring matching on the declared content type. It returns
// FormatUnknown when neither matches; callers must treat that as a hard stop.
func DetectFormat(filename, contentType string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return FormatWorkbook
	case ".xls":
		return FormatLegacyWorkbook
	case ".csv":
		return FormatDelimited
	case ".xml":
		return FormatMarkup
	}

	contentType = strings.ToLower(contentType)
	if contentType == "" {
		return FormatUnknown
	}
	for _, format := range detectOrder {
		for _, mime := range mimeTypes[format] {
			if strings.Contains(contentType, mime) {
				return format
			}
		}
	}
	return FormatUnknown
}
