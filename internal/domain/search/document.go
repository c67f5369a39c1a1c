package search

import (
	"path"
	"strings"
)

// UnknownPosition marks a highlight whose offset in the document body could not be recovered.
const UnknownPosition = -1

// Highlight is a provider-supplied relevant snippet of a document.
type Highlight struct {
	// Position is the byte offset of Text in the original body, or UnknownPosition.
	Position int
	Text     string
}

// Known reports whether the highlight has a recovered offset.
func (h Highlight) Known() bool { return h.Position >= 0 }

// Document is a search match carrying textual content.
//
// Content starts as the full body and may be narrowed to a relevant excerpt.
// OriginalContent is never modified: Content is always a substring of it, or
// a newline-joined concatenation of highlight texts.
type Document struct {
	ID              string
	Title           string
	Content         string
	FileName        string
	FileType        string
	OriginalContent string
	Highlights      []Highlight
	SearchScore     float64
	// PageNumber is 0 when no page could be recovered.
	PageNumber int
}

// Name returns the best human-readable label for the document.
func (d *Document) Name() string {
	switch {
	case d.Title != "":
		return d.Title
	case d.FileName != "":
		return d.FileName
	default:
		return "Document"
	}
}

// Kind classifies a document by file type or extension.
type Kind int

const (
	// KindCompact is plain text, markdown, JSON and anything unrecognised.
	KindCompact Kind = iota
	// KindTabular is CSV and spreadsheet data.
	KindTabular
	// KindLongForm is a paginated manual (PDF, Word, slides).
	KindLongForm
)

var (
	longFormTypes = map[string]struct{}{
		"pdf": {}, "doc": {}, "docx": {}, "ppt": {}, "pptx": {}, "rtf": {}, "odt": {},
	}
	tabularTypes = map[string]struct{}{
		"csv": {}, "tsv": {}, "xls": {}, "xlsx": {},
	}
)

// Kind derives the document kind from FileType, falling back to the FileName extension.
func (d *Document) Kind() Kind {
	for _, candidate := range []string{normalizeType(d.FileType), normalizeType(path.Ext(d.FileName))} {
		if candidate == "" {
			continue
		}
		if _, ok := longFormTypes[candidate]; ok {
			return KindLongForm
		}
		if _, ok := tabularTypes[candidate]; ok {
			return KindTabular
		}
	}
	return KindCompact
}

// normalizeType reduces "application/pdf", ".PDF" or "text/csv" to "pdf" / "csv".
func normalizeType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	if i := strings.LastIndex(t, "/"); i >= 0 {
		t = t[i+1:]
	}
	switch t {
	case "vnd.openxmlformats-officedocument.wordprocessingml.document":
		return "docx"
	case "vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		return "xlsx"
	case "vnd.ms-excel":
		return "xls"
	case "msword":
		return "doc"
	case "tab-separated-values":
		return "tsv"
	}
	if i := strings.LastIndex(t, "."); i >= 0 {
		t = t[i+1:]
	}
	return t
}

// Result is the classified output of one search call.
type Result struct {
	Rows      []Row
	Documents []Document
}

// Empty reports whether the search produced neither rows nor documents.
func (r Result) Empty() bool {
	return len(r.Rows) == 0 && len(r.Documents) == 0
}
