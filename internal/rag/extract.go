package rag

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// UnsupportedFormatError is returned when a document's extension is not one
// of the supported formats.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file type: %s (only pdf and txt are supported)", e.Ext)
}

// ExtractionError wraps a failure to pull text out of a document's bytes.
type ExtractionError struct {
	Name string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract text from %s failed: %v", e.Name, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Extraction holds the text pulled from one document. PageTexts[i] is the
// text of logical page i+1; chunking must work from PageTexts so that page
// numbers stay attributable. FullText is the pages joined by a blank line.
type Extraction struct {
	FullText  string
	PageTexts []string
}

// ExtractDocument dispatches on the file extension and extracts text with
// page boundaries preserved. A .txt document counts as a single page.
func ExtractDocument(name string, data []byte) (*Extraction, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	switch ext {
	case "pdf":
		return extractPDF(name, data)
	case "txt":
		text := string(data)
		return &Extraction{FullText: text, PageTexts: []string{text}}, nil
	default:
		return nil, &UnsupportedFormatError{Ext: ext}
	}
}

func extractPDF(name string, data []byte) (ex *Extraction, err error) {
	// The pdf package panics on some malformed content streams; turn that
	// into an ExtractionError so one bad file never takes down a batch.
	defer func() {
		if r := recover(); r != nil {
			ex = nil
			err = &ExtractionError{Name: name, Err: fmt.Errorf("malformed pdf: %v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ExtractionError{Name: name, Err: err}
	}

	pageTexts := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pageTexts = append(pageTexts, "")
			continue
		}
		pageTexts = append(pageTexts, pageText(page))
	}

	return &Extraction{
		FullText:  strings.Join(pageTexts, "\n\n"),
		PageTexts: pageTexts,
	}, nil
}

// pageText joins the page's content elements in reading order, separated by
// a single space.
func pageText(page pdf.Page) string {
	content := page.Content()
	var b strings.Builder
	for i, item := range content.Text {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(item.S)
	}
	return b.String()
}
