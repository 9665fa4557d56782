// Package ingest turns uploaded resume documents into plain text.
package ingest

import (
	"bytes"
	"fmt"
	"html"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	mimePDF  = "application/pdf"
	mimeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeText = "text/plain"
	pdfMagic = "%PDF-"
	zipMagic = "PK\x03\x04"
)

// ExtractionError reports an unreadable, empty or unsupported resume payload.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return "extract resume text: " + e.Err.Error()
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Extract returns the concatenated visible text of the uploaded document.
// The content type is taken from the declared MIME type when usable,
// otherwise derived from the filename extension and a content sniff.
// Supported types: PDF, DOCX and plain text.
func Extract(filename, declaredType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", &ExtractionError{Err: fmt.Errorf("empty document payload")}
	}

	text, err := extract(resolveType(filename, declaredType, data), data)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return "", &ExtractionError{Err: fmt.Errorf("document contains no extractable text")}
	}

	return text, nil
}

func extract(contentType string, data []byte) (string, error) {
	switch contentType {
	case mimeText:
		return string(data), nil
	case mimePDF:
		return extractPDF(data)
	case mimeDocx:
		return extractDocx(data)
	default:
		return "", &ExtractionError{Err: fmt.Errorf("unsupported file type: %s", contentType)}
	}
}

func resolveType(filename, declaredType string, data []byte) string {
	declared := strings.ToLower(strings.TrimSpace(declaredType))
	// Strip media type parameters such as "; charset=utf-8".
	if idx := strings.Index(declared, ";"); idx != -1 {
		declared = strings.TrimSpace(declared[:idx])
	}

	switch declared {
	case mimePDF, mimeDocx, mimeText:
		return declared
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return mimePDF
	case ".docx":
		return mimeDocx
	case ".txt":
		return mimeText
	}

	// Last resort: sniff the payload. DOCX is a zip container.
	switch {
	case bytes.HasPrefix(data, []byte(pdfMagic)):
		return mimePDF
	case bytes.HasPrefix(data, []byte(zipMagic)):
		return mimeDocx
	}

	return declared
}

func extractPDF(data []byte) (text string, err error) {
	// The pdf library panics on some malformed documents.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &ExtractionError{Err: fmt.Errorf("read pdf: %v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Err: fmt.Errorf("read pdf: %w", err)}
	}

	var builder strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single broken page does not invalidate the rest.
			continue
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}

	return builder.String(), nil
}

func extractDocx(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Err: fmt.Errorf("parse docx: %w", err)}
	}
	defer doc.Close()

	return flattenDocxMarkup(doc.Editable().GetContent()), nil
}

var docxTag = regexp.MustCompile(`<[^>]+>`)

// flattenDocxMarkup reduces raw WordprocessingML to its visible text:
// paragraph ends and line breaks become newlines, remaining tags are dropped
// and XML entities decoded.
func flattenDocxMarkup(content string) string {
	content = strings.ReplaceAll(content, "</w:p>", "\n")
	content = strings.ReplaceAll(content, "<w:br/>", "\n")
	content = docxTag.ReplaceAllString(content, "")
	return html.UnescapeString(content)
}
