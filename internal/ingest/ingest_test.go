package ingest

import (
	"errors"
	"strings"
	"testing"
)

func TestExtractPlainText(t *testing.T) {
	text, err := Extract("resume.txt", "text/plain; charset=utf-8", []byte("10 years of Go experience"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "10 years of Go experience" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestExtractTypeFromExtension(t *testing.T) {
	text, err := Extract("resume.TXT", "application/octet-stream", []byte("plain content"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "plain content" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestExtractEmptyPayload(t *testing.T) {
	_, err := Extract("resume.pdf", "application/pdf", nil)

	var extractionErr *ExtractionError
	if !errors.As(err, &extractionErr) {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
}

func TestExtractMalformedPDF(t *testing.T) {
	payload := []byte("%PDF-1.7 this is not a real pdf body")

	_, err := Extract("resume.pdf", "", payload)

	var extractionErr *ExtractionError
	if !errors.As(err, &extractionErr) {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
}

func TestExtractMalformedDocx(t *testing.T) {
	payload := []byte("PK\x03\x04 but not a docx archive")

	_, err := Extract("resume.docx", "", payload)

	var extractionErr *ExtractionError
	if !errors.As(err, &extractionErr) {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
}

func TestExtractUnsupportedType(t *testing.T) {
	_, err := Extract("resume.odt", "application/vnd.oasis.opendocument.text", []byte("binary"))

	var extractionErr *ExtractionError
	if !errors.As(err, &extractionErr) {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
	if !strings.Contains(err.Error(), "unsupported") {
		t.Fatalf("expected unsupported type message, got %v", err)
	}
}

func TestExtractWhitespaceOnlyText(t *testing.T) {
	_, err := Extract("resume.txt", "text/plain", []byte("   \n\t "))

	var extractionErr *ExtractionError
	if !errors.As(err, &extractionErr) {
		t.Fatalf("expected ExtractionError for blank document, got %v", err)
	}
}

func TestFlattenDocxMarkup(t *testing.T) {
	raw := `<w:document><w:body><w:p><w:r><w:t>Go developer</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>5 years &amp; counting</w:t></w:r></w:p></w:body></w:document>`

	got := flattenDocxMarkup(raw)

	if strings.Contains(got, "<") {
		t.Fatalf("expected markup to be stripped, got %q", got)
	}
	if !strings.Contains(got, "Go developer\n") {
		t.Fatalf("expected paragraph break, got %q", got)
	}
	if !strings.Contains(got, "5 years & counting") {
		t.Fatalf("expected entities to be decoded, got %q", got)
	}
}

func TestResolveTypeSniffing(t *testing.T) {
	if got := resolveType("upload", "", []byte("%PDF-1.4")); got != mimePDF {
		t.Fatalf("expected pdf from sniff, got %q", got)
	}
	if got := resolveType("upload", "", []byte("PK\x03\x04rest")); got != mimeDocx {
		t.Fatalf("expected docx from sniff, got %q", got)
	}
	if got := resolveType("cv.pdf", "application/octet-stream", []byte("x")); got != mimePDF {
		t.Fatalf("expected pdf from extension, got %q", got)
	}
	if got := resolveType("cv", "application/pdf; q=1", []byte("x")); got != mimePDF {
		t.Fatalf("expected declared type with parameters stripped, got %q", got)
	}
}
