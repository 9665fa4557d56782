package logger

import (
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestTruncateForLog(t *testing.T) {
	if got := TruncateForLog("  short  ", 10); got != "short" {
		t.Fatalf("expected trimmed value, got %q", got)
	}

	long := strings.Repeat("a", 20)
	if got := TruncateForLog(long, 5); got != "aaaaa..." {
		t.Fatalf("unexpected truncation: %q", got)
	}

	if got := TruncateForLog("anything", 0); got != "" {
		t.Fatalf("expected empty result for non-positive limit, got %q", got)
	}
}

func TestStringFieldsSkipsEmpty(t *testing.T) {
	fields := StringFields(
		StringField{Key: "a", Value: "1"},
		StringField{Key: " ", Value: "dropped"},
		StringField{Key: "b", Value: "  "},
	)

	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}
}

func TestWithFieldsNilLogger(t *testing.T) {
	if WithFields(nil) == nil {
		t.Fatalf("expected a usable logger for nil input")
	}

	if WithCommonFields(nil, "gemini", "model") == nil {
		t.Fatalf("expected a usable logger")
	}

	logger := zap.NewNop()
	if WithFields(logger) != logger {
		t.Fatalf("expected the same logger when no fields are supplied")
	}
}
