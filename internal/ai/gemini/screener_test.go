package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hrsuite/ats-scanner/internal/ai"
	"go.uber.org/zap"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
	lastTemp   float32
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string, temperature float32) (string, error) {
	s.lastPrompt = prompt
	s.lastTemp = temperature
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubGenerator) Model() string {
	return "stub-model"
}

func TestScreenerMatch(t *testing.T) {
	stub := &stubGenerator{response: `{
		"score": 82,
		"matched_qualifications": ["Go", "SQL"],
		"missing_qualifications": ["Kubernetes"],
		"recommendation": "qualified",
		"reasoning": "Strong backend background"
	}`}
	screener := NewScreener(stub, zap.NewNop(), 0)

	result, err := screener.Match(context.Background(), "resume text", "job description")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Score != 82 {
		t.Fatalf("expected score 82, got %v", result.Score)
	}
	if !result.IsQualified() {
		t.Fatalf("expected qualified recommendation")
	}
	if len(result.MatchedQualifications) != 2 || len(result.MissingQualifications) != 1 {
		t.Fatalf("unexpected qualification lists: %v / %v", result.MatchedQualifications, result.MissingQualifications)
	}
	if result.Reasoning == "" {
		t.Fatalf("expected reasoning to be populated")
	}
	if result.Raw == "" {
		t.Fatalf("expected raw response to be retained")
	}

	if !strings.Contains(stub.lastPrompt, "resume text") || !strings.Contains(stub.lastPrompt, "job description") {
		t.Fatalf("expected prompt to embed both inputs")
	}
	if stub.lastTemp != matchTemperature {
		t.Fatalf("expected temperature %v, got %v", float32(matchTemperature), stub.lastTemp)
	}
}

func TestScreenerMatchFencedResponse(t *testing.T) {
	stub := &stubGenerator{response: "```json\n{\"score\": \"55\", \"recommendation\": \"Not Qualified\"}\n```"}
	screener := NewScreener(stub, zap.NewNop(), 0)

	result, err := screener.Match(context.Background(), "resume", "jd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Score != 55 {
		t.Fatalf("expected coerced score 55, got %v", result.Score)
	}
	if result.Recommendation != ai.NotQualified {
		t.Fatalf("expected not_qualified, got %q", result.Recommendation)
	}
}

func TestScreenerMatchScoreClamped(t *testing.T) {
	cases := []struct {
		name     string
		response string
		want     float64
	}{
		{"above", `{"score": 140, "recommendation": "qualified"}`, 100},
		{"below", `{"score": -3, "recommendation": "not_qualified"}`, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			screener := NewScreener(&stubGenerator{response: tc.response}, zap.NewNop(), 0)
			result, err := screener.Match(context.Background(), "resume", "jd")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Score != tc.want {
				t.Fatalf("expected score %v, got %v", tc.want, result.Score)
			}
		})
	}
}

func TestScreenerMatchParseErrors(t *testing.T) {
	cases := []struct {
		name     string
		response string
	}{
		{"not json", "I cannot help with that."},
		{"missing score", `{"recommendation": "qualified"}`},
		{"unknown recommendation", `{"score": 70, "recommendation": "maybe"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			screener := NewScreener(&stubGenerator{response: tc.response}, zap.NewNop(), 0)
			_, err := screener.Match(context.Background(), "resume", "jd")

			var parseErr *ai.ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected ParseError, got %v", err)
			}
		})
	}
}

func TestScreenerMatchServiceError(t *testing.T) {
	stub := &stubGenerator{err: errors.New("rate limited")}
	screener := NewScreener(stub, zap.NewNop(), 0)

	_, err := screener.Match(context.Background(), "resume", "jd")

	var svcErr *ai.ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected ServiceError, got %v", err)
	}
}

func TestParseRecommendationNormalization(t *testing.T) {
	cases := map[string]ai.Recommendation{
		"qualified":     ai.Qualified,
		"Qualified":     ai.Qualified,
		"not qualified": ai.NotQualified,
		"Not-Qualified": ai.NotQualified,
		"NOT_QUALIFIED": ai.NotQualified,
	}

	for input, want := range cases {
		got, err := parseRecommendation(input)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", input, err)
		}
		if got != want {
			t.Fatalf("expected %q for %q, got %q", want, input, got)
		}
	}

	if _, err := parseRecommendation("hire immediately"); err == nil {
		t.Fatalf("expected error for free-form recommendation")
	}
}
