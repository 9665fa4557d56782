package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/hrsuite/ats-scanner/internal/ai"
	"github.com/hrsuite/ats-scanner/internal/logger"
	"go.uber.org/zap"
)

//go:embed match_prompt.md
var matchPromptTemplate string

const (
	// Scoring should be close to deterministic.
	matchTemperature = 0.1

	defaultMaxLogLength = 200
)

// Screener asks Gemini to score a resume against a job description and parses
// the structured result.
type Screener struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewScreener(generator contentGenerator, log *zap.Logger, maxLogLength int) *Screener {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Screener{
		generator: generator,
		logger:    logger.WithCommonFields(log, "gemini", generator.Model()),
		maxLogLen: maxLogLength,
	}
}

func (s *Screener) Match(ctx context.Context, resumeText, jobDescription string) (*ai.MatchResult, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, fmt.Errorf("resume text is required")
	}
	if strings.TrimSpace(jobDescription) == "" {
		return nil, fmt.Errorf("job description is required")
	}

	prompt := buildMatchPrompt(resumeText, jobDescription)

	s.logger.Debug("match request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, s.maxLogLen)),
	)

	raw, err := s.generator.GenerateContent(ctx, prompt, matchTemperature)
	if err != nil {
		return nil, &ai.ServiceError{Err: err}
	}

	s.logger.Debug("match response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, s.maxLogLen)),
	)

	result, err := parseMatchResponse(raw)
	if err != nil {
		return nil, err
	}

	result.Raw = raw
	return result, nil
}

func buildMatchPrompt(resumeText, jobDescription string) string {
	prompt := strings.ReplaceAll(matchPromptTemplate, "{{RESUME_TEXT}}", resumeText)
	return strings.ReplaceAll(prompt, "{{JOB_DESCRIPTION}}", jobDescription)
}

func parseMatchResponse(raw string) (*ai.MatchResult, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, &ai.ParseError{Err: fmt.Errorf("decode match response: %w", err)}
	}

	score := coerceFloat(data["score"])
	if math.IsNaN(score) {
		return nil, &ai.ParseError{Err: fmt.Errorf("match response is missing a numeric score")}
	}
	score = math.Min(math.Max(score, 0), 100)

	recommendation, err := parseRecommendation(coerceString(data["recommendation"]))
	if err != nil {
		return nil, &ai.ParseError{Err: err}
	}

	return &ai.MatchResult{
		Score:                 score,
		MatchedQualifications: coerceStringSlice(data["matched_qualifications"]),
		MissingQualifications: coerceStringSlice(data["missing_qualifications"]),
		Recommendation:        recommendation,
		Reasoning:             coerceString(data["reasoning"]),
	}, nil
}

// parseRecommendation enforces the two-value verdict enum. Spacing, case and
// hyphenation are normalized first since models phrase the verdict loosely.
func parseRecommendation(s string) (ai.Recommendation, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, "-", "_")
	norm = strings.Join(strings.Fields(norm), "_")

	switch ai.Recommendation(norm) {
	case ai.Qualified:
		return ai.Qualified, nil
	case ai.NotQualified:
		return ai.NotQualified, nil
	default:
		return "", fmt.Errorf("unexpected recommendation %q", s)
	}
}
