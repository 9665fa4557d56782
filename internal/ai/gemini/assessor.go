package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/hrsuite/ats-scanner/internal/ai"
	"github.com/hrsuite/ats-scanner/internal/logger"
	"go.uber.org/zap"
)

//go:embed assessment_prompt.md
var assessmentPromptTemplate string

const (
	// Question generation benefits from some variety.
	assessmentTemperature = 0.4

	minQuestions         = 1
	maxQuestions         = 10
	defaultQuestionCount = 5
)

// Assessor asks Gemini to create a multiple-choice skills assessment for a
// job description.
type Assessor struct {
	generator     contentGenerator
	logger        *zap.Logger
	questionCount int
	maxLogLen     int
}

func NewAssessor(generator contentGenerator, log *zap.Logger, questionCount, maxLogLength int) *Assessor {
	if questionCount < minQuestions || questionCount > maxQuestions {
		questionCount = defaultQuestionCount
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Assessor{
		generator:     generator,
		logger:        logger.WithCommonFields(log, "gemini", generator.Model()),
		questionCount: questionCount,
		maxLogLen:     maxLogLength,
	}
}

func (a *Assessor) Generate(ctx context.Context, jobDescription string, matched []string) (*ai.Assessment, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return nil, fmt.Errorf("job description is required")
	}

	prompt := buildAssessmentPrompt(jobDescription, matched, a.questionCount)

	a.logger.Debug("assessment request",
		zap.Int("question_count", a.questionCount),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateContent(ctx, prompt, assessmentTemperature)
	if err != nil {
		return nil, &ai.ServiceError{Err: err}
	}

	a.logger.Debug("assessment response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, a.maxLogLen)),
	)

	return parseAssessmentResponse(raw)
}

func buildAssessmentPrompt(jobDescription string, matched []string, count int) string {
	focus := "none"
	if len(matched) > 0 {
		focus = "- " + strings.Join(matched, "\n- ")
	}

	prompt := strings.ReplaceAll(assessmentPromptTemplate, "{{JOB_DESCRIPTION}}", jobDescription)
	prompt = strings.ReplaceAll(prompt, "{{QUESTION_COUNT}}", strconv.Itoa(count))
	return strings.ReplaceAll(prompt, "{{MATCHED_QUALIFICATIONS}}", focus)
}

func parseAssessmentResponse(raw string) (*ai.Assessment, error) {
	cleaned := extractJSON(raw)

	var payload struct {
		Questions []ai.Question `json:"questions"`
	}
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, &ai.ParseError{Err: fmt.Errorf("decode assessment response: %w", err)}
	}

	if len(payload.Questions) < minQuestions || len(payload.Questions) > maxQuestions {
		return nil, &ai.ParseError{Err: fmt.Errorf("expected between %d and %d questions, got %d", minQuestions, maxQuestions, len(payload.Questions))}
	}

	for i, q := range payload.Questions {
		if strings.TrimSpace(q.Prompt) == "" {
			return nil, &ai.ParseError{Err: fmt.Errorf("question %d has an empty prompt", i+1)}
		}
		if len(q.Options) < 2 {
			return nil, &ai.ParseError{Err: fmt.Errorf("question %d has %d options, need at least 2", i+1, len(q.Options))}
		}
		if q.CorrectOption < 0 || q.CorrectOption >= len(q.Options) {
			return nil, &ai.ParseError{Err: fmt.Errorf("question %d has correct option %d out of range", i+1, q.CorrectOption)}
		}
	}

	return &ai.Assessment{Questions: payload.Questions}, nil
}
