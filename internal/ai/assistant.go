package ai

import (
	"context"
)

// Recommendation is the screening verdict produced by the matcher.
type Recommendation string

const (
	Qualified    Recommendation = "qualified"
	NotQualified Recommendation = "not_qualified"
)

// MatchResult holds the structured outcome of scoring a resume against a job
// description. Score is always within [0, 100] and Recommendation is always
// one of the two enum values; responses violating the contract are rejected
// with a ParseError before a MatchResult is produced.
type MatchResult struct {
	Score                 float64        `json:"score"`
	MatchedQualifications []string       `json:"matched_qualifications"`
	MissingQualifications []string       `json:"missing_qualifications"`
	Recommendation        Recommendation `json:"recommendation"`
	Reasoning             string         `json:"reasoning"`
	// Raw keeps the verbatim model output for debug logging.
	Raw string `json:"-"`
}

func (m *MatchResult) IsQualified() bool {
	return m != nil && m.Recommendation == Qualified
}

// Question is a single multiple-choice question of a skills assessment.
// CorrectOption indexes into Options.
type Question struct {
	Prompt        string   `json:"question"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correct_option"`
	Explanation   string   `json:"explanation"`
}

// Assessment is an ordered set of multiple-choice questions generated for a
// qualified candidate.
type Assessment struct {
	Questions []Question `json:"questions"`
}

// Screener scores a resume against a job description.
type Screener interface {
	Match(ctx context.Context, resumeText, jobDescription string) (*MatchResult, error)
}

// Assessor generates a skills assessment from a job description. The matched
// qualifications of a previous screening may be passed to focus the questions.
type Assessor interface {
	Generate(ctx context.Context, jobDescription string, matched []string) (*Assessment, error)
}

// ServiceError reports a failed call to the external text-generation service
// (network, auth, rate limit).
type ServiceError struct {
	Err error
}

func (e *ServiceError) Error() string {
	return "text generation service: " + e.Err.Error()
}

func (e *ServiceError) Unwrap() error { return e.Err }

// ParseError reports a model response that cannot be mapped into the expected
// structured fields.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "malformed model response: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }
