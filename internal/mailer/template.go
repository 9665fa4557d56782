package mailer

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/hrsuite/ats-scanner/internal/ai"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("emails").
	Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).
	ParseFS(templateFS, "templates/*.tmpl"))

// QualifiedParams parameterize the acceptance email. The assessment questions
// are included without the correct-answer markers.
type QualifiedParams struct {
	CandidateName string
	JobTitle      string
	Questions     []ai.Question
}

// RejectedParams parameterize the rejection email.
type RejectedParams struct {
	CandidateName string
	JobTitle      string
	Reason        string
}

// RenderQualified renders the acceptance email with the embedded skills
// assessment for the given recipient.
func RenderQualified(to string, params QualifiedParams) (Draft, error) {
	params.CandidateName = orFallback(params.CandidateName, "Candidate")
	params.JobTitle = orFallback(params.JobTitle, "open")

	var body strings.Builder
	if err := templates.ExecuteTemplate(&body, "qualified.html.tmpl", params); err != nil {
		return Draft{}, fmt.Errorf("render qualified email: %w", err)
	}

	return Draft{
		To:       to,
		Subject:  fmt.Sprintf("Next Steps for the %s Position", params.JobTitle),
		BodyHTML: body.String(),
	}, nil
}

// RenderRejected renders the rejection email.
func RenderRejected(to string, params RejectedParams) (Draft, error) {
	params.CandidateName = orFallback(params.CandidateName, "Candidate")
	params.JobTitle = orFallback(params.JobTitle, "open")
	params.Reason = orFallback(params.Reason,
		"we have decided to move forward with candidates whose experience more closely matches the role.")

	var body strings.Builder
	if err := templates.ExecuteTemplate(&body, "rejected.html.tmpl", params); err != nil {
		return Draft{}, fmt.Errorf("render rejection email: %w", err)
	}

	return Draft{
		To:       to,
		Subject:  fmt.Sprintf("Update on Your %s Application", params.JobTitle),
		BodyHTML: body.String(),
	}, nil
}

func orFallback(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return strings.TrimSpace(s)
}
