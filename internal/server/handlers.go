package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/mail"
	"strings"

	"github.com/hrsuite/ats-scanner/internal/ingest"
	"github.com/hrsuite/ats-scanner/internal/logger"
	"github.com/hrsuite/ats-scanner/internal/mailer"
	"github.com/hrsuite/ats-scanner/internal/session"
	"go.uber.org/zap"
)

// handleScan ingests the uploaded resume, scores it against the job
// description and stores the submission plus the match result in the session.
// A failure at any stage stores nothing.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	log := s.logger.With(zap.String(logger.FieldSession, sess.ID))

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.clientError(w, log, fmt.Sprintf("parsing upload form: %v", err))
		return
	}

	jobDescription := strings.TrimSpace(r.FormValue("job_description"))
	candidateEmail := strings.TrimSpace(r.FormValue("candidate_email"))
	candidateName := strings.TrimSpace(r.FormValue("candidate_name"))
	jobTitle := strings.TrimSpace(r.FormValue("job_title"))

	if jobDescription == "" {
		s.clientError(w, log, "job description is required")
		return
	}
	if candidateEmail == "" {
		s.clientError(w, log, "candidate email is required")
		return
	}
	if _, err := mail.ParseAddress(candidateEmail); err != nil {
		s.clientError(w, log, fmt.Sprintf("invalid candidate email: %v", err))
		return
	}

	file, header, err := r.FormFile("resume")
	if err != nil {
		s.clientError(w, log, "resume file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.clientError(w, log, fmt.Sprintf("reading resume upload: %v", err))
		return
	}

	resumeText, err := ingest.Extract(header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		s.stageError(w, log, "ingest", err)
		return
	}

	log.Info("resume ingested",
		zap.String("filename", header.Filename),
		zap.Int("text_length", len(resumeText)),
	)

	result, err := s.screener.Match(r.Context(), resumeText, jobDescription)
	if err != nil {
		s.stageError(w, log, "match", err)
		return
	}

	stored := s.sessions.Update(sess.ID, func(sess *session.Session) {
		sess.Submission = &session.Submission{
			ResumeText:     resumeText,
			JobDescription: jobDescription,
			CandidateName:  candidateName,
			CandidateEmail: candidateEmail,
			JobTitle:       jobTitle,
		}
		sess.Match = result
		// A new scan restarts the flow.
		sess.Assessment = nil
		sess.EmailSent = false
	})
	if !stored {
		s.conflict(w, log, "session expired while the resume was being scored; scan again")
		return
	}

	log.Info("resume scanned",
		zap.Float64("score", result.Score),
		zap.String("recommendation", string(result.Recommendation)),
	)

	s.writeJSON(w, http.StatusOK, result)
}

// handleAssessment generates the skills assessment. It is guarded: only a
// session holding a qualified match result may generate one.
func (s *Server) handleAssessment(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	log := s.logger.With(zap.String(logger.FieldSession, sess.ID))

	if sess.Match == nil || sess.Submission == nil {
		s.conflict(w, log, "scan a resume before generating an assessment")
		return
	}
	if !sess.Match.IsQualified() {
		s.conflict(w, log, "candidate is not qualified; no assessment is generated")
		return
	}

	assessment, err := s.assessor.Generate(r.Context(), sess.Submission.JobDescription, sess.Match.MatchedQualifications)
	if err != nil {
		s.stageError(w, log, "assessment", err)
		return
	}

	if !s.sessions.Update(sess.ID, func(sess *session.Session) {
		sess.Assessment = assessment
	}) {
		s.conflict(w, log, "session expired while the assessment was being generated; scan the resume again")
		return
	}

	log.Info("assessment generated", zap.Int("questions", len(assessment.Questions)))

	s.writeJSON(w, http.StatusOK, assessment)
}

// handleEmailPreview renders the draft for the current session state without
// sending it. For rejected candidates the reason defaults to the screening
// reasoning and may be overridden with the reason query parameter.
func (s *Server) handleEmailPreview(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	log := s.logger.With(zap.String(logger.FieldSession, sess.ID))

	draft, err := s.buildDraft(sess, r.URL.Query().Get("reason"))
	if err != nil {
		s.conflict(w, log, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, draft)
}

type sendRequest struct {
	Subject  string `json:"subject"`
	BodyHTML string `json:"body_html"`
	Reason   string `json:"reason"`
}

// handleEmailSend renders the draft, applies the user's edits and submits it
// through the SMTP relay.
func (s *Server) handleEmailSend(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	log := s.logger.With(zap.String(logger.FieldSession, sess.ID))

	var req sendRequest
	if r.Body != nil {
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil && err != io.EOF {
			s.clientError(w, log, fmt.Sprintf("decoding send request: %v", err))
			return
		}
	}

	draft, err := s.buildDraft(sess, req.Reason)
	if err != nil {
		s.conflict(w, log, err.Error())
		return
	}

	if subject := strings.TrimSpace(req.Subject); subject != "" {
		draft.Subject = subject
	}
	if body := strings.TrimSpace(req.BodyHTML); body != "" {
		draft.BodyHTML = body
	}

	if err := s.sender.Send(r.Context(), draft); err != nil {
		s.stageError(w, log, "notify", err)
		return
	}

	// The email is already out at this point; an expired session only loses
	// the bookkeeping.
	if !s.sessions.Update(sess.ID, func(sess *session.Session) {
		sess.EmailSent = true
	}) {
		log.Warn("session expired before the sent email was recorded")
	}

	log.Info("candidate notified", zap.String("to", draft.To))

	s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "sent",
		"to":     draft.To,
	})
}

// buildDraft renders the email matching the session state: the acceptance
// template with the assessment for qualified candidates, the rejection
// template otherwise.
func (s *Server) buildDraft(sess *session.Session, reason string) (mailer.Draft, error) {
	if sess.Match == nil || sess.Submission == nil {
		return mailer.Draft{}, fmt.Errorf("scan a resume before preparing an email")
	}

	sub := sess.Submission

	if sess.Match.IsQualified() {
		if sess.Assessment == nil {
			return mailer.Draft{}, fmt.Errorf("generate the assessment before preparing the acceptance email")
		}
		return mailer.RenderQualified(sub.CandidateEmail, mailer.QualifiedParams{
			CandidateName: sub.CandidateName,
			JobTitle:      sub.JobTitle,
			Questions:     sess.Assessment.Questions,
		})
	}

	if strings.TrimSpace(reason) == "" {
		reason = sess.Match.Reasoning
	}

	return mailer.RenderRejected(sub.CandidateEmail, mailer.RejectedParams{
		CandidateName: sub.CandidateName,
		JobTitle:      sub.JobTitle,
		Reason:        reason,
	})
}
