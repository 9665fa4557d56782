package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hrsuite/ats-scanner/internal/ai"
	"github.com/hrsuite/ats-scanner/internal/ingest"
	"github.com/hrsuite/ats-scanner/internal/mailer"
	"go.uber.org/zap"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Warn("writing response", zap.Error(err))
	}
}

func (s *Server) clientError(w http.ResponseWriter, log *zap.Logger, msg string) {
	log.Info("rejected request", zap.String("reason", msg))
	s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

func (s *Server) conflict(w http.ResponseWriter, log *zap.Logger, msg string) {
	log.Info("rejected request", zap.String("reason", msg))
	s.writeJSON(w, http.StatusConflict, map[string]string{"error": msg})
}

// stageError maps a pipeline failure to its HTTP status. Unreadable documents
// and malformed model responses are the client-visible 422s; upstream service
// and SMTP failures surface as 502.
func (s *Server) stageError(w http.ResponseWriter, log *zap.Logger, stage string, err error) {
	status := http.StatusInternalServerError

	var (
		extractionErr *ingest.ExtractionError
		parseErr      *ai.ParseError
		serviceErr    *ai.ServiceError
		deliveryErr   *mailer.DeliveryError
	)

	switch {
	case errors.As(err, &extractionErr), errors.As(err, &parseErr):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &serviceErr), errors.As(err, &deliveryErr):
		status = http.StatusBadGateway
	}

	log.Warn("stage failed",
		zap.String("stage", stage),
		zap.Int("status", status),
		zap.Error(err),
	)

	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
