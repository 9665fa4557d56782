package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/hrsuite/ats-scanner/internal/ai/gemini"
	"github.com/hrsuite/ats-scanner/internal/mailer"
	"github.com/hrsuite/ats-scanner/internal/secrets"
	"go.uber.org/zap"
)

// newScreeningStack builds the Gemini-backed screener and assessor sharing
// one generator.
func newScreeningStack(ctx context.Context, cfg *GeminiConfig, logger *zap.Logger) (*gemini.Screener, *gemini.Assessor, error) {
	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.APIKey,
		File:  cfg.APIKeyFile,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, nil, err
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Model)
	if err != nil {
		return nil, nil, fmt.Errorf("building gemini generator: %w", err)
	}

	screener := gemini.NewScreener(generator, logger, cfg.MaxLogLength)
	assessor := gemini.NewAssessor(generator, logger, cfg.QuestionCount, cfg.MaxLogLength)

	return screener, assessor, nil
}

// newMailer builds the SMTP mailer. The password is required only when a
// username is configured.
func newMailer(cfg *SMTPConfig, logger *zap.Logger) (*mailer.Mailer, error) {
	password := ""
	if strings.TrimSpace(cfg.Username) != "" {
		var err error
		password, err = secrets.Load(secrets.Source{
			Name:  "smtp password",
			Value: cfg.Password,
			File:  cfg.PasswordFile,
			Env:   "SMTP_PASSWORD",
		})
		if err != nil {
			return nil, err
		}
	}

	from := cfg.From
	if strings.TrimSpace(from) == "" {
		from = cfg.Username
	}

	return mailer.New(mailer.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: password,
		From:     from,
	}, logger)
}
