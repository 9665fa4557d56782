package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/hrsuite/ats-scanner/internal/ai"
	"github.com/hrsuite/ats-scanner/internal/ingest"
	"github.com/hrsuite/ats-scanner/internal/logger"
	"github.com/hrsuite/ats-scanner/internal/mailer"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptPreview = "Preview email"
	PromptSend    = "Send email"
	PromptQuit    = "Quit without sending"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Score a single resume from the command line",
	Run: func(cmd *cobra.Command, _ []string) {
		scan(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().String("resume", "", "path to the resume file (pdf, docx or txt)")
	scanCmd.Flags().String("jd", "", "path to the job description file")
	scanCmd.Flags().String("email", "", "candidate email address")
	scanCmd.Flags().String("name", "", "candidate name")
	scanCmd.Flags().String("job-title", "", "job title used in the candidate email")
	scanCmd.Flags().BoolP("auto-approve", "y", false, "send the result email without confirmation")

	scanCmd.MarkFlagRequired("resume")
	scanCmd.MarkFlagRequired("jd")
	scanCmd.MarkFlagRequired("email")
}

// scan runs the whole pipeline once for a single candidate.
func scan(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	resumePath := cmd.Flag("resume").Value.String()
	jdPath := cmd.Flag("jd").Value.String()
	candidateEmail := cmd.Flag("email").Value.String()
	candidateName := cmd.Flag("name").Value.String()
	jobTitle := cmd.Flag("job-title").Value.String()

	resumeData, err := os.ReadFile(resumePath)
	if err != nil {
		logger.Fatal("reading resume file", zap.Error(err))
	}

	resumeText, err := ingest.Extract(filepath.Base(resumePath), "", resumeData)
	if err != nil {
		logger.Fatal("extracting resume text", zap.Error(err))
	}

	jdData, err := os.ReadFile(jdPath)
	if err != nil {
		logger.Fatal("reading job description file", zap.Error(err))
	}
	jobDescription := strings.TrimSpace(string(jdData))

	screener, assessor, err := newScreeningStack(ctx, config.Gemini, logger)
	if err != nil {
		logger.Fatal("building the screening stack", zap.Error(err))
	}

	result, err := screener.Match(ctx, resumeText, jobDescription)
	if err != nil {
		logger.Fatal("matching resume", zap.Error(err))
	}

	pretty, _ := json.MarshalIndent(result, "", "  ")
	logger.Info("match result",
		zap.Float64("score", result.Score),
		zap.String("recommendation", string(result.Recommendation)),
	)
	fmt.Println(string(pretty))

	var assessment *ai.Assessment
	if result.IsQualified() {
		assessment, err = assessor.Generate(ctx, jobDescription, result.MatchedQualifications)
		if err != nil {
			logger.Fatal("generating assessment", zap.Error(err))
		}
		logger.Info("assessment generated", zap.Int("questions", len(assessment.Questions)))
	}

	draft, err := buildScanDraft(result, assessment, candidateEmail, candidateName, jobTitle)
	if err != nil {
		logger.Fatal("rendering email", zap.Error(err))
	}

	sender, err := newMailer(config.SMTP, logger)
	if err != nil {
		logger.Fatal("building the mailer", zap.Error(err))
	}

	if cmd.Flag("auto-approve").Value.String() == "true" {
		if err := sender.Send(ctx, draft); err != nil {
			logger.Fatal("sending email", zap.Error(err))
		}
		return
	}

	prompt := promptui.Select{
		Label: "Proceed?",
		Items: []string{PromptPreview, PromptSend, PromptQuit},
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		switch action {
		case PromptPreview:
			fmt.Printf("To: %s\nSubject: %s\n\n%s\n", draft.To, draft.Subject, draft.BodyHTML)
		case PromptSend:
			if err := sender.Send(ctx, draft); err != nil {
				logger.Fatal("sending email", zap.Error(err))
			}
			return
		case PromptQuit:
			logger.Info("exiting", zap.String("reason", "email not sent"))
			return
		}
	}
}

func buildScanDraft(result *ai.MatchResult, assessment *ai.Assessment, email, name, jobTitle string) (mailer.Draft, error) {
	if result.IsQualified() {
		return mailer.RenderQualified(email, mailer.QualifiedParams{
			CandidateName: name,
			JobTitle:      jobTitle,
			Questions:     assessment.Questions,
		})
	}

	return mailer.RenderRejected(email, mailer.RejectedParams{
		CandidateName: name,
		JobTitle:      jobTitle,
		Reason:        result.Reasoning,
	})
}
