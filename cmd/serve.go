package cmd

import (
	"context"
	"log"

	"github.com/hrsuite/ats-scanner/internal/logger"
	"github.com/hrsuite/ats-scanner/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the screening web UI and JSON API",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "listen address (default :8080)")

	viper.BindPFlag("listen", serveCmd.Flags().Lookup("listen"))
}

func serve() {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the ats-scanner", zap.String("version", version))

	screener, assessor, err := newScreeningStack(ctx, config.Gemini, logger)
	if err != nil {
		logger.Fatal("building the screening stack", zap.Error(err))
	}

	sender, err := newMailer(config.SMTP, logger)
	if err != nil {
		logger.Fatal("building the mailer", zap.Error(err))
	}

	srv := server.New(server.Config{
		Listen:     config.Listen,
		SessionTTL: config.SessionTTL,
	}, logger, screener, assessor, sender)

	logger.Info("listening", zap.String("address", config.Listen))

	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
