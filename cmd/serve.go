package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ivstih/interviewd/internal/ai/gemini"
	"github.com/ivstih/interviewd/internal/interview"
	"github.com/ivstih/interviewd/internal/logger"
	"github.com/ivstih/interviewd/internal/mail"
	"github.com/ivstih/interviewd/internal/report"
	"github.com/ivstih/interviewd/internal/secrets"
	"github.com/ivstih/interviewd/internal/server"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	defaultListen  = ":8080"
	defaultBaseURL = "http://localhost:8080"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the interviewd HTTP server",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if config == nil {
		logger.Fatal("config is required")
	}

	logger.Info("starting interviewd", zap.String("version", version))

	generator, err := newGenerator(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building the ai generator", zap.Error(err),
			zap.String("hint", "set ai.gemini.api-key-file in the configuration file or the GEMINI_API_KEY environment variable"),
		)
	}

	mailer := newMailer(config.Mail, logger)

	listen := defaultListen
	baseURL := defaultBaseURL
	if config.Server != nil {
		if config.Server.Listen != "" {
			listen = config.Server.Listen
		}
		if config.Server.BaseURL != "" {
			baseURL = config.Server.BaseURL
		}
	}

	store := interview.NewMemoryStore()

	srv := server.New(server.Deps{
		Logger:     logger,
		Store:      store,
		Controller: interview.NewController(store, generator, logger),
		Scheduler:  interview.NewScheduler(store, generator, mailer, baseURL, logger),
		Completer:  interview.NewCompleter(store, generator, report.NewPDFRenderer(), logger),
	})

	if err := srv.Run(ctx, listen); err != nil {
		logger.Fatal("http server failed", zap.Error(err))
	}
}

func newGenerator(ctx context.Context, cfg *AIConfig, log *zap.Logger) (*gemini.Generator, error) {
	gcfg := &GeminiConfig{}
	if cfg != nil && cfg.Gemini != nil {
		gcfg = cfg.Gemini
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: gcfg.APIKey,
		Env:   "GEMINI_API_KEY",
		File:  gcfg.APIKeyFile,
	})
	if err != nil {
		return nil, err
	}

	genLogger := logger.WithAIFields(log, "gemini", gcfg.Model)

	return gemini.NewGenerator(ctx, apiKey, gcfg.Model, gcfg.MaxRetries, gcfg.MaxLogLength, genLogger)
}

func newMailer(cfg *MailConfig, log *zap.Logger) mail.Mailer {
	if cfg == nil || !cfg.Enabled {
		log.Info("mail delivery is disabled")
		return &mail.Discard{Logger: log}
	}

	password, err := secrets.Load(secrets.Source{
		Name:  "smtp password",
		Value: cfg.Password,
		Env:   "SMTP_PASSWORD",
		File:  cfg.PasswordFile,
	})
	if err != nil {
		log.Warn("smtp password not resolved; falling back to discard mailer", zap.Error(err))
		return &mail.Discard{Logger: log}
	}

	mailer, err := mail.NewSMTP(cfg.Host, cfg.Port, cfg.Username, password, cfg.From)
	if err != nil {
		log.Warn("smtp mailer misconfigured; falling back to discard mailer", zap.Error(err))
		return &mail.Discard{Logger: log}
	}

	return mailer
}
