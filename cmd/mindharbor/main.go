package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
	"github.com/terraincognita07/mindharbor/internal/api"
	"github.com/terraincognita07/mindharbor/internal/assistant"
	"github.com/terraincognita07/mindharbor/internal/cli"
	"github.com/terraincognita07/mindharbor/internal/config"
	"github.com/terraincognita07/mindharbor/internal/content"
	"github.com/terraincognita07/mindharbor/internal/db"
	"github.com/terraincognita07/mindharbor/internal/hostedauth"
	"github.com/terraincognita07/mindharbor/internal/models"
	"github.com/terraincognita07/mindharbor/internal/security"
	"github.com/terraincognita07/mindharbor/internal/services"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "mindharbor",
		Short:        "MindHarbor web service",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	root.AddCommand(newServeCommand(), newAnalyzeCommand(), newForgetDeviceCommand())
	return root
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func newAnalyzeCommand() *cobra.Command {
	answers := models.QuestionnaireAnswers{}
	command := &cobra.Command{
		Use:   "analyze",
		Short: "Print the bearing analysis for a set of onboarding answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunAnalyzeCommand(cmd.Context(), answers, cmd.OutOrStdout())
		},
	}
	flags := command.Flags()
	flags.StringVar(&answers.PrimaryStruggle, "primary", "", "primary struggle")
	flags.StringVar(&answers.SleepQuality, "sleep", "", "sleep quality")
	flags.StringVar(&answers.StressLevel, "stress", "", "stress level")
	flags.StringVar(&answers.SupportSystem, "support", "", "support system")
	flags.StringVar(&answers.Coping, "coping", "", "coping")
	flags.StringVar(&answers.PhysicalActivity, "activity", "", "physical activity")
	return command
}

func newForgetDeviceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "forget-device <device-id>",
		Short: "Remove everything stored locally for a device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
			if err != nil {
				return err
			}
			log, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			return cli.RunForgetDeviceCommand(cfg.DBPath, args[0], cmd.OutOrStdout(), log)
		},
	}
}

func runServe(parent context.Context) error {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if parent == nil {
		parent = context.Background()
	}
	ctx, stopSignals := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	database, err := db.OpenSQLite(cfg.DBPath, log)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		return fmt.Errorf("database handle: %w", err)
	}
	defer sqlDB.Close()
	repos := db.NewRepositories(database)

	sealer, err := security.NewSealer([]byte(cfg.SecretKey))
	if err != nil {
		return fmt.Errorf("token sealer init failed: %w", err)
	}
	hosted, err := hostedauth.NewClient(hostedauth.Config{
		BaseURL: cfg.Hosted.URL,
		AnonKey: cfg.Hosted.AnonKey,
		Timeout: cfg.Hosted.Timeout,
	}, &http.Client{Timeout: cfg.Hosted.Timeout})
	if err != nil {
		return fmt.Errorf("hosted client init failed: %w", err)
	}
	catalog, err := content.NewStore(cfg.ContentDir, log)
	if err != nil {
		return fmt.Errorf("content init failed: %w", err)
	}
	validator, err := services.NewStepValidator()
	if err != nil {
		return fmt.Errorf("questionnaire init failed: %w", err)
	}
	providers, err := chatProviders(ctx, cfg.Chat, log)
	if err != nil {
		return err
	}

	authService := services.NewAuthService(
		hosted,
		hosted,
		services.NewSessionRegistry(),
		services.NewTokenVault(repos.DeviceEntries, sealer),
		log.Named("auth"),
	)
	questionnaire := services.NewQuestionnaireService(repos.DeviceEntries, validator)
	handler, err := api.NewHandler(api.Dependencies{
		Auth:          authService,
		Questionnaire: questionnaire,
		Onboarding:    services.NewOnboardingService(authService, repos.Bearings, repos.DeviceEntries, hosted, questionnaire, log.Named("onboarding")),
		Chat:          services.NewChatService(providers, cfg.Chat.Timeout, log.Named("chat")),
		Content:       catalog,
		SecretKey:     []byte(cfg.SecretKey),
		CookieSecure:  cfg.CookieSecure,
		Logger:        log.Named("api"),
	})
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}

	app := fiber.New(fiber.Config{
		AppName:               "MindHarbor",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	app.Use(csrf.New(csrfMiddlewareConfig(cfg.CookieSecure)))
	api.RegisterRoutes(app, handler)
	app.Use(handler.NotFound)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("MindHarbor listening", zap.String("port", cfg.Port), zap.String("db", cfg.DBPath))
		return app.Listen(":" + cfg.Port)
	})
	group.Go(func() error {
		return catalog.Watch(groupCtx)
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Warn("server shutdown failed", zap.Error(err))
		}
		return nil
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server exited: %w", err)
	}
	log.Info("MindHarbor stopped")
	return nil
}

func chatProviders(ctx context.Context, cfg config.ChatConfig, log *zap.Logger) ([]services.ChatProvider, error) {
	providers := make([]services.ChatProvider, 0, 2)
	if cfg.GeminiAPIKey != "" {
		gemini, err := assistant.NewGemini(ctx, assistant.GeminiConfig{APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel})
		if err != nil {
			return nil, fmt.Errorf("gemini init failed: %w", err)
		}
		providers = append(providers, gemini)
	}
	if cfg.OllamaURL != "" {
		ollama, err := assistant.NewOllama(assistant.OllamaConfig{
			BaseURL: cfg.OllamaURL,
			Model:   cfg.OllamaModel,
			Timeout: cfg.Timeout,
		}, nil)
		if err != nil {
			return nil, fmt.Errorf("ollama init failed: %w", err)
		}
		providers = append(providers, ollama)
	}
	if len(providers) == 0 {
		log.Info("no chat provider configured, using canned replies")
	}
	return providers, nil
}

func newLogger(level string) (*zap.Logger, error) {
	if strings.EqualFold(strings.TrimSpace(level), "debug") {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	if level != "" {
		parsed, err := zap.ParseAtomicLevel(strings.ToLower(level))
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
		}
		cfg.Level = parsed
	}
	return cfg.Build()
}

func csrfMiddlewareConfig(cookieSecure bool) csrf.Config {
	return csrf.Config{
		KeyLookup:      "header:X-CSRF-Token",
		CookieName:     "mindharbor_csrf",
		CookieSameSite: "Lax",
		CookieHTTPOnly: false,
		CookieSecure:   cookieSecure,
		ContextKey:     "csrf",
	}
}
