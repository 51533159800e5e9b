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

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/PvUtrix/shked-sub003/internal/bot"
	"github.com/PvUtrix/shked-sub003/internal/config"
	"github.com/PvUtrix/shked-sub003/internal/database"
	_ "github.com/PvUtrix/shked-sub003/internal/docs" // Import swagger docs
	"github.com/PvUtrix/shked-sub003/internal/handlers"
	"github.com/PvUtrix/shked-sub003/internal/jobs"
	"github.com/PvUtrix/shked-sub003/internal/logger"
	"github.com/PvUtrix/shked-sub003/internal/messenger"
	"github.com/PvUtrix/shked-sub003/internal/middleware"
	"github.com/PvUtrix/shked-sub003/internal/services"
	"github.com/PvUtrix/shked-sub003/internal/validator"
)

// @title           Shked Messenger API
// @version         1.0
// @description     Links Telegram and Max accounts to Shked web accounts and delivers schedule notifications.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

const (
	shutdownTimeout = 15 * time.Second
	maxHTTPTimeout  = 10 * time.Second
)

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run(ctx context.Context) error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if appConfig.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	validator.Register()

	// Create database manager
	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Messenger clients
	senders, registrars, err := newMessengers(appConfig)
	if err != nil {
		return err
	}

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	tokenService := services.NewTokenService(db, appConfig.LinkTokenTTL)
	registry := services.NewMessengerService(db)
	linkService := services.NewLinkService(db, tokenService, registry)
	scheduleService := services.NewScheduleService(db)
	auditService := services.NewAuditService(db)
	notificationService := services.NewNotificationService(registry, userService, senders, services.NotificationOptions{
		Concurrency:      appConfig.NotifyConcurrency,
		RecipientTimeout: appConfig.NotifyPerRecipientTTL,
		BatchTimeout:     appConfig.NotifyBatchTTL,
	})

	// Bot commands
	botRouter := bot.NewRouter()
	bot.RegisterAllCommands(botRouter, bot.Deps{
		Links:    linkService,
		Registry: registry,
		Schedule: scheduleService,
		Users:    userService,
	})

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	handlers.Routes{
		Auth:                  handlers.NewAuthHandler(userService, auditService),
		Messenger:             handlers.NewMessengerHandler(linkService, registry, auditService),
		Notification:          handlers.NewNotificationHandler(notificationService, registry, auditService),
		Webhook:               handlers.NewWebhookHandler(registry, botRouter, senders...),
		TelegramWebhookSecret: appConfig.TelegramWebhookSecret,
		MaxWebhookSecret:      appConfig.MaxWebhookSecret,
	}.Register(router)

	// Background jobs
	scheduler, err := jobs.NewScheduler()
	if err != nil {
		return err
	}
	if err := scheduler.SchedulePurge(tokenService, appConfig.TokenPurgeInterval); err != nil {
		return err
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Warnw("failed to stop scheduler", "error", err)
		}
	}()

	if appConfig.PublicURL != "" {
		registerWebhooks(ctx, appConfig, registrars)
	}

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting Shked messenger server on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

// newMessengers builds a client per configured platform. A platform without
// a token is left out and its updates get no reply.
func newMessengers(cfg *config.Config) ([]messenger.Sender, map[string]messenger.WebhookRegistrar, error) {
	log := logger.Get()
	var senders []messenger.Sender
	registrars := make(map[string]messenger.WebhookRegistrar)

	if cfg.TelegramToken != "" {
		tg, err := messenger.NewTelegramClient(cfg.TelegramToken, cfg.TelegramAPIURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create telegram client: %w", err)
		}
		senders = append(senders, tg)
		registrars["telegram"] = tg
		if cfg.TelegramWebhookSecret == "" {
			log.Warn("TELEGRAM_WEBHOOK_SECRET not set, Telegram webhook deliveries will be refused")
		}
	} else {
		log.Warn("TELEGRAM_BOT_TOKEN not set, Telegram is disabled")
	}

	if cfg.MaxToken != "" {
		mx, err := messenger.NewMaxClient(cfg.MaxToken, cfg.MaxAPIURL, maxHTTPTimeout)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create max client: %w", err)
		}
		senders = append(senders, mx)
		registrars["max"] = mx
		if cfg.MaxWebhookSecret == "" {
			log.Warn("MAX_WEBHOOK_SECRET not set, Max webhook deliveries will be refused")
		}
	} else {
		log.Warn("MAX_BOT_TOKEN not set, Max is disabled")
	}

	return senders, registrars, nil
}

// registerWebhooks points each platform at PUBLIC_URL. Platforms without a
// webhook secret are skipped. Failures are logged so a platform outage does not
// keep the API down.
func registerWebhooks(ctx context.Context, cfg *config.Config, registrars map[string]messenger.WebhookRegistrar) {
	log := logger.Get()
	base := strings.TrimRight(cfg.PublicURL, "/") + "/api/v1/webhooks/"
	secrets := map[string]string{
		"telegram": cfg.TelegramWebhookSecret,
		"max":      cfg.MaxWebhookSecret,
	}

	for name, r := range registrars {
		url := base + name
		if secrets[name] == "" {
			log.Warnw("skipping webhook registration without a secret", "platform", name)
			continue
		}
		if err := r.RegisterWebhook(ctx, url, secrets[name]); err != nil {
			log.Errorw("failed to register webhook", "platform", name, "url", url, "error", err)
			continue
		}
		log.Infow("webhook registered", "platform", name, "url", url)
	}
}
