package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/flashquiz/backend/docs"
	"github.com/flashquiz/backend/internal/achievements"
	"github.com/flashquiz/backend/internal/auth"
	"github.com/flashquiz/backend/internal/cache"
	"github.com/flashquiz/backend/internal/config"
	"github.com/flashquiz/backend/internal/handlers"
	"github.com/flashquiz/backend/internal/llm"
	"github.com/flashquiz/backend/internal/logger"
	"github.com/flashquiz/backend/internal/maintenance"
	"github.com/flashquiz/backend/internal/middleware"
	"github.com/flashquiz/backend/internal/models"
	"github.com/flashquiz/backend/internal/repositories"
	"github.com/flashquiz/backend/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

const (
	maxRequestSize   = 1 << 20 // 1MB, enough for a 200-card quiz
	requestsPerMin   = 100
	aiRequestsPerMin = 10
	shutdownTimeout  = 30 * time.Second
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

func runServer(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(cfg.Logging.Level); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()
	log := logger.Logger

	log.Info("Starting FlashQuiz API")

	db, err := connectDB(cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := runMigrations(db); err != nil {
		return err
	}

	tokenGenerator := auth.NewTokenGenerator(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	provider, err := llm.NewProvider(ctx, llmConfig(cfg.LLM), log)
	if err != nil {
		return fmt.Errorf("failed to create LLM provider: %w", err)
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db, log)
	userTokenRepo := repositories.NewUserTokenRepository(db)
	quizRepo := repositories.NewQuizRepository(db, log)
	attemptRepo := repositories.NewQuizAttemptRepository(db)
	achievementRepo := repositories.NewUserAchievementRepository(db)

	// Quiz reads go through Redis when it is configured and reachable
	var quizReader services.QuizReader = quizRepo
	var invalidator services.QuizCacheInvalidator
	if redisClient := connectRedis(ctx, cfg, log); redisClient != nil {
		defer redisClient.Close()
		quizCache := cache.NewQuizCache(redisClient, quizRepo, cfg.Redis.QuizTTL, log)
		quizReader = quizCache
		invalidator = quizCache
	}

	// Initialize services
	authService := services.NewAuthService(userRepo, userTokenRepo, tokenGenerator, log)
	userService := services.NewUserService(userRepo, log)
	quizService := services.NewQuizService(quizRepo, quizReader, invalidator, userRepo, log)
	achievementService := services.NewAchievementService(achievements.DefaultCatalog(), attemptRepo, achievementRepo, log)
	attemptService := services.NewAttemptService(attemptRepo, quizService, achievementService, log)
	dashboardService := services.NewDashboardService(userRepo, quizRepo, attemptRepo, achievementService, log)
	aiService := services.NewAIService(provider, log)

	if cfg.Server.TokenCleanupSchedule != "" {
		janitor, err := maintenance.NewJanitor(authService, cfg.Server.TokenCleanupSchedule, log)
		if err != nil {
			return err
		}
		janitor.Start()
		defer janitor.Stop()
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, log, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)
	userHandler := handlers.NewUserHandler(userService, log)
	quizHandler := handlers.NewQuizHandler(quizService, log)
	attemptHandler := handlers.NewAttemptHandler(attemptService, log)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, log)
	achievementHandler := handlers.NewAchievementHandler(achievementService, log)
	aiHandler := handlers.NewAIHandler(aiService, log)
	tokenCleaningHandler := handlers.NewTokenCleaningHandler(authService, log)
	healthHandler := handlers.NewHealthHandler(db, log)

	// Initialize auth middleware
	authMiddleware := middleware.AuthMiddleware(tokenGenerator)
	parentMiddleware := middleware.RoleMiddleware(tokenGenerator, int(models.RoleParent))
	adminMiddleware := middleware.RoleMiddleware(tokenGenerator, int(models.RoleAdmin))
	aiLimiter := httprate.LimitByIP(aiRequestsPerMin, time.Minute)

	// Setup router
	r := chi.NewRouter()

	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.LoggerMiddleware(log))
	r.Use(middleware.RecoveryMiddleware(log))
	r.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(requestsPerMin, time.Minute))
	r.Use(middleware.RequestSizeLimitMiddleware(maxRequestSize))

	r.Get("/healthz", healthHandler.Health)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))

	r.Route("/api/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authMiddleware)
		userHandler.RegisterRoutes(r, parentMiddleware, adminMiddleware)
		quizHandler.RegisterRoutes(r, authMiddleware, parentMiddleware)
		attemptHandler.RegisterRoutes(r, authMiddleware)
		dashboardHandler.RegisterRoutes(r, authMiddleware)
		achievementHandler.RegisterRoutes(r, authMiddleware)
		aiHandler.RegisterRoutes(r, authMiddleware, parentMiddleware, aiLimiter)
		if cfg.Server.InternalAPIKey != "" {
			r.Group(func(r chi.Router) {
				r.Use(middleware.APIKeyMiddleware(cfg.Server.InternalAPIKey))
				tokenCleaningHandler.RegisterRoutes(r)
			})
		}
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // generation requests can take a while
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.Int("port", cfg.Server.Port), zap.String("llmModel", provider.ModelID()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed to start: %w", err)
	case <-quit:
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	log.Info("Server exited")
	return nil
}

// connectRedis returns nil when Redis is not configured or cannot be reached
func connectRedis(ctx context.Context, cfg *config.Config, log *zap.Logger) *redis.Client {
	if cfg.Redis.Host == "" {
		log.Info("Redis not configured, quiz cache disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn("Redis unreachable, quiz cache disabled", zap.Error(err), zap.String("addr", cfg.RedisAddr()))
		client.Close()
		return nil
	}

	return client
}

func llmConfig(c config.LLMConfig) llm.Config {
	return llm.Config{
		Provider:  c.Provider,
		Gemini:    llm.GeminiConfig{APIKey: c.GeminiAPIKey, Model: c.GeminiModel},
		OpenAI:    llm.OpenAIConfig{APIKey: c.OpenAIAPIKey, Model: c.OpenAIModel, BaseURL: c.OpenAIBaseURL},
		Anthropic: llm.AnthropicConfig{APIKey: c.AnthropicAPIKey, Model: c.AnthropicModel},
		Retry:     llm.DefaultRetryConfig(c.MaxAttempts),
		Timeout:   c.Timeout,
	}
}
