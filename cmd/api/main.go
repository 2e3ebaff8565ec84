package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/RetroMaine/FintechProject/internal/adapter/handler"
	"github.com/RetroMaine/FintechProject/internal/adapter/middleware"
	"github.com/RetroMaine/FintechProject/internal/adapter/storage"
	"github.com/RetroMaine/FintechProject/internal/core/advisor"
	"github.com/RetroMaine/FintechProject/internal/core/config"
	"github.com/RetroMaine/FintechProject/internal/core/model"
	"github.com/RetroMaine/FintechProject/internal/core/service"
)

const indexText = "Available endpoints:\n" +
	"  POST /limit     with JSON {Income, Rating, Cards, Age, Balance, Ethnicity}\n" +
	"  POST /approval  with JSON { ... same plus Education, Student, Married }\n" +
	"  POST /estimate  with JSON {userId, ...all nine features}\n" +
	"  GET  /history/{userId}\n" +
	"  POST /signup /signin /setup\n" +
	"  POST /chatbot /insight\n"

func main() {
	// 1. Load Config
	cfg := config.LoadConfig()

	// 2. Setup Logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 3. Load model artifacts once; they are shared read-only afterwards
	registry, err := model.LoadRegistry(cfg.ModelDir)
	if err != nil {
		slog.Error("❌ Model loading failed", "error", err, "dir", cfg.ModelDir)
		os.Exit(1)
	}

	// 4. Connect to Database (closed manually on shutdown)
	dbPool, err := storage.ConnectDB(cfg.DatabaseURL)
	if err != nil {
		slog.Error("❌ Database connection failed", "error", err)
		os.Exit(1)
	}

	// 5. Optional Redis cache for latest outputs
	var cache service.LatestCache
	var redisCache *storage.LatestCache
	if cfg.RedisAddr != "" {
		redisCache, err = storage.NewLatestCache(cfg.RedisAddr)
		if err != nil {
			slog.Warn("Redis unavailable, running without latest cache", "error", err)
		} else {
			cache = redisCache
		}
	}

	// 6. Setup Repos, Service & Handlers
	ledgerRepo := storage.NewLedgerRepository(dbPool)
	userRepo := storage.NewUserRepository(dbPool)
	estimator := service.NewEstimator(registry, ledgerRepo, cache, logger)

	advisorOpts := []advisor.Option{}
	if cfg.AdvisorBaseURL != "" {
		advisorOpts = append(advisorOpts, advisor.WithBaseURL(cfg.AdvisorBaseURL))
	}
	if cfg.AdvisorModel != "" {
		advisorOpts = append(advisorOpts, advisor.WithModel(cfg.AdvisorModel))
	}

	predictionHandler := &handler.PredictionHandler{Estimator: estimator}
	authHandler := &handler.AuthHandler{Repo: userRepo}
	advisorHandler := &handler.AdvisorHandler{Advisor: advisor.NewClient(cfg.AdvisorAPIKey, advisorOpts...)}

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Use(cors.New())

	// 8. Routes
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(indexText)
	})

	app.Get("/limit", predictionHandler.LimitUsage)
	app.Post("/limit", predictionHandler.PredictLimit)
	app.Get("/approval", predictionHandler.ApprovalUsage)
	app.Post("/approval", predictionHandler.PredictApproval)
	app.Post("/estimate", predictionHandler.Estimate)
	app.Get("/history/:userId", predictionHandler.History)

	app.Post("/signup", middleware.ValidateSignup(), authHandler.Signup)
	app.Post("/signin", middleware.ValidateSignin(), authHandler.Signin)
	app.Post("/setup", middleware.ValidateSetup(), authHandler.Setup)
	app.Get("/users", authHandler.ListUsers)

	app.Post("/chatbot", advisorHandler.Chatbot)
	app.Post("/insight", advisorHandler.Insight)

	// 9. Graceful shutdown: listen for Ctrl+C / docker stop
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("🚀 Server starting", "env", cfg.Env, "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("Server forced to shutdown", "error", err)
		}
	}()

	<-stop
	slog.Info("🛑 Shutting down server...")

	dbPool.Close()
	if redisCache != nil {
		if err := redisCache.Close(); err != nil {
			slog.Warn("Redis close failed", "error", err)
		}
	}
	slog.Info("✅ Database connection closed")

	if err := app.Shutdown(); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}

	slog.Info("👋 Server exited successfully")
}
