package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"splatbot/internal/config"
	"splatbot/internal/database"
	"splatbot/internal/handlers"
	"splatbot/internal/ingest"
	"splatbot/internal/quiz"
	"splatbot/internal/repository"
	"splatbot/internal/router"
	"splatbot/internal/telegram"
)

func main() {
	log.Println("🚀 Starting SPLAT Exam Bot...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Client ────
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClient.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, cfg.MigrationsDir); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(pool)
	questionRepo := repository.NewQuestionRepo(pool)
	answerRepo := repository.NewAnswerRepo(pool)
	quizRepo := repository.NewQuizRepo(pool)

	// ──── Step 5: Load Question Batches ────
	loader := ingest.NewLoader(cfg.QuestionsDir, questionRepo)
	result, err := loader.LoadAll(context.Background())
	if err != nil {
		log.Fatalf("✗ Question ingestion failed: %v", err)
	}
	log.Printf("✓ Question batches loaded (%d inserted, %d skipped)", result.Inserted, result.Skipped)

	// ──── Step 6: Initialize Quiz Engine ────
	sessionTTL := time.Duration(cfg.SessionTTLMinutes) * time.Minute
	sessionStore := quiz.NewRedisSessionStore(redisClient, sessionTTL)
	engine := quiz.NewEngine(questionRepo, userRepo, answerRepo, quizRepo, sessionStore)
	log.Println("✓ Quiz engine initialized")

	// ──── Step 7: Initialize Telegram Bot ────
	bot, err := telegram.NewBot(cfg.BotToken, cfg.BotDebug, engine, userRepo, answerRepo, quizRepo)
	if err != nil {
		log.Fatalf("✗ Telegram bot initialization failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go bot.Run(ctx)
	log.Println("✓ Telegram bot polling started")

	// ──── Step 8: Start Ops HTTP Server ────
	statsHandler := handlers.NewStatsHandler(userRepo, questionRepo, answerRepo, quizRepo)
	r := router.New(statsHandler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		server.Shutdown(shutdownCtx)
	}()

	log.Printf("✓ Ops server ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
