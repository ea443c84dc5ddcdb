package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"

	"rayverse/config"
	"rayverse/database"
	"rayverse/handlers"
	"rayverse/middleware"
	"rayverse/routes"
	"rayverse/storage"
)

func main() {
	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	logger := log.New(os.Stdout, "[rayverse] ", log.LstdFlags)

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	if cfg.Mode == config.ModeProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mongoClient, err := connectWithRetry(ctx, cfg.DatabaseURI, logger)
	if err != nil {
		logger.Fatalf("failed to connect to database: %v", err)
	}
	logger.Println("database connected")
	db := mongoClient.Database(cfg.DatabaseName)

	articleRepo, err := database.NewArticles(db, logger)
	if err != nil {
		logger.Fatalf("failed to init article repository: %v", err)
	}
	imageRepo, err := database.NewImages(db, logger)
	if err != nil {
		logger.Fatalf("failed to init image repository: %v", err)
	}
	videoRepo, err := database.NewVideos(db, logger)
	if err != nil {
		logger.Fatalf("failed to init video repository: %v", err)
	}
	resumeRepo, err := database.NewResumes(db, logger)
	if err != nil {
		logger.Fatalf("failed to init resume repository: %v", err)
	}

	store, err := storage.NewClient(ctx, cfg)
	if err != nil {
		logger.Fatalf("failed to init storage client: %v", err)
	}

	limiter := middleware.NewIPRateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)

	router := routes.SetupRouter(routes.Deps{
		Config:   cfg,
		Logger:   logger,
		Limiter:  limiter,
		Articles: handlers.NewArticleHandler(articleRepo, store, store, cfg.PageSize, logger),
		Images:   handlers.NewImageHandler(imageRepo, store, logger),
		Videos:   handlers.NewVideoHandler(videoRepo, store, logger),
		Resumes:  handlers.NewResumeHandler(resumeRepo, store, logger),
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Printf("app running on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Println("shutdown signal received, shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Printf("forced shutdown: %v", err)
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		logger.Printf("database disconnect error: %v", err)
	}

	logger.Println("server stopped gracefully")
}

// connectWithRetry gives the database a few chances to come up before
// giving up, which smooths over container start ordering.
func connectWithRetry(ctx context.Context, uri string, logger *log.Logger) (*mongo.Client, error) {
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		client, err := database.Connect(ctx, uri)
		if err == nil {
			return client, nil
		}
		lastErr = err
		logger.Printf("database connection attempt %d failed: %v", attempt, err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
	return nil, lastErr
}
