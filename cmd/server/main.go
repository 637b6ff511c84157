package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/minhngvn/scholarship-hub/internal/catalog"
	"github.com/minhngvn/scholarship-hub/internal/config"
	"github.com/minhngvn/scholarship-hub/internal/database"
	"github.com/minhngvn/scholarship-hub/internal/handler"
	"github.com/minhngvn/scholarship-hub/internal/middleware"
	"github.com/minhngvn/scholarship-hub/internal/queue"
	"github.com/minhngvn/scholarship-hub/internal/recommend"
	"github.com/minhngvn/scholarship-hub/internal/repository"
	"github.com/minhngvn/scholarship-hub/internal/router"
	queuepub "github.com/minhngvn/scholarship-hub/internal/service/queue_publisher"
)

// amqpPublisher adapts the broker publisher to the handler-side
// EventPublisher interface.
type amqpPublisher struct{}

func (amqpPublisher) PublishScholarshipChanged(ctx context.Context, ev queue.ScholarshipChangedEvent) error {
	return queuepub.PublishScholarshipChanged(ctx, ev)
}

func main() {
	_ = godotenv.Load() // optional .env for local runs
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("schema: %v", err)
	}

	users := repository.NewUserRepo(db)
	scholarships := repository.NewScholarshipRepo(db)
	tokens := repository.NewTokenRepo(db)

	if err := database.SeedScholarships(ctx, scholarships); err != nil {
		log.Fatalf("seed scholarships: %v", err)
	}
	if adminUser := os.Getenv("ADMIN_USERNAME"); adminUser != "" {
		if err := database.SeedAdmin(ctx, users, adminUser, os.Getenv("ADMIN_PASSWORD"), cfg.BcryptCost); err != nil {
			log.Fatalf("seed admin: %v", err)
		}
	}

	cat := catalog.New(scholarships)
	if err := cat.Reload(ctx); err != nil {
		log.Fatalf("catalog: %v", err)
	}
	cat.Subscribe(func() {
		log.Printf("catalog: %d listings", cat.Len())
	})
	go queue.StartScholarshipConsumer(cat)

	rdb := config.NewRedisClient()
	rateLimit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	publicCache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	e := echo.New()
	e.HideBanner = true
	e.Use(rateLimit)

	events := amqpPublisher{}
	rec := recommend.NewFromEnv()

	router.RegisterRoutes(e, handler.NewHealthHandler(cat))
	router.RegisterPublic(e, handler.NewPublicHandler(cat), publicCache)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterAccount(e, handler.NewAccountHandler(cfg, users, cat, rec), handler.NewCommentHandler(users, scholarships, cat, events), cfg.JWTSecret)
	router.RegisterModeration(e, handler.NewModeratorHandler(scholarships, cat, events), cfg.JWTSecret)
	router.RegisterAdmin(e, handler.NewAdminHandler(users), cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
