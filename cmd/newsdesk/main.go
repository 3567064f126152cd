package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"newsdesk/internal/api"
	"newsdesk/internal/config"
	"newsdesk/internal/feed"
	"newsdesk/internal/llm"
	"newsdesk/internal/service"
	"newsdesk/internal/store"
	"newsdesk/internal/stream"
	"newsdesk/pkg/logging"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Logging.Level)

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	// simple ping + wait (db might be starting in docker)
	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		logger.Info("waiting for db", "attempt", i+1, "err", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		log.Fatalf("could not connect to db: %v", err)
	}

	if err := store.RunMigrations(db); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping failed", "err", err)
	}

	var producer service.Publisher
	if cfg.Kafka.Broker != "" {
		p := stream.NewProducer(cfg.Kafka.Broker, cfg.Kafka.Topic, logger.With("component", "stream"))
		defer p.Close()
		producer = p
	}

	repo := store.NewPgStore(db)
	svc := service.NewService(repo, service.Options{
		Redis:    rdb,
		Rater:    llm.NewClient(cfg.LLM.URL, cfg.LLM.Model, nil, logger.With("component", "llm")),
		Fetcher:  feed.NewFetcher(logger.With("component", "feed")),
		Producer: producer,
		Feeds:    cfg.Feeds,
		Weights:  cfg.Selection.Weights,
		Limit:    cfg.Selection.Limit,
		Logger:   logger.With("component", "service"),
	})

	handler := api.NewHandler(svc)
	router := gin.Default()
	api.RegisterRoutes(router, handler)

	logger.Info("listening", "port", cfg.HTTP.Port)
	if err := router.Run(":" + cfg.HTTP.Port); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
