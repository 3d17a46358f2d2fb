package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/openvid/vidshare/internal/config"
	"github.com/openvid/vidshare/internal/database"
	"github.com/openvid/vidshare/internal/handler"
	"github.com/openvid/vidshare/internal/media"
	"github.com/openvid/vidshare/internal/queue"
	"github.com/openvid/vidshare/internal/repository"
	"github.com/openvid/vidshare/internal/router"
	queue_publisher "github.com/openvid/vidshare/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	var (
		users    repository.UserStore
		videos   repository.VideoStore
		comments repository.CommentStore
	)
	switch cfg.StoreDriver {
	case "memory":
		log.Println("using in-memory store (data is not persisted)")
		users = repository.NewMemoryUserStore()
		videos = repository.NewMemoryVideoStore()
		comments = repository.NewMemoryCommentStore()
	default:
		db, err := database.Connect(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			log.Fatalf("mongo connect: %v", err)
		}
		userRepo := repository.NewUserRepo(db)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := userRepo.EnsureIndexes(ctx); err != nil {
			cancel()
			log.Fatalf("mongo indexes: %v", err)
		}
		cancel()
		users = userRepo
		videos = repository.NewVideoRepo(db)
		comments = repository.NewCommentRepo(db)
	}

	resolver := media.NewCloudinary(cfg.CloudName, cfg.CloudAPIKey, cfg.CloudAPISecret)
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; response cache and rate limiting disabled")
	}

	videoHandler := handler.NewVideoHandler(cfg, videos, resolver)
	videoHandler.Publish = queue_publisher.PublishVideoUploaded

	go func() {
		if err := queue.StartUploadConsumer(); err != nil {
			log.Printf("upload consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e, router.Deps{
		Cfg:      cfg,
		Users:    handler.NewUserHandler(cfg, users, resolver),
		Videos:   videoHandler,
		Comments: handler.NewCommentHandler(comments, videos, users),
		Redis:    rdb,
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, store=%s)", addr, cfg.Env, cfg.StoreDriver)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
