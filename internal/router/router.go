// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/openvid/vidshare/internal/config"
	"github.com/openvid/vidshare/internal/handler"
	"github.com/openvid/vidshare/internal/middleware"
)

// Deps carries everything route registration needs.
type Deps struct {
	Cfg      config.Config
	Users    *handler.UserHandler
	Videos   *handler.VideoHandler
	Comments *handler.CommentHandler
	Redis    *redis.Client // may be nil; cache and rate limiting degrade to no-ops
}

// RegisterRoutes wires up all resource groups under /api/v1 plus the health
// check. Protected endpoints share the bearer-token gate. The limiter is
// attached per route so that on protected routes it runs after the gate and
// buckets by authenticated user id; public routes bucket per client ip
// ("guest"). The response cache is applied only to the public,
// side-effect-free video listings (GET /video/:id records a view and must
// never be cached), behind the limiter so cache hits still consume budget.
func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)

	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), d.Redis)
	auth := middleware.Auth(d.Cfg.JWTSecret)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), d.Redis)

	user := e.Group("/api/v1/user")
	user.POST("/signup", d.Users.Signup, limit)
	user.POST("/login", d.Users.Login, limit)
	user.PUT("/update-profile", d.Users.UpdateProfile, auth, limit)
	user.POST("/subscribed", d.Users.Subscribe, auth, limit)

	video := e.Group("/api/v1/video")
	video.POST("/update", d.Videos.Create, auth, limit)
	video.PUT("/update/:id", d.Videos.Update, auth, limit)
	video.DELETE("/:id", d.Videos.Delete, auth, limit)
	video.GET("/all", d.Videos.ListAll, limit, cache)
	video.GET("/my-video", d.Videos.ListMine, auth, limit)
	video.GET("/category/:category", d.Videos.ListByCategory, limit, cache)
	video.GET("/tags/:tag", d.Videos.ListByTag, limit, cache)
	video.GET("/:id", d.Videos.GetByID, auth, limit)
	video.POST("/like", d.Videos.Like, auth, limit)
	video.POST("/dislike", d.Videos.Dislike, auth, limit)

	comment := e.Group("/api/v1/comment")
	comment.POST("/new", d.Comments.Create, auth, limit)
	comment.PUT("/:commentId", d.Comments.Update, auth, limit)
	comment.DELETE("/:commentId", d.Comments.Delete, auth, limit)
	comment.GET("/comment/:videoId", d.Comments.ListByVideo, limit)
}
