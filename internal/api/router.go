package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"habitroom-backend/config"
	"habitroom-backend/internal/mw"
	"habitroom-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, webpushOptions *webpush.Options, log *zap.Logger, cfg *config.ServerConfig) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, webpushOptions, log)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.PUT("/users", handler.PutUser)
		api.GET("/users/:user_id", handler.GetUser)

		api.GET("/rooms", caching, handler.ListRooms)
		api.POST("/rooms", handler.CreateRoom)
		api.POST("/rooms/join", handler.JoinRoom)
		api.GET("/rooms/:room_id/leaderboard", caching, handler.GetLeaderboard)
		api.GET("/rooms/:room_id/gallery", caching, handler.GetGallery)
		api.POST("/rooms/:room_id/checkins", handler.CreateCheckIn)
		api.POST("/checkins/:checkin_id/review", handler.ReviewCheckIn)

		api.GET("/reminders", handler.ListReminders)
		api.PUT("/reminders", handler.PutReminder)
		api.DELETE("/reminders", handler.DeleteReminder)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)

		api.GET("/notifications", handler.ListNotifications)
	}

	return r
}
