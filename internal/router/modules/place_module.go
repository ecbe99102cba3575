package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-places-api/internal/application"
	handlers "github.com/oksasatya/go-places-api/internal/interface/http"
	"github.com/oksasatya/go-places-api/internal/interface/middleware"
)

type PlaceModule struct {
	Handler *handlers.PlaceHandler
	Auth    *application.Authenticator
	Upload  gin.HandlerFunc
	Redis   *redis.Client
}

func NewPlaceModule(h *handlers.PlaceHandler, auth *application.Authenticator, upload gin.HandlerFunc, rdb *redis.Client) *PlaceModule {
	return &PlaceModule{Handler: h, Auth: auth, Upload: upload, Redis: rdb}
}

func (m *PlaceModule) Register(rg *gin.RouterGroup) {
	places := rg.Group("/places")
	places.GET("/search", middleware.RateLimit(m.Redis, 60, time.Minute, middleware.KeyByIP(), nil), m.Handler.Search)
	places.GET("/user/:userId", m.Handler.ByUser)
	places.GET("/:placeId", m.Handler.Get)

	// Protected, limited per user
	auth := places.Group("")
	auth.Use(middleware.Auth(m.Auth))
	auth.Use(middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("", m.Upload, m.Handler.Create)
		auth.PATCH("/:placeId", m.Handler.Update)
		auth.DELETE("/:placeId", m.Handler.Delete)
	}
}
