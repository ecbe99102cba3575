package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-places-api/internal/application"
	handlers "github.com/oksasatya/go-places-api/internal/interface/http"
	"github.com/oksasatya/go-places-api/internal/interface/middleware"
)

// UserModule wires user routes under /users.
// Public: GET /users, POST /users/signup, POST /users/login
// Protected: POST /users/logout
type UserModule struct {
	Handler *handlers.UserHandler
	Auth    *application.Authenticator
	Upload  gin.HandlerFunc
	Redis   *redis.Client
}

func NewUserModule(h *handlers.UserHandler, auth *application.Authenticator, upload gin.HandlerFunc, rdb *redis.Client) *UserModule {
	return &UserModule{Handler: h, Auth: auth, Upload: upload, Redis: rdb}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	signupLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	loginLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIPAndPath(), nil) // 10 req/min per IP

	users := rg.Group("/users")
	users.GET("", m.Handler.List)
	users.POST("/signup", signupLimiter, m.Upload, m.Handler.Signup)
	users.POST("/login", loginLimiter, m.Handler.Login)

	auth := users.Group("")
	auth.Use(middleware.Auth(m.Auth))
	{
		auth.POST("/logout", m.Handler.Logout)
	}
}
