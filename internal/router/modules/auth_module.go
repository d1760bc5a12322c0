package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gimmeapp/auth-service/internal/container"
	handlers "github.com/gimmeapp/auth-service/internal/interface/http"
	"github.com/gimmeapp/auth-service/internal/interface/middleware"
	"github.com/gimmeapp/auth-service/pkg/helpers"
)

// AuthModule wires the social login flow and token lifecycle.
// Public: GET /api/auth/:provider/login, GET /api/auth/:provider/callback, POST /api/refresh
// Protected: POST /api/logout
type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	loginLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIP(), nil)
	refreshLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP(), nil)

	auth := rg.Group("/auth")
	auth.GET("/:provider/login", loginLimiter, m.Handler.Login)
	auth.GET("/:provider/callback", loginLimiter, m.Handler.Callback)

	rg.POST("/refresh", refreshLimiter, m.Handler.Refresh)

	protected := rg.Group("/")
	protected.Use(middleware.Auth(container.GetRedis(), m.JWT))
	protected.POST("/logout", m.Handler.Logout)
}
