package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gimmeapp/auth-service/internal/container"
	handlers "github.com/gimmeapp/auth-service/internal/interface/http"
	"github.com/gimmeapp/auth-service/internal/interface/middleware"
	"github.com/gimmeapp/auth-service/pkg/helpers"
)

// UserModule wires account routes.
// Public: POST /api/users, GET /api/users/:uuid
// Protected: GET /api/users/me, GET /api/users/me/delivery, GET /api/users/search
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)

	users := rg.Group("/users")
	users.POST("", registerLimiter, m.Handler.Register)

	auth := users.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/me", m.Handler.Me)
		auth.GET("/me/delivery", m.Handler.Delivery)
		auth.GET("/search", m.Handler.Search)
	}

	// Registered after /me so the static routes win.
	users.GET("/:uuid", middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), nil), m.Handler.GetByUUID)
}
