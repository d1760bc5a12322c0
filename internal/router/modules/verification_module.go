package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gimmeapp/auth-service/internal/container"
	handlers "github.com/gimmeapp/auth-service/internal/interface/http"
	"github.com/gimmeapp/auth-service/internal/interface/middleware"
	"github.com/gimmeapp/auth-service/pkg/helpers"
)

// VerificationModule wires the email verification flow.
// Public: POST /api/verification/email/confirm
// Protected: POST /api/verification/email/request, POST /api/verification/email/reset
type VerificationModule struct {
	Handler *handlers.VerificationHandler
	JWT     *helpers.JWTManager
}

func NewVerificationModule(h *handlers.VerificationHandler, jwt *helpers.JWTManager) *VerificationModule {
	return &VerificationModule{Handler: h, JWT: jwt}
}

func (m *VerificationModule) Register(rg *gin.RouterGroup) {
	requestLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByUserID(), nil)
	confirmLimiter := middleware.RateLimit(container.GetRedis(), 20, time.Minute, middleware.KeyByIPAndPath(), nil)

	v := rg.Group("/verification/email")
	v.POST("/confirm", confirmLimiter, m.Handler.Confirm)

	protected := v.Group("/")
	protected.Use(middleware.Auth(container.GetRedis(), m.JWT))
	protected.POST("/request", requestLimiter, m.Handler.RequestCode)
	protected.POST("/reset", m.Handler.Reset)
}
