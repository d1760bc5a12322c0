package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	userapp "github.com/gimmeapp/auth-service/internal/application"
	"github.com/gimmeapp/auth-service/internal/domain/entity"
	"github.com/gimmeapp/auth-service/internal/oauth"
	"github.com/gimmeapp/auth-service/pkg/helpers"
	"github.com/gimmeapp/auth-service/pkg/response"
)

const stateCookie = "oauth_state"

type AuthHandler struct {
	Svc     *userapp.AuthService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewAuthHandler(svc *userapp.AuthService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

func parseProvider(c *gin.Context) (entity.SocialProvider, bool) {
	p, ok := entity.ParseSocialProvider(c.Param("provider"))
	if !ok {
		response.Fail(c, http.StatusNotFound, "unknown provider", nil)
		return "", false
	}
	return p, true
}

// Login redirects the browser to the provider's consent page with a state
// cookie for the callback check.
func (h *AuthHandler) Login(c *gin.Context) {
	provider, ok := parseProvider(c)
	if !ok {
		return
	}
	state := uuid.NewString()
	url, err := h.Svc.AuthURL(provider, state)
	if err != nil {
		response.Fail(c, http.StatusNotFound, "unknown provider", nil)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, 600, "/", h.Cookies.Domain, h.Cookies.Secure, true)
	c.Redirect(http.StatusFound, url)
}

// Callback exchanges the code, finds or creates the account and sets the
// token cookies.
func (h *AuthHandler) Callback(c *gin.Context) {
	provider, ok := parseProvider(c)
	if !ok {
		return
	}

	state := c.Query("state")
	saved, err := c.Cookie(stateCookie)
	if err != nil || state == "" || state != saved {
		response.Fail(c, http.StatusBadRequest, "state mismatch", nil)
		return
	}
	c.SetCookie(stateCookie, "", -1, "/", h.Cookies.Domain, h.Cookies.Secure, true)

	code := c.Query("code")
	if code == "" {
		response.Fail(c, http.StatusBadRequest, "missing code", nil)
		return
	}

	u, pair, err := h.Svc.SocialLogin(c.Request.Context(), provider, code)
	if err != nil {
		switch {
		case errors.Is(err, oauth.ErrUnknownProvider):
			response.Fail(c, http.StatusNotFound, "unknown provider", nil)
		case errors.Is(err, userapp.ErrEmailTaken):
			response.Fail(c, http.StatusConflict, "email already registered", nil)
		default:
			h.Logger.WithError(err).WithField("provider", provider).Error("social login failed")
			response.Fail(c, http.StatusBadGateway, "social login failed", nil)
		}
		return
	}

	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, gin.H{
		"uuid":             u.UUID,
		"username":         u.Username,
		"email":            u.Email,
		"account_status":   u.AccountStatus,
		"need_more_action": u.AccountStatus != entity.StatusActive,
	}, "login successful", gin.H{
		"access_expires_at":  pair.AccessTokenExpiry,
		"refresh_expires_at": pair.RefreshTokenExpiry,
	})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie("refresh_token")
	if err != nil || refresh == "" {
		response.Fail(c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, _, err := h.Svc.Refresh(c.Request.Context(), refresh)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success[any](c, http.StatusOK, gin.H{"refreshed": true}, "token refreshed", gin.H{
		"access_expires_at":  pair.AccessTokenExpiry,
		"refresh_expires_at": pair.RefreshTokenExpiry,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if uuid := c.GetString("userUUID"); uuid != "" {
		h.Svc.Logout(c.Request.Context(), uuid)
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}
