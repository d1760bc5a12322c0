package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/gimmeapp/auth-service/internal/application"
	"github.com/gimmeapp/auth-service/pkg/response"
	"github.com/gimmeapp/auth-service/pkg/validation"
)

type UserHandler struct {
	Svc    *userapp.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *userapp.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Username    string `json:"username" binding:"required,min=2,max=40"`
	Email       string `json:"email" binding:"required,email"`
	CountryCode string `json:"country_code" binding:"omitempty,country"`
	PhoneNumber string `json:"phone_number" binding:"omitempty,phone"`
}

// Register creates a pending account. Verification comes after via the
// email code flow.
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.Register(c.Request.Context(), userapp.RegisterInput{
		Username:    req.Username,
		Email:       req.Email,
		CountryCode: req.CountryCode,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		if errors.Is(err, userapp.ErrEmailTaken) {
			response.Fail(c, http.StatusConflict, "email already registered", nil)
			return
		}
		h.Logger.WithError(err).Error("register failed")
		response.Fail(c, http.StatusInternalServerError, "registration failed", nil)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"uuid":           u.UUID,
		"username":       u.Username,
		"email":          u.Email,
		"account_status": u.AccountStatus,
	}, "account created", nil)
}

// Me returns the authenticated account with verification and social links.
func (h *UserHandler) Me(c *gin.Context) {
	uuid := c.GetString("userUUID")
	h.profile(c, uuid)
}

// GetByUUID returns a public profile by account UUID.
func (h *UserHandler) GetByUUID(c *gin.Context) {
	h.profile(c, c.Param("uuid"))
}

func (h *UserHandler) profile(c *gin.Context, uuid string) {
	d, err := h.Svc.GetByUUID(c.Request.Context(), uuid)
	if err != nil {
		if errors.Is(err, userapp.ErrUserNotFound) {
			response.Fail(c, http.StatusNotFound, "user not found", nil)
			return
		}
		h.Logger.WithError(err).WithField("uuid", uuid).Error("profile lookup failed")
		response.Fail(c, http.StatusInternalServerError, "profile lookup failed", nil)
		return
	}

	socials := make([]gin.H, 0, len(d.Socials))
	for _, s := range d.Socials {
		socials = append(socials, gin.H{"provider": s.Provider, "linked_at": s.CreatedAt})
	}
	body := gin.H{
		"uuid":           d.User.UUID,
		"username":       d.User.Username,
		"email":          d.User.Email,
		"country_code":   d.User.CountryCode,
		"phone_number":   d.User.PhoneNumber,
		"account_status": d.User.AccountStatus,
		"created_at":     d.User.CreatedAt,
		"last_login_at":  d.User.LastLoginAt,
		"socials":        socials,
	}
	if d.Verification != nil {
		body["verification"] = gin.H{
			"email_verified":    d.Verification.EmailVerified,
			"email_verified_at": d.Verification.EmailVerifiedAt,
			"phone_verified":    d.Verification.PhoneVerified,
			"business_verified": d.Verification.BusinessVerified,
		}
	}
	response.Success(c, http.StatusOK, body, "profile", nil)
}

// Delivery returns the saved delivery data for the authenticated account.
func (h *UserHandler) Delivery(c *gin.Context) {
	uuid := c.GetString("userUUID")
	d, err := h.Svc.GetDelivery(c.Request.Context(), uuid)
	if err != nil {
		if errors.Is(err, userapp.ErrUserNotFound) {
			response.Fail(c, http.StatusNotFound, "user not found", nil)
			return
		}
		h.Logger.WithError(err).WithField("uuid", uuid).Error("delivery lookup failed")
		response.Fail(c, http.StatusInternalServerError, "delivery lookup failed", nil)
		return
	}
	if d == nil {
		response.Fail(c, http.StatusNotFound, "no delivery data", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"recipient_name":    d.RecipientName,
		"phone_number":      d.PhoneNumber,
		"zip_code":          d.ZipCode,
		"address":           d.Address,
		"detail_address":    d.DetailAddress,
		"entrance_password": d.EntrancePassword,
		"shipping_memo":     d.ShippingMemo,
	}, "delivery data", nil)
}

// Search queries the Elasticsearch users index.
func (h *UserHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Fail(c, http.StatusBadRequest, "missing query", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.SearchUsers(c.Request.Context(), q, size)
	if err != nil {
		h.Logger.WithError(err).Error("user search failed")
		response.Fail(c, http.StatusInternalServerError, "search failed", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", gin.H{"count": len(hits)})
}
