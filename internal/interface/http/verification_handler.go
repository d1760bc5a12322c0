package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/gimmeapp/auth-service/internal/application"
	"github.com/gimmeapp/auth-service/pkg/response"
	"github.com/gimmeapp/auth-service/pkg/validation"
)

type VerificationHandler struct {
	Svc    *userapp.VerificationService
	Logger *logrus.Logger
}

func NewVerificationHandler(svc *userapp.VerificationService, logger *logrus.Logger) *VerificationHandler {
	return &VerificationHandler{Svc: svc, Logger: logger}
}

type confirmCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,code6"`
}

// RequestCode issues a new verification code for the authenticated account
// and enqueues the email.
func (h *VerificationHandler) RequestCode(c *gin.Context) {
	uuid := c.GetString("userUUID")
	if err := h.Svc.RequestEmailCode(c.Request.Context(), uuid); err != nil {
		switch {
		case errors.Is(err, userapp.ErrUserNotFound):
			response.Fail(c, http.StatusNotFound, "user not found", nil)
		case errors.Is(err, userapp.ErrNotPending):
			response.Fail(c, http.StatusBadRequest, "account is not pending", nil)
		case errors.Is(err, userapp.ErrAlreadyVerified):
			response.Fail(c, http.StatusBadRequest, "email already verified", nil)
		default:
			h.Logger.WithError(err).WithField("uuid", uuid).Error("verification code request failed")
			response.Fail(c, http.StatusInternalServerError, "could not issue code", nil)
		}
		return
	}
	response.Success[any](c, http.StatusAccepted, gin.H{"sent": true}, "verification code sent", nil)
}

// Confirm validates the submitted code and activates the account.
func (h *VerificationHandler) Confirm(c *gin.Context) {
	var req confirmCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.ConfirmEmailCode(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, userapp.ErrUserNotFound):
			response.Fail(c, http.StatusNotFound, "user not found", nil)
		case errors.Is(err, userapp.ErrCodeExpired):
			response.Fail(c, http.StatusGone, "verification code expired", nil)
		case errors.Is(err, userapp.ErrCodeMismatch):
			response.Fail(c, http.StatusUnprocessableEntity, "verification code mismatch", nil)
		default:
			h.Logger.WithError(err).WithField("email", req.Email).Error("verification confirm failed")
			response.Fail(c, http.StatusInternalServerError, "could not confirm code", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"uuid":           u.UUID,
		"account_status": u.AccountStatus,
		"email_verified": true,
	}, "email verified", nil)
}

// Reset clears the verified flag for the authenticated account.
func (h *VerificationHandler) Reset(c *gin.Context) {
	uuid := c.GetString("userUUID")
	if err := h.Svc.ResetEmailVerified(c.Request.Context(), uuid); err != nil {
		if errors.Is(err, userapp.ErrUserNotFound) {
			response.Fail(c, http.StatusNotFound, "user not found", nil)
			return
		}
		h.Logger.WithError(err).WithField("uuid", uuid).Error("verification reset failed")
		response.Fail(c, http.StatusInternalServerError, "could not reset verification", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"email_verified": false}, "verification reset", nil)
}
