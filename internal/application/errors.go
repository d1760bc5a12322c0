package application

import (
	"errors"

	repo "github.com/gimmeapp/auth-service/internal/domain/repository"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailTaken      = errors.New("email already registered")
	ErrInvalidSession  = errors.New("invalid session")
	ErrCodeExpired     = errors.New("verification code expired")
	ErrCodeMismatch    = errors.New("verification code mismatch")
	ErrNotPending      = errors.New("account is not pending")
	ErrAlreadyVerified = errors.New("email already verified")
	ErrBackendMismatch = errors.New("unit of work belongs to another backend")
)

func errorsIsConflict(err error) bool {
	return errors.Is(err, repo.ErrConflict)
}
