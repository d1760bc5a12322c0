package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gimmeapp/auth-service/internal/domain/entity"
	repo "github.com/gimmeapp/auth-service/internal/domain/repository"
	"github.com/gimmeapp/auth-service/pkg/helpers"
	"github.com/gimmeapp/auth-service/pkg/mailer"
	"github.com/gimmeapp/auth-service/pkg/mailer/templates"
)

const DefaultCodeTTL = 5 * time.Minute

// VerificationService drives the email verification lifecycle: issuing
// codes, confirming them and resetting the verified flag.
type VerificationService struct {
	Repos   repo.Manager
	Codes   CodeStore
	Mail    EmailPublisher
	Logger  *logrus.Logger
	Users   *UserService
	CodeTTL time.Duration
}

func NewVerificationService(repos repo.Manager, codes CodeStore, mail EmailPublisher, logger *logrus.Logger, users *UserService) *VerificationService {
	return &VerificationService{Repos: repos, Codes: codes, Mail: mail, Logger: logger, Users: users, CodeTTL: DefaultCodeTTL}
}

// RequestEmailCode issues a fresh 6-digit code for the account, stores it
// with expiry and enqueues the verification email. Re-requesting replaces
// the previous code. Only a PENDING account with an unverified email may
// request a code.
func (s *VerificationService) RequestEmailCode(ctx context.Context, uuid string) error {
	users := s.Repos.Users()
	d, err := users.FindWithDetailsByUUID(ctx, uuid)
	if err != nil {
		return err
	}
	if d == nil {
		return ErrUserNotFound
	}
	if d.User.AccountStatus != entity.StatusPending {
		return ErrNotPending
	}
	if d.Verification != nil && d.Verification.EmailVerified {
		return ErrAlreadyVerified
	}
	u := &d.User
	email := u.Email

	code, err := helpers.GenVerificationCode()
	if err != nil {
		return err
	}
	if err := s.Codes.Save(ctx, email, code, s.CodeTTL); err != nil {
		return err
	}
	if _, err := users.UpdateVerification(ctx, repo.VerificationPatch{
		UserID:              u.ID,
		SetVerificationCode: true,
		VerificationCode:    &code,
	}); err != nil {
		return err
	}

	if s.Mail != nil {
		job := mailer.EmailJob{
			To:       email,
			Template: templates.VerifyEmail,
			Data: map[string]any{
				"Username":       u.Username,
				"Code":           code,
				"ExpiresMinutes": int(s.CodeTTL.Minutes()),
			},
		}
		if err := s.Mail.PublishJSON(ctx, job); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("email", email).Warn("verification email enqueue failed")
		}
	}
	return nil
}

// ConfirmEmailCode checks the pending code and, on match, marks the email
// verified and activates the account inside one unit of work. The code is
// consumed whether or not the update succeeds.
func (s *VerificationService) ConfirmEmailCode(ctx context.Context, email, code string) (*entity.User, error) {
	u, err := s.Repos.Users().FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	stored, err := s.Codes.Get(ctx, email)
	if err != nil {
		return nil, err
	}
	if stored == "" {
		return nil, ErrCodeExpired
	}
	if stored != code {
		return nil, ErrCodeMismatch
	}
	if err := s.Codes.Del(ctx, email); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("email", email).Warn("verification code delete failed")
	}

	uow, err := s.Repos.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = uow.Rollback(ctx) }()

	users, ok := s.Repos.Users().WithUnitOfWork(uow)
	if !ok {
		return nil, ErrBackendMismatch
	}

	now := time.Now()
	verified := true
	if _, err := users.UpdateVerification(ctx, repo.VerificationPatch{
		UserID:              u.ID,
		EmailVerified:       &verified,
		EmailVerifiedAt:     &now,
		SetVerificationCode: true, // nil value clears the column
	}); err != nil {
		return nil, err
	}

	status := entity.StatusActive
	updated, err := users.UpdateUser(ctx, repo.UserPatch{ID: u.ID, AccountStatus: &status})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrUserNotFound
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	if s.Users != nil {
		s.Users.InvalidateProfile(ctx, updated.UUID)
		s.Users.IndexUser(ctx, updated)
	}
	return updated, nil
}

// ResetEmailVerified clears the verified flag and any pending code for the
// account, forcing re-verification.
func (s *VerificationService) ResetEmailVerified(ctx context.Context, uuid string) error {
	users := s.Repos.Users()
	u, err := users.FindByUUID(ctx, uuid)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrUserNotFound
	}

	unverified := false
	if _, err := users.UpdateVerification(ctx, repo.VerificationPatch{
		UserID:              u.ID,
		EmailVerified:       &unverified,
		SetVerificationCode: true,
	}); err != nil {
		return err
	}
	if err := s.Codes.Del(ctx, u.Email); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("email", u.Email).Warn("verification code delete failed")
	}
	if s.Users != nil {
		s.Users.InvalidateProfile(ctx, uuid)
	}
	return nil
}
