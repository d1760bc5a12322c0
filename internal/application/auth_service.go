package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/gimmeapp/auth-service/internal/domain/entity"
	repo "github.com/gimmeapp/auth-service/internal/domain/repository"
	"github.com/gimmeapp/auth-service/internal/oauth"
	"github.com/gimmeapp/auth-service/pkg/helpers"
	"github.com/gimmeapp/auth-service/pkg/mailer"
	"github.com/gimmeapp/auth-service/pkg/mailer/templates"
)

const sessionTTL = 24 * time.Hour

// EmailPublisher enqueues outgoing mail. Satisfied by helpers.RabbitPublisher.
type EmailPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// AuthService covers social login and session/token handling.
type AuthService struct {
	Repos     repo.Manager
	Providers *oauth.Registry
	JWT       *helpers.JWTManager
	Redis     *redis.Client
	Logger    *logrus.Logger
	Mail      EmailPublisher
	Users     *UserService
}

func NewAuthService(repos repo.Manager, providers *oauth.Registry, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger, mail EmailPublisher, users *UserService) *AuthService {
	return &AuthService{Repos: repos, Providers: providers, JWT: jwt, Redis: rdb, Logger: logger, Mail: mail, Users: users}
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func sessionKey(userUUID string) string {
	return "user:session:" + userUUID
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// AuthURL returns the provider's authorization URL for the redirect step.
func (s *AuthService) AuthURL(provider entity.SocialProvider, state string) (string, error) {
	p, err := s.Providers.Get(provider)
	if err != nil {
		return "", err
	}
	return p.AuthURL(state), nil
}

// SocialLogin exchanges the provider code and finds or creates the account.
// A first-time login creates an ACTIVE user, its social link and a
// verification row with the email already marked verified, all in one step.
func (s *AuthService) SocialLogin(ctx context.Context, provider entity.SocialProvider, code string) (*entity.User, TokenPair, error) {
	p, err := s.Providers.Get(provider)
	if err != nil {
		return nil, TokenPair{}, err
	}
	info, err := p.FetchUser(ctx, code)
	if err != nil {
		return nil, TokenPair{}, err
	}

	u, created, err := s.findOrCreate(ctx, provider, info)
	if err != nil {
		return nil, TokenPair{}, err
	}

	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}

	if s.Users != nil {
		s.Users.IndexUser(ctx, u)
		s.Users.InvalidateProfile(ctx, u.UUID)
	}
	if created && s.Mail != nil {
		job := mailer.EmailJob{
			To:       u.Email,
			Template: templates.Welcome,
			Data:     map[string]any{"Username": u.Username, "Provider": string(provider)},
		}
		if err := s.Mail.PublishJSON(ctx, job); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("email", u.Email).Warn("welcome email enqueue failed")
		}
	}
	return u, pair, nil
}

func (s *AuthService) findOrCreate(ctx context.Context, provider entity.SocialProvider, info *oauth.UserInfo) (*entity.User, bool, error) {
	users := s.Repos.Users()

	link, err := users.FindSocial(ctx, provider, info.ProviderID)
	if err != nil {
		return nil, false, err
	}
	if link != nil {
		now := time.Now()
		u, err := users.UpdateUser(ctx, repo.UserPatch{ID: link.UserID, LastLoginAt: &now})
		if err != nil {
			return nil, false, err
		}
		if u == nil {
			return nil, false, ErrUserNotFound
		}
		return u, false, nil
	}

	now := time.Now()
	username := info.Nickname
	if username == "" {
		username = info.Email
	}
	draft := repo.UserDraft{
		UUID:          helpers.GenUserUUID(),
		Username:      username,
		Email:         info.Email,
		AccountStatus: entity.StatusActive,
		LastLoginAt:   &now,
	}
	social := &repo.SocialDraft{Provider: provider, ProviderID: info.ProviderID}
	verification := repo.VerificationDraft{EmailVerified: true, EmailVerifiedAt: &now}

	u, err := users.CreateUserWithVerification(ctx, draft, social, verification)
	if err == nil {
		return u, true, nil
	}
	if !errorsIsConflict(err) {
		return nil, false, err
	}

	// Lost a race with a concurrent first login for the same social account.
	link, ferr := users.FindSocial(ctx, provider, info.ProviderID)
	if ferr != nil {
		return nil, false, ferr
	}
	if link == nil {
		return nil, false, ErrEmailTaken
	}
	u, ferr = users.FindByID(ctx, link.UserID)
	if ferr != nil {
		return nil, false, ferr
	}
	if u == nil {
		return nil, false, ErrUserNotFound
	}
	return u, false, nil
}

// IssueTokens generates access/refresh tokens and records a session in Redis.
func (s *AuthService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.UUID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("uuid", u.UUID).Error("generate access token failed")
		}
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.UUID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("uuid", u.UUID).Error("generate refresh token failed")
		}
		return TokenPair{}, err
	}

	if s.Redis != nil {
		key := sessionKey(u.UUID)
		fields := map[string]any{
			"uuid":       u.UUID,
			"email":      u.Email,
			"username":   u.Username,
			"sid":        sid,
			"logged_in":  true,
			"created_at": nowRFC3339(),
		}
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, sessionTTL)
		if _, rErr := pipe.Exec(ctx); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// Refresh validates the refresh token against the stored session, then
// rotates the session id and both tokens.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, string, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, "", ErrInvalidSession
	}
	u, err := s.Repos.Users().FindByUUID(ctx, claims.UserUUID)
	if err != nil {
		return TokenPair{}, "", err
	}
	if u == nil {
		return TokenPair{}, "", ErrInvalidSession
	}
	if s.Redis != nil {
		data, rErr := s.Redis.HGetAll(ctx, sessionKey(u.UUID)).Result()
		if rErr != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, "", ErrInvalidSession
		}
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return TokenPair{}, "", err
	}
	return pair, u.UUID, nil
}

// Logout drops the stored session.
func (s *AuthService) Logout(ctx context.Context, userUUID string) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, sessionKey(userUUID)).Err(); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("uuid", userUUID).Warn("session delete failed")
	}
}
