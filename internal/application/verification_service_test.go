package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gimmeapp/auth-service/internal/domain/entity"
	repo "github.com/gimmeapp/auth-service/internal/domain/repository"
	"github.com/gimmeapp/auth-service/internal/infrastructure/memory"
	"github.com/gimmeapp/auth-service/pkg/mailer"
)

type fakeCodeStore struct {
	mu    sync.Mutex
	codes map[string]string
}

func newFakeCodeStore() *fakeCodeStore {
	return &fakeCodeStore{codes: make(map[string]string)}
}

func (s *fakeCodeStore) Save(ctx context.Context, email, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[email] = code
	return nil
}

func (s *fakeCodeStore) Get(ctx context.Context, email string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codes[email], nil
}

func (s *fakeCodeStore) Del(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, email)
	return nil
}

type fakePublisher struct {
	mu   sync.Mutex
	jobs []mailer.EmailJob
}

func (p *fakePublisher) PublishJSON(ctx context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if job, ok := body.(mailer.EmailJob); ok {
		p.jobs = append(p.jobs, job)
	}
	return nil
}

func seedPendingUser(t *testing.T, repos repo.Manager, email string) *entity.User {
	t.Helper()
	u, err := repos.Users().CreateUserWithVerification(context.Background(), repo.UserDraft{
		UUID:          "555",
		Username:      "pending",
		Email:         email,
		AccountStatus: entity.StatusPending,
	}, nil, repo.VerificationDraft{})
	require.NoError(t, err)
	return u
}

func newVerificationFixture(t *testing.T) (*VerificationService, repo.Manager, *fakeCodeStore, *fakePublisher) {
	t.Helper()
	repos := memory.NewManager()
	codes := newFakeCodeStore()
	pub := &fakePublisher{}
	svc := NewVerificationService(repos, codes, pub, nil, nil)
	return svc, repos, codes, pub
}

func TestRequestEmailCode(t *testing.T) {
	ctx := context.Background()
	svc, repos, codes, pub := newVerificationFixture(t)
	u := seedPendingUser(t, repos, "pending@example.com")

	require.NoError(t, svc.RequestEmailCode(ctx, u.UUID))

	code, err := codes.Get(ctx, "pending@example.com")
	require.NoError(t, err)
	require.Len(t, code, 6)

	d, err := repos.Users().FindWithDetailsByUUID(ctx, u.UUID)
	require.NoError(t, err)
	require.NotNil(t, d.Verification.VerificationCode)
	require.Equal(t, code, *d.Verification.VerificationCode)

	require.Len(t, pub.jobs, 1)
	require.Equal(t, "pending@example.com", pub.jobs[0].To)
	require.Equal(t, code, pub.jobs[0].Data["Code"])
}

func TestRequestEmailCodeUnknownUser(t *testing.T) {
	svc, _, _, _ := newVerificationFixture(t)
	err := svc.RequestEmailCode(context.Background(), "does-not-exist")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestRequestEmailCodeRejectsNonPending(t *testing.T) {
	ctx := context.Background()
	svc, repos, codes, pub := newVerificationFixture(t)

	now := time.Now()
	active, err := repos.Users().CreateUserWithVerification(ctx, repo.UserDraft{
		UUID:          "556",
		Username:      "active",
		Email:         "active@example.com",
		AccountStatus: entity.StatusActive,
	}, nil, repo.VerificationDraft{EmailVerified: true, EmailVerifiedAt: &now})
	require.NoError(t, err)

	err = svc.RequestEmailCode(ctx, active.UUID)
	require.ErrorIs(t, err, ErrNotPending)

	stored, err := codes.Get(ctx, "active@example.com")
	require.NoError(t, err)
	require.Empty(t, stored, "no code issued for an active account")
	require.Empty(t, pub.jobs)
}

func TestRequestEmailCodeRejectsVerifiedEmail(t *testing.T) {
	ctx := context.Background()
	svc, repos, _, _ := newVerificationFixture(t)

	now := time.Now()
	u, err := repos.Users().CreateUserWithVerification(ctx, repo.UserDraft{
		UUID:          "557",
		Username:      "verified",
		Email:         "verified@example.com",
		AccountStatus: entity.StatusPending,
	}, nil, repo.VerificationDraft{EmailVerified: true, EmailVerifiedAt: &now})
	require.NoError(t, err)

	err = svc.RequestEmailCode(ctx, u.UUID)
	require.ErrorIs(t, err, ErrAlreadyVerified)
}

func TestConfirmEmailCode(t *testing.T) {
	ctx := context.Background()
	svc, repos, codes, _ := newVerificationFixture(t)
	u := seedPendingUser(t, repos, "pending@example.com")

	require.NoError(t, svc.RequestEmailCode(ctx, u.UUID))
	code, err := codes.Get(ctx, "pending@example.com")
	require.NoError(t, err)

	updated, err := svc.ConfirmEmailCode(ctx, "pending@example.com", code)
	require.NoError(t, err)
	require.Equal(t, entity.StatusActive, updated.AccountStatus)

	d, err := repos.Users().FindWithDetailsByUUID(ctx, u.UUID)
	require.NoError(t, err)
	require.True(t, d.Verification.EmailVerified)
	require.NotNil(t, d.Verification.EmailVerifiedAt)
	require.Nil(t, d.Verification.VerificationCode, "code column cleared after confirm")

	// Code is consumed, a second confirm fails.
	_, err = svc.ConfirmEmailCode(ctx, "pending@example.com", code)
	require.ErrorIs(t, err, ErrCodeExpired)
}

func TestConfirmEmailCodeMismatch(t *testing.T) {
	ctx := context.Background()
	svc, repos, _, _ := newVerificationFixture(t)
	u := seedPendingUser(t, repos, "pending@example.com")

	require.NoError(t, svc.RequestEmailCode(ctx, u.UUID))

	_, err := svc.ConfirmEmailCode(ctx, "pending@example.com", "000000")
	require.ErrorIs(t, err, ErrCodeMismatch)

	d, err := repos.Users().FindWithDetailsByUUID(ctx, u.UUID)
	require.NoError(t, err)
	require.False(t, d.Verification.EmailVerified)
	require.Equal(t, entity.StatusPending, d.User.AccountStatus)
}

func TestConfirmEmailCodeExpired(t *testing.T) {
	svc, repos, _, _ := newVerificationFixture(t)
	seedPendingUser(t, repos, "pending@example.com")

	_, err := svc.ConfirmEmailCode(context.Background(), "pending@example.com", "123456")
	require.ErrorIs(t, err, ErrCodeExpired)
}

func TestResetEmailVerified(t *testing.T) {
	ctx := context.Background()
	svc, repos, codes, _ := newVerificationFixture(t)
	u := seedPendingUser(t, repos, "pending@example.com")

	require.NoError(t, svc.RequestEmailCode(ctx, u.UUID))
	code, err := codes.Get(ctx, "pending@example.com")
	require.NoError(t, err)
	_, err = svc.ConfirmEmailCode(ctx, "pending@example.com", code)
	require.NoError(t, err)

	require.NoError(t, svc.ResetEmailVerified(ctx, u.UUID))

	d, err := repos.Users().FindWithDetailsByUUID(ctx, u.UUID)
	require.NoError(t, err)
	require.False(t, d.Verification.EmailVerified)
	require.Nil(t, d.Verification.VerificationCode)

	err = svc.ResetEmailVerified(ctx, "does-not-exist")
	require.ErrorIs(t, err, ErrUserNotFound)
}
