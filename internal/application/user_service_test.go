package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gimmeapp/auth-service/internal/domain/entity"
	"github.com/gimmeapp/auth-service/internal/infrastructure/memory"
)

func newUserFixture(t *testing.T) (*UserService, *memory.Manager) {
	t.Helper()
	repos := memory.NewManager()
	return NewUserService(repos, nil, nil, nil, ""), repos
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc, repos := newUserFixture(t)

	u, err := svc.Register(ctx, RegisterInput{
		Username:    "newbie",
		Email:       "newbie@example.com",
		CountryCode: "KR",
		PhoneNumber: "+821012345678",
	})
	require.NoError(t, err)
	require.Equal(t, entity.StatusPending, u.AccountStatus)
	require.NotEmpty(t, u.UUID)

	d, err := repos.Users().FindWithDetailsByUUID(ctx, u.UUID)
	require.NoError(t, err)
	require.NotNil(t, d.Verification)
	require.False(t, d.Verification.EmailVerified, "registration starts unverified")
	require.Empty(t, d.Socials)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserFixture(t)

	_, err := svc.Register(ctx, RegisterInput{Username: "one", Email: "dup@example.com"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Username: "two", Email: "dup@example.com"})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterUUIDsAreUnique(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserFixture(t)

	a, err := svc.Register(ctx, RegisterInput{Username: "a", Email: "a@example.com"})
	require.NoError(t, err)
	b, err := svc.Register(ctx, RegisterInput{Username: "b", Email: "b@example.com"})
	require.NoError(t, err)
	require.NotEqual(t, a.UUID, b.UUID)
}

func TestGetByUUIDNotFound(t *testing.T) {
	svc, _ := newUserFixture(t)
	_, err := svc.GetByUUID(context.Background(), "missing")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetDelivery(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserFixture(t)

	u, err := svc.Register(ctx, RegisterInput{Username: "nobox", Email: "nobox@example.com"})
	require.NoError(t, err)

	d, err := svc.GetDelivery(ctx, u.UUID)
	require.NoError(t, err)
	require.Nil(t, d, "no delivery data saved yet")

	_, err = svc.GetDelivery(ctx, "missing")
	require.ErrorIs(t, err, ErrUserNotFound)
}
