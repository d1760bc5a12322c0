package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gimmeapp/auth-service/internal/domain/entity"
	"github.com/gimmeapp/auth-service/internal/domain/repository"
)

func userDraft(uuid, email string) repository.UserDraft {
	return repository.UserDraft{
		UUID:          uuid,
		Username:      "tester",
		Email:         email,
		AccountStatus: entity.StatusPending,
	}
}

func TestCreateAndFind(t *testing.T) {
	ctx := context.Background()
	m := NewManager()
	users := m.Users()

	u, err := users.CreateUserWithVerification(ctx, userDraft("101", "a@example.com"), nil, repository.VerificationDraft{})
	require.NoError(t, err)
	require.NotZero(t, u.ID)
	require.Equal(t, entity.StatusPending, u.AccountStatus)

	got, err := users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Email, got.Email)

	got, err = users.FindByUUID(ctx, "101")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	got, err = users.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	missing, err := users.FindByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestCreateWithSocialAndDetails(t *testing.T) {
	ctx := context.Background()
	m := NewManager()
	users := m.Users()

	now := time.Now()
	social := &repository.SocialDraft{Provider: entity.ProviderKakao, ProviderID: "k-1"}
	verification := repository.VerificationDraft{EmailVerified: true, EmailVerifiedAt: &now}

	u, err := users.CreateUserWithVerification(ctx, userDraft("102", "b@example.com"), social, verification)
	require.NoError(t, err)

	link, err := users.FindSocial(ctx, entity.ProviderKakao, "k-1")
	require.NoError(t, err)
	require.NotNil(t, link)
	require.Equal(t, u.ID, link.UserID)

	missing, err := users.FindSocial(ctx, entity.ProviderGoogle, "k-1")
	require.NoError(t, err)
	require.Nil(t, missing)

	d, err := users.FindWithDetailsByUUID(ctx, "102")
	require.NoError(t, err)
	require.NotNil(t, d)
	require.Equal(t, u.ID, d.User.ID)
	require.NotNil(t, d.Verification)
	require.True(t, d.Verification.EmailVerified)
	require.Len(t, d.Socials, 1)

	none, err := users.FindWithDetailsByUUID(ctx, "999")
	require.NoError(t, err)
	require.Nil(t, none)
}

func TestCreateConflicts(t *testing.T) {
	ctx := context.Background()
	m := NewManager()
	users := m.Users()

	_, err := users.CreateUserWithVerification(ctx, userDraft("103", "dup@example.com"), nil, repository.VerificationDraft{})
	require.NoError(t, err)

	_, err = users.CreateUserWithVerification(ctx, userDraft("104", "dup@example.com"), nil, repository.VerificationDraft{})
	require.ErrorIs(t, err, repository.ErrConflict)
	require.True(t, repository.IsStorageError(err))

	social := &repository.SocialDraft{Provider: entity.ProviderGoogle, ProviderID: "g-1"}
	_, err = users.CreateUserWithVerification(ctx, userDraft("105", "c@example.com"), social, repository.VerificationDraft{})
	require.NoError(t, err)

	_, err = users.CreateUserWithVerification(ctx, userDraft("106", "d@example.com"), social, repository.VerificationDraft{})
	require.ErrorIs(t, err, repository.ErrConflict)

	_, err = users.CreateUserWithVerification(ctx, userDraft("103", "other@example.com"), nil, repository.VerificationDraft{})
	require.ErrorIs(t, err, repository.ErrConflict, "duplicate uuid rejected")
}

func TestUpdateUserPatch(t *testing.T) {
	ctx := context.Background()
	m := NewManager()
	users := m.Users()

	u, err := users.CreateUserWithVerification(ctx, userDraft("107", "e@example.com"), nil, repository.VerificationDraft{})
	require.NoError(t, err)

	status := entity.StatusActive
	now := time.Now()
	updated, err := users.UpdateUser(ctx, repository.UserPatch{ID: u.ID, AccountStatus: &status, LastLoginAt: &now})
	require.NoError(t, err)
	require.Equal(t, entity.StatusActive, updated.AccountStatus)
	require.NotNil(t, updated.LastLoginAt)
	require.Equal(t, "tester", updated.Username, "untouched fields keep their values")

	none, err := users.UpdateUser(ctx, repository.UserPatch{ID: 9999, AccountStatus: &status})
	require.NoError(t, err)
	require.Nil(t, none)
}

func TestUpdateVerificationCodeColumn(t *testing.T) {
	ctx := context.Background()
	m := NewManager()
	users := m.Users()

	u, err := users.CreateUserWithVerification(ctx, userDraft("108", "f@example.com"), nil, repository.VerificationDraft{})
	require.NoError(t, err)

	code := "123456"
	v, err := users.UpdateVerification(ctx, repository.VerificationPatch{UserID: u.ID, SetVerificationCode: true, VerificationCode: &code})
	require.NoError(t, err)
	require.NotNil(t, v.VerificationCode)
	require.Equal(t, "123456", *v.VerificationCode)

	verified := true
	now := time.Now()
	v, err = users.UpdateVerification(ctx, repository.VerificationPatch{
		UserID:              u.ID,
		EmailVerified:       &verified,
		EmailVerifiedAt:     &now,
		SetVerificationCode: true,
	})
	require.NoError(t, err)
	require.True(t, v.EmailVerified)
	require.NotNil(t, v.EmailVerifiedAt)
	require.Nil(t, v.VerificationCode, "nil value with SetVerificationCode clears the code")

	none, err := users.UpdateVerification(ctx, repository.VerificationPatch{UserID: 9999, EmailVerified: &verified})
	require.NoError(t, err)
	require.Nil(t, none)
}

func TestUnitOfWorkLifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewManager()

	uow, err := m.Begin(ctx)
	require.NoError(t, err)

	users, ok := m.Users().WithUnitOfWork(uow)
	require.True(t, ok)

	_, err = users.CreateUserWithVerification(ctx, userDraft("109", "g@example.com"), nil, repository.VerificationDraft{})
	require.NoError(t, err)

	require.NoError(t, uow.Commit(ctx))
	require.NoError(t, uow.Commit(ctx), "second commit is a no-op")
	require.NoError(t, uow.Rollback(ctx), "rollback after commit is a no-op")

	_, err = users.FindByEmail(ctx, "g@example.com")
	require.ErrorIs(t, err, repository.ErrTxDone)

	// The plain repository still sees the data.
	u, err := m.Users().FindByEmail(ctx, "g@example.com")
	require.NoError(t, err)
	require.NotNil(t, u)
}

type foreignUOW struct{}

func (foreignUOW) Commit(context.Context) error   { return nil }
func (foreignUOW) Rollback(context.Context) error { return nil }

func TestWithUnitOfWorkForeignBackend(t *testing.T) {
	m := NewManager()

	users, ok := m.Users().WithUnitOfWork(foreignUOW{})
	require.False(t, ok)
	require.Nil(t, users)

	delivery, ok := m.Delivery().WithUnitOfWork(foreignUOW{})
	require.False(t, ok)
	require.Nil(t, delivery)
}

func TestDeliveryRepository(t *testing.T) {
	ctx := context.Background()
	m := NewManager()

	u, err := m.Users().CreateUserWithVerification(ctx, userDraft("110", "h@example.com"), nil, repository.VerificationDraft{})
	require.NoError(t, err)

	// Seed directly; delivery rows are written by another service.
	m.store.mu.Lock()
	d := entity.DeliveryData{
		ID:            m.store.nextDeliveryID(),
		UserID:        u.ID,
		RecipientName: "Tester",
		PhoneNumber:   "+821012345678",
		ZipCode:       "04524",
		Address:       "Seoul",
	}
	m.store.deliveries[d.ID] = d
	m.store.mu.Unlock()

	got, err := m.Delivery().FindByUserID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "Tester", got.RecipientName)

	byID, err := m.Delivery().FindByID(ctx, d.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)

	none, err := m.Delivery().FindByUserID(ctx, 9999)
	require.NoError(t, err)
	require.Nil(t, none)
}
