package repository

import (
	"context"
	"time"

	"github.com/gimmeapp/auth-service/internal/domain/entity"
)

// UserDraft is the insert payload for a new user. ID and the row timestamps
// are assigned by the backend.
type UserDraft struct {
	UUID          string
	Username      string
	Email         string
	CountryCode   string
	PhoneNumber   string
	AccountStatus entity.AccountStatus
	LastLoginAt   *time.Time
}

// SocialDraft is the insert payload for a social link created alongside a
// user; the owning user id is filled in by the backend.
type SocialDraft struct {
	Provider   entity.SocialProvider
	ProviderID string
}

// VerificationDraft is the insert payload for the verification record
// created atomically with every user.
type VerificationDraft struct {
	EmailVerified    bool
	EmailVerifiedAt  *time.Time
	PhoneVerified    bool
	BusinessVerified bool
	BusinessInfo     *string
}

// UserPatch is a partial update of a user row; only non-nil fields are
// written. updated_at is always refreshed.
type UserPatch struct {
	ID            int64
	Username      *string
	Email         *string
	CountryCode   *string
	PhoneNumber   *string
	AccountStatus *entity.AccountStatus
	LastLoginAt   *time.Time
}

// VerificationPatch is a partial update of a verification row keyed by the
// owning user id. VerificationCode is only written when SetVerificationCode
// is true; a nil value then clears the column.
type VerificationPatch struct {
	UserID              int64
	EmailVerified       *bool
	EmailVerifiedAt     *time.Time
	PhoneVerified       *bool
	PhoneVerifiedAt     *time.Time
	BusinessVerified    *bool
	BusinessInfo        *string
	SetVerificationCode bool
	VerificationCode    *string
}

// UserDetails is the joined read of a user aggregate. Verification is nil
// only for rows that predate the creation invariant; Socials may be empty.
type UserDetails struct {
	User         entity.User
	Verification *entity.Verification
	Socials      []entity.SocialLink
}

// UserRepository hides the storage backend behind aggregate-oriented
// operations. Point lookups return (nil, nil) when no row matches; every
// other failure is a StorageError.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*entity.User, error)
	FindByUUID(ctx context.Context, uuid string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindSocial(ctx context.Context, provider entity.SocialProvider, providerID string) (*entity.SocialLink, error)
	FindWithDetailsByUUID(ctx context.Context, uuid string) (*UserDetails, error)

	// CreateUserWithVerification inserts the user, the optional social link,
	// and the verification record as one atomic unit. On a repository bound
	// to a bare connection it opens and finalizes its own transaction; on a
	// repository bound to a unit of work it participates in that
	// transaction instead.
	CreateUserWithVerification(ctx context.Context, user UserDraft, social *SocialDraft, verification VerificationDraft) (*entity.User, error)

	UpdateUser(ctx context.Context, patch UserPatch) (*entity.User, error)
	UpdateVerification(ctx context.Context, patch VerificationPatch) (*entity.Verification, error)

	// WithUnitOfWork returns a repository handle whose operations run inside
	// uow's transaction. ok is false when uow belongs to a different
	// backend; callers must not fall back to the unbound repository in that
	// case.
	WithUnitOfWork(uow UnitOfWork) (UserRepository, bool)
}

// DeliveryRepository serves the optional delivery aggregate.
type DeliveryRepository interface {
	FindByID(ctx context.Context, id int64) (*entity.DeliveryData, error)
	FindByUserID(ctx context.Context, userID int64) (*entity.DeliveryData, error)

	WithUnitOfWork(uow UnitOfWork) (DeliveryRepository, bool)
}
