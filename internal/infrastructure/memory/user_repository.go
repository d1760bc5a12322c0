package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/gimmeapp/auth-service/internal/domain/entity"
	"github.com/gimmeapp/auth-service/internal/domain/repository"
)

type UserRepository struct {
	store *store
	uow   *UnitOfWork
}

var _ repository.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) WithUnitOfWork(uow repository.UnitOfWork) (repository.UserRepository, bool) {
	mu, ok := uow.(*UnitOfWork)
	if !ok {
		return nil, false
	}
	return &UserRepository{store: r.store, uow: mu}, true
}

func (r *UserRepository) guard() error {
	if r.uow != nil && !r.uow.active() {
		return repository.ErrTxDone
	}
	return nil
}

func (r *UserRepository) findUser(match func(u entity.User) bool) (*entity.User, error) {
	if err := r.guard(); err != nil {
		return nil, err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if match(u) {
			out := u
			return &out, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	return r.findUser(func(u entity.User) bool { return u.ID == id })
}

func (r *UserRepository) FindByUUID(ctx context.Context, uuid string) (*entity.User, error) {
	return r.findUser(func(u entity.User) bool { return u.UUID == uuid })
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findUser(func(u entity.User) bool { return u.Email == email })
}

func (r *UserRepository) FindSocial(ctx context.Context, provider entity.SocialProvider, providerID string) (*entity.SocialLink, error) {
	if err := r.guard(); err != nil {
		return nil, err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, s := range r.store.socials {
		if s.Provider == provider && s.ProviderID == providerID {
			out := s
			return &out, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) FindWithDetailsByUUID(ctx context.Context, uuid string) (*repository.UserDetails, error) {
	if err := r.guard(); err != nil {
		return nil, err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if u.UUID != uuid {
			continue
		}
		d := &repository.UserDetails{User: u}
		for _, v := range r.store.verifications {
			if v.UserID == u.ID {
				out := v
				d.Verification = &out
				break
			}
		}
		for _, s := range r.store.socials {
			if s.UserID == u.ID {
				d.Socials = append(d.Socials, s)
			}
		}
		return d, nil
	}
	return nil, nil
}

func (r *UserRepository) CreateUserWithVerification(ctx context.Context, user repository.UserDraft, social *repository.SocialDraft, verification repository.VerificationDraft) (*entity.User, error) {
	const op = "user.CreateUserWithVerification"
	if err := r.guard(); err != nil {
		return nil, err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, u := range r.store.users {
		if u.Email == user.Email {
			return nil, repository.NewStorageError(op, fmt.Errorf("%w: email %q", repository.ErrConflict, user.Email))
		}
		if u.UUID == user.UUID {
			return nil, repository.NewStorageError(op, fmt.Errorf("%w: uuid %q", repository.ErrConflict, user.UUID))
		}
	}
	if social != nil {
		for _, s := range r.store.socials {
			if s.Provider == social.Provider && s.ProviderID == social.ProviderID {
				return nil, repository.NewStorageError(op, fmt.Errorf("%w: social %s/%s", repository.ErrConflict, social.Provider, social.ProviderID))
			}
		}
	}

	now := time.Now()
	u := entity.User{
		ID:            r.store.nextUserID(),
		UUID:          user.UUID,
		Username:      user.Username,
		Email:         user.Email,
		CountryCode:   user.CountryCode,
		PhoneNumber:   user.PhoneNumber,
		AccountStatus: user.AccountStatus,
		CreatedAt:     now,
		UpdatedAt:     now,
		LastLoginAt:   user.LastLoginAt,
	}
	r.store.users[u.ID] = u

	if social != nil {
		s := entity.SocialLink{
			ID:         r.store.nextSocialID(),
			UserID:     u.ID,
			Provider:   social.Provider,
			ProviderID: social.ProviderID,
			CreatedAt:  now,
		}
		r.store.socials[s.ID] = s
	}

	v := entity.Verification{
		ID:               r.store.nextVerificationID(),
		UserID:           u.ID,
		EmailVerified:    verification.EmailVerified,
		EmailVerifiedAt:  verification.EmailVerifiedAt,
		PhoneVerified:    verification.PhoneVerified,
		BusinessVerified: verification.BusinessVerified,
		BusinessInfo:     verification.BusinessInfo,
	}
	r.store.verifications[v.ID] = v

	out := u
	return &out, nil
}

func (r *UserRepository) UpdateUser(ctx context.Context, patch repository.UserPatch) (*entity.User, error) {
	if err := r.guard(); err != nil {
		return nil, err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	u, ok := r.store.users[patch.ID]
	if !ok {
		return nil, nil
	}
	if patch.Username != nil {
		u.Username = *patch.Username
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.CountryCode != nil {
		u.CountryCode = *patch.CountryCode
	}
	if patch.PhoneNumber != nil {
		u.PhoneNumber = *patch.PhoneNumber
	}
	if patch.AccountStatus != nil {
		u.AccountStatus = *patch.AccountStatus
	}
	if patch.LastLoginAt != nil {
		t := *patch.LastLoginAt
		u.LastLoginAt = &t
	}
	u.UpdatedAt = time.Now()
	r.store.users[u.ID] = u

	out := u
	return &out, nil
}

func (r *UserRepository) UpdateVerification(ctx context.Context, patch repository.VerificationPatch) (*entity.Verification, error) {
	if err := r.guard(); err != nil {
		return nil, err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, v := range r.store.verifications {
		if v.UserID != patch.UserID {
			continue
		}
		if patch.EmailVerified != nil {
			v.EmailVerified = *patch.EmailVerified
		}
		if patch.EmailVerifiedAt != nil {
			t := *patch.EmailVerifiedAt
			v.EmailVerifiedAt = &t
		}
		if patch.PhoneVerified != nil {
			v.PhoneVerified = *patch.PhoneVerified
		}
		if patch.PhoneVerifiedAt != nil {
			t := *patch.PhoneVerifiedAt
			v.PhoneVerifiedAt = &t
		}
		if patch.BusinessVerified != nil {
			v.BusinessVerified = *patch.BusinessVerified
		}
		if patch.BusinessInfo != nil {
			s := *patch.BusinessInfo
			v.BusinessInfo = &s
		}
		if patch.SetVerificationCode {
			if patch.VerificationCode != nil {
				s := *patch.VerificationCode
				v.VerificationCode = &s
			} else {
				v.VerificationCode = nil
			}
		}
		r.store.verifications[id] = v

		out := v
		return &out, nil
	}
	return nil, nil
}
