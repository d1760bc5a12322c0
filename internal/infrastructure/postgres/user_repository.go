package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gimmeapp/auth-service/internal/domain/entity"
	"github.com/gimmeapp/auth-service/internal/domain/repository"
)

const userColumns = `id, uuid, username, email, country_code, phone_number, account_status, created_at, updated_at, last_login_at`

const verificationColumns = `id, user_id, email_verified, email_verified_at, phone_verified, phone_verified_at, business_verified, business_info, verification_code`

const socialColumns = `id, user_id, provider, provider_id, created_at`

// UserRepository is the relational implementation of
// repository.UserRepository backed by pgx.
type UserRepository struct {
	conn conn
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{conn: conn{pool: pool}}
}

var _ repository.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) WithUnitOfWork(uow repository.UnitOfWork) (repository.UserRepository, bool) {
	pu, ok := uow.(*UnitOfWork)
	if !ok {
		return nil, false
	}
	return &UserRepository{conn: conn{uow: pu}}, true
}

// ---------- row scanning ----------

func scanUser(row pgx.Row) (*entity.User, error) {
	var (
		u      entity.User
		status string
	)
	err := row.Scan(
		&u.ID,
		&u.UUID,
		&u.Username,
		&u.Email,
		&u.CountryCode,
		&u.PhoneNumber,
		&status,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.LastLoginAt,
	)
	if err != nil {
		return nil, err
	}
	u.AccountStatus = entity.AccountStatus(status)
	return &u, nil
}

func scanVerification(row pgx.Row) (*entity.Verification, error) {
	var v entity.Verification
	err := row.Scan(
		&v.ID,
		&v.UserID,
		&v.EmailVerified,
		&v.EmailVerifiedAt,
		&v.PhoneVerified,
		&v.PhoneVerifiedAt,
		&v.BusinessVerified,
		&v.BusinessInfo,
		&v.VerificationCode,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func scanSocial(row pgx.Row) (*entity.SocialLink, error) {
	var (
		s        entity.SocialLink
		provider string
	)
	err := row.Scan(&s.ID, &s.UserID, &provider, &s.ProviderID, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	s.Provider = entity.SocialProvider(provider)
	return &s, nil
}

func (r *UserRepository) findUser(ctx context.Context, op, where string, arg any) (*entity.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE ` + where + ` LIMIT 1`
	var u *entity.User
	err := r.conn.run(ctx, func(db querier) error {
		var err error
		u, err = scanUser(db.QueryRow(ctx, q, arg))
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return u, nil
}

// ---------- repository.UserRepository ----------

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	return r.findUser(ctx, "user.FindByID", "id = $1", id)
}

func (r *UserRepository) FindByUUID(ctx context.Context, uuid string) (*entity.User, error) {
	return r.findUser(ctx, "user.FindByUUID", "uuid = $1", uuid)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findUser(ctx, "user.FindByEmail", "email = $1", email)
}

func (r *UserRepository) FindSocial(ctx context.Context, provider entity.SocialProvider, providerID string) (*entity.SocialLink, error) {
	const q = `SELECT ` + socialColumns + ` FROM user_socials WHERE provider = $1 AND provider_id = $2 LIMIT 1`
	var s *entity.SocialLink
	err := r.conn.run(ctx, func(db querier) error {
		var err error
		s, err = scanSocial(db.QueryRow(ctx, q, string(provider), providerID))
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("user.FindSocial", err)
	}
	return s, nil
}

func (r *UserRepository) FindWithDetailsByUUID(ctx context.Context, uuid string) (*repository.UserDetails, error) {
	var details *repository.UserDetails
	err := r.conn.run(ctx, func(db querier) error {
		u, err := scanUser(db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE uuid = $1 LIMIT 1`, uuid))
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		d := &repository.UserDetails{User: *u}

		v, err := scanVerification(db.QueryRow(ctx, `SELECT `+verificationColumns+` FROM user_verifications WHERE user_id = $1 LIMIT 1`, u.ID))
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
		if err == nil {
			d.Verification = v
		}

		rows, err := db.Query(ctx, `SELECT `+socialColumns+` FROM user_socials WHERE user_id = $1 ORDER BY id`, u.ID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			s, err := scanSocial(rows)
			if err != nil {
				return err
			}
			d.Socials = append(d.Socials, *s)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		details = d
		return nil
	})
	if err != nil {
		return nil, wrapErr("user.FindWithDetailsByUUID", err)
	}
	return details, nil
}

func (r *UserRepository) CreateUserWithVerification(ctx context.Context, user repository.UserDraft, social *repository.SocialDraft, verification repository.VerificationDraft) (*entity.User, error) {
	const op = "user.CreateUserWithVerification"
	var created *entity.User
	err := r.conn.inTx(ctx, op, func(db querier) error {
		u, err := scanUser(db.QueryRow(ctx, `
INSERT INTO users (uuid, username, email, country_code, phone_number, account_status, last_login_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING `+userColumns,
			user.UUID, user.Username, user.Email, user.CountryCode, user.PhoneNumber,
			string(user.AccountStatus), user.LastLoginAt,
		))
		if err != nil {
			return wrapErr(op, err)
		}

		if social != nil {
			_, err = db.Exec(ctx, `
INSERT INTO user_socials (user_id, provider, provider_id)
VALUES ($1, $2, $3)`,
				u.ID, string(social.Provider), social.ProviderID,
			)
			if err != nil {
				return wrapErr(op, err)
			}
		}

		_, err = db.Exec(ctx, `
INSERT INTO user_verifications (user_id, email_verified, email_verified_at, phone_verified, business_verified, business_info)
VALUES ($1, $2, $3, $4, $5, $6)`,
			u.ID, verification.EmailVerified, verification.EmailVerifiedAt,
			verification.PhoneVerified, verification.BusinessVerified, verification.BusinessInfo,
		)
		if err != nil {
			return wrapErr(op, err)
		}

		created = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *UserRepository) UpdateUser(ctx context.Context, patch repository.UserPatch) (*entity.User, error) {
	const op = "user.UpdateUser"

	set := []string{"updated_at = NOW()"}
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Username != nil {
		add("username", *patch.Username)
	}
	if patch.Email != nil {
		add("email", *patch.Email)
	}
	if patch.CountryCode != nil {
		add("country_code", *patch.CountryCode)
	}
	if patch.PhoneNumber != nil {
		add("phone_number", *patch.PhoneNumber)
	}
	if patch.AccountStatus != nil {
		add("account_status", string(*patch.AccountStatus))
	}
	if patch.LastLoginAt != nil {
		add("last_login_at", *patch.LastLoginAt)
	}

	args = append(args, patch.ID)
	q := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d RETURNING %s",
		strings.Join(set, ", "), len(args), userColumns)

	var u *entity.User
	err := r.conn.run(ctx, func(db querier) error {
		var err error
		u, err = scanUser(db.QueryRow(ctx, q, args...))
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return u, nil
}

func (r *UserRepository) UpdateVerification(ctx context.Context, patch repository.VerificationPatch) (*entity.Verification, error) {
	const op = "user.UpdateVerification"

	var set []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.EmailVerified != nil {
		add("email_verified", *patch.EmailVerified)
	}
	if patch.EmailVerifiedAt != nil {
		add("email_verified_at", *patch.EmailVerifiedAt)
	}
	if patch.PhoneVerified != nil {
		add("phone_verified", *patch.PhoneVerified)
	}
	if patch.PhoneVerifiedAt != nil {
		add("phone_verified_at", *patch.PhoneVerifiedAt)
	}
	if patch.BusinessVerified != nil {
		add("business_verified", *patch.BusinessVerified)
	}
	if patch.BusinessInfo != nil {
		add("business_info", *patch.BusinessInfo)
	}
	if patch.SetVerificationCode {
		add("verification_code", patch.VerificationCode)
	}
	if len(set) == 0 {
		// Nothing to write; read back the current row instead.
		return r.findVerificationByUserID(ctx, patch.UserID)
	}

	args = append(args, patch.UserID)
	q := fmt.Sprintf("UPDATE user_verifications SET %s WHERE user_id = $%d RETURNING %s",
		strings.Join(set, ", "), len(args), verificationColumns)

	var v *entity.Verification
	err := r.conn.run(ctx, func(db querier) error {
		var err error
		v, err = scanVerification(db.QueryRow(ctx, q, args...))
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return v, nil
}

func (r *UserRepository) findVerificationByUserID(ctx context.Context, userID int64) (*entity.Verification, error) {
	var v *entity.Verification
	err := r.conn.run(ctx, func(db querier) error {
		var err error
		v, err = scanVerification(db.QueryRow(ctx, `SELECT `+verificationColumns+` FROM user_verifications WHERE user_id = $1 LIMIT 1`, userID))
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("user.findVerificationByUserID", err)
	}
	return v, nil
}
