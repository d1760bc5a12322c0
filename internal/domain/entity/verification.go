package entity

import "time"

// Verification is the one-to-one verification record of a User, created
// atomically with it at registration. VerificationCode is only present while
// an email challenge is outstanding and is cleared on success.
type Verification struct {
	ID               int64
	UserID           int64
	EmailVerified    bool
	EmailVerifiedAt  *time.Time
	PhoneVerified    bool
	PhoneVerifiedAt  *time.Time
	BusinessVerified bool
	BusinessInfo     *string
	VerificationCode *string
}
