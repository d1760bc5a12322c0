package entity

import "time"

// SocialProvider identifies an external OAuth identity provider.
// Stored as its string value in the provider column.
type SocialProvider string

const (
	ProviderKakao  SocialProvider = "KAKAO"
	ProviderGoogle SocialProvider = "GOOGLE"
	ProviderApple  SocialProvider = "APPLE"
)

// ParseSocialProvider maps a case-insensitive provider name to its enum
// value. ok is false for unknown providers.
func ParseSocialProvider(s string) (SocialProvider, bool) {
	switch SocialProvider(s) {
	case ProviderKakao, ProviderGoogle, ProviderApple:
		return SocialProvider(s), true
	}
	switch s {
	case "kakao":
		return ProviderKakao, true
	case "google":
		return ProviderGoogle, true
	case "apple":
		return ProviderApple, true
	}
	return "", false
}

// SocialLink ties a User to one external identity. The
// (Provider, ProviderID) pair is unique system-wide and is the lookup key
// for social login.
type SocialLink struct {
	ID         int64
	UserID     int64
	Provider   SocialProvider
	ProviderID string
	CreatedAt  time.Time
}
