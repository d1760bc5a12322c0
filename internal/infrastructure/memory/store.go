package memory

import (
	"sync"

	"github.com/gimmeapp/auth-service/internal/domain/entity"
)

// store is the shared in-memory state behind one Manager. Every table is a
// plain map guarded by a single mutex; IDs come from per-table sequences.
type store struct {
	mu sync.Mutex

	users         map[int64]entity.User
	verifications map[int64]entity.Verification
	socials       map[int64]entity.SocialLink
	deliveries    map[int64]entity.DeliveryData

	userSeq         int64
	verificationSeq int64
	socialSeq       int64
	deliverySeq     int64
}

func newStore() *store {
	return &store{
		users:         make(map[int64]entity.User),
		verifications: make(map[int64]entity.Verification),
		socials:       make(map[int64]entity.SocialLink),
		deliveries:    make(map[int64]entity.DeliveryData),
	}
}

func (s *store) nextUserID() int64 {
	s.userSeq++
	return s.userSeq
}

func (s *store) nextVerificationID() int64 {
	s.verificationSeq++
	return s.verificationSeq
}

func (s *store) nextSocialID() int64 {
	s.socialSeq++
	return s.socialSeq
}

func (s *store) nextDeliveryID() int64 {
	s.deliverySeq++
	return s.deliverySeq
}
