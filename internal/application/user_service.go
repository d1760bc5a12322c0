package application

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/gimmeapp/auth-service/internal/domain/entity"
	repo "github.com/gimmeapp/auth-service/internal/domain/repository"
	"github.com/gimmeapp/auth-service/pkg/helpers"
)

const profileCacheTTL = 10 * time.Minute

// UserService covers account registration and profile reads.
type UserService struct {
	Repos        repo.Manager
	Redis        *redis.Client
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESUsersIndex string
}

func NewUserService(repos repo.Manager, rdb *redis.Client, logger *logrus.Logger, es *elasticsearch.Client, esUsersIndex string) *UserService {
	return &UserService{Repos: repos, Redis: rdb, Logger: logger, ES: es, ESUsersIndex: esUsersIndex}
}

type RegisterInput struct {
	Username    string
	Email       string
	CountryCode string
	PhoneNumber string
}

func profileKey(uuid string) string {
	return "user:profile:" + uuid
}

// Register creates a pending account with a blank verification record. The
// account stays PENDING until the email code is confirmed.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	draft := repo.UserDraft{
		UUID:          helpers.GenUserUUID(),
		Username:      in.Username,
		Email:         in.Email,
		CountryCode:   in.CountryCode,
		PhoneNumber:   in.PhoneNumber,
		AccountStatus: entity.StatusPending,
	}
	u, err := s.Repos.Users().CreateUserWithVerification(ctx, draft, nil, repo.VerificationDraft{})
	if err != nil {
		if errorsIsConflict(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	s.IndexUser(ctx, u)
	return u, nil
}

// GetByUUID loads the account with its verification state and social links,
// serving from the Redis profile cache when possible.
func (s *UserService) GetByUUID(ctx context.Context, uuid string) (*repo.UserDetails, error) {
	if s.Redis != nil {
		var cached repo.UserDetails
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, profileKey(uuid), &cached); err == nil && ok {
			return &cached, nil
		}
	}
	d, err := s.Repos.Users().FindWithDetailsByUUID(ctx, uuid)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrUserNotFound
	}
	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, profileKey(uuid), d, profileCacheTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("uuid", uuid).Warn("profile cache write failed")
		}
	}
	return d, nil
}

// InvalidateProfile drops the cached profile after a state change.
func (s *UserService) InvalidateProfile(ctx context.Context, uuid string) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, profileKey(uuid)); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("uuid", uuid).Warn("profile cache invalidation failed")
	}
}

// GetDelivery returns the delivery data attached to the account, nil when
// none has been saved yet.
func (s *UserService) GetDelivery(ctx context.Context, uuid string) (*entity.DeliveryData, error) {
	u, err := s.Repos.Users().FindByUUID(ctx, uuid)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return s.Repos.Delivery().FindByUserID(ctx, u.ID)
}

// IndexUser pushes the account document to Elasticsearch, best effort.
func (s *UserService) IndexUser(ctx context.Context, u *entity.User) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return
	}
	doc := map[string]any{
		"uuid":           u.UUID,
		"username":       u.Username,
		"email":          u.Email,
		"country_code":   u.CountryCode,
		"account_status": string(u.AccountStatus),
		"created_at":     u.CreatedAt.Format(time.RFC3339Nano),
		"updated_at":     u.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESUsersIndex, DocumentID: u.UUID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("uuid", u.UUID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("uuid", u.UUID).Warn("es index response error")
	}
}

// SearchUsers performs a simple multi_match search on email and username.
func (s *UserService) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "username"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESUsersIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
