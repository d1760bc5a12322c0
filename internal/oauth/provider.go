package oauth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gimmeapp/auth-service/internal/domain/entity"
)

var ErrUnknownProvider = errors.New("unknown oauth provider")

// UserInfo is the provider-agnostic profile returned after a code exchange.
type UserInfo struct {
	ProviderID string
	Email      string
	Nickname   string
}

// Provider exchanges an authorization code for the social profile. Each
// implementation talks to one identity provider.
type Provider interface {
	Name() entity.SocialProvider
	AuthURL(state string) string
	FetchUser(ctx context.Context, code string) (*UserInfo, error)
}

// Registry holds the configured providers keyed by name.
type Registry struct {
	providers map[entity.SocialProvider]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[entity.SocialProvider]Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.Name()] = p
	}
	return r
}

func (r *Registry) Get(name entity.SocialProvider) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, ErrUnknownProvider
	}
	return p, nil
}

func httpClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Second}
}
