package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gimmeapp/auth-service/internal/domain/entity"
)

func TestKakaoFetchUser(t *testing.T) {
	token := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		require.Equal(t, "the-code", r.PostForm.Get("code"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-123","token_type":"bearer"}`))
	}))
	defer token.Close()

	user := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":987654321,"kakao_account":{"email":"kakao@example.com","profile":{"nickname":"kko"}}}`))
	}))
	defer user.Close()

	k := NewKakao("cid", "secret", "http://localhost/callback")
	k.TokenURL = token.URL
	k.UserURL = user.URL

	info, err := k.FetchUser(context.Background(), "the-code")
	require.NoError(t, err)
	require.Equal(t, "987654321", info.ProviderID)
	require.Equal(t, "kakao@example.com", info.Email)
	require.Equal(t, "kko", info.Nickname)
}

func TestKakaoFetchUserTokenFailure(t *testing.T) {
	token := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad code", http.StatusBadRequest)
	}))
	defer token.Close()

	k := NewKakao("cid", "secret", "http://localhost/callback")
	k.TokenURL = token.URL

	_, err := k.FetchUser(context.Background(), "stale")
	require.Error(t, err)
}

func TestKakaoAuthURL(t *testing.T) {
	k := NewKakao("cid", "secret", "http://localhost/callback")
	u := k.AuthURL("state-1")
	require.Contains(t, u, "client_id=cid")
	require.Contains(t, u, "state=state-1")
	require.Contains(t, u, "response_type=code")
}

func TestRegistryLookup(t *testing.T) {
	k := NewKakao("cid", "secret", "http://localhost/callback")
	g := NewGoogle("cid", "secret", "http://localhost/callback")
	r := NewRegistry(k, g)

	p, err := r.Get(entity.ProviderKakao)
	require.NoError(t, err)
	require.Equal(t, entity.ProviderKakao, p.Name())

	_, err = r.Get(entity.ProviderApple)
	require.ErrorIs(t, err, ErrUnknownProvider)
}
