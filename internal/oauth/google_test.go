package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGoogleFetchUser(t *testing.T) {
	token := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "g-code", r.PostForm.Get("code"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"g-tok","id_token":"idt"}`))
	}))
	defer token.Close()

	user := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer g-tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"goog-1","email":"g@example.com","name":"Goo Gler"}`))
	}))
	defer user.Close()

	g := NewGoogle("cid", "secret", "http://localhost/callback")
	g.TokenURL = token.URL
	g.UserURL = user.URL

	info, err := g.FetchUser(context.Background(), "g-code")
	require.NoError(t, err)
	require.Equal(t, "goog-1", info.ProviderID)
	require.Equal(t, "g@example.com", info.Email)
	require.Equal(t, "Goo Gler", info.Nickname)
}

func TestGoogleAuthURL(t *testing.T) {
	g := NewGoogle("cid", "secret", "http://localhost/callback")
	u := g.AuthURL("s")
	require.Contains(t, u, "scope=")
	require.Contains(t, u, "client_id=cid")
}
