package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	userapp "github.com/gimmeapp/auth-service/internal/application"
	"github.com/gimmeapp/auth-service/internal/domain/entity"
	"github.com/gimmeapp/auth-service/internal/domain/repository"
	"github.com/gimmeapp/auth-service/internal/infrastructure/memory"
	"github.com/gimmeapp/auth-service/internal/oauth"
	"github.com/gimmeapp/auth-service/pkg/helpers"
)

type stubProvider struct {
	name entity.SocialProvider
	info oauth.UserInfo
}

func (p *stubProvider) Name() entity.SocialProvider { return p.name }

func (p *stubProvider) AuthURL(state string) string { return "https://idp.test/auth?state=" + state }

func (p *stubProvider) FetchUser(ctx context.Context, code string) (*oauth.UserInfo, error) {
	info := p.info
	return &info, nil
}

func newCallbackRouter(t *testing.T, provider oauth.Provider) (*gin.Engine, *memory.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repos := memory.NewManager()
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
	svc := userapp.NewAuthService(repos, oauth.NewRegistry(provider), jwt, nil, nil, nil, nil)
	h := NewAuthHandler(svc, logrus.New(), "", false)

	r := gin.New()
	r.GET("/auth/:provider/callback", h.Callback)
	return r, repos
}

func TestCallbackResponseBody(t *testing.T) {
	provider := &stubProvider{
		name: entity.ProviderKakao,
		info: oauth.UserInfo{ProviderID: "kakao-42", Email: "cb@example.com", Nickname: "cb"},
	}
	r, _ := newCallbackRouter(t, provider)

	req := httptest.NewRequest(http.MethodGet, "/auth/kakao/callback?state=s1&code=abc", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "s1"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.True(t, body.Success)
	require.Equal(t, "cb@example.com", body.Data["email"])
	require.Equal(t, string(entity.StatusActive), body.Data["account_status"])
	require.Equal(t, false, body.Data["need_more_action"], "active account needs no follow-up step")

	cookies := w.Result().Cookies()
	names := make(map[string]bool, len(cookies))
	for _, c := range cookies {
		names[c.Name] = true
	}
	require.True(t, names["access_token"])
	require.True(t, names["refresh_token"])
}

func TestCallbackNeedMoreAction(t *testing.T) {
	provider := &stubProvider{
		name: entity.ProviderKakao,
		info: oauth.UserInfo{ProviderID: "kakao-9", Email: "banned@example.com", Nickname: "banned"},
	}
	r, repos := newCallbackRouter(t, provider)

	social := &repository.SocialDraft{Provider: entity.ProviderKakao, ProviderID: "kakao-9"}
	_, err := repos.Users().CreateUserWithVerification(context.Background(), repository.UserDraft{
		UUID:          "900",
		Username:      "banned",
		Email:         "banned@example.com",
		AccountStatus: entity.StatusBanned,
	}, social, repository.VerificationDraft{EmailVerified: true})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/auth/kakao/callback?state=s1&code=abc", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "s1"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, string(entity.StatusBanned), body.Data["account_status"])
	require.Equal(t, true, body.Data["need_more_action"])
}

func TestCallbackStateMismatch(t *testing.T) {
	provider := &stubProvider{
		name: entity.ProviderKakao,
		info: oauth.UserInfo{ProviderID: "kakao-43", Email: "cb2@example.com", Nickname: "cb2"},
	}
	r, _ := newCallbackRouter(t, provider)

	req := httptest.NewRequest(http.MethodGet, "/auth/kakao/callback?state=s1&code=abc", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "other"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
