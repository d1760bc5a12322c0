package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gimmeapp/auth-service/internal/domain/entity"
)

const (
	googleAuthURL  = "https://accounts.google.com/o/oauth2/v2/auth"
	googleTokenURL = "https://oauth2.googleapis.com/token"
	googleUserURL  = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// Google implements Provider against Google's OAuth2 endpoints.
type Google struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// Overridable for tests.
	TokenURL string
	UserURL  string

	client *http.Client
}

func NewGoogle(clientID, clientSecret, redirectURL string) *Google {
	return &Google{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		TokenURL:     googleTokenURL,
		UserURL:      googleUserURL,
		client:       httpClient(),
	}
}

func (g *Google) Name() entity.SocialProvider { return entity.ProviderGoogle }

func (g *Google) AuthURL(state string) string {
	q := url.Values{}
	q.Set("client_id", g.ClientID)
	q.Set("redirect_uri", g.RedirectURL)
	q.Set("response_type", "code")
	q.Set("scope", "openid email profile")
	q.Set("state", state)
	return googleAuthURL + "?" + q.Encode()
}

type googleToken struct {
	AccessToken string `json:"access_token"`
	IDToken     string `json:"id_token"`
}

type googleUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (g *Google) FetchUser(ctx context.Context, code string) (*UserInfo, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", g.ClientID)
	form.Set("client_secret", g.ClientSecret)
	form.Set("redirect_uri", g.RedirectURL)
	form.Set("code", code)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google token exchange failed: %s", res.Status)
	}
	var tok googleToken
	if err := json.NewDecoder(res.Body).Decode(&tok); err != nil {
		return nil, err
	}

	ureq, err := http.NewRequestWithContext(ctx, http.MethodGet, g.UserURL, nil)
	if err != nil {
		return nil, err
	}
	ureq.Header.Set("Authorization", "Bearer "+tok.AccessToken)

	ures, err := g.client.Do(ureq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = ures.Body.Close() }()
	if ures.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google profile fetch failed: %s", ures.Status)
	}
	var u googleUser
	if err := json.NewDecoder(ures.Body).Decode(&u); err != nil {
		return nil, err
	}

	return &UserInfo{ProviderID: u.ID, Email: u.Email, Nickname: u.Name}, nil
}
