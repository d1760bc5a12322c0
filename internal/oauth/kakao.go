package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gimmeapp/auth-service/internal/domain/entity"
)

const (
	kakaoAuthURL  = "https://kauth.kakao.com/oauth/authorize"
	kakaoTokenURL = "https://kauth.kakao.com/oauth/token"
	kakaoUserURL  = "https://kapi.kakao.com/v2/user/me"
)

// Kakao implements Provider against the Kakao REST API.
type Kakao struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// Overridable for tests.
	TokenURL string
	UserURL  string

	client *http.Client
}

func NewKakao(clientID, clientSecret, redirectURL string) *Kakao {
	return &Kakao{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		TokenURL:     kakaoTokenURL,
		UserURL:      kakaoUserURL,
		client:       httpClient(),
	}
}

func (k *Kakao) Name() entity.SocialProvider { return entity.ProviderKakao }

func (k *Kakao) AuthURL(state string) string {
	q := url.Values{}
	q.Set("client_id", k.ClientID)
	q.Set("redirect_uri", k.RedirectURL)
	q.Set("response_type", "code")
	q.Set("state", state)
	return kakaoAuthURL + "?" + q.Encode()
}

type kakaoToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type kakaoAccount struct {
	Email   string `json:"email"`
	Profile struct {
		Nickname string `json:"nickname"`
	} `json:"profile"`
}

type kakaoUser struct {
	ID      int64        `json:"id"`
	Account kakaoAccount `json:"kakao_account"`
}

func (k *Kakao) FetchUser(ctx context.Context, code string) (*UserInfo, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", k.ClientID)
	form.Set("client_secret", k.ClientSecret)
	form.Set("redirect_uri", k.RedirectURL)
	form.Set("code", code)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, k.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := k.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kakao token exchange failed: %s", res.Status)
	}
	var tok kakaoToken
	if err := json.NewDecoder(res.Body).Decode(&tok); err != nil {
		return nil, err
	}

	ureq, err := http.NewRequestWithContext(ctx, http.MethodGet, k.UserURL, nil)
	if err != nil {
		return nil, err
	}
	ureq.Header.Set("Authorization", "Bearer "+tok.AccessToken)

	ures, err := k.client.Do(ureq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = ures.Body.Close() }()
	if ures.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kakao profile fetch failed: %s", ures.Status)
	}
	var u kakaoUser
	if err := json.NewDecoder(ures.Body).Decode(&u); err != nil {
		return nil, err
	}

	return &UserInfo{
		ProviderID: strconv.FormatInt(u.ID, 10),
		Email:      u.Account.Email,
		Nickname:   u.Account.Profile.Nickname,
	}, nil
}
