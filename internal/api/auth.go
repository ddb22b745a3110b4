package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
)

type AuthClient struct{ c *Client }

func NewAuthClient(c *Client) *AuthClient { return &AuthClient{c: c} }

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyRequest struct {
	Email            string `json:"email"`
	VerificationCode string `json:"verificationCode"`
}

func (a *AuthClient) Register(ctx context.Context, req RegisterRequest) error {
	return a.c.do(ctx, http.MethodPost, "/auth/signup", "", req, nil)
}

// tokenPattern matches the legacy plain-string login response, which embeds
// the token as "token=<value>" inside a longer message.
var tokenPattern = regexp.MustCompile(`token=([^,\s]+)`)

// Login exchanges credentials for a bearer token. The backend answers either
// a JSON object with a "token" field or a bare string containing "token=...";
// both shapes are handled.
func (a *AuthClient) Login(ctx context.Context, email, password string) (string, error) {
	var raw json.RawMessage
	if err := a.c.do(ctx, http.MethodPost, "/auth/login", "", loginRequest{Email: email, Password: password}, &raw); err != nil {
		return "", err
	}

	var obj struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Token != "" {
		return obj.Token, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if m := tokenPattern.FindStringSubmatch(s); m != nil {
			return m[1], nil
		}
	}

	return "", fmt.Errorf("login: no token in server response")
}

func (a *AuthClient) Verify(ctx context.Context, email, code string) error {
	return a.c.do(ctx, http.MethodPost, "/auth/verify", "", verifyRequest{Email: email, VerificationCode: code}, nil)
}

func (a *AuthClient) Resend(ctx context.Context, email string) error {
	q := url.Values{"email": {email}}
	return a.c.do(ctx, http.MethodPost, "/auth/resend", q.Encode(), nil, nil)
}
