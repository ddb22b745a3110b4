package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

const (
	headerCorrelationID = "X-Correlation-Id"
	headerAuthorization = "Authorization"
)

// TokenSource supplies the bearer token attached to outbound requests.
// An empty string means "no token": the request goes out undecorated.
type TokenSource interface {
	Token() string
}

// StaticToken is a TokenSource with a fixed value, mainly for tests.
type StaticToken string

func (s StaticToken) Token() string { return string(s) }

type Client struct {
	BaseURL *url.URL
	HTTP    *http.Client
	Tokens  TokenSource
}

func NewClient(baseURL string, httpClient *http.Client, tokens TokenSource) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{BaseURL: u, HTTP: httpClient, Tokens: tokens}, nil
}

// do issues one request. A non-nil in is JSON-encoded as the body; a non-nil
// out receives the decoded JSON response. Non-2xx responses come back as
// *Error carrying the status and the server's message.
func (c *Client) do(ctx context.Context, method, path, rawQuery string, in, out any) error {
	rel := &url.URL{Path: path, RawQuery: rawQuery}
	u := c.BaseURL.ResolveReference(rel)

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerCorrelationID, uuid.NewString())
	if c.Tokens != nil {
		if tok := c.Tokens.Token(); tok != "" {
			req.Header.Set(headerAuthorization, "Bearer "+tok)
		}
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// readError extracts the server's message. The backend is not consistent:
// some endpoints answer {"message": ...} or {"error": ...}, others a bare
// string body.
func readError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	msg := ""
	if err := json.Unmarshal(raw, &payload); err == nil {
		if payload.Message != "" {
			msg = payload.Message
		} else {
			msg = payload.Error
		}
	}
	if msg == "" {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			msg = s
		} else {
			msg = strings.TrimSpace(string(raw))
		}
	}
	return &Error{StatusCode: resp.StatusCode, Message: msg}
}
