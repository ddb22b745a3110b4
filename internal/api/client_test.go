package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
}

func newRecordingServer(t *testing.T, status int, body string) (*httptest.Server, <-chan recordedRequest) {
	t.Helper()
	ch := make(chan recordedRequest, 10)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ch <- recordedRequest{
			Method:   r.Method,
			Path:     r.URL.Path,
			RawQuery: r.URL.RawQuery,
			Header:   r.Header.Clone(),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, ch
}

func TestClientAttachesBearerToken(t *testing.T) {
	srv, ch := newRecordingServer(t, http.StatusOK, `[]`)

	client, err := NewClient(srv.URL, srv.Client(), StaticToken("tok-123"))
	require.NoError(t, err)

	_, err = NewProductClient(client).All(context.Background())
	require.NoError(t, err)

	rec := <-ch
	assert.Equal(t, "Bearer tok-123", rec.Header.Get("Authorization"))
	assert.NotEmpty(t, rec.Header.Get("X-Correlation-Id"))
}

func TestClientOmitsAuthorizationWithoutToken(t *testing.T) {
	srv, ch := newRecordingServer(t, http.StatusOK, `[]`)

	client, err := NewClient(srv.URL, srv.Client(), StaticToken(""))
	require.NoError(t, err)

	_, err = NewProductClient(client).All(context.Background())
	require.NoError(t, err)

	rec := <-ch
	assert.Empty(t, rec.Header.Get("Authorization"))
}

func TestClientRejectsInvalidBaseURL(t *testing.T) {
	_, err := NewClient("://nope", nil, nil)
	assert.Error(t, err)
}

func TestErrorDecoding(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"message field", http.StatusBadRequest, `{"message":"email already registered"}`, "email already registered"},
		{"error field", http.StatusBadRequest, `{"error":"bad input"}`, "bad input"},
		{"bare json string", http.StatusBadRequest, `"Invalid verification code"`, "Invalid verification code"},
		{"plain text", http.StatusInternalServerError, `boom`, "boom"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv, _ := newRecordingServer(t, tc.status, tc.body)
			client, err := NewClient(srv.URL, srv.Client(), nil)
			require.NoError(t, err)

			_, err = NewUserClient(client).Me(context.Background())
			require.Error(t, err)

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tc.status, apiErr.StatusCode)
			assert.Equal(t, tc.wantMsg, apiErr.Message)
		})
	}
}

func TestIsUnauthorized(t *testing.T) {
	assert.True(t, IsUnauthorized(&Error{StatusCode: http.StatusUnauthorized}))
	assert.True(t, IsUnauthorized(&Error{StatusCode: http.StatusForbidden}))
	assert.False(t, IsUnauthorized(&Error{StatusCode: http.StatusBadRequest}))
	assert.False(t, IsUnauthorized(context.Canceled))
}

func TestLoginParsesJSONTokenResponse(t *testing.T) {
	srv, ch := newRecordingServer(t, http.StatusOK, `{"token":"jwt-abc"}`)
	client, err := NewClient(srv.URL, srv.Client(), nil)
	require.NoError(t, err)

	token, err := NewAuthClient(client).Login(context.Background(), "a@b.c", "secret")
	require.NoError(t, err)
	assert.Equal(t, "jwt-abc", token)

	rec := <-ch
	assert.Equal(t, http.MethodPost, rec.Method)
	assert.Equal(t, "/auth/login", rec.Path)
}

func TestLoginParsesLegacyStringResponse(t *testing.T) {
	srv, _ := newRecordingServer(t, http.StatusOK, `"User logged in, token=jwt-legacy, role=USER"`)
	client, err := NewClient(srv.URL, srv.Client(), nil)
	require.NoError(t, err)

	token, err := NewAuthClient(client).Login(context.Background(), "a@b.c", "secret")
	require.NoError(t, err)
	assert.Equal(t, "jwt-legacy", token)
}

func TestLoginErrorsWhenNoTokenInResponse(t *testing.T) {
	srv, _ := newRecordingServer(t, http.StatusOK, `{"role":"USER"}`)
	client, err := NewClient(srv.URL, srv.Client(), nil)
	require.NoError(t, err)

	_, err = NewAuthClient(client).Login(context.Background(), "a@b.c", "secret")
	assert.Error(t, err)
}

func TestResendSendsEmailAsQuery(t *testing.T) {
	srv, ch := newRecordingServer(t, http.StatusOK, `{}`)
	client, err := NewClient(srv.URL, srv.Client(), nil)
	require.NoError(t, err)

	require.NoError(t, NewAuthClient(client).Resend(context.Background(), "a@b.c"))

	rec := <-ch
	assert.Equal(t, "/auth/resend", rec.Path)
	assert.Equal(t, "email=a%40b.c", rec.RawQuery)
}

func TestCartClientPaths(t *testing.T) {
	srv, ch := newRecordingServer(t, http.StatusOK, `[]`)
	client, err := NewClient(srv.URL, srv.Client(), nil)
	require.NoError(t, err)
	cc := NewCartClient(client)
	ctx := context.Background()

	_, err = cc.Show(ctx, "42")
	require.NoError(t, err)
	rec := <-ch
	assert.Equal(t, http.MethodGet, rec.Method)
	assert.Equal(t, "/api/cart/showCart/42", rec.Path)

	require.NoError(t, cc.Add(ctx, "42", 7))
	rec = <-ch
	assert.Equal(t, http.MethodPost, rec.Method)
	assert.Equal(t, "/api/cart/addToCart/42/7", rec.Path)

	require.NoError(t, cc.Remove(ctx, "42", 7))
	rec = <-ch
	assert.Equal(t, http.MethodDelete, rec.Method)
	assert.Equal(t, "/api/cart/removeFromCart/42/7", rec.Path)

	require.NoError(t, cc.Clear(ctx, "42"))
	rec = <-ch
	assert.Equal(t, http.MethodDelete, rec.Method)
	assert.Equal(t, "/api/cart/clearCart/42", rec.Path)
}

func TestProductDeleteUsesQueryParam(t *testing.T) {
	srv, ch := newRecordingServer(t, http.StatusOK, `{}`)
	client, err := NewClient(srv.URL, srv.Client(), nil)
	require.NoError(t, err)

	require.NoError(t, NewProductClient(client).Delete(context.Background(), 9))

	rec := <-ch
	assert.Equal(t, http.MethodDelete, rec.Method)
	assert.Equal(t, "/api/product/deleteProduct", rec.Path)
	assert.Equal(t, "id=9", rec.RawQuery)
}
