package api

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Paintersrp/mixsearch/internal/apperr"
)

const testSecret = "s3cret"

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		BaseURL:       srv.URL + "/",
		UserID:        "me",
		SessionID:     "session",
		SessionSecret: testSecret,
		Timeout:       2 * time.Second,
	}, zap.NewNop())
}

func TestSearchUserSendsSignedToken(t *testing.T) {
	var claims jwt.MapClaims
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/search/12345", r.URL.Path)

		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		token, err := jwt.Parse(raw, func(*jwt.Token) (interface{}, error) { return []byte(testSecret), nil })
		require.NoError(t, err)
		require.True(t, token.Valid)
		claims = token.Claims.(jwt.MapClaims)

		_, _ = w.Write([]byte(`{"data":{"user_id":"u1","identity_number":"12345","full_name":"Found","is_verified":true}}`))
	})

	user, err := client.SearchUser(context.Background(), "12345")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "Found", user.FullName)
	assert.True(t, user.IsVerified)

	sum := sha256.Sum256([]byte("GET/search/12345"))
	assert.Equal(t, hex.EncodeToString(sum[:]), claims["sig"])
	assert.Equal(t, "me", claims["uid"])
	assert.Equal(t, "session", claims["sid"])
	assert.NotEmpty(t, claims["jti"])
}

func TestSearchUserClassifiesErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   apperr.Kind
		msg    string
	}{
		{"envelope not found", http.StatusAccepted, `{"error":{"status":202,"code":404,"description":"The user was not found."}}`, apperr.KindNotFound, "The user was not found."},
		{"http not found", http.StatusNotFound, `not found`, apperr.KindNotFound, "not found"},
		{"unauthorized", http.StatusUnauthorized, `{"error":{"status":401,"code":401,"description":"Unauthorized"}}`, apperr.KindUnauthorized, "Unauthorized"},
		{"rate limited", http.StatusTooManyRequests, `{"error":{"status":429,"code":429,"description":"Too many requests"}}`, apperr.KindRateLimited, "Too many requests"},
		{"server error", http.StatusInternalServerError, `{}`, apperr.KindUnavailable, "Internal Server Error"},
		{"empty data", http.StatusOK, `{"data":null}`, apperr.KindNotFound, "empty response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.SearchUser(context.Background(), "12345")
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperr.KindOf(err))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestSearchUserHonorsCancellation(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := client.SearchUser(ctx, "12345")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSignTokenRequiresSecret(t *testing.T) {
	client := NewClient(Config{}, nil)
	_, err := client.SignToken(http.MethodGet, "/search/1", nil)
	assert.Error(t, err)
}

func TestRateLimiterWaitsForContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"user_id":"u1"}}`))
	})
	client.limiter.SetLimit(0.001)

	_, err := client.SearchUser(context.Background(), "1234")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = client.SearchUser(ctx, "1234")
	assert.Error(t, err)
}
