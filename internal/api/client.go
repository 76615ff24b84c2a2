// Package api is the HTTP client for the remote user directory.
package api

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Paintersrp/mixsearch/internal/apperr"
	"github.com/Paintersrp/mixsearch/internal/constants"
	"github.com/Paintersrp/mixsearch/internal/logger"
	"github.com/Paintersrp/mixsearch/internal/model"
)

const tokenTTL = 5 * time.Minute

// Config configures the client.
type Config struct {
	BaseURL       string
	UserID        string
	SessionID     string
	SessionSecret string
	Timeout       time.Duration
	RatePerSecond float64
}

// Client calls the remote API with a per-request signed token.
type Client struct {
	baseURL    string
	userID     string
	sessionID  string
	secret     []byte
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *zap.Logger
	now        func() time.Time
}

// NewClient creates a client. A zero rate disables limiting.
func NewClient(cfg Config, log *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = constants.DefaultAPIBaseURL
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1)
	}

	return &Client{
		baseURL:    baseURL,
		userID:     cfg.UserID,
		sessionID:  cfg.SessionID,
		secret:     []byte(cfg.SessionSecret),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
		log:        logger.WithComponent(log, "api"),
		now:        time.Now,
	}
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *remoteError    `json:"error"`
}

type remoteError struct {
	Status      int    `json:"status"`
	Code        int    `json:"code"`
	Description string `json:"description"`
}

// SearchUser looks up a user by identity number or phone.
func (c *Client) SearchUser(ctx context.Context, keyword string) (model.User, error) {
	const op = "api.SearchUser"

	var user model.User
	if err := c.get(ctx, op, "/search/"+url.PathEscape(keyword), &user); err != nil {
		return model.User{}, err
	}
	if user.ID == "" {
		return model.User{}, apperr.NotFound("user not found").WithOp(op)
	}
	return user, nil
}

func (c *Client) get(ctx context.Context, op, uri string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+uri, nil)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to create request", err).WithOp(op)
	}

	token, err := c.SignToken(http.MethodGet, uri, nil)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to sign request", err).WithOp(op)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return apperr.Wrap(apperr.KindUnavailable, "request failed", err).WithOp(op)
	}
	defer resp.Body.Close()

	c.log.Debug("api request",
		zap.String("uri", uri),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apperr.Wrap(apperr.KindUnavailable, "failed to read response", err).WithOp(op)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		if resp.StatusCode != http.StatusOK {
			return statusError(op, resp.StatusCode, 0, strings.TrimSpace(string(body)))
		}
		return apperr.Wrap(apperr.KindInternal, "failed to decode response", err).WithOp(op)
	}
	if env.Error != nil {
		status := env.Error.Status
		if status == 0 {
			status = resp.StatusCode
		}
		return statusError(op, status, env.Error.Code, env.Error.Description)
	}
	if resp.StatusCode != http.StatusOK {
		return statusError(op, resp.StatusCode, 0, http.StatusText(resp.StatusCode))
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return apperr.NotFound("empty response").WithOp(op)
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to decode data", err).WithOp(op)
	}
	return nil
}

func statusError(op string, status, code int, description string) error {
	kind := apperr.KindUnknown
	switch {
	case code == http.StatusNotFound || status == http.StatusNotFound:
		kind = apperr.KindNotFound
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = apperr.KindUnauthorized
	case status == http.StatusTooManyRequests:
		kind = apperr.KindRateLimited
	case status >= 500:
		kind = apperr.KindUnavailable
	case status >= 400:
		kind = apperr.KindValidation
	}
	if description == "" {
		description = fmt.Sprintf("remote error %d", status)
	}
	if code == 0 {
		code = status
	}
	return apperr.New(kind, description).WithOp(op).WithCode(code)
}

// SignToken builds the bearer token for one request. The sig claim binds
// the token to method, uri and body.
func (c *Client) SignToken(method, uri string, body []byte) (string, error) {
	if len(c.secret) == 0 {
		return "", errors.New("session secret is not configured")
	}
	sum := sha256.Sum256([]byte(method + uri + string(body)))
	now := c.now()

	claims := jwt.MapClaims{
		"uid": c.userID,
		"sid": c.sessionID,
		"iat": now.Unix(),
		"exp": now.Add(tokenTTL).Unix(),
		"jti": uuid.NewString(),
		"sig": hex.EncodeToString(sum[:]),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}
