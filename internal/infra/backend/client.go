// Package backend is the REST client for the attendance API the station administers.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"attendance/config"
	domainerrors "attendance/internal/domain/errors"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	loginPath = "/api/auth/login"

	maxResponseBytes = 8 << 20
)

// envelope is the wrapper every backend JSON response is sent in
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// request describes one backend call
type request struct {
	method      string
	path        string
	body        []byte
	contentType string

	// notFound replaces the generic failure when the backend answers 404
	notFound *domainerrors.BaseError
}

// Client talks to the attendance backend with an opaque bearer token.
// When the token is rejected and credentials are configured, it logs in
// again and retries the call once.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger

	username string
	password string

	mu          sync.RWMutex
	accessToken string
}

// ClientParams holds dependencies for Client, injected by Fx
type ClientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// NewClient builds a Client from the backend section of the configuration
func NewClient(params ClientParams) (*Client, error) {
	return New(params.Config.Backend, params.Logger)
}

// New builds a Client outside of Fx
func New(cfg *config.BackendConfig, logger *slog.Logger) (*Client, error) {
	if cfg == nil || strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("backend.baseUrl is required")
	}

	baseURL, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, errors.Wrapf(err, "parse backend.baseUrl %q", cfg.BaseURL)
	}
	if baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, errors.Errorf("backend.baseUrl %q must be absolute", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      logger,
		username:    cfg.Username,
		password:    cfg.Password,
		accessToken: cfg.AccessToken,
	}, nil
}

// HasCredentials reports whether the client can log in on its own
func (c *Client) HasCredentials() bool {
	return c.username != "" && c.password != ""
}

// Authenticated reports whether a bearer token is currently held
func (c *Client) Authenticated() bool {
	return c.token() != ""
}

// Login exchanges the configured credentials for a bearer token
func (c *Client) Login(ctx context.Context) error {
	if !c.HasCredentials() {
		return domainerrors.ErrBackendUnauthorized.WithDetails("no credentials configured")
	}

	body, err := json.Marshal(loginRequest{Username: c.username, Password: c.password})
	if err != nil {
		return errors.WithStack(err)
	}

	var resp loginResponse
	if err := c.send(ctx, &request{
		method:      http.MethodPost,
		path:        loginPath,
		body:        body,
		contentType: "application/json",
	}, &resp); err != nil {
		return err
	}

	if resp.AccessToken == "" {
		return domainerrors.ErrBackendUnauthorized.WithDetails("login returned no access token")
	}

	c.mu.Lock()
	c.accessToken = resp.AccessToken
	c.mu.Unlock()

	c.logger.Info("Logged in to attendance backend", slog.String("username", c.username))

	return nil
}

func (c *Client) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.accessToken
}

// do performs an authenticated call and decodes the envelope data into out
func (c *Client) do(ctx context.Context, req *request, out any) error {
	if c.token() == "" && c.HasCredentials() {
		if err := c.Login(ctx); err != nil {
			return err
		}
	}

	err := c.send(ctx, req, out)
	if !errors.Is(err, domainerrors.ErrBackendUnauthorized) || !c.HasCredentials() {
		return err
	}

	c.logger.Info("Backend rejected access token, logging in again", slog.String("path", req.path))
	if err := c.Login(ctx); err != nil {
		return err
	}

	return c.send(ctx, req, out)
}

// send performs a single round trip
func (c *Client) send(ctx context.Context, req *request, out any) error {
	raw, err := c.roundTrip(ctx, req, c.resolve(req.path), true)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return domainerrors.ErrBackendFailure.WithDetails(req.method + " " + req.path + ": invalid response body")
	}
	if !env.Success {
		return domainerrors.ErrBackendFailure.WithDetails(describe(req, env.Message))
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return domainerrors.ErrBackendFailure.WithDetails(req.method + " " + req.path + ": " + err.Error())
	}

	return nil
}

// roundTrip executes the request and returns the raw body of a 2xx response
func (c *Client) roundTrip(ctx context.Context, req *request, target *url.URL, withAuth bool) ([]byte, error) {
	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target.String(), body)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	if token := c.token(); withAuth && token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, domainerrors.ErrBackendFailure.WithDetails(req.method + " " + req.path + ": " + err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, domainerrors.ErrBackendFailure.WithDetails(req.method + " " + req.path + ": " + err.Error())
	}

	c.logger.Debug("Backend call",
		slog.String("method", req.method),
		slog.String("path", req.path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, nil
	}

	message := errorMessage(raw)
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, domainerrors.ErrBackendUnauthorized.WithDetails(describe(req, message))
	case resp.StatusCode == http.StatusNotFound && req.notFound != nil:
		return nil, req.notFound.WithDetails(describe(req, message))
	default:
		return nil, domainerrors.ErrBackendFailure.WithDetails(describe(req, message))
	}
}

func (c *Client) resolve(path string) *url.URL {
	target := *c.baseURL
	target.Path = strings.TrimRight(c.baseURL.Path, "/") + path

	return &target
}

// errorMessage extracts the envelope message of an error response, if any
func errorMessage(raw []byte) string {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return ""
	}

	return env.Message
}

func describe(req *request, message string) string {
	if message == "" {
		return req.method + " " + req.path
	}

	return req.method + " " + req.path + ": " + message
}
