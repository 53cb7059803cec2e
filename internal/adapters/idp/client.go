package idp

// Package idp is the REST client for the hosted identity-provider service.
// Credentials issued here are opaque strings; this client never inspects them.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	domainauth "github.com/predictlab/forecast-ui-api/internal/domain/auth"
	apperrors "github.com/predictlab/forecast-ui-api/internal/errors"
	"github.com/predictlab/forecast-ui-api/internal/ports"
)

// Provider endpoint paths, relative to the configured base URL.
const (
	pathSignInWithPassword = "/v1/accounts:signInWithPassword"
	pathSignUp             = "/v1/accounts:signUp"
	pathUpdate             = "/v1/accounts:update"
	pathRevoke             = "/v1/accounts:revoke"
	pathMintToken          = "/v1/accounts:mintToken"
)

// Provider error codes surfaced in the service's error payloads.
const (
	codeEmailNotFound   = "EMAIL_NOT_FOUND"
	codeInvalidPassword = "INVALID_PASSWORD"
	codeEmailExists     = "EMAIL_EXISTS"
	codeInvalidToken    = "INVALID_ID_TOKEN"
	codeUserNotFound    = "USER_NOT_FOUND"
)

// Config holds configuration for the identity-provider client.
type Config struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client // Optional, defaults to http.DefaultClient
}

// Client implements ports.IdentityProvider against the provider's REST API
// and ports.IdentityEvents for the resulting identity transitions.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	mu         sync.Mutex
	events     chan *domainauth.Identity
	subscribed bool
}

// NewClient creates a new identity-provider client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("idp: base URL is required")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("idp: API key is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		events:     make(chan *domainauth.Identity, 16),
	}, nil
}

var _ ports.IdentityProvider = (*Client)(nil)
var _ ports.IdentityEvents = (*Client)(nil)

// accountPayload is the account shape returned by sign-in, sign-up, and
// token-mint calls.
type accountPayload struct {
	LocalID     string `json:"localId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	IDToken     string `json:"idToken"`
}

func (c *Client) SignIn(ctx context.Context, email, password string) (ports.SignInResult, error) {
	if email == "" || password == "" {
		return ports.SignInResult{}, apperrors.Validation("email and password are required")
	}

	var out accountPayload
	err := c.post(ctx, pathSignInWithPassword, map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &out)
	if err != nil {
		return ports.SignInResult{}, err
	}

	res := resultFromAccount(out)
	c.emit(&res.Identity)
	return res, nil
}

func (c *Client) SignUp(ctx context.Context, email, password string) (ports.SignInResult, error) {
	if email == "" || password == "" {
		return ports.SignInResult{}, apperrors.Validation("email and password are required")
	}

	var out accountPayload
	err := c.post(ctx, pathSignUp, map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &out)
	if err != nil {
		return ports.SignInResult{}, err
	}

	res := resultFromAccount(out)
	c.emit(&res.Identity)
	return res, nil
}

func (c *Client) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := c.post(ctx, pathRevoke, map[string]any{"idToken": token}, nil); err != nil {
		// Revocation of an already-dead credential still ends the session.
		if !apperrors.IsUnauthorized(err) {
			return err
		}
	}
	c.emit(nil)
	return nil
}

func (c *Client) IssueToken(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", apperrors.Validation("user id is required")
	}

	var out accountPayload
	if err := c.post(ctx, pathMintToken, map[string]any{"localId": userID}, &out); err != nil {
		return "", err
	}
	if out.IDToken == "" {
		return "", apperrors.Internal("provider returned empty token")
	}
	return out.IDToken, nil
}

func (c *Client) UpdateProfile(ctx context.Context, token, displayName string) error {
	if token == "" {
		return apperrors.Unauthorized("token is required")
	}
	return c.post(ctx, pathUpdate, map[string]any{
		"idToken":     token,
		"displayName": displayName,
	}, nil)
}

func (c *Client) UpdateEmail(ctx context.Context, token, newEmail string) error {
	if token == "" {
		return apperrors.Unauthorized("token is required")
	}
	if newEmail == "" {
		return apperrors.ValidationField("email", "email is required")
	}
	return c.post(ctx, pathUpdate, map[string]any{
		"idToken": token,
		"email":   newEmail,
	}, nil)
}

func (c *Client) UpdatePassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return apperrors.Unauthorized("token is required")
	}
	if newPassword == "" {
		return apperrors.ValidationField("password", "password is required")
	}
	return c.post(ctx, pathUpdate, map[string]any{
		"idToken":  token,
		"password": newPassword,
	}, nil)
}

// Subscribe hands out the identity-change stream. Only one active
// subscription is allowed; the cancel func releases it.
func (c *Client) Subscribe(_ context.Context) (<-chan *domainauth.Identity, func(), error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.subscribed {
		return nil, nil, errors.New("identity stream already subscribed")
	}
	c.subscribed = true
	cancel := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.subscribed = false
	}
	return c.events, cancel, nil
}

func resultFromAccount(acct accountPayload) ports.SignInResult {
	return ports.SignInResult{
		Identity: domainauth.Identity{
			ID:          acct.LocalID,
			Email:       acct.Email,
			DisplayName: acct.DisplayName,
		},
		Token: acct.IDToken,
	}
}

func (c *Client) emit(identity *domainauth.Identity) {
	select {
	case c.events <- identity:
	default:
	}
}

// errorPayload is the provider's error envelope.
type errorPayload struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) post(ctx context.Context, path string, body map[string]any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	url := c.baseURL + path + "?key=" + c.apiKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeInternal, "identity provider request %s failed", path)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return mapProviderError(resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}
	if unmarshalErr := json.Unmarshal(raw, out); unmarshalErr != nil {
		return fmt.Errorf("decode response: %w", unmarshalErr)
	}
	return nil
}

// mapProviderError converts the provider's error envelope into the
// application error taxonomy.
func mapProviderError(status int, raw []byte) error {
	var payload errorPayload
	_ = json.Unmarshal(raw, &payload)
	msg := payload.Error.Message
	if msg == "" {
		msg = fmt.Sprintf("identity provider returned status %d", status)
	}

	// Codes may carry suffixes like "TOO_MANY_ATTEMPTS_TRY_AGAIN_LATER :
	// ..."; match on the leading code.
	code, _, _ := strings.Cut(msg, " ")
	switch code {
	case codeEmailNotFound, codeInvalidPassword, codeInvalidToken, codeUserNotFound:
		return apperrors.Unauthorized(msg)
	case codeEmailExists:
		return apperrors.Conflict(msg)
	}

	switch {
	case status == http.StatusUnauthorized:
		return apperrors.Unauthorized(msg)
	case status == http.StatusNotFound:
		return apperrors.NotFound(msg)
	case status >= 400 && status < 500:
		return apperrors.Validation(msg)
	default:
		return apperrors.Internal(msg)
	}
}
