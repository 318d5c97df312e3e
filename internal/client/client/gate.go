package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/petadopt/internal/client/models"
	"github.com/dmitrijs2005/petadopt/internal/client/notify"
	"github.com/dmitrijs2005/petadopt/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/petadopt/internal/common"
	"github.com/dmitrijs2005/petadopt/internal/logging"
	"github.com/google/uuid"
)

const (
	DefaultTimeout = 10 * time.Second

	loginPath       = "/login"
	maxResponseSize = 4 << 20
)

// TokenSource returns the token to attach to the next request, or "" when
// there is none.
type TokenSource func(ctx context.Context) (string, error)

// StoreTokens reads the token from the durable store on every call.
func StoreTokens(repo credentials.Repository) TokenSource {
	return func(ctx context.Context) (string, error) {
		cred, err := repo.Get(ctx)
		if err != nil {
			return "", err
		}
		if cred == nil {
			return "", nil
		}
		return cred.Token, nil
	}
}

// Options allows overriding the client's dependencies.
type Options struct {
	HTTPClient *http.Client
	Timeout    time.Duration
	Tokens     TokenSource
	Notifier   notify.Notifier
	Logger     logging.Logger
}

// Client is the HTTP implementation of API.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	tokens     TokenSource
	notifier   notify.Notifier
	logger     logging.Logger

	mu          sync.Mutex
	invalidated string
	onInvalid   []func(ctx context.Context)
}

func New(baseURL string, opts Options) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("baseURL is empty")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse baseURL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("baseURL %q: scheme and host are required", baseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	tokens := opts.Tokens
	if tokens == nil {
		tokens = func(context.Context) (string, error) { return "", nil }
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.Func(func(context.Context, notify.Level, string) {})
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	return &Client{
		baseURL:    parsed,
		httpClient: httpClient,
		tokens:     tokens,
		notifier:   notifier,
		logger:     logger.With("component", "api"),
	}, nil
}

// OnSessionInvalidated registers fn to run when the server rejects the
// session with 401. It fires once per rejected token, however many
// requests carrying that token come back 401. A successful login re-arms
// it.
func (c *Client) OnSessionInvalidated(fn func(ctx context.Context)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onInvalid = append(c.onInvalid, fn)
}

// call sends one request through the gate. in, when non-nil, is sent as a
// JSON body; out, when non-nil, receives the "data" field of a 2xx reply.
// It returns the reply's "message" field.
func (c *Client) call(ctx context.Context, op, method, path string, query url.Values, in, out any) (string, error) {
	token, err := c.tokens(ctx)
	if err != nil {
		return "", fmt.Errorf("%s: read token: %w", op, err)
	}

	req, err := c.newRequest(ctx, method, path, query, in)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if token != "" {
		req.Header.Set(common.TokenHeaderName, token)
	}
	reqID := uuid.NewString()
	req.Header.Set(common.RequestIDHeaderName, reqID)

	log := c.logger.With("op", op, "request_id", reqID)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn(ctx, "request failed", "error", err, "elapsed", time.Since(start))
		return "", c.transportFailure(ctx, op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		log.Warn(ctx, "read response failed", "status", resp.StatusCode, "error", err)
		return "", c.transportFailure(ctx, op, err)
	}
	log.Debug(ctx, "request finished", "method", method, "path", path, "status", resp.StatusCode, "elapsed", time.Since(start))

	var env models.Envelope
	decodeErr := json.Unmarshal(body, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Op: op, Status: resp.StatusCode, Kind: kindOf(resp.StatusCode), Message: env.Message}
		c.reject(ctx, apiErr, path, token)
		return "", apiErr
	}

	if path == loginPath {
		c.mu.Lock()
		c.invalidated = ""
		c.mu.Unlock()
	}

	if out == nil {
		return env.Message, nil
	}
	if decodeErr != nil {
		return "", fmt.Errorf("%s: %w: %w", op, ErrBadResponse, decodeErr)
	}
	if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return "", fmt.Errorf("%s: %w: no data", op, ErrBadResponse)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return "", fmt.Errorf("%s: %w: %w", op, ErrBadResponse, err)
	}
	return env.Message, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, in any) (*http.Request, error) {
	full := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		full.RawQuery = query.Encode()
	}

	var body io.Reader
	if in != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(in); err != nil {
			return nil, err
		}
		body = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, full.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// reject notifies the user about a non-2xx reply and, for a 401 outside
// the login endpoint, invalidates the session.
func (c *Client) reject(ctx context.Context, e *APIError, path, token string) {
	msg := e.Message
	if msg == "" {
		msg = common.MsgFallback
	}

	switch {
	case e.Status == http.StatusBadRequest:
		c.notifier.Notify(ctx, notify.LevelError, msg)
	case e.Status == http.StatusUnauthorized && path != loginPath:
		c.invalidate(ctx, token)
	case e.Status == http.StatusForbidden:
		c.notifier.Notify(ctx, notify.LevelError, common.MsgForbidden)
	case e.Status >= http.StatusInternalServerError:
		c.notifier.Notify(ctx, notify.LevelError, common.MsgServerError)
	default:
		c.notifier.Notify(ctx, notify.LevelError, msg)
	}
}

// invalidate runs the session-invalidated path at most once per token.
// Requests sent without a token are not deduplicated. A 401 for a token
// that is no longer the current one is dropped, so it cannot end a session
// started after the request was sent.
func (c *Client) invalidate(ctx context.Context, token string) {
	if current, err := c.tokens(ctx); err == nil && current != "" && current != token {
		c.logger.Debug(ctx, "401 for a replaced token ignored")
		return
	}

	c.mu.Lock()
	if token != "" && token == c.invalidated {
		c.mu.Unlock()
		c.logger.Debug(ctx, "session already invalidated")
		return
	}
	c.invalidated = token
	handlers := slices.Clone(c.onInvalid)
	c.mu.Unlock()

	c.logger.Info(ctx, "session rejected by server")
	c.notifier.Notify(ctx, notify.LevelError, common.MsgSessionExpired)
	for _, fn := range handlers {
		fn(ctx)
	}
}

func (c *Client) transportFailure(ctx context.Context, op string, err error) error {
	if !errors.Is(err, context.Canceled) {
		c.notifier.Notify(ctx, notify.LevelError, common.MsgFallback)
	}
	return &APIError{Op: op, Kind: KindTransport, Err: err}
}
