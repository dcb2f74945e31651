// Package gateway wraps the backend HTTP API. Every call is one request and
// one response: no retries.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"opta/logutil"
	"opta/model"
)

const IdempotencyHeader = "Idempotency-Key"

// TokenSource supplies the bearer token, if any, for each request.
type TokenSource interface {
	Token() *string
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

func WithTokenSource(ts TokenSource) Option {
	return func(cl *Client) { cl.tokens = ts }
}

func WithLogger(l *slog.Logger) Option {
	return func(cl *Client) { cl.log = l }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = logutil.OrDefault(c.log)
	return c
}

func (c *Client) Login(ctx context.Context, phoneNumber, password string) (model.LoginResponse, error) {
	var out model.LoginResponse
	status, detail, err := c.do(ctx, "login", http.MethodPost, "/login", model.LoginInput{
		PhoneNumber: phoneNumber,
		Password:    password,
	}, nil, &out)
	if err != nil {
		return model.LoginResponse{}, err
	}
	if !ok(status) {
		return model.LoginResponse{}, &AuthError{Status: status, Detail: detail}
	}
	return out, nil
}

func (c *Client) Register(ctx context.Context, userName, phoneNumber, password string) (string, error) {
	var out model.MessageBody
	status, detail, err := c.do(ctx, "register", http.MethodPost, "/register", model.RegisterInput{
		UserName:    userName,
		PhoneNumber: phoneNumber,
		Password:    password,
	}, nil, &out)
	if err != nil {
		return "", err
	}
	if !ok(status) {
		return "", &AuthError{Status: status, Detail: detail}
	}
	return out.Message, nil
}

// FetchAddresses returns an empty list when the user has none.
func (c *Client) FetchAddresses(ctx context.Context, userID int) ([]model.SavedAddress, error) {
	var out model.AddressList
	path := "/get-address?data=" + url.QueryEscape(strconv.Itoa(userID))
	status, detail, err := c.do(ctx, "fetch addresses", http.MethodGet, path, nil, nil, &out)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return []model.SavedAddress{}, nil
	}
	if !ok(status) {
		return nil, &ValidationError{Status: status, Detail: detail}
	}
	if out.Addresses == nil {
		out.Addresses = []model.SavedAddress{}
	}
	return out.Addresses, nil
}

// SubmitAddress stores a record. A non-empty idempotencyKey lets the caller
// retry without the backend storing a duplicate.
func (c *Client) SubmitAddress(ctx context.Context, record model.AddressRecord, idempotencyKey string) (string, error) {
	var headers map[string]string
	if idempotencyKey != "" {
		headers = map[string]string{IdempotencyHeader: idempotencyKey}
	}

	var out model.MessageBody
	status, detail, err := c.do(ctx, "submit address", http.MethodPost, "/address", record, headers, &out)
	if err != nil {
		return "", err
	}
	if !ok(status) {
		return "", &ValidationError{Status: status, Detail: detail}
	}
	return out.Message, nil
}

// do sends one request. On 2xx the body is decoded into out; otherwise the
// server's detail is returned alongside the status.
func (c *Client) do(ctx context.Context, op, method, path string, body any, headers map[string]string, out any) (int, string, error) {
	defer logutil.NewTimingLogger(c.log, time.Now(), "api call", "op", op, "path", path)()

	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, "", fmt.Errorf("%s: encode body: %w", op, err)
		}
		rdr = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return 0, "", fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != nil && *tok != "" {
			req.Header.Set("Authorization", "Bearer "+*tok)
		}
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, "", &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, "", &NetworkError{Op: op, Err: err}
	}

	if !ok(resp.StatusCode) {
		var eb model.ErrorBody
		_ = json.Unmarshal(raw, &eb)
		c.log.Debug("api call rejected", "op", op, "status", resp.StatusCode, "detail", eb.Detail)
		return resp.StatusCode, eb.Detail, nil
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return 0, "", &NetworkError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
		}
	}
	return resp.StatusCode, "", nil
}

func ok(status int) bool {
	return status >= 200 && status < 300
}
