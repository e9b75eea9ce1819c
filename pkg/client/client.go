// Package client is a typed Go client for the blog API. It validates
// request bodies with the same rules the server applies, keeps a short-lived
// cache of feed listings and can mirror a blog's comment thread locally.
package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"unpolished/internal/models"
	"unpolished/internal/validation"

	"github.com/go-resty/resty/v2"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	apiPrefix      = "/api/v1"
	defaultTimeout = 15 * time.Second
	userAgent      = "unpolished-go-client/1.0"
)

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Details    []models.FieldError
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[%d] %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("[%d] %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is an APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

func parseError(resp *resty.Response) error {
	var env models.ErrorResponse
	if err := json.Unmarshal(resp.Body(), &env); err == nil && env.Error != "" {
		return &APIError{
			StatusCode: resp.StatusCode(),
			Code:       env.Code,
			Message:    env.Error,
			Details:    env.Details,
		}
	}
	return &APIError{
		StatusCode: resp.StatusCode(),
		Message:    strings.TrimSpace(string(resp.Body())),
	}
}

// Option customizes a Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

// WithToken starts the client already signed in.
func WithToken(token string) Option {
	return func(c *Client) { c.SetToken(token) }
}

// WithListingTTL overrides how long feed listings stay cached.
func WithListingTTL(ttl time.Duration) Option {
	return func(c *Client) { c.listings.ttl = ttl }
}

// Client talks to one API server. It is safe for concurrent use.
type Client struct {
	http     *resty.Client
	listings *listingCache
}

// New builds a client for the server at baseURL, e.g. "http://localhost:8787".
func New(baseURL string, opts ...Option) *Client {
	h := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")+apiPrefix).
		SetTimeout(defaultTimeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json").
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)

	c := &Client{
		http:     h,
		listings: newListingCache(listingTTL, time.Now),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken sets the bearer token sent with every request.
func (c *Client) SetToken(token string) {
	c.http.SetAuthToken(token)
}

// ClearToken signs the client out locally.
func (c *Client) ClearToken() {
	c.http.SetAuthToken("")
	c.http.Header.Del("Authorization")
}

// do sends a request and decodes a 2xx body into result.
func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return parseError(resp)
	}
	return nil
}

// validate runs the server's validation rules locally so obviously bad
// requests fail without a round trip.
func validate(v any) error {
	if err := validation.Struct(v); err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return &APIError{StatusCode: 400, Code: appErr.Code, Message: appErr.Message, Details: appErr.Fields}
		}
		return err
	}
	return nil
}
