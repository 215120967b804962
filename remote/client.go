package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

const (
	// DefaultTimeout bounds a single authentication round trip.
	DefaultTimeout = 10 * time.Second
	// DefaultMaxResponseBytes caps the response body read into memory.
	DefaultMaxResponseBytes int64 = 1 << 20

	// RequestIDHeader carries a per-request uuid for server-side correlation.
	RequestIDHeader = "X-Request-ID"

	statusBodyLimit = 256
)

var (
	// ErrUnexpectedStatus is wrapped by StatusError for non-2xx responses.
	ErrUnexpectedStatus = errors.New("remote: unexpected status")
	// ErrMalformedResponse reports a body that violates the response contract.
	ErrMalformedResponse = errors.New("remote: malformed response")
	// ErrEmptyEndpoint rejects a blank endpoint before any I/O.
	ErrEmptyEndpoint = errors.New("remote: empty endpoint")
)

// StatusError describes a non-2xx answer from the endpoint.
type StatusError struct {
	StatusCode int
	// Body holds at most the first 256 bytes of the response.
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote: unexpected status %d", e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

// Config controls request shaping.
type Config struct {
	Timeout          time.Duration
	MaxResponseBytes int64
	// Headers are added to every request. Content-Type and X-Request-ID
	// cannot be overridden.
	Headers map[string]string
}

// Response is the decoded success body.
type Response struct {
	Token string
	// User is nil when the body carried no user object.
	User map[string]any
	// Permissions is nil when the body carried no permission list.
	Permissions []string
	StatusCode  int
	RequestID   string
}

// Client performs authentication requests. It is safe for concurrent use.
type Client struct {
	http *http.Client
	cfg  Config
}

// NewClient builds a Client. A nil httpClient uses a fresh http.Client.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxResponseBytes <= 0 {
		cfg.MaxResponseBytes = DefaultMaxResponseBytes
	}
	headers := make(map[string]string, len(cfg.Headers))
	for k, v := range cfg.Headers {
		headers[k] = v
	}
	cfg.Headers = headers

	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{http: httpClient, cfg: cfg}
}

// Authenticate POSTs payload to endpoint and decodes the answer. payload may
// be a []byte or json.RawMessage (sent verbatim), nil (sent as an empty
// object), or any value encoding/json can marshal.
func (c *Client) Authenticate(ctx context.Context, endpoint string, payload any) (*Response, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, ErrEmptyEndpoint
	}
	if ctx == nil {
		ctx = context.Background()
	}

	body, err := encodePayload(payload)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("remote: build request: %w", err)
	}
	for k, v := range c.cfg.Headers {
		req.Header.Set(k, v)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote: post %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxResponseBytes+1))
	if err != nil {
		return nil, fmt.Errorf("remote: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := raw
		if len(snippet) > statusBodyLimit {
			snippet = snippet[:statusBodyLimit]
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(snippet)}
	}
	if int64(len(raw)) > c.cfg.MaxResponseBytes {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", ErrMalformedResponse, c.cfg.MaxResponseBytes)
	}

	out, err := ParseResponse(raw)
	if err != nil {
		return nil, err
	}
	out.StatusCode = resp.StatusCode
	out.RequestID = requestID
	return out, nil
}

func encodePayload(payload any) ([]byte, error) {
	switch p := payload.(type) {
	case nil:
		return []byte("{}"), nil
	case []byte:
		return p, nil
	case json.RawMessage:
		return p, nil
	default:
		b, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("remote: encode payload: %w", err)
		}
		return b, nil
	}
}

// ParseResponse extracts the session fields from a success body.
func ParseResponse(body []byte) (*Response, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid json", ErrMalformedResponse)
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: body is not an object", ErrMalformedResponse)
	}

	token := root.Get("token")
	if token.Type != gjson.String || token.Str == "" {
		return nil, fmt.Errorf("%w: token missing or not a string", ErrMalformedResponse)
	}
	out := &Response{Token: token.Str}

	if user := root.Get("user"); user.Exists() && user.Type != gjson.Null {
		if !user.IsObject() {
			return nil, fmt.Errorf("%w: user is not an object", ErrMalformedResponse)
		}
		m, ok := user.Value().(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: user is not an object", ErrMalformedResponse)
		}
		out.User = m
	}

	if perms := root.Get("permissions"); perms.Exists() && perms.Type != gjson.Null {
		if !perms.IsArray() {
			return nil, fmt.Errorf("%w: permissions is not an array", ErrMalformedResponse)
		}
		items := perms.Array()
		list := make([]string, 0, len(items))
		for _, item := range items {
			if item.Type != gjson.String {
				return nil, fmt.Errorf("%w: permissions must hold strings", ErrMalformedResponse)
			}
			list = append(list, item.Str)
		}
		out.Permissions = list
	}

	return out, nil
}
