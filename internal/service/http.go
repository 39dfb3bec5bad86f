package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"codeconnect/internal/form"
)

// DefaultHTTPTimeout bounds a single request to the HTTP backend.
const DefaultHTTPTimeout = 10 * time.Second

// HTTP is a Backend served by `codeconnect serve`.
type HTTP struct {
	baseURL string
	client  *http.Client
}

var _ Backend = (*HTTP)(nil)

// NewHTTP creates a client for the server at baseURL. A non-positive timeout
// means DefaultHTTPTimeout.
func NewHTTP(baseURL string, timeout time.Duration) *HTTP {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	return &HTTP{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// WithClient replaces the underlying http.Client.
func (h *HTTP) WithClient(c *http.Client) *HTTP {
	h.client = c
	return h
}

func (h *HTTP) TagExists(ctx context.Context, tag string) (bool, error) {
	var resp TagResponse
	if err := h.do(ctx, http.MethodGet, "/api/tags/"+url.PathEscape(tag), nil, &resp); err != nil {
		return false, err
	}
	return resp.Exists, nil
}

func (h *HTTP) EmailAvailable(ctx context.Context, email string) (bool, error) {
	q := url.Values{"email": {email}}
	var resp EmailAvailabilityResponse
	if err := h.do(ctx, http.MethodGet, "/api/emails/availability?"+q.Encode(), nil, &resp); err != nil {
		return false, err
	}
	return resp.Available, nil
}

func (h *HTTP) Publish(ctx context.Context, p form.Project) (Receipt, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return Receipt{}, fmt.Errorf("encode project: %w", err)
	}
	var r Receipt
	if err := h.do(ctx, http.MethodPost, "/api/projects", body, &r); err != nil {
		return Receipt{}, err
	}
	return r, nil
}

func (h *HTTP) do(ctx context.Context, method, path string, body []byte, out any) error {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return statusError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrUnavailable, path, err)
	}
	return nil
}

// statusError maps a non-2xx answer to an error wrapping the matching
// sentinel.
func statusError(resp *http.Response) error {
	var e ErrorResponse
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(b, &e); err != nil || e.Error == "" {
		e.Error = strings.TrimSpace(string(b))
	}
	switch resp.StatusCode {
	case http.StatusServiceUnavailable:
		return fmt.Errorf("%w: %s", ErrPublishFailed, e.Error)
	case http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", form.ErrValidation, e.Error)
	default:
		return fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, e.Error)
	}
}
