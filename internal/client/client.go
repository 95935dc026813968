// Package client is a typed HTTP client for the availability API. The
// calendar controller and the smoke CLI drive the server through it.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/andrino-academy/andrino-api/internal/dto"
	"github.com/andrino-academy/andrino-api/internal/models"
	appErrors "github.com/andrino-academy/andrino-api/pkg/errors"
)

const defaultTimeout = 15 * time.Second

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken sets the bearer token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// Client talks to the API mounted at baseURL (including the API prefix).
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// New builds a client for baseURL, e.g. http://localhost:8080/api.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type envelope struct {
	Data  json.RawMessage  `json:"data"`
	Error *appErrors.Error `json:"error"`
}

// Login authenticates and keeps the issued token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	var res models.LoginResponse
	payload := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, payload, &res); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.token = res.AccessToken
	c.mu.Unlock()
	return &res, nil
}

// Tracks lists tracks, narrowed to the caller's when mine is set.
func (c *Client) Tracks(ctx context.Context, mine bool) ([]models.Track, error) {
	query := url.Values{}
	if mine {
		query.Set("mine", "true")
	}
	var res dto.TrackListResponse
	if err := c.do(ctx, http.MethodGet, "/tracks", query, nil, &res); err != nil {
		return nil, err
	}
	return res.Tracks, nil
}

// ScheduleSettings returns the academy schedule settings.
func (c *Client) ScheduleSettings(ctx context.Context) (*models.ScheduleSettings, error) {
	var res dto.ScheduleSettingsResponse
	if err := c.do(ctx, http.MethodGet, "/settings/schedule", nil, nil, &res); err != nil {
		return nil, err
	}
	return &res.Settings, nil
}

// Availability fetches the caller's rows for a track week.
func (c *Client) Availability(ctx context.Context, trackID, weekStartDate string) (*dto.AvailabilityResponse, error) {
	query := url.Values{}
	query.Set("trackId", trackID)
	query.Set("weekStartDate", weekStartDate)
	var res dto.AvailabilityResponse
	if err := c.do(ctx, http.MethodGet, "/instructor/availability", query, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// SaveAvailability submits the caller's unconfirmed selection.
func (c *Client) SaveAvailability(ctx context.Context, req dto.SaveAvailabilityRequest) (*dto.SaveAvailabilityResponse, error) {
	var res dto.SaveAvailabilityResponse
	if err := c.do(ctx, http.MethodPost, "/instructor/availability", nil, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ConfirmAvailability locks the week.
func (c *Client) ConfirmAvailability(ctx context.Context, req dto.ConfirmAvailabilityRequest) (*dto.ConfirmAvailabilityResponse, error) {
	var res dto.ConfirmAvailabilityResponse
	if err := c.do(ctx, http.MethodPut, "/instructor/availability/confirm", nil, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// do sends one request. API failures come back as *appErrors.Error carrying
// the server's code; transport failures are returned wrapped.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, dest interface{}) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.mu.RLock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.mu.RUnlock()

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return statusError(resp.StatusCode, err)
		}
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		if env.Error == nil {
			return statusError(resp.StatusCode, nil)
		}
		apiErr := *env.Error
		if apiErr.Status == 0 {
			apiErr.Status = resp.StatusCode
		}
		return &apiErr
	}
	if dest == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		return fmt.Errorf("decode %s %s data: %w", method, path, err)
	}
	return nil
}

func statusError(status int, cause error) *appErrors.Error {
	code := appErrors.ErrInternal.Code
	switch status {
	case http.StatusUnauthorized:
		code = appErrors.ErrUnauthorized.Code
	case http.StatusForbidden:
		code = appErrors.ErrForbidden.Code
	case http.StatusNotFound:
		code = appErrors.ErrNotFound.Code
	case http.StatusTooManyRequests:
		code = appErrors.ErrTooManyRequests.Code
	case http.StatusBadRequest:
		code = appErrors.ErrValidation.Code
	}
	return appErrors.Wrap(cause, code, status, http.StatusText(status))
}
