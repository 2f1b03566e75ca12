// Package client talks to the booking API over HTTP.
package client

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
	"time"

	"car-rental-admin/internal/delivery/dto"

	"github.com/google/uuid"
)

const defaultTimeout = 30 * time.Second

// APIError is a non-success response from the API
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

var ErrNotAuthenticated = errors.New("client is not logged in")

type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// New returns a client for the API rooted at baseURL, e.g. http://localhost:4005/api/v1
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope mirrors pkg/response.Response with a typed payload
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*dto.TokenResponse, error) {
	var tokens dto.TokenResponse
	status, err := c.do(ctx, http.MethodPost, "/auth/login", dto.LoginRequest{Email: email, Password: password}, &tokens, false)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &APIError{StatusCode: status, Message: "login failed"}
	}

	c.mu.Lock()
	c.token = tokens.AccessToken
	c.mu.Unlock()

	return &tokens, nil
}

func (c *Client) Me(ctx context.Context) (*dto.UserResponse, error) {
	var user dto.UserResponse
	if _, err := c.expectOK(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Suppliers lists the rental companies the signed-in user may query
func (c *Client) Suppliers(ctx context.Context) ([]dto.UserSummary, error) {
	var list dto.SupplierListResponse
	if _, err := c.expectOK(ctx, http.MethodGet, "/suppliers", nil, &list); err != nil {
		return nil, err
	}
	return list.Suppliers, nil
}

// GetBookings fetches one 0-based page of bookings
func (c *Client) GetBookings(ctx context.Context, req dto.GetBookingsRequest, page, size int) (*dto.BookingPageResponse, error) {
	var result dto.BookingPageResponse
	path := fmt.Sprintf("/bookings/%d/%d", page, size)
	if _, err := c.expectOK(ctx, http.MethodPost, path, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateStatus returns the HTTP status code of the update; only transport failures are errors
func (c *Client) UpdateStatus(ctx context.Context, req dto.UpdateStatusRequest) (int, error) {
	return c.do(ctx, http.MethodPost, "/bookings/status", req, nil, true)
}

// DeleteBookings returns the HTTP status code of the delete; only transport failures are errors
func (c *Client) DeleteBookings(ctx context.Context, ids []uuid.UUID) (int, error) {
	return c.do(ctx, http.MethodPost, "/bookings/delete", dto.DeleteBookingsRequest{IDs: ids}, nil, true)
}

func (c *Client) expectOK(ctx context.Context, method, path string, body, out interface{}) (int, error) {
	status, err := c.do(ctx, method, path, body, out, true)
	if err != nil {
		return status, err
	}
	if status != http.StatusOK {
		return status, &APIError{StatusCode: status, Message: http.StatusText(status)}
	}
	return status, nil
}

// do sends the request and decodes the envelope's data into out on success
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, auth bool) (int, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if auth {
		c.mu.RLock()
		token := c.token
		c.mu.RUnlock()
		if token == "" {
			return 0, ErrNotAuthenticated
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK || out == nil {
		io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return resp.StatusCode, nil
}
