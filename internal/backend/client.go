// Package backend implements the console's collaborators: an HTTP client of
// the restaurant backend and an in-memory stand-in used in development.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/kiwari-pos/console/internal/apperr"
	"github.com/kiwari-pos/console/internal/order"
	"github.com/kiwari-pos/console/internal/profile"
)

// maxErrorBody caps how much of an error response is read for its message.
const maxErrorBody = 4 << 10

// Client talks to the restaurant backend's REST API on behalf of a single
// restaurant. It satisfies order.Store and profile.Store.
type Client struct {
	baseURL      string
	token        string
	restaurantID uuid.UUID
	httpClient   *http.Client
}

// NewClient creates a Client. A nil httpClient uses http.DefaultClient;
// deadlines come from the request context.
func NewClient(baseURL, token string, restaurantID uuid.UUID, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		token:        token,
		restaurantID: restaurantID,
		httpClient:   httpClient,
	}
}

// FetchOrders returns every order of the restaurant in backend order.
func (c *Client) FetchOrders(ctx context.Context) ([]order.Order, error) {
	var orders []order.Order
	if err := c.do(ctx, http.MethodGet, c.path("/orders"), nil, &orders); err != nil {
		return nil, fmt.Errorf("fetch orders: %w", err)
	}
	if orders == nil {
		orders = []order.Order{}
	}
	return orders, nil
}

// UpdateStatus asks the backend to move an order to status.
func (c *Client) UpdateStatus(ctx context.Context, orderID int, status string) error {
	body := map[string]string{"status": status}
	if err := c.do(ctx, http.MethodPatch, c.path(fmt.Sprintf("/orders/%d/status", orderID)), body, nil); err != nil {
		return fmt.Errorf("update order %d: %w", orderID, err)
	}
	return nil
}

// FetchProfile returns the restaurant profile.
func (c *Client) FetchProfile(ctx context.Context) (profile.Profile, error) {
	var p profile.Profile
	if err := c.do(ctx, http.MethodGet, c.path("/profile"), nil, &p); err != nil {
		return profile.Profile{}, fmt.Errorf("fetch profile: %w", err)
	}
	return p, nil
}

// SaveProfile replaces the restaurant profile.
func (c *Client) SaveProfile(ctx context.Context, p profile.Profile) error {
	if err := c.do(ctx, http.MethodPut, c.path("/profile"), p, nil); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (c *Client) path(suffix string) string {
	return c.baseURL + "/restaurants/" + c.restaurantID.String() + suffix
}

func (c *Client) do(ctx context.Context, method, url string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", apperr.ErrTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return statusError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %w", apperr.ErrTransient, err)
	}
	return nil
}

// statusError classifies a non-2xx response. The backend reports failures as
// {"error": "..."}; anything else falls back to the status text.
func statusError(resp *http.Response) error {
	msg := http.StatusText(resp.StatusCode)
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
		msg = payload.Error
	}

	var kind error
	switch resp.StatusCode {
	case http.StatusNotFound:
		kind = apperr.ErrNotFound
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		kind = apperr.ErrValidation
	default:
		kind = apperr.ErrTransient
	}
	return &StatusError{Code: resp.StatusCode, Message: msg, kind: kind}
}

// StatusError is a non-2xx backend response.
type StatusError struct {
	Code    int
	Message string
	kind    error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Code, e.Message)
}

// Is matches the apperr kind the status code maps to.
func (e *StatusError) Is(target error) bool {
	return e.kind != nil && errors.Is(e.kind, target)
}
