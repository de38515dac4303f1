// Package client talks to the order service REST API on behalf of a table.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Aayushshr101/digital-menu-backend/internal/models"
)

const defaultTimeout = 10 * time.Second

// Client is a REST client for /api/v1.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    strings.TrimRight(baseURL, "/") + "/api/v1",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) FetchOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, http.MethodGet, "/orders/"+id.String(), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) FetchTable(ctx context.Context, id uuid.UUID) (*models.Table, error) {
	var table models.Table
	if err := c.do(ctx, http.MethodGet, "/tables/"+id.String(), nil, &table); err != nil {
		return nil, err
	}
	return &table, nil
}

func (c *Client) FetchMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := c.do(ctx, http.MethodGet, "/menu-items", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) FetchCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.do(ctx, http.MethodGet, "/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// AppendItems posts lines to an open order. The server recomputes the delta from the lines.
func (c *Client) AppendItems(ctx context.Context, orderID uuid.UUID, items []models.OrderLineItem, _ models.Money) (*models.Order, error) {
	var order models.Order
	req := models.AppendItemsRequest{Items: items}
	if err := c.do(ctx, http.MethodPost, "/orders/"+orderID.String()+"/items", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// apiError is the error body written by the server.
type apiError struct {
	Error     string `json:"error"`
	Field     string `json:"field"`
	RequestID string `json:"request_id"`
	Retryable bool   `json:"retryable"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp, path)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// decodeError maps a response status back onto the error taxonomy.
func decodeError(resp *http.Response, path string) error {
	var body apiError
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body)
	if body.Error == "" {
		body.Error = http.StatusText(resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", models.ErrNotFound, body.Error)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", models.ErrInvalidState, body.Error)
	case http.StatusBadRequest:
		return models.ValidationError{Field: body.Field, Message: body.Error}
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", models.ErrUnauthorized, body.Error)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", models.ErrForbidden, body.Error)
	}

	err := fmt.Errorf("%s: %d %s (request %s)", path, resp.StatusCode, body.Error, body.RequestID)
	if body.Retryable {
		return &models.PersistenceError{Op: "remote " + path, Err: err}
	}
	return err
}
