package kenpo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kenpo-reserve/kenpo-bot/pkg/metrics"
)

// Client is the HTTP implementation of Gateway.
type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

var _ Gateway = (*Client)(nil)

// NewClient creates a Gateway client for the given API base URL.
func NewClient(baseURL string, timeout time.Duration, log *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Categories lists every service category.
func (c *Client) Categories(ctx context.Context) ([]ServiceCategory, error) {
	var categories []ServiceCategory
	err := c.do(ctx, "categories", http.MethodGet, "/service_categories", nil, &categories)
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// FindCategory returns one category by code.
func (c *Client) FindCategory(ctx context.Context, code string) (*ServiceCategory, error) {
	var category ServiceCategory
	err := c.do(ctx, "find_category", http.MethodGet, "/service_categories/"+url.PathEscape(code), nil, &category)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// ServiceAvailable reports whether the (category, service) pair is offered.
func (c *Client) ServiceAvailable(ctx context.Context, categoryCode, service string) (bool, error) {
	category, err := c.FindCategory(ctx, categoryCode)
	if err != nil {
		return false, err
	}

	for _, group := range category.Services {
		if group.Name == service {
			return group.Available, nil
		}
	}

	return false, nil
}

// RequestReservationURL asks the provider to email a reservation link.
func (c *Client) RequestReservationURL(ctx context.Context, categoryCode, service, email string) error {
	body := map[string]string{
		"category": categoryCode,
		"service":  service,
		"email":    email,
	}
	return c.do(ctx, "request_reservation_url", http.MethodPost, "/reservation_urls", body, nil)
}

// Criteria fetches the per-step input constraints for a reservation URL.
func (c *Client) Criteria(ctx context.Context, reservationURL string) (map[string][]string, error) {
	criteria := make(map[string][]string)
	path := "/criteria?url=" + url.QueryEscape(reservationURL)
	if err := c.do(ctx, "criteria", http.MethodGet, path, nil, &criteria); err != nil {
		return nil, err
	}
	return criteria, nil
}

// Submit sends the final reservation data for a reservation URL.
func (c *Client) Submit(ctx context.Context, categoryCode, reservationURL string, data any) error {
	body := map[string]any{
		"category": categoryCode,
		"url":      reservationURL,
		"data":     data,
	}
	return c.do(ctx, "submit", http.MethodPost, "/reservations", body, nil)
}

type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	if e.body != "" {
		return e.body
	}
	return fmt.Sprintf("booking api returned status %d", e.status)
}

func isNotFound(err error) bool {
	se, ok := err.(*statusError)
	return ok && se.status == http.StatusNotFound
}

func (c *Client) do(ctx context.Context, operation, method, path string, in, out any) (err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveGatewayRequest(operation, err, time.Since(start))
	}()

	var reqBody io.Reader
	if in != nil {
		data, merr := json.Marshal(in)
		if merr != nil {
			return fmt.Errorf("encode %s request: %w", operation, merr)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build %s request: %w", operation, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("booking api request failed", "operation", operation, "error", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.log.Error("booking api returned error",
			"operation", operation,
			"status", resp.StatusCode,
		)
		return &statusError{status: resp.StatusCode, body: strings.TrimSpace(string(data))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", operation, err)
	}

	return nil
}
