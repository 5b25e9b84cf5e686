package dairyapi

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/dairy/internal/config"
	"github.com/mamadbah2/dairy/internal/domain/models"
)

const (
	milkPath     = "/api/milk"
	paymentsPath = "/api/payments"
	usersPath    = "/api/users"

	defaultTimeout = 15 * time.Second
)

// APIClient reads dashboard records from the dairy REST API.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds a dairy API client using the provided configuration values.
func NewClient(cfg config.DairyAPIConfig) *APIClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	restyClient := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)

	if cfg.Token != "" {
		restyClient.SetAuthToken(cfg.Token)
	}

	return &APIClient{httpClient: restyClient}
}

type milkResponse struct {
	Entries []models.Record `json:"entries"`
}

type paymentsResponse struct {
	Payments []models.Record `json:"payments"`
}

type usersResponse struct {
	Users []models.Record `json:"users"`
}

// apiError is the error body returned by the dairy API.
type apiError struct {
	Error string `json:"error"`
}

// FetchMilkEntries calls GET /api/milk. A body without "entries" is an empty list.
func (c *APIClient) FetchMilkEntries(ctx context.Context) ([]models.Record, error) {
	result := new(milkResponse)
	if err := c.get(ctx, milkPath, result); err != nil {
		return nil, err
	}
	return result.Entries, nil
}

// FetchPayments calls GET /api/payments.
func (c *APIClient) FetchPayments(ctx context.Context) ([]models.Record, error) {
	result := new(paymentsResponse)
	if err := c.get(ctx, paymentsPath, result); err != nil {
		return nil, err
	}
	return result.Payments, nil
}

// FetchUsers calls GET /api/users.
func (c *APIClient) FetchUsers(ctx context.Context) ([]models.Record, error) {
	result := new(usersResponse)
	if err := c.get(ctx, usersPath, result); err != nil {
		return nil, err
	}
	return result.Users, nil
}

func (c *APIClient) get(ctx context.Context, path string, result any) error {
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(result).
		SetError(apiErr).
		Get(path)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}

	if resp.IsError() {
		message := apiErr.Error
		if message == "" {
			message = resp.Status()
		}
		return fmt.Errorf("dairy api error: path=%s, code=%d, message=%s", path, resp.StatusCode(), message)
	}

	if !resp.IsSuccess() {
		return fmt.Errorf("dairy api unexpected status: path=%s, code=%d", path, resp.StatusCode())
	}

	// resty leaves the result untouched for non-JSON bodies.
	if contentType := resp.Header().Get("Content-Type"); !strings.Contains(strings.ToLower(contentType), "json") {
		return fmt.Errorf("dairy api unexpected content type: path=%s, content_type=%q", path, contentType)
	}

	return nil
}
