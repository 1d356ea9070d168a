// Package fonts lists font families from the Google Fonts developer API.
package fonts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"creator-planner-backend/internal/config"
	"creator-planner-backend/pkg/retry"

	"github.com/go-resty/resty/v2"
)

// Family is one entry of the webfonts list.
type Family struct {
	Family   string   `json:"family"`
	Category string   `json:"category"`
	Variants []string `json:"variants,omitempty"`
}

type webfontsResponse struct {
	Items []Family `json:"items"`
}

type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("google fonts error (status %d): %s", e.StatusCode, e.Body)
}

type Client struct {
	http   *resty.Client
	apiKey string
}

func NewClient(cfg config.FontsConfig) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
			SetTimeout(cfg.Timeout).
			SetHeader("Accept", "application/json"),
		apiKey: cfg.APIKey,
	}
}

func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// List trả về các font family sắp theo độ phổ biến
func (c *Client) List(ctx context.Context) ([]Family, error) {
	var result webfontsResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"key":  c.apiKey,
			"sort": "popularity",
		}).
		SetResult(&result).
		Get("/webfonts")
	if err != nil {
		return nil, fmt.Errorf("google fonts request failed: %w", err)
	}
	if resp.IsError() {
		return nil, &APIError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	if len(result.Items) == 0 {
		return nil, fmt.Errorf("google fonts returned an empty list")
	}
	return result.Items, nil
}

func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return retry.RetryableStatus(apiErr.StatusCode)
	}
	return true
}
