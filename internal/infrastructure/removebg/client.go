// Package removebg calls a remove.bg compatible background-removal API.
package removebg

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"creator-planner-backend/internal/config"
	"creator-planner-backend/pkg/retry"

	"github.com/go-resty/resty/v2"
)

var ErrInvalidImage = errors.New("image must be base64 or a data URL")

// APIError is a non-2xx answer from the service.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("remove.bg error (status %d): %s", e.StatusCode, e.Body)
}

type Client struct {
	http   *resty.Client
	apiKey string
}

func NewClient(cfg config.RemoveBGConfig) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
			SetTimeout(cfg.Timeout).
			SetHeader("User-Agent", "Creator-Planner/1.0"),
		apiKey: cfg.APIKey,
	}
}

func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// RemoveBackground gửi ảnh base64, nhận PNG đã tách nền dưới dạng data URL
func (c *Client) RemoveBackground(ctx context.Context, image string) (string, error) {
	payload, err := StripDataURL(image)
	if err != nil {
		return "", err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("X-Api-Key", c.apiKey).
		SetHeader("Accept", "image/png").
		SetFormData(map[string]string{
			"image_file_b64": payload,
			"size":           "auto",
			"format":         "png",
		}).
		Post("/removebg")
	if err != nil {
		return "", fmt.Errorf("remove.bg request failed: %w", err)
	}
	if resp.IsError() {
		return "", &APIError{StatusCode: resp.StatusCode(), Body: truncate(resp.String(), 200)}
	}

	body := resp.Body()
	if len(body) == 0 {
		return "", fmt.Errorf("remove.bg returned an empty body")
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(body), nil
}

// IsRetryable: chỉ retry lỗi mạng, 408/429, 5xx
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, ErrInvalidImage) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return retry.RetryableStatus(apiErr.StatusCode)
	}
	return true
}

// StripDataURL trả về phần base64 thuần, kiểm tra decode được
func StripDataURL(image string) (string, error) {
	image = strings.TrimSpace(image)
	if strings.HasPrefix(image, "data:") {
		idx := strings.Index(image, ",")
		if idx < 0 {
			return "", ErrInvalidImage
		}
		image = image[idx+1:]
	}
	if image == "" {
		return "", ErrInvalidImage
	}
	if _, err := base64.StdEncoding.DecodeString(image); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return image, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
