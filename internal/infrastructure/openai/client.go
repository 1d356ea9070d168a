// Package openai adapts the OpenAI SDK to the two calls the planner makes:
// one text completion and one image generation, each with its own timeout.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"creator-planner-backend/internal/config"
	"creator-planner-backend/pkg/retry"

	sdk "github.com/sashabaranov/go-openai"
)

var ErrEmptyResponse = errors.New("provider returned no content")

// CompletionRequest is one system+user prompt exchange.
type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
	Model        string
	MaxTokens    int
	Temperature  float32
	JSONResponse bool
}

type ImageRequest struct {
	Prompt  string
	Model   string
	Size    string
	Quality string
	Style   string
}

// ImageResult holds either a hosted URL or inline base64 data.
type ImageResult struct {
	Model         string `json:"model"`
	URL           string `json:"image_url,omitempty"`
	B64JSON       string `json:"image_b64,omitempty"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
}

type Client struct {
	api          *sdk.Client
	textModel    string
	textTimeout  time.Duration
	imageTimeout time.Duration
}

func NewClient(cfg config.OpenAIConfig) *Client {
	sdkCfg := sdk.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		sdkCfg.BaseURL = cfg.BaseURL
	}
	return &Client{
		api:          sdk.NewClientWithConfig(sdkCfg),
		textModel:    cfg.TextModel,
		textTimeout:  cfg.TextTimeout,
		imageTimeout: cfg.ImageTimeout,
	}
}

// Complete runs one chat completion and returns the trimmed text of the first choice.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	ctx, cancel := withTimeout(ctx, c.textTimeout)
	defer cancel()

	model := req.Model
	if model == "" {
		model = c.textModel
	}

	chatReq := sdk.ChatCompletionRequest{
		Model: model,
		Messages: []sdk.ChatCompletionMessage{
			{Role: sdk.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: sdk.ChatMessageRoleUser, Content: req.UserPrompt},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	if req.JSONResponse {
		chatReq.ResponseFormat = &sdk.ChatCompletionResponseFormat{Type: sdk.ChatCompletionResponseFormatTypeJSONObject}
	}

	resp, err := c.api.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", fmt.Errorf("chat completion (%s): %w", model, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion (%s): %w", model, ErrEmptyResponse)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("chat completion (%s): %w", model, ErrEmptyResponse)
	}
	return text, nil
}

// GenerateImage requests a single image.
func (c *Client) GenerateImage(ctx context.Context, req ImageRequest) (*ImageResult, error) {
	ctx, cancel := withTimeout(ctx, c.imageTimeout)
	defer cancel()

	imgReq := sdk.ImageRequest{
		Prompt:         req.Prompt,
		Model:          req.Model,
		N:              1,
		Size:           req.Size,
		Quality:        req.Quality,
		Style:          req.Style,
		ResponseFormat: sdk.CreateImageResponseFormatURL,
	}

	resp, err := c.api.CreateImage(ctx, imgReq)
	if err != nil {
		return nil, fmt.Errorf("image generation (%s): %w", req.Model, err)
	}
	if len(resp.Data) == 0 || (resp.Data[0].URL == "" && resp.Data[0].B64JSON == "") {
		return nil, fmt.Errorf("image generation (%s): %w", req.Model, ErrEmptyResponse)
	}

	return &ImageResult{
		Model:         req.Model,
		URL:           resp.Data[0].URL,
		B64JSON:       resp.Data[0].B64JSON,
		RevisedPrompt: resp.Data[0].RevisedPrompt,
	}, nil
}

// IsRetryable phân loại lỗi: timeout, rate limit, 5xx, lỗi mạng → retry; 4xx khác và cancel → không
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var apiErr *sdk.APIError
	if errors.As(err, &apiErr) {
		return retry.RetryableStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *sdk.RequestError
	if errors.As(err, &reqErr) {
		return retry.RetryableStatus(reqErr.HTTPStatusCode)
	}
	return true
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
