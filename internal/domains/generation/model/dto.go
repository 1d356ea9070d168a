package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Thumbnail templates
const (
	TemplateTextOverImage     = "text_over_image"
	TemplateTextBehindSubject = "text_behind_subject"
)

// ========================================
// REQUEST DTOs
// ========================================

// TitlesRequest - POST /api/ai/generate-titles
type TitlesRequest struct {
	Topic     string   `json:"topic"`
	Audience  string   `json:"audience"`
	KeyPoints []string `json:"key_points"`
}

func (r TitlesRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Topic, validation.Length(0, 500)),
		validation.Field(&r.Audience, validation.Length(0, 200)),
		validation.Field(&r.KeyPoints, validation.Length(0, 20), validation.Each(validation.Length(0, 500))),
	)
}

// DescriptionRequest - POST /api/ai/generate-description
type DescriptionRequest struct {
	Title     string   `json:"title"`
	Topic     string   `json:"topic"`
	KeyPoints []string `json:"key_points"`
}

func (r DescriptionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Length(0, 300)),
		validation.Field(&r.Topic, validation.Length(0, 500)),
		validation.Field(&r.KeyPoints, validation.Length(0, 20), validation.Each(validation.Length(0, 500))),
	)
}

// ThumbnailTextRequest - POST /api/ai/generate-thumbnail-text
type ThumbnailTextRequest struct {
	Title string `json:"title"`
}

func (r ThumbnailTextRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Length(0, 300)),
	)
}

// ThumbnailRequest - POST /api/ai/generate-thumbnail
type ThumbnailRequest struct {
	Prompt       string   `json:"prompt"`
	Template     string   `json:"template"` // default text_over_image
	IncludeFaces []string `json:"include_faces"`
}

func (r ThumbnailRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Prompt,
			validation.Required.Error("prompt is required"),
			validation.Length(1, 2000),
		),
		validation.Field(&r.Template, validation.In(TemplateTextOverImage, TemplateTextBehindSubject).
			Error("template must be text_over_image or text_behind_subject")),
		validation.Field(&r.IncludeFaces, validation.Each(validation.Required)),
	)
}

// ========================================
// RESPONSE DTOs
// ========================================

type TitlesResponse struct {
	Titles  []string `json:"titles"`
	Warning string   `json:"warning,omitempty"`
}

type DescriptionResponse struct {
	Description string `json:"description"`
	Warning     string `json:"warning,omitempty"`
}

type ThumbnailTextResponse struct {
	Suggestions []string `json:"suggestions"`
	Warning     string   `json:"warning,omitempty"`
}

// ThumbnailResponse carries a hosted URL or inline base64, plus the model that produced it.
type ThumbnailResponse struct {
	ImageURL      string `json:"image_url,omitempty"`
	ImageB64      string `json:"image_b64,omitempty"`
	Model         string `json:"model"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
	Prompt        string `json:"prompt"`
}
