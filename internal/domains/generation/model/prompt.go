package model

import (
	"fmt"
	"strings"
)

// Completion parameters per operation
type CompletionSpec struct {
	System      string
	MaxTokens   int
	Temperature float32
}

var (
	TitlesSpec = CompletionSpec{
		System:      "You are a YouTube title expert. Generate only titles, one per line.",
		MaxTokens:   150,
		Temperature: 0.8,
	}
	DescriptionSpec = CompletionSpec{
		System:      "You are a YouTube description writer. Create engaging, SEO-friendly descriptions.",
		MaxTokens:   300,
		Temperature: 0.7,
	}
	ThumbnailTextSpec = CompletionSpec{
		System:      "Generate short, punchy YouTube thumbnail text. Maximum 2-4 words each. One per line.",
		MaxTokens:   100,
		Temperature: 0.9,
	}
)

func TitlesPrompt(r TitlesRequest) string {
	return fmt.Sprintf("Generate 4 YouTube video titles for a video about %s targeted at %s. Key points: %s. Make them catchy and clickable.",
		r.Topic, r.Audience, strings.Join(r.KeyPoints, ", "))
}

func DescriptionPrompt(r DescriptionRequest) string {
	return fmt.Sprintf("Write a YouTube video description for a video titled '%s' about %s. Include these key points: %s. Make it engaging and SEO-friendly.",
		r.Title, r.Topic, strings.Join(r.KeyPoints, ", "))
}

func ThumbnailTextPrompt(r ThumbnailTextRequest) string {
	return fmt.Sprintf("Generate 4 short, punchy thumbnail text options for a YouTube video titled '%s'. Each should be 2-4 words maximum.", r.Title)
}

// ThumbnailPrompt ghép prompt ảnh: mô tả, tên người trong ảnh, template, style
func ThumbnailPrompt(prompt, template string, faceNames []string) string {
	var b strings.Builder
	b.WriteString("YouTube thumbnail: ")
	b.WriteString(prompt)
	if len(faceNames) > 0 {
		b.WriteString(". Include these people: ")
		b.WriteString(strings.Join(faceNames, ", "))
	}
	switch template {
	case TemplateTextBehindSubject:
		b.WriteString(". Place text behind the main subject")
	case TemplateTextOverImage:
		b.WriteString(". Overlay text on the image")
	}
	b.WriteString(". Style: professional, eye-catching, high contrast.")
	return b.String()
}

// ImageModelSpec holds the request parameters for one model of the fallback chain.
type ImageModelSpec struct {
	Model   string
	Size    string
	Quality string
	Style   string
}

// ImageModelSpecFor: dall-e-3 chạy 16:9, model cũ chỉ hỗ trợ ảnh vuông
func ImageModelSpecFor(model string) ImageModelSpec {
	switch model {
	case "dall-e-3":
		return ImageModelSpec{Model: model, Size: "1792x1024", Quality: "standard", Style: "vivid"}
	default:
		return ImageModelSpec{Model: model, Size: "1024x1024"}
	}
}
