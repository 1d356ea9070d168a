package model

import (
	"fmt"
	"regexp"
	"strings"
)

// Warnings trả kèm placeholder (HTTP 200)
const (
	WarningNotConfigured = "AI provider not configured, showing template suggestions"
	WarningUnavailable   = "AI provider unavailable, showing template suggestions"
)

// SuggestionCount là số title/thumbnail text trả về
const SuggestionCount = 4

const thumbnailTextMaxRunes = 20

// PlaceholderTitles builds the four template titles used when the provider is not reachable.
func PlaceholderTitles(topic, audience string, year int) []string {
	if audience == "" {
		audience = "Beginners"
	}
	return []string{
		fmt.Sprintf("How to %s - Complete Guide", topic),
		fmt.Sprintf("%s for %s", topic, audience),
		fmt.Sprintf("Top Tips for %s", topic),
		fmt.Sprintf("Master %s in %d", topic, year),
	}
}

func PlaceholderDescription(topic string, keyPoints []string) string {
	bullets := make([]string, len(keyPoints))
	for i, p := range keyPoints {
		bullets[i] = "• " + p
	}
	return fmt.Sprintf("In this video, we explore %s.\n\nTopics covered:\n", topic) +
		strings.Join(bullets, "\n") +
		"\n\nDon't forget to like and subscribe!"
}

func PlaceholderThumbnailText(title string) []string {
	short := title
	if runes := []rune(title); len(runes) > thumbnailTextMaxRunes {
		short = string(runes[:thumbnailTextMaxRunes]) + "..."
	}
	return []string{short, "MUST WATCH", "SHOCKING RESULTS", "YOU WON'T BELIEVE"}
}

var listMarker = regexp.MustCompile(`^(\d+[.)]|[-*•])\s+`)

// ParseSuggestions tách output của provider thành từng dòng: bỏ dòng trống,
// bỏ đánh số/bullet và dấu nháy bao ngoài, giữ tối đa limit dòng
func ParseSuggestions(text string, limit int) []string {
	out := make([]string, 0, limit)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = listMarker.ReplaceAllString(line, "")
		line = strings.Trim(line, `"“”`)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
		if len(out) == limit {
			break
		}
	}
	return out
}
