package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Collections trong primary store
const (
	CollectionIdeas      = "ideas"
	CollectionThumbnails = "thumbnails"
)

// Asset keys có ý nghĩa với split storage
const (
	AssetThumbnail    = "thumbnail"
	AssetHasThumbnail = "has_thumbnail"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// DefaultStatus cho idea mới; status là open vocabulary (Idea, Scripting, ..., Published)
const DefaultStatus = "Idea"

// Assets maps asset name to value. "thumbnail" holds the large image payload
// and never reaches the primary store; "has_thumbnail" marks that it exists.
type Assets map[string]interface{}

// Thumbnail trả về payload nếu có và không rỗng
func (a Assets) Thumbnail() (string, bool) {
	if a == nil {
		return "", false
	}
	s, ok := a[AssetThumbnail].(string)
	return s, ok && s != ""
}

func (a Assets) HasThumbnail() bool {
	if a == nil {
		return false
	}
	marked, _ := a[AssetHasThumbnail].(bool)
	return marked
}

// Clone is a shallow copy; asset values are treated as immutable.
func (a Assets) Clone() Assets {
	if a == nil {
		return nil
	}
	out := make(Assets, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// ExtractThumbnail removes the raw payload and sets the marker.
// The thumbnail key is removed even when empty so the primary record never holds it.
func (a Assets) ExtractThumbnail() (payload string, ok bool) {
	if a == nil {
		return "", false
	}
	payload, ok = a.Thumbnail()
	delete(a, AssetThumbnail)
	if ok {
		a[AssetHasThumbnail] = true
	}
	return payload, ok
}

type Idea struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Tags         []string  `json:"tags"`
	Priority     Priority  `json:"priority"`
	Status       string    `json:"status"`
	Topic        string    `json:"topic,omitempty"`
	Audience     string    `json:"audience,omitempty"`
	KeyPoints    string    `json:"key_points,omitempty"`
	ScheduleDate string    `json:"schedule_date,omitempty"` // YYYY-MM-DD
	Assets       Assets    `json:"assets,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Clone copies the idea so callers' values are never mutated by the repository.
func (i *Idea) Clone() *Idea {
	out := *i
	out.Tags = append([]string(nil), i.Tags...)
	out.Assets = i.Assets.Clone()
	return &out
}

// IdeaPatch is a partial update. Nil fields are left unchanged;
// nil Assets leaves the stored assets and thumbnail association untouched.
type IdeaPatch struct {
	Title        *string
	Description  *string
	Tags         *[]string
	Priority     *Priority
	Status       *string
	Topic        *string
	Audience     *string
	KeyPoints    *string
	ScheduleDate *string
	Assets       Assets
}

// Fields trả về các top-level field (trừ assets) cần merge vào primary record
func (p *IdeaPatch) Fields() map[string]interface{} {
	out := map[string]interface{}{}
	set := func(key string, v *string) {
		if v != nil {
			out[key] = *v
		}
	}
	set("title", p.Title)
	set("description", p.Description)
	set("status", p.Status)
	set("topic", p.Topic)
	set("audience", p.Audience)
	set("key_points", p.KeyPoints)
	set("schedule_date", p.ScheduleDate)
	if p.Priority != nil {
		out["priority"] = string(*p.Priority)
	}
	if p.Tags != nil {
		out["tags"] = append([]string{}, (*p.Tags)...)
	}
	return out
}

type SaveStatus string

const (
	SaveComplete      SaveStatus = "complete"
	SaveWithoutAssets SaveStatus = "saved_without_assets"
)

const (
	WarningSavedNoAssets   = "Idea saved without assets: the record exceeded the storage size limit"
	WarningThumbnailCached = "Thumbnail storage unavailable: thumbnail kept in memory only"
)

// SaveResult distinguishes a full save from a partial one.
type SaveResult struct {
	Idea     *Idea
	Status   SaveStatus
	Warnings []string
}

// ideaRecord là shape lưu trong primary store (không có id/timestamps, store quản lý)
type ideaRecord struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Tags         []string `json:"tags"`
	Priority     Priority `json:"priority"`
	Status       string   `json:"status"`
	Topic        string   `json:"topic,omitempty"`
	Audience     string   `json:"audience,omitempty"`
	KeyPoints    string   `json:"key_points,omitempty"`
	ScheduleDate string   `json:"schedule_date,omitempty"`
	Assets       Assets   `json:"assets,omitempty"`
}

// ToDocument converts an idea into primary-store fields.
func ToDocument(idea *Idea) (map[string]interface{}, error) {
	rec := ideaRecord{
		Title:        idea.Title,
		Description:  idea.Description,
		Tags:         idea.Tags,
		Priority:     idea.Priority,
		Status:       idea.Status,
		Topic:        idea.Topic,
		Audience:     idea.Audience,
		KeyPoints:    idea.KeyPoints,
		ScheduleDate: idea.ScheduleDate,
		Assets:       idea.Assets,
	}
	if rec.Tags == nil {
		rec.Tags = []string{}
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode idea: %w", err)
	}
	data := map[string]interface{}{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("encode idea: %w", err)
	}
	return data, nil
}

// FromDocument rebuilds an idea from primary-store fields.
func FromDocument(id string, data map[string]interface{}, createdAt, updatedAt time.Time) (*Idea, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("decode idea %s: %w", id, err)
	}
	var rec ideaRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode idea %s: %w", id, err)
	}
	if rec.Tags == nil {
		rec.Tags = []string{}
	}
	return &Idea{
		ID:           id,
		Title:        rec.Title,
		Description:  rec.Description,
		Tags:         rec.Tags,
		Priority:     rec.Priority,
		Status:       rec.Status,
		Topic:        rec.Topic,
		Audience:     rec.Audience,
		KeyPoints:    rec.KeyPoints,
		ScheduleDate: rec.ScheduleDate,
		Assets:       rec.Assets,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}, nil
}
