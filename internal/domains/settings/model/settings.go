package model

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	CollectionSettings = "settings"
	ChannelDocumentID  = "channel"
)

type Colors struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

// Schedule là lịch đăng video của kênh
type Schedule struct {
	Cadence      string   `json:"cadence"` // daily | weekly | custom
	CustomDays   []string `json:"custom_days"`
	DeadlineTime string   `json:"deadline_time"` // HH:MM
	Reminder60   bool     `json:"reminder_60"`
	Reminder10   bool     `json:"reminder_10"`
}

type Streak struct {
	Current     int        `json:"current"`
	Best        int        `json:"best"`
	LastPublish *time.Time `json:"last_publish"`
}

type ReferenceFace struct {
	Name     string `json:"name"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// Settings is the singleton channel profile document.
type Settings struct {
	ChannelName        string          `json:"channel_name"`
	ChannelDescription string          `json:"channel_description"`
	DefaultFont        string          `json:"default_font"`
	DefaultTemplate    string          `json:"default_template"`
	DefaultColors      Colors          `json:"default_colors"`
	Schedule           Schedule        `json:"schedule"`
	Streak             Streak          `json:"streak"`
	ReferenceFaces     []ReferenceFace `json:"reference_faces"`
}

func DefaultSettings() *Settings {
	return &Settings{
		DefaultFont:     "Mohave",
		DefaultTemplate: "text_over_image",
		DefaultColors: Colors{
			Primary:   "#DC2626",
			Secondary: "#000000",
		},
		Schedule: Schedule{
			Cadence:      "daily",
			CustomDays:   []string{},
			DeadlineTime: "18:00",
			Reminder60:   true,
			Reminder10:   true,
		},
		ReferenceFaces: []ReferenceFace{},
	}
}

// Increment tăng streak hiện tại, nâng best nếu vượt, đóng dấu thời điểm publish
func (s *Streak) Increment(now time.Time) {
	s.Current++
	if s.Current > s.Best {
		s.Best = s.Current
	}
	at := now.UTC()
	s.LastPublish = &at
}

func (s *Streak) Reset() {
	s.Current = 0
}

// FaceURL is the public path a stored face file is served from.
func FaceURL(filename string) string {
	return "/uploads/" + filename
}

// ToDocument chuyển settings sang map để lưu vào document store
func ToDocument(s *Settings) (map[string]interface{}, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	data := map[string]interface{}{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	return data, nil
}

// FromDocument đọc document lên trên nền default, field thiếu giữ giá trị default
func FromDocument(data map[string]interface{}) (*Settings, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	s := DefaultSettings()
	if err := json.Unmarshal(raw, s); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	if s.ReferenceFaces == nil {
		s.ReferenceFaces = []ReferenceFace{}
	}
	if s.Schedule.CustomDays == nil {
		s.Schedule.CustomDays = []string{}
	}
	return s, nil
}
