package model

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	StreakIncrement = "increment"
	StreakReset     = "reset"
)

var (
	hexColor  = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}){1,2}$`)
	weekdays  = []interface{}{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
	cadences  = []interface{}{"daily", "weekly", "custom"}
	templates = []interface{}{"text_over_image", "text_behind_subject"}
)

// UpdateSettingsRequest - PUT /api/settings
// Merge từng field top-level; streak và reference_faces có route riêng nên không nhận ở đây
type UpdateSettingsRequest struct {
	ChannelName        *string   `json:"channel_name"`
	ChannelDescription *string   `json:"channel_description"`
	DefaultFont        *string   `json:"default_font"`
	DefaultTemplate    *string   `json:"default_template"`
	DefaultColors      *Colors   `json:"default_colors"`
	Schedule           *Schedule `json:"schedule"`
}

func (r UpdateSettingsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ChannelName, validation.Length(0, 100)),
		validation.Field(&r.ChannelDescription, validation.Length(0, 5000)),
		validation.Field(&r.DefaultFont, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&r.DefaultTemplate, validation.NilOrNotEmpty, validation.In(templates...)),
		validation.Field(&r.DefaultColors),
		validation.Field(&r.Schedule),
	)
}

func (c Colors) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Primary, validation.Required, validation.Match(hexColor).Error("must be a hex color")),
		validation.Field(&c.Secondary, validation.Required, validation.Match(hexColor).Error("must be a hex color")),
	)
}

func (s Schedule) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Cadence, validation.Required, validation.In(cadences...)),
		validation.Field(&s.CustomDays, validation.Each(validation.In(weekdays...))),
		validation.Field(&s.DeadlineTime, validation.Required, validation.Date("15:04").Error("must be HH:MM")),
	)
}

// Apply merge request vào settings hiện tại
func (r UpdateSettingsRequest) Apply(s *Settings) {
	if r.ChannelName != nil {
		s.ChannelName = *r.ChannelName
	}
	if r.ChannelDescription != nil {
		s.ChannelDescription = *r.ChannelDescription
	}
	if r.DefaultFont != nil {
		s.DefaultFont = *r.DefaultFont
	}
	if r.DefaultTemplate != nil {
		s.DefaultTemplate = *r.DefaultTemplate
	}
	if r.DefaultColors != nil {
		s.DefaultColors = *r.DefaultColors
	}
	if r.Schedule != nil {
		s.Schedule = *r.Schedule
		if s.Schedule.CustomDays == nil {
			s.Schedule.CustomDays = []string{}
		}
	}
}

// StreakRequest - POST /api/streak
type StreakRequest struct {
	Action string `json:"action"`
}

func (r StreakRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Action,
			validation.Required.Error("action is required"),
			validation.In(StreakIncrement, StreakReset).Error("action must be increment or reset"),
		),
	)
}

// DeleteFaceRequest - DELETE /api/reference-faces
type DeleteFaceRequest struct {
	Filename string `json:"filename"`
}

func (r DeleteFaceRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Filename, validation.Required.Error("filename is required")),
	)
}

// UploadFaceResponse mirrors the 201 body of a face upload.
type UploadFaceResponse struct {
	Message  string        `json:"message"`
	Filename string        `json:"filename"`
	Face     ReferenceFace `json:"face"`
}
