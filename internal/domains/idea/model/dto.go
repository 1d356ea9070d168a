package model

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ========================================
// REQUEST DTOs
// ========================================

// CreateIdeaRequest - POST /api/videos
type CreateIdeaRequest struct {
	Title        string                 `json:"title"`
	Description  string                 `json:"description"`
	Tags         []string               `json:"tags"`
	Priority     string                 `json:"priority"`      // default medium
	Status       string                 `json:"status"`        // default "Idea"
	Topic        string                 `json:"topic"`
	Audience     string                 `json:"audience"`
	KeyPoints    string                 `json:"key_points"`
	ScheduleDate string                 `json:"schedule_date"` // YYYY-MM-DD
	Assets       map[string]interface{} `json:"assets"`
}

func (r CreateIdeaRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.Length(1, 300),
		),
		validation.Field(&r.Description, validation.Length(0, 10000)),
		validation.Field(&r.Tags, validation.Each(validation.Required, validation.Length(1, 100))),
		validation.Field(&r.Priority, priorityRule),
		validation.Field(&r.Status, validation.Length(0, 50)),
		validation.Field(&r.ScheduleDate, validation.Date("2006-01-02").Error("schedule_date must be YYYY-MM-DD")),
		validation.Field(&r.Assets, validation.By(validateAssets)),
	)
}

// ToIdea áp dụng default cho các field trống
func (r CreateIdeaRequest) ToIdea() *Idea {
	idea := &Idea{
		Title:        r.Title,
		Description:  r.Description,
		Tags:         r.Tags,
		Priority:     Priority(r.Priority),
		Status:       r.Status,
		Topic:        r.Topic,
		Audience:     r.Audience,
		KeyPoints:    r.KeyPoints,
		ScheduleDate: r.ScheduleDate,
		Assets:       Assets(r.Assets),
	}
	if idea.Tags == nil {
		idea.Tags = []string{}
	}
	if idea.Priority == "" {
		idea.Priority = PriorityMedium
	}
	if idea.Status == "" {
		idea.Status = DefaultStatus
	}
	return idea
}

// UpdateIdeaRequest - PUT /api/videos/:id, nil = không đổi
type UpdateIdeaRequest struct {
	Title        *string                `json:"title"`
	Description  *string                `json:"description"`
	Tags         *[]string              `json:"tags"`
	Priority     *string                `json:"priority"`
	Status       *string                `json:"status"`
	Topic        *string                `json:"topic"`
	Audience     *string                `json:"audience"`
	KeyPoints    *string                `json:"key_points"`
	ScheduleDate *string                `json:"schedule_date"`
	Assets       map[string]interface{} `json:"assets"`
}

func (r UpdateIdeaRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.NilOrNotEmpty.Error("title cannot be empty"),
			validation.Length(1, 300),
		),
		validation.Field(&r.Description, validation.Length(0, 10000)),
		validation.Field(&r.Tags, validation.By(func(value interface{}) error {
			tags, _ := value.(*[]string)
			if tags == nil {
				return nil
			}
			return validation.Validate(*tags, validation.Each(validation.Required, validation.Length(1, 100)))
		})),
		validation.Field(&r.Priority, priorityRule),
		validation.Field(&r.Status, validation.Length(0, 50)),
		validation.Field(&r.ScheduleDate, validation.Date("2006-01-02").Error("schedule_date must be YYYY-MM-DD")),
		validation.Field(&r.Assets, validation.By(validateAssets)),
	)
}

func (r UpdateIdeaRequest) ToPatch() *IdeaPatch {
	patch := &IdeaPatch{
		Title:        r.Title,
		Description:  r.Description,
		Tags:         r.Tags,
		Status:       r.Status,
		Topic:        r.Topic,
		Audience:     r.Audience,
		KeyPoints:    r.KeyPoints,
		ScheduleDate: r.ScheduleDate,
		Assets:       Assets(r.Assets),
	}
	if r.Priority != nil {
		p := Priority(*r.Priority)
		patch.Priority = &p
	}
	return patch
}

var priorityRule = validation.In(string(PriorityHigh), string(PriorityMedium), string(PriorityLow)).
	Error("priority must be one of high, medium, low")

func validateAssets(value interface{}) error {
	assets, _ := value.(map[string]interface{})
	if assets == nil {
		return nil
	}
	if thumb, ok := assets[AssetThumbnail]; ok && thumb != nil {
		if _, isString := thumb.(string); !isString {
			return errors.New("assets.thumbnail must be a base64 string or data URL")
		}
	}
	if marker, ok := assets[AssetHasThumbnail]; ok && marker != nil {
		if _, isBool := marker.(bool); !isBool {
			return errors.New("assets.has_thumbnail must be a boolean")
		}
	}
	return nil
}

// ========================================
// RESPONSE DTOs
// ========================================

// IdeaResponse embeds the idea and adds partial-success information.
type IdeaResponse struct {
	*Idea
	SaveStatus SaveStatus `json:"save_status,omitempty"`
	Warning    string     `json:"warning,omitempty"`
}

func NewIdeaResponse(result *SaveResult) IdeaResponse {
	resp := IdeaResponse{Idea: result.Idea, SaveStatus: result.Status}
	if len(result.Warnings) > 0 {
		resp.Warning = result.Warnings[0]
		for _, w := range result.Warnings[1:] {
			resp.Warning += "; " + w
		}
	}
	return resp
}
