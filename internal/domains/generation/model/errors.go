package model

import (
	"errors"
	"fmt"
	"net/http"

	"creator-planner-backend/internal/shared/errkind"
)

// GenerationError định nghĩa base error cho generation domain
type GenerationError struct {
	Code       string
	Message    string
	Suggestion string // gợi ý cho user, trả về trong error.details
	Kind       errkind.Kind
	Err        error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// ============================================
// ERROR FACTORY FUNCTIONS
// ============================================

func NewAINotConfigured() *GenerationError {
	return &GenerationError{
		Code:       "AI_NOT_CONFIGURED",
		Message:    "OpenAI API key not configured",
		Suggestion: "Please add your OpenAI API key in settings",
		Kind:       errkind.ConfigAbsent,
	}
}

// NewImageGenerationFailed: đã thử hết model trong chain
func NewImageGenerationFailed(err error) *GenerationError {
	return &GenerationError{
		Code:    "IMAGE_GENERATION_FAILED",
		Message: "Thumbnail generation failed with every available model, please try again later",
		Kind:    errkind.Unrecoverable,
		Err:     err,
	}
}

func NewInvalidGenerationRequest(reason string) *GenerationError {
	return &GenerationError{
		Code:    "INVALID_GENERATION_REQUEST",
		Message: reason,
		Kind:    errkind.InvalidInput,
	}
}

// ============================================
// ERROR CHECKING FUNCTIONS
// ============================================

func GetErrorCode(err error) string {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.Code
	}
	return "INTERNAL_ERROR"
}

// MapErrorToHTTP trả về (status, message, code, suggestion)
func MapErrorToHTTP(err error) (int, string, string, string) {
	if err == nil {
		return http.StatusOK, "Success", "", ""
	}

	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.Kind.HTTPStatus(), genErr.Message, genErr.Code, genErr.Suggestion
	}
	return http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR", ""
}
