package model

import (
	"errors"
	"fmt"
	"net/http"

	"creator-planner-backend/internal/shared/errkind"
)

// IdeaError định nghĩa base error cho idea domain
type IdeaError struct {
	Code    string       // Error code duy nhất (VD: "IDEA_NOT_FOUND")
	Message string       // Human-readable message
	Kind    errkind.Kind // Phân loại để map HTTP status
	Err     error        // Underlying error
}

func (e *IdeaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *IdeaError) Unwrap() error {
	return e.Err
}

// Is so sánh theo Code để errors.Is(err, ErrIdeaNotFound) hoạt động với error đã wrap
func (e *IdeaError) Is(target error) bool {
	var t *IdeaError
	return errors.As(target, &t) && t.Code == e.Code
}

// ============================================
// DOMAIN-SPECIFIC ERROR DEFINITIONS
// ============================================

var ErrIdeaNotFound = &IdeaError{
	Code:    "IDEA_NOT_FOUND",
	Message: "Idea not found",
	Kind:    errkind.NotFound,
}

// ============================================
// ERROR FACTORY FUNCTIONS
// ============================================

func NewIdeaNotFound(id string) *IdeaError {
	return &IdeaError{
		Code:    "IDEA_NOT_FOUND",
		Message: fmt.Sprintf("Idea %s not found", id),
		Kind:    errkind.NotFound,
	}
}

func NewInvalidIdeaID(id string) *IdeaError {
	return &IdeaError{
		Code:    "INVALID_IDEA_ID",
		Message: fmt.Sprintf("Invalid idea ID: %q", id),
		Kind:    errkind.InvalidInput,
	}
}

func NewInvalidIdea(reason string) *IdeaError {
	return &IdeaError{
		Code:    "INVALID_IDEA",
		Message: reason,
		Kind:    errkind.InvalidInput,
	}
}

// NewIdeaTooLarge: record vẫn vượt giới hạn sau khi đã bỏ assets
func NewIdeaTooLarge(err error) *IdeaError {
	return &IdeaError{
		Code:    "IDEA_TOO_LARGE",
		Message: "Idea is too large to store even without assets",
		Kind:    errkind.StoreCapacity,
		Err:     err,
	}
}

func NewSaveIdeaError(err error) *IdeaError {
	return &IdeaError{
		Code:    "SAVE_IDEA_ERROR",
		Message: "Failed to save idea",
		Kind:    errkind.Unrecoverable,
		Err:     err,
	}
}

func NewLoadIdeaError(err error) *IdeaError {
	return &IdeaError{
		Code:    "LOAD_IDEA_ERROR",
		Message: "Failed to load idea",
		Kind:    errkind.Unrecoverable,
		Err:     err,
	}
}

func NewDeleteIdeaError(err error) *IdeaError {
	return &IdeaError{
		Code:    "DELETE_IDEA_ERROR",
		Message: "Failed to delete idea",
		Kind:    errkind.Unrecoverable,
		Err:     err,
	}
}

// ============================================
// ERROR CHECKING FUNCTIONS
// ============================================

func IsIdeaNotFound(err error) bool {
	var ideaErr *IdeaError
	return errors.As(err, &ideaErr) && ideaErr.Code == "IDEA_NOT_FOUND"
}

func GetErrorCode(err error) string {
	var ideaErr *IdeaError
	if errors.As(err, &ideaErr) {
		return ideaErr.Code
	}
	return "INTERNAL_ERROR"
}

// MapErrorToHTTP chuyển IdeaError sang (status, message, code); lỗi lạ không lộ chi tiết
func MapErrorToHTTP(err error) (int, string, string) {
	if err == nil {
		return http.StatusOK, "Success", ""
	}

	var ideaErr *IdeaError
	if errors.As(err, &ideaErr) {
		return ideaErr.Kind.HTTPStatus(), ideaErr.Message, ideaErr.Code
	}
	return http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR"
}
