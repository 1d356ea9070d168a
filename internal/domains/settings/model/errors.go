package model

import (
	"errors"
	"fmt"
	"net/http"

	"creator-planner-backend/internal/shared/errkind"
)

// SettingsError định nghĩa base error cho settings domain (settings, streak, reference faces)
type SettingsError struct {
	Code    string
	Message string
	Kind    errkind.Kind
	Err     error
}

func (e *SettingsError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *SettingsError) Unwrap() error {
	return e.Err
}

func (e *SettingsError) Is(target error) bool {
	var t *SettingsError
	return errors.As(target, &t) && t.Code == e.Code
}

// ============================================
// DOMAIN-SPECIFIC ERROR DEFINITIONS
// ============================================

var (
	ErrFileNotFound = &SettingsError{
		Code:    "FILE_NOT_FOUND",
		Message: "File not found",
		Kind:    errkind.NotFound,
	}

	ErrNoFile = &SettingsError{
		Code:    "NO_FILE",
		Message: "No file provided",
		Kind:    errkind.InvalidInput,
	}

	ErrInvalidFileType = &SettingsError{
		Code:    "INVALID_FILE_TYPE",
		Message: "Invalid file type",
		Kind:    errkind.InvalidInput,
	}
)

// ============================================
// ERROR FACTORY FUNCTIONS
// ============================================

func NewInvalidSettings(reason string) *SettingsError {
	return &SettingsError{
		Code:    "INVALID_SETTINGS",
		Message: reason,
		Kind:    errkind.InvalidInput,
	}
}

func NewInvalidImage(err error) *SettingsError {
	return &SettingsError{
		Code:    "INVALID_FILE_TYPE",
		Message: "File is not a supported image",
		Kind:    errkind.InvalidInput,
		Err:     err,
	}
}

func NewLoadSettingsError(err error) *SettingsError {
	return &SettingsError{
		Code:    "LOAD_SETTINGS_ERROR",
		Message: "Failed to load settings",
		Kind:    errkind.Unrecoverable,
		Err:     err,
	}
}

func NewSaveSettingsError(err error) *SettingsError {
	return &SettingsError{
		Code:    "SAVE_SETTINGS_ERROR",
		Message: "Failed to save settings",
		Kind:    errkind.Unrecoverable,
		Err:     err,
	}
}

func NewFileStorageError(err error) *SettingsError {
	return &SettingsError{
		Code:    "FILE_STORAGE_ERROR",
		Message: "Failed to store file",
		Kind:    errkind.Unrecoverable,
		Err:     err,
	}
}

// ============================================
// ERROR CHECKING FUNCTIONS
// ============================================

func GetErrorCode(err error) string {
	var settingsErr *SettingsError
	if errors.As(err, &settingsErr) {
		return settingsErr.Code
	}
	return "INTERNAL_ERROR"
}

func MapErrorToHTTP(err error) (int, string, string) {
	if err == nil {
		return http.StatusOK, "Success", ""
	}

	var settingsErr *SettingsError
	if errors.As(err, &settingsErr) {
		return settingsErr.Kind.HTTPStatus(), settingsErr.Message, settingsErr.Code
	}
	return http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR"
}
