package model

import (
	"errors"
	"fmt"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"creator-planner-backend/internal/shared/errkind"
)

// Font list sources
const (
	SourceGoogleFonts = "google_fonts"
	SourceCache       = "cache"
	SourceStatic      = "static"
)

const (
	WarningFontsStatic       = "Font service unavailable, showing the built-in font list"
	WarningRemoveBGNotConfig = "Background removal not configured, image returned unchanged"
	WarningRemoveBGFailed    = "Background removal unavailable, image returned unchanged"
)

type Font struct {
	Family   string `json:"family"`
	Category string `json:"category"`
}

// StaticFonts là danh sách dùng khi không gọi được Google Fonts
var StaticFonts = []Font{
	{Family: "Mohave", Category: "sans-serif"},
	{Family: "Bebas Neue", Category: "display"},
	{Family: "Anton", Category: "sans-serif"},
	{Family: "Oswald", Category: "sans-serif"},
	{Family: "Montserrat", Category: "sans-serif"},
	{Family: "Roboto", Category: "sans-serif"},
	{Family: "Poppins", Category: "sans-serif"},
	{Family: "Bangers", Category: "display"},
	{Family: "Archivo Black", Category: "sans-serif"},
	{Family: "Lilita One", Category: "display"},
}

type FontsResponse struct {
	Fonts   []Font `json:"fonts"`
	Source  string `json:"source"`
	Warning string `json:"warning,omitempty"`
}

// RemoveBackgroundRequest - POST /api/remove-background
type RemoveBackgroundRequest struct {
	Image string `json:"image"` // base64 hoặc data URL
}

func (r RemoveBackgroundRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Image, validation.Required.Error("image is required")),
	)
}

type RemoveBackgroundResponse struct {
	Image   string `json:"image"`
	Warning string `json:"warning,omitempty"`
}

// ============================================
// ERRORS
// ============================================

type AssetError struct {
	Code    string
	Message string
	Kind    errkind.Kind
	Err     error
}

func (e *AssetError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AssetError) Unwrap() error {
	return e.Err
}

func NewInvalidImage(err error) *AssetError {
	return &AssetError{
		Code:    "INVALID_IMAGE",
		Message: "Image must be base64 data or a data URL",
		Kind:    errkind.InvalidInput,
		Err:     err,
	}
}

func NewInvalidAssetRequest(reason string) *AssetError {
	return &AssetError{
		Code:    "INVALID_ASSET_REQUEST",
		Message: reason,
		Kind:    errkind.InvalidInput,
	}
}

func GetErrorCode(err error) string {
	var assetErr *AssetError
	if errors.As(err, &assetErr) {
		return assetErr.Code
	}
	return "INTERNAL_ERROR"
}

func MapErrorToHTTP(err error) (int, string, string) {
	if err == nil {
		return http.StatusOK, "Success", ""
	}

	var assetErr *AssetError
	if errors.As(err, &assetErr) {
		return assetErr.Kind.HTTPStatus(), assetErr.Message, assetErr.Code
	}
	return http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR"
}
