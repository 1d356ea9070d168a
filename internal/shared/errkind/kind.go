// Package errkind is the failure taxonomy shared by the domain error types.
package errkind

import "net/http"

// Kind classifies a failure so callers handle each category explicitly.
type Kind string

const (
	// TransientProvider: timeout, rate limit or 5xx from an outbound provider.
	TransientProvider Kind = "transient_provider"
	// StoreCapacity: the primary store rejected an oversized document.
	StoreCapacity Kind = "store_capacity"
	NotFound      Kind = "not_found"
	// ConfigAbsent: a credential needed for the call is not configured.
	ConfigAbsent  Kind = "config_absent"
	Unrecoverable Kind = "unrecoverable"
	InvalidInput  Kind = "invalid_input"
)

// HTTPStatus maps a kind to the status code returned at the HTTP boundary.
func (k Kind) HTTPStatus() int {
	switch k {
	case NotFound:
		return http.StatusNotFound
	case InvalidInput, ConfigAbsent, StoreCapacity:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
