// Package docstore is a small key-value document store abstraction over
// collections of JSON documents, with an in-memory and a PostgreSQL backend.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when no document exists for (collection, id).
	ErrNotFound = errors.New("document not found")
	// ErrDocumentTooLarge is returned when the encoded document exceeds the store limit.
	// Callers treat it as recoverable.
	ErrDocumentTooLarge = errors.New("document exceeds maximum size")
)

// Direction of a List ordering.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Reserved order keys that refer to store-managed timestamps.
const (
	OrderByCreatedAt = "created_at"
	OrderByUpdatedAt = "updated_at"
)

// DefaultMaxDocumentBytes matches the 1 MiB per-document limit of hosted document databases.
const DefaultMaxDocumentBytes = 1 << 20

// Document is one stored record. Data holds JSON-normalised values
// (numbers are float64, arrays are []interface{}).
type Document struct {
	ID        string
	Data      map[string]interface{}
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store is the primary persistence contract.
type Store interface {
	// Add stores data under a new store-assigned id.
	Add(ctx context.Context, collection string, data map[string]interface{}) (string, error)
	// Set creates or replaces the document with the given id.
	Set(ctx context.Context, collection, id string, data map[string]interface{}) error
	// Update merges patch into the top-level fields of an existing document.
	// A nil value removes the field.
	Update(ctx context.Context, collection, id string, patch map[string]interface{}) error
	Get(ctx context.Context, collection, id string) (*Document, error)
	Delete(ctx context.Context, collection, id string) error
	List(ctx context.Context, collection, orderBy string, dir Direction) ([]*Document, error)
}

// encode marshals data and enforces the size limit.
func encode(data map[string]interface{}, maxBytes int) ([]byte, error) {
	if data == nil {
		data = map[string]interface{}{}
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	if maxBytes > 0 && len(payload) > maxBytes {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrDocumentTooLarge, len(payload), maxBytes)
	}
	return payload, nil
}

func decode(payload []byte) (map[string]interface{}, error) {
	data := map[string]interface{}{}
	if len(payload) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return data, nil
}

// merge applies a top-level patch; nil values delete the key.
func merge(dst, patch map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(dst)+len(patch))
	for k, v := range dst {
		out[k] = v
	}
	for k, v := range patch {
		if v == nil {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}

func validDirection(dir Direction) Direction {
	if dir == Ascending {
		return Ascending
	}
	return Descending
}
