package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable trả về khi backend cache chưa connect hoặc đã đóng
var ErrUnavailable = errors.New("cache unavailable")

// Cache interface định nghĩa contract cho shared cache layer
// Cho phép swap implementation (Redis, in-memory, noop)
type Cache interface {
	// Get lấy data từ cache và unmarshal vào dest
	// Returns: (found bool, error)
	// - found = true: cache hit, data đã unmarshal vào dest
	// - found = false: cache miss, dest không bị thay đổi
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set lưu data vào cache với TTL
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete xóa các keys khỏi cache
	Delete(ctx context.Context, keys ...string) error

	// Ping kiểm tra connection
	Ping(ctx context.Context) error
}

// Noop là Cache luôn miss, dùng khi Redis không cấu hình
type Noop struct{}

func (Noop) Get(context.Context, string, interface{}) (bool, error) { return false, nil }

func (Noop) Set(context.Context, string, interface{}, time.Duration) error { return nil }

func (Noop) Delete(context.Context, ...string) error { return nil }

func (Noop) Ping(context.Context) error { return ErrUnavailable }
