package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
)

// LocalStorage giữ file trong memory, ghi thêm ra disk nếu được.
// Host read-only vẫn chạy được: lỗi ghi disk chỉ log warning.
type LocalStorage struct {
	mu    sync.RWMutex
	dir   string
	files map[string][]byte
}

var _ FileStore = (*LocalStorage)(nil)

func NewLocalStorage(dir string) *LocalStorage {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Warn().Err(err).Str("dir", dir).Msg("[STORAGE] Upload dir not writable, using memory only")
	}
	return &LocalStorage{dir: dir, files: make(map[string][]byte)}
}

func (s *LocalStorage) path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

func (s *LocalStorage) Put(ctx context.Context, name string, data []byte, contentType string) error {
	s.mu.Lock()
	s.files[name] = append([]byte(nil), data...)
	s.mu.Unlock()

	if err := os.WriteFile(s.path(name), data, 0o644); err != nil {
		log.Warn().Err(err).Str("file", name).Msg("[STORAGE] Disk write failed, kept in memory")
	}
	return nil
}

func (s *LocalStorage) Get(ctx context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	data, ok := s.files[name]
	s.mu.RUnlock()
	if ok {
		return append([]byte(nil), data...), nil
	}

	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", name, ErrObjectNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

func (s *LocalStorage) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	_, inMemory := s.files[name]
	delete(s.files, name)
	s.mu.Unlock()

	err := os.Remove(s.path(name))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist):
		if inMemory {
			return nil
		}
		return fmt.Errorf("%s: %w", name, ErrObjectNotFound)
	default:
		log.Warn().Err(err).Str("file", name).Msg("[STORAGE] Disk delete failed")
		return nil
	}
}
