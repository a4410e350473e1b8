package i18n

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-redis/redis/v8"
)

// StorageKey names the persisted language preference.
const StorageKey = "hoa-language"

// Store persists the active language code. Load returns "" when nothing has
// been saved yet.
type Store interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, code string) error
}

// MemoryStore keeps the preference for the life of the process.
type MemoryStore struct {
	mu   sync.Mutex
	code string
}

func (s *MemoryStore) Load(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.code, nil
}

func (s *MemoryStore) Save(_ context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.code = code
	return nil
}

// FileStore keeps a JSON object of string settings on disk, one of which is
// StorageKey. Other keys in the file are preserved on Save.
type FileStore struct {
	Path string

	mu sync.Mutex
}

func (s *FileStore) Load(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	settings, err := s.read()
	if err != nil {
		return "", err
	}
	return settings[StorageKey], nil
}

func (s *FileStore) Save(_ context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	settings, err := s.read()
	if err != nil {
		return err
	}
	settings[StorageKey] = code

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return os.Rename(tmp, s.Path)
}

func (s *FileStore) read() (map[string]string, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	settings := map[string]string{}
	if len(data) == 0 {
		return settings, nil
	}
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("decode settings %s: %w", s.Path, err)
	}
	return settings, nil
}

// RedisStore keeps the preference in a Redis string, shared by every
// process pointed at the same server.
type RedisStore struct {
	Client *redis.Client
	// Key defaults to StorageKey.
	Key string
}

func (s *RedisStore) key() string {
	if s.Key == "" {
		return StorageKey
	}
	return s.Key
}

func (s *RedisStore) Load(ctx context.Context) (string, error) {
	code, err := s.Client.Get(ctx, s.key()).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return code, err
}

func (s *RedisStore) Save(ctx context.Context, code string) error {
	return s.Client.Set(ctx, s.key(), code, 0).Err()
}
