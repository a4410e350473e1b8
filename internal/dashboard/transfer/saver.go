package transfer

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Saver stores a downloaded file and reports where it went.
type Saver interface {
	Save(name string, data []byte) (string, error)
}

// DirSaver writes downloads into Dir, replacing files of the same name.
type DirSaver struct {
	Dir string
}

func (s DirSaver) Save(name string, data []byte) (string, error) {
	if name == "" || filepath.Base(name) != name {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}
	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("save %s: %w", name, err)
	}
	return path, nil
}

// MemorySaver keeps downloads in memory.
type MemorySaver struct {
	mu    sync.Mutex
	files map[string][]byte
}

func (s *MemorySaver) Save(name string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.files == nil {
		s.files = make(map[string][]byte)
	}
	s.files[name] = append([]byte(nil), data...)
	return name, nil
}

// File returns a saved download.
func (s *MemorySaver) File(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[name]
	return data, ok
}
