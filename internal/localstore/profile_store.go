// Package localstore keeps the athlete profile in a single JSON file. It is the
// authoritative source for resuming a session after a restart.
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/blaisecz/athlete-readiness/internal/domain"
)

var (
	// ErrNotFound means nothing is cached.
	ErrNotFound = errors.New("no cached profile")
	// ErrCorrupt means the cache exists but cannot be trusted.
	ErrCorrupt = errors.New("cached profile is corrupt")
)

// ProfileStore is the local durable cache of the active profile.
type ProfileStore interface {
	Save(p *domain.Profile) error
	Load() (*domain.Profile, error)
	Clear() error
}

type fileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a ProfileStore backed by the file at path. A leading
// "~/" is expanded to the user's home directory.
func NewFileStore(path string) ProfileStore {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	return &fileStore{path: path}
}

// Save writes the profile atomically: temp file in the same directory, then rename.
func (s *fileStore) Save(p *domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".profile-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write profile: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync profile: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close profile: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace profile: %w", err)
	}
	return nil
}

// Load returns ErrNotFound when no file exists and ErrCorrupt when the file
// cannot be decoded or lacks required fields.
func (s *fileStore) Load() (*domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read profile: %w", err)
	}

	var p domain.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v (preview: %s)", ErrCorrupt, err, preview(data))
	}
	if !p.Valid() {
		return nil, fmt.Errorf("%w: missing required fields", ErrCorrupt)
	}
	return &p, nil
}

// Clear removes the cached profile. A missing file is not an error.
func (s *fileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove profile: %w", err)
	}
	return nil
}

func preview(data []byte) string {
	const maxPreview = 64
	p := strings.TrimSpace(string(data))
	p = strings.ReplaceAll(p, "\n", " ")
	if len(p) > maxPreview {
		p = p[:maxPreview] + "..."
	}
	return p
}
