package persist

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
)

// ErrSlotEmpty is returned by Slot.Load when nothing was saved under a name.
var ErrSlotEmpty = errors.New("persist: slot is empty")

// Slot is durable key-value storage for save blobs.
type Slot interface {
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, blob []byte) error
	Delete(ctx context.Context, name string) error
}

var slotNamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,64}$`)

// ValidSlotName reports whether name can be used as a slot name.
// Names double as file names, so path separators are rejected.
func ValidSlotName(name string) bool {
	return slotNamePattern.MatchString(name) && name != "." && name != ".."
}

// MemorySlot keeps blobs in memory. Useful for tests and throwaway sessions.
type MemorySlot struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

// NewMemorySlot creates an empty in-memory slot.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{blobs: make(map[string][]byte)}
}

// Load returns a copy of the blob saved under name.
func (m *MemorySlot) Load(_ context.Context, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blobs[name]
	if !ok {
		return nil, ErrSlotEmpty
	}
	return append([]byte(nil), b...), nil
}

// Save stores a copy of blob under name.
func (m *MemorySlot) Save(_ context.Context, name string, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[name] = append([]byte(nil), blob...)
	return nil
}

// Delete removes the blob saved under name.
func (m *MemorySlot) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, name)
	return nil
}

// FileSlot stores each blob as <dir>/<name>.json.
type FileSlot struct {
	dir string
}

// NewFileSlot creates a file slot rooted at dir, creating it if needed.
func NewFileSlot(dir string) (*FileSlot, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("persist: cannot create directory %s: %w", dir, err)
	}
	return &FileSlot{dir: dir}, nil
}

func (f *FileSlot) path(name string) (string, error) {
	if !ValidSlotName(name) {
		return "", fmt.Errorf("persist: invalid slot name %q", name)
	}
	return filepath.Join(f.dir, name+".json"), nil
}

// Load reads the blob for name.
func (f *FileSlot) Load(_ context.Context, name string) ([]byte, error) {
	p, err := f.path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("persist: cannot read %s: %w", p, err)
	}
	return data, nil
}

// Save writes the blob through a temp file and rename so a crash never
// leaves a half-written save behind.
func (f *FileSlot) Save(_ context.Context, name string, blob []byte) error {
	p, err := f.path(name)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(f.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("persist: cannot create temp file: %w", err)
	}
	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("persist: cannot write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("persist: cannot close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("persist: cannot replace %s: %w", p, err)
	}
	return nil
}

// Delete removes the blob for name. Deleting an empty slot is not an error.
func (f *FileSlot) Delete(_ context.Context, name string) error {
	p, err := f.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("persist: cannot delete %s: %w", p, err)
	}
	return nil
}
