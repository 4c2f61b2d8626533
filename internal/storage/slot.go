package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"focusquest/internal/core/model"
)

// ErrUnknownBackend is returned by OpenSlot for unsupported backends.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Slot is a persistent key-value area holding opaque blobs.
type Slot interface {
	// Get returns the blob stored at key and whether it exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set overwrites the blob stored at key.
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// OpenSlot opens the slot implementation named by backend inside dataDir.
func OpenSlot(backend, dataDir string) (Slot, error) {
	switch backend {
	case model.BackendFile, "":
		return NewFileSlot(dataDir), nil
	case model.BackendSQLite:
		return NewSQLiteSlot(filepath.Join(dataDir, sqliteFileName))
	case model.BackendMemory:
		return NewMemorySlot(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// OpenReadOnlySlot opens backend for reading without touching the disk. A
// backend with nothing stored yet yields an empty MemorySlot.
func OpenReadOnlySlot(backend, dataDir string) (Slot, error) {
	if backend != model.BackendSQLite {
		// FileSlot and MemorySlot only write on Set.
		return OpenSlot(backend, dataDir)
	}
	slot, err := OpenSQLiteSlotReadOnly(filepath.Join(dataDir, sqliteFileName))
	if errors.Is(err, os.ErrNotExist) {
		return NewMemorySlot(), nil
	}
	if err != nil {
		return nil, err
	}
	return slot, nil
}

// MemorySlot keeps blobs in process memory.
type MemorySlot struct {
	mu     sync.Mutex
	values map[string][]byte
}

// NewMemorySlot returns an empty MemorySlot.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{values: make(map[string][]byte)}
}

func (slot *MemorySlot) Get(_ context.Context, key string) ([]byte, bool, error) {
	slot.mu.Lock()
	defer slot.mu.Unlock()
	value, ok := slot.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

func (slot *MemorySlot) Set(_ context.Context, key string, value []byte) error {
	slot.mu.Lock()
	defer slot.mu.Unlock()
	slot.values[key] = append([]byte(nil), value...)
	return nil
}

func (slot *MemorySlot) Close() error { return nil }
