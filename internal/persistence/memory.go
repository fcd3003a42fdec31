package persistence

import (
	"context"
	"sync"

	"task-tracker-api/internal/models"
)

// MemoryBackend keeps the last saved snapshot in memory.
type MemoryBackend struct {
	mu    sync.Mutex
	snap  models.Snapshot
	saves int
	err   error
}

// NewMemoryBackend returns an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

// Save implements Backend.Save.
func (b *MemoryBackend) Save(_ context.Context, snap models.Snapshot) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.snap = copySnapshot(snap)
	b.saves++
	return nil
}

// Load implements Backend.Load.
func (b *MemoryBackend) Load(context.Context) (models.Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return copySnapshot(b.snap), nil
}

// Close implements Backend.Close.
func (b *MemoryBackend) Close() error { return nil }

// Saves returns how many snapshots were saved successfully.
func (b *MemoryBackend) Saves() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.saves
}

// FailWith makes every following Save return err. A nil err restores
// normal behaviour.
func (b *MemoryBackend) FailWith(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.err = err
}

func copySnapshot(s models.Snapshot) models.Snapshot {
	var out models.Snapshot
	for _, t := range s.All() {
		out.Put(t.Clone())
	}
	return out
}
