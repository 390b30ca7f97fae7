package testutil

import (
	"context"
	"sync"
)

// FakeSlot is an in-memory implementation of store.Slot for testing.
type FakeSlot struct {
	mu     sync.RWMutex
	data   map[string][]byte
	writes int

	// Error injection for testing
	ReadErr  error
	WriteErr error
}

// NewFakeSlot creates an empty FakeSlot.
func NewFakeSlot() *FakeSlot {
	return &FakeSlot{data: make(map[string][]byte)}
}

// Put stores raw bytes under key, bypassing Write accounting.
func (f *FakeSlot) Put(key string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = append([]byte(nil), data...)
}

// Raw returns the bytes stored under key.
func (f *FakeSlot) Raw(key string) ([]byte, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	b, ok := f.data[key]
	return append([]byte(nil), b...), ok
}

// Writes returns how many successful writes were made.
func (f *FakeSlot) Writes() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.writes
}

// Read implements store.Slot.
func (f *FakeSlot) Read(ctx context.Context, key string) ([]byte, error) {
	if f.ReadErr != nil {
		return nil, f.ReadErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	b, ok := f.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), b...), nil
}

// Write implements store.Slot.
func (f *FakeSlot) Write(ctx context.Context, key string, data []byte) error {
	if f.WriteErr != nil {
		return f.WriteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = append([]byte(nil), data...)
	f.writes++
	return nil
}
