package inmemdb

import (
	"sync"

	"github.com/paycollect/paycollect/core/screenshot"
)

// AssetStore is an in-memory screenshot.Storage for tests.
type AssetStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

var _ screenshot.Storage = (*AssetStore)(nil)

func NewAssetStore() *AssetStore {
	return &AssetStore{blobs: make(map[string][]byte)}
}

func (s *AssetStore) Save(name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	s.blobs[name] = cp
	return nil
}

func (s *AssetStore) Read(name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[name]
	if !ok {
		return nil, screenshot.ErrNotFound
	}
	return data, nil
}

func (s *AssetStore) Remove(name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blobs[name]; !ok {
		return false, nil
	}
	delete(s.blobs, name)
	return true, nil
}

// Len reports the number of stored assets.
func (s *AssetStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
