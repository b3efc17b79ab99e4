package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// MemoryPath selects a [LocalStore] that never touches disk.
const MemoryPath = ":memory:"

// fileLocalStore keeps all collections in memory and, unless in-memory,
// rewrites a single JSON file on every Set.
type fileLocalStore struct {
	path     string
	inMemory bool

	mu     sync.RWMutex
	items  map[string]string
	closed bool
}

type filePersistedState struct {
	Collections map[string]string `json:"collections"`
}

// NewFileLocalStore loads the JSON file at path, or starts empty when it does
// not exist yet. An empty path or [MemoryPath] yields an in-memory store.
func NewFileLocalStore(path string) (LocalStore, error) {
	if path == "" {
		path = MemoryPath
	}

	s := &fileLocalStore{
		path:     path,
		inMemory: path == MemoryPath,
		items:    make(map[string]string),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewMemoryLocalStore returns an empty in-memory [LocalStore].
func NewMemoryLocalStore() LocalStore {
	return &fileLocalStore{
		path:     MemoryPath,
		inMemory: true,
		items:    make(map[string]string),
	}
}

func (s *fileLocalStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", false, ErrStoreClosed
	}
	value, ok := s.items[key]
	return value, ok, nil
}

func (s *fileLocalStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	prev, had := s.items[key]
	s.items[key] = value
	if err := s.persist(); err != nil {
		if had {
			s.items[key] = prev
		} else {
			delete(s.items, key)
		}
		return err
	}
	return nil
}

func (s *fileLocalStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fileLocalStore) load() error {
	if s.inMemory {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read local storage file: %w", err)
	}

	var st filePersistedState
	if err = json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("decode local storage file: %w", err)
	}

	if st.Collections != nil {
		s.items = st.Collections
	}

	return nil
}

func (s *fileLocalStore) persist() error {
	if s.inMemory {
		return nil
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create local storage dir: %w", err)
		}
	}

	payload, err := json.MarshalIndent(filePersistedState{Collections: s.items}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode local storage: %w", err)
	}

	// write then rename so a crash never leaves a truncated file
	tmp := s.path + ".tmp"
	if err = os.WriteFile(tmp, payload, 0o600); err != nil {
		return fmt.Errorf("write local storage file: %w", err)
	}
	if err = os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace local storage file: %w", err)
	}

	return nil
}
