package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/yairmaster/mastercode-api/internal/common"
)

// Store owns the persisted JSON document. All access is serialized
// through its lock, so concurrent mutations cannot lose updates.
type Store struct {
	path string
	mu   sync.RWMutex
	data *Dataset
	log  zerolog.Logger
}

// Open loads the document at path, seeding a fresh one with the given
// business profile when it does not exist yet.
func Open(path string, seed Settings, log zerolog.Logger) (*Store, error) {
	s := &Store{path: path, log: log}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, common.Storage(fmt.Errorf("create data dir: %w", err))
	}

	raw, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		s.data = &Dataset{
			Clients:  []Client{},
			Projects: []Project{},
			Income:   []IncomeEntry{},
			Expenses: []ExpenseEntry{},
			Tasks:    []Task{},
			Leads:    []Lead{},
			Quotes:   []Quote{},
			Settings: seed,
		}
		if err := s.persist(s.data); err != nil {
			return nil, err
		}
		log.Info().Str("path", path).Msg("seeded new data document")
	case err != nil:
		return nil, common.Storage(fmt.Errorf("read data document: %w", err))
	default:
		var data Dataset
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, common.Storage(fmt.Errorf("decode data document: %w", err))
		}
		s.data = &data
	}

	return s, nil
}

// Path returns the location of the backing document.
func (s *Store) Path() string { return s.path }

// View runs fn with read access to the dataset. fn must not mutate it.
func (s *Store) View(fn func(*Dataset) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.data)
}

// Update runs fn against a copy of the dataset and persists the result
// before swapping it in. Either the whole mutation lands durably or
// none of it does.
func (s *Store) Update(fn func(*Dataset) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work, err := clone(s.data)
	if err != nil {
		return err
	}
	if err := fn(work); err != nil {
		return err
	}
	if err := s.persist(work); err != nil {
		return err
	}
	s.data = work
	return nil
}

// Export returns the document serialized the way it is stored on disk.
func (s *Store) Export() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return nil, common.Storage(fmt.Errorf("encode data document: %w", err))
	}
	return raw, nil
}

// persist writes the document atomically: temp file in the same
// directory, fsync, then rename over the old document.
func (s *Store) persist(d *Dataset) error {
	raw, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return common.Storage(fmt.Errorf("encode data document: %w", err))
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".business_data-*.json")
	if err != nil {
		return common.Storage(fmt.Errorf("create temp document: %w", err))
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return common.Storage(fmt.Errorf("write temp document: %w", err))
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return common.Storage(fmt.Errorf("sync temp document: %w", err))
	}
	if err := tmp.Close(); err != nil {
		return common.Storage(fmt.Errorf("close temp document: %w", err))
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return common.Storage(fmt.Errorf("replace data document: %w", err))
	}
	return nil
}

func clone(d *Dataset) (*Dataset, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, common.Storage(fmt.Errorf("clone dataset: %w", err))
	}
	var out Dataset
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, common.Storage(fmt.Errorf("clone dataset: %w", err))
	}
	return &out, nil
}
