// Package cas implements the analysis store that records the options each project was compiled with.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/zerr"
	"go.trai.ch/zinc/internal/core/domain"
	"go.trai.ch/zinc/internal/core/ports"
)

// DefaultStorePath is where the analysis store lives relative to the working directory.
const DefaultStorePath = ".zinc/analysis.json"

var _ ports.AnalysisStore = (*Store)(nil)

// Store implements ports.AnalysisStore using a flat JSON file keyed by project.
type Store struct {
	path  string
	mu    sync.RWMutex
	cache map[string]domain.AnalysisRecord
}

// NewStore creates a new AnalysisStore backed by the file at the given path.
func NewStore(path string) (*Store, error) {
	s := &Store{
		path:  filepath.Clean(path),
		cache: make(map[string]domain.AnalysisRecord),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, "failed to read analysis store"), "path", s.path)
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &s.cache); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to unmarshal analysis store"), "path", s.path)
	}

	return nil
}

// save writes the whole cache to a temporary file and renames it over the store.
// The caller must hold s.mu for writing.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.cache, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal analysis store")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory for analysis store"), "path", dir)
	}

	tmp, err := os.CreateTemp(dir, ".analysis-*.json")
	if err != nil {
		return zerr.Wrap(err, "failed to create temporary analysis store")
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // Already renamed on success

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.Wrap(err, "failed to write analysis store")
	}
	if err := tmp.Close(); err != nil {
		return zerr.Wrap(err, "failed to write analysis store")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to replace analysis store"), "path", s.path)
	}

	return nil
}

// Get retrieves the analysis record for a given project.
func (s *Store) Get(project string) (*domain.AnalysisRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.cache[project]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

// Put stores the analysis record and persists the store.
// If persisting fails, the previous record for the project is restored.
func (s *Store) Put(record domain.AnalysisRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, existed := s.cache[record.Project]
	s.cache[record.Project] = record

	if err := s.save(); err != nil {
		if existed {
			s.cache[record.Project] = previous
		} else {
			delete(s.cache, record.Project)
		}
		return zerr.With(err, "project", record.Project)
	}
	return nil
}
