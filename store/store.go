// Package store persists named shader records as JSON files in a local
// directory.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

// Record is one stored shader.
type Record struct {
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is a directory of records, one file per record.
type Store struct {
	dir string
}

var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Open ensures dir exists and returns a store over it.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the backing directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

func checkName(name string) error {
	if !validName.MatchString(name) {
		return fmt.Errorf("invalid record name %q", name)
	}
	return nil
}

// Put creates or updates a record. CreatedAt is preserved across updates.
func (s *Store) Put(name, code string) (*Record, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}

	now := time.Now()
	rec := &Record{Name: name, Code: code, CreatedAt: now, UpdatedAt: now}
	if prev, err := s.Get(name); err == nil {
		rec.CreatedAt = prev.CreatedAt
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode record %s: %w", name, err)
	}
	if err := os.WriteFile(s.path(name), data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write record %s: %w", name, err)
	}
	return rec, nil
}

// Get reads a record by name.
func (s *Store) Get(name string) (*Record, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return nil, fmt.Errorf("failed to read record %s: %w", name, err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode record %s: %w", name, err)
	}
	return &rec, nil
}

// Delete removes a record. Deleting a missing record is an error.
func (s *Store) Delete(name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	if err := os.Remove(s.path(name)); err != nil {
		return fmt.Errorf("failed to delete record %s: %w", name, err)
	}
	return nil
}

// List returns all record names, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list store directory: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}
