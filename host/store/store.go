// Package store persists firmware settings records in a YAML file, so the
// simulator keeps its state between runs.
package store

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"kbhooks/core"
)

type fileFormat struct {
	Records map[uint8]string `yaml:"records"`
}

// FileStore implements core.Store on a YAML file of hex records.
type FileStore struct {
	mu      sync.Mutex
	path    string
	records map[core.StoreKey][]byte
}

// Open loads path. A missing file is an empty store.
func Open(path string) (*FileStore, error) {
	s := &FileStore{path: path, records: make(map[core.StoreKey][]byte)}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store: %w", err)
	}
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse store %s: %w", path, err)
	}
	for key, rec := range f.Records {
		b, err := hex.DecodeString(rec)
		if err != nil {
			return nil, fmt.Errorf("store record %d: %w", key, err)
		}
		s.records[core.StoreKey(key)] = b
	}
	return s, nil
}

func (s *FileStore) Load(key core.StoreKey) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[key]
	if !ok {
		return nil, core.ErrNotFound
	}
	return append([]byte(nil), rec...), nil
}

// Save updates the record and rewrites the file.
func (s *FileStore) Save(key core.StoreKey, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = append([]byte(nil), data...)
	return s.flush()
}

func (s *FileStore) flush() error {
	f := fileFormat{Records: make(map[uint8]string, len(s.records))}
	for key, rec := range s.records {
		f.Records[uint8(key)] = hex.EncodeToString(rec)
	}
	out, err := yaml.Marshal(&f)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".kbstore-*")
	if err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write store: %w", err)
	}
	return os.Rename(tmp.Name(), s.path)
}
