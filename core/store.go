package core

import (
	"errors"
	"sync"
)

// StoreKey names a fixed-size persistent block.
type StoreKey uint8

const (
	// StoreKeyKeymapConfig holds the keymap's user settings record.
	StoreKeyKeymapConfig StoreKey = 1
)

var (
	ErrNotFound   = errors.New("store: key not written")
	ErrRecordSize = errors.New("store: record too large")
)

// Store persists small configuration blobs. Save is synchronous; when it
// returns nil the data survives a power cycle.
type Store interface {
	Load(key StoreKey) ([]byte, error)
	Save(key StoreKey, data []byte) error
}

var store Store

// SetStore registers the persistent store backend.
func SetStore(s Store) {
	store = s
}

// MustStore returns the configured store or panics if missing.
func MustStore() Store {
	if store == nil {
		panic("store not configured")
	}
	return store
}

// LoadBlock reads key into a zeroed block of size bytes. A missing or short
// record leaves the remainder zero, like reading erased EEPROM.
func LoadBlock(key StoreKey, size int) []byte {
	block := make([]byte, size)
	data, err := MustStore().Load(key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			DebugPrintln("[STORE] load " + itoa(int(key)) + ": " + err.Error())
		}
		return block
	}
	copy(block, data)
	return block
}

// MemStore keeps records in RAM. Used by tests and the simulator.
type MemStore struct {
	mu      sync.Mutex
	records map[StoreKey][]byte
	// Writes counts Save calls that changed a record.
	Writes int
}

func NewMemStore() *MemStore {
	return &MemStore{records: make(map[StoreKey][]byte)}
}

func (m *MemStore) Load(key StoreKey) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.records[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Save stores a copy of data. Identical data is not rewritten.
func (m *MemStore) Save(key StoreKey, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.records[key]; ok && string(old) == string(data) {
		return nil
	}
	rec := make([]byte, len(data))
	copy(rec, data)
	m.records[key] = rec
	m.Writes++
	return nil
}
