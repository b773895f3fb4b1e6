package kvstore

import (
	"akd/internal/kvstore/interfaces"
	"akd/internal/providers"
	"os"
	"sync"

	json "github.com/goccy/go-json"
	"go.uber.org/atomic"
)

// storeFile is the on-disk envelope. The version field leaves room for
// format migrations the way older snapshots were migrated before.
type storeFile struct {
	Version int               `json:"version"`
	Data    map[string]string `json:"data"`
}

const storeFileVersion = 1

// FileStore keeps the whole key space in memory and flushes it to a single
// compressed file. Mutations only mark the store dirty; actual disk writes
// happen on SaveToFile (driven by the scheduler and shutdown).
type FileStore struct {
	mu         sync.RWMutex
	data       map[string]string
	dirty      atomic.Bool
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileStore(compressor interfaces.CompressorInterface, logger providers.Logger) *FileStore {
	return &FileStore{
		data:       make(map[string]string),
		compressor: compressor,
		logger:     logger,
	}
}

func (f *FileStore) Get(key string) (string, bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	val, ok := f.data[key]
	return val, ok, nil
}

func (f *FileStore) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	f.dirty.Store(true)
	return nil
}

func (f *FileStore) Remove(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[key]; ok {
		delete(f.data, key)
		f.dirty.Store(true)
	}
	return nil
}

func (f *FileStore) GetAllKeys() ([]string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	keys := make([]string, 0, len(f.data))
	for k := range f.data {
		keys = append(keys, k)
	}
	return keys, nil
}

func (f *FileStore) MultiRemove(keys []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			f.dirty.Store(true)
		}
	}
	return nil
}

func (f *FileStore) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.data)
}

// Dirty reports whether there are mutations not yet flushed to disk.
func (f *FileStore) Dirty() bool {
	return f.dirty.Load()
}

func (f *FileStore) snapshot() map[string]string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make(map[string]string, len(f.data))
	for k, v := range f.data {
		out[k] = v
	}
	return out
}

func (f *FileStore) SaveToFile(fileName string) error {
	envelope := storeFile{Version: storeFileVersion, Data: f.snapshot()}

	jsonData, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	if err = os.Rename(tmpFile, fileName); err != nil {
		return err
	}
	f.dirty.Store(false)
	return nil
}

// LoadFromFile replaces the in-memory key space with the file contents.
// A missing file is a fresh install. A garbled file is treated as no data:
// the daemon must come up, and the next flush overwrites the damage.
func (f *FileStore) LoadFromFile(fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressed, err := f.compressor.Decompress(data)
	if err != nil {
		// Older snapshots were written uncompressed.
		decompressed = data
	}

	var envelope storeFile
	if err := json.Unmarshal(decompressed, &envelope); err != nil || envelope.Data == nil {
		f.logger.Warnf(providers.TypeApp, "Store file %s unreadable, starting empty", fileName)
		return nil
	}

	f.mu.Lock()
	f.data = envelope.Data
	f.mu.Unlock()
	f.dirty.Store(false)
	return nil
}
