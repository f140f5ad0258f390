package fixture

import (
	"maps"
	"path/filepath"
	"runtime"
	"slices"
	"sync"
)

// DefaultRelativePath is where the fixture document lives relative to the repository root.
const DefaultRelativePath = "test-data/TestData.json"

var (
	cacheMu sync.RWMutex
	cache   = map[string]*Document{}
)

// Cached returns the process-wide snapshot of the document at path, loading it on first use.
// Concurrent first loads may each read the file; the first stored snapshot wins and
// every caller receives it. Failed loads are not cached.
func Cached(path string) (*Document, error) {
	key, err := filepath.Abs(path)
	if err != nil {
		key = path
	}

	cacheMu.RLock()
	d, ok := cache[key]
	cacheMu.RUnlock()
	if ok {
		return d, nil
	}

	loaded, err := Load(path)
	if err != nil {
		return nil, err
	}

	cacheMu.Lock()
	defer cacheMu.Unlock()
	if d, ok := cache[key]; ok {
		return d, nil
	}
	cache[key] = loaded
	return loaded, nil
}

// ResetCache drops all memoised documents. Intended for tests.
func ResetCache() {
	cacheMu.Lock()
	clear(cache)
	cacheMu.Unlock()
}

// RepositoryPath resolves DefaultRelativePath against the repository root of this source tree.
func RepositoryPath() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return DefaultRelativePath
	}
	return filepath.Join(filepath.Dir(filename), "..", filepath.FromSlash(DefaultRelativePath))
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
