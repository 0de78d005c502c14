package driver

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Loader reads source files and caches their text by path. Concurrent loads
// of the same path share one read.
type Loader struct {
	sf singleflight.Group

	mu    sync.RWMutex
	cache map[string]string

	readFile func(string) ([]byte, error)
}

func NewLoader() *Loader {
	return &Loader{cache: make(map[string]string), readFile: os.ReadFile}
}

// Load returns the contents of path, reading it at most once until the path
// is invalidated.
func (l *Loader) Load(path string) (string, error) {
	l.mu.RLock()
	src, ok := l.cache[path]
	l.mu.RUnlock()
	if ok {
		return src, nil
	}

	v, err, _ := l.sf.Do(path, func() (any, error) {
		l.mu.RLock()
		src, ok := l.cache[path]
		l.mu.RUnlock()
		if ok {
			return src, nil
		}

		data, err := l.readFile(path)
		if err != nil {
			return nil, fmt.Errorf("could not open file: %w", err)
		}
		src = string(data)
		l.mu.Lock()
		l.cache[path] = src
		l.mu.Unlock()
		return src, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Invalidate drops the cached text of path so the next Load rereads it.
func (l *Loader) Invalidate(path string) {
	l.mu.Lock()
	delete(l.cache, path)
	l.mu.Unlock()
	l.sf.Forget(path)
}
