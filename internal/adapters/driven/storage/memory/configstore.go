package memory

import (
	"strings"
	"sync"

	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore keeps settings in a flat map for tests. Unlike the file
// store it has no environment overrides and nothing to reload.
type ConfigStore struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewConfigStore returns an empty in-memory config store.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{values: map[string]any{}}
}

// Seed sets several keys at once, for test setup.
func (s *ConfigStore) Seed(values map[string]any) *ConfigStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range values {
		s.values[k] = v
	}
	return s
}

func (s *ConfigStore) Lookup(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *ConfigStore) String(key string) string {
	v, _ := s.Lookup(key)
	str, _ := v.(string)
	return str
}

func (s *ConfigStore) Int(key string) int {
	switch v, _ := s.Lookup(key); n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

func (s *ConfigStore) Bool(key string) bool {
	v, _ := s.Lookup(key)
	b, _ := v.(bool)
	return b
}

func (s *ConfigStore) Strings(key string) []string {
	switch v, _ := s.Lookup(key); list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	default:
		return nil
	}
}

func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Reload is a no-op; there is no backing store.
func (s *ConfigStore) Reload() error { return nil }

func (s *ConfigStore) Path() string { return ":memory:" }

// Keys returns stored keys with the given prefix, for test assertions.
func (s *ConfigStore) Keys(prefix string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for k := range s.values {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys
}
