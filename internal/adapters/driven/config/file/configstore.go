package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*Store)(nil)

// envPrefix is prepended to upper-cased, underscore-joined keys when
// checking for environment overrides: "sources.bee.api_key" is overridden
// by PENSIEVE_SOURCES_BEE_API_KEY.
const envPrefix = "PENSIEVE_"

// Store persists settings as nested TOML under the pensieve config
// directory. Environment variables take precedence over file values so
// API keys never have to be written to disk.
type Store struct {
	mu   sync.RWMutex
	path string
	tree map[string]any
}

// New opens (or creates) the config store rooted at configDir. An empty
// configDir defaults to ~/.pensieve.
func New(configDir string) (*Store, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		configDir = filepath.Join(home, ".pensieve")
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	s := &Store{
		path: filepath.Join(configDir, "config.toml"),
		tree: map[string]any{},
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Lookup walks the dotted key through the settings tree. An environment
// override, when present, wins over the file value and is returned as a
// string; the typed accessors coerce it.
func (s *Store) Lookup(key string) (any, bool) {
	if v, ok := os.LookupEnv(envKey(key)); ok {
		return v, true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var node any = s.tree
	for _, seg := range strings.Split(key, ".") {
		branch, ok := node.(map[string]any)
		if !ok {
			return nil, false
		}
		if node, ok = branch[seg]; !ok {
			return nil, false
		}
	}
	return node, true
}

func (s *Store) String(key string) string {
	v, ok := s.Lookup(key)
	if !ok {
		return ""
	}
	str, _ := v.(string)
	return str
}

func (s *Store) Int(key string) int {
	switch v, _ := s.Lookup(key); n := v.(type) {
	case int64: // toml decodes integers as int64
		return int(n)
	case int:
		return n
	case string: // environment override
		i, _ := strconv.Atoi(n)
		return i
	default:
		return 0
	}
}

func (s *Store) Bool(key string) bool {
	switch v, _ := s.Lookup(key); b := v.(type) {
	case bool:
		return b
	case string:
		parsed, _ := strconv.ParseBool(b)
		return parsed
	default:
		return false
	}
}

func (s *Store) Strings(key string) []string {
	switch v, _ := s.Lookup(key); list := v.(type) {
	case []string:
		return list
	case []any: // toml decodes arrays as []any
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

// Set writes value at the dotted key, creating intermediate tables as
// needed, and persists the whole tree.
func (s *Store) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	segs := strings.Split(key, ".")
	branch := s.tree
	for _, seg := range segs[:len(segs)-1] {
		next, ok := branch[seg].(map[string]any)
		if !ok {
			next = map[string]any{}
			branch[seg] = next
		}
		branch = next
	}
	branch[segs[len(segs)-1]] = value

	return s.flush()
}

// Reload replaces the in-memory tree with the file contents. A missing
// file is an empty configuration, not an error.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.tree = map[string]any{}
			return nil
		}
		return fmt.Errorf("reading %s: %w", s.path, err)
	}

	tree := map[string]any{}
	if err := toml.Unmarshal(raw, &tree); err != nil {
		return fmt.Errorf("parsing %s: %w", s.path, err)
	}
	s.tree = tree
	return nil
}

// Path returns the config file location.
func (s *Store) Path() string {
	return s.path
}

// flush marshals the tree and swaps it into place atomically. Caller
// holds the lock. Settings may include API keys, hence 0600.
func (s *Store) flush() error {
	raw, err := toml.Marshal(s.tree)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing config: %w", err)
	}
	return nil
}

func envKey(key string) string {
	return envPrefix + strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
}
