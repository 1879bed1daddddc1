package driven

// ConfigStore holds persisted application settings addressed by dotted
// keys such as "embedding.provider" or "sources.bee.api_key".
//
// Lookups are forgiving: a missing key or a type mismatch yields the zero
// value, so callers layer their own defaults on top rather than handling
// errors at every read site.
type ConfigStore interface {
	// Lookup reports the raw value stored under key, if any.
	Lookup(key string) (any, bool)

	// String returns the value under key, or "" when absent or not a string.
	String(key string) string

	// Int returns the value under key, or 0 when absent or not an integer.
	Int(key string) int

	// Bool returns the value under key, or false when absent or not a bool.
	Bool(key string) bool

	// Strings returns the value under key, or nil when absent or not a
	// list of strings.
	Strings(key string) []string

	// Set writes value under key and persists it immediately.
	Set(key string, value any) error

	// Reload re-reads settings from the backing store, discarding any
	// state not yet persisted.
	Reload() error

	// Path identifies the backing store, for display to the user.
	Path() string
}
