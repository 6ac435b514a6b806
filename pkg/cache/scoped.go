package cache

// Keyer derives cache keys for layout results. The runner asks its keyer
// for every key, so swapping the keyer re-namespaces the whole cache
// without touching the backend.
type Keyer interface {
	// LayoutKey derives the key for a layout computed from the graph with
	// the given content hash under the given options.
	LayoutKey(graphHash string, opts any) string
}

// DefaultKeyer derives unprefixed keys. This is what single-user CLI runs
// want: one machine, one cache directory, no namespace to carve up.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey derives an unscoped layout key. Options are serialized to JSON
// so any field change invalidates prior entries.
func (DefaultKeyer) LayoutKey(graphHash string, opts any) string {
	return hashKey("layout", graphHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// This matters when several server deployments share one redis instance:
// each deployment (or tenant) gets its own prefix so entries never collide
// and can be flushed independently.
//
// Example usage:
//
//	// Per-tenant keys on a shared redis
//	keyer := cache.NewScopedKeyer(nil, "tenant-a:")
//
//	// Staging and production sharing one instance
//	keyer := cache.NewScopedKeyer(nil, "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to every key the
// inner keyer generates. A nil inner falls back to the default keyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(graphHash string, opts any) string {
	return k.prefix + k.inner.LayoutKey(graphHash, opts)
}
