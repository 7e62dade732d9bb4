package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// The server uses it when different tenants or deployments share one cache
// backend and must not see each other's entries.
//
// Example usage:
//
//	// Tenant-specific keys on a shared Redis
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "tenant:abc123:")
//
//	// Unscoped keys for a private cache
//	keyer := cache.NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// LayoutKey generates a prefixed key for positioned-graph caching.
func (k *ScopedKeyer) LayoutKey(graphHash, engineFingerprint string) string {
	return k.prefix + k.inner.LayoutKey(graphHash, engineFingerprint)
}

// SceneKey generates a prefixed key for scene-document caching.
func (k *ScopedKeyer) SceneKey(layoutHash string, idWidth int) string {
	return k.prefix + k.inner.SceneKey(layoutHash, idWidth)
}
