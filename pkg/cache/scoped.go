package cache

// ScopedKeyer wraps a Keyer with a prefix so that several deployments can
// share one Redis instance without seeing each other's entries.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "anchor:staging:")
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

// ResultKey generates a prefixed key for a resolved scene.
func (k *ScopedKeyer) ResultKey(sceneHash string) string {
	return k.prefix + k.inner.ResultKey(sceneHash)
}

// SweepKey generates a prefixed key for a scroll sweep.
func (k *ScopedKeyer) SweepKey(sceneHash string, opts SweepKeyOpts) string {
	return k.prefix + k.inner.SweepKey(sceneHash, opts)
}
