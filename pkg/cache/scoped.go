package cache

// ScopedKeyer prefixes every key from an inner Keyer. The prefix comes from
// the [cache] prefix setting and lets several projects share one Redis.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "river-wey:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, which defaults to [DefaultKeyer] when nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ArtifactKey returns the prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(seriesHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(seriesHash, opts)
}
