package cache

// ScopedKeyer wraps a Keyer with a prefix so that several datasets or
// deployments can share one backend.
//
//	k := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "curnav:bsc-cds:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer falls back to [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// DatasetKey generates a prefixed dataset key.
func (k *ScopedKeyer) DatasetKey(sourceHash string) string {
	return k.prefix + k.inner.DatasetKey(sourceHash)
}

// LayoutKey generates a prefixed layout key.
func (k *ScopedKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(graphHash, opts)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
