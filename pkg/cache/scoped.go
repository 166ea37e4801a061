package cache

// ScopedKeyer wraps a Keyer with a prefix so several tenants (or several
// deployments) can share one Redis or Mongo backend without seeing each
// other's entries.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
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

func (k *ScopedKeyer) DescriptionKey(treeHash string) string {
	return k.prefix + k.inner.DescriptionKey(treeHash)
}

func (k *ScopedKeyer) ArtifactKey(dotHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(dotHash, opts)
}
