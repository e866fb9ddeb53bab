package cache

// Keyer derives cache keys.
type Keyer interface {
	// FrameKey identifies a replayed frame independent of output format.
	FrameKey(paragraphHash string, opts FrameKeyOpts) string

	// ArtifactKey identifies one encoded output of a frame.
	ArtifactKey(frameKey string, opts ArtifactKeyOpts) string
}

// FrameKeyOpts holds everything besides the paragraph that determines a
// frame.
type FrameKeyOpts struct {
	Seed       uint64  `json:"seed"`
	Inputs     []int   `json:"inputs"`
	Index      int     `json:"index"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	ConfigHash string  `json:"config_hash"`
}

// ArtifactKeyOpts holds the encoding choices for one output.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Scale  float64 `json:"scale,omitempty"`
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// FrameKey implements Keyer.
func (DefaultKeyer) FrameKey(paragraphHash string, opts FrameKeyOpts) string {
	return hashKey("frame", paragraphHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(frameKey string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", frameKey, opts)
}

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one backend.
//
// Example usage:
//
//	// Frame server keys live under their own namespace in Redis
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "tangent:serve:")
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

// FrameKey generates a prefixed frame key.
func (k *ScopedKeyer) FrameKey(paragraphHash string, opts FrameKeyOpts) string {
	return k.prefix + k.inner.FrameKey(paragraphHash, opts)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(frameKey string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(frameKey, opts)
}
