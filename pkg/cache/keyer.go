package cache

// Keyer derives cache keys for the cacheable pipeline artifacts.
//
// Both methods fold every input that changes the cached value into the key:
// a layout answer depends on the exact graph document and the engine that
// produced it, a scene document additionally on the id width used when
// generating label ids.
type Keyer interface {
	// LayoutKey keys a positioned graph by the hash of the input graph and
	// the fingerprint of the engine configuration.
	LayoutKey(graphHash, engineFingerprint string) string

	// SceneKey keys a scene document by the hash of the positioned graph
	// and the generated-id width of the transform.
	SceneKey(layoutHash string, idWidth int) string
}

// DefaultKeyer is the standard key scheme: a type prefix plus a sha256 over
// the key components.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// LayoutKey generates a key for positioned-graph caching.
func (k *DefaultKeyer) LayoutKey(graphHash, engineFingerprint string) string {
	return hashKey("layout", graphHash, engineFingerprint)
}

// SceneKey generates a key for scene-document caching.
func (k *DefaultKeyer) SceneKey(layoutHash string, idWidth int) string {
	return hashKey("scene", layoutHash, idWidth)
}
