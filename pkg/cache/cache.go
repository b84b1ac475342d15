// Package cache provides content-addressed caching for the mind map
// pipeline.
//
// Three kinds of entries are cached, one per pipeline stage:
//   - Tree: the parsed outline tree, keyed by outline text hash
//   - Scene: the computed layout, keyed by tree hash and layout kind
//   - Artifact: rendered bytes, keyed by scene hash and render options
//
// Backends:
//   - file: cache entries stored under a directory (CLI usage)
//   - redis: shared cache for multi-instance server deployments
//   - null: caching disabled
//
// Keys are derived through a Keyer so the CLI and the server produce
// identical keys for identical work. Wrap a Keyer with NewScopedKeyer to
// namespace keys per tenant.
package cache

import (
	"context"
	"time"
)

// TTLs per entry kind. Trees and scenes are cheap to recompute but
// rendering is not, so artifacts live longest.
const (
	TTLTree     = 24 * time.Hour
	TTLScene    = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A TTL of zero means no
	// expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// SceneKeyOpts are the options that distinguish scene cache entries.
type SceneKeyOpts struct {
	Kind string `json:"kind"`
}

// ArtifactKeyOpts are the options that distinguish artifact cache entries.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Scale  float64 `json:"scale,omitempty"`
}

// Keyer generates cache keys for pipeline entries.
type Keyer interface {
	// TreeKey generates a key for a parsed outline tree.
	TreeKey(textHash string) string

	// SceneKey generates a key for a computed scene.
	SceneKey(treeHash string, opts SceneKeyOpts) string

	// ArtifactKey generates a key for a rendered artifact.
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key generator.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// TreeKey generates a key for a parsed outline tree.
func (k *DefaultKeyer) TreeKey(textHash string) string {
	return hashKey("tree", textHash)
}

// SceneKey generates a key for a computed scene.
func (k *DefaultKeyer) SceneKey(treeHash string, opts SceneKeyOpts) string {
	return hashKey("scene", treeHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sceneHash, opts)
}
