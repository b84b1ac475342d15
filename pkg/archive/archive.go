// Package archive persists generated mind maps so they can be fetched again
// by ID.
//
// The cache (pkg/cache) is content-addressed and transparent: identical work
// is skipped, but nothing is retrievable without re-submitting the outline.
// The archive is the opposite: every saved map gets a stable ID that the
// HTTP API hands back to clients.
//
// Backends:
//   - memory: process-local store for tests and single-shot CLI usage
//   - mongo: durable store for server deployments
package archive

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Record is a persisted mind map.
type Record struct {
	// ID is a UUID assigned at save time.
	ID string `json:"id" bson:"_id"`

	// Title is the root node content, kept denormalized for listings.
	Title string `json:"title" bson:"title"`

	// Kind is the layout kind the scene was computed with.
	Kind string `json:"kind" bson:"kind"`

	// NodeCount is the total number of nodes in the tree.
	NodeCount int `json:"node_count" bson:"node_count"`

	// TreeHash and SceneHash identify the pipeline inputs that produced
	// this record, linking archive entries back to cache entries.
	TreeHash  string `json:"tree_hash" bson:"tree_hash"`
	SceneHash string `json:"scene_hash" bson:"scene_hash"`

	// Format is the artifact format ("png", "svg", "dot", "dot-svg").
	Format string `json:"format" bson:"format"`

	// Artifact is the rendered output.
	Artifact []byte `json:"-" bson:"artifact"`

	// CreatedAt is the save timestamp in UTC.
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// NewID generates a fresh record ID.
func NewID() string {
	return uuid.NewString()
}

// Store persists and retrieves mind map records.
type Store interface {
	// Save persists a record. The record's ID must be set; use NewID.
	Save(ctx context.Context, rec *Record) error

	// Get retrieves a record by ID. Returns ErrCodeMapNotFound if absent.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns the most recent records, newest first, without artifact
	// bytes. A limit of zero applies the backend default.
	List(ctx context.Context, limit int) ([]Record, error)

	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// DefaultListLimit bounds List when the caller passes zero.
const DefaultListLimit = 50
