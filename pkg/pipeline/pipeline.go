// Package pipeline provides the core mind map pipeline for Mindtower.
//
// This package implements the complete parse → layout → render pipeline that
// can be used by CLI and API components. By centralizing this logic, we
// ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Turn outline text into a tree of nodes
//  2. Layout: Compute node positions and connector curves for the tree
//  3. Render: Generate output in various formats (PNG, SVG, DOT)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Outline: text,
//	    Kind:    scene.KindRadial,
//	    Formats: []string{"png"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts["png"]
//
// Run individual stages:
//
//	// Parse only
//	tree, err := runner.Parse(ctx, opts)
//
//	// Layout with existing tree
//	s, err := runner.ComputeScene(ctx, tree, opts)
//
//	// Render with existing scene
//	artifacts, err := runner.Render(ctx, s, tree, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mindtower/pkg/cache"
	"github.com/matzehuels/mindtower/pkg/errors"
	"github.com/matzehuels/mindtower/pkg/outline"
	"github.com/matzehuels/mindtower/pkg/render"
	"github.com/matzehuels/mindtower/pkg/scene"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultKind is the default layout kind.
	DefaultKind = scene.KindRadial

	// DefaultFormat is the default output format.
	DefaultFormat = string(render.FormatPNG)

	// DefaultScale is the default output resolution multiplier. A scale of
	// 1.0 renders at 150 pixels per canvas unit.
	DefaultScale = 1.0

	// MaxOutlineBytes caps outline input size. Anything larger is almost
	// certainly not an outline.
	MaxOutlineBytes = 1 << 20
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the mind map pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Parse options
	Outline string `json:"outline"`
	Refresh bool   `json:"refresh,omitempty"`

	// Layout options
	Kind string `json:"kind,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Scale   float64  `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Tree is the parsed outline tree.
	Tree *outline.Node

	// TreeHash is the content hash of the tree.
	TreeHash string

	// Scene is the computed layout scene.
	Scene *scene.Scene

	// SceneHash is the content hash of the scene.
	SceneHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	TreeDepth  int
	ParseTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ParseHit  bool // Whether the parsed tree came from cache
	LayoutHit bool // Whether the scene came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateKind checks that a layout kind is valid.
func ValidateKind(kind string) error {
	if !scene.ValidKinds[kind] {
		return errors.New(errors.ErrCodeInvalidLayout,
			"invalid layout kind: %q (must be one of: radial, horizontal)", kind)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if _, err := render.ParseFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := ValidateKind(o.Kind); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForParse checks required fields for parsing.
func (o *Options) ValidateForParse() error {
	if o.Outline == "" {
		return errors.New(errors.ErrCodeInvalidInput, "outline text is required")
	}
	if len(o.Outline) > MaxOutlineBytes {
		return errors.New(errors.ErrCodeInvalidInput, "outline text exceeds 1 MiB")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Kind == "" {
		o.Kind = DefaultKind
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	return ValidateKind(o.Kind)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := ValidateKind(o.Kind); err != nil {
		return err
	}
	return ValidateFormats(o.Formats)
}

// SceneKeyOpts returns cache key options for scene computation.
func (o *Options) SceneKeyOpts() cache.SceneKeyOpts {
	return cache.SceneKeyOpts{
		Kind: o.Kind,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Scale:  o.Scale,
	}
}
