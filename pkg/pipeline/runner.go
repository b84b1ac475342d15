package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mindtower/pkg/cache"
	"github.com/matzehuels/mindtower/pkg/errors"
	"github.com/matzehuels/mindtower/pkg/observability"
	"github.com/matzehuels/mindtower/pkg/outline"
	"github.com/matzehuels/mindtower/pkg/scene"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete parse → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Parse
	parseStart := time.Now()
	tree, parseHit, err := r.ParseWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse")
	}
	result.Tree = tree
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.NodeCount = tree.Size()
	result.Stats.TreeDepth = tree.Depth()
	result.CacheInfo.ParseHit = parseHit

	// Tree hash feeds both the scene cache key and API responses.
	if treeData, err := outline.Marshal(tree); err == nil {
		result.TreeHash = cache.Hash(treeData)
	}

	r.Logger.Info("parsed outline",
		"nodes", result.Stats.NodeCount,
		"depth", result.Stats.TreeDepth,
		"duration", result.Stats.ParseTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	s, layoutHit, err := r.ComputeSceneWithCacheInfo(ctx, tree, opts)
	if err != nil {
		return nil, err
	}
	result.Scene = s
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	if sceneData, err := scene.Marshal(s); err == nil {
		result.SceneHash = cache.Hash(sceneData)
	}

	r.Logger.Info("computed layout",
		"kind", s.Kind,
		"nodes", len(s.Nodes),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, s, tree, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ParseWithCacheInfo parses outline text with caching and returns cache hit info.
func (r *Runner) ParseWithCacheInfo(ctx context.Context, opts Options) (*outline.Node, bool, error) {
	if err := opts.ValidateForParse(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	textHash := cache.Hash([]byte(opts.Outline))
	cacheKey := r.Keyer.TreeKey(textHash)

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if tree, err := outline.Read(bytes.NewReader(data)); err == nil {
				observability.Cache().OnCacheHit(ctx, "tree")
				return tree, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "tree")
	}

	observability.Pipeline().OnParseStart(ctx, len(opts.Outline))
	start := time.Now()
	tree := ParseOutline(opts)
	observability.Pipeline().OnParseComplete(ctx, tree.Size(), time.Since(start))

	if !opts.Refresh {
		if data, err := outline.Marshal(tree); err == nil {
			if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLTree); err == nil {
				observability.Cache().OnCacheSet(ctx, "tree", len(data))
			}
		}
	}

	return tree, false, nil
}

// Parse is a convenience wrapper that calls ParseWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Parse(ctx context.Context, opts Options) (*outline.Node, error) {
	tree, _, err := r.ParseWithCacheInfo(ctx, opts)
	return tree, err
}

// ComputeSceneWithCacheInfo computes a scene with caching and returns cache hit info.
func (r *Runner) ComputeSceneWithCacheInfo(ctx context.Context, tree *outline.Node, opts Options) (*scene.Scene, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	treeData, err := outline.Marshal(tree)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize tree for cache key")
	}
	treeHash := cache.Hash(treeData)
	cacheKey := r.Keyer.SceneKey(treeHash, opts.SceneKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := scene.Unmarshal(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "scene")
				return cached, true, nil
			}
			// If deserialization fails, fall through to recompute.
		}
		observability.Cache().OnCacheMiss(ctx, "scene")
	}

	observability.Pipeline().OnLayoutStart(ctx, opts.Kind, tree.Size())
	start := time.Now()
	s, err := ComputeScene(tree, opts)
	observability.Pipeline().OnLayoutComplete(ctx, opts.Kind, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if data, err := scene.Marshal(s); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLScene); err == nil {
			observability.Cache().OnCacheSet(ctx, "scene", len(data))
		}
	}

	return s, false, nil
}

// ComputeScene is a convenience wrapper that calls ComputeSceneWithCacheInfo
// and discards the cache hit info.
func (r *Runner) ComputeScene(ctx context.Context, tree *outline.Node, opts Options) (*scene.Scene, error) {
	s, _, err := r.ComputeSceneWithCacheInfo(ctx, tree, opts)
	return s, err
}

// RenderWithCacheInfo renders artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, s *scene.Scene, tree *outline.Node, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	sceneData, err := scene.Marshal(s)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize scene for cache key")
	}
	sceneHash := cache.Hash(sceneData)

	// Try to get all formats from cache.
	allCached := true
	artifacts := make(map[string][]byte)

	if !opts.Refresh {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				artifacts[format] = data
			} else {
				allCached = false
				break
			}
		}
		if allCached && len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := RenderFromScene(ctx, s, tree, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Render(ctx context.Context, s *scene.Scene, tree *outline.Node, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, s, tree, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
