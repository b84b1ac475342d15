package pipeline

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mindtower/pkg/cache"
	"github.com/matzehuels/mindtower/pkg/errors"
	"github.com/matzehuels/mindtower/pkg/layout"
	"github.com/matzehuels/mindtower/pkg/outline"
	"github.com/matzehuels/mindtower/pkg/scene"
)

// memCache is an in-memory cache.Cache that counts operations so tests can
// observe hit/miss behavior across pipeline runs.
type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	gets    int
	sets    int
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string][]byte)}
}

func (c *memCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	data, ok := c.entries[key]
	return data, ok, nil
}

func (c *memCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.entries[key] = data
	return nil
}

func (c *memCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		wantCode errors.Code
	}{
		{"missing outline", Options{}, errors.ErrCodeInvalidInput},
		{"oversized outline", Options{Outline: strings.Repeat("x", MaxOutlineBytes+1)}, errors.ErrCodeInvalidInput},
		{"bad kind", Options{Outline: "# A", Kind: "spiral"}, errors.ErrCodeInvalidLayout},
		{"bad format", Options{Outline: "# A", Formats: []string{"jpeg"}}, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if err == nil {
				t.Fatal("validation should fail")
			}
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("code = %s, want %s", errors.GetCode(err), tt.wantCode)
			}
		})
	}
}

func TestValidateKindMessage(t *testing.T) {
	// The rejected kind is quoted verbatim, including % characters.
	err := ValidateKind("100%")
	if err == nil {
		t.Fatal("ValidateKind(100%) should fail")
	}
	if !strings.Contains(err.Error(), `"100%"`) || strings.Contains(err.Error(), "%!") {
		t.Errorf("percent input garbled the message: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Outline: "# A", Logger: quietLogger()}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("validation error: %v", err)
	}

	if opts.Kind != DefaultKind {
		t.Errorf("kind = %s, want default %s", opts.Kind, DefaultKind)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != DefaultFormat {
		t.Errorf("formats = %v, want [%s]", opts.Formats, DefaultFormat)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("scale = %v, want %v", opts.Scale, DefaultScale)
	}

	// Idempotent: explicit values survive a second call.
	opts.Kind = scene.KindHorizontal
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("second validation error: %v", err)
	}
	if opts.Kind != scene.KindHorizontal {
		t.Errorf("second call reset kind to %s", opts.Kind)
	}
}

func TestRunnerParse(t *testing.T) {
	r := NewRunner(cache.NewNullCache(), nil, quietLogger())
	defer r.Close()

	tree, err := r.Parse(context.Background(), Options{Outline: "# Root\n- A\n- B", Logger: quietLogger()})
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if tree.Content != "Root" || len(tree.Children) != 2 {
		t.Errorf("unexpected tree: %+v", tree)
	}
}

func TestRunnerExecute(t *testing.T) {
	mc := newMemCache()
	r := NewRunner(mc, nil, quietLogger())
	defer r.Close()

	opts := Options{
		Outline: "# Root\n- A\n- B\n- C",
		Kind:    scene.KindRadial,
		Formats: []string{"svg", "dot"},
		Logger:  quietLogger(),
	}

	result, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if result.Stats.NodeCount != 4 || result.Stats.TreeDepth != 2 {
		t.Errorf("stats = %+v", result.Stats)
	}
	if result.TreeHash == "" || result.SceneHash == "" {
		t.Error("content hashes not populated")
	}
	if len(result.Artifacts) != 2 {
		t.Fatalf("got %d artifacts, want 2", len(result.Artifacts))
	}
	if !strings.HasPrefix(string(result.Artifacts["svg"]), "<svg") {
		t.Error("svg artifact malformed")
	}
	if !strings.HasPrefix(string(result.Artifacts["dot"]), "digraph") {
		t.Error("dot artifact malformed")
	}
	if result.CacheInfo.ParseHit || result.CacheInfo.LayoutHit || result.CacheInfo.RenderHit {
		t.Errorf("first run should miss everywhere: %+v", result.CacheInfo)
	}

	// Second run: every stage served from cache.
	second, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Execute error: %v", err)
	}
	if !second.CacheInfo.ParseHit || !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run should hit everywhere: %+v", second.CacheInfo)
	}
	if second.TreeHash != result.TreeHash || second.SceneHash != result.SceneHash {
		t.Error("hashes changed between runs")
	}

	// Refresh bypasses the cache and recomputes.
	getsBefore := mc.gets
	refreshOpts := opts
	refreshOpts.Refresh = true
	third, err := r.Execute(context.Background(), refreshOpts)
	if err != nil {
		t.Fatalf("refresh Execute error: %v", err)
	}
	if third.CacheInfo.ParseHit || third.CacheInfo.RenderHit {
		t.Errorf("refresh run should not report cache hits: %+v", third.CacheInfo)
	}
	if mc.gets != getsBefore {
		t.Errorf("refresh run read the cache %d times", mc.gets-getsBefore)
	}
}

func TestRunnerSceneCacheKeyedByKind(t *testing.T) {
	mc := newMemCache()
	r := NewRunner(mc, nil, quietLogger())
	defer r.Close()

	ctx := context.Background()
	tree, err := r.Parse(ctx, Options{Outline: "# Root\n- A", Logger: quietLogger()})
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	radial, err := r.ComputeScene(ctx, tree, Options{Kind: scene.KindRadial, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("radial ComputeScene error: %v", err)
	}
	horizontal, hit, err := r.ComputeSceneWithCacheInfo(ctx, tree, Options{Kind: scene.KindHorizontal, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("horizontal ComputeScene error: %v", err)
	}
	if hit {
		t.Error("different kind should not hit the radial entry")
	}
	if radial.Kind == horizontal.Kind {
		t.Error("kinds should differ")
	}

	// Same kind again hits.
	_, hit, err = r.ComputeSceneWithCacheInfo(ctx, tree, Options{Kind: scene.KindRadial, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("repeat ComputeScene error: %v", err)
	}
	if !hit {
		t.Error("repeat computation with same kind should hit")
	}
}

func TestRenderFromSceneDOTSVG(t *testing.T) {
	tree := outline.Parse("# Root\n- A\n- B")
	s, err := layout.Compute(tree, scene.KindRadial)
	if err != nil {
		t.Fatalf("layout error: %v", err)
	}

	artifacts, err := RenderFromScene(context.Background(), s, tree, Options{
		Kind:    scene.KindRadial,
		Formats: []string{"dot-svg"},
		Logger:  quietLogger(),
	})
	if err != nil {
		t.Fatalf("RenderFromScene error: %v", err)
	}
	if !strings.Contains(string(artifacts["dot-svg"]), "<svg") {
		t.Error("dot-svg artifact is not SVG")
	}
}

func TestRenderFromSceneDOTNeedsTree(t *testing.T) {
	s := &scene.Scene{
		Kind:         scene.KindRadial,
		Nodes:        []scene.Node{{Content: "Root", Depth: 1, Color: scene.RootColor}},
		CanvasWidth:  12,
		CanvasHeight: 12,
		AxisExtentX:  8,
		AxisExtentY:  8,
	}

	_, err := RenderFromScene(context.Background(), s, nil, Options{
		Kind:    scene.KindRadial,
		Formats: []string{"dot"},
		Logger:  quietLogger(),
	})
	if err == nil {
		t.Fatal("dot without a tree should fail")
	}
	if !errors.Is(err, errors.ErrCodeRender) {
		t.Errorf("code = %s, want %s", errors.GetCode(err), errors.ErrCodeRender)
	}
}

func TestRenderFromSceneContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &scene.Scene{
		Kind:         scene.KindRadial,
		Nodes:        []scene.Node{{Content: "Root", Depth: 1, Color: scene.RootColor}},
		CanvasWidth:  12,
		CanvasHeight: 12,
		AxisExtentX:  8,
		AxisExtentY:  8,
	}

	_, err := RenderFromScene(ctx, s, nil, Options{
		Kind:    scene.KindRadial,
		Formats: []string{"svg"},
		Logger:  quietLogger(),
	})
	if err == nil {
		t.Error("cancelled context should abort rendering")
	}
}

func TestRunnerNilDependencies(t *testing.T) {
	// Nil cache, keyer, and logger all get safe defaults.
	r := NewRunner(nil, nil, nil)
	defer r.Close()

	if r.Cache == nil || r.Keyer == nil || r.Logger == nil {
		t.Error("NewRunner should fill nil dependencies")
	}

	tree, err := r.Parse(context.Background(), Options{Outline: "# A", Logger: quietLogger()})
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if tree == nil {
		t.Fatal("nil tree")
	}
}
