package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindtower/pkg/outline"
	"github.com/matzehuels/mindtower/pkg/pipeline"
	"github.com/matzehuels/mindtower/pkg/scene"
)

// layoutCommand creates the layout command for computing mind map scenes.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		kind    string
		output  string
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "layout [tree.json|outline.md]",
		Short: "Compute a mind map scene from a tree or outline",
		Long: `Compute a mind map scene from a tree (produced by 'parse') or directly
from an outline file.

The layout command positions every node, assigns branch colors, and computes
connector curves. The output is a scene.json file that can be rendered to
PNG/SVG using the 'render' command.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var formats []string
			var scale float64
			c.applyConfig(&kind, &formats, &scale)
			return c.runLayout(cmd.Context(), args[0], kind, output, noCache, refresh)
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "", "layout kind: radial (default), horizontal")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.scene.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cache and recompute")

	return cmd
}

// runLayout loads or parses the tree, computes the scene, and writes output.
func (c *CLI) runLayout(ctx context.Context, input, kind, output string, noCache, refresh bool) error {
	tree, err := loadTree(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := pipeline.Options{Kind: kind, Refresh: refresh, Logger: c.Logger}
	opts.SetLayoutDefaults()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing %s layout...", opts.Kind))
	spinner.Start()

	s, cacheHit, err := runner.ComputeSceneWithCacheInfo(ctx, tree, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		base = strings.TrimSuffix(base, ".tree")
		outputPath = base + ".scene.json"
	}
	if err := scene.WriteFile(outputPath, s); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(tree.Size(), tree.Depth(), cacheHit)
	printNewline()
	printNextStep("Render", "mindtower render "+outputPath)

	return nil
}

// loadTree accepts either a tree JSON file (from 'parse') or raw outline
// text, keyed off the file extension.
func loadTree(input string) (*outline.Node, error) {
	if strings.HasSuffix(input, ".json") {
		tree, err := outline.ReadFile(input)
		if err != nil {
			return nil, fmt.Errorf("load tree %s: %w", input, err)
		}
		return tree, nil
	}
	text, err := readOutline(input)
	if err != nil {
		return nil, err
	}
	return outline.Parse(text), nil
}
