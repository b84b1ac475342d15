package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindtower/pkg/pipeline"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	kind        string   // layout kind: radial or horizontal
	formats     []string // output formats: png, svg, dot, dot-svg
	output      string   // output file or base path
	scale       float64  // output resolution multiplier
	noCache     bool     // disable caching
	refresh     bool     // bypass cache and recompute
	interactive bool     // pick the layout kind in a TUI
}

// generateCommand creates the generate command running the full pipeline.
func (c *CLI) generateCommand() *cobra.Command {
	var formatsStr string
	opts := generateOpts{}

	cmd := &cobra.Command{
		Use:   "generate [outline.md]",
		Short: "Generate a mind map image from an outline",
		Long: `Generate a mind map image from a Markdown-style outline.

The outline is parsed into a tree, laid out as a radial or horizontal mind
map, and rendered to the requested formats. Pass "-" to read the outline
from stdin.

Examples:
  mindtower generate notes.md
  mindtower generate notes.md --kind horizontal -f png,svg
  cat notes.md | mindtower generate - -o map.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			c.applyConfig(&opts.kind, &opts.formats, &opts.scale)

			if opts.interactive {
				kind, err := pickKind()
				if err != nil {
					return err
				}
				if kind == "" {
					printInfo("Aborted")
					return nil
				}
				opts.kind = kind
			}
			return c.runGenerate(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.kind, "kind", "k", "", "layout kind: radial (default), horizontal")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): png (default), svg, dot, dot-svg (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "output resolution multiplier (default 1.0)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cache and recompute")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "pick the layout kind interactively")

	return cmd
}

// runGenerate executes the full pipeline and writes artifacts to disk.
func (c *CLI) runGenerate(ctx context.Context, input string, opts *generateOpts) error {
	text, err := readOutline(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	pipeOpts := pipeline.Options{
		Outline: text,
		Kind:    opts.kind,
		Formats: opts.formats,
		Scale:   opts.scale,
		Refresh: opts.refresh,
		Logger:  c.Logger,
	}

	spinner := newSpinnerWithContext(ctx, "Generating mind map...")
	spinner.Start()

	result, err := runner.Execute(ctx, pipeOpts)
	if err != nil {
		spinner.StopWithError("Generation failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	base := outputBase(opts.output, input)
	single := len(result.Artifacts) == 1 && opts.output != ""

	printSuccess("Mind map generated")
	for format, data := range result.Artifacts {
		path := base + "." + format
		if single {
			path = opts.output
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(result.Stats.NodeCount, result.Stats.TreeDepth, result.CacheInfo.RenderHit)

	return nil
}
