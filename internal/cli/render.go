package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindtower/pkg/pipeline"
	"github.com/matzehuels/mindtower/pkg/render"
	"github.com/matzehuels/mindtower/pkg/scene"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	formats []string // output formats: png, svg
	output  string   // output file or base path
	scale   float64  // output resolution multiplier
	noCache bool     // disable caching
}

// renderCommand creates the render command for turning scenes into images.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render [scene.json]",
		Short: "Render a scene to PNG or SVG",
		Long: `Render a scene.json file (produced by 'layout') to image formats.

PNG output is rasterized in-process with supersampled anti-aliasing; SVG
output is a standalone vector document with identical geometry.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			var kind string
			c.applyConfig(&kind, &opts.formats, &opts.scale)
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): png (default), svg (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "output resolution multiplier (default 1.0)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// runRender loads the scene and writes the rendered artifacts.
func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	s, err := scene.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load scene %s: %w", input, err)
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	pipeOpts := pipeline.Options{
		Kind:    s.Kind,
		Formats: opts.formats,
		Scale:   opts.scale,
		Logger:  c.Logger,
	}
	pipeOpts.SetRenderDefaults()
	for _, f := range pipeOpts.Formats {
		// The DOT preview needs the outline tree, which a scene file no
		// longer carries. Point users at generate instead.
		if f == string(render.FormatDOT) || f == string(render.FormatDOTSVG) {
			return fmt.Errorf("%s output requires the outline; use 'mindtower generate -f %s'", f, f)
		}
	}

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, s, nil, pipeOpts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	base := outputBase(opts.output, input)
	single := len(artifacts) == 1 && opts.output != ""

	printSuccess("Render complete")
	for format, data := range artifacts {
		path := base + "." + format
		if single {
			path = opts.output
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(len(s.Nodes), 0, cacheHit)

	return nil
}
