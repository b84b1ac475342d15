package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindtower/pkg/outline"
	"github.com/matzehuels/mindtower/pkg/pipeline"
)

// parseCommand creates the parse command for turning outlines into trees.
func (c *CLI) parseCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "parse [outline.md]",
		Short: "Parse an outline into a tree JSON file",
		Long: `Parse a Markdown-style outline into a tree of nodes.

Headings become inner nodes, bullet and numbered list items nest under the
most recent heading or their indentation level, and anything else is
ignored. The output is a tree.json file consumable by 'layout'.
Pass "-" to read the outline from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runParse(cmd.Context(), args[0], output, noCache, refresh)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.tree.json, stdout if \"-\")")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cache and reparse")

	return cmd
}

// runParse parses the outline and writes the tree JSON.
func (c *CLI) runParse(ctx context.Context, input, output string, noCache, refresh bool) error {
	text, err := readOutline(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	p := newProgress(c.Logger)
	tree, cacheHit, err := runner.ParseWithCacheInfo(ctx, pipeline.Options{
		Outline: text,
		Refresh: refresh,
		Logger:  c.Logger,
	})
	if err != nil {
		return err
	}
	p.done(fmt.Sprintf("Parsed %d nodes", tree.Size()))

	if output == "-" {
		data, err := outline.Marshal(tree)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}

	outputPath := output
	if outputPath == "" {
		outputPath = outputBase("", input) + ".tree.json"
	}
	if err := outline.WriteFile(outputPath, tree); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Parse complete")
	printFile(outputPath)
	printStats(tree.Size(), tree.Depth(), cacheHit)
	printNewline()
	printNextStep("Layout", "mindtower layout "+outputPath)

	return nil
}
