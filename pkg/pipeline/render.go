package pipeline

import (
	"context"

	"github.com/matzehuels/mindtower/pkg/errors"
	"github.com/matzehuels/mindtower/pkg/outline"
	"github.com/matzehuels/mindtower/pkg/render"
	"github.com/matzehuels/mindtower/pkg/scene"
)

// RenderFromScene renders a scene into every requested format.
//
// The tree is needed alongside the scene because the DOT preview renders the
// raw outline structure rather than the laid-out scene.
func RenderFromScene(ctx context.Context, s *scene.Scene, tree *outline.Node, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, f := range opts.Formats {
		format, err := render.ParseFormat(f)
		if err != nil {
			return nil, err
		}

		switch format {
		case render.FormatPNG:
			data, err := render.RenderPNG(s, render.WithDPI(render.DefaultDPI*opts.Scale))
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeRender, err, "render PNG")
			}
			artifacts[string(format)] = data

		case render.FormatSVG:
			artifacts[string(format)] = render.RenderSVG(s, render.WithSVGDPI(render.DefaultDPI*opts.Scale))

		case render.FormatDOT:
			if tree == nil {
				return nil, errors.New(errors.ErrCodeRender, "dot output requires the parsed tree")
			}
			artifacts[string(format)] = []byte(render.ToDOT(tree))

		case render.FormatDOTSVG:
			if tree == nil {
				return nil, errors.New(errors.ErrCodeRender, "dot output requires the parsed tree")
			}
			data, err := render.RenderDOTSVG(ctx, render.ToDOT(tree))
			if err != nil {
				return nil, err
			}
			artifacts[string(format)] = data
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	return artifacts, nil
}
