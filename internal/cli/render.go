package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"spriteforge/pkg/errors"
	"spriteforge/pkg/manifest"
	"spriteforge/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	gif     bool // also write an animated GIF preview
	contact bool // also write a labeled contact sheet
	noCache bool // bypass the artifact cache
}

// newRenderCmd creates the render command: the full original pipeline. It
// runs the manifest's external renderer once per frame into an ephemeral
// scratch directory, assembles the frames into the sprite sheet, and removes
// the scratch space whether or not the run succeeded.
func newRenderCmd() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [manifest]",
		Short: "Render frames with an external renderer, then assemble them",
		Long: `Render drives the external renderer configured in the manifest's
[render] section, invoking its command template once per frame index in
strictly increasing order, then composites the rendered frames into the
manifest's output sprite sheet.

The renderer itself is out of scope: any command that writes one RGBA PNG
per invocation works, e.g.

  [render]
  command = "blender --background ball.blend --python render.py -- {frame} {out}"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRenderPipeline(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().BoolVar(&opts.gif, "gif", false, "also write an animated GIF preview")
	cmd.Flags().BoolVar(&opts.contact, "contact", false, "also write a labeled contact sheet")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the artifact cache")

	return cmd
}

// runRenderPipeline runs the render + assemble pipeline off a manifest.
func runRenderPipeline(ctx context.Context, manifestPath string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	m, err := manifest.Load(manifestPath)
	if err != nil {
		return err
	}
	if m.Render.Command == "" {
		return errors.New(errors.ErrCodeInvalidManifest, "manifest %s has no [render] command", manifestPath)
	}

	popts := pipeline.FromManifest(m)
	popts.Dir = "" // force the render stage even if a frame dir is configured
	popts.GIF = opts.gif
	popts.Contact = opts.contact

	logger.Infof("Rendering %q: %d frames", m.Name, m.Frames)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %d frames...", m.Frames))
	spinner.Start()

	prog := newProgress(logger)
	runner := pipeline.NewRunner(newCache(opts.noCache), logger)
	result, err := runner.Execute(ctx, popts)
	if err != nil {
		spinner.StopWithError(fmt.Sprintf("Render failed: %s", errors.UserMessage(err)))
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Rendered and assembled %d frames", result.Stats.Frames))

	printSuccess("Sprite sheet %dx%d (%d frames of %dx%d)",
		result.Stats.SheetWidth, result.Stats.SheetHeight,
		result.Stats.Frames, result.Stats.FrameWidth, result.Stats.FrameHeight)
	for _, kind := range []string{pipeline.ArtifactSheet, pipeline.ArtifactGIF, pipeline.ArtifactContact} {
		if path, ok := result.Artifacts[kind]; ok {
			printFile(path)
		}
	}
	return nil
}
