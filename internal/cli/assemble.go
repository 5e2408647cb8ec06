package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"spriteforge/pkg/errors"
	"spriteforge/pkg/manifest"
	"spriteforge/pkg/pipeline"
)

// assembleOpts holds the command-line flags for the assemble command.
type assembleOpts struct {
	output       string // sheet PNG destination
	pattern      string // frame file pattern within the directory
	count        int    // frame count (0 = probe the directory)
	manifestPath string // optional TOML manifest supplying all of the above
	gif          bool   // also write an animated GIF preview
	contact      bool   // also write a labeled contact sheet
	cols         int    // contact sheet columns (0 = single row)
	fps          int    // GIF playback rate
	noCache      bool   // bypass the artifact cache
}

// newAssembleCmd creates the assemble command, the core operation: composite
// an ordered sequence of equally sized RGBA frames into one horizontal
// sprite-sheet PNG, frame i at column offset i×W, alpha preserved exactly.
func newAssembleCmd() *cobra.Command {
	var opts assembleOpts

	cmd := &cobra.Command{
		Use:   "assemble [frame-dir]",
		Short: "Composite rendered frames into a sprite-sheet PNG",
		Long: `Assemble reads an ordered sequence of equally-sized RGBA frames
(frame_001.png, frame_002.png, ...) and writes a single sprite-sheet PNG of
width frames×W and height H, preserving every channel exactly.

Frame input comes from a directory argument or from a TOML manifest
(--manifest). Frames of mismatched dimensions abort the assembly.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			return runAssemble(cmd.Context(), dir, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "sheet PNG destination (default sheet.png, or the manifest's output)")
	cmd.Flags().StringVarP(&opts.pattern, "pattern", "p", "", "frame file pattern (default frame_%03d.png)")
	cmd.Flags().IntVarP(&opts.count, "frames", "n", 0, "frame count (default: probe the directory)")
	cmd.Flags().StringVarP(&opts.manifestPath, "manifest", "m", "", "animation manifest (TOML)")
	cmd.Flags().BoolVar(&opts.gif, "gif", false, "also write an animated GIF preview")
	cmd.Flags().BoolVar(&opts.contact, "contact", false, "also write a labeled contact sheet")
	cmd.Flags().IntVar(&opts.cols, "cols", 0, "contact sheet columns (0 = single row)")
	cmd.Flags().IntVar(&opts.fps, "fps", 0, "GIF playback rate (default from manifest, else 12)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the artifact cache")

	return cmd
}

// assembleOptions merges the manifest (if any), the directory argument, and
// the flags into pipeline options. Flags win over manifest values.
func assembleOptions(dir string, opts *assembleOpts) (pipeline.Options, error) {
	popts := pipeline.Options{}
	if opts.manifestPath != "" {
		m, err := manifest.Load(opts.manifestPath)
		if err != nil {
			return popts, err
		}
		popts = pipeline.FromManifest(m)
		// assemble never renders; the manifest's command belongs to the
		// render subcommand.
		popts.RenderCommand = ""
	}
	if dir != "" {
		popts.Dir = dir
	}
	if popts.Dir == "" {
		return popts, errors.New(errors.ErrCodeInvalidInput, "a frame directory is required (argument or manifest)")
	}
	if opts.output != "" {
		popts.Output = opts.output
	}
	if popts.Output == "" {
		popts.Output = "sheet.png"
	}
	if opts.pattern != "" {
		popts.Pattern = opts.pattern
	}
	if opts.count != 0 {
		popts.Frames = opts.count
	} else if opts.manifestPath == "" {
		popts.Frames = 0 // probe
	}
	if opts.fps != 0 {
		popts.FPS = opts.fps
	}
	popts.GIF = opts.gif
	popts.Contact = opts.contact
	popts.ContactCols = opts.cols
	return popts, nil
}

// runAssemble executes the assemble pipeline and reports the artifacts.
func runAssemble(ctx context.Context, dir string, opts *assembleOpts) error {
	logger := loggerFromContext(ctx)

	popts, err := assembleOptions(dir, opts)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	runner := pipeline.NewRunner(newCache(opts.noCache), logger)
	result, err := runner.Execute(ctx, popts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Assembled %d frames", result.Stats.Frames))

	printSuccess("Sprite sheet %dx%d (%d frames of %dx%d) %s",
		result.Stats.SheetWidth, result.Stats.SheetHeight,
		result.Stats.Frames, result.Stats.FrameWidth, result.Stats.FrameHeight,
		cacheBadge(result.CacheHit))
	for _, kind := range []string{pipeline.ArtifactSheet, pipeline.ArtifactGIF, pipeline.ArtifactContact} {
		if path, ok := result.Artifacts[kind]; ok {
			printFile(path)
		}
	}
	return nil
}
