package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"spriteforge/pkg/errors"
	"spriteforge/pkg/sheet"
	"spriteforge/pkg/sprite"
)

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	frames    int    // frame count the sheet holds
	gifPath   string // animated GIF destination
	fps       int    // GIF playback rate
	framesDir string // directory to split frames into
	thumbPath string // thumbnail destination
	thumbSize int    // thumbnail bounding box
}

// newExportCmd creates the export command for deriving artifacts from an
// existing sprite sheet: an animated GIF, the individual frames, or a
// thumbnail.
func newExportCmd() *cobra.Command {
	var opts exportOpts

	cmd := &cobra.Command{
		Use:   "export [sheet.png]",
		Short: "Derive GIFs, frames, or thumbnails from a sprite sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.gifPath == "" && opts.framesDir == "" && opts.thumbPath == "" {
				return errors.New(errors.ErrCodeInvalidInput, "nothing to export: pass --gif, --split, or --thumb")
			}
			return runExport(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().IntVarP(&opts.frames, "frames", "n", 1, "frame count the sheet holds")
	cmd.Flags().StringVar(&opts.gifPath, "gif", "", "write a looping animated GIF to this path")
	cmd.Flags().IntVar(&opts.fps, "fps", 12, "GIF playback rate")
	cmd.Flags().StringVar(&opts.framesDir, "split", "", "write the individual frames into this directory")
	cmd.Flags().StringVar(&opts.thumbPath, "thumb", "", "write a thumbnail of the first frame to this path")
	cmd.Flags().IntVar(&opts.thumbSize, "thumb-size", 128, "thumbnail bounding box in pixels")

	return cmd
}

// runExport splits the sheet once and fans out to the requested artifacts.
func runExport(ctx context.Context, path string, opts *exportOpts) error {
	logger := loggerFromContext(ctx)

	frames, err := sheet.Load(path, opts.frames)
	if err != nil {
		return err
	}
	logger.Debugf("Loaded %d frames from %s", len(frames), path)

	if opts.gifPath != "" {
		g, err := sheet.Animate(frames, opts.fps)
		if err != nil {
			return err
		}
		if err := sheet.WriteGIF(g, opts.gifPath); err != nil {
			return err
		}
		printFile(opts.gifPath)
	}

	if opts.framesDir != "" {
		for i, frame := range frames {
			out := filepath.Join(opts.framesDir, fmt.Sprintf(sprite.DefaultPattern, i+1))
			if err := sprite.WriteSheet(frame, out); err != nil {
				return err
			}
		}
		printSuccess("Split %d frames", len(frames))
		printFile(opts.framesDir)
	}

	if opts.thumbPath != "" {
		thumb := sheet.Thumbnail(frames[0], opts.thumbSize, opts.thumbSize)
		if err := sprite.WriteSheet(thumb, opts.thumbPath); err != nil {
			return err
		}
		printFile(opts.thumbPath)
	}
	return nil
}
