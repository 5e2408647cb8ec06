// Package render drives an external frame renderer.
//
// The rendering computation itself is out of scope for this tool: frames are
// produced by whatever host renderer the user points us at (Blender, a game
// engine headless mode, a shell script). This package only runs the supplied
// command template once per frame index, strictly in increasing order, into
// an ephemeral scratch directory, and hands the resulting files back as a
// compositor source.
package render

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"spriteforge/pkg/errors"
	"spriteforge/pkg/sprite"
)

// Options configures a render run.
type Options struct {
	// Command is the renderer invocation template, run through the shell
	// once per frame. {frame} expands to the 1-based frame index, {out} to
	// the frame's target path inside the scratch directory.
	Command string

	// Frames is the number of frames to render (N >= 1).
	Frames int

	// Pattern is the frame file pattern (default sprite.DefaultPattern).
	Pattern string

	// Logger receives per-frame progress. Optional.
	Logger *log.Logger
}

// Frames runs the renderer once per frame into scratch and returns a source
// over the rendered files, in frame order. Any renderer failure, or a frame
// the renderer claimed to produce but did not, aborts the run with
// RENDER_FAILURE. The caller owns scratch and must Close it after the frames
// have been consumed.
func Frames(ctx context.Context, opts Options, scratch *sprite.Scratch) (*sprite.FileSource, error) {
	if opts.Command == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "renderer command is required")
	}
	if opts.Frames < 1 {
		return nil, errors.New(errors.ErrCodeEmptySequence, "frame count must be >= 1, got %d", opts.Frames)
	}
	pattern := opts.Pattern
	if pattern == "" {
		pattern = sprite.DefaultPattern
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	paths := make([]string, opts.Frames)
	for i := 1; i <= opts.Frames; i++ {
		out := scratch.Path(fmt.Sprintf(pattern, i))
		if err := renderFrame(ctx, opts.Command, i, out); err != nil {
			return nil, err
		}
		if _, err := os.Stat(out); err != nil {
			return nil, errors.New(errors.ErrCodeRenderFailure, "renderer did not produce frame %d (%s)", i, out)
		}
		logger.Debugf("Rendered frame %d/%d", i, opts.Frames)
		paths[i-1] = out
	}
	return sprite.NewFileSource(paths), nil
}

// renderFrame expands the command template for one frame and runs it.
func renderFrame(ctx context.Context, template string, frame int, out string) error {
	cmdline := expand(template, frame, out)
	cmd := exec.CommandContext(ctx, "sh", "-c", cmdline)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.Wrap(errors.ErrCodeRenderFailure, err, "render frame %d: %s", frame, cmdline)
	}
	return nil
}

// expand substitutes the {frame} and {out} placeholders.
func expand(template string, frame int, out string) string {
	s := strings.ReplaceAll(template, "{frame}", strconv.Itoa(frame))
	return strings.ReplaceAll(s, "{out}", out)
}
