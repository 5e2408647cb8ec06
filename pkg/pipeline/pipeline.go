// Package pipeline provides the core compositing pipeline for spriteforge.
//
// This package implements the complete render → assemble → artifacts flow
// shared by the CLI and the preview server. By centralizing this logic, both
// entry points behave identically.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Render (optional): drive an external renderer to produce frame files
//  2. Assemble: composite the frames into one horizontal sprite sheet
//  3. Artifacts: encode the sheet PNG plus optional derived previews
//     (animated GIF, labeled contact sheet)
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, logger)
//	opts := pipeline.Options{
//	    Dir:    "frames/",
//	    Output: "assets/ball.png",
//	    GIF:    true,
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Artifacts[pipeline.ArtifactSheet])
package pipeline

import (
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"spriteforge/pkg/errors"
	"spriteforge/pkg/manifest"
)

// Artifact kinds produced by the pipeline.
const (
	ArtifactSheet   = "sheet"
	ArtifactGIF     = "gif"
	ArtifactContact = "contact"
)

// Options contains all configuration for the compositing pipeline.
type Options struct {
	// Frame input: exactly one of Paths, Dir, or RenderCommand.
	Paths         []string // explicit ordered frame files
	Dir           string   // directory of frames under Pattern
	RenderCommand string   // external renderer template ({frame}, {out})

	// Pattern is the frame file pattern (default "frame_%03d.png").
	Pattern string

	// Frames is the frame count. Required with RenderCommand; with Dir,
	// zero means probe the directory.
	Frames int

	// Output is the destination path of the sheet PNG.
	Output string

	// FPS is the playback rate for the GIF preview.
	FPS int

	// Derived artifacts.
	GIF         bool
	GIFPath     string // default: Output with .gif extension
	Contact     bool
	ContactPath string // default: Output with _contact.png suffix
	ContactCols int    // 0 = single row

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// FromManifest builds pipeline options from an animation manifest.
func FromManifest(m *manifest.Manifest) Options {
	return Options{
		Dir:           m.Render.Dir,
		RenderCommand: m.Render.Command,
		Pattern:       m.Render.Pattern,
		Frames:        m.Frames,
		Output:        m.Output,
		FPS:           m.FPS,
	}
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	sources := 0
	if len(o.Paths) > 0 {
		sources++
	}
	if o.Dir != "" {
		sources++
	}
	if o.RenderCommand != "" {
		sources++
	}
	if sources == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "a frame source is required (paths, directory, or render command)")
	}
	if sources > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "only one frame source may be set")
	}
	if o.RenderCommand != "" && o.Frames < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "frame count is required with a render command")
	}
	if o.Output == "" {
		return errors.New(errors.ErrCodeInvalidInput, "output path is required")
	}
	if o.FPS == 0 {
		o.FPS = manifest.DefaultFPS
	}
	if o.FPS < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "fps must be >= 1, got %d", o.FPS)
	}
	if o.GIFPath == "" {
		o.GIFPath = replaceExt(o.Output, ".gif")
	}
	if o.ContactPath == "" {
		o.ContactPath = replaceExt(o.Output, "_contact.png")
	}
	o.validated = true
	return nil
}

// replaceExt swaps the .png suffix of path for suffix, or appends it.
func replaceExt(path, suffix string) string {
	return strings.TrimSuffix(path, ".png") + suffix
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Artifacts maps artifact kind to the written file path.
	Artifacts map[string]string

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit reports whether the encoded sheet came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Frames       int
	FrameWidth   int
	FrameHeight  int
	SheetWidth   int
	SheetHeight  int
	RenderTime   time.Duration
	AssembleTime time.Duration
	ArtifactTime time.Duration
}

// logOrDefault returns l, or the package default logger when nil.
func logOrDefault(l *log.Logger) *log.Logger {
	if l != nil {
		return l
	}
	return log.Default()
}
