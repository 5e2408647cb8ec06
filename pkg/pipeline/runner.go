package pipeline

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"spriteforge/pkg/cache"
	"spriteforge/pkg/errors"
	"spriteforge/pkg/render"
	"spriteforge/pkg/sheet"
	"spriteforge/pkg/sprite"
)

// Runner executes the compositing pipeline.
type Runner struct {
	cache  cache.Cache
	logger *log.Logger
}

// NewRunner creates a pipeline runner. A nil cache disables caching; a nil
// logger falls back to the package default.
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Runner{cache: c, logger: logOrDefault(logger)}
}

// Execute runs the full pipeline and writes every requested artifact.
// On any failure nothing is cached and no sheet is reported; per the error
// model every failure is fatal and nothing is retried.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{Artifacts: map[string]string{}}

	src, cleanup, err := r.frameSource(ctx, &opts, &result.Stats)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	encoded, err := r.assemble(ctx, src, result)
	if err != nil {
		return nil, err
	}

	if err := writeBytes(opts.Output, encoded); err != nil {
		return nil, err
	}
	result.Artifacts[ArtifactSheet] = opts.Output

	if err := r.deriveArtifacts(encoded, &opts, result); err != nil {
		return nil, err
	}
	return result, nil
}

// frameSource resolves the configured frame input into a Source.
// The returned cleanup releases any scratch space the render stage used;
// it must run only after the frames have been consumed.
func (r *Runner) frameSource(ctx context.Context, opts *Options, stats *Stats) (*sprite.FileSource, func(), error) {
	noop := func() {}
	switch {
	case len(opts.Paths) > 0:
		return sprite.NewFileSource(opts.Paths), noop, nil
	case opts.Dir != "":
		src, err := sprite.NewDirSource(opts.Dir, opts.Pattern, opts.Frames)
		return src, noop, err
	default:
		scratch, err := sprite.NewScratch()
		if err != nil {
			return nil, noop, err
		}
		start := time.Now()
		r.logger.Infof("Rendering %d frames", opts.Frames)
		src, err := render.Frames(ctx, render.Options{
			Command: opts.RenderCommand,
			Frames:  opts.Frames,
			Pattern: opts.Pattern,
			Logger:  r.logger,
		}, scratch)
		if err != nil {
			scratch.Close()
			return nil, noop, err
		}
		stats.RenderTime = time.Since(start)
		return src, func() { scratch.Close() }, nil
	}
}

// assemble produces the encoded sheet PNG, consulting the cache first.
// Keys are content hashes of the frame files in order, so any change to any
// frame is a miss.
func (r *Runner) assemble(ctx context.Context, src *sprite.FileSource, result *Result) ([]byte, error) {
	key, err := r.sheetKey(src)
	if err != nil {
		return nil, err
	}
	if data, hit, cerr := r.cache.Get(ctx, key); cerr == nil && hit {
		r.logger.Debug("Sheet cache hit")
		result.CacheHit = true
		if err := r.fillStats(data, src.Len(), &result.Stats); err != nil {
			return nil, err
		}
		return data, nil
	}

	start := time.Now()
	img, err := sprite.Assemble(ctx, src)
	if err != nil {
		return nil, err
	}
	result.Stats.AssembleTime = time.Since(start)
	result.Stats.Frames = src.Len()
	result.Stats.SheetWidth = img.Rect.Dx()
	result.Stats.SheetHeight = img.Rect.Dy()
	result.Stats.FrameWidth = img.Rect.Dx() / src.Len()
	result.Stats.FrameHeight = img.Rect.Dy()

	var buf bytes.Buffer
	if err := sprite.EncodeSheet(&buf, img); err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, key, buf.Bytes(), cache.DefaultTTL); err != nil {
		r.logger.Debugf("Cache write failed: %v", err)
	}
	return buf.Bytes(), nil
}

// sheetKey hashes the frame file contents, in order, into a cache key.
func (r *Runner) sheetKey(src *sprite.FileSource) (string, error) {
	hashes := make([]string, 0, src.Len())
	for _, path := range src.Paths() {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeLoadFailure, err, "read frame %s", path)
		}
		hashes = append(hashes, cache.Hash(data))
	}
	return cache.SheetKey(hashes), nil
}

// fillStats derives geometry stats from an already-encoded sheet.
func (r *Runner) fillStats(encoded []byte, n int, stats *Stats) error {
	img, err := decodeSheet(encoded)
	if err != nil {
		return err
	}
	stats.Frames = n
	stats.SheetWidth = img.Rect.Dx()
	stats.SheetHeight = img.Rect.Dy()
	stats.FrameWidth = img.Rect.Dx() / n
	stats.FrameHeight = img.Rect.Dy()
	return nil
}

// deriveArtifacts writes the optional GIF and contact-sheet previews.
func (r *Runner) deriveArtifacts(encoded []byte, opts *Options, result *Result) error {
	if !opts.GIF && !opts.Contact {
		return nil
	}
	start := time.Now()

	img, err := decodeSheet(encoded)
	if err != nil {
		return err
	}
	frames, err := sheet.Split(img, result.Stats.Frames)
	if err != nil {
		return err
	}

	if opts.GIF {
		g, err := sheet.Animate(frames, opts.FPS)
		if err != nil {
			return err
		}
		if err := sheet.WriteGIF(g, opts.GIFPath); err != nil {
			return err
		}
		result.Artifacts[ArtifactGIF] = opts.GIFPath
	}
	if opts.Contact {
		grid, err := sheet.ContactSheet(frames, opts.ContactCols)
		if err != nil {
			return err
		}
		if err := sprite.WriteSheet(grid, opts.ContactPath); err != nil {
			return err
		}
		result.Artifacts[ArtifactContact] = opts.ContactPath
	}
	result.Stats.ArtifactTime = time.Since(start)
	return nil
}

// decodeSheet decodes an encoded sheet PNG back into NRGBA.
func decodeSheet(encoded []byte) (*image.NRGBA, error) {
	img, err := png.Decode(bytes.NewReader(encoded))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode assembled sheet")
	}
	return sprite.ToNRGBA(img), nil
}

// writeBytes writes data to path, creating parent directories.
func writeBytes(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(errors.ErrCodeWriteFailure, err, "create output directory %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailure, err, "write %s", path)
	}
	return nil
}
