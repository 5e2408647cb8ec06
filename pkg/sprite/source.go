// Package sprite implements the sprite-sheet compositor.
//
// A sprite sheet is a single wide image holding every frame of an animation
// side by side: frame i (0-based) occupies the column range [i·W, (i+1)·W).
// Frames come from a [Source], a frame-index-addressable accessor over an
// ordered sequence of equally sized RGBA images. Sources decode lazily, one
// frame at a time, so peak memory stays near one frame plus the accumulating
// sheet buffer instead of the whole sequence.
//
// Frames are non-premultiplied 8-bit RGBA ([image.NRGBA]); this keeps RGB
// samples byte-exact for fully transparent pixels, which a premultiplied
// representation would zero out.
package sprite

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	"spriteforge/pkg/errors"
)

// DefaultPattern is the file name pattern frames are rendered under.
// Frame files are 1-indexed: frame_001.png is the first frame.
const DefaultPattern = "frame_%03d.png"

// Source is a frame-index-addressable accessor over an ordered frame
// sequence. Implementations must return frames in a stable order: Frame(i)
// always yields the same image for the same i.
type Source interface {
	// Len returns the number of frames in the sequence.
	Len() int

	// Frame decodes and returns frame i (0-based).
	// The returned image is owned by the caller; the source keeps no
	// reference, so it can be released as soon as it has been consumed.
	Frame(ctx context.Context, i int) (*image.NRGBA, error)
}

// =============================================================================
// FileSource - explicit ordered list of frame files
// =============================================================================

// FileSource reads frames from an explicit ordered list of image files.
type FileSource struct {
	paths []string
}

// NewFileSource creates a source over the given frame files, in order.
func NewFileSource(paths []string) *FileSource {
	return &FileSource{paths: paths}
}

// Paths returns the frame file paths in sequence order.
func (s *FileSource) Paths() []string { return s.paths }

// Len returns the number of frames.
func (s *FileSource) Len() int { return len(s.paths) }

// Frame decodes frame i from its file.
func (s *FileSource) Frame(ctx context.Context, i int) (*image.NRGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if i < 0 || i >= len(s.paths) {
		return nil, errors.New(errors.ErrCodeLoadFailure, "frame index %d out of range [0,%d)", i, len(s.paths))
	}
	return LoadFrame(s.paths[i])
}

// =============================================================================
// DirSource - frames rendered into a directory under a name pattern
// =============================================================================

// NewDirSource creates a source over count frames stored in dir under the
// given printf-style pattern (1-indexed, e.g. "frame_%03d.png"). If pattern
// is empty, DefaultPattern is used. If count is zero, the directory is probed
// for consecutive frame files starting at frame_001.
func NewDirSource(dir, pattern string, count int) (*FileSource, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if count == 0 {
		count = probeFrames(dir, pattern)
	}
	if count == 0 {
		return nil, errors.New(errors.ErrCodeEmptySequence, "no frames matching %q in %s", pattern, dir)
	}
	paths := make([]string, count)
	for i := range paths {
		paths[i] = filepath.Join(dir, fmt.Sprintf(pattern, i+1))
	}
	return NewFileSource(paths), nil
}

// probeFrames counts consecutive frame files starting at index 1.
// A gap in the numbering ends the sequence; the original renderer writes
// frames strictly in increasing order, so a gap means a partial render.
func probeFrames(dir, pattern string) int {
	n := 0
	for {
		path := filepath.Join(dir, fmt.Sprintf(pattern, n+1))
		if _, err := os.Stat(path); err != nil {
			return n
		}
		n++
	}
}

// =============================================================================
// MemSource - in-memory frames
// =============================================================================

// MemSource serves frames already held in memory.
// Used by the preview server and in tests.
type MemSource struct {
	frames []*image.NRGBA
}

// NewMemSource creates a source over in-memory frames, in order.
func NewMemSource(frames []*image.NRGBA) *MemSource {
	return &MemSource{frames: frames}
}

// Len returns the number of frames.
func (s *MemSource) Len() int { return len(s.frames) }

// Frame returns frame i.
func (s *MemSource) Frame(ctx context.Context, i int) (*image.NRGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if i < 0 || i >= len(s.frames) {
		return nil, errors.New(errors.ErrCodeLoadFailure, "frame index %d out of range [0,%d)", i, len(s.frames))
	}
	return s.frames[i], nil
}

// =============================================================================
// Decoding
// =============================================================================

// LoadFrame reads and decodes a single frame file into NRGBA.
// Failures are reported as LOAD_FAILURE; a missing or undecodable frame is
// fatal for the whole assembly, never skipped.
func LoadFrame(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLoadFailure, err, "open frame %s", path)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLoadFailure, err, "decode frame %s", path)
	}
	return ToNRGBA(img), nil
}

// ToNRGBA returns img as a tight NRGBA buffer with bounds anchored at the
// origin. If img is already such a buffer it is returned unchanged; otherwise
// the pixels are copied. The PNG decoder produces *image.NRGBA for RGBA
// inputs, so the common path is a no-op.
func ToNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
