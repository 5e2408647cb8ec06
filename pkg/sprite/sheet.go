package sprite

import (
	"context"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"spriteforge/pkg/errors"
)

// Assemble composites the frames of src into a single horizontal sprite
// sheet. Given N frames of identical dimensions W×H it returns an (N·W)×H
// NRGBA image where frame i (0-based) fills the column range [i·W, (i+1)·W),
// every channel copied unchanged: no color-space conversion, no resampling,
// no blending across frame boundaries.
//
// Frames are loaded strictly in increasing index order, one at a time, and
// dropped as soon as they are copied. Every frame must match the first
// frame's dimensions; a mismatch fails with DIMENSION_MISMATCH before the
// sheet layout can be corrupted. An empty sequence fails with EMPTY_SEQUENCE,
// and any frame that cannot be loaded aborts the whole assembly.
func Assemble(ctx context.Context, src Source) (*image.NRGBA, error) {
	n := src.Len()
	if n == 0 {
		return nil, errors.New(errors.ErrCodeEmptySequence, "no frames to composite")
	}

	first, err := src.Frame(ctx, 0)
	if err != nil {
		return nil, loadErr(err, 0)
	}
	w, h := first.Rect.Dx(), first.Rect.Dy()

	// Zeroed buffer: gaps would stay fully transparent, but the loop below
	// covers every column range exactly once.
	sheet := image.NewNRGBA(image.Rect(0, 0, n*w, h))
	copyFrame(sheet, first, 0)

	for i := 1; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		frame, err := src.Frame(ctx, i)
		if err != nil {
			return nil, loadErr(err, i)
		}
		if fw, fh := frame.Rect.Dx(), frame.Rect.Dy(); fw != w || fh != h {
			return nil, errors.New(errors.ErrCodeDimensionMismatch,
				"frame %d is %dx%d, want %dx%d", i+1, fw, fh, w, h)
		}
		copyFrame(sheet, frame, i*w)
	}
	return sheet, nil
}

// copyFrame copies src into dst starting at column col.
// Each frame row is one contiguous run of W×4 samples, so the transfer is a
// single block copy per row. Offsets go through PixOffset and Stride rather
// than assuming tight packing.
func copyFrame(dst, src *image.NRGBA, col int) {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	for y := 0; y < h; y++ {
		si := src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y+y)
		di := dst.PixOffset(col, y)
		copy(dst.Pix[di:di+w*4], src.Pix[si:si+w*4])
	}
}

// loadErr normalizes a frame-load error: already-coded errors and context
// cancellation pass through, anything else becomes LOAD_FAILURE.
func loadErr(err error, i int) error {
	if errors.GetCode(err) != "" || err == context.Canceled || err == context.DeadlineExceeded {
		return err
	}
	return errors.Wrap(errors.ErrCodeLoadFailure, err, "load frame %d", i+1)
}

// WriteSheet encodes img as an RGBA PNG at path, creating parent directories
// as needed. Failures are reported as WRITE_FAILURE.
func WriteSheet(img image.Image, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(errors.ErrCodeWriteFailure, err, "create output directory %s", dir)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailure, err, "create %s", path)
	}
	if err := EncodeSheet(f, img); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailure, err, "close %s", path)
	}
	return nil
}

// EncodeSheet writes img to w as PNG.
func EncodeSheet(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailure, err, "encode sheet")
	}
	return nil
}

// AssembleToFile composites src and writes the sheet PNG to path.
// Nothing is written unless every frame was copied successfully.
func AssembleToFile(ctx context.Context, src Source, path string) error {
	sheet, err := Assemble(ctx, src)
	if err != nil {
		return err
	}
	return WriteSheet(sheet, path)
}
