// Package sheet works with assembled sprite sheets.
//
// Where package sprite builds sheets out of frames, this package consumes
// finished sheets: inspecting their geometry, cutting them back into frames,
// and deriving preview artifacts (labeled contact sheets, animated GIFs,
// thumbnails). Derived artifacts are allowed to transform pixels; the
// byte-exact copy contract applies only to the compositor itself.
package sheet

import (
	"image"
	"image/png"
	"os"

	"spriteforge/pkg/errors"
	"spriteforge/pkg/sprite"
)

// Info describes the geometry of an assembled sprite sheet.
type Info struct {
	Path        string `json:"path,omitempty"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Frames      int    `json:"frames"`
	FrameWidth  int    `json:"frame_width"`
	FrameHeight int    `json:"frame_height"`
}

// Inspect reads the geometry of the sheet at path, interpreting it as a
// horizontal strip of equally sized frames. Only the PNG header is
// decoded; pixel data is not read. A sheet whose width is not divisible by
// frames cannot be a valid strip and fails with INVALID_INPUT.
func Inspect(path string, frames int) (*Info, error) {
	if frames < 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "frame count must be >= 1, got %d", frames)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLoadFailure, err, "open sheet %s", path)
	}
	defer f.Close()

	cfg, err := png.DecodeConfig(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLoadFailure, err, "decode sheet %s", path)
	}
	if cfg.Width%frames != 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"sheet width %d is not divisible by %d frames", cfg.Width, frames)
	}
	return &Info{
		Path:        path,
		Width:       cfg.Width,
		Height:      cfg.Height,
		Frames:      frames,
		FrameWidth:  cfg.Width / frames,
		FrameHeight: cfg.Height,
	}, nil
}

// Split cuts a sheet back into its n frames, the inverse of sprite.Assemble.
// Each returned frame is an independent copy.
func Split(img image.Image, n int) ([]*image.NRGBA, error) {
	if n < 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "frame count must be >= 1, got %d", n)
	}
	src := sprite.ToNRGBA(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	if w%n != 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"sheet width %d is not divisible by %d frames", w, n)
	}
	fw := w / n

	frames := make([]*image.NRGBA, n)
	for i := range frames {
		frame := image.NewNRGBA(image.Rect(0, 0, fw, h))
		for y := 0; y < h; y++ {
			si := src.PixOffset(i*fw, y)
			copy(frame.Pix[y*frame.Stride:y*frame.Stride+fw*4], src.Pix[si:si+fw*4])
		}
		frames[i] = frame
	}
	return frames, nil
}

// Load reads a sheet PNG and splits it into n frames.
func Load(path string, n int) ([]*image.NRGBA, error) {
	img, err := sprite.LoadFrame(path)
	if err != nil {
		return nil, err
	}
	return Split(img, n)
}
