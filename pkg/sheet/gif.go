package sheet

import (
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"os"
	"path/filepath"

	"spriteforge/pkg/errors"
)

// Animate builds a looping animated GIF from the frames at the given
// playback rate. GIF is palette-based, so pixels are quantized against the
// Plan9 palette with Floyd-Steinberg dithering; this is a preview format,
// not a faithful copy of the sheet.
func Animate(frames []*image.NRGBA, fps int) (*gif.GIF, error) {
	if len(frames) == 0 {
		return nil, errors.New(errors.ErrCodeEmptySequence, "no frames to animate")
	}
	if fps < 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "fps must be >= 1, got %d", fps)
	}
	delay := 100 / fps // GIF delays are in 1/100ths of a second
	if delay < 1 {
		delay = 1
	}

	out := &gif.GIF{LoopCount: 0}
	for _, frame := range frames {
		p := image.NewPaletted(frame.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(p, frame.Bounds(), frame, image.Point{})
		out.Image = append(out.Image, p)
		out.Delay = append(out.Delay, delay)
	}
	return out, nil
}

// WriteGIF encodes the animation to path, creating parent directories.
func WriteGIF(g *gif.GIF, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(errors.ErrCodeWriteFailure, err, "create output directory %s", dir)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailure, err, "create %s", path)
	}
	if err := gif.EncodeAll(f, g); err != nil {
		f.Close()
		return errors.Wrap(errors.ErrCodeWriteFailure, err, "encode gif")
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailure, err, "close %s", path)
	}
	return nil
}
