package sheet

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"

	"spriteforge/pkg/errors"
	"spriteforge/pkg/sprite"
)

const (
	contactPad   = 8  // padding around each cell
	contactLabel = 14 // label strip height under each frame
)

// ContactSheet lays the frames out in a labeled grid for visual inspection.
// Each cell shows one frame over a checker-free dark background with its
// 1-based index underneath. cols <= 0 picks a single row.
func ContactSheet(frames []*image.NRGBA, cols int) (*image.NRGBA, error) {
	if len(frames) == 0 {
		return nil, errors.New(errors.ErrCodeEmptySequence, "no frames for contact sheet")
	}
	if cols <= 0 || cols > len(frames) {
		cols = len(frames)
	}
	rows := (len(frames) + cols - 1) / cols

	fw, fh := frames[0].Rect.Dx(), frames[0].Rect.Dy()
	cellW := fw + 2*contactPad
	cellH := fh + contactLabel + 2*contactPad

	dc := gg.NewContext(cols*cellW, rows*cellH)
	dc.SetRGB(0.12, 0.12, 0.14)
	dc.Clear()

	for i, frame := range frames {
		if w, h := frame.Rect.Dx(), frame.Rect.Dy(); w != fw || h != fh {
			return nil, errors.New(errors.ErrCodeDimensionMismatch,
				"frame %d is %dx%d, want %dx%d", i+1, w, h, fw, fh)
		}
		cx := (i % cols) * cellW
		cy := (i / cols) * cellH

		dc.DrawImage(frame, cx+contactPad, cy+contactPad)

		dc.SetRGB(0.75, 0.75, 0.78)
		label := fmt.Sprintf("%d", i+1)
		dc.DrawStringAnchored(label, float64(cx+cellW/2), float64(cy+contactPad+fh+contactLabel/2), 0.5, 0.4)
	}
	return sprite.ToNRGBA(dc.Image()), nil
}
