package sheet

import (
	"image"

	"github.com/disintegration/imaging"
)

// Thumbnail scales img down to fit within maxW×maxH, preserving aspect
// ratio. Sprite frames are usually pixel art, so nearest-neighbor keeps the
// hard edges instead of smearing them. Images already within bounds are
// returned at their original size.
func Thumbnail(img image.Image, maxW, maxH int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() <= maxW && b.Dy() <= maxH {
		return imaging.Clone(img)
	}
	return imaging.Fit(img, maxW, maxH, imaging.NearestNeighbor)
}
