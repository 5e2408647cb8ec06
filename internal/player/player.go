// Package player opens a desktop window animating a sprite sheet.
//
// The window plays the frames at the configured rate so the asset can be
// judged the way the consuming game will show it, without round-tripping
// through a browser or GIF.
package player

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"spriteforge/pkg/errors"
	"spriteforge/pkg/sprite"
)

// Config describes the sheet to play.
type Config struct {
	SheetPath string // assembled sprite sheet PNG
	Frames    int    // frame count the sheet holds
	FPS       int    // playback rate
	Scale     int    // integer upscale factor for small sprites
	Title     string // window title
}

// game is the ebiten loop advancing through the sheet's frames.
type game struct {
	sheet  *ebiten.Image
	frames int
	fw, fh int
	fps    int
	tick   int
}

// Update advances the animation clock. Ebiten ticks at 60 Hz.
func (g *game) Update() error {
	g.tick++
	return nil
}

// Draw blits the current frame's column range out of the sheet.
func (g *game) Draw(screen *ebiten.Image) {
	idx := (g.tick * g.fps / 60) % g.frames
	r := image.Rect(idx*g.fw, 0, (idx+1)*g.fw, g.fh)
	frame := g.sheet.SubImage(r).(*ebiten.Image)
	screen.DrawImage(frame, nil)
}

// Layout fixes the logical screen to one frame; window scaling is handled
// by ebiten from the window size.
func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.fw, g.fh
}

// Run opens the window and blocks until it is closed.
func Run(cfg Config) error {
	if cfg.Frames < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "frame count must be >= 1, got %d", cfg.Frames)
	}
	if cfg.FPS < 1 {
		cfg.FPS = 12
	}
	if cfg.Scale < 1 {
		cfg.Scale = 4
	}
	if cfg.Title == "" {
		cfg.Title = "spriteforge"
	}

	img, err := sprite.LoadFrame(cfg.SheetPath)
	if err != nil {
		return err
	}
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w%cfg.Frames != 0 {
		return errors.New(errors.ErrCodeInvalidInput,
			"sheet width %d is not divisible by %d frames", w, cfg.Frames)
	}

	g := &game{
		sheet:  ebiten.NewImageFromImage(img),
		frames: cfg.Frames,
		fw:     w / cfg.Frames,
		fh:     h,
		fps:    cfg.FPS,
	}

	ebiten.SetWindowSize(g.fw*cfg.Scale, g.fh*cfg.Scale)
	ebiten.SetWindowTitle(cfg.Title)
	return ebiten.RunGame(g)
}
