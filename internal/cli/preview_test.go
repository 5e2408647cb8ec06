package cli

import (
	"image"
	"strings"
	"testing"
)

func TestFitCells(t *testing.T) {
	tests := []struct {
		name             string
		pw, ph           int
		maxCols, maxRows int
		wantW, wantH     int
	}{
		{
			name: "fits unscaled",
			pw:   16, ph: 16,
			maxCols: 80, maxRows: 24,
			wantW: 16, wantH: 8,
		},
		{
			name: "wide image clamped to columns",
			pw:   160, ph: 16,
			maxCols: 80, maxRows: 24,
			wantW: 80, wantH: 4,
		},
		{
			name: "tall image clamped to rows",
			pw:   16, ph: 160,
			maxCols: 80, maxRows: 10,
			wantW: 2, wantH: 10,
		},
		{
			name: "single pixel",
			pw:   1, ph: 1,
			maxCols: 80, maxRows: 24,
			wantW: 1, wantH: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := fitCells(tt.pw, tt.ph, tt.maxCols, tt.maxRows)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("fitCells(%d, %d, %d, %d) = (%d, %d), want (%d, %d)",
					tt.pw, tt.ph, tt.maxCols, tt.maxRows, w, h, tt.wantW, tt.wantH)
			}
			if w < 1 || h < 1 {
				t.Errorf("fitCells() returned degenerate size %dx%d", w, h)
			}
		})
	}
}

func TestAnsiArtTransparent(t *testing.T) {
	// A fully transparent frame renders as blank cells, never colored blocks.
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	out := ansiArt(img, 80, 24)

	if strings.ContainsAny(out, "▀▄") {
		t.Error("transparent frame should not produce block characters")
	}
}

func TestAnsiArtOpaque(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for p := 3; p < len(img.Pix); p += 4 {
		img.Pix[p-3] = 200 // red
		img.Pix[p] = 255   // opaque
	}
	out := ansiArt(img, 80, 24)

	if !strings.Contains(out, "▀") {
		t.Error("opaque frame should render half-block characters")
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Errorf("4x4 frame should render as 2 terminal rows, got %d", len(lines))
	}
}

func TestHexColor(t *testing.T) {
	if got := string(hexColor(255, 0, 128)); got != "#ff0080" {
		t.Errorf("hexColor(255, 0, 128) = %q, want #ff0080", got)
	}
}
