package sprite

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"spriteforge/pkg/errors"
)

// solidFrame returns a w×h frame filled with c.
func solidFrame(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestAssembleLayout(t *testing.T) {
	// Three 2x2 frames filled with (i,0,0,255) must land in disjoint column
	// ranges with all channels intact.
	frames := []*image.NRGBA{
		solidFrame(2, 2, color.NRGBA{1, 0, 0, 255}),
		solidFrame(2, 2, color.NRGBA{2, 0, 0, 255}),
		solidFrame(2, 2, color.NRGBA{3, 0, 0, 255}),
	}

	sheet, err := Assemble(context.Background(), NewMemSource(frames))
	if err != nil {
		t.Fatalf("Assemble error: %v", err)
	}

	if got := sheet.Rect; got.Dx() != 6 || got.Dy() != 2 {
		t.Fatalf("sheet size = %dx%d, want 6x2", got.Dx(), got.Dy())
	}

	for y := 0; y < 2; y++ {
		for x := 0; x < 6; x++ {
			want := color.NRGBA{uint8(x/2 + 1), 0, 0, 255}
			if got := sheet.NRGBAAt(x, y); got != want {
				t.Errorf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestAssembleExactCopy(t *testing.T) {
	// Per-pixel varying frames, including zero-alpha pixels whose RGB
	// samples must survive untouched.
	mk := func(seed uint8) *image.NRGBA {
		img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
		for y := 0; y < 2; y++ {
			for x := 0; x < 3; x++ {
				img.SetNRGBA(x, y, color.NRGBA{
					R: seed + uint8(x),
					G: seed + uint8(y),
					B: seed ^ uint8(x*7+y),
					A: uint8(x+y) * 60, // includes alpha 0 at (0,0)
				})
			}
		}
		return img
	}
	frames := []*image.NRGBA{mk(10), mk(100)}

	sheet, err := Assemble(context.Background(), NewMemSource(frames))
	if err != nil {
		t.Fatalf("Assemble error: %v", err)
	}

	for i, f := range frames {
		for y := 0; y < 2; y++ {
			for x := 0; x < 3; x++ {
				want := f.NRGBAAt(x, y)
				got := sheet.NRGBAAt(i*3+x, y)
				if got != want {
					t.Errorf("frame %d pixel (%d,%d) = %v, want %v", i+1, x, y, got, want)
				}
			}
		}
	}
}

func TestAssembleSingleFrame(t *testing.T) {
	frame := solidFrame(4, 3, color.NRGBA{9, 8, 7, 6})
	sheet, err := Assemble(context.Background(), NewMemSource([]*image.NRGBA{frame}))
	if err != nil {
		t.Fatalf("Assemble error: %v", err)
	}
	if sheet.Rect.Dx() != 4 || sheet.Rect.Dy() != 3 {
		t.Fatalf("sheet size = %dx%d, want 4x3", sheet.Rect.Dx(), sheet.Rect.Dy())
	}
	if !bytes.Equal(sheet.Pix, frame.Pix) {
		t.Error("single-frame sheet is not a direct copy of the frame")
	}
}

func TestAssembleOnePixelFrames(t *testing.T) {
	var frames []*image.NRGBA
	for i := 0; i < 5; i++ {
		frames = append(frames, solidFrame(1, 1, color.NRGBA{uint8(i), 0, 0, 255}))
	}
	sheet, err := Assemble(context.Background(), NewMemSource(frames))
	if err != nil {
		t.Fatalf("Assemble error: %v", err)
	}
	if sheet.Rect.Dx() != 5 || sheet.Rect.Dy() != 1 {
		t.Fatalf("sheet size = %dx%d, want 5x1", sheet.Rect.Dx(), sheet.Rect.Dy())
	}
	for i := 0; i < 5; i++ {
		if got := sheet.NRGBAAt(i, 0); got.R != uint8(i) {
			t.Errorf("frame %d pixel R = %d, want %d", i+1, got.R, i)
		}
	}
}

func TestAssembleEmptySequence(t *testing.T) {
	_, err := Assemble(context.Background(), NewMemSource(nil))
	if !errors.Is(err, errors.ErrCodeEmptySequence) {
		t.Errorf("error = %v, want EMPTY_SEQUENCE", err)
	}
}

func TestAssembleDimensionMismatch(t *testing.T) {
	frames := []*image.NRGBA{
		solidFrame(2, 2, color.NRGBA{A: 255}),
		solidFrame(3, 2, color.NRGBA{A: 255}),
	}
	_, err := Assemble(context.Background(), NewMemSource(frames))
	if !errors.Is(err, errors.ErrCodeDimensionMismatch) {
		t.Errorf("error = %v, want DIMENSION_MISMATCH", err)
	}
}

func TestAssembleLoadFailureAborts(t *testing.T) {
	dir := t.TempDir()
	frame := solidFrame(2, 2, color.NRGBA{A: 255})
	if err := WriteSheet(frame, filepath.Join(dir, "frame_001.png")); err != nil {
		t.Fatal(err)
	}
	// frame_002.png is missing; frame_003.png exists but must never be reached.
	if err := WriteSheet(frame, filepath.Join(dir, "frame_003.png")); err != nil {
		t.Fatal(err)
	}

	src := NewFileSource([]string{
		filepath.Join(dir, "frame_001.png"),
		filepath.Join(dir, "frame_002.png"),
		filepath.Join(dir, "frame_003.png"),
	})
	out := filepath.Join(dir, "out", "sheet.png")
	err := AssembleToFile(context.Background(), src, out)
	if !errors.Is(err, errors.ErrCodeLoadFailure) {
		t.Fatalf("error = %v, want LOAD_FAILURE", err)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Error("partial sheet was written despite load failure")
	}
}

func TestAssembleToFileIdempotent(t *testing.T) {
	dir := t.TempDir()
	frames := []*image.NRGBA{
		solidFrame(2, 2, color.NRGBA{1, 0, 0, 255}),
		solidFrame(2, 2, color.NRGBA{2, 0, 0, 255}),
	}
	src := NewMemSource(frames)
	out := filepath.Join(dir, "nested", "sheet.png")

	if err := AssembleToFile(context.Background(), src, out); err != nil {
		t.Fatalf("first run: %v", err)
	}
	first, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}

	if err := AssembleToFile(context.Background(), src, out); err != nil {
		t.Fatalf("second run: %v", err)
	}
	second, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(first, second) {
		t.Error("two runs over the same frames produced different output files")
	}
}

func TestAssembleContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	frames := []*image.NRGBA{solidFrame(1, 1, color.NRGBA{}), solidFrame(1, 1, color.NRGBA{})}
	if _, err := Assemble(ctx, NewMemSource(frames)); err == nil {
		t.Error("expected error from cancelled context")
	}
}

func TestWriteSheetRoundTrip(t *testing.T) {
	dir := t.TempDir()
	want := solidFrame(3, 2, color.NRGBA{12, 34, 56, 78})
	path := filepath.Join(dir, "sheet.png")
	if err := WriteSheet(want, path); err != nil {
		t.Fatalf("WriteSheet error: %v", err)
	}

	got, err := LoadFrame(path)
	if err != nil {
		t.Fatalf("LoadFrame error: %v", err)
	}
	if !bytes.Equal(got.Pix, want.Pix) {
		t.Error("decoded sheet differs from the encoded image")
	}
}

func TestWriteSheetInvalidDestination(t *testing.T) {
	dir := t.TempDir()
	// A regular file where the parent directory should be.
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	err := WriteSheet(solidFrame(1, 1, color.NRGBA{}), filepath.Join(blocker, "sheet.png"))
	if !errors.Is(err, errors.ErrCodeWriteFailure) {
		t.Errorf("error = %v, want WRITE_FAILURE", err)
	}
}
