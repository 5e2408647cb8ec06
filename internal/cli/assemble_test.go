package cli

import (
	"os"
	"path/filepath"
	"testing"

	"spriteforge/pkg/errors"
)

// writeTestManifest writes a minimal animation manifest and returns its path.
func writeTestManifest(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "walk.toml")
	content := `name = "walk"
frames = 8
fps = 10
output = "walk_sheet.png"

[render]
command = "render {frame} {out}"
dir = "` + filepath.ToSlash(dir) + `"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestAssembleOptionsDefaults(t *testing.T) {
	popts, err := assembleOptions("frames", &assembleOpts{})
	if err != nil {
		t.Fatalf("assembleOptions() error = %v", err)
	}
	if popts.Dir != "frames" {
		t.Errorf("Dir = %q, want frames", popts.Dir)
	}
	if popts.Output != "sheet.png" {
		t.Errorf("Output = %q, want sheet.png", popts.Output)
	}
	if popts.Frames != 0 {
		t.Errorf("Frames = %d, want 0 (probe)", popts.Frames)
	}
}

func TestAssembleOptionsNoSource(t *testing.T) {
	_, err := assembleOptions("", &assembleOpts{})
	if err == nil {
		t.Fatal("assembleOptions() without a directory should fail")
	}
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error code = %v, want INVALID_INPUT", errors.GetCode(err))
	}
}

func TestAssembleOptionsManifest(t *testing.T) {
	dir := t.TempDir()
	path := writeTestManifest(t, dir)

	popts, err := assembleOptions("", &assembleOpts{manifestPath: path})
	if err != nil {
		t.Fatalf("assembleOptions() error = %v", err)
	}
	if popts.Dir != dir {
		t.Errorf("Dir = %q, want %q", popts.Dir, dir)
	}
	if popts.Output != "walk_sheet.png" {
		t.Errorf("Output = %q, want walk_sheet.png", popts.Output)
	}
	if popts.Frames != 8 {
		t.Errorf("Frames = %d, want 8", popts.Frames)
	}
	if popts.FPS != 10 {
		t.Errorf("FPS = %d, want 10", popts.FPS)
	}
	// assemble never shells out to a renderer, even if the manifest has one.
	if popts.RenderCommand != "" {
		t.Errorf("RenderCommand = %q, want empty", popts.RenderCommand)
	}
}

func TestAssembleOptionsFlagsWin(t *testing.T) {
	dir := t.TempDir()
	path := writeTestManifest(t, dir)

	popts, err := assembleOptions("override", &assembleOpts{
		manifestPath: path,
		output:       "other.png",
		count:        4,
		fps:          24,
	})
	if err != nil {
		t.Fatalf("assembleOptions() error = %v", err)
	}
	if popts.Dir != "override" {
		t.Errorf("Dir = %q, want override", popts.Dir)
	}
	if popts.Output != "other.png" {
		t.Errorf("Output = %q, want other.png", popts.Output)
	}
	if popts.Frames != 4 {
		t.Errorf("Frames = %d, want 4", popts.Frames)
	}
	if popts.FPS != 24 {
		t.Errorf("FPS = %d, want 24", popts.FPS)
	}
}
