package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"spriteforge/pkg/errors"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spriteforge.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeManifest(t, `
name = "glass-ball"
frames = 25
fps = 12
output = "assets/ball.png"

[render]
command = "render {frame} {out}"
pattern = "frame_%03d.png"
`)

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if m.Name != "glass-ball" {
		t.Errorf("Name = %q, want %q", m.Name, "glass-ball")
	}
	if m.Frames != 25 || m.FPS != 12 {
		t.Errorf("Frames/FPS = %d/%d, want 25/12", m.Frames, m.FPS)
	}
	if m.Render.Command != "render {frame} {out}" {
		t.Errorf("Render.Command = %q", m.Render.Command)
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeManifest(t, `output = "sheet.png"`)

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if m.Frames != DefaultFrames {
		t.Errorf("Frames = %d, want default %d", m.Frames, DefaultFrames)
	}
	if m.FPS != DefaultFPS {
		t.Errorf("FPS = %d, want default %d", m.FPS, DefaultFPS)
	}
	if m.Name != "animation" {
		t.Errorf("Name = %q, want %q", m.Name, "animation")
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing output", `frames = 10`},
		{"negative frames", "frames = -1\noutput = \"x.png\""},
		{"negative fps", "fps = -5\noutput = \"x.png\""},
		{"malformed toml", `frames = [`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeManifest(t, tt.content))
			if !errors.Is(err, errors.ErrCodeInvalidManifest) {
				t.Errorf("error = %v, want INVALID_MANIFEST", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeInvalidManifest) {
		t.Errorf("error = %v, want INVALID_MANIFEST", err)
	}
}
