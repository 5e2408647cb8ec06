// Package manifest loads animation manifests.
//
// A manifest is a TOML file describing one animation asset: how many frames
// it has, how fast it plays, where the assembled sprite sheet goes, and
// optionally how to invoke the external renderer that produces the frames.
//
// Example spriteforge.toml:
//
//	name = "glass-ball"
//	frames = 25
//	fps = 12
//	output = "assets/themes/classic/ball.png"
//
//	[render]
//	command = "blender --background ball.blend --python render.py -- {frame} {out}"
package manifest

import (
	"github.com/BurntSushi/toml"

	"spriteforge/pkg/errors"
)

// Defaults mirror the classic glass-ball asset this tool grew out of.
const (
	DefaultFrames = 25
	DefaultFPS    = 12
)

// Manifest describes one animation asset.
type Manifest struct {
	// Name identifies the animation (used in logs and the preview page title).
	Name string `toml:"name"`

	// Frames is the number of animation frames (N >= 1).
	Frames int `toml:"frames"`

	// FPS is the playback rate used by preview and GIF export.
	FPS int `toml:"fps"`

	// Output is the destination path of the assembled sprite sheet PNG.
	Output string `toml:"output"`

	// Render configures the external frame renderer (optional).
	Render Render `toml:"render"`
}

// Render configures where frames come from.
// Either Command (frames are rendered on demand into a scratch directory) or
// Dir (frames already exist on disk) must be set for the render pipeline;
// plain assembly only needs Dir.
type Render struct {
	// Command is the renderer invocation template, run once per frame.
	// Placeholders: {frame} expands to the 1-based frame index, {out} to the
	// frame's output path.
	Command string `toml:"command"`

	// Dir is the directory holding pre-rendered frames.
	Dir string `toml:"dir"`

	// Pattern is the printf-style frame file pattern (default "frame_%03d.png").
	Pattern string `toml:"pattern"`
}

// Load reads and validates a manifest file, applying defaults.
func Load(path string) (*Manifest, error) {
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode manifest %s", path)
	}
	m.SetDefaults()
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// SetDefaults fills unset fields with their defaults.
func (m *Manifest) SetDefaults() {
	if m.Frames == 0 {
		m.Frames = DefaultFrames
	}
	if m.FPS == 0 {
		m.FPS = DefaultFPS
	}
	if m.Name == "" {
		m.Name = "animation"
	}
}

// Validate checks the manifest for structural errors.
func (m *Manifest) Validate() error {
	if m.Frames < 1 {
		return errors.New(errors.ErrCodeInvalidManifest, "frames must be >= 1, got %d", m.Frames)
	}
	if m.FPS < 1 {
		return errors.New(errors.ErrCodeInvalidManifest, "fps must be >= 1, got %d", m.FPS)
	}
	if m.Output == "" {
		return errors.New(errors.ErrCodeInvalidManifest, "output path is required")
	}
	return nil
}
