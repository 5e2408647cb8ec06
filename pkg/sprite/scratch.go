package sprite

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"spriteforge/pkg/errors"
)

// Scratch is an ephemeral, isolated directory for per-frame intermediate
// files. Each Scratch gets a uuid-named directory under the system temp dir
// so concurrent runs never collide. Callers must Close it when done; Close
// removes the directory and everything in it, on success or failure alike.
type Scratch struct {
	dir string
}

// NewScratch creates a fresh scratch directory.
func NewScratch() (*Scratch, error) {
	dir := filepath.Join(os.TempDir(), "spriteforge-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create scratch directory")
	}
	return &Scratch{dir: dir}, nil
}

// Dir returns the scratch directory path.
func (s *Scratch) Dir() string { return s.dir }

// Path returns the path of name inside the scratch directory.
func (s *Scratch) Path(name string) string { return filepath.Join(s.dir, name) }

// Close removes the scratch directory and all its contents.
func (s *Scratch) Close() error {
	return os.RemoveAll(s.dir)
}
