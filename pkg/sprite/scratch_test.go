package sprite

import (
	"os"
	"strings"
	"testing"
)

func TestScratchLifecycle(t *testing.T) {
	s, err := NewScratch()
	if err != nil {
		t.Fatalf("NewScratch error: %v", err)
	}

	if !strings.HasPrefix(s.Path("frame_001.png"), s.Dir()) {
		t.Error("Path should resolve inside the scratch directory")
	}

	if err := os.WriteFile(s.Path("frame_001.png"), []byte("x"), 0644); err != nil {
		t.Fatalf("write into scratch: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if _, err := os.Stat(s.Dir()); !os.IsNotExist(err) {
		t.Error("scratch directory still exists after Close")
	}
}

func TestScratchIsolated(t *testing.T) {
	a, err := NewScratch()
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	b, err := NewScratch()
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	if a.Dir() == b.Dir() {
		t.Error("two scratch spaces share a directory")
	}
}
