package scratch

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestNewCreatesUniqueDirectories(t *testing.T) {
	base := t.TempDir()

	first, err := New(base)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	second, err := New(base)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if first.Dir() == second.Dir() {
		t.Errorf("two workspaces share directory %s", first.Dir())
	}
	for _, ws := range []*Workspace{first, second} {
		if info, err := os.Stat(ws.Dir()); err != nil || !info.IsDir() {
			t.Errorf("workspace dir %s not created: %v", ws.Dir(), err)
		}
	}
}

func TestRemoveDeletesContents(t *testing.T) {
	ws, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(ws.Dir(), "downloaded_image.jpg"), []byte("partial"), 0o644); err != nil {
		t.Fatal(err)
	}

	ws.Remove(newTestLogger())

	if _, err := os.Stat(ws.Dir()); !os.IsNotExist(err) {
		t.Errorf("workspace %s still exists after Remove", ws.Dir())
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	ws, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	log := newTestLogger()
	ws.Remove(log)
	ws.Remove(log)
}
