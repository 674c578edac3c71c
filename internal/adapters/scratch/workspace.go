package scratch

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Workspace is a uniquely named scratch directory owned by exactly one
// request. It exists for the lifetime of that request only.
type Workspace struct {
	dir string
}

// New creates a workspace under baseDir, or the system temp directory when
// baseDir is empty.
func New(baseDir string) (*Workspace, error) {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	dir := filepath.Join(baseDir, "classify-event-"+uuid.New().String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create scratch workspace: %w", err)
	}
	return &Workspace{dir: dir}, nil
}

// Dir returns the workspace directory path.
func (w *Workspace) Dir() string {
	return w.dir
}

// Remove tears the workspace down, including any partial downloads. Callers
// defer it so teardown runs on every exit path.
func (w *Workspace) Remove(log *logrus.Logger) {
	if err := os.RemoveAll(w.dir); err != nil {
		log.WithError(err).WithField("path", w.dir).Warn("failed to remove scratch workspace")
	}
}
