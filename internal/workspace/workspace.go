package workspace

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	ferrors "git.home.luguber.info/inful/plugindocs/internal/foundation/errors"
	"git.home.luguber.info/inful/plugindocs/internal/logfields"
)

// ErrNotCreated is returned when a path is requested before Create.
var ErrNotCreated = errors.New("workspace not created")

// Manager handles workspace operations (both temporary and persistent).
type Manager struct {
	baseDir    string
	dir        string
	persistent bool
	now        func() time.Time
}

// NewManager creates a workspace manager with an ephemeral timestamped directory under baseDir.
func NewManager(baseDir string) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	return &Manager{baseDir: baseDir, now: time.Now}
}

// NewPersistentManager creates a workspace manager rooted at dir.
// The directory is never removed by Cleanup.
func NewPersistentManager(dir string) *Manager {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "plugindocs")
	}
	return &Manager{baseDir: dir, dir: dir, persistent: true, now: time.Now}
}

// Create ensures the workspace directory exists.
func (m *Manager) Create() error {
	if !m.persistent {
		m.dir = filepath.Join(m.baseDir, "plugindocs-"+m.now().Format("20060102-150405"))
	}
	if err := os.MkdirAll(m.dir, 0o750); err != nil {
		return ferrors.FileSystemError("failed to create workspace directory").
			WithCause(err).
			WithContext("path", m.dir).
			Build()
	}
	if m.persistent {
		slog.Debug("Using persistent workspace", logfields.Path(m.dir))
	} else {
		slog.Info("Created workspace", logfields.Path(m.dir))
	}
	return nil
}

// Path returns the workspace directory, empty before Create in ephemeral mode.
func (m *Manager) Path() string {
	return m.dir
}

// Persistent reports whether the workspace survives Cleanup.
func (m *Manager) Persistent() bool {
	return m.persistent
}

// CheckoutPath is the location of the named repository inside the workspace.
// The directory itself is left for the git client to create.
func (m *Manager) CheckoutPath(name string) (string, error) {
	if m.dir == "" {
		return "", ErrNotCreated
	}
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return "", ferrors.ValidationError(fmt.Sprintf("invalid checkout name %q", name)).Build()
	}
	return filepath.Join(m.dir, name), nil
}

// Cleanup removes an ephemeral workspace. Persistent workspaces are kept for the next run.
func (m *Manager) Cleanup() error {
	if m.dir == "" {
		return nil
	}
	if m.persistent {
		slog.Debug("Skipping cleanup for persistent workspace", logfields.Path(m.dir))
		return nil
	}
	if err := os.RemoveAll(m.dir); err != nil {
		return fmt.Errorf("failed to cleanup workspace: %w", err)
	}
	slog.Info("Cleaned up workspace", logfields.Path(m.dir))
	m.dir = ""
	return nil
}
