// Package fsops performs file I/O confined to sandbox roots. Every path is
// validated by package safety before the filesystem is touched.
package fsops

import (
	"os"
	"path/filepath"

	"github.com/petasbytes/datagen-agent/internal/safety"
)

// Sandbox holds the resolved absolute read and write roots.
type Sandbox struct {
	readRoot  string
	writeRoot string
}

// NewSandbox resolves the roots once. Empty readRoot means the working
// directory; empty writeRoot falls back to readRoot.
func NewSandbox(readRoot, writeRoot string) (*Sandbox, error) {
	r, w, err := safety.InitSandboxRoot(readRoot, writeRoot)
	if err != nil {
		return nil, err
	}
	return &Sandbox{readRoot: r, writeRoot: w}, nil
}

// Roots returns the absolute read and write roots.
func (s *Sandbox) Roots() (string, string) {
	return s.readRoot, s.writeRoot
}

// ReadFile reads a file addressed by a path relative to the read root.
// Policy violations come back as safety.ToolError; filesystem errors are
// returned unwrapped so callers can test them with errors.Is.
func (s *Sandbox) ReadFile(relPath string) ([]byte, error) {
	absPath, err := safety.ValidateRelPath(s.readRoot, relPath)
	if err != nil {
		return nil, err
	}

	fi, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return nil, safety.ToolError{Code: safety.CodeNotAFile, Message: "path is a directory"}
	}
	return os.ReadFile(absPath)
}

// WriteFile writes content to a path relative to the write root, creating
// parent directories as needed and truncating any existing file.
func (s *Sandbox) WriteFile(relPath string, content []byte) error {
	absPath, err := safety.ValidateWritePath(s.writeRoot, relPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(absPath, content, 0o644)
}
