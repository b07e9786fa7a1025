// Package safety confines model-chosen file paths to the sandbox roots.
package safety

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ToolError is a machine-readable error body surfaced back to the agent as JSON.
type ToolError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error returns a compact, single-line JSON string to keep tool_result payloads small.
func (e ToolError) Error() string {
	b, _ := json.Marshal(e)
	return string(b)
}

const (
	CodeOutsideSandbox = "ERR_PATH_OUTSIDE_SANDBOX"
	CodeDeniedRead     = "ERR_DENIED_READ"
	CodeDeniedWrite    = "ERR_DENIED_WRITE"
	CodeNotAFile       = "ERR_NOT_A_FILE"
)

// Directories the agent may never touch, relative to the root.
var deniedDirs = []string{".git", ".agent"}

// Basenames the agent may never overwrite, at any depth.
var deniedWriteNames = map[string]struct{}{
	"go.mod": {},
	"go.sum": {},
}

// InitSandboxRoot resolves absolute sandbox roots for read and write operations.
// An empty readRoot means the working directory; an empty writeRoot means readRoot.
func InitSandboxRoot(readRoot, writeRoot string) (absRead string, absWrite string, err error) {
	if readRoot == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", "", fmt.Errorf("getwd: %w", err)
		}
		readRoot = cwd
	}
	if writeRoot == "" {
		writeRoot = readRoot
	}

	if absRead, err = canonicalRoot(readRoot); err != nil {
		return "", "", fmt.Errorf("abs(readRoot): %w", err)
	}
	if absWrite, err = canonicalRoot(writeRoot); err != nil {
		return "", "", fmt.Errorf("abs(writeRoot): %w", err)
	}
	return absRead, absWrite, nil
}

// canonicalRoot makes root absolute and resolves symlinks when it exists,
// so later boundary checks compare like with like.
func canonicalRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	if r, err := filepath.EvalSymlinks(abs); err == nil {
		return r, nil
	}
	return abs, nil
}

// ValidateRelPath resolves relPath for reading under absRoot. Absolute inputs,
// parent traversal, symlink escapes and reads under .git/ or .agent/ are rejected
// with a ToolError.
func ValidateRelPath(absRoot, relPath string) (string, error) {
	abs, rel, err := resolve(absRoot, relPath)
	if err != nil {
		return "", err
	}
	if underDeniedDir(rel) {
		return "", ToolError{Code: CodeDeniedRead, Message: "reads under .git/ or .agent/ are not allowed"}
	}
	return abs, nil
}

// ValidateWritePath resolves relPath for writing under absRoot. On top of the
// read rules it refuses module files (go.mod, go.sum) at any depth.
func ValidateWritePath(absRoot, relPath string) (string, error) {
	abs, rel, err := resolve(absRoot, relPath)
	if err != nil {
		return "", err
	}
	if underDeniedDir(rel) {
		return "", ToolError{Code: CodeDeniedWrite, Message: "writes under .git/ or .agent/ are not allowed"}
	}
	if _, ok := deniedWriteNames[filepath.Base(rel)]; ok {
		return "", ToolError{Code: CodeDeniedWrite, Message: fmt.Sprintf("writes to %s are not allowed", filepath.Base(rel))}
	}
	return abs, nil
}

// resolve joins relPath onto absRoot, follows symlinks as far as the path
// exists and returns the absolute candidate plus its slash-separated form
// relative to the root.
func resolve(absRoot, relPath string) (string, string, error) {
	if filepath.IsAbs(relPath) {
		return "", "", ToolError{Code: CodeOutsideSandbox, Message: "absolute paths are not allowed"}
	}

	candidate := filepath.Join(absRoot, filepath.Clean(relPath))

	// Resolve the whole candidate when it exists; otherwise resolve the parent
	// and rejoin the leaf, which still exposes an escape through a symlinked
	// directory for files that are about to be created.
	if resolved, err := filepath.EvalSymlinks(candidate); err == nil {
		candidate = resolved
	} else if parent, err := filepath.EvalSymlinks(filepath.Dir(candidate)); err == nil {
		candidate = filepath.Join(parent, filepath.Base(candidate))
	}

	rel, err := filepath.Rel(absRoot, candidate)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", "", ToolError{Code: CodeOutsideSandbox, Message: "requested path resolves outside the sandbox root"}
	}
	return candidate, filepath.ToSlash(rel), nil
}

func underDeniedDir(rel string) bool {
	for _, d := range deniedDirs {
		if rel == d || strings.HasPrefix(rel, d+"/") {
			return true
		}
	}
	return false
}
