package fsops_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/petasbytes/datagen-agent/internal/fsops"
	"github.com/petasbytes/datagen-agent/internal/safety"
)

func newSandbox(t *testing.T) (*fsops.Sandbox, string) {
	t.Helper()
	dir := t.TempDir()
	sb, err := fsops.NewSandbox(dir, "")
	if err != nil {
		t.Fatalf("NewSandbox: %v", err)
	}
	root, _ := sb.Roots()
	return sb, root
}

func TestNewSandbox_WriteRootDefaultsToReadRoot(t *testing.T) {
	sb, root := newSandbox(t)
	_, w := sb.Roots()
	if w != root {
		t.Fatalf("write root %q, want %q", w, root)
	}
}

func TestReadFile_HappyPath(t *testing.T) {
	sb, root := newSandbox(t)
	want := `{"users":[]}`
	if err := os.WriteFile(filepath.Join(root, "a.json"), []byte(want), 0o644); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	got, err := sb.ReadFile("a.json")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != want {
		t.Fatalf("content mismatch: got %q want %q", got, want)
	}
}

func TestReadFile_MissingIsErrNotExist(t *testing.T) {
	sb, _ := newSandbox(t)
	_, err := sb.ReadFile("nope.json")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestReadFile_DirectoryIsNotAFile(t *testing.T) {
	sb, root := newSandbox(t)
	if err := os.MkdirAll(filepath.Join(root, "sub"), 0o755); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	_, err := sb.ReadFile("sub")
	var te safety.ToolError
	if !errors.As(err, &te) {
		t.Fatalf("expected ToolError, got %T: %v", err, err)
	}
	if te.Code != safety.CodeNotAFile {
		t.Fatalf("unexpected code: %s", te.Code)
	}
}

func TestWriteFile_HappyPathNested(t *testing.T) {
	sb, root := newSandbox(t)
	if err := sb.WriteFile(filepath.Join("nested", "dir", "out.json"), []byte("{}")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(root, "nested", "dir", "out.json"))
	if err != nil {
		t.Fatalf("verify read: %v", err)
	}
	if string(b) != "{}" {
		t.Fatalf("content mismatch: got %q", b)
	}
}

func TestWriteFile_Overwrites(t *testing.T) {
	sb, root := newSandbox(t)
	p := filepath.Join(root, "out.json")
	if err := os.WriteFile(p, []byte(`{"long":"previous content"}`), 0o644); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if err := sb.WriteFile("out.json", []byte("{}")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	b, _ := os.ReadFile(p)
	if string(b) != "{}" {
		t.Fatalf("expected truncating overwrite, got %q", b)
	}
}

func TestErrorPropagation_PolicyViolations(t *testing.T) {
	sb, root := newSandbox(t)
	if err := os.Mkdir(filepath.Join(root, ".agent"), 0o755); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, ".agent", "events.jsonl"), []byte("{}\n"), 0o644); err != nil {
		t.Fatalf("prepare: %v", err)
	}

	cases := []struct {
		name string
		run  func() error
		code string
	}{
		{"read denylist", func() error { _, err := sb.ReadFile(".agent/events.jsonl"); return err }, safety.CodeDeniedRead},
		{"read traversal", func() error { _, err := sb.ReadFile("../../x.json"); return err }, safety.CodeOutsideSandbox},
		{"write git", func() error { return sb.WriteFile(".git/HEAD", []byte("x")) }, safety.CodeDeniedWrite},
		{"write go.mod", func() error { return sb.WriteFile("go.mod", []byte("module x\n")) }, safety.CodeDeniedWrite},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.run()
			var te safety.ToolError
			if !errors.As(err, &te) {
				t.Fatalf("expected ToolError, got %T: %v", err, err)
			}
			if te.Code != tc.code {
				t.Fatalf("unexpected code: got %s want %s", te.Code, tc.code)
			}
		})
	}
}
