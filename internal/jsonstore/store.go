// Package jsonstore reads and writes JSON documents inside the sandbox.
//
// Output is always 2-space indented UTF-8 with non-ASCII characters left
// unescaped. Writes sort object keys; reads keep the file's own key order.
package jsonstore

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"unicode/utf8"

	json "github.com/goccy/go-json"
	"github.com/tidwall/pretty"

	"github.com/petasbytes/datagen-agent/internal/fsops"
)

var (
	ErrNotFound    = errors.New("file not found")
	ErrInvalidJSON = errors.New("invalid JSON")
)

// Error reports a failed read or write. Kind is ErrNotFound, ErrInvalidJSON
// or nil for any other I/O fault; Err is the underlying cause.
type Error struct {
	Op   string
	Path string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	switch {
	case errors.Is(e.Kind, ErrNotFound):
		return fmt.Sprintf("Error: file '%s' not found.", e.Path)
	case errors.Is(e.Kind, ErrInvalidJSON):
		return fmt.Sprintf("Error: invalid JSON in file '%s' - %v", e.Path, e.Err)
	case e.Op == "write":
		return fmt.Sprintf("Error writing JSON: %v", e.Err)
	default:
		return fmt.Sprintf("Error reading JSON: %v", e.Err)
	}
}

func (e *Error) Unwrap() []error {
	if e.Kind == nil {
		return []error{e.Err}
	}
	return []error{e.Kind, e.Err}
}

const indent = "  "

var (
	writeOpts = &pretty.Options{Indent: indent, SortKeys: true}
	readOpts  = &pretty.Options{Indent: indent}
)

// Store is a JSON document store over a sandbox.
type Store struct {
	fs *fsops.Sandbox
}

func New(sandbox *fsops.Sandbox) *Store {
	return &Store{fs: sandbox}
}

// Write serializes data once, writes exactly that text to path (replacing
// any existing file) and reports its length in characters.
func (s *Store) Write(path string, data any) (string, error) {
	text, err := Format(data)
	if err != nil {
		return "", &Error{Op: "write", Path: path, Err: err}
	}
	if err := s.fs.WriteFile(path, []byte(text)); err != nil {
		return "", &Error{Op: "write", Path: path, Err: err}
	}
	return fmt.Sprintf("Successfully wrote JSON data to '%s' (%d characters).", path, utf8.RuneCountInString(text)), nil
}

// Read loads path, checks it is well-formed JSON and returns it re-indented.
func (s *Store) Read(path string) (string, error) {
	raw, err := s.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &Error{Op: "read", Path: path, Kind: ErrNotFound, Err: err}
		}
		return "", &Error{Op: "read", Path: path, Err: err}
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", &Error{Op: "read", Path: path, Kind: ErrInvalidJSON, Err: err}
	}
	return string(pretty.PrettyOptions(raw, readOpts)), nil
}

// Format renders data as the store writes it: sorted keys, 2-space indent,
// one array element per line, trailing newline.
func Format(data any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		return "", err
	}
	return string(pretty.PrettyOptions(buf.Bytes(), writeOpts)), nil
}
