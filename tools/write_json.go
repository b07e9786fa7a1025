package tools

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	gojson "github.com/goccy/go-json"
	"github.com/tidwall/gjson"

	"github.com/petasbytes/datagen-agent/internal/jsonstore"
)

type WriteJSONInput struct {
	FilePath string         `json:"file_path" jsonschema_description:"Relative path of the file to write inside the workspace."`
	Data     map[string]any `json:"data" jsonschema_description:"JSON object to write, for example the full result of generate_simple_users."`
}

var WriteJSONInputSchema = GenerateSchema[WriteJSONInput]()

// NewWriteJSONDefinition binds write_json to store.
func NewWriteJSONDefinition(store *jsonstore.Store) ToolDefinition {
	return ToolDefinition{
		Name: "write_json",
		Description: "Write a JSON object to a file with 2-space indentation, replacing any existing file. " +
			"Parent directories are created as needed. The path must be relative to the workspace.",
		InputSchema: WriteJSONInputSchema,
		Function: func(input json.RawMessage) (string, error) {
			path, data, err := decodeWriteJSON(input)
			if err != nil {
				return "", err
			}
			return store.Write(path, data)
		},
	}
}

// decodeWriteJSON extracts file_path and the data object. Numbers are kept as
// json.Number so they are written back exactly, and string escapes are decoded.
// A data value that is itself a JSON-encoded object string is unwrapped once.
func decodeWriteJSON(input json.RawMessage) (string, any, error) {
	if !gjson.ValidBytes(input) {
		return "", nil, errors.New("invalid input: malformed JSON")
	}
	path := gjson.GetBytes(input, "file_path")
	if path.Type != gjson.String || path.Str == "" {
		return "", nil, errors.New("invalid input: file_path is required")
	}

	data := gjson.GetBytes(input, "data")
	if data.Type == gjson.String && gjson.Valid(data.Str) {
		data = gjson.Parse(data.Str)
	}
	if !data.IsObject() {
		return "", nil, errors.New("invalid input: data must be a JSON object")
	}

	dec := gojson.NewDecoder(bytes.NewReader([]byte(data.Raw)))
	dec.UseNumber()
	var v map[string]any
	if err := dec.Decode(&v); err != nil {
		return "", nil, fmt.Errorf("invalid input: decode data: %w", err)
	}
	return path.Str, v, nil
}
