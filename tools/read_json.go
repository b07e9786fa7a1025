package tools

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/petasbytes/datagen-agent/internal/jsonstore"
)

type ReadJSONInput struct {
	FilePath string `json:"file_path" jsonschema_description:"Relative path of the JSON file to read inside the workspace."`
}

var ReadJSONInputSchema = GenerateSchema[ReadJSONInput]()

// NewReadJSONDefinition binds read_json to store.
func NewReadJSONDefinition(store *jsonstore.Store) ToolDefinition {
	return ToolDefinition{
		Name:        "read_json",
		Description: "Read a JSON file and return its content pretty-printed with 2-space indentation. The path must be relative to the workspace.",
		InputSchema: ReadJSONInputSchema,
		Function: func(input json.RawMessage) (string, error) {
			var in ReadJSONInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", fmt.Errorf("invalid input: %w", err)
			}
			if in.FilePath == "" {
				return "", errors.New("invalid input: file_path is required")
			}
			return store.Read(in.FilePath)
		},
	}
}
