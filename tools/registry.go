package tools

import (
	"github.com/petasbytes/datagen-agent/internal/datagen"
	"github.com/petasbytes/datagen-agent/internal/jsonstore"
)

// NewRegistry returns all tool definitions wired for the agent, in the order
// they are offered to the model.
func NewRegistry(gen *datagen.Generator, store *jsonstore.Store) []ToolDefinition {
	return []ToolDefinition{
		NewGenerateUsersDefinition(gen),
		NewWriteJSONDefinition(store),
		NewReadJSONDefinition(store),
	}
}

// Lookup finds a definition by name.
func Lookup(defs []ToolDefinition, name string) (ToolDefinition, bool) {
	for _, d := range defs {
		if d.Name == name {
			return d, true
		}
	}
	return ToolDefinition{}, false
}
