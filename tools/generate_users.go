package tools

import (
	"encoding/json"
	"fmt"

	"github.com/petasbytes/datagen-agent/internal/datagen"
)

type GenerateUsersInput struct {
	FirstNames []string `json:"first_names" jsonschema_description:"First names; one user is generated per entry."`
	LastNames  []string `json:"last_names" jsonschema_description:"Last names; reused cyclically when fewer than first_names."`
	Domains    []string `json:"domains" jsonschema_description:"Email domains; reused cyclically."`
	MinAge     int      `json:"min_age" jsonschema_description:"Minimum age (inclusive)."`
	MaxAge     int      `json:"max_age" jsonschema_description:"Maximum age (inclusive)."`
}

var GenerateUsersInputSchema = GenerateSchema[GenerateUsersInput]()

// NewGenerateUsersDefinition binds generate_simple_users to gen.
func NewGenerateUsersDefinition(gen *datagen.Generator) ToolDefinition {
	return ToolDefinition{
		Name: "generate_simple_users",
		Description: "Generate sample user records with id, firstName, lastName, email, username, age and registeredAt. " +
			"One user is created per first name; last names and domains cycle when shorter. " +
			"Returns {\"users\": [...], \"count\": n}, or {\"error\": \"...\"} when the input is invalid.",
		InputSchema: GenerateUsersInputSchema,
		Function: func(input json.RawMessage) (string, error) {
			var in GenerateUsersInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", fmt.Errorf("invalid input: %w", err)
			}
			res := gen.Generate(datagen.Request(in))
			b, err := json.Marshal(res)
			if err != nil {
				return "", err
			}
			return string(b), nil
		},
	}
}
