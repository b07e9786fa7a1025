// Package tools defines the tool contracts the agent can call and their implementations.
//
// Includes:
//   - ToolDefinition: name, description, JSON input schema, handler.
//   - GenerateSchema[T](): derive the JSON Schema of a tool's input from a Go struct.
//   - generate_simple_users, write_json, read_json.
//
// A handler error becomes an is_error tool_result whose content is the error text;
// generator validation failures are ordinary results carrying an "error" field.
package tools
