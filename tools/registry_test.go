package tools_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/petasbytes/datagen-agent/tools"
)

func TestRegistry_ToolNamesInOrder(t *testing.T) {
	var names []string
	for _, d := range registry {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"generate_simple_users", "write_json", "read_json"}, names)
}

func TestRegistry_Lookup(t *testing.T) {
	_, ok := tools.Lookup(registry, "edit_file")
	assert.False(t, ok)

	def, ok := tools.Lookup(registry, "read_json")
	require.True(t, ok)
	assert.NotNil(t, def.Function)
	assert.NotEmpty(t, def.Description)
}

func TestSchemas_ExposeInputFields(t *testing.T) {
	cases := map[string][]string{
		"generate_simple_users": {"first_names", "last_names", "domains", "min_age", "max_age"},
		"write_json":            {"file_path", "data"},
		"read_json":             {"file_path"},
	}
	for name, fields := range cases {
		t.Run(name, func(t *testing.T) {
			b, err := json.Marshal(tool(t, name).InputSchema)
			require.NoError(t, err)
			props := gjson.GetBytes(b, "properties")
			require.True(t, props.IsObject(), string(b))
			for _, f := range fields {
				assert.True(t, props.Get(f).Exists(), "missing property %q in %s", f, b)
			}
			assert.Equal(t, "object", gjson.GetBytes(b, "type").String())
		})
	}
}
