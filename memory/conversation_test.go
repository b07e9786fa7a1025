package memory_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petasbytes/datagen-agent/memory"
)

func TestFromTurns_Alternates(t *testing.T) {
	turns := []memory.Turn{
		{User: "hi", Assistant: "hello"},
		{User: "make users", Assistant: "done"},
	}
	want := []memory.Message{
		{Role: "user", Text: "hi"},
		{Role: "assistant", Text: "hello"},
		{Role: "user", Text: "make users"},
		{Role: "assistant", Text: "done"},
	}
	assert.Equal(t, want, memory.FromTurns(turns))
}

func TestFromTurns_EmptyReplySkipped(t *testing.T) {
	got := memory.FromTurns([]memory.Turn{{User: "a", Assistant: "  "}, {User: "b", Assistant: "ok"}})
	assert.Equal(t, []memory.Message{memory.User("a"), memory.User("b"), memory.Assistant("ok")}, got)
}

func TestFromTurns_Empty(t *testing.T) {
	got := memory.FromTurns(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAppend_DoesNotAlias(t *testing.T) {
	base := make([]memory.Turn, 1, 4)
	base[0] = memory.Turn{User: "one", Assistant: "1"}

	a := memory.Append(base, "two", "2")
	b := memory.Append(base, "three", "3")

	require.Len(t, a, 2)
	require.Len(t, b, 2)
	assert.Equal(t, "two", a[1].User)
	assert.Equal(t, "three", b[1].User)
	assert.Len(t, base, 1)
}

func TestTurn_JSONShape(t *testing.T) {
	b, err := json.Marshal(memory.Turn{User: "u", Assistant: "a"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"user":"u","assistant":"a"}`, string(b))
}
