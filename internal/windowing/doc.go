// Package windowing selects the slice of conversation history sent to the
// model so the request stays within an input token budget.
//
// Messages are grouped into atomic units first: an assistant tool_use message
// and the user message answering it travel together or not at all, since the
// Messages API rejects a tool_result whose tool_use was dropped.
package windowing
