package windowing

import (
	"encoding/json"
	"unicode/utf8"

	"github.com/anthropics/anthropic-sdk-go"
)

// TokenCounter estimates input-token cost for messages or groups.
type TokenCounter interface {
	CountMessage(m anthropic.MessageParam) int
	CountGroup(g Group, all []anthropic.MessageParam) int
}

// HeuristicCounter is a deterministic estimator: one token per rune of text,
// tool_result text and tool_use input JSON, plus a fixed overhead per block.
type HeuristicCounter struct{}

// Fixed per-block overhead; tests derive expectations from it.
const blockOverhead = 4

func (HeuristicCounter) CountMessage(m anthropic.MessageParam) int {
	total := 0
	for _, blk := range m.Content {
		total += countBlock(blk)
	}
	return total
}

func (h HeuristicCounter) CountGroup(g Group, all []anthropic.MessageParam) int {
	total := 0
	for i := g.Start; i < g.End && i < len(all); i++ {
		total += h.CountMessage(all[i])
	}
	return total
}

func countBlock(blk anthropic.ContentBlockParamUnion) int {
	switch {
	case blk.OfText != nil:
		return utf8.RuneCountInString(blk.OfText.Text) + blockOverhead
	case blk.OfToolResult != nil:
		n := 0
		for _, c := range blk.OfToolResult.Content {
			if c.OfText != nil {
				n += utf8.RuneCountInString(c.OfText.Text)
			}
		}
		return n + blockOverhead
	case blk.OfToolUse != nil:
		return inputRunes(blk.OfToolUse.Input) + blockOverhead
	}
	// thinking, images, documents: overhead only.
	return blockOverhead
}

// inputRunes sizes a tool_use input as its JSON text.
func inputRunes(v any) int {
	switch in := v.(type) {
	case nil:
		return 0
	case json.RawMessage:
		return utf8.RuneCount(in)
	case []byte:
		return utf8.RuneCount(in)
	case string:
		return utf8.RuneCountInString(in)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return 0
	}
	return utf8.RuneCount(b)
}
