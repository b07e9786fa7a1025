package windowing

import "github.com/anthropics/anthropic-sdk-go"

// GroupKind denotes the atomic unit type when preparing a send window.
type GroupKind int

const (
	GroupSingleton GroupKind = iota
	GroupPair
)

// Reasons an assistant tool_use message could not be paired.
const (
	ReasonNotFollowedByUser = "not_followed_by_user"
	ReasonOrderingInvalid   = "ordering_invalid"
	ReasonMissingResults    = "missing_results"
	ReasonExtraResults      = "extra_results"
)

// Group describes a contiguous span of messages [Start, End) in the original slice.
// Reason is set on a singleton holding tool_use blocks that failed to pair.
type Group struct {
	Kind   GroupKind
	Start  int
	End    int
	Reason string
}

// GroupBlocks groups messages into atomic units that preserve tool-use pairs.
// A pair is exactly two adjacent messages: assistant(tool_use...) then
// user(tool_result...), where every tool_use id is answered in the user's
// leading tool_result segment and no extra ids appear. Text may follow the
// results. is_error results pair like any other.
func GroupBlocks(msgs []anthropic.MessageParam) []Group {
	groups := make([]Group, 0, len(msgs))
	for i := 0; i < len(msgs); {
		reason := ""
		if useIDs := toolUseIDs(msgs[i]); len(useIDs) > 0 {
			reason = pairProblem(msgs, i, useIDs)
			if reason == "" {
				groups = append(groups, Group{Kind: GroupPair, Start: i, End: i + 2})
				i += 2
				continue
			}
		}
		groups = append(groups, Group{Kind: GroupSingleton, Start: i, End: i + 1, Reason: reason})
		i++
	}
	return groups
}

// pairProblem returns "" when msgs[i+1] answers every tool_use in msgs[i].
func pairProblem(msgs []anthropic.MessageParam, i int, useIDs map[string]struct{}) string {
	if i+1 >= len(msgs) || msgs[i+1].Role != anthropic.MessageParamRoleUser {
		return ReasonNotFollowedByUser
	}
	resultIDs, ok := leadingResultIDs(msgs[i+1])
	switch {
	case !ok:
		return ReasonOrderingInvalid
	case !subset(useIDs, resultIDs):
		return ReasonMissingResults
	case !subset(resultIDs, useIDs):
		return ReasonExtraResults
	}
	return ""
}

// toolUseIDs returns the tool_use ids of an assistant message.
func toolUseIDs(m anthropic.MessageParam) map[string]struct{} {
	if m.Role != anthropic.MessageParamRoleAssistant {
		return nil
	}
	ids := make(map[string]struct{})
	for _, blk := range m.Content {
		if tu := blk.OfToolUse; tu != nil && tu.ID != "" {
			ids[tu.ID] = struct{}{}
		}
	}
	return ids
}

// leadingResultIDs collects tool_result ids from the leading segment of a user
// message. ok is false when a tool_result appears after any other block.
func leadingResultIDs(m anthropic.MessageParam) (ids map[string]struct{}, ok bool) {
	ids = make(map[string]struct{})
	seenOther := false
	for _, blk := range m.Content {
		tr := blk.OfToolResult
		if tr == nil {
			seenOther = true
			continue
		}
		if seenOther {
			return ids, false
		}
		if tr.ToolUseID != "" {
			ids[tr.ToolUseID] = struct{}{}
		}
	}
	return ids, true
}

// subset reports whether every id in a is present in b.
func subset(a, b map[string]struct{}) bool {
	for id := range a {
		if _, ok := b[id]; !ok {
			return false
		}
	}
	return true
}

// opensTurn reports whether a group can start a request: the Messages API
// requires the first message to be a user message that is not a tool_result.
func opensTurn(g Group, msgs []anthropic.MessageParam) bool {
	m := msgs[g.Start]
	if m.Role != anthropic.MessageParamRoleUser {
		return false
	}
	for _, blk := range m.Content {
		if blk.OfToolResult != nil {
			return false
		}
	}
	return true
}
