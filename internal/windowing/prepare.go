package windowing

import "github.com/anthropics/anthropic-sdk-go"

// Stats summarizes the result of window preparation.
//
// Fields:
// - Total: estimated tokens for included groups only.
// - Budget: the input token budget used.
// - IncludedGroups, SkippedGroups: partition of all groups.
// - OverBudgetNewest: the newest group alone exceeds Budget.
// - Unpaired: tool_use messages that could not be paired, with reasons.
type Stats struct {
	Total            int
	Budget           int
	IncludedGroups   int
	SkippedGroups    int
	OverBudgetNewest bool
	Unpaired         []Group
}

// PrepareSendWindow returns a suffix of msgs that fits within budget without
// splitting groups.
//
// Rules:
//   - Include whole groups scanning newest to oldest while total <= budget.
//   - Then drop leading groups until the window opens on a plain user message,
//     unless that would drop everything.
//   - If the newest group alone exceeds budget, or budget <= 0, return an
//     empty window with OverBudgetNewest set.
func PrepareSendWindow(msgs []anthropic.MessageParam, budget int, c TokenCounter) ([]anthropic.MessageParam, Stats) {
	if len(msgs) == 0 {
		return nil, Stats{Budget: budget}
	}

	groups := GroupBlocks(msgs)
	stats := Stats{Budget: budget, SkippedGroups: len(groups)}
	for _, g := range groups {
		if g.Reason != "" {
			stats.Unpaired = append(stats.Unpaired, g)
		}
	}
	if budget <= 0 {
		stats.OverBudgetNewest = true
		return nil, stats
	}

	costs := make([]int, len(groups))
	for i, g := range groups {
		costs[i] = c.CountGroup(g, msgs)
	}

	start := len(groups)
	total := 0
	for gi := len(groups) - 1; gi >= 0; gi-- {
		if total+costs[gi] > budget {
			break
		}
		total += costs[gi]
		start = gi
	}
	if start == len(groups) {
		stats.OverBudgetNewest = true
		return nil, stats
	}

	for s := start; s < len(groups); s++ {
		if opensTurn(groups[s], msgs) {
			for ; start < s; start++ {
				total -= costs[start]
			}
			break
		}
	}

	stats.Total = total
	stats.IncludedGroups = len(groups) - start
	stats.SkippedGroups = start
	return msgs[groups[start].Start:], stats
}
