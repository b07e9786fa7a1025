// Package runner turns one user message plus prior history into one assistant
// reply.
//
// Conversation is the entry point used by the chat surfaces: it appends the
// user message, calls an Agent with a step budget and converts every agent
// failure into a readable reply. Runner is the Agent backed by the Anthropic
// Messages API.
//
// Invariant:
//   - tool_use and the corresponding tool_result are kept adjacent within a turn
//     so the send window never splits them.
//
// Flow:
//
//	user(text) -> assistant(tool_use) -> user(tool_result) -> ... -> assistant(text)
package runner
