// Package memory holds the text-only view of a chat.
//
// Model:
//   - A Message is one role + text entry; tool blocks never reach it.
//   - A Turn is one user message and the assistant reply it produced.
//   - History is always passed explicitly; nothing here is persisted.
package memory
