// Package chat is the user-facing layer: it turns a submitted message and the
// visible turn history into a new history, and serves that over HTTP.
package chat

import (
	"context"
	"strings"

	"github.com/petasbytes/datagen-agent/memory"
)

// Runner produces one assistant reply from a user message and prior history.
type Runner interface {
	Run(ctx context.Context, userMessage string, prior []memory.Message) memory.Message
}

// Surface adapts turn-pair history to a Runner.
type Surface struct {
	runner Runner
}

func NewSurface(r Runner) *Surface {
	return &Surface{runner: r}
}

// Submit runs message against history and returns history plus the new turn.
// A blank message returns history unchanged. history itself is never modified.
func (s *Surface) Submit(ctx context.Context, message string, history []memory.Turn) []memory.Turn {
	if strings.TrimSpace(message) == "" {
		return history
	}
	reply := s.runner.Run(ctx, message, memory.FromTurns(history))
	return memory.Append(history, message, reply.Text)
}
