package runner

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/petasbytes/datagen-agent/memory"
	"github.com/petasbytes/datagen-agent/tools"
)

// DefaultStepBudget caps model round trips per run when a Request sets none.
const DefaultStepBudget = 50

var ErrStepBudgetExceeded = errors.New("step budget exceeded")

// Request is everything an agent needs for one run.
type Request struct {
	System     string
	Tools      []tools.ToolDefinition
	Messages   []memory.Message
	StepBudget int
}

// Response is the agent's final message and the number of steps it took.
type Response struct {
	Message memory.Message
	Steps   int
}

// Agent runs the reasoning and tool-dispatch loop for one request.
// On error, Response.Steps still reports the steps taken.
type Agent interface {
	Invoke(ctx context.Context, req Request) (Response, error)
}

// AgentFunc adapts a function to Agent.
type AgentFunc func(ctx context.Context, req Request) (Response, error)

func (f AgentFunc) Invoke(ctx context.Context, req Request) (Response, error) { return f(ctx, req) }

// ToParams converts text history into API messages. Blank entries are dropped
// since the API rejects empty text blocks.
func ToParams(msgs []memory.Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(msgs))
	for _, m := range msgs {
		if strings.TrimSpace(m.Text) == "" {
			continue
		}
		if m.Role == memory.RoleAssistant {
			out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Text)))
		} else {
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Text)))
		}
	}
	return out
}

func stepBudget(n int) int {
	if n <= 0 {
		return DefaultStepBudget
	}
	return n
}
