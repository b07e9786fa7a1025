package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/petasbytes/datagen-agent/internal/logging"
	"github.com/petasbytes/datagen-agent/internal/metrics"
	"github.com/petasbytes/datagen-agent/internal/telemetry"
	"github.com/petasbytes/datagen-agent/internal/tracing"
	"github.com/petasbytes/datagen-agent/memory"
	"github.com/petasbytes/datagen-agent/tools"
)

const rephraseHint = "Please try rephrasing your request or provide more specific details."

// Conversation binds an agent to a system instruction and tool set.
// It holds no history; every Run is independent.
type Conversation struct {
	Agent      Agent
	System     string
	Tools      []tools.ToolDefinition
	StepBudget int
	Logger     logrus.FieldLogger
}

// ErrorReply is the assistant text shown when a run fails.
func ErrorReply(err error) string {
	return fmt.Sprintf("Error: %v\n\n%s", err, rephraseHint)
}

// Run appends userMessage to prior and returns the agent's final reply. Agent
// errors and panics come back as an ErrorReply message; Run never fails.
func (c *Conversation) Run(ctx context.Context, userMessage string, prior []memory.Message) (reply memory.Message) {
	ctx, turnID := telemetry.EnsureTurnID(ctx)
	ctx, span := tracing.Start(ctx, "conversation.run", attribute.String("turn_id", turnID))
	defer span.End()

	log := c.logger(turnID)
	start := time.Now()
	outcome := metrics.OutcomeOK
	steps := 0

	telemetry.TurnStarted(ctx, userMessage)
	defer func() {
		if rec := recover(); rec != nil {
			outcome = metrics.OutcomePanic
			err := fmt.Errorf("%v", rec)
			log.WithField("panic", rec).Error("agent panicked")
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
			reply = memory.Assistant(ErrorReply(err))
		}
		metrics.ObserveRun(outcome, steps)
		telemetry.TurnFinished(ctx, outcome, steps, time.Since(start))
		log.WithFields(logrus.Fields{"outcome": outcome, "steps": steps, "duration_ms": time.Since(start).Milliseconds()}).Info("turn finished")
	}()

	msgs := make([]memory.Message, 0, len(prior)+1)
	msgs = append(msgs, prior...)
	msgs = append(msgs, memory.User(userMessage))

	resp, err := c.Agent.Invoke(ctx, Request{
		System:     c.System,
		Tools:      c.Tools,
		Messages:   msgs,
		StepBudget: stepBudget(c.StepBudget),
	})
	steps = resp.Steps
	if err != nil {
		outcome = metrics.OutcomeError
		if errors.Is(err, ErrStepBudgetExceeded) {
			outcome = metrics.OutcomeBudget
		}
		log.WithError(err).Warn("agent run failed")
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		return memory.Assistant(ErrorReply(err))
	}
	if resp.Message.Role == "" {
		resp.Message.Role = memory.RoleAssistant
	}
	return resp.Message
}

func (c *Conversation) logger(turnID string) logrus.FieldLogger {
	if c.Logger == nil {
		return logging.WithTurnID(logging.Discard(), turnID)
	}
	return logging.WithTurnID(c.Logger, turnID)
}
