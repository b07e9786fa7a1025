package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/petasbytes/datagen-agent/internal/config"
	"github.com/petasbytes/datagen-agent/internal/logging"
	"github.com/petasbytes/datagen-agent/internal/metrics"
	"github.com/petasbytes/datagen-agent/internal/provider"
	"github.com/petasbytes/datagen-agent/internal/telemetry"
	"github.com/petasbytes/datagen-agent/internal/tracing"
	"github.com/petasbytes/datagen-agent/internal/windowing"
	"github.com/petasbytes/datagen-agent/memory"
	"github.com/petasbytes/datagen-agent/tools"
)

var ErrOverBudgetNewest = errors.New("windowing: newest group exceeds the token budget; raise AGT_TOKEN_BUDGET")

// Runner is the Agent backed by the Anthropic Messages API.
type Runner struct {
	Client      *anthropic.Client
	Model       anthropic.Model
	MaxTokens   int64
	TokenBudget int
	Counter     windowing.TokenCounter
	Logger      logrus.FieldLogger
}

func New(client *anthropic.Client, cfg *config.Config, logger logrus.FieldLogger) *Runner {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Runner{
		Client:      client,
		Model:       provider.Model(cfg.Model),
		MaxTokens:   cfg.MaxTokens,
		TokenBudget: cfg.TokenBudget,
		Counter:     windowing.HeuristicCounter{},
		Logger:      logger,
	}
}

// Invoke loops RunOneStep until a response carries no tool calls. The reply is
// the last response's text, or the latest earlier text if that is blank.
func (r *Runner) Invoke(ctx context.Context, req Request) (Response, error) {
	ctx, _ = telemetry.EnsureTurnID(ctx)
	budget := stepBudget(req.StepBudget)
	conv := ToParams(req.Messages)

	var reply string
	for step := 1; step <= budget; step++ {
		msg, toolResults, err := r.RunOneStep(ctx, req, conv)
		if err != nil {
			return Response{Steps: step}, err
		}
		conv = append(conv, msg.ToParam())
		if text := messageText(msg); text != "" {
			reply = text
		}
		if len(toolResults) == 0 {
			return Response{Message: memory.Assistant(reply), Steps: step}, nil
		}
		// Provide tool results as a user message back to the model
		conv = append(conv, anthropic.NewUserMessage(toolResults...))
	}
	return Response{Steps: budget}, fmt.Errorf("%w: no final answer after %d steps", ErrStepBudgetExceeded, budget)
}

// RunOneStep sends the windowed conversation and executes any tool_use blocks
// in the response, returning their results in order.
func (r *Runner) RunOneStep(ctx context.Context, req Request, conv []anthropic.MessageParam) (*anthropic.Message, []anthropic.ContentBlockParamUnion, error) {
	ctx, turnID := telemetry.EnsureTurnID(ctx)
	log := logging.WithTurnID(r.Logger, turnID)

	ctx, span := tracing.Start(ctx, "agent.step", attribute.String("model", string(r.Model)))
	defer span.End()

	counter := r.Counter
	if counter == nil {
		counter = windowing.HeuristicCounter{}
	}
	window, stats := windowing.PrepareSendWindow(conv, r.TokenBudget, counter)

	telemetry.Emit("window_prepared", map[string]any{
		"turn_id":            turnID,
		"model":              string(r.Model),
		"budget":             stats.Budget,
		"total_estimated":    stats.Total,
		"included_groups":    stats.IncludedGroups,
		"skipped_groups":     stats.SkippedGroups,
		"over_budget_newest": stats.OverBudgetNewest,
	})
	for _, g := range stats.Unpaired {
		log.WithFields(logrus.Fields{"index": g.Start, "reason": g.Reason}).Debug("tool_use left unpaired")
	}
	log.WithFields(logrus.Fields{
		"budget":      stats.Budget,
		"est_total":   stats.Total,
		"groups_in":   stats.IncludedGroups,
		"groups_skip": stats.SkippedGroups,
	}).Debug("window prepared")

	if stats.OverBudgetNewest {
		span.SetStatus(codes.Error, "over budget")
		return nil, nil, ErrOverBudgetNewest
	}

	params := anthropic.MessageNewParams{
		Model:     r.Model,
		MaxTokens: r.maxTokens(),
		Messages:  window,
		Tools:     toolParams(req.Tools),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	msg, err := r.Client.Messages.New(ctx, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "messages.new")
		return nil, nil, fmt.Errorf("messages.new: %w", err)
	}

	toolResults := []anthropic.ContentBlockParamUnion{}
	for _, block := range msg.Content {
		if v, ok := block.AsAny().(anthropic.ToolUseBlock); ok {
			// Pass raw JSON input through to the tool implementation
			input := json.RawMessage(v.JSON.Input.Raw())
			toolResults = append(toolResults, r.execTool(ctx, req.Tools, v.ID, v.Name, input))
		}
	}
	span.SetAttributes(attribute.Int("tool_calls", len(toolResults)))
	return msg, toolResults, nil
}

func (r *Runner) execTool(ctx context.Context, defs []tools.ToolDefinition, id, name string, input json.RawMessage) anthropic.ContentBlockParamUnion {
	ctx, span := tracing.Start(ctx, "tool.exec", attribute.String("tool", name))
	defer span.End()

	turnID, _ := telemetry.TurnIDFromContext(ctx)
	log := logging.WithTurnID(r.Logger, turnID).WithField("tool", name)
	start := time.Now()

	def, ok := tools.Lookup(defs, name)
	if !ok {
		telemetry.ToolExec(ctx, name, time.Since(start), len(input), 0, "tool not found")
		metrics.ObserveTool(name, "unknown", time.Since(start))
		span.SetStatus(codes.Error, "tool not found")
		log.Warn("model requested unknown tool")
		return anthropic.NewToolResultBlock(id, "tool not found", true)
	}

	resp, err := def.Function(input)
	elapsed := time.Since(start)
	if err != nil {
		// Category only in telemetry; the detailed message goes back to the model.
		telemetry.ToolExec(ctx, name, elapsed, len(input), 0, "tool error")
		metrics.ObserveTool(name, "error", elapsed)
		span.SetStatus(codes.Error, "tool error")
		log.WithField("duration_ms", elapsed.Milliseconds()).Info("tool returned error")
		return anthropic.NewToolResultBlock(id, err.Error(), true)
	}
	telemetry.ToolExec(ctx, name, elapsed, len(input), len(resp), "")
	metrics.ObserveTool(name, "ok", elapsed)
	log.WithFields(logrus.Fields{"duration_ms": elapsed.Milliseconds(), "output_size": len(resp)}).Debug("tool executed")
	return anthropic.NewToolResultBlock(id, resp, false)
}

func (r *Runner) maxTokens() int64 {
	if r.MaxTokens <= 0 {
		return 1024
	}
	return r.MaxTokens
}

func toolParams(defs []tools.ToolDefinition) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(defs))
	for _, t := range defs {
		out = append(out, anthropic.ToolUnionParam{OfTool: &anthropic.ToolParam{
			Name:        t.Name,
			Description: anthropic.String(t.Description),
			InputSchema: t.InputSchema,
		}})
	}
	return out
}

// messageText joins the text blocks of a response.
func messageText(msg *anthropic.Message) string {
	var parts []string
	for _, b := range msg.Content {
		if tb, ok := b.AsAny().(anthropic.TextBlock); ok && strings.TrimSpace(tb.Text) != "" {
			parts = append(parts, tb.Text)
		}
	}
	return strings.Join(parts, "\n")
}
