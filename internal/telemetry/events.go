package telemetry

import (
	"context"
	"time"

	"github.com/petasbytes/datagen-agent/internal/metrics"
)

// TurnStarted records the shape of the user's message, never its text.
func TurnStarted(ctx context.Context, user string) {
	turnID, _ := TurnIDFromContext(ctx)
	Emit("turn_started", map[string]any{
		"turn_id": turnID,
		"user":    metrics.MeasureText(user).Fields(),
	})
}

// TurnFinished records how a turn ended.
func TurnFinished(ctx context.Context, outcome string, steps int, elapsed time.Duration) {
	turnID, _ := TurnIDFromContext(ctx)
	Emit("turn_finished", map[string]any{
		"turn_id":     turnID,
		"outcome":     outcome,
		"steps":       steps,
		"duration_ms": elapsed.Milliseconds(),
	})
}

// ToolExec records one tool invocation. errStr is a category, not the
// tool's message, so payloads stay out of the log.
func ToolExec(ctx context.Context, tool string, elapsed time.Duration, inputSize, outputSize int, errStr string) {
	turnID, _ := TurnIDFromContext(ctx)
	fields := map[string]any{
		"tool_name":   tool,
		"duration_ms": elapsed.Milliseconds(),
		"input_size":  inputSize,
		"output_size": outputSize,
		"turn_id":     turnID,
		"error":       nil,
	}
	if errStr != "" {
		fields["error"] = errStr
	}
	Emit("tool_exec", fields)
}
