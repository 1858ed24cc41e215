package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/turing/pkg/domain"
)

// LoggingHooks logs every step at Debug and every halt at Info.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			if !logger.Enabled(ctx, slog.LevelDebug) {
				return
			}
			logger.DebugContext(ctx, "step",
				"run_id", e.RunID,
				"step", e.Step,
				"head", e.Head,
				"read", e.Symbol,
				"transition", e.Transition.String(),
			)
		},
		OnHalt: func(ctx context.Context, e *domain.HaltEvent) {
			logger.InfoContext(ctx, "halt",
				"run_id", e.RunID,
				"state", e.Result.State,
				"reason", string(e.Result.Reason),
				"steps", e.Result.Steps,
				"duration", e.Duration,
			)
		},
	}
}
