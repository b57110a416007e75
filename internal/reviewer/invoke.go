package reviewer

import (
	"context"
	"errors"
	"io/fs"
	"os/exec"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/aezell/reviewgate/internal/config"
	"github.com/aezell/reviewgate/internal/ui"
)

// Invoker sends a diff to the reviewer and classifies the result.
type Invoker struct {
	Locator Locator
	Runner  Runner
}

// NewInvoker returns an Invoker backed by the real filesystem and os/exec.
func NewInvoker() *Invoker {
	return &Invoker{Locator: DefaultLocator(), Runner: ExecRunner{}}
}

// Invoke runs the reviewer on diffText. It never returns an error: every
// failure becomes an Unavailable or Error outcome. There is no timeout beyond
// ctx; the reviewer may take as long as it needs.
func (inv *Invoker) Invoke(ctx context.Context, diffText string, cfg config.ReviewConfig) Outcome {
	tracer := otel.Tracer("github.com/aezell/reviewgate/internal/reviewer")
	ctx, span := tracer.Start(ctx, "reviewer.invoke",
		trace.WithAttributes(
			attribute.Int("review.diff_bytes", len(diffText)),
		),
	)
	defer span.End()

	outcome := inv.invoke(ctx, diffText, cfg, span)

	span.SetAttributes(
		attribute.String("reviewer.outcome", outcome.Kind.String()),
		attribute.Int("reviewer.exit_code", outcome.ExitCode),
		attribute.Int("reviewer.output_bytes", len(outcome.Output)),
	)
	if outcome.Kind == KindError {
		span.SetStatus(codes.Error, "reviewer failed")
	}
	return outcome
}

func (inv *Invoker) invoke(ctx context.Context, diffText string, cfg config.ReviewConfig, span trace.Span) Outcome {
	path, err := inv.Locator.Locate(cfg.ReviewerCommand)
	if err != nil {
		return Unavailable(unavailableReason(cfg.ReviewerCommand))
	}
	span.SetAttributes(attribute.String("reviewer.path", path))
	ui.Debugf("reviewer: using %s %v", path, cfg.ReviewerArgs)

	req := BuildRequest(cfg.PromptTemplate, diffText)
	output, exitCode, err := inv.Runner.Run(ctx, path, cfg.ReviewerArgs, req.Prompt)
	if err != nil {
		span.RecordError(err)
		if notFound(err) {
			return Unavailable(err.Error())
		}
		return Failed(exitCode, joinOutput(output, err.Error()))
	}
	return classify(exitCode, output)
}

func unavailableReason(configured string) string {
	if configured != "" {
		return configured + " not found and no " + DefaultCommand + " install detected"
	}
	return DefaultCommand + " not found in known install locations or PATH"
}

func notFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}

func joinOutput(output, msg string) string {
	if output == "" {
		return msg
	}
	return output + "\n" + msg
}
