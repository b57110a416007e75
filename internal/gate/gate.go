// Package gate runs one hook invocation: select the changed files, send their
// diff to the reviewer, and turn the result into a proceed or abort verdict.
package gate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/aezell/reviewgate/internal/changeset"
	"github.com/aezell/reviewgate/internal/config"
	"github.com/aezell/reviewgate/internal/decision"
	"github.com/aezell/reviewgate/internal/diff"
	"github.com/aezell/reviewgate/internal/model"
	"github.com/aezell/reviewgate/internal/reviewer"
	"github.com/aezell/reviewgate/internal/ui"
)

// VCS lists changed files and produces their diff.
type VCS interface {
	ChangedFiles(ctx context.Context, ranges ...diff.Range) ([]string, error)
	Diff(ctx context.Context, paths []string, ranges ...diff.Range) (string, error)
}

// Reviewer sends a diff to the AI reviewer.
type Reviewer interface {
	Invoke(ctx context.Context, diffText string, cfg config.ReviewConfig) reviewer.Outcome
}

// Asker puts a yes/no question to the operator.
type Asker interface {
	Ask(ctx context.Context, question string, timeout time.Duration, interactive bool) decision.Decision
}

// Review is what the operator is shown before the reviewer runs.
type Review struct {
	Hook     model.HookName
	Files    []string
	Diff     string
	Summary  string
	ShowDiff bool
}

// Presenter shows progress and results to the operator.
type Presenter interface {
	Skip(reason string)
	Warn(msg string)
	Start(r Review)
	ShowOutcome(out reviewer.Outcome)
	Verdict(hook model.HookName, d decision.Decision)
}

// Gate wires the collaborators for one run. Config is read once by the caller
// and not modified here. Log is optional.
type Gate struct {
	Config      config.ReviewConfig
	VCS         VCS
	Reviewer    Reviewer
	Asker       Asker
	Presenter   Presenter
	Log         Recorder
	Interactive bool
}

// Run reviews the changes in ranges for hook. Every failure other than a
// declined or unanswered prompt lets the operation proceed.
func (g *Gate) Run(ctx context.Context, hook model.HookName, ranges []diff.Range) decision.Decision {
	tracer := otel.Tracer("github.com/aezell/reviewgate/internal/gate")
	ctx, span := tracer.Start(ctx, "gate.run",
		trace.WithAttributes(
			attribute.String("hook.name", string(hook)),
			attribute.Int("gate.ranges", len(ranges)),
		),
	)
	defer span.End()

	d, stage := g.run(ctx, hook, ranges)
	span.SetAttributes(
		attribute.String("gate.decision", d.String()),
		attribute.String("gate.stage", stage),
	)
	return d
}

func (g *Gate) run(ctx context.Context, hook model.HookName, ranges []diff.Range) (decision.Decision, string) {
	cfg := g.Config

	if !cfg.EnabledHooks.Has(hook) {
		ui.Debugf("gate: %s disabled in config", hook)
		return decision.Proceed, "disabled"
	}
	if len(ranges) == 0 {
		g.Presenter.Skip("nothing to review")
		return decision.Proceed, "no-ranges"
	}

	all, err := g.VCS.ChangedFiles(ctx, ranges...)
	if err != nil {
		g.Presenter.Warn(fmt.Sprintf("could not list changed files (%v); skipping review", err))
		return decision.Proceed, "git-error"
	}

	files := changeset.Select(all, cfg)
	ui.Debugf("gate: %d changed, %d selected", len(all), len(files))
	if len(files) == 0 {
		g.Presenter.Skip("no matching files changed, skipping review")
		return decision.Proceed, "empty-changeset"
	}

	diffText, err := g.VCS.Diff(ctx, files, ranges...)
	if err != nil {
		g.Presenter.Warn(fmt.Sprintf("could not diff changes (%v); skipping review", err))
		return decision.Proceed, "git-error"
	}
	if strings.TrimSpace(diffText) == "" {
		g.Presenter.Skip("empty diff, skipping review")
		return decision.Proceed, "empty-diff"
	}

	review := Review{Hook: hook, Files: files, Diff: diffText, ShowDiff: cfg.ShowDiff}
	if ds, err := diff.Parse(diffText); err == nil {
		review.Summary = ds.Summary()
	} else {
		ui.Debugf("gate: %v", err)
	}
	g.Presenter.Start(review)

	outcome := g.Reviewer.Invoke(ctx, diffText, cfg)
	g.Presenter.ShowOutcome(outcome)

	var question string
	switch outcome.Kind {
	case reviewer.KindUnavailable:
		g.record(review, outcome, decision.Proceed)
		return decision.Proceed, "reviewer-unavailable"
	case reviewer.KindError:
		question = fmt.Sprintf("Review failed. Proceed with %s despite the error?", hook.Action())
	default:
		question = fmt.Sprintf("Proceed with %s?", hook.Action())
	}

	d := g.Asker.Ask(ctx, question, cfg.PromptTimeout, g.Interactive)
	g.Presenter.Verdict(hook, d)
	g.record(review, outcome, d)
	return d, outcome.Kind.String()
}

func (g *Gate) record(r Review, out reviewer.Outcome, d decision.Decision) {
	if g.Log == nil {
		return
	}
	output := out.Output
	if out.Kind == reviewer.KindUnavailable {
		output = out.Reason
	}
	err := g.Log.Record(Entry{
		Time:     time.Now(),
		Hook:     r.Hook,
		Files:    r.Files,
		Summary:  r.Summary,
		Outcome:  out.Kind.String(),
		ExitCode: out.ExitCode,
		Decision: d.String(),
		Output:   output,
	})
	if err != nil {
		ui.Debugf("gate: %v", err)
	}
}
