package tui

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aezell/reviewgate/internal/decision"
	"github.com/aezell/reviewgate/internal/diff"
	"github.com/aezell/reviewgate/internal/gate"
	"github.com/aezell/reviewgate/internal/model"
	"github.com/aezell/reviewgate/internal/reviewer"
)

var (
	_ gate.Presenter = (*Session)(nil)
	_ gate.Asker     = (*Session)(nil)
)

// Session presents a gate run on the review screen. Messages that are not
// part of the review itself go to Console.
type Session struct {
	In      io.Reader
	Out     io.Writer
	Console *gate.Console

	review  gate.Review
	outcome reviewer.Outcome
}

func (s *Session) Skip(reason string) { s.Console.Skip(reason) }
func (s *Session) Warn(msg string)    { s.Console.Warn(msg) }

func (s *Session) Start(r gate.Review) {
	s.review = r
	fmt.Fprintf(s.Console.Out, "reviewgate: reviewing %d file(s) before %s...\n", len(r.Files), r.Hook.Action())
}

func (s *Session) ShowOutcome(out reviewer.Outcome) {
	s.outcome = out
	if out.Kind == reviewer.KindUnavailable {
		s.Console.ShowOutcome(out)
	}
}

func (s *Session) Verdict(hook model.HookName, d decision.Decision) {
	s.Console.Verdict(hook, d)
}

// Ask shows the review screen. If the screen cannot start, the review is
// printed and the question asked on the plain prompt instead.
func (s *Session) Ask(ctx context.Context, question string, timeout time.Duration, interactive bool) decision.Decision {
	if !interactive || timeout <= 0 {
		s.Console.ShowOutcome(s.outcome)
		return decision.Abort
	}

	var files []*diff.File
	if ds, err := diff.Parse(s.review.Diff); err == nil {
		files = ds.Files
	}

	d, err := Run(ctx, s.In, s.Out, Review{
		Hook:     s.review.Hook,
		Files:    files,
		Diff:     s.review.Diff,
		Outcome:  s.outcome,
		Question: question,
		Timeout:  timeout,
	})
	if err != nil {
		s.Console.Warn(fmt.Sprintf("review screen failed (%v); falling back to prompt", err))
		s.Console.ShowOutcome(s.outcome)
		return decision.Prompter{In: s.In, Out: s.Console.Out}.Ask(ctx, question, timeout, interactive)
	}
	return d
}
