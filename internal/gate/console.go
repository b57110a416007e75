package gate

import (
	"fmt"
	"io"
	"strings"

	"github.com/aezell/reviewgate/internal/decision"
	"github.com/aezell/reviewgate/internal/diff"
	"github.com/aezell/reviewgate/internal/model"
	"github.com/aezell/reviewgate/internal/reviewer"
	"github.com/aezell/reviewgate/internal/ui"
)

// Console prints to a plain stream, normally stderr.
type Console struct {
	Out   io.Writer
	Color bool
}

func (c *Console) Skip(reason string) {
	fmt.Fprintln(c.Out, ui.RenderMuted(ui.IconSkip+" reviewgate: "+reason))
}

func (c *Console) Warn(msg string) {
	fmt.Fprintln(c.Out, ui.RenderWarn(ui.IconWarn+" Warning: ")+msg)
}

func (c *Console) Start(r Review) {
	fmt.Fprintln(c.Out, ui.RenderHeader(fmt.Sprintf("reviewgate: reviewing %d file(s) before %s", len(r.Files), r.Hook.Action())))
	if r.Summary != "" {
		fmt.Fprintln(c.Out, ui.RenderMuted(r.Summary))
	}
	for _, f := range r.Files {
		fmt.Fprintln(c.Out, ui.RenderMuted("  "+f))
	}
	if r.ShowDiff {
		fmt.Fprintln(c.Out, ui.RenderSeparator())
		if err := diff.Highlight(c.Out, r.Diff, c.Color); err != nil {
			ui.Debugf("highlight: %v", err)
		}
	}
	fmt.Fprintln(c.Out, ui.RenderMuted("Waiting for AI review..."))
}

func (c *Console) ShowOutcome(out reviewer.Outcome) {
	switch out.Kind {
	case reviewer.KindUnavailable:
		c.Warn(fmt.Sprintf("AI reviewer unavailable (%s); skipping review", out.Reason))
		return
	case reviewer.KindError:
		fmt.Fprintln(c.Out, ui.RenderFail(fmt.Sprintf("%s Reviewer failed (exit %d)", ui.IconFail, out.ExitCode)))
		fmt.Fprintln(c.Out, ui.RenderSeparator())
		fmt.Fprintln(c.Out, strings.TrimRight(out.Output, "\n"))
	default:
		fmt.Fprintln(c.Out, ui.RenderSeparator())
		text := out.Output
		if c.Color {
			text = ui.RenderMarkdown(text)
		}
		fmt.Fprintln(c.Out, strings.TrimRight(text, "\n"))
	}
	fmt.Fprintln(c.Out, ui.RenderSeparator())
}

func (c *Console) Verdict(hook model.HookName, d decision.Decision) {
	if d == decision.Proceed {
		fmt.Fprintln(c.Out, ui.RenderPass(fmt.Sprintf("%s Proceeding with %s", ui.IconPass, hook.Action())))
		return
	}
	fmt.Fprintln(c.Out, ui.RenderFail(fmt.Sprintf("%s %s blocked. Use `git %s --no-verify` to skip review.",
		ui.IconFail, capitalize(hook.Action()), hook.Action())))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
