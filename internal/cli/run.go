package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aezell/reviewgate/internal/config"
	"github.com/aezell/reviewgate/internal/decision"
	"github.com/aezell/reviewgate/internal/diff"
	"github.com/aezell/reviewgate/internal/gate"
	"github.com/aezell/reviewgate/internal/model"
	"github.com/aezell/reviewgate/internal/reviewer"
	"github.com/aezell/reviewgate/internal/telemetry"
	"github.com/aezell/reviewgate/internal/tui"
	"github.com/aezell/reviewgate/internal/ui"
)

var runCmd = &cobra.Command{
	Use:   "run <pre-commit|pre-push> [remote] [url]",
	Short: "Review changes and decide whether git may continue",
	Long: `Run the review gate for a hook. The installed hook shims call this;
running it by hand reviews the staged changes (pre-commit) or the commits
not yet on the upstream branch (pre-push).

Exits 0 to let git continue and 1 to block it.`,
	Args: cobra.RangeArgs(1, 3),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringP("config", "c", "", "path to config file (default: $REVIEWGATE_CONFIG or .reviewgate/config.json)")
	runCmd.Flags().Duration("timeout", 0, "how long to wait for an answer (default from config, 30s)")
	runCmd.Flags().Bool("tui", false, "show the review in a full-screen view")
	runCmd.Flags().Bool("show-diff", false, "print the diff before the review")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	hook, err := model.ParseHook(args[0])
	if err != nil {
		return err
	}

	shutdown, err := telemetry.Init(version)
	if err != nil {
		ui.Warnf("tracing disabled: %v", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	cwd, err := os.Getwd()
	if err != nil {
		ui.Warnf("cannot determine working directory (%v); skipping review", err)
		return nil
	}
	root, err := diff.RepoRoot(ctx, cwd)
	if err != nil {
		ui.Warnf("not inside a git repository (%v); skipping review", err)
		return nil
	}

	cfg := loadConfig(cmd, root)
	if err := applyRunFlags(cmd, &cfg); err != nil {
		return err
	}

	git := diff.NewGit(root)
	ranges, err := hookRanges(ctx, git, hook, args[1:])
	if err != nil {
		ui.Warnf("%v; skipping review", err)
		return nil
	}
	for _, r := range ranges {
		ui.Debugf("run: reviewing %s", r)
	}

	in, out, closeTTY := promptIO()
	defer closeTTY()
	interactive := decision.Interactive(in)

	console := &gate.Console{Out: os.Stderr, Color: ui.ShouldUseColor()}
	var presenter gate.Presenter = console
	var asker gate.Asker = decision.Prompter{In: in, Out: out}
	if cfg.TUI && interactive {
		s := &tui.Session{In: in, Out: out, Console: console}
		presenter, asker = s, s
	}

	g := &gate.Gate{
		Config:      cfg,
		VCS:         git,
		Reviewer:    reviewer.NewInvoker(),
		Asker:       asker,
		Presenter:   presenter,
		Log:         gate.NewFileLog(root),
		Interactive: interactive,
	}
	if d := g.Run(ctx, hook, ranges); d != decision.Proceed {
		return ErrBlocked
	}
	return nil
}

// loadConfig resolves the config for root and reports field problems.
func loadConfig(cmd *cobra.Command, root string) config.ReviewConfig {
	flagPath, _ := cmd.Flags().GetString("config")
	path := config.Path(flagPath, root)
	ui.Debugf("config: %s", path)

	cfg, problems := config.Load(path)
	for _, p := range problems {
		ui.Warnf("config %s: %v (using default)", path, p)
	}
	return cfg
}

func applyRunFlags(cmd *cobra.Command, cfg *config.ReviewConfig) error {
	flags := cmd.Flags()
	if flags.Changed("timeout") {
		timeout, _ := flags.GetDuration("timeout")
		if timeout <= 0 {
			return fmt.Errorf("--timeout must be positive, got %s", timeout)
		}
		cfg.PromptTimeout = timeout
	}
	if flags.Changed("tui") {
		cfg.TUI, _ = flags.GetBool("tui")
	}
	if flags.Changed("show-diff") {
		cfg.ShowDiff, _ = flags.GetBool("show-diff")
	}
	return nil
}

// hookRanges works out what the hook reviews. pre-push reads git's ref
// lines from stdin unless stdin is a terminal (a manual run).
func hookRanges(ctx context.Context, git *diff.Git, hook model.HookName, hookArgs []string) ([]diff.Range, error) {
	if hook == model.HookPreCommit {
		return []diff.Range{diff.Staged()}, nil
	}

	remote := ""
	if len(hookArgs) > 0 {
		remote = hookArgs[0]
	}
	var refs io.Reader = os.Stdin
	if term.IsTerminal(int(os.Stdin.Fd())) {
		refs = strings.NewReader("")
	}
	return git.PushRanges(ctx, remote, refs)
}

// promptIO picks where the operator answers. Hooks may have stdin taken by
// git, so the controlling terminal is preferred.
func promptIO() (*os.File, *os.File, func()) {
	tty, err := decision.OpenTTY()
	if err != nil {
		ui.Debugf("run: no controlling terminal: %v", err)
		return os.Stdin, os.Stderr, func() {}
	}
	return tty, tty, func() { _ = tty.Close() }
}
