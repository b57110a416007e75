package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aezell/reviewgate/internal/install"
	"github.com/aezell/reviewgate/internal/model"
	"github.com/aezell/reviewgate/internal/reviewer"
	"github.com/aezell/reviewgate/internal/ui"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the review hooks into the current repository",
	Long: `Install reviewgate hook shims into the repository's hooks directory,
write a default .reviewgate/config.json if there is none, and ignore
.reviewgate/*.log in .gitignore.

Existing hooks that reviewgate did not write are left alone unless --force
is given, in which case they are saved as <hook>.backup.`,
	Args: cobra.NoArgs,
	RunE: runInstall,
}

func init() {
	installCmd.Flags().StringSlice("hooks", nil, "hooks to install (pre-commit,pre-push); prompts when omitted on a terminal")
	installCmd.Flags().Bool("force", false, "replace existing hooks not written by reviewgate")
}

func runInstall(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	inst, err := install.New(cmd.Context(), cwd)
	if err != nil {
		return err
	}

	hooks, err := selectHooks(cmd)
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Fprintln(os.Stderr, "Install cancelled.")
			return nil
		}
		return err
	}
	if len(hooks) == 0 {
		fmt.Fprintln(os.Stderr, "No hooks selected.")
		return nil
	}

	force, _ := cmd.Flags().GetBool("force")
	results, installErr := inst.Install(hooks, force)
	for _, r := range results {
		ui.Passf("%s %s (%s)", r.Hook, r.Action, r.Path)
	}
	if installErr != nil {
		ui.Failf("%v", installErr)
	}

	if wrote, err := inst.WriteDefaultConfig(); err != nil {
		ui.Warnf("could not write default config: %v", err)
	} else if wrote {
		ui.Passf("wrote default config to %s", inst.ConfigPath())
	}

	if changed, err := inst.EnsureGitignore(); err != nil {
		ui.Warnf("could not update .gitignore: %v", err)
	} else if changed {
		ui.Passf("added %s to .gitignore", install.LogPattern)
	}

	if _, err := reviewer.DefaultLocator().Locate(""); err != nil {
		ui.Warnf("%s CLI not found; hooks will let commits and pushes through until it is installed", reviewer.DefaultCommand)
	}

	return installErr
}

// selectHooks reads --hooks, or asks on a terminal, or installs every hook.
func selectHooks(cmd *cobra.Command) ([]model.HookName, error) {
	if cmd.Flags().Changed("hooks") {
		names, _ := cmd.Flags().GetStringSlice("hooks")
		return parseHooks(names)
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return model.AllHooks(), nil
	}

	var selected []string
	options := []huh.Option[string]{
		huh.NewOption("pre-commit: review staged changes before each commit", string(model.HookPreCommit)).Selected(true),
		huh.NewOption("pre-push: review outgoing commits before each push", string(model.HookPrePush)).Selected(true),
	}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Which hooks should run AI review?").
				Description("Space to toggle, enter to confirm").
				Options(options...).
				Value(&selected),
		),
	).WithTheme(huh.ThemeDracula())

	if err := form.Run(); err != nil {
		return nil, err
	}
	return parseHooks(selected)
}

func parseHooks(names []string) ([]model.HookName, error) {
	set := model.NewHookSet()
	for _, name := range names {
		h, err := model.ParseHook(name)
		if err != nil {
			return nil, err
		}
		set[h] = true
	}
	return set.List(), nil
}
