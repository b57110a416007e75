package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aezell/reviewgate/internal/config"
	"github.com/aezell/reviewgate/internal/install"
	"github.com/aezell/reviewgate/internal/reviewer"
	"github.com/aezell/reviewgate/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show hook, config, and reviewer status",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringP("config", "c", "", "path to config file")
}

func runStatus(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	inst, err := install.New(cmd.Context(), cwd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	flagPath, _ := cmd.Flags().GetString("config")
	cfgPath := config.Path(flagPath, inst.RepoRoot)
	cfg, problems := config.Load(cfgPath)

	fmt.Fprintln(out, ui.RenderHeader("Hooks"))
	for _, s := range inst.Status() {
		enabled := ""
		if !cfg.EnabledHooks.Has(s.Hook) {
			enabled = ui.RenderMuted(" (disabled in config)")
		}
		fmt.Fprintf(out, "  %s %-10s %s%s\n", stateIcon(s.State), s.Hook, s.State, enabled)
	}

	fmt.Fprintln(out, ui.RenderHeader("Config"))
	if _, err := os.Stat(cfgPath); err != nil {
		fmt.Fprintf(out, "  %s %s (not found, using defaults)\n", ui.RenderMuted(ui.IconSkip), cfgPath)
	} else if len(problems) > 0 {
		fmt.Fprintf(out, "  %s %s\n", ui.RenderWarn(ui.IconWarn), cfgPath)
		for _, p := range problems {
			fmt.Fprintf(out, "      %v\n", p)
		}
	} else {
		fmt.Fprintf(out, "  %s %s\n", ui.RenderPass(ui.IconPass), cfgPath)
	}

	fmt.Fprintln(out, ui.RenderHeader("Reviewer"))
	if path, err := reviewer.DefaultLocator().Locate(cfg.ReviewerCommand); err != nil {
		fmt.Fprintf(out, "  %s %s not found (reviews will be skipped)\n", ui.RenderWarn(ui.IconWarn), reviewer.DefaultCommand)
	} else {
		fmt.Fprintf(out, "  %s %s %v\n", ui.RenderPass(ui.IconPass), path, cfg.ReviewerArgs)
	}
	return nil
}

func stateIcon(s install.State) string {
	switch s {
	case install.Installed:
		return ui.RenderPass(ui.IconPass)
	case install.Foreign:
		return ui.RenderWarn(ui.IconWarn)
	default:
		return ui.RenderMuted(ui.IconSkip)
	}
}
