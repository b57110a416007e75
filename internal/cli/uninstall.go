package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aezell/reviewgate/internal/install"
	"github.com/aezell/reviewgate/internal/ui"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the review hooks from the current repository",
	Long: `Remove hook shims written by reviewgate. Hooks written by anything else
are not touched. A hook saved aside by 'install --force' is restored.`,
	Args: cobra.NoArgs,
	RunE: runUninstall,
}

func init() {
	uninstallCmd.Flags().Bool("purge", false, "also delete the .reviewgate directory")
}

func runUninstall(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	inst, err := install.New(cmd.Context(), cwd)
	if err != nil {
		return err
	}

	results, uninstallErr := inst.Uninstall()
	if len(results) == 0 && uninstallErr == nil {
		ui.Infof("no reviewgate hooks installed")
	}
	for _, r := range results {
		ui.Passf("%s %s", r.Hook, r.Action)
	}

	if purge, _ := cmd.Flags().GetBool("purge"); purge {
		if err := inst.Purge(); err != nil {
			ui.Warnf("could not remove .reviewgate: %v", err)
		} else {
			ui.Passf("removed .reviewgate")
		}
	}
	return uninstallErr
}
