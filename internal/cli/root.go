// Package cli implements the reviewgate command line.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aezell/reviewgate/internal/ui"
)

// ErrBlocked is returned when the gate aborts the git operation. It maps to
// exit status 1 and is not printed as an error.
var ErrBlocked = errors.New("operation blocked by review gate")

var rootCmd = &cobra.Command{
	Use:   "reviewgate",
	Short: "AI code review gate for git commits and pushes",
	Long: `reviewgate installs git hooks that send your diff to an AI reviewer
(claude -p by default) and asks whether to continue before a commit or push.

Examples:
  reviewgate install                  # install pre-commit and pre-push hooks
  reviewgate install --hooks pre-push # only gate pushes
  reviewgate status                   # show hook and reviewer status
  reviewgate config --format yaml     # print the resolved configuration
  git commit --no-verify              # skip review once`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		noColor, _ := cmd.Flags().GetBool("no-color")
		ui.SetVerbose(verbose)
		ui.SetupColor(noColor)
	},
}

func init() {
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "print debug output")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, ErrBlocked) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}
