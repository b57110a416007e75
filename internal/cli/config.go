package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aezell/reviewgate/internal/config"
	"github.com/aezell/reviewgate/internal/diff"
	"github.com/aezell/reviewgate/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved configuration",
	Long: `Print the configuration a hook run would use, after defaults are
applied to missing or malformed fields.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().StringP("config", "c", "", "path to config file")
	configCmd.Flags().StringP("format", "f", "json", "output format: json, yaml, or toml")
}

func runConfig(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	root := ""
	if cwd, err := os.Getwd(); err == nil {
		if r, err := diff.RepoRoot(cmd.Context(), cwd); err == nil {
			root = r
		}
	}

	flagPath, _ := cmd.Flags().GetString("config")
	path := config.Path(flagPath, root)
	if root == "" && flagPath == "" && os.Getenv(config.EnvPath) == "" {
		path = ""
	}

	cfg, problems := config.Load(path)
	for _, p := range problems {
		ui.Warnf("config %s: %v (using default)", path, p)
	}
	return config.Encode(cmd.OutOrStdout(), cfg, format)
}
