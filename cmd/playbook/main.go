package main

import (
	"github.com/spf13/cobra"

	"github.com/spektr-org/playbook/config"
)

// ============================================================================
// PLAYBOOK CLI — Synthetic sports data and chart resolution
// ============================================================================

const version = "0.1.0"

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "playbook",
		Short:        "Generate synthetic sports datasets and resolve charts over them",
		Version:      version,
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", config.DefaultConfigFile, "config file (.yaml, .ini or .cfg)")
	root.PersistentFlags().String("profile", config.DefaultProfile, "config profile (ini files)")
	root.PersistentFlags().String("log-level", "", "debug, info, warn or error (default: from config)")
	root.PersistentFlags().Int64("seed", 0, "random seed, 0 for time-seeded (default: from config)")
	root.PersistentFlags().Int("samples", 0, "number of rows to generate (default: from config)")
	root.PersistentFlags().Int("cols", 0, "number of columns to generate (default: from config)")
	root.PersistentFlags().String("from", "", "load the dataset from a CSV file instead of generating one")
	root.PersistentFlags().BoolP("quiet", "q", false, "silence status output")
	addCommands(root)
	return root
}

func main() {
	newRootCommand().Execute()
}
