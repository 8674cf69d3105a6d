package cmd

import (
	"github.com/spf13/cobra"
)

// docsCmd represents the docs command
var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Has subcommands to create documentation for aib.",
	Long:  ``,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Generating documentation doesn't need --install-dir/--dest-dir.
		return nil
	},
}

func init() {
	RootCmd.AddCommand(docsCmd)
}
