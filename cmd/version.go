package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Displays aib's version.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s\n", version)
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The docs and version commands don't need --install-dir/--dest-dir.
		return nil
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}
