package cmd

import (
	"github.com/spf13/cobra"
)

var listTargetsCmd = &cobra.Command{
	Use:   "list-aib-targets",
	Short: "List every install-* and tar-* alias name the manifest finalizes to",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEngine()
		if err != nil {
			return err
		}
		return printNames("targets", e.ListTargets())
	},
}

func init() {
	RootCmd.AddCommand(listTargetsCmd)
}
