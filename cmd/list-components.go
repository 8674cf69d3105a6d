package cmd

import (
	"github.com/spf13/cobra"
)

var listComponentsCmd = &cobra.Command{
	Use:   "list-aib-components",
	Short: "List every component name registered by the manifest's AutoInstall declarations",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEngine()
		if err != nil {
			return err
		}
		return printNames("components", e.ListComponents())
	},
}

func init() {
	RootCmd.AddCommand(listComponentsCmd)
}
