package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var finalizeCmd = &cobra.Command{
	Use:   "finalize",
	Short: "Replay a manifest and report its finalized install/tar aliases",
	Long: `
finalize loads the manifest given by --manifest, replays its suffix
mappings, package aliases, and AutoInstall declarations against a fresh
engine, and runs FinalizeInstallDependencies. It never writes an archive;
use list-aib-targets to see the resulting alias names, or call the engine
library directly from a real orchestrator to go on to BuildTarBalls.
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEngine()
		if err != nil {
			return err
		}

		components := e.ListComponents()
		if flagOutputFormat == "json" {
			return printJSON(map[string]interface{}{
				"components": components,
				"targets":    e.ListTargets(),
			})
		}

		fmt.Println(color.GreenString("finalized %d component(s)", len(components)))
		for _, c := range components {
			for _, r := range e.Aliases.Roles(c) {
				fmt.Printf("  %s/%s -> %s\n", c, r, e.ArchiveName(c, r))
			}
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(finalizeCmd)
}
