package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"code.cloudfoundry.org/aib/tarball"
)

var packageCmd = &cobra.Command{
	Use:   "package",
	Short: "Build the finalized gzip tarballs for every (component, role) pair",
	Long: `
package replays the manifest, finalizes its install graph, and runs the
Packager across a bounded pool of --workers goroutines, writing one
gzip-compressed tar per registered (component, role) pair into --dest-dir.
A pair whose transitive file set is empty produces no archive.
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEngine()
		if err != nil {
			return err
		}

		log.Debugf("packaging with %d worker(s) into %s", flagWorkers, flagDestDir)
		jobs := e.TarJobs(flagDestDir)
		var failed int
		for _, err := range e.BuildTarBalls(flagWorkers, tarball.ExecRunner, flagDestDir) {
			if err != nil {
				log.Error(err)
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("package: %d of %d tarball(s) failed", failed, len(jobs))
		}

		licenseCounts := make(map[string]int, len(jobs))
		for _, job := range jobs {
			if _, err := os.Stat(job.ArchivePath); os.IsNotExist(err) {
				// BuildOne writes nothing for an empty file set.
				continue
			}
			files, err := tarball.LicenseFiles(job.ArchivePath)
			if err != nil {
				return fmt.Errorf("package: auditing %s for license files: %w", job.ArchivePath, err)
			}
			licenseCounts[job.ArchivePath] = len(files)
			log.Debugf("%s: %d license file(s)", job.ArchivePath, len(files))
		}

		if flagOutputFormat == "json" {
			return printJSON(map[string]interface{}{"archives": flagDestDir, "license_files": licenseCounts})
		}
		fmt.Printf("wrote %d archive(s) to %s\n", len(licenseCounts), flagDestDir)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(packageCmd)
}
