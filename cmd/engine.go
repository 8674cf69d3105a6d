package cmd

import (
	"fmt"
	"path/filepath"

	"code.cloudfoundry.org/aib/engine"
)

// loadEngine reads the configured manifest, builds an Engine from it, and
// runs FinalizeInstallDependencies — the shared setup for the finalize,
// list-aib-components, list-aib-targets and package subcommands.
func loadEngine() (*engine.Engine, error) {
	if flagManifest == "" {
		return nil, fmt.Errorf("--manifest (or -m) must be set")
	}
	if err := validateOutputFormat(); err != nil {
		return nil, err
	}

	manifest, err := LoadManifest(flagManifest)
	if err != nil {
		return nil, err
	}

	logVerbose("replaying manifest %s against %s", flagManifest, flagInstallDir)
	e, _, err := BuildEngine(manifest, filepath.Dir(flagManifest), engineConfig())
	if err != nil {
		return nil, err
	}

	if err := e.Config.Validate(); err != nil {
		return nil, err
	}

	if err := e.FinalizeInstallDependencies(); err != nil {
		return nil, fmt.Errorf("finalizing install dependencies: %w", err)
	}

	return e, nil
}
