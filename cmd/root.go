package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"code.cloudfoundry.org/aib/engine"
)

var (
	cfgFile string
	version string

	flagInstallDir     string
	flagDestDir        string
	flagPackagePrefix  string
	flagBinDir         string
	flagLibDir         string
	flagIncludeDir     string
	flagDocDir         string
	flagShareDir       string
	flagDebugDir       string
	flagManifest       string
	flagWorkers        int
	flagOutputFormat   string
	flagVerbose        bool
	flagQuiet          bool
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "aib",
	Short: "The auto-install binaries engine",
	Long: `
aib declares and finalizes install-time dependencies between build outputs,
the way site_scons/site_tools/auto_install_binaries.py did for SCons, without
needing a SCons environment: point it at a manifest describing the install
graph and it will emit the alias and tarball graph an orchestrator can walk.
`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := validateBasicFlags(); err != nil {
			return err
		}
		configureLogging()
		return nil
	},
}

// Execute adds all child commands to the root command and parses the flags.
// This is called by main.main(); it only needs to happen once.
func Execute(v string) error {
	version = v
	return RootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.aib.yaml)")

	RootCmd.PersistentFlags().StringP(
		"manifest",
		"m",
		"",
		"Path to a yaml file describing the suffix mappings, package aliases, and AutoInstall declarations to replay.",
	)

	RootCmd.PersistentFlags().String(
		"install-dir",
		"",
		"Root of the staged install tree (INSTALL_DIR).",
	)

	RootCmd.PersistentFlags().String(
		"dest-dir",
		"",
		"Archive-root directory tar paths are recorded relative to (DEST_DIR).",
	)

	RootCmd.PersistentFlags().String(
		"package-prefix",
		"",
		"Prefix prepended to every archive basename (AIB_PACKAGE_PREFIX).",
	)

	RootCmd.PersistentFlags().String("bin-dir", "", "Override the bin install subdirectory (PREFIX_BIN_DIR).")
	RootCmd.PersistentFlags().String("lib-dir", "", "Override the lib install subdirectory (PREFIX_LIB_DIR).")
	RootCmd.PersistentFlags().String("include-dir", "", "Override the include install subdirectory (PREFIX_INCLUDE_DIR).")
	RootCmd.PersistentFlags().String("doc-dir", "", "Override the doc install subdirectory (PREFIX_DOC_DIR).")
	RootCmd.PersistentFlags().String("share-dir", "", "Override the share install subdirectory (PREFIX_SHARE_DIR).")
	RootCmd.PersistentFlags().String("debug-dir", "", "Override the debug-info install subdirectory (PREFIX_DEBUG_DIR).")

	RootCmd.PersistentFlags().IntP(
		"workers",
		"W",
		2,
		"Number of tarball-packaging workers to use.",
	)

	RootCmd.PersistentFlags().StringP(
		"output",
		"o",
		"human",
		"Choose output format, one of human, json.",
	)

	RootCmd.PersistentFlags().BoolP(
		"verbose",
		"V",
		false,
		"Enable verbose output.",
	)

	RootCmd.PersistentFlags().BoolP(
		"quiet",
		"q",
		false,
		"Suppress all but error output.",
	)

	viper.BindPFlags(RootCmd.PersistentFlags())

	viper.BindEnv("install-dir", "INSTALL_DIR")
	viper.BindEnv("dest-dir", "DEST_DIR")
	viper.BindEnv("package-prefix", "AIB_PACKAGE_PREFIX")
	viper.BindEnv("bin-dir", "PREFIX_BIN_DIR")
	viper.BindEnv("lib-dir", "PREFIX_LIB_DIR")
	viper.BindEnv("include-dir", "PREFIX_INCLUDE_DIR")
	viper.BindEnv("doc-dir", "PREFIX_DOC_DIR")
	viper.BindEnv("share-dir", "PREFIX_SHARE_DIR")
	viper.BindEnv("debug-dir", "PREFIX_DEBUG_DIR")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	initViper(viper.GetViper())
}

func initViper(v *viper.Viper) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.SetConfigName(".aib")
	v.AddConfigPath("$HOME")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err == nil {
		if v == viper.GetViper() {
			fmt.Println("Using config file:", viper.ConfigFileUsed())
		}
	}
}

func validateBasicFlags() error {
	var err error

	flagManifest = viper.GetString("manifest")
	flagInstallDir = viper.GetString("install-dir")
	flagDestDir = viper.GetString("dest-dir")
	flagPackagePrefix = viper.GetString("package-prefix")
	flagBinDir = viper.GetString("bin-dir")
	flagLibDir = viper.GetString("lib-dir")
	flagIncludeDir = viper.GetString("include-dir")
	flagDocDir = viper.GetString("doc-dir")
	flagShareDir = viper.GetString("share-dir")
	flagDebugDir = viper.GetString("debug-dir")
	flagWorkers = viper.GetInt("workers")
	flagOutputFormat = viper.GetString("output")
	flagVerbose = viper.GetBool("verbose")
	flagQuiet = viper.GetBool("quiet")

	if flagInstallDir == "" {
		return fmt.Errorf("--install-dir (or $INSTALL_DIR) must be set")
	}
	if flagDestDir == "" {
		return fmt.Errorf("--dest-dir (or $DEST_DIR) must be set")
	}

	if flagInstallDir, err = absolutePath(flagInstallDir); err != nil {
		return err
	}
	if flagDestDir, err = absolutePath(flagDestDir); err != nil {
		return err
	}
	if flagManifest != "" {
		if flagManifest, err = absolutePath(flagManifest); err != nil {
			return err
		}
	}

	return nil
}

// engineConfig builds an engine.Config from the resolved flags, overriding
// DefaultConfig's per-kind subdirectories with any explicit PREFIX_*_DIR value.
func engineConfig() engine.Config {
	cfg := engine.DefaultConfig(flagInstallDir, flagDestDir)
	cfg.PackagePrefix = flagPackagePrefix

	if flagBinDir != "" {
		cfg.BinDir = flagBinDir
	}
	if flagLibDir != "" {
		cfg.LibDir = flagLibDir
	}
	if flagIncludeDir != "" {
		cfg.IncludeDir = flagIncludeDir
	}
	if flagDocDir != "" {
		cfg.DocDir = flagDocDir
	}
	if flagShareDir != "" {
		cfg.ShareDir = flagShareDir
	}
	if flagDebugDir != "" {
		cfg.DebugDir = flagDebugDir
	}
	return cfg
}

func absolutePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("error getting absolute path for path %s: %v", path, err)
	}
	return abs, nil
}
