package engine

import (
	"path/filepath"

	"code.cloudfoundry.org/aib/util"
)

// Config is the process-wide configuration consumed by New: the
// "Configuration options" environment variables from spec.md §6, already
// resolved to concrete paths. Binding these to the process environment
// (INSTALL_DIR, DEST_DIR, AIB_PACKAGE_PREFIX, PREFIX_*_DIR) is the host
// orchestrator's job — package cmd does it with viper, binding each flag to
// its own named environment variable individually rather than through a
// single prefix.
type Config struct {
	// InstallDir is the root of the staged install tree (INSTALL_DIR).
	InstallDir string
	// DestDir is the archive-root directory tar paths are recorded relative
	// to (DEST_DIR).
	DestDir string
	// PackagePrefix is prepended to every archive basename
	// (AIB_PACKAGE_PREFIX).
	PackagePrefix string

	// BinDir, LibDir, IncludeDir, DocDir, ShareDir, DebugDir are the
	// per-kind install subdirectories (PREFIX_BIN_DIR, PREFIX_LIB_DIR,
	// PREFIX_INCLUDE_DIR, PREFIX_DOC_DIR, PREFIX_SHARE_DIR,
	// PREFIX_DEBUG_DIR).
	BinDir     string
	LibDir     string
	IncludeDir string
	DocDir     string
	ShareDir   string
	DebugDir   string
}

// DefaultConfig fills in the "defaults provided" PREFIX_*_DIR subdirectories
// relative to installDir, grounded on original_source/auto_install_binaries.py's
// INSTALLDIR_BINDIR/INSTALLDIR_LIBDIR/INSTALLDIR_INCLUDEDIR defaults.
// DebugDir defaults alongside LibDir, since the teacher's suffix map has no
// standalone debug directory on most platforms and falls back to the
// binary's own directory via DebugDirectoryOf.
func DefaultConfig(installDir, destDir string) Config {
	return Config{
		InstallDir: installDir,
		DestDir:    destDir,
		BinDir:     filepath.Join(installDir, "bin"),
		LibDir:     filepath.Join(installDir, "lib"),
		IncludeDir: filepath.Join(installDir, "include"),
		DocDir:     filepath.Join(installDir, "doc"),
		ShareDir:   filepath.Join(installDir, "share"),
		DebugDir:   filepath.Join(installDir, "lib", "debug"),
	}
}

// Validate checks that InstallDir and DestDir exist and are directories,
// via util.ValidatePath (teacher util, §4.2's staged-tree precondition).
func (c Config) Validate() error {
	if err := util.ValidatePath(c.InstallDir, true, "INSTALL_DIR"); err != nil {
		return err
	}
	return util.ValidatePath(c.DestDir, true, "DEST_DIR")
}
