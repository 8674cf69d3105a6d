package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code.cloudfoundry.org/aib/engine"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadManifestParsesDeclarations(t *testing.T) {
	dir := t.TempDir()
	manifestPath := writeTempFile(t, dir, "manifest.yaml", `
suffixes:
  - suffix: .cfg
    directory: "$INSTALL_DIR/etc"
    default_roles: ["runtime"]
installs:
  - target_dir: "$INSTALL_DIR/bin"
    sources: ["server"]
    component: server
    role: runtime
`)

	m, err := LoadManifest(manifestPath)
	require.NoError(t, err)
	require.Len(t, m.Suffixes, 1)
	assert.Equal(t, ".cfg", m.Suffixes[0].Suffix)
	require.Len(t, m.Installs, 1)
	assert.Equal(t, "server", m.Installs[0].Component)
}

func TestBuildEngineReplaysInstallsAndFinalizes(t *testing.T) {
	dir := t.TempDir()
	writeTempFile(t, dir, "server", "binary contents")

	m := &Manifest{
		Installs: []ManifestInstall{
			{
				TargetDir: filepath.Join(dir, "out"),
				Sources:   []string{"server"},
				Component: "server",
				Role:      "runtime",
			},
		},
	}

	e, _, err := BuildEngine(m, dir, engine.DefaultConfig(dir, dir))
	require.NoError(t, err)
	require.NoError(t, e.FinalizeInstallDependencies())

	assert.Contains(t, e.ListComponents(), "server")
	assert.FileExists(t, filepath.Join(dir, "out", "server"))
}

func TestBuildEngineRejectsBadSuffixRole(t *testing.T) {
	dir := t.TempDir()
	m := &Manifest{
		Suffixes: []ManifestSuffix{
			{Suffix: ".weird", Directory: "/x", DefaultRoles: []string{"bogus"}},
		},
	}

	_, _, err := BuildEngine(m, dir, engine.DefaultConfig(dir, dir))
	require.Error(t, err)
}
