package alias_test

import (
	"testing"

	"code.cloudfoundry.org/aib/alias"
	"github.com/stretchr/testify/assert"
)

func TestPackageMapDefaultBasename(t *testing.T) {
	pm := alias.NewPackageMap("")
	assert.Equal(t, "server-runtime", pm.Basename("server", "runtime"))
	assert.Equal(t, "server-runtime.tar.gz", pm.ArchiveName("server", "runtime"))
}

func TestPackageMapOverrideAndPrefix(t *testing.T) {
	pm := alias.NewPackageMap("acme-")
	pm.AddPackageNameAlias("server", "runtime", "acme-server")

	assert.Equal(t, "acme-server", pm.Basename("server", "runtime"))
	assert.Equal(t, "acme-acme-server.tar.gz", pm.ArchiveName("server", "runtime"))

	// Unoverridden (component, role) pairs still get the default basename.
	assert.Equal(t, "server-debug", pm.Basename("server", "debug"))
}

func TestPackageMapSetPrefix(t *testing.T) {
	pm := alias.NewPackageMap("")
	pm.SetPrefix("v2-")
	assert.Equal(t, "v2-server-runtime.tar.gz", pm.ArchiveName("server", "runtime"))
}

func TestPackageMapDefaultBasenameSanitizesComponentAndRole(t *testing.T) {
	pm := alias.NewPackageMap("")
	assert.Equal(t, "web-server-live-role.tar.gz", pm.ArchiveName("WebServer", "Live Role"))

	// An explicit override is used verbatim, not re-sanitized.
	pm.AddPackageNameAlias("WebServer", "Live Role", "WeirdButIntentional")
	assert.Equal(t, "WeirdButIntentional.tar.gz", pm.ArchiveName("WebServer", "Live Role"))
}
