package engine_test

import (
	"testing"

	"code.cloudfoundry.org/aib/engine"
	"code.cloudfoundry.org/aib/graph"
	"code.cloudfoundry.org/aib/scanner"
	"code.cloudfoundry.org/aib/suffix"
	"code.cloudfoundry.org/aib/tags"
	"code.cloudfoundry.org/aib/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestEngine builds an Engine over an in-memory graph.Engine whose
// install primitive stages a node under targetDir without touching a real
// filesystem — the host orchestrator's job everywhere else in this module.
func newTestEngine(t *testing.T) (*engine.Engine, *graph.Engine) {
	t.Helper()
	g := graph.NewEngine()
	install := func(targetDir string, source *graph.Node) (*graph.Node, error) {
		action := graph.New(targetDir+"/"+source.Name, source)
		g.AddNode(action)
		return action, nil
	}
	e, err := engine.New(g, install, engine.DefaultConfig("/install", "/dest"))
	require.NoError(t, err)
	return e, g
}

func TestScenario1InstallGraph(t *testing.T) {
	e, g := newTestEngine(t)

	foo := graph.New("foo")
	g.AddNode(foo)
	_, err := e.AutoInstall("/install/bin", []*graph.Node{foo}, "server", "runtime", nil, nil)
	require.NoError(t, err)

	require.NoError(t, e.FinalizeInstallDependencies())

	runtimeInfo := e.Aliases.Lookup("server", "runtime")
	require.NotNil(t, runtimeInfo)
	assert.Equal(t, "install-server", runtimeInfo.Name)

	baseInfo := e.Aliases.Lookup("server", "base")
	require.NotNil(t, baseInfo)
	commonBaseInfo := e.Aliases.Lookup("common", "base")
	require.NotNil(t, commonBaseInfo)

	assert.Contains(t, runtimeInfo.Node.Sources, baseInfo.Node)
	assert.Contains(t, runtimeInfo.Node.Sources, commonBaseInfo.Node)

	tarAlias := e.Aliases.TarAlias("server", "runtime")
	require.NotNil(t, tarAlias)
	assert.Equal(t, "tar-server", tarAlias.Name)
	assert.Equal(t, "server-runtime.tar.gz", e.ArchiveName("server", "runtime"))
}

func TestScenario2BoundaryExcludesDifferentRoleSlice(t *testing.T) {
	// Substitutes "dev" for spec.md scenario 2's literal "runtime" origin;
	// see DESIGN.md Open Question decision 4.
	e, g := newTestEngine(t)

	foo := graph.New("foo")
	g.AddNode(foo)
	fooActions, err := e.AutoInstall("/install/bin", []*graph.Node{foo}, "server", "dev", nil, nil)
	require.NoError(t, err)

	libutil := graph.New("libutil.so")
	g.AddNode(libutil)
	libutilActions, err := e.AutoInstall("/install/lib", []*graph.Node{libutil}, "common", "dev", nil, nil)
	require.NoError(t, err)

	libdev := graph.New("libdev.so")
	g.AddNode(libdev)
	libdevActions, err := e.AutoInstall("/install/lib", []*graph.Node{libdev}, "tools", "debug", nil, nil)
	require.NoError(t, err)

	g.DependsOn(foo, libutil)
	g.DependsOn(foo, libdev)

	result, err := scanner.Scan(g, fooActions[0], nil)
	require.NoError(t, err)
	assert.Contains(t, result, libutilActions[0])
	assert.NotContains(t, result, libdevActions[0])
}

func TestScenario3BaseCrossesRegardlessOfRole(t *testing.T) {
	e, g := newTestEngine(t)

	foo := graph.New("foo")
	g.AddNode(foo)
	fooActions, err := e.AutoInstall("/install/bin", []*graph.Node{foo}, "server", "dev", nil, nil)
	require.NoError(t, err)

	libutil := graph.New("libutil.so")
	g.AddNode(libutil)
	libutilActions, err := e.AutoInstall("/install/lib", []*graph.Node{libutil}, "common", "dev", nil, nil)
	require.NoError(t, err)

	libdev := graph.New("libdev.so")
	g.AddNode(libdev)
	libdevActions, err := e.AutoInstall("/install/lib", []*graph.Node{libdev}, "tools", "debug", []string{"base"}, nil)
	require.NoError(t, err)

	g.DependsOn(foo, libutil)
	g.DependsOn(foo, libdev)

	result, err := scanner.Scan(g, fooActions[0], nil)
	require.NoError(t, err)
	assert.Contains(t, result, libutilActions[0])
	assert.Contains(t, result, libdevActions[0])
}

func TestScenario4PackageNameAliasAndPrefix(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Packages.SetPrefix("acme-")
	e.AddPackageNameAlias("server", "runtime", "mongodb-server")

	assert.Equal(t, "acme-mongodb-server.tar.gz", e.ArchiveName("server", "runtime"))
}

func TestScenario5DebugDirectoryInheritsOriginDirectory(t *testing.T) {
	e, g := newTestEngine(t)

	foo := graph.New("foo")
	require.NoError(t, tags.SetTags(foo, []string{"server"}, []string{"runtime"}))
	g.AddNode(foo)

	fooDebug := graph.New("foo.debug")
	tags.SetDebugOrigin(fooDebug, foo)
	g.AddNode(fooDebug)

	dir, ok, err := e.Suffixes.ClassifyDirectory(fooDebug)
	require.NoError(t, err)
	require.True(t, ok)

	fooDir, ok, err := e.Suffixes.ClassifyDirectory(foo)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, fooDir, dir)
	assert.Equal(t, e.Config.BinDir, dir)
}

func TestScenario6SuffixMappingInvalidRole(t *testing.T) {
	e, _ := newTestEngine(t)

	err := e.AddSuffixMapping(".weird", suffix.Literal("/install/bogus"), "bogus")
	require.Error(t, err)

	verr, ok := err.(*validation.Error)
	require.True(t, ok)
	assert.Equal(t, validation.ErrorTypeInvalidRole, verr.Type)
}

func TestAddSuffixMappingsCollectsAllFailures(t *testing.T) {
	e, _ := newTestEngine(t)

	err := e.AddSuffixMappings(map[string]suffix.Entry{
		".one": {Directory: suffix.Literal("/x"), DefaultRoles: []string{"bogus-one"}},
		".two": {Directory: suffix.Literal("/y"), DefaultRoles: []string{"bogus-two"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus-one")
	assert.Contains(t, err.Error(), "bogus-two")
}

func TestFinalizeInstallDependenciesTwicePanics(t *testing.T) {
	e, _ := newTestEngine(t)
	require.NoError(t, e.FinalizeInstallDependencies())
	assert.Panics(t, func() {
		_ = e.FinalizeInstallDependencies()
	})
}

func TestAutoInstallAfterFinalizePanics(t *testing.T) {
	e, g := newTestEngine(t)
	require.NoError(t, e.FinalizeInstallDependencies())

	foo := graph.New("foo")
	g.AddNode(foo)
	assert.Panics(t, func() {
		_, _ = e.AutoInstall("/install/bin", []*graph.Node{foo}, "server", "runtime", nil, nil)
	})
}

func TestListComponentsAndTargetsAreSorted(t *testing.T) {
	e, g := newTestEngine(t)

	for _, name := range []string{"zeta", "alpha"} {
		n := graph.New(name)
		g.AddNode(n)
		_, err := e.AutoInstall("/install/bin", []*graph.Node{n}, name, "runtime", nil, nil)
		require.NoError(t, err)
	}
	require.NoError(t, e.FinalizeInstallDependencies())

	components := e.ListComponents()
	assert.Equal(t, []string{"all", "alpha", "common", "zeta"}, components)

	targets := e.ListTargets()
	assert.True(t, len(targets) > 0)
	for i := 1; i < len(targets); i++ {
		assert.LessOrEqual(t, targets[i-1], targets[i])
	}
}
