package autoinstall_test

import (
	"fmt"
	"testing"

	"code.cloudfoundry.org/aib/alias"
	"code.cloudfoundry.org/aib/autoinstall"
	"code.cloudfoundry.org/aib/graph"
	"code.cloudfoundry.org/aib/suffix"
	"code.cloudfoundry.org/aib/tags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInstaller(t *testing.T) (*autoinstall.Installer, *alias.Map, *graph.Engine) {
	t.Helper()
	g := graph.NewEngine()
	aliases := alias.NewMap(g)
	n := 0
	install := func(targetDir string, source *graph.Node) (*graph.Node, error) {
		n++
		action := graph.New(fmt.Sprintf("install-action-%d", n), source)
		g.AddNode(action)
		return action, nil
	}
	return autoinstall.NewInstaller(aliases, install), aliases, g
}

func TestAutoInstallTagsSourceAndRegistersAction(t *testing.T) {
	ins, _, g := newInstaller(t)
	bin := graph.New("server")
	g.AddNode(bin)

	actions, err := ins.AutoInstall("$PREFIX_BIN_DIR", []*graph.Node{bin}, "server", "runtime", []string{"runtime"}, nil)
	require.NoError(t, err)
	require.Len(t, actions, 1)

	assert.True(t, tags.Of(bin).KeepTargetInfo)
	assert.Equal(t, []string{"all", "server"}, tags.SortedKeys(tags.GetComponents(bin)))
	assert.Equal(t, []string{"meta", "runtime"}, tags.SortedKeys(tags.GetRoles(bin)))
	assert.Equal(t, actions, tags.InstallActions(bin))
}

func TestAutoInstallRejectsWhitespaceComponent(t *testing.T) {
	ins, _, g := newInstaller(t)
	bin := graph.New("server")
	g.AddNode(bin)

	_, err := ins.AutoInstall("$PREFIX_BIN_DIR", []*graph.Node{bin}, "my server", "runtime", nil, nil)
	require.Error(t, err)
}

func TestAutoInstallWiresInstallAliasDependencies(t *testing.T) {
	ins, aliases, g := newInstaller(t)
	bin := graph.New("server")
	g.AddNode(bin)

	actions, err := ins.AutoInstall("$PREFIX_BIN_DIR", []*graph.Node{bin}, "server", "runtime", nil, nil)
	require.NoError(t, err)

	info := aliases.Lookup("server", "runtime")
	require.NotNil(t, info)
	assert.Contains(t, info.Node.Sources, actions[0])
}

func TestAutoInstallWiresBaseEscapeHatch(t *testing.T) {
	ins, aliases, g := newInstaller(t)
	bin := graph.New("server")
	g.AddNode(bin)

	_, err := ins.AutoInstall("$PREFIX_BIN_DIR", []*graph.Node{bin}, "server", "runtime", nil, nil)
	require.NoError(t, err)

	runtimeInfo := aliases.Lookup("server", "runtime")
	require.NotNil(t, runtimeInfo)

	baseInfo := aliases.Lookup("server", "base")
	require.NotNil(t, baseInfo)
	assert.Contains(t, runtimeInfo.Node.Sources, baseInfo.Node)

	commonBaseInfo := aliases.Lookup("common", "base")
	require.NotNil(t, commonBaseInfo)
	assert.Contains(t, runtimeInfo.Node.Sources, commonBaseInfo.Node)
}

func TestAutoInstallOmitsCommonBaseSelfDependency(t *testing.T) {
	ins, aliases, g := newInstaller(t)
	bin := graph.New("libcommon")
	g.AddNode(bin)

	_, err := ins.AutoInstall("$PREFIX_LIB_DIR", []*graph.Node{bin}, "common", "base", nil, nil)
	require.NoError(t, err)

	commonBase := aliases.Lookup("common", "base")
	require.NotNil(t, commonBase)
	for _, src := range commonBase.Node.Sources {
		assert.NotSame(t, commonBase.Node, src)
	}
}

func TestAutoInstallReinvocationUnionsIntoSameAlias(t *testing.T) {
	ins, aliases, g := newInstaller(t)
	bin := graph.New("server")
	g.AddNode(bin)

	first, err := ins.AutoInstall("$PREFIX_BIN_DIR", []*graph.Node{bin}, "server", "runtime", nil, nil)
	require.NoError(t, err)
	second, err := ins.AutoInstall("$PREFIX_BIN_DIR", []*graph.Node{bin}, "server", "runtime", nil, nil)
	require.NoError(t, err)

	// Re-invocation registers a second install action (the host's Install
	// callback was called again), but it unions into the same tag set and
	// the same alias rather than duplicating either.
	assert.Len(t, tags.InstallActions(bin), 2)
	info := aliases.Lookup("server", "runtime")
	for _, a := range append(first, second...) {
		assert.Contains(t, info.Node.Sources, a)
	}
}

func newTestSuffixes(t *testing.T) *suffix.Map {
	t.Helper()
	m := suffix.New()
	require.NoError(t, m.Add("", suffix.Entry{
		Directory:    suffix.Literal("$PREFIX_BIN_DIR"),
		DefaultRoles: []string{"runtime"},
	}))
	return m
}

func TestEmitterSkipsOptedOutTargets(t *testing.T) {
	ins, aliases, g := newInstaller(t)
	suffixes := newTestSuffixes(t)
	emitter := autoinstall.NewEmitter(ins, suffixes)

	bin := graph.New("server")
	g.AddNode(bin)
	autoinstall.MarkIgnoreAutoinstall(bin)

	require.NoError(t, emitter.Emit(bin, "server", "runtime", nil))
	assert.Nil(t, aliases.Lookup("server", "runtime"))
}

func TestEmitterSkipsUnmatchedSuffix(t *testing.T) {
	ins, aliases, g := newInstaller(t)
	suffixes := suffix.New()
	emitter := autoinstall.NewEmitter(ins, suffixes)

	bin := graph.New("server.unknownext")
	g.AddNode(bin)

	require.NoError(t, emitter.Emit(bin, "server", "runtime", nil))
	assert.Nil(t, aliases.Lookup("server", "runtime"))
}

func TestEmitterInvokesAutoInstallOnMatch(t *testing.T) {
	ins, aliases, g := newInstaller(t)
	suffixes := newTestSuffixes(t)
	emitter := autoinstall.NewEmitter(ins, suffixes)

	bin := graph.New("server")
	g.AddNode(bin)

	require.NoError(t, emitter.Emit(bin, "server", "runtime", nil))
	assert.NotNil(t, aliases.Lookup("server", "runtime"))
}
