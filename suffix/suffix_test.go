package suffix_test

import (
	"testing"

	"code.cloudfoundry.org/aib/graph"
	"code.cloudfoundry.org/aib/suffix"
	"code.cloudfoundry.org/aib/tags"
	"code.cloudfoundry.org/aib/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMap(t *testing.T) *suffix.Map {
	t.Helper()
	m := suffix.New()
	require.NoError(t, m.Add("", suffix.Entry{
		Directory:    suffix.Literal("$PREFIX_BIN_DIR"),
		DefaultRoles: []string{"runtime"},
	}))
	require.NoError(t, m.Add(".so", suffix.Entry{
		Directory:    suffix.Literal("$PREFIX_LIB_DIR"),
		DefaultRoles: []string{"runtime"},
	}))
	require.NoError(t, m.Add(".debug", suffix.Entry{
		Directory:    suffix.DebugDirectoryOf("$PREFIX_DEBUG_DIR"),
		DefaultRoles: []string{"debug"},
	}))
	require.NoError(t, m.AddLiteral("LICENSE", suffix.Entry{
		Directory:    suffix.Literal("$PREFIX_DOC_DIR"),
		DefaultRoles: []string{"meta"},
	}))
	return m
}

func TestAddRejectsUnknownRole(t *testing.T) {
	m := suffix.New()
	err := m.Add(".weird", suffix.Entry{DefaultRoles: []string{"bogus"}})
	require.Error(t, err)

	verr, ok := err.(*validation.Error)
	require.True(t, ok)
	assert.Equal(t, validation.ErrorTypeInvalidRole, verr.Type)
}

func TestClassifyLongestSuffixWins(t *testing.T) {
	m := newTestMap(t)
	require.NoError(t, m.Add("special.so", suffix.Entry{
		Directory:    suffix.Literal("$PREFIX_SHARE_DIR"),
		DefaultRoles: []string{"dev"},
	}))

	entry, ok := m.Classify("libfoo.special.so")
	require.True(t, ok)
	dir, err := entry.Directory(m, graph.New("libfoo.special.so"))
	require.NoError(t, err)
	assert.Equal(t, "$PREFIX_SHARE_DIR", dir)
}

func TestClassifyLiteralWholeFilename(t *testing.T) {
	m := newTestMap(t)

	entry, ok := m.Classify("LICENSE")
	require.True(t, ok)
	assert.Equal(t, []string{"meta"}, entry.DefaultRoles)
}

func TestClassifyNoMatch(t *testing.T) {
	m := suffix.New()
	_, ok := m.Classify("whatever.unknownext")
	assert.False(t, ok)
}

func TestDebugDirectoryInheritsFromOrigin(t *testing.T) {
	m := newTestMap(t)

	bin := graph.New("foo")
	debugNode := graph.New("foo.debug")
	tags.SetDebugOrigin(debugNode, bin)

	dir, ok, err := m.ClassifyDirectory(debugNode)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "$PREFIX_BIN_DIR", dir)
}

func TestDebugDirectoryFallsBackWithoutOrigin(t *testing.T) {
	m := newTestMap(t)

	debugNode := graph.New("orphan.debug")
	dir, ok, err := m.ClassifyDirectory(debugNode)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "$PREFIX_DEBUG_DIR", dir)
}
