// Package suffix implements the Suffix Classifier: a mapping from filename
// suffix to an install directory template and a default role set
// (spec.md §4.2). Directory templates are either a literal path template
// string or a callable computed lazily — used by the debug-directory entry,
// which dereferences a node's debug_origin to re-classify the binary it
// came from and inherit its directory (spec.md §4.7).
package suffix

import (
	"path/filepath"
	"sort"
	"strings"

	"code.cloudfoundry.org/aib/graph"
	"code.cloudfoundry.org/aib/tags"
	"code.cloudfoundry.org/aib/validation"
)

// DirectoryTemplate resolves the install directory for a node once it has
// matched a suffix-map entry. Most entries are a Literal; the debug
// directory entry is Lazy (see DebugDirectoryOf).
type DirectoryTemplate func(m *Map, n *graph.Node) (string, error)

// Literal returns a DirectoryTemplate that always resolves to the given
// path template (e.g. "$INSTALL_DIR/bin"), unexpanded — variable
// substitution is the host orchestrator's job (spec.md §1 Out-of-scope).
func Literal(pathTemplate string) DirectoryTemplate {
	return func(*Map, *graph.Node) (string, error) {
		return pathTemplate, nil
	}
}

// DebugDirectoryOf returns the lazy directory template used for `.debug`/
// `.dSYM` entries: it follows the node's debug_origin back to the binary it
// was produced from, re-classifies that binary's suffix, and inherits its
// directory (spec.md §4.7).
func DebugDirectoryOf(fallback string) DirectoryTemplate {
	return func(m *Map, n *graph.Node) (string, error) {
		origin := tags.DebugOrigin(n)
		if origin == nil {
			return fallback, nil
		}
		entry, ok := m.Classify(origin.Name)
		if !ok {
			return fallback, nil
		}
		return entry.Directory(m, origin)
	}
}

// Entry is one suffix-map mapping: an install directory template plus the
// roles implicitly carried by every artifact matching this suffix.
type Entry struct {
	Directory    DirectoryTemplate
	DefaultRoles []string
}

// Map is the suffix → Entry registry (spec.md's "Suffix map"). The zero
// value is not usable; use New.
type Map struct {
	suffixes map[string]Entry
	literals map[string]Entry
}

// New creates an empty suffix map.
func New() *Map {
	return &Map{
		suffixes: map[string]Entry{},
		literals: map[string]Entry{},
	}
}

// Add registers a suffix (e.g. ".so") to its directory template and default
// roles. Every role in entry.DefaultRoles must be in tags.KnownRoles, or
// Add fails with validation.InvalidRole and leaves the map unchanged
// (spec.md §4.2 "validates additions").
func (m *Map) Add(suffix string, entry Entry) error {
	for _, r := range entry.DefaultRoles {
		if !tags.IsKnownRole(r) {
			return validation.InvalidRole("suffix["+suffix+"].default_roles", r)
		}
	}
	m.suffixes[suffix] = entry
	return nil
}

// AddLiteral registers a whole-filename match (used for license files,
// which have no meaningful suffix). Same validation as Add.
func (m *Map) AddLiteral(name string, entry Entry) error {
	for _, r := range entry.DefaultRoles {
		if !tags.IsKnownRole(r) {
			return validation.InvalidRole("suffix["+name+"].default_roles", r)
		}
	}
	m.literals[name] = entry
	return nil
}

// Classify resolves path to its directory template and default roles,
// using the longest-matching registered suffix. If no suffix matches, the
// whole filename is tried against the literal entries. Returns ok=false if
// nothing matches.
func (m *Map) Classify(path string) (Entry, bool) {
	base := filepath.Base(path)

	var candidates []string
	for suf := range m.suffixes {
		if suf != "" && strings.HasSuffix(base, suf) {
			candidates = append(candidates, suf)
		}
	}
	if len(candidates) > 0 {
		sort.Slice(candidates, func(i, j int) bool { return len(candidates[i]) > len(candidates[j]) })
		return m.suffixes[candidates[0]], true
	}

	if entry, ok := m.literals[base]; ok {
		return entry, true
	}
	// The empty-string suffix matches any path with no other match (used
	// for the platform program suffix on platforms where executables carry
	// no extension).
	if entry, ok := m.suffixes[""]; ok {
		return entry, true
	}

	return Entry{}, false
}

// ClassifyDirectory resolves path's install directory, or ("", false) if
// nothing in the map matches.
func (m *Map) ClassifyDirectory(n *graph.Node) (string, bool, error) {
	entry, ok := m.Classify(n.Name)
	if !ok {
		return "", false, nil
	}
	dir, err := entry.Directory(m, n)
	if err != nil {
		return "", false, err
	}
	return dir, true, nil
}
