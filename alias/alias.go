// Package alias implements Alias Wiring (spec.md §4.5): the per-(component,
// role) aggregation aliases, the role-dependency lattice, and the
// cross-component "common" join. It also owns the Alias Map and Package Map
// data structures from spec.md §3.
package alias

import (
	"fmt"
	"sort"
	"sync"

	"code.cloudfoundry.org/aib/graph"
	"code.cloudfoundry.org/aib/tags"
)

// DefaultLattice is the fixed role-dependency lattice from spec.md §3:
//
//	common ← runtime ← debug
//	common, runtime ← dev
//	common, runtime, debug, dev ← meta
//
// expressed as role → the roles it depends on. base has no entry: in the
// lattice it depends on nothing and nothing depends on it. The
// install-<c>-base and install-common-base edges are added by the Installer
// (package autoinstall), and base content transfers unconditionally via the
// Transitive Scanner's boundary rule (package scanner).
var DefaultLattice = map[string][]string{
	"common":  nil,
	"runtime": {"common"},
	"debug":   {"runtime"},
	"dev":     {"common", "runtime"},
	"meta":    {"common", "runtime", "debug", "dev"},
}

// Info is the finalized registry value for one (component, role) pair: the
// alias node plus its canonical name.
type Info struct {
	Name string
	Node *graph.Node
}

// InstallName returns the canonical install alias name for (component,
// role): "install-<component>" when role is "runtime" (the suffix is
// omitted), "install-<component>-<role>" otherwise.
func InstallName(component, role string) string {
	return name("install", component, role)
}

// TarName returns the canonical tar alias name for (component, role),
// following the same role-suffix-omission rule as InstallName.
func TarName(component, role string) string {
	return name("tar", component, role)
}

func name(prefix, component, role string) string {
	if role == "runtime" {
		return fmt.Sprintf("%s-%s", prefix, component)
	}
	return fmt.Sprintf("%s-%s-%s", prefix, component, role)
}

// Map is the finalized alias registry: components → roles → Info, plus the
// parallel tar-alias registry. The install registry is append-only during
// the "building" phase and read-only once Finalize has run (spec.md "State
// machines"); the tar registry is filled in by RegisterTarAlias after
// Finalize.
type Map struct {
	mu        sync.Mutex
	g         *graph.Engine
	install   map[string]map[string]*Info
	tarballs  map[string]map[string]*Info
	finalized bool

	// DefaultAlias is the top-level "install" alias registered when
	// install-default-runtime exists (spec.md §4.5 step 1). Nil otherwise.
	DefaultAlias *Info
}

// NewMap creates an empty alias map bound to the given build graph.
func NewMap(g *graph.Engine) *Map {
	return &Map{
		g:        g,
		install:  map[string]map[string]*Info{},
		tarballs: map[string]map[string]*Info{},
	}
}

// EnsureInstallAlias returns the install-<c>[-<r>] alias, creating an empty
// one if it doesn't exist yet (spec.md §4.4 step 5). Once inserted, the
// returned *Info is never replaced — only its node's dependency set grows
// (invariant 5). Panics if called after Finalize (cross-phase mutation
// guard, spec.md §9 design note).
func (m *Map) EnsureInstallAlias(component, role string) *Info {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.finalized {
		panic("alias: EnsureInstallAlias called after Finalize")
	}

	byRole, ok := m.install[component]
	if !ok {
		byRole = map[string]*Info{}
		m.install[component] = byRole
	}
	info, ok := byRole[role]
	if !ok {
		aliasName := InstallName(component, role)
		info = &Info{Name: aliasName, Node: graph.New(aliasName)}
		byRole[role] = info
		m.g.AddNode(info.Node)
	}
	return info
}

// Lookup returns the install alias for (component, role) if it has been
// registered, or nil.
func (m *Map) Lookup(component, role string) *Info {
	m.mu.Lock()
	defer m.mu.Unlock()
	byRole, ok := m.install[component]
	if !ok {
		return nil
	}
	return byRole[role]
}

// Components returns the registered component names in sorted order
// (spec.md §4.5 "Determinism").
func (m *Map) Components() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.install))
	for c := range m.install {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Roles returns the registered roles for component, in sorted order.
func (m *Map) Roles(component string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	byRole := m.install[component]
	out := make([]string, 0, len(byRole))
	for r := range byRole {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// Pairs returns every registered (component, role) pair, iterated in
// sorted component-then-role order.
func (m *Map) Pairs() [][2]string {
	var out [][2]string
	for _, c := range m.Components() {
		for _, r := range m.Roles(c) {
			out = append(out, [2]string{c, r})
		}
	}
	return out
}

// DependOn records that alias `info` requires `dep` to be built, i.e. adds a
// dependency edge from info's node to dep's node. Idempotent: adding the
// same dependency twice has no additional effect.
func DependOn(info *Info, dep *Info) {
	addDependency(info.Node, dep.Node)
}

// DependOnNode records that alias `info` requires the plain graph node dep
// (typically an install-action node) to be built.
func DependOnNode(info *Info, dep *graph.Node) {
	addDependency(info.Node, dep)
}

func addDependency(n *graph.Node, dep *graph.Node) {
	for _, existing := range n.Sources {
		if existing == dep {
			return
		}
	}
	n.Sources = append(n.Sources, dep)
}

// TarAlias returns the tar-<c>[-<r>] alias for (component, role), or nil if
// none has been registered yet. Tar aliases are registered by package
// engine's FinalizeInstallDependencies right after Finalize (spec.md §4.5
// step 3); alias.Map only stores the
// resulting registry so introspection (`list-aib-targets`) has one place to
// look.
func (m *Map) TarAlias(component, role string) *Info {
	m.mu.Lock()
	defer m.mu.Unlock()
	byRole, ok := m.tarballs[component]
	if !ok {
		return nil
	}
	return byRole[role]
}

// RegisterTarAlias inserts the tar alias for (component, role). Called by
// package engine's FinalizeInstallDependencies, after Finalize, for each
// TarBall node it creates.
func (m *Map) RegisterTarAlias(component, role string, node *graph.Node) *Info {
	m.mu.Lock()
	defer m.mu.Unlock()
	byRole, ok := m.tarballs[component]
	if !ok {
		byRole = map[string]*Info{}
		m.tarballs[component] = byRole
	}
	info := &Info{Name: TarName(component, role), Node: node}
	byRole[role] = info
	return info
}

// IsFinalized reports whether Finalize has run.
func (m *Map) IsFinalized() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.finalized
}

// Finalize freezes the alias map and wires the cross-slice edges from
// spec.md §4.5 steps 1–2:
//
//  1. If install-default-runtime exists, register the top-level "install"
//     alias depending on it and mark it the process default.
//  2. For every (c, r): if c != "common" and (common, r) exists, make
//     install-<c>-<r> depend on install-common-<r>; for every r' in the
//     role-dependency lattice entry for r, if (c, r') exists, make
//     install-<c>-<r> depend on install-<c>-<r'>.
//
// Iterates components and roles in sorted order for a reproducible build
// plan. Must be called exactly once; a second call panics.
func (m *Map) Finalize(lattice map[string][]string) {
	m.mu.Lock()
	if m.finalized {
		m.mu.Unlock()
		panic("alias: Finalize called more than once")
	}
	m.finalized = true

	// Snapshot component/role pairs and infos before dropping the lock, so
	// the wiring below can call DependOn (which only touches graph.Node
	// slices, not the map itself) without re-entering the mutex.
	components := make([]string, 0, len(m.install))
	for c := range m.install {
		components = append(components, c)
	}
	sort.Strings(components)

	type pair struct {
		component, role string
		info            *Info
	}
	var pairs []pair
	for _, c := range components {
		roles := make([]string, 0, len(m.install[c]))
		for r := range m.install[c] {
			roles = append(roles, r)
		}
		sort.Strings(roles)
		for _, r := range roles {
			pairs = append(pairs, pair{c, r, m.install[c][r]})
		}
	}

	lookup := func(c, r string) *Info {
		byRole, ok := m.install[c]
		if !ok {
			return nil
		}
		return byRole[r]
	}
	m.mu.Unlock()

	if def := lookup("default", "runtime"); def != nil {
		installAlias := &Info{Name: "install", Node: graph.New("install")}
		DependOn(installAlias, def)
		m.mu.Lock()
		m.DefaultAlias = installAlias
		m.mu.Unlock()
	}

	for _, p := range pairs {
		if p.component != "common" {
			if commonInfo := lookup("common", p.role); commonInfo != nil {
				DependOn(p.info, commonInfo)
			}
		}
		for _, dep := range lattice[p.role] {
			if depInfo := lookup(p.component, dep); depInfo != nil {
				DependOn(p.info, depInfo)
			}
		}
	}
}

// SortedRoleTagSet is a convenience wrapper around tags.SortedKeys kept
// here so callers wiring aliases don't need to import tags directly for
// this one helper.
func SortedRoleTagSet(set map[string]struct{}) []string {
	return tags.SortedKeys(set)
}
