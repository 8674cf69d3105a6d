// Package tags implements the Tag Store: a pure accessor layer attaching
// component/role classifications and install-action bookkeeping to graph
// nodes. It enforces tag well-formedness (spec.md §4.1) but injects none of
// the implicit "all"/"meta" tags itself — that is the Auto-Install entry
// point's job (package autoinstall), per spec.md §4.1.
package tags

import (
	"sort"
	"strings"

	"code.cloudfoundry.org/aib/graph"
	"code.cloudfoundry.org/aib/validation"
)

// KnownRoles is the closed set of roles a node may carry (spec.md §3).
var KnownRoles = map[string]struct{}{
	"base":    {},
	"common":  {},
	"debug":   {},
	"dev":     {},
	"meta":    {},
	"runtime": {},
}

// IsKnownRole reports whether role is a member of the closed role set.
func IsKnownRole(role string) bool {
	_, ok := KnownRoles[role]
	return ok
}

// Attributes is the mutable metadata bag a node carries. All fields are
// optional; absence means the empty set. It is stored on a graph.Node via
// SetAttributes/Attributes so that graph has no compile-time dependency on
// this package.
type Attributes struct {
	Components     map[string]struct{}
	Roles          map[string]struct{}
	InstallActions map[*graph.Node]struct{}
	KeepTargetInfo bool
	DebugOrigin    *graph.Node
	IsInstallAction bool
}

func newAttributes() *Attributes {
	return &Attributes{
		Components:     map[string]struct{}{},
		Roles:          map[string]struct{}{},
		InstallActions: map[*graph.Node]struct{}{},
	}
}

// Of returns the node's attribute bag, creating and attaching an empty one
// on first access. Callers that only want to read without allocating should
// use GetComponents/GetRoles instead.
func Of(n *graph.Node) *Attributes {
	if existing, ok := n.Attributes().(*Attributes); ok && existing != nil {
		return existing
	}
	a := newAttributes()
	n.SetAttributes(a)
	return a
}

// GetComponents returns the node's component set (spec.md's get_components).
// Returns an empty, non-nil set if the node has never been tagged.
func GetComponents(n *graph.Node) map[string]struct{} {
	if a, ok := n.Attributes().(*Attributes); ok && a != nil {
		return a.Components
	}
	return map[string]struct{}{}
}

// GetRoles returns the node's role set (spec.md's get_roles).
func GetRoles(n *graph.Node) map[string]struct{} {
	if a, ok := n.Attributes().(*Attributes); ok && a != nil {
		return a.Roles
	}
	return map[string]struct{}{}
}

// SetTags unions components and roles into the node's attribute bag
// (spec.md's set_tags). It rejects malformed component tags (empty or
// whitespace-bearing) with validation.InvalidComponent; every role must be
// in KnownRoles or the call fails with validation.InvalidRole. On error no
// partial mutation is applied.
func SetTags(n *graph.Node, components, roles []string) error {
	for _, c := range components {
		if strings.TrimSpace(c) == "" || strings.ContainsAny(c, " \t\n\r") {
			return validation.InvalidComponent("components", c)
		}
	}
	for _, r := range roles {
		if !IsKnownRole(r) {
			return validation.InvalidRole("roles", r)
		}
	}

	a := Of(n)
	for _, c := range components {
		a.Components[c] = struct{}{}
	}
	for _, r := range roles {
		a.Roles[r] = struct{}{}
	}
	return nil
}

// AddInstallAction unions action into the node's install_actions set
// (spec.md's add_install_action). Re-adding the same action is a no-op, so
// an install action that the Installer's Install callback returns again for
// a repeated (source, target_dir) pair is not duplicated.
func AddInstallAction(n *graph.Node, action *graph.Node) {
	a := Of(n)
	a.InstallActions[action] = struct{}{}
}

// InstallActions returns the node's install actions, sorted by name for
// deterministic iteration (spec.md §5 "Ordering guarantees").
func InstallActions(n *graph.Node) []*graph.Node {
	if a, ok := n.Attributes().(*Attributes); ok && a != nil {
		out := make([]*graph.Node, 0, len(a.InstallActions))
		for action := range a.InstallActions {
			out = append(out, action)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		return out
	}
	return nil
}

// SetKeepTargetInfo marks the node so the host orchestrator retains
// executor info after the build completes (spec.md's keep_targetinfo),
// required for the Scanner to traverse at alias-finalization time.
func SetKeepTargetInfo(n *graph.Node) {
	Of(n).KeepTargetInfo = true
}

// SetDebugOrigin records the back-reference from a debug-info node to the
// binary it was produced from (spec.md's debug_origin).
func SetDebugOrigin(n *graph.Node, origin *graph.Node) {
	Of(n).DebugOrigin = origin
}

// DebugOrigin returns the node's debug_origin, or nil.
func DebugOrigin(n *graph.Node) *graph.Node {
	if a, ok := n.Attributes().(*Attributes); ok && a != nil {
		return a.DebugOrigin
	}
	return nil
}

// MarkInstallAction flags n as an install-action node: one whose Sources[0]
// is the artifact it stages, the shape the Transitive Scanner expects as
// its walk origin (spec.md §4.6). Called by the Installer right after it
// creates an install action (package autoinstall), so that package tarball
// can later distinguish install-action nodes from alias/aggregator nodes
// while walking the alias dependency graph.
func MarkInstallAction(n *graph.Node) {
	Of(n).IsInstallAction = true
}

// IsInstallAction reports whether n was flagged by MarkInstallAction.
func IsInstallAction(n *graph.Node) bool {
	if a, ok := n.Attributes().(*Attributes); ok && a != nil {
		return a.IsInstallAction
	}
	return false
}

// SortedKeys returns the keys of a string set in sorted order, the idiom
// used throughout this module (adapted from the teacher's
// model.InstanceGroups sort.Interface convention) to keep alias wiring and
// scanner output deterministic.
func SortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
