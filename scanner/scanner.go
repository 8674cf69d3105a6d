// Package scanner implements the Transitive Scanner (spec.md §4.6): the
// target scanner attached to every install-action node, responsible for
// discovering which other install actions must also run before an install
// action is considered complete, by walking the build graph's dependency
// edges and deciding at each edge whether it crosses the role/component
// boundary or stays inside the same slice.
package scanner

import (
	"sort"

	"code.cloudfoundry.org/aib/graph"
	"code.cloudfoundry.org/aib/tags"
)

// BoundaryCallback further filters the install actions a scanner would
// otherwise consider transitive across one dependency edge. Implementations
// may accept one to additionally enforce domain-specific boundaries — the
// packager uses one that also requires the origin and child to share a
// component (spec.md §4.6 "Optional callback", §4.7).
type BoundaryCallback func(originTags, childTags EdgeTags, actions []*graph.Node) []*graph.Node

// EdgeTags is the (components, roles) pair read off a node for boundary
// evaluation.
type EdgeTags struct {
	Components map[string]struct{}
	Roles      map[string]struct{}
}

// DefaultBoundary is the identity callback: it performs no additional
// filtering beyond the role-only boundary rule (spec.md §4.6 steps 1-3).
func DefaultBoundary(_, _ EdgeTags, actions []*graph.Node) []*graph.Node {
	return actions
}

// Scan runs the Transitive Scanner for install-action node n, given the
// build graph g it was declared against. It implements spec.md §4.6's
// algorithm verbatim:
//
//  1. origin tags are read off n.Sources[0] (the artifact being installed),
//     with "all" dropped from components and "meta" dropped from roles.
//  2. non_transitive_roles = roles(S) ∩ {"runtime"}.
//  3. for each of n's sources, the source's declared outputs (via its
//     Executor) are walked; for each output, its immediate graph children
//     are inspected. An edge is transitive if "base" is in the origin
//     roles, or "base" is in the child's roles, or non_transitive_roles is
//     empty or disjoint from the origin roles AND the child shares a role
//     with the origin. Every install action of a transitively-crossed
//     child is included in the result.
//  4. The result is sorted by the child install action's Name for a
//     reproducible build fingerprint.
//
// boundary, if non-nil, is applied per-edge to further filter the actions
// contributed by that edge (spec.md's optional boundary_callback); pass nil
// to use DefaultBoundary.
func Scan(g *graph.Engine, n *graph.Node, boundary BoundaryCallback) ([]*graph.Node, error) {
	if boundary == nil {
		boundary = DefaultBoundary
	}
	if len(n.Sources) == 0 {
		return nil, nil
	}

	origin := n.Sources[0]
	originTags := EdgeTags{
		Components: withoutKey(tags.GetComponents(origin), "all"),
		Roles:      withoutKey(tags.GetRoles(origin), "meta"),
	}
	nonTransitiveRoles := intersect(originTags.Roles, map[string]struct{}{"runtime": {}})

	seen := map[*graph.Node]struct{}{}
	var result []*graph.Node

	for _, source := range n.Sources {
		outputs, err := source.Outputs()
		if err != nil {
			// Missing/failed executor output: soft skip (spec.md "Failure
			// semantics" — missing source for an install action never
			// raises).
			continue
		}
		for _, output := range outputs {
			for _, child := range g.Children(output) {
				actions := tags.InstallActions(child)
				if len(actions) == 0 {
					continue
				}

				childRoles := withoutKey(tags.GetRoles(child), "meta")
				childTags := EdgeTags{
					Components: tags.GetComponents(child),
					Roles:      childRoles,
				}

				if !isTransitive(originTags.Roles, childRoles, nonTransitiveRoles) {
					continue
				}

				actions = boundary(originTags, childTags, actions)
				for _, action := range actions {
					if _, ok := seen[action]; ok {
						continue
					}
					seen[action] = struct{}{}
					result = append(result, action)
				}
			}
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func isTransitive(originRoles, childRoles, nonTransitiveRoles map[string]struct{}) bool {
	if _, ok := originRoles["base"]; ok {
		return true
	}
	if _, ok := childRoles["base"]; ok {
		return true
	}
	if len(nonTransitiveRoles) == 0 || len(intersect(nonTransitiveRoles, originRoles)) == 0 {
		if len(intersect(childRoles, originRoles)) > 0 {
			return true
		}
	}
	return false
}

func withoutKey(set map[string]struct{}, key string) map[string]struct{} {
	out := make(map[string]struct{}, len(set))
	for k := range set {
		if k == key {
			continue
		}
		out[k] = struct{}{}
	}
	return out
}

func intersect(a, b map[string]struct{}) map[string]struct{} {
	out := map[string]struct{}{}
	small, big := a, b
	if len(b) < len(a) {
		small, big = b, a
	}
	for k := range small {
		if _, ok := big[k]; ok {
			out[k] = struct{}{}
		}
	}
	return out
}
