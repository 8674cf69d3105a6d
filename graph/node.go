// Package graph defines the minimal shape of the host build orchestrator
// that the AIB engine is written against. A real orchestrator (an SCons-like
// file-dependency graph with builders, emitters and a command executor) is
// out of scope for this module; only the interfaces it must expose to the
// engine are specified here, plus a small in-memory reference implementation
// good enough to exercise the engine end-to-end in tests and the CLI.
package graph

import "sync"

// Node is a build-graph vertex: either a produced artifact or the staged
// install copy of one. Node intentionally carries no component/role fields
// of its own — those live in the attribute bag managed by package tags, so
// that an orchestrator can embed *Node in its own richer target type without
// the tagging concerns leaking into it.
type Node struct {
	// Name identifies the node for logging and alias naming. It does not
	// have to be unique across an entire graph, only within whatever scope
	// the host orchestrator cares about.
	Name string

	// Sources are the input nodes this node was built from, in declaration
	// order. An install-action node has exactly one source: the artifact
	// being staged.
	Sources []*Node

	// Executor, when set, returns this node's declared output set. The
	// Transitive Scanner calls it (see scanner.Scan) to discover the
	// install targets reachable from an install action's source.
	Executor func() ([]*Node, error)

	mu         sync.Mutex
	attributes interface{}
}

// New creates a bare node with the given name and sources.
func New(name string, sources ...*Node) *Node {
	return &Node{Name: name, Sources: sources}
}

// Attributes returns the value last stored with SetAttributes, or nil.
// The tags package is the only intended caller; it stores a *tags.Attributes
// here. Kept as interface{} rather than a concrete type so graph has no
// dependency on tags (tags depends on graph, not the other way around).
func (n *Node) Attributes() interface{} {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.attributes
}

// SetAttributes stores the attribute bag for this node.
func (n *Node) SetAttributes(a interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.attributes = a
}

// Outputs invokes the node's executor if present, otherwise returns the
// node itself as its sole output (the common case for a plain artifact
// that was never wrapped by a multi-output builder).
func (n *Node) Outputs() ([]*Node, error) {
	if n.Executor == nil {
		return []*Node{n}, nil
	}
	return n.Executor()
}
