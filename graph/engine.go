package graph

import "sync"

// Engine is a minimal in-memory build graph: enough to register nodes,
// declare dependency (link/use) edges between them, and walk those edges.
// It plays the role the host orchestrator plays in production — the
// Transitive Scanner (package scanner) is written against this shape and
// doesn't know or care whether it's talking to Engine or a real one.
//
// Engine is safe for concurrent reads once Freeze has been called; writes
// (AddNode, DependsOn) are declaration-phase only, matching the engine-wide
// single-threaded declaration / read-only execution split from the
// concurrency model.
type Engine struct {
	mu       sync.RWMutex
	nodes    map[string]*Node
	children map[*Node][]*Node
	frozen   bool
}

// NewEngine creates an empty reference build graph.
func NewEngine() *Engine {
	return &Engine{
		nodes:    make(map[string]*Node),
		children: make(map[*Node][]*Node),
	}
}

// AddNode registers a node so it can later be looked up by name with
// Lookup. Safe to call more than once for the same node.
func (e *Engine) AddNode(n *Node) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.frozen {
		panic("graph: AddNode called after Freeze")
	}
	e.nodes[n.Name] = n
}

// Lookup returns the node registered under name, or nil.
func (e *Engine) Lookup(name string) *Node {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.nodes[name]
}

// DependsOn records a dependency (link/use) edge: parent depends on child.
// This is the edge the Transitive Scanner walks; it is distinct from
// Node.Sources, which records "built from", not "links against".
func (e *Engine) DependsOn(parent, child *Node) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.frozen {
		panic("graph: DependsOn called after Freeze")
	}
	e.children[parent] = append(e.children[parent], child)
}

// Children returns the immediate dependency edges of n, in declaration
// order. Safe to call in both declaration and execution phase.
func (e *Engine) Children(n *Node) []*Node {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*Node, len(e.children[n]))
	copy(out, e.children[n])
	return out
}

// Freeze marks the graph read-only. Scanner invocations never call AddNode
// or DependsOn, so Freeze is optional scaffolding for callers that want a
// hard guarantee the declaration phase has ended; the engine never calls it
// itself.
func (e *Engine) Freeze() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.frozen = true
}
