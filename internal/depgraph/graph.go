// Package depgraph builds and orders the directed dependency graph of Odoo
// modules. An edge A→B means "B depends on A", so a topological order of the
// graph is an install order.
package depgraph

import (
	"fmt"
	"sort"
	"strings"
)

type edge struct{ from, to string }

// Graph is a directed graph over module names. Nodes keep insertion order,
// which doubles as the deterministic fallback order when a cycle prevents a
// topological sort. Node and edge insertion are idempotent.
type Graph struct {
	nodes   []string
	nodeSet map[string]struct{}
	out     map[string][]string // from → successors, in edge-insertion order
	in      map[string][]string // to → predecessors, in edge-insertion order
	edges   map[edge]struct{}
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		nodeSet: make(map[string]struct{}),
		out:     make(map[string][]string),
		in:      make(map[string][]string),
		edges:   make(map[edge]struct{}),
	}
}

// AddNode adds a node. Adding an existing node is a no-op.
func (g *Graph) AddNode(name string) {
	if _, ok := g.nodeSet[name]; ok {
		return
	}
	g.nodeSet[name] = struct{}{}
	g.nodes = append(g.nodes, name)
}

// AddEdge adds a from→to edge, creating missing nodes. Duplicate edges are
// a no-op: the graph never holds multigraph state.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	e := edge{from, to}
	if _, ok := g.edges[e]; ok {
		return
	}
	g.edges[e] = struct{}{}
	g.out[from] = append(g.out[from], to)
	g.in[to] = append(g.in[to], from)
}

// Len returns the node count.
func (g *Graph) Len() int { return len(g.nodes) }

// Has reports whether name is a node.
func (g *Graph) Has(name string) bool {
	_, ok := g.nodeSet[name]
	return ok
}

// HasEdge reports whether the from→to edge exists.
func (g *Graph) HasEdge(from, to string) bool {
	_, ok := g.edges[edge{from, to}]
	return ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []string {
	return append([]string(nil), g.nodes...)
}

// Dependents returns the modules that directly depend on name, sorted.
func (g *Graph) Dependents(name string) []string {
	return sortedCopy(g.out[name])
}

// Dependencies returns the modules name directly depends on, sorted.
func (g *Graph) Dependencies(name string) []string {
	return sortedCopy(g.in[name])
}

// TopoSort returns a topological order of the graph using Kahn's algorithm.
// Ties resolve by node insertion order, so output is deterministic. When the
// graph contains a cycle, hasCycle is true and the returned slice falls back
// to the full node set in insertion order, so callers needing *a* module
// list are never blocked by an ordering failure.
func (g *Graph) TopoSort() (order []string, hasCycle bool) {
	indeg := make(map[string]int, len(g.nodes))
	for _, n := range g.nodes {
		indeg[n] = len(g.in[n])
	}

	var queue []string
	for _, n := range g.nodes {
		if indeg[n] == 0 {
			queue = append(queue, n)
		}
	}

	order = make([]string, 0, len(g.nodes))
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)
		for _, succ := range g.out[n] {
			indeg[succ]--
			if indeg[succ] == 0 {
				queue = append(queue, succ)
			}
		}
	}

	if len(order) != len(g.nodes) {
		return g.Nodes(), true
	}
	return order, false
}

// Format renders the graph for display: each module (sorted by name) with
// the modules it depends on, then the install order, or a cycle notice when
// no order exists.
func (g *Graph) Format(seeds []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Dependency tree for: %s\n\n", strings.Join(seeds, ", "))

	names := g.Nodes()
	sort.Strings(names)
	for _, name := range names {
		if deps := g.Dependencies(name); len(deps) > 0 {
			fmt.Fprintf(&sb, "  %s -> %s\n", name, strings.Join(deps, ", "))
		}
	}

	order, hasCycle := g.TopoSort()
	if hasCycle {
		sb.WriteString("\nCircular dependency detected, cannot determine installation order.\n")
		return sb.String()
	}

	sb.WriteString("\nInstallation order:\n")
	for _, name := range order {
		fmt.Fprintf(&sb, "  - %s\n", name)
	}
	return sb.String()
}

func sortedCopy(s []string) []string {
	out := append([]string(nil), s...)
	sort.Strings(out)
	return out
}
