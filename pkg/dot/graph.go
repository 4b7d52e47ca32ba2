// Package dot provides the abstract attribute graph the diagram engine
// builds and mutates, plus a DOT serializer and a Graphviz rendering
// backend.
//
// A Graph holds named nodes and directed edges, each with a mutable
// attribute dictionary, and nested named subgraphs used as clusters for
// composite states. Nodes are registered at the root graph no matter which
// cluster declares them, so edges can connect nodes across cluster
// boundaries; the declaring cluster only controls where the node is emitted
// in DOT output.
//
// Graph is not safe for concurrent use without external synchronization.
package dot

import (
	"errors"
	"maps"
	"slices"
)

var (
	// ErrInvalidNodeName is returned by [Graph.AddNode] when the node name
	// is empty. All nodes must have non-empty names.
	ErrInvalidNodeName = errors.New("node name must not be empty")

	// ErrDuplicateNode is returned by [Graph.AddNode] when a node with the
	// same name already exists anywhere in the graph.
	ErrDuplicateNode = errors.New("duplicate node name")

	// ErrUnknownNode is returned by [Graph.AddEdge] when an endpoint does
	// not exist in the graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrDuplicateSubgraph is returned by [Graph.AddSubgraph] when the
	// parent already declares a subgraph with the same name.
	ErrDuplicateSubgraph = errors.New("duplicate subgraph name")

	// ErrDuplicateEdge is returned by [Graph.AddEdge] when an edge between
	// the same endpoints already exists. Parallel edges are never created;
	// callers merge labels onto the existing edge instead.
	ErrDuplicateEdge = errors.New("duplicate edge")
)

// Attrs is a mutable attribute dictionary attached to the graph, a node, or
// an edge. Keys and values follow Graphviz attribute conventions.
type Attrs map[string]string

// Clone returns a copy of the attribute dictionary.
func (a Attrs) Clone() Attrs {
	c := make(Attrs, len(a))
	maps.Copy(c, a)
	return c
}

// Merge overwrites matching keys with values from other. Keys absent from
// other are left untouched, so unrelated attributes persist.
func (a Attrs) Merge(other Attrs) {
	maps.Copy(a, other)
}

// EdgeKey identifies a directed edge by its endpoint node names.
type EdgeKey struct {
	From string
	To   string
}

// Graph is a directed graph with attribute dictionaries and nested clusters.
// Use [New] for the root graph and [Graph.AddSubgraph] for clusters.
type Graph struct {
	name   string
	attrs  Attrs
	parent *Graph

	// Root-only indices; subgraphs delegate through root().
	nodes        map[string]Attrs
	nodeOrder    []string
	edges        map[EdgeKey]Attrs
	edgeOrder    []EdgeKey
	nodeDefaults Attrs

	// Declaration-scoped: what this (sub)graph emits itself.
	members   []string
	subgraphs []*Graph
}

// New creates an empty root graph. The attrs parameter can be nil.
func New(name string, attrs Attrs) *Graph {
	if attrs == nil {
		attrs = Attrs{}
	}
	return &Graph{
		name:  name,
		attrs: attrs,
		nodes: make(map[string]Attrs),
		edges: make(map[EdgeKey]Attrs),
	}
}

func (g *Graph) root() *Graph {
	r := g
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Name returns the graph or subgraph name.
func (g *Graph) Name() string { return g.name }

// Attrs returns the graph-level attribute dictionary. The returned map is
// the live dictionary; mutations take effect immediately.
func (g *Graph) Attrs() Attrs { return g.attrs }

// SetNodeDefaults sets the default attributes applied to every node at
// serialization time (the DOT `node [...]` statement).
func (g *Graph) SetNodeDefaults(a Attrs) { g.root().nodeDefaults = a }

// NodeDefaults returns the default node attributes, or nil if unset.
func (g *Graph) NodeDefaults() Attrs { return g.root().nodeDefaults }

// AddNode registers a node within this graph (or cluster). The node becomes
// visible graph-wide; the declaring cluster controls DOT placement only.
// The attrs parameter can be nil.
func (g *Graph) AddNode(name string, attrs Attrs) error {
	if name == "" {
		return ErrInvalidNodeName
	}
	r := g.root()
	if _, exists := r.nodes[name]; exists {
		return ErrDuplicateNode
	}
	if attrs == nil {
		attrs = Attrs{}
	}
	r.nodes[name] = attrs
	r.nodeOrder = append(r.nodeOrder, name)
	g.members = append(g.members, name)
	return nil
}

// HasNode reports whether a node exists anywhere in the graph.
func (g *Graph) HasNode(name string) bool {
	_, ok := g.root().nodes[name]
	return ok
}

// Node returns the live attribute dictionary of the named node.
func (g *Graph) Node(name string) (Attrs, bool) {
	a, ok := g.root().nodes[name]
	return a, ok
}

// Nodes returns all node names in insertion order.
func (g *Graph) Nodes() []string { return slices.Clone(g.root().nodeOrder) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.root().nodes) }

// AddSubgraph declares a nested subgraph (cluster) within this graph.
// The attrs parameter can be nil.
func (g *Graph) AddSubgraph(name string, attrs Attrs) (*Graph, error) {
	if _, ok := g.Subgraph(name); ok {
		return nil, ErrDuplicateSubgraph
	}
	if attrs == nil {
		attrs = Attrs{}
	}
	sub := &Graph{name: name, attrs: attrs, parent: g}
	g.subgraphs = append(g.subgraphs, sub)
	return sub, nil
}

// Subgraph returns the directly nested subgraph with the given name.
func (g *Graph) Subgraph(name string) (*Graph, bool) {
	for _, s := range g.subgraphs {
		if s.name == name {
			return s, true
		}
	}
	return nil, false
}

// Subgraphs returns the directly nested subgraphs in declaration order.
func (g *Graph) Subgraphs() []*Graph { return g.subgraphs }

// Members returns the names of the nodes declared directly in this graph
// or cluster, excluding nodes declared in nested subgraphs.
func (g *Graph) Members() []string { return g.members }

// AddEdge adds a directed edge between two existing nodes. At most one edge
// exists per (from, to) pair; a second registration fails with
// ErrDuplicateEdge. The attrs parameter can be nil.
func (g *Graph) AddEdge(from, to string, attrs Attrs) error {
	r := g.root()
	if _, ok := r.nodes[from]; !ok {
		return ErrUnknownNode
	}
	if _, ok := r.nodes[to]; !ok {
		return ErrUnknownNode
	}
	key := EdgeKey{From: from, To: to}
	if _, exists := r.edges[key]; exists {
		return ErrDuplicateEdge
	}
	if attrs == nil {
		attrs = Attrs{}
	}
	r.edges[key] = attrs
	r.edgeOrder = append(r.edgeOrder, key)
	return nil
}

// HasEdge reports whether an edge exists between the two nodes.
func (g *Graph) HasEdge(from, to string) bool {
	_, ok := g.root().edges[EdgeKey{From: from, To: to}]
	return ok
}

// Edge returns the live attribute dictionary of the edge between the two
// nodes.
func (g *Graph) Edge(from, to string) (Attrs, bool) {
	a, ok := g.root().edges[EdgeKey{From: from, To: to}]
	return a, ok
}

// Edges returns all edge keys in insertion order.
func (g *Graph) Edges() []EdgeKey { return slices.Clone(g.root().edgeOrder) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.root().edges) }

// EdgesIncident returns the edges touching the named node as either
// endpoint, in insertion order.
func (g *Graph) EdgesIncident(name string) []EdgeKey {
	var keys []EdgeKey
	for _, k := range g.root().edgeOrder {
		if k.From == name || k.To == name {
			keys = append(keys, k)
		}
	}
	return keys
}
