package graph

import (
	"encoding/json"
	"errors"
	"sort"
	"sync"

	graphlib "github.com/dominikbraun/graph"
	"github.com/minio/highwayhash"
)

// Edge is a resolved import from one module to another
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph is a read-only module dependency graph. Nodes are the known project modules;
// edge targets may also name unresolved paths that are not nodes.
type Graph struct {
	store     graphlib.Graph[string, string]
	nodes     map[string]struct{}
	adjacency map[string]map[string]graphlib.Edge[string]
}

// Nodes returns the known modules in ascending order
func (g *Graph) Nodes() []string {
	ret := make([]string, 0, len(g.nodes))
	for node := range g.nodes {
		ret = append(ret, node)
	}
	sort.Strings(ret)
	return ret
}

// HasNode reports whether module is a known project module
func (g *Graph) HasNode(module string) bool {
	_, ok := g.nodes[module]
	return ok
}

// Sources returns modules with at least one outgoing edge in ascending order
func (g *Graph) Sources() []string {
	ret := make([]string, 0, len(g.adjacency))
	for source, targets := range g.adjacency {
		if len(targets) > 0 {
			ret = append(ret, source)
		}
	}
	sort.Strings(ret)
	return ret
}

// Targets returns the outgoing edges of module in ascending order
func (g *Graph) Targets(module string) []string {
	targets := g.adjacency[module]
	ret := make([]string, 0, len(targets))
	for target := range targets {
		ret = append(ret, target)
	}
	sort.Strings(ret)
	return ret
}

// Edges returns every edge ordered by source then target
func (g *Graph) Edges() []Edge {
	var ret []Edge
	for _, source := range g.Sources() {
		for _, target := range g.Targets(source) {
			ret = append(ret, Edge{Source: source, Target: target})
		}
	}
	return ret
}

// Imported returns every edge target
func (g *Graph) Imported() map[string]bool {
	ret := make(map[string]bool)
	for _, targets := range g.adjacency {
		for target := range targets {
			ret[target] = true
		}
	}
	return ret
}

// NodeCount returns the number of known modules
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges
func (g *Graph) EdgeCount() int {
	count := 0
	for _, targets := range g.adjacency {
		count += len(targets)
	}
	return count
}

// components returns the strongly connected components over every vertex, unresolved targets included
func (g *Graph) components() ([][]string, error) {
	return graphlib.StronglyConnectedComponents(g.store)
}

type document struct {
	Nodes []string            `json:"nodes"`
	Edges map[string][]string `json:"edges"`
}

// MarshalJSON encodes the graph canonically: equal graphs produce identical bytes
func (g *Graph) MarshalJSON() ([]byte, error) {
	doc := document{Nodes: g.Nodes(), Edges: make(map[string][]string)}
	for _, source := range g.Sources() {
		doc.Edges[source] = g.Targets(source)
	}
	return json.Marshal(doc)
}

var key = []byte("0123456789ABCDEF0123456789ABCDEF")

// Hash returns a 64-bit fingerprint of the canonical encoding
func (g *Graph) Hash() (uint64, error) {
	data, err := g.MarshalJSON()
	if err != nil {
		return 0, err
	}
	hash, err := highwayhash.New64(key)
	if err != nil {
		return 0, err
	}
	_, err = hash.Write(data)
	return hash.Sum64(), err
}

// Builder accumulates nodes and edges from concurrent producers
type Builder struct {
	mux   sync.Mutex
	store graphlib.Graph[string, string]
	nodes map[string]struct{}
}

// NewBuilder creates an empty Builder
func NewBuilder() *Builder {
	return &Builder{
		store: graphlib.New(graphlib.StringHash, graphlib.Directed()),
		nodes: make(map[string]struct{}),
	}
}

// AddNode registers known modules
func (b *Builder) AddNode(modules ...string) error {
	b.mux.Lock()
	defer b.mux.Unlock()
	for _, module := range modules {
		if err := b.addVertex(module); err != nil {
			return err
		}
		b.nodes[module] = struct{}{}
	}
	return nil
}

// AddEdges unions targets into the outgoing set of source; no targets leaves the graph unchanged.
// Targets that are not known modules are kept as plain vertices.
func (b *Builder) AddEdges(source string, targets ...string) error {
	if len(targets) == 0 {
		return nil
	}
	b.mux.Lock()
	defer b.mux.Unlock()
	if err := b.addVertex(source); err != nil {
		return err
	}
	for _, target := range targets {
		if err := b.addVertex(target); err != nil {
			return err
		}
		err := b.store.AddEdge(source, target)
		if err != nil && !errors.Is(err, graphlib.ErrEdgeAlreadyExists) {
			return err
		}
	}
	return nil
}

func (b *Builder) addVertex(module string) error {
	err := b.store.AddVertex(module)
	if err != nil && !errors.Is(err, graphlib.ErrVertexAlreadyExists) {
		return err
	}
	return nil
}

// Build returns an immutable snapshot of the accumulated graph
func (b *Builder) Build() (*Graph, error) {
	b.mux.Lock()
	defer b.mux.Unlock()
	store, err := b.store.Clone()
	if err != nil {
		return nil, err
	}
	adjacency, err := store.AdjacencyMap()
	if err != nil {
		return nil, err
	}
	ret := &Graph{store: store, adjacency: adjacency, nodes: make(map[string]struct{}, len(b.nodes))}
	for node := range b.nodes {
		ret.nodes[node] = struct{}{}
	}
	return ret, nil
}
