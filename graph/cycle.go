package graph

import "strings"

// Cycle is an elementary import loop; the last module imports the first
type Cycle []string

// String renders the cycle as `a → b → a`
func (c Cycle) String() string {
	if len(c) == 0 {
		return ""
	}
	return strings.Join(append(append([]string{}, c...), c[0]), " → ")
}

// key identifies a cycle independently of its rotation
func (c Cycle) key() string {
	smallest := 0
	for i, node := range c {
		if node < c[smallest] {
			smallest = i
		}
	}
	rotated := append(append([]string{}, c[smallest:]...), c[:smallest]...)
	return strings.Join(rotated, "\x00")
}

// FindCycles enumerates the elementary cycles of g, following only edges into known modules.
// A module whose exploration closes no cycle is never expanded again; modules on a cycle are
// re-expanded from later paths so every loop through them is found. Rotations are reported once.
func FindCycles(g *Graph) []Cycle {
	if !g.mayContainCycle() {
		return nil
	}
	f := &cycleFinder{
		graph:   g,
		visited: make(map[string]bool),
		onPath:  make(map[string]int),
		seen:    make(map[string]bool),
	}
	for _, node := range g.Sources() {
		if !f.visited[node] {
			f.explore(node)
		}
	}
	return f.cycles
}

// mayContainCycle is false when every strongly connected component is a single module without a self-loop
func (g *Graph) mayContainCycle() bool {
	components, err := g.components()
	if err != nil {
		return true
	}
	for _, component := range components {
		if len(component) > 1 {
			return true
		}
		if _, ok := g.adjacency[component[0]][component[0]]; ok {
			return true
		}
	}
	return false
}

type cycleFinder struct {
	graph   *Graph
	visited map[string]bool
	onPath  map[string]int // module -> index in path
	path    []string
	seen    map[string]bool
	cycles  []Cycle
}

// explore returns true when a cycle was closed through node or its descendants
func (f *cycleFinder) explore(node string) bool {
	f.onPath[node] = len(f.path)
	f.path = append(f.path, node)
	found := false
	for _, next := range f.graph.Targets(node) {
		if !f.graph.HasNode(next) || f.visited[next] {
			continue
		}
		if start, ok := f.onPath[next]; ok {
			f.emit(Cycle(append([]string{}, f.path[start:]...)))
			found = true
			continue
		}
		if f.explore(next) {
			found = true
		}
	}
	f.path = f.path[:len(f.path)-1]
	delete(f.onPath, node)
	if !found {
		f.visited[node] = true
	}
	return found
}

func (f *cycleFinder) emit(cycle Cycle) {
	key := cycle.key()
	if f.seen[key] {
		return
	}
	f.seen[key] = true
	f.cycles = append(f.cycles, cycle)
}
