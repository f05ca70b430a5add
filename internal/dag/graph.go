// Package dag provides the module dependency graph: cycle detection, hub and
// orphan classification, and a deterministic translation order even when the
// graph is not acyclic.
//
// The graph owns an explicit adjacency representation (an arena of node
// indices plus per-node edge lists) so traversal order, cycle reporting and
// linearization are fully specified here. Node indices are assigned in
// ascending name order, which makes index order and lexicographic order the
// same thing; every traversal walks neighbors in index order, so repeated
// runs over identical input produce byte-identical reports.
package dag

import (
	"sort"

	"github.com/leapstack-labs/fortranmap/internal/model"
)

// Graph is the immutable module dependency graph. An edge u -> v means
// module u uses module v. It is rebuilt wholesale from the module set; there
// is no incremental update.
type Graph struct {
	names []string       // arena: node index -> module name, ascending
	index map[string]int // module name -> node index

	out [][]int // u -> modules u uses (sorted)
	in  [][]int // v -> modules using v (sorted)

	external []string // used-but-undefined names, ascending
}

// Build constructs the graph from the canonical module map. A use-relation
// becomes an internal edge only when its target is itself a key of modules;
// other targets land in the external set. Self-edges are dropped and
// parallel edges collapse to one.
func Build(modules map[string]*model.ModuleRecord) *Graph {
	names := make([]string, 0, len(modules))
	for name := range modules {
		names = append(names, name)
	}
	sort.Strings(names)

	g := &Graph{
		names: names,
		index: make(map[string]int, len(names)),
		out:   make([][]int, len(names)),
		in:    make([][]int, len(names)),
	}
	for i, name := range names {
		g.index[name] = i
	}

	outSeen := make(map[[2]int]bool)
	externalSet := make(map[string]bool)

	for _, name := range names {
		u := g.index[name]
		for _, use := range modules[name].Uses {
			target := model.Normalize(use.Module)
			v, ok := g.index[target]
			if !ok {
				externalSet[target] = true
				continue
			}
			if u == v {
				continue // degenerate self-edge
			}
			key := [2]int{u, v}
			if outSeen[key] {
				continue
			}
			outSeen[key] = true
			g.out[u] = append(g.out[u], v)
			g.in[v] = append(g.in[v], u)
		}
	}

	for i := range g.out {
		sort.Ints(g.out[i])
		sort.Ints(g.in[i])
	}

	g.external = make([]string, 0, len(externalSet))
	for name := range externalSet {
		g.external = append(g.external, name)
	}
	sort.Strings(g.external)

	return g
}

// Nodes returns all internal module names in ascending order.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.names))
	copy(out, g.names)
	return out
}

// NodeCount returns the number of internal modules.
func (g *Graph) NodeCount() int { return len(g.names) }

// EdgeCount returns the number of deduplicated internal edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, adj := range g.out {
		n += len(adj)
	}
	return n
}

// Dependencies returns the internal modules used by name, ascending.
func (g *Graph) Dependencies(name string) []string {
	i, ok := g.index[model.Normalize(name)]
	if !ok {
		return nil
	}
	return g.resolve(g.out[i])
}

// Dependents returns the internal modules that use name, ascending.
func (g *Graph) Dependents(name string) []string {
	i, ok := g.index[model.Normalize(name)]
	if !ok {
		return nil
	}
	return g.resolve(g.in[i])
}

// External returns the used-but-undefined module names, ascending.
func (g *Graph) External() []string {
	out := make([]string, len(g.external))
	copy(out, g.external)
	return out
}

// InternalEdges returns the adjacency map of modules with at least one
// internal dependency, each list ascending.
func (g *Graph) InternalEdges() map[string][]string {
	edges := make(map[string][]string)
	for u, adj := range g.out {
		if len(adj) == 0 {
			continue
		}
		edges[g.names[u]] = g.resolve(adj)
	}
	return edges
}

func (g *Graph) resolve(idxs []int) []string {
	out := make([]string, len(idxs))
	for i, idx := range idxs {
		out[i] = g.names[idx]
	}
	return out
}

// Cycles reports representative dependency cycles. Depth-first traversal
// starts from every unvisited node in name order and keeps a recursion
// stack; reaching a node already on the stack records the stack slice from
// that node's first occurrence through the current node, closed with the
// entry node (so a two-module cycle reads ["a", "b", "a"]). This discovers
// at least one cycle per recursion-stack re-entry; it is not an exhaustive
// strongly-connected-component decomposition.
func (g *Graph) Cycles() [][]string {
	return g.cyclesOver(g.out)
}

func (g *Graph) cyclesOver(out [][]int) [][]string {
	visited := make([]bool, len(g.names))
	onStack := make([]bool, len(g.names))
	var stack []int
	var cycles [][]string

	var dfs func(u int)
	dfs = func(u int) {
		visited[u] = true
		onStack[u] = true
		stack = append(stack, u)

		for _, v := range out[u] {
			if onStack[v] {
				start := 0
				for stack[start] != v {
					start++
				}
				cycle := make([]string, 0, len(stack)-start+1)
				for _, w := range stack[start:] {
					cycle = append(cycle, g.names[w])
				}
				cycle = append(cycle, g.names[v])
				cycles = append(cycles, cycle)
				continue
			}
			if !visited[v] {
				dfs(v)
			}
		}

		onStack[u] = false
		stack = stack[:len(stack)-1]
	}

	for u := range g.names {
		if !visited[u] {
			dfs(u)
		}
	}

	return cycles
}

// IsDAG reports whether the graph is acyclic.
func (g *Graph) IsDAG() bool {
	return len(g.Cycles()) == 0
}

// Hubs returns up to topN modules ranked by internal in-degree (number of
// distinct modules depending on them), highest first, names ascending on
// ties. Modules nothing depends on are never hubs.
func (g *Graph) Hubs(topN int) []string {
	if topN <= 0 {
		return nil
	}
	type ranked struct {
		name string
		deg  int
	}
	var rs []ranked
	for v, adj := range g.in {
		if len(adj) > 0 {
			rs = append(rs, ranked{g.names[v], len(adj)})
		}
	}
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].deg != rs[j].deg {
			return rs[i].deg > rs[j].deg
		}
		return rs[i].name < rs[j].name
	})
	if len(rs) > topN {
		rs = rs[:topN]
	}
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.name
	}
	return out
}

// Orphans returns modules with no internal edges in either direction,
// ascending.
func (g *Graph) Orphans() []string {
	var out []string
	for i := range g.names {
		if len(g.in[i]) == 0 && len(g.out[i]) == 0 {
			out = append(out, g.names[i])
		}
	}
	return out
}

// TranslationOrder produces a total order over all internal modules with
// dependencies first and ties broken by ascending name. When the graph is
// acyclic the second return is true and the order is a topological sort.
// Otherwise each reported cycle is broken by removing the in-cycle edge
// whose source has the highest in-degree (the most depended-upon culprit is
// processed earliest), detection re-runs until the reduced graph is acyclic,
// and the order is a best-effort linearization flagged false.
func (g *Graph) TranslationOrder() ([]string, bool) {
	out := make([][]int, len(g.out))
	for i, adj := range g.out {
		out[i] = append([]int(nil), adj...)
	}

	isDAG := true
	for {
		cycles := g.cyclesOver(out)
		if len(cycles) == 0 {
			break
		}
		isDAG = false
		removed := false
		for _, cycle := range cycles {
			removed = g.breakCycle(out, cycle) || removed
		}
		if !removed {
			break // kahn's fallback keeps the order total regardless
		}
	}

	return g.kahn(out), isDAG
}

// breakCycle removes one edge of the cycle from out: the edge whose source
// node has the highest current in-degree, lowest source name on ties.
func (g *Graph) breakCycle(out [][]int, cycle []string) bool {
	inDeg := make([]int, len(g.names))
	for _, adj := range out {
		for _, v := range adj {
			inDeg[v]++
		}
	}

	bestU, bestV := -1, -1
	for i := 0; i+1 < len(cycle); i++ {
		u := g.index[cycle[i]]
		v := g.index[cycle[i+1]]
		if !hasEdge(out[u], v) {
			continue // already removed while breaking an overlapping cycle
		}
		if bestU < 0 || inDeg[u] > inDeg[bestU] || (inDeg[u] == inDeg[bestU] && u < bestU) {
			bestU, bestV = u, v
		}
	}
	if bestU < 0 {
		return false
	}
	out[bestU] = removeEdge(out[bestU], bestV)
	return true
}

// kahn emits nodes whose remaining dependencies are all emitted, always
// picking the lowest-named ready node first.
func (g *Graph) kahn(out [][]int) []string {
	n := len(g.names)
	remaining := make([]int, n)
	dependents := make([][]int, n)
	for u, adj := range out {
		remaining[u] = len(adj)
		for _, v := range adj {
			dependents[v] = append(dependents[v], u)
		}
	}

	emitted := make([]bool, n)
	order := make([]string, 0, n)

	for len(order) < n {
		next := -1
		for u := 0; u < n; u++ {
			if !emitted[u] && remaining[u] == 0 {
				next = u
				break
			}
		}
		if next < 0 {
			// Leftover cycle that detection did not reach; emit the lowest
			// name to keep the order total.
			for u := 0; u < n; u++ {
				if !emitted[u] {
					next = u
					break
				}
			}
		}
		emitted[next] = true
		order = append(order, g.names[next])
		for _, dep := range dependents[next] {
			remaining[dep]--
		}
	}

	return order
}

func hasEdge(adj []int, v int) bool {
	for _, w := range adj {
		if w == v {
			return true
		}
	}
	return false
}

func removeEdge(adj []int, v int) []int {
	out := adj[:0]
	for _, w := range adj {
		if w != v {
			out = append(out, w)
		}
	}
	return out
}
