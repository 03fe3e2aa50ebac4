// Package graph builds the file dependency graph and finds cycles in it.
package graph

import (
	"sort"

	gograph "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/hannajonsd/structural-analysis/model"
)

// Resolver maps a reference made from one file onto another analyzed file
type Resolver interface {
	Resolve(fromFile string, ref model.DependencyReference) (string, bool)
}

type edgeKey struct {
	from, to int64
}

// Graph is a directed graph over analyzed files. Node ids are dense and
// follow sorted path order, so traversal order is deterministic.
type Graph struct {
	paths     []string
	ids       map[string]int64
	directed  *simple.DirectedGraph
	selfLoops map[int64]bool
	lines     map[edgeKey]int
	edges     []model.ResolvedEdge
}

// Build adds a node for every path and an edge for every relative reference
// the resolver can place. Unresolved references are kept in Edges only.
func Build(paths []string, refs []model.DependencyReference, resolver Resolver) *Graph {
	nodes := model.DeduplicateStrings(paths)
	sort.Strings(nodes)

	g := &Graph{
		paths:     nodes,
		ids:       make(map[string]int64, len(nodes)),
		directed:  simple.NewDirectedGraph(),
		selfLoops: make(map[int64]bool),
		lines:     make(map[edgeKey]int),
	}
	for i, p := range nodes {
		id := int64(i)
		g.ids[p] = id
		g.directed.AddNode(simple.Node(id))
	}

	for _, ref := range refs {
		if !ref.Relative {
			continue
		}
		from, ok := g.ids[ref.File]
		if !ok {
			continue
		}

		target, resolved := resolver.Resolve(ref.File, ref)
		to, known := g.ids[target]
		resolved = resolved && known

		edge := model.ResolvedEdge{From: ref.File, Source: ref.Source, Line: ref.Line, Resolved: resolved}
		if resolved {
			edge.To = target
			g.addEdge(from, to, ref.Line)
		}
		g.edges = append(g.edges, edge)
	}

	return g
}

func (g *Graph) addEdge(from, to int64, line int) {
	key := edgeKey{from, to}
	if prev, seen := g.lines[key]; !seen || line < prev {
		g.lines[key] = line
	}

	if from == to {
		g.selfLoops[from] = true
		return
	}
	if !g.directed.HasEdgeFromTo(from, to) {
		g.directed.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
	}
}

func (g *Graph) Len() int {
	return len(g.paths)
}

func (g *Graph) Path(id int64) string {
	return g.paths[id]
}

func (g *Graph) ID(path string) (int64, bool) {
	id, ok := g.ids[path]
	return id, ok
}

// Successors returns the targets of id's outgoing edges in ascending order,
// including id itself when it imports itself.
func (g *Graph) Successors(id int64) []int64 {
	var out []int64
	for _, n := range gograph.NodesOf(g.directed.From(id)) {
		out = append(out, n.ID())
	}
	if g.selfLoops[id] {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (g *Graph) HasEdge(from, to string) bool {
	_, ok := g.lines[edgeKey{g.idOr(from), g.idOr(to)}]
	return ok
}

// EdgeLine is the smallest source line of a reference from one file to the other, or 0
func (g *Graph) EdgeLine(from, to string) int {
	return g.lines[edgeKey{g.idOr(from), g.idOr(to)}]
}

func (g *Graph) idOr(path string) int64 {
	if id, ok := g.ids[path]; ok {
		return id
	}
	return -1
}

// Edges returns every relative reference in input order, resolved or not
func (g *Graph) Edges() []model.ResolvedEdge {
	return g.edges
}

// StronglyConnected lists the file clusters that sit on at least one cycle
func (g *Graph) StronglyConnected() [][]string {
	var clusters [][]string
	for _, component := range topo.TarjanSCC(g.directed) {
		if len(component) == 1 && !g.selfLoops[component[0].ID()] {
			continue
		}

		cluster := make([]string, 0, len(component))
		for _, n := range component {
			cluster = append(cluster, g.paths[n.ID()])
		}
		sort.Strings(cluster)
		clusters = append(clusters, cluster)
	}

	sort.Slice(clusters, func(i, j int) bool { return clusters[i][0] < clusters[j][0] })
	return clusters
}
