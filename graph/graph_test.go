package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hannajonsd/structural-analysis/model"
	"github.com/hannajonsd/structural-analysis/resolve"
)

// imports builds relative references from "file -> source" pairs, one per line
func imports(pairs ...[2]string) []model.DependencyReference {
	refs := make([]model.DependencyReference, 0, len(pairs))
	for i, p := range pairs {
		refs = append(refs, model.DependencyReference{
			File:     p[0],
			Source:   p[1],
			Path:     p[1],
			Line:     i + 1,
			Relative: model.IsRelativeSource(p[1]),
		})
	}
	return refs
}

func build(paths []string, refs []model.DependencyReference) *Graph {
	return Build(paths, refs, resolve.New(paths))
}

func TestBuildNodesSorted(t *testing.T) {
	g := build([]string{"/p/c.js", "/p/a.js", "/p/b.js", "/p/a.js"}, nil)

	require.Equal(t, 3, g.Len())
	assert.Equal(t, "/p/a.js", g.Path(0))
	assert.Equal(t, "/p/b.js", g.Path(1))
	assert.Equal(t, "/p/c.js", g.Path(2))

	id, ok := g.ID("/p/c.js")
	assert.True(t, ok)
	assert.Equal(t, int64(2), id)

	_, ok = g.ID("/p/missing.js")
	assert.False(t, ok)
}

func TestBuildEdges(t *testing.T) {
	paths := []string{"/p/a.js", "/p/b.js", "/p/c.js"}
	refs := imports(
		[2]string{"/p/a.js", "./b"},
		[2]string{"/p/a.js", "react"},
		[2]string{"/p/a.js", "./missing"},
		[2]string{"/p/b.js", "./c.js"},
		[2]string{"/p/b.js", "./c"},
	)
	g := build(paths, refs)

	assert.True(t, g.HasEdge("/p/a.js", "/p/b.js"))
	assert.True(t, g.HasEdge("/p/b.js", "/p/c.js"))
	assert.False(t, g.HasEdge("/p/b.js", "/p/a.js"))
	assert.Equal(t, 4, g.EdgeLine("/p/b.js", "/p/c.js"))
	assert.Equal(t, 0, g.EdgeLine("/p/c.js", "/p/a.js"))

	edges := g.Edges()
	require.Len(t, edges, 4, "non-relative references are not graph edges")
	assert.Equal(t, model.ResolvedEdge{From: "/p/a.js", To: "/p/b.js", Source: "./b", Line: 1, Resolved: true}, edges[0])
	assert.Equal(t, model.ResolvedEdge{From: "/p/a.js", Source: "./missing", Line: 3}, edges[1])

	assert.Equal(t, []int64{1}, g.Successors(0))
	assert.Equal(t, []int64{2}, g.Successors(1))
	assert.Empty(t, g.Successors(2))
}

func TestSuccessorsIncludeSelfLoop(t *testing.T) {
	paths := []string{"/p/a.js", "/p/b.js"}
	g := build(paths, imports(
		[2]string{"/p/a.js", "./b"},
		[2]string{"/p/a.js", "./a"},
	))

	assert.Equal(t, []int64{0, 1}, g.Successors(0))
	assert.True(t, g.HasEdge("/p/a.js", "/p/a.js"))
}

func TestStronglyConnected(t *testing.T) {
	paths := []string{"/p/a.js", "/p/b.js", "/p/c.js", "/p/d.js", "/p/e.js"}
	g := build(paths, imports(
		[2]string{"/p/a.js", "./b"},
		[2]string{"/p/b.js", "./a"},
		[2]string{"/p/b.js", "./c"},
		[2]string{"/p/d.js", "./d"},
	))

	assert.Equal(t, [][]string{
		{"/p/a.js", "/p/b.js"},
		{"/p/d.js"},
	}, g.StronglyConnected())
}
