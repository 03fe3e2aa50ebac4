package graph

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hannajonsd/structural-analysis/model"
)

// FindCycles walks the graph depth-first from every unsettled node in path
// order. Each edge into a node still on the stack closes a cycle; cycles over
// the same set of files are reported once, in discovery order.
func FindCycles(g *Graph) []model.Cycle {
	var (
		onStack = roaring.New()
		settled = roaring.New()
		stack   []int64
		pos     = make(map[int64]int)
		seen    = make(map[string]bool)
		cycles  []model.Cycle
	)

	var visit func(v int64)
	visit = func(v int64) {
		onStack.Add(uint32(v))
		pos[v] = len(stack)
		stack = append(stack, v)

		for _, w := range g.Successors(v) {
			switch {
			case onStack.Contains(uint32(w)):
				walk := make([]string, 0, len(stack)-pos[w]+1)
				for _, id := range stack[pos[w]:] {
					walk = append(walk, g.Path(id))
				}
				walk = append(walk, g.Path(w))

				c := model.NewCycle(walk)
				if !seen[c.Signature] {
					seen[c.Signature] = true
					cycles = append(cycles, c)
				}
			case !settled.Contains(uint32(w)):
				visit(w)
			}
		}

		stack = stack[:len(stack)-1]
		delete(pos, v)
		onStack.Remove(uint32(v))
		settled.Add(uint32(v))
	}

	for id := int64(0); id < int64(g.Len()); id++ {
		if !settled.Contains(uint32(id)) {
			visit(id)
		}
	}
	return cycles
}

// DetectCircularDependencies reports one error per unique cycle, attributed
// to the cycle's first file at the line of its import of the second.
func DetectCircularDependencies(g *Graph) []model.StructuralIssue {
	cycles := FindCycles(g)
	issues := make([]model.StructuralIssue, 0, len(cycles))

	for i, c := range cycles {
		line := 0
		if len(c.Path) > 1 {
			line = g.EdgeLine(c.Path[0], c.Path[1])
		}
		issues = append(issues, model.NewCircularDependencyIssue(c, i+1, line))
	}
	return issues
}
