package validate

import "github.com/warpz0ne/openclaw/internal/graph"

// hasCycle reports whether the relations, viewed as directed edges,
// contain a cycle.
//
// The traversal is depth-first with an explicit frame stack rather than
// recursion, so pathological chains cannot blow the goroutine stack. Per
// root it tracks the current path as a set; an edge landing on a node
// already on the path is a cycle. A node finished once is never
// re-entered from a later root.
func hasCycle(rels []graph.Relation) bool {
	adjacency := make(map[string][]string, len(rels))
	var roots []string
	for _, rel := range rels {
		if _, ok := adjacency[rel.From]; !ok {
			roots = append(roots, rel.From)
		}
		adjacency[rel.From] = append(adjacency[rel.From], rel.To)
	}

	visited := make(map[string]bool, len(adjacency))
	for _, root := range roots {
		if visited[root] {
			continue
		}
		if cycleFrom(root, adjacency, visited) {
			return true
		}
	}
	return false
}

// frame is one suspended node in the iterative descent: the node and the
// index of its next unexplored neighbor.
type frame struct {
	node string
	next int
}

func cycleFrom(root string, adjacency map[string][]string, visited map[string]bool) bool {
	visited[root] = true
	onPath := map[string]bool{root: true}
	stack := []frame{{node: root}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		neighbors := adjacency[top.node]

		if top.next >= len(neighbors) {
			onPath[top.node] = false
			stack = stack[:len(stack)-1]
			continue
		}

		next := neighbors[top.next]
		top.next++

		if onPath[next] {
			return true
		}
		if visited[next] {
			continue
		}
		visited[next] = true
		onPath[next] = true
		stack = append(stack, frame{node: next})
	}
	return false
}
