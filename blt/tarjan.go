package blt

// tarjanSCC computes the strongly connected components of a directed graph
// with n nodes and adjacency lists adj. Components come out in reverse
// topological order; node indices inside each component are sorted ascending
// so the caller keeps the input's relative equation order.
//
// The recursion is unrolled onto an explicit stack so deep dependency chains
// cannot overflow the goroutine stack.
func tarjanSCC(n int, adj [][]int) [][]int {
	const unvisited = -1

	index := make([]int, n)
	lowlink := make([]int, n)
	onStack := make([]bool, n)
	for i := range index {
		index[i] = unvisited
	}

	var (
		counter int
		stack   []int
		sccs    [][]int
	)

	type frame struct {
		node int
		edge int // next adjacency position to explore
	}

	for start := 0; start < n; start++ {
		if index[start] != unvisited {
			continue
		}
		frames := []frame{{node: start}}
		for len(frames) > 0 {
			f := &frames[len(frames)-1]
			v := f.node
			if f.edge == 0 {
				index[v] = counter
				lowlink[v] = counter
				counter++
				stack = append(stack, v)
				onStack[v] = true
			}
			advanced := false
			for f.edge < len(adj[v]) {
				w := adj[v][f.edge]
				f.edge++
				if index[w] == unvisited {
					frames = append(frames, frame{node: w})
					advanced = true
					break
				}
				if onStack[w] && index[w] < lowlink[v] {
					lowlink[v] = index[w]
				}
			}
			if advanced {
				continue
			}
			// All edges of v explored: pop the frame, fold lowlink into the
			// parent, and emit a component if v is a root.
			frames = frames[:len(frames)-1]
			if len(frames) > 0 {
				p := frames[len(frames)-1].node
				if lowlink[v] < lowlink[p] {
					lowlink[p] = lowlink[v]
				}
			}
			if lowlink[v] == index[v] {
				var scc []int
				for {
					w := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					onStack[w] = false
					scc = append(scc, w)
					if w == v {
						break
					}
				}
				sortAscending(scc)
				sccs = append(sccs, scc)
			}
		}
	}
	return sccs
}

func sortAscending(xs []int) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j] < xs[j-1]; j-- {
			xs[j], xs[j-1] = xs[j-1], xs[j]
		}
	}
}
