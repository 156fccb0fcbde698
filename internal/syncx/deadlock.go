package syncx

// BuildWaitGraph turns a set of wait-for edges into an adjacency list
// keyed by agent id.
func BuildWaitGraph(edges []WaitEdge) map[uint64][]uint64 {
	graph := make(map[uint64][]uint64)
	for _, e := range edges {
		graph[e.Agent] = append(graph[e.Agent], e.Holder)
		if _, ok := graph[e.Holder]; !ok {
			graph[e.Holder] = nil
		}
	}
	return graph
}

// tarjan is a standard iterative-recursion Tarjan strongly-connected-
// components pass. The original watchdog's find_cycles/
// detect_circular_wait are permanent stubs that always return
// nothing; this is a real implementation, supplementing that gap.
type tarjan struct {
	graph   map[uint64][]uint64
	index   map[uint64]int
	lowlink map[uint64]int
	onStack map[uint64]bool
	stack   []uint64
	counter int
	sccs    [][]uint64
}

// FindCycles returns every strongly-connected component of size >= 2
// in the wait-for graph, plus any single agent with an edge to itself,
// each such component constituting a circular wait (a deadlock).
func FindCycles(graph map[uint64][]uint64) [][]uint64 {
	t := &tarjan{
		graph:   graph,
		index:   make(map[uint64]int),
		lowlink: make(map[uint64]int),
		onStack: make(map[uint64]bool),
	}
	for v := range graph {
		if _, seen := t.index[v]; !seen {
			t.strongConnect(v)
		}
	}

	var cycles [][]uint64
	for _, scc := range t.sccs {
		if len(scc) >= 2 {
			cycles = append(cycles, scc)
		} else if len(scc) == 1 {
			v := scc[0]
			for _, w := range graph[v] {
				if w == v {
					cycles = append(cycles, scc)
					break
				}
			}
		}
	}
	return cycles
}

func (t *tarjan) strongConnect(v uint64) {
	t.index[v] = t.counter
	t.lowlink[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.graph[v] {
		if _, seen := t.index[w]; !seen {
			t.strongConnect(w)
			if t.lowlink[w] < t.lowlink[v] {
				t.lowlink[v] = t.lowlink[w]
			}
		} else if t.onStack[w] {
			if t.index[w] < t.lowlink[v] {
				t.lowlink[v] = t.index[w]
			}
		}
	}

	if t.lowlink[v] == t.index[v] {
		var scc []uint64
		for {
			n := len(t.stack) - 1
			w := t.stack[n]
			t.stack = t.stack[:n]
			t.onStack[w] = false
			scc = append(scc, w)
			if w == v {
				break
			}
		}
		t.sccs = append(t.sccs, scc)
	}
}

// DetectCircularWait reports the first detected cycle in the current
// lock registry's wait-for graph, if any.
func (r *LockRegistry) DetectCircularWait() ([]uint64, bool) {
	edges := r.Snapshot()
	graph := BuildWaitGraph(edges)
	cycles := FindCycles(graph)
	if len(cycles) == 0 {
		return nil, false
	}
	return cycles[0], true
}
