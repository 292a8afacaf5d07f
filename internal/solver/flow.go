package solver

import "container/list"

// flowEdge is one directed edge in the residual graph.
type flowEdge struct {
	to   int
	rev  int // index of the reverse edge in edges[to]
	cap  int
	cost int
}

// flowGraph is a residual graph for min-cost max-flow.
type flowGraph struct {
	edges [][]flowEdge
}

func newFlowGraph(nodes int) *flowGraph {
	return &flowGraph{edges: make([][]flowEdge, nodes)}
}

func (g *flowGraph) addEdge(from, to, capacity, cost int) {
	g.edges[from] = append(g.edges[from], flowEdge{to: to, rev: len(g.edges[to]), cap: capacity, cost: cost})
	g.edges[to] = append(g.edges[to], flowEdge{to: from, rev: len(g.edges[from]) - 1, cap: 0, cost: -cost})
}

const infCost = int(^uint(0) >> 2)

// minCostFlow pushes up to maxFlow units from source to sink along
// successive shortest paths. Shortest paths are found with a label-correcting
// Bellman-Ford queue, which tolerates the negative edge costs produced by
// preference weights. Returns the flow actually sent and its total cost.
func (g *flowGraph) minCostFlow(source, sink, maxFlow int) (int, int) {
	n := len(g.edges)
	totalFlow := 0
	totalCost := 0

	dist := make([]int, n)
	inQueue := make([]bool, n)
	prevNode := make([]int, n)
	prevEdge := make([]int, n)

	for totalFlow < maxFlow {
		for i := range dist {
			dist[i] = infCost
			inQueue[i] = false
			prevNode[i] = -1
		}
		dist[source] = 0

		queue := list.New()
		queue.PushBack(source)
		inQueue[source] = true
		for queue.Len() > 0 {
			front := queue.Front()
			queue.Remove(front)
			u := front.Value.(int)
			inQueue[u] = false
			for i, e := range g.edges[u] {
				if e.cap <= 0 || dist[u]+e.cost >= dist[e.to] {
					continue
				}
				dist[e.to] = dist[u] + e.cost
				prevNode[e.to] = u
				prevEdge[e.to] = i
				if !inQueue[e.to] {
					queue.PushBack(e.to)
					inQueue[e.to] = true
				}
			}
		}

		if dist[sink] == infCost {
			break
		}

		// Bottleneck along the path.
		pushed := maxFlow - totalFlow
		for v := sink; v != source; v = prevNode[v] {
			e := g.edges[prevNode[v]][prevEdge[v]]
			if e.cap < pushed {
				pushed = e.cap
			}
		}
		for v := sink; v != source; v = prevNode[v] {
			e := &g.edges[prevNode[v]][prevEdge[v]]
			e.cap -= pushed
			g.edges[v][e.rev].cap += pushed
		}

		totalFlow += pushed
		totalCost += pushed * dist[sink]
	}

	return totalFlow, totalCost
}
