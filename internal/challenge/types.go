package challenge

import (
	"slices"
	"time"
)

// Timing is one beat-matching round: a target zone inside [0,1] and the time
// the marker takes to sweep the whole range.
type Timing struct {
	ZoneStart float64
	ZoneWidth float64
	Duration  time.Duration
}

func (t Timing) ZoneEnd() float64 { return t.ZoneStart + t.ZoneWidth }

func (t Timing) Center() float64 { return t.ZoneStart + t.ZoneWidth/2 }

// Contains reports whether p falls inside [ZoneStart, ZoneStart+ZoneWidth).
func (t Timing) Contains(p float64) bool {
	return p >= t.ZoneStart && p < t.ZoneEnd()
}

// Pattern is a sequence of cell indices on a GridSize×GridSize board.
type Pattern struct {
	GridSize    int
	Sequence    []int
	RevealDelay time.Duration
}

func (p Pattern) Cells() int { return p.GridSize * p.GridSize }

const (
	GridSide  = 4
	GridNodes = GridSide * GridSide
)

type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "unknown"
}

// Grid is a 4×4 routing board. Edges join orthogonally adjacent unblocked
// nodes in both directions.
type Grid struct {
	Blocked    [GridNodes]bool
	Edges      [GridNodes][]int
	Start      int
	Target     int
	MoveBudget int
}

// NewGrid builds a grid and its edges from a blocked layout.
func NewGrid(blocked [GridNodes]bool, start, target, moveBudget int) Grid {
	g := Grid{Blocked: blocked, Start: start, Target: target, MoveBudget: moveBudget}
	g.buildEdges()
	return g
}

func (g *Grid) buildEdges() {
	for i := range g.Edges {
		g.Edges[i] = nil
	}
	for node := range GridNodes {
		if g.Blocked[node] {
			continue
		}
		for _, dir := range []Direction{Right, Down} {
			n, ok := step(node, dir)
			if !ok || g.Blocked[n] {
				continue
			}
			g.Edges[node] = append(g.Edges[node], n)
			g.Edges[n] = append(g.Edges[n], node)
		}
	}
}

// Neighbor returns the node reached by moving dir from node, if an edge
// exists and the neighbour is unblocked.
func (g Grid) Neighbor(node int, dir Direction) (int, bool) {
	if node < 0 || node >= GridNodes {
		return 0, false
	}
	n, ok := step(node, dir)
	if !ok || g.Blocked[n] {
		return 0, false
	}
	for _, e := range g.Edges[node] {
		if e == n {
			return n, true
		}
	}
	return 0, false
}

// ShortestPath returns the fewest moves from Start to Target, or -1.
func (g Grid) ShortestPath() int {
	if g.Start == g.Target {
		return 0
	}
	dist := [GridNodes]int{}
	for i := range dist {
		dist[i] = -1
	}
	dist[g.Start] = 0
	queue := []int{g.Start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range g.Edges[cur] {
			if dist[n] >= 0 {
				continue
			}
			dist[n] = dist[cur] + 1
			if n == g.Target {
				return dist[n]
			}
			queue = append(queue, n)
		}
	}
	return -1
}

func Row(node int) int { return node / GridSide }

func Col(node int) int { return node % GridSide }

func isCorner(node int) bool {
	r, c := Row(node), Col(node)
	return (r == 0 || r == GridSide-1) && (c == 0 || c == GridSide-1)
}

func step(node int, dir Direction) (int, bool) {
	r, c := Row(node), Col(node)
	switch dir {
	case Up:
		r--
	case Down:
		r++
	case Left:
		c--
	case Right:
		c++
	default:
		return 0, false
	}
	if r < 0 || r >= GridSide || c < 0 || c >= GridSide {
		return 0, false
	}
	return r*GridSide + c, true
}

// Directions lists every move in a fixed order.
var Directions = []Direction{Up, Down, Left, Right}

// Route returns a shortest sequence of moves from node to Target, or nil
// when the target is unreachable or already reached.
func (g Grid) Route(from int) []Direction {
	if from < 0 || from >= GridNodes || from == g.Target {
		return nil
	}
	type hop struct {
		prev int
		dir  Direction
	}
	seen := [GridNodes]bool{}
	via := [GridNodes]hop{}
	seen[from] = true
	queue := []int{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, dir := range Directions {
			n, ok := g.Neighbor(cur, dir)
			if !ok || seen[n] {
				continue
			}
			seen[n] = true
			via[n] = hop{prev: cur, dir: dir}
			if n == g.Target {
				var path []Direction
				for at := n; at != from; at = via[at].prev {
					path = append(path, via[at].dir)
				}
				slices.Reverse(path)
				return path
			}
			queue = append(queue, n)
		}
	}
	return nil
}
