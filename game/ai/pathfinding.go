package ai

import (
	"container/heap"
	"math"

	"github.com/pikol93/CJ12/game/geom"
)

// Point is a cell coordinate on a Grid (X along world X, Y along world Z).
type Point struct {
	X, Y int
}

// Grid is a walkability map laid over the XZ plane.
type Grid struct {
	Width, Height int
	CellSize      float32
	Origin        geom.Vec3 // world position of the corner of cell (0,0)
	blocked       []bool
}

// NewGrid creates a fully walkable grid.
func NewGrid(width, height int, cellSize float32, origin geom.Vec3) *Grid {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &Grid{
		Width:    width,
		Height:   height,
		CellSize: cellSize,
		Origin:   origin,
		blocked:  make([]bool, width*height),
	}
}

// Block marks a cell as impassable. Out-of-range cells are ignored.
func (g *Grid) Block(x, y int) {
	if g.inBounds(x, y) {
		g.blocked[y*g.Width+x] = true
	}
}

// Walkable reports whether a cell is inside the grid and not blocked.
func (g *Grid) Walkable(x, y int) bool {
	return g.inBounds(x, y) && !g.blocked[y*g.Width+x]
}

func (g *Grid) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.Width && y < g.Height
}

// CellOf maps a world position onto its cell.
func (g *Grid) CellOf(p geom.Vec3) (Point, bool) {
	x := int(math.Floor(float64((p.X - g.Origin.X) / g.CellSize)))
	y := int(math.Floor(float64((p.Z - g.Origin.Z) / g.CellSize)))
	return Point{x, y}, g.inBounds(x, y)
}

// Center returns the world position of a cell's centre at height y.
func (g *Grid) Center(pt Point, y float32) geom.Vec3 {
	return geom.Vec3{
		X: g.Origin.X + (float32(pt.X)+0.5)*g.CellSize,
		Y: y,
		Z: g.Origin.Z + (float32(pt.Y)+0.5)*g.CellSize,
	}
}

type pathNode struct {
	pt     Point
	g, f   int
	parent *pathNode
	index  int
}

type openSet []*pathNode

func (o openSet) Len() int           { return len(o) }
func (o openSet) Less(i, j int) bool { return o[i].f < o[j].f }

func (o openSet) Swap(i, j int) {
	o[i], o[j] = o[j], o[i]
	o[i].index = i
	o[j].index = j
}

func (o *openSet) Push(x interface{}) {
	n := x.(*pathNode)
	n.index = len(*o)
	*o = append(*o, n)
}

func (o *openSet) Pop() interface{} {
	old := *o
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*o = old[:len(old)-1]
	return n
}

// AStar finds the shortest 4-connected walkable path from `from` to `to`.
// Returns the path excluding the start and including the end, an empty slice
// when from == to, or nil if no path exists.
func AStar(g *Grid, from, to Point) []Point {
	if g == nil || !g.Walkable(to.X, to.Y) {
		return nil
	}
	if from == to {
		return []Point{}
	}

	heuristic := func(a, b Point) int {
		dx := a.X - b.X
		if dx < 0 {
			dx = -dx
		}
		dy := a.Y - b.Y
		if dy < 0 {
			dy = -dy
		}
		return dx + dy
	}

	closed := make(map[Point]bool)
	gScore := map[Point]int{from: 0}
	open := &openSet{}
	heap.Push(open, &pathNode{pt: from, f: heuristic(from, to)})

	dirs := [4]Point{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
	for open.Len() > 0 {
		cur := heap.Pop(open).(*pathNode)
		if closed[cur.pt] {
			continue
		}
		closed[cur.pt] = true

		if cur.pt == to {
			var path []Point
			for n := cur; n.parent != nil; n = n.parent {
				path = append(path, n.pt)
			}
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return path
		}

		for _, d := range dirs {
			np := Point{cur.pt.X + d.X, cur.pt.Y + d.Y}
			if closed[np] || !g.Walkable(np.X, np.Y) {
				continue
			}
			ng := cur.g + 1
			if prev, ok := gScore[np]; !ok || ng < prev {
				gScore[np] = ng
				heap.Push(open, &pathNode{pt: np, g: ng, f: ng + heuristic(np, to), parent: cur})
			}
		}
	}
	return nil
}

// Positioner reports where the navigating agent currently is.
type Positioner interface {
	Position() geom.Vec3
}

// GridNavigator answers "next step toward target" queries over a Grid. It
// caches the last path and only re-plans when the agent's cell or the
// target's cell changes.
type GridNavigator struct {
	grid   *Grid
	agent  Positioner
	target geom.Vec3
	armed  bool

	cachedFrom, cachedTo Point
	cachedPath           []Point
	cacheValid           bool
}

// NewGridNavigator creates a navigator over grid. Follow must be called
// before the first NextStepPosition.
func NewGridNavigator(grid *Grid) *GridNavigator {
	return &GridNavigator{grid: grid}
}

// Follow binds the navigator to the agent it steers.
func (n *GridNavigator) Follow(agent Positioner) { n.agent = agent }

// SetTarget sets the final destination.
func (n *GridNavigator) SetTarget(target geom.Vec3) {
	n.target = target
	n.armed = true
}

// NextStepPosition returns the next intermediate point toward the target.
// With no usable path it returns the target itself, and with no target or no
// agent it returns the agent's own position.
func (n *GridNavigator) NextStepPosition() geom.Vec3 {
	if n.agent == nil {
		return n.target
	}
	pos := n.agent.Position()
	if !n.armed {
		return pos
	}
	if n.grid == nil {
		return n.target
	}
	from, ok1 := n.grid.CellOf(pos)
	to, ok2 := n.grid.CellOf(n.target)
	if !ok1 || !ok2 || from == to {
		return n.target
	}
	if !n.cacheValid || n.cachedFrom != from || n.cachedTo != to {
		n.cachedPath = AStar(n.grid, from, to)
		n.cachedFrom, n.cachedTo = from, to
		n.cacheValid = true
	}
	// The last cell is the target's own cell; head for the exact point.
	if len(n.cachedPath) <= 1 {
		return n.target
	}
	return n.grid.Center(n.cachedPath[0], pos.Y)
}
