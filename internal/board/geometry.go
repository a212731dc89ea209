package board

import "github.com/lox/triominos/internal/stone"

// Neighbour slots of a cell.
const (
	edgeSlot = iota
	leftSlot
	rightSlot
)

// neighbours returns the edge, left and right cells of a cell holding a
// stone with orientation o.
func neighbours(c Coord, o stone.Orientation) [3]Coord {
	edge := Coord{X: c.X, Y: c.Y + 1}
	if o == stone.ApexUp {
		edge.Y = c.Y - 1
	}
	return [3]Coord{
		edgeSlot:  edge,
		leftSlot:  {X: c.X - 1, Y: c.Y},
		rightSlot: {X: c.X + 1, Y: c.Y},
	}
}

// matches[o][slot] lists the two corner pairs {candidate, neighbour} that
// meet along the shared edge when a candidate of orientation o touches a
// neighbour in that slot.
var matches = [2][3][2][2]int{
	stone.ApexDown: {
		edgeSlot:  {{2, 0}, {1, 1}},
		leftSlot:  {{0, 1}, {2, 2}},
		rightSlot: {{0, 0}, {1, 2}},
	},
	stone.ApexUp: {
		edgeSlot:  {{0, 2}, {1, 1}},
		leftSlot:  {{0, 0}, {2, 1}},
		rightSlot: {{1, 0}, {2, 2}},
	},
}

// edgesMatch checks the shared edge between a candidate and its neighbour.
func edgesMatch(candidate, neighbour stone.Stone, slot int) bool {
	for _, pair := range matches[candidate.Orientation()][slot] {
		if candidate.Value(pair[0]) != neighbour.Value(pair[1]) {
			return false
		}
	}
	return true
}

// vertexRings returns, for each corner of a stone with orientation o at c,
// the six cells that surround that corner. The candidate cell is included
// in every ring.
func vertexRings(c Coord, o stone.Orientation) [3][6]Coord {
	// d points from the cell toward the row across its flat edge.
	d := 1
	if o == stone.ApexUp {
		d = -1
	}
	apex := c.Y - d
	base := c.Y + d

	ring := func(x0, y1 int) [6]Coord {
		return [6]Coord{
			{X: x0, Y: c.Y}, {X: x0 + 1, Y: c.Y}, {X: x0 + 2, Y: c.Y},
			{X: x0, Y: y1}, {X: x0 + 1, Y: y1}, {X: x0 + 2, Y: y1},
		}
	}

	return [3][6]Coord{
		ring(c.X-1, apex),
		ring(c.X-2, base),
		ring(c.X, base),
	}
}
