// Package board holds placed stones and answers every rules question about
// them: whether a placement is legal, which cells are open, and what a move
// scores.
//
// Cells are stored sparsely by coordinate. Adjacency is derived from
// occupancy on every query, so removing a stone is a single deletion.
package board

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/lox/triominos/internal/stone"
)

// ErrNotPlacement is returned when a Draw move is committed to the board.
var ErrNotPlacement = errors.New("move does not place a stone")

// PlacementError reports a commit onto an occupied cell.
type PlacementError struct {
	At       Coord
	Occupant stone.Stone
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("cell %s already holds %s", e.At, e.Occupant)
}

// Cell is an occupied coordinate and its stone.
type Cell struct {
	At    Coord
	Stone stone.Stone
}

// OpenField is an empty cell next to the placed stones, tagged with the
// orientation a stone needs to fit there geometrically.
type OpenField struct {
	At          Coord
	Orientation stone.Orientation
}

// Board is the shared playing surface. It is not safe for concurrent use.
type Board struct {
	cells map[Coord]stone.Stone
}

// New creates an empty board
func New() *Board {
	return &Board{cells: make(map[Coord]stone.Stone)}
}

// Clone returns an independent copy of the board.
func (b *Board) Clone() *Board {
	return &Board{cells: maps.Clone(b.cells)}
}

// Len returns the number of placed stones
func (b *Board) Len() int { return len(b.cells) }

// IsEmpty reports whether no stone has been placed
func (b *Board) IsEmpty() bool { return len(b.cells) == 0 }

// At returns the stone at (x, y), if any
func (b *Board) At(x, y int) (stone.Stone, bool) {
	s, ok := b.cells[Coord{X: x, Y: y}]
	return s, ok
}

// Cells returns the occupied cells ordered by x, then y.
func (b *Board) Cells() []Cell {
	cells := make([]Cell, 0, len(b.cells))
	for c, s := range b.cells {
		cells = append(cells, Cell{At: c, Stone: s})
	}
	slices.SortFunc(cells, func(a, b Cell) int {
		return compareCoords(a.At, b.At)
	})
	return cells
}

// Stones returns every placed stone in Cells order
func (b *Board) Stones() []stone.Stone {
	cells := b.Cells()
	stones := make([]stone.Stone, len(cells))
	for i, c := range cells {
		stones[i] = c.Stone
	}
	return stones
}

// IsValidMove reports whether s, in its current orientation, may be placed
// at (x, y). Any placement is valid on an empty board. Otherwise the cell
// must be free, touch at least one stone, and every touching stone must
// have the opposite orientation and matching numbers on the shared edge.
func (b *Board) IsValidMove(s stone.Stone, x, y int) bool {
	if b.IsEmpty() {
		return true
	}

	at := Coord{X: x, Y: y}
	if _, occupied := b.cells[at]; occupied {
		return false
	}

	touching := 0
	for slot, n := range neighbours(at, s.Orientation()) {
		neighbour, ok := b.cells[n]
		if !ok {
			continue
		}
		touching++
		if neighbour.Orientation() == s.Orientation() {
			return false
		}
		if !edgesMatch(s, neighbour, slot) {
			return false
		}
	}

	return touching > 0
}

// PlaceStone commits a placement without re-validating it.
func (b *Board) PlaceStone(m Move) error {
	if m.IsDraw() {
		return ErrNotPlacement
	}
	if occupant, ok := b.cells[m.At]; ok {
		return &PlacementError{At: m.At, Occupant: occupant}
	}
	b.cells[m.At] = m.Stone
	return nil
}

// RemoveStone clears the cell targeted by m. It is the inverse of
// PlaceStone and is used to undo trial placements.
func (b *Board) RemoveStone(m Move) {
	if m.IsDraw() {
		return
	}
	delete(b.cells, m.At)
}

// OpenFields lists every empty cell adjacent to a placed stone. Each field
// appears once, in the order it is first reached walking Cells.
func (b *Board) OpenFields() []OpenField {
	var fields []OpenField
	seen := make(map[Coord]bool)

	for _, cell := range b.Cells() {
		want := cell.Stone.Orientation().Opposite()
		for _, n := range neighbours(cell.At, cell.Stone.Orientation()) {
			if _, occupied := b.cells[n]; occupied || seen[n] {
				continue
			}
			seen[n] = true
			fields = append(fields, OpenField{At: n, Orientation: want})
		}
	}

	return fields
}

// EmptyLocation returns the orientation required at the open field (x, y).
// ok is false when (x, y) is occupied or not adjacent to any stone.
func (b *Board) EmptyLocation(x, y int) (o stone.Orientation, ok bool) {
	at := Coord{X: x, Y: y}
	if _, occupied := b.cells[at]; occupied {
		return 0, false
	}
	// An open field's orientation is the one whose neighbour set reaches
	// back to an occupied cell of the other orientation.
	for _, candidate := range []stone.Orientation{stone.ApexDown, stone.ApexUp} {
		for _, n := range neighbours(at, candidate) {
			if s, occupied := b.cells[n]; occupied && s.Orientation() != candidate {
				return candidate, true
			}
		}
	}
	return 0, false
}

func compareCoords(a, b Coord) int {
	if c := cmp.Compare(a.X, b.X); c != 0 {
		return c
	}
	return cmp.Compare(a.Y, b.Y)
}
