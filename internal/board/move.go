package board

import (
	"fmt"

	"github.com/lox/triominos/internal/stone"
)

// Coord identifies a cell. x grows to the right and y grows upward.
type Coord struct {
	X, Y int
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// MoveKind distinguishes placements from draws
type MoveKind uint8

const (
	DrawKind MoveKind = iota
	PlaceKind
)

// Move is either a placement of a stone at a cell or a draw from the pile.
type Move struct {
	Kind  MoveKind
	Stone stone.Stone
	At    Coord
}

// Place returns a move that puts s, in its current orientation, at (x, y).
func Place(s stone.Stone, x, y int) Move {
	return Move{Kind: PlaceKind, Stone: s, At: Coord{X: x, Y: y}}
}

// Draw returns the no-placement move.
func Draw() Move {
	return Move{Kind: DrawKind}
}

// IsDraw reports whether the move places nothing
func (m Move) IsDraw() bool { return m.Kind == DrawKind }

func (m Move) String() string {
	if m.IsDraw() {
		return "draw"
	}
	return fmt.Sprintf("place %s at %s", m.Stone, m.At)
}
