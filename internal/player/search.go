package player

import (
	"github.com/lox/triominos/internal/board"
	"github.com/lox/triominos/internal/stone"
)

// rotations is the number of distinct states a stone cycles through.
const rotations = 6

// origin is where the opening stone goes when the board is empty.
var origin = board.Coord{}

// candidates yields every legal placement of a hand stone, ordered by hand
// position, then open field, then clockwise rotation. It stops early when
// yield returns false.
func candidates(b *board.Board, hand []stone.Stone, yield func(board.Move) bool) {
	targets := []board.Coord{origin}
	if !b.IsEmpty() {
		fields := b.OpenFields()
		targets = make([]board.Coord, len(fields))
		for i, f := range fields {
			targets[i] = f.At
		}
	}

	for _, s := range hand {
		for _, at := range targets {
			rotated := s
			for range rotations {
				if b.IsValidMove(rotated, at.X, at.Y) {
					if !yield(board.Place(rotated, at.X, at.Y)) {
						return
					}
				}
				rotated.RotateClockwise()
			}
		}
	}
}

// FirstValid returns the first legal placement for the hand.
func FirstValid(b *board.Board, hand []stone.Stone) (board.Move, bool) {
	var found board.Move
	ok := false
	candidates(b, hand, func(m board.Move) bool {
		found, ok = m, true
		return false
	})
	return found, ok
}

// Best returns the highest scoring legal placement. Ties keep the move
// found first.
func Best(b *board.Board, hand []stone.Stone) (move board.Move, points int, ok bool) {
	candidates(b, hand, func(m board.Move) bool {
		p := b.DeterminePoints(m)
		if !ok || p > points {
			move, points, ok = m, p, true
		}
		return true
	})
	return move, points, ok
}

// HasLegalMove reports whether any stone in hand can be placed
func HasLegalMove(b *board.Board, hand []stone.Stone) bool {
	_, ok := FirstValid(b, hand)
	return ok
}
