package console

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lox/triominos/internal/board"
	"github.com/lox/triominos/internal/stone"
)

// ErrBadInput is returned for lines that are not a move.
var ErrBadInput = errors.New("expected \"<stone#> <turns> <x> <y>\" or \"draw\"")

// ParseMove reads a typed move. "draw" (or "d") draws from the pile.
// Otherwise the line names a stone by its 1-based hand position, the number
// of clockwise turns to apply to it (negative turns counter-clockwise), and
// the target cell.
func ParseMove(line string, hand []stone.Stone) (board.Move, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 1 && (fields[0] == "draw" || fields[0] == "d") {
		return board.Draw(), nil
	}
	if len(fields) != 4 {
		return board.Move{}, ErrBadInput
	}

	nums := make([]int, 4)
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return board.Move{}, fmt.Errorf("%q is not a number: %w", f, ErrBadInput)
		}
		nums[i] = n
	}

	index, turns, x, y := nums[0], nums[1], nums[2], nums[3]
	if index < 1 || index > len(hand) {
		return board.Move{}, fmt.Errorf("no stone %d in a hand of %d", index, len(hand))
	}
	return board.Place(hand[index-1].Rotated(turns), x, y), nil
}
