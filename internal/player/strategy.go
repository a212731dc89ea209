package player

import (
	"fmt"
	"strings"
)

// Strategy selects how a player decides its moves.
type Strategy uint8

const (
	// Interactive players wait for a move from a Prompt.
	Interactive Strategy = iota
	// Greedy players take the first legal placement they find.
	Greedy
	// Maximizing players take the highest scoring placement.
	Maximizing
)

func (s Strategy) String() string {
	switch s {
	case Interactive:
		return "interactive"
	case Greedy:
		return "greedy"
	case Maximizing:
		return "maximizing"
	default:
		return fmt.Sprintf("strategy(%d)", uint8(s))
	}
}

// ParseStrategy converts a name such as "greedy" into a Strategy. "human",
// "easy" and "hard" are accepted as aliases.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "interactive", "human":
		return Interactive, nil
	case "greedy", "easy":
		return Greedy, nil
	case "maximizing", "maximising", "hard":
		return Maximizing, nil
	default:
		return 0, fmt.Errorf("unknown strategy %q", name)
	}
}

// IsBot reports whether the strategy decides without outside input
func (s Strategy) IsBot() bool {
	return s == Greedy || s == Maximizing
}
