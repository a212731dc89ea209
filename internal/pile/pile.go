// Package pile holds the stones that have not been dealt yet.
package pile

import (
	rand "math/rand/v2"

	"github.com/lox/triominos/internal/stone"
)

// Pile is a shuffled reservoir of stones, drawn from the front.
type Pile struct {
	stones []stone.Stone
	rng    *rand.Rand
}

// New creates a pile holding the full set, shuffled once with rng.
func New(rng *rand.Rand) *Pile {
	if rng == nil {
		panic("rng is required for pile creation")
	}
	p := &Pile{
		stones: stone.All(),
		rng:    rng,
	}
	p.shuffle()
	return p
}

// FromStones creates an unshuffled pile in the given order.
func FromStones(stones []stone.Stone) *Pile {
	return &Pile{stones: append([]stone.Stone(nil), stones...)}
}

func (p *Pile) shuffle() {
	for i := len(p.stones) - 1; i > 0; i-- {
		j := p.rng.IntN(i + 1)
		p.stones[i], p.stones[j] = p.stones[j], p.stones[i]
	}
}

// Draw removes and returns the front stone. ok is false when the pile is
// empty.
func (p *Pile) Draw() (s stone.Stone, ok bool) {
	if len(p.stones) == 0 {
		return stone.Stone{}, false
	}
	s = p.stones[0]
	p.stones = p.stones[1:]
	return s, true
}

// DrawN draws up to n stones
func (p *Pile) DrawN(n int) []stone.Stone {
	n = min(n, len(p.stones))
	drawn := make([]stone.Stone, 0, n)
	for range n {
		s, _ := p.Draw()
		drawn = append(drawn, s)
	}
	return drawn
}

// Len returns the number of stones left
func (p *Pile) Len() int { return len(p.stones) }

// IsEmpty returns true if nothing is left to draw
func (p *Pile) IsEmpty() bool { return len(p.stones) == 0 }

// Stones returns a copy of the remaining stones in draw order
func (p *Pile) Stones() []stone.Stone {
	return append([]stone.Stone(nil), p.stones...)
}
