// Package stone models the triangular tiles of the game: three numbers plus
// the way the tile's apex points.
package stone

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxValue is the highest number printed on a stone.
const MaxValue = 5

// Count is the number of distinct stones in a full set.
const Count = 56

// Orientation describes which way a stone's apex points. The board's y axis
// grows upward, so an ApexUp stone has its flat edge at the bottom.
type Orientation uint8

const (
	// ApexDown is the orientation new stones start in.
	ApexDown Orientation = iota
	ApexUp
)

// Opposite returns the other orientation
func (o Orientation) Opposite() Orientation {
	if o == ApexUp {
		return ApexDown
	}
	return ApexUp
}

// String returns a short symbol for the orientation
func (o Orientation) String() string {
	switch o {
	case ApexUp:
		return "▲"
	case ApexDown:
		return "▼"
	default:
		return "?"
	}
}

// Stone is a triangular tile. Values are ordered corner by corner:
//
//	ApexUp:   v0 bottom-left, v1 bottom-right, v2 apex (top)
//	ApexDown: v0 apex (bottom), v1 top-right, v2 top-left
//
// Stones are plain values; copies rotate independently.
type Stone struct {
	values      [3]int
	orientation Orientation
}

// New creates an ApexDown stone with the given corner values
func New(a, b, c int) Stone {
	return Stone{values: [3]int{a, b, c}}
}

// NewOriented creates a stone with an explicit orientation
func NewOriented(a, b, c int, o Orientation) Stone {
	return Stone{values: [3]int{a, b, c}, orientation: o}
}

// Values returns the corner values in their current order
func (s Stone) Values() [3]int { return s.values }

// Value returns the value of corner i (0..2)
func (s Stone) Value(i int) int { return s.values[i] }

// Orientation returns the current orientation
func (s Stone) Orientation() Orientation { return s.orientation }

// RotateClockwise advances the stone one step clockwise. Leaving ApexDown
// shifts the values forward by one corner; leaving ApexUp only flips.
func (s *Stone) RotateClockwise() {
	if s.orientation == ApexDown {
		v := s.values
		s.values = [3]int{v[2], v[0], v[1]}
		s.orientation = ApexUp
		return
	}
	s.orientation = ApexDown
}

// RotateCounterClockwise undoes RotateClockwise.
func (s *Stone) RotateCounterClockwise() {
	if s.orientation == ApexUp {
		v := s.values
		s.values = [3]int{v[1], v[2], v[0]}
		s.orientation = ApexDown
		return
	}
	s.orientation = ApexUp
}

// Rotated returns a copy rotated clockwise n times. Negative n rotates
// counter-clockwise.
func (s Stone) Rotated(n int) Stone {
	for ; n > 0; n-- {
		s.RotateClockwise()
	}
	for ; n < 0; n++ {
		s.RotateCounterClockwise()
	}
	return s
}

// IsTriple reports whether all three values are equal
func (s Stone) IsTriple() bool {
	return s.values[0] == s.values[1] && s.values[1] == s.values[2]
}

// Sum returns the pip total
func (s Stone) Sum() int {
	return s.values[0] + s.values[1] + s.values[2]
}

// Equal requires the same orientation and the same ordered values.
func (s Stone) Equal(other Stone) bool {
	return s.orientation == other.orientation && s.values == other.values
}

// Key identifies the physical stone regardless of rotation.
type Key [3]int

// Key returns the sorted values of the stone
func (s Stone) Key() Key {
	a, b, c := s.values[0], s.values[1], s.values[2]
	if a > b {
		a, b = b, a
	}
	if b > c {
		b, c = c, b
	}
	if a > b {
		a, b = b, a
	}
	return Key{a, b, c}
}

// String renders the stone as "1-2-3▼"
func (s Stone) String() string {
	return fmt.Sprintf("%d-%d-%d%s", s.values[0], s.values[1], s.values[2], s.orientation)
}

// Valid reports whether every value lies in [0, MaxValue].
func (s Stone) Valid() bool {
	for _, v := range s.values {
		if v < 0 || v > MaxValue {
			return false
		}
	}
	return true
}

// All returns the full set of distinct stones, every non-decreasing triple
// (i, j, k) with 0 <= i <= j <= k <= MaxValue, in lexicographic order.
func All() []Stone {
	stones := make([]Stone, 0, Count)
	for i := 0; i <= MaxValue; i++ {
		for j := i; j <= MaxValue; j++ {
			for k := j; k <= MaxValue; k++ {
				stones = append(stones, New(i, j, k))
			}
		}
	}
	return stones
}

// Parse reads a stone written as "a-b-c", optionally followed by an
// orientation marker (▲, ▼, ^ or v).
func Parse(s string) (Stone, error) {
	s = strings.TrimSpace(s)
	orientation := ApexDown
	switch {
	case strings.HasSuffix(s, "▲"):
		orientation, s = ApexUp, strings.TrimSuffix(s, "▲")
	case strings.HasSuffix(s, "▼"):
		s = strings.TrimSuffix(s, "▼")
	case strings.HasSuffix(s, "^"):
		orientation, s = ApexUp, strings.TrimSuffix(s, "^")
	case strings.HasSuffix(s, "v"):
		s = strings.TrimSuffix(s, "v")
	}

	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return Stone{}, fmt.Errorf("invalid stone %q: want a-b-c", s)
	}

	var values [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return Stone{}, fmt.Errorf("invalid stone value %q: %w", p, err)
		}
		values[i] = v
	}

	st := Stone{values: values, orientation: orientation}
	if !st.Valid() {
		return Stone{}, fmt.Errorf("stone %s has values outside 0-%d", st, MaxValue)
	}
	return st, nil
}
