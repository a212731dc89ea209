package board

// Scoring constants.
const (
	DrawPenalty          = -5
	TripleStartBonus     = 10
	TripleZeroStartBonus = 40
	HexagonBonus         = 50
	// ExtraHexagonBonus is added for each further ring closed by the same
	// stone: 60 for two rings, 70 for three.
	ExtraHexagonBonus = 10
)

// DeterminePoints returns what m would score against the current board.
// It never mutates the board.
//
// A draw costs DrawPenalty and an invalid placement scores 0. A valid
// placement scores the stone's pips, a starting bonus when a triple opens
// the board, and a hexagon bonus when it closes rings of six.
func (b *Board) DeterminePoints(m Move) int {
	if m.IsDraw() {
		return DrawPenalty
	}
	if !b.IsValidMove(m.Stone, m.At.X, m.At.Y) {
		return 0
	}

	points := m.Stone.Sum()

	if b.IsEmpty() && m.Stone.IsTriple() {
		if m.Stone.Sum() == 0 {
			points += TripleZeroStartBonus
		} else {
			points += TripleStartBonus
		}
	}

	points += hexagonBonus(b.Hexagons(m))
	return points
}

func hexagonBonus(rings int) int {
	if rings == 0 {
		return 0
	}
	return HexagonBonus + (rings-1)*ExtraHexagonBonus
}

// Hexagons counts the rings of six stones that placing m would complete,
// treating m's cell as occupied.
func (b *Board) Hexagons(m Move) int {
	if m.IsDraw() {
		return 0
	}

	closed := 0
	for _, ring := range vertexRings(m.At, m.Stone.Orientation()) {
		complete := true
		for _, c := range ring {
			if c == m.At {
				continue
			}
			if _, ok := b.cells[c]; !ok {
				complete = false
				break
			}
		}
		if complete {
			closed++
		}
	}
	return closed
}
