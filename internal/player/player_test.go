package player

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/triominos/internal/board"
	"github.com/lox/triominos/internal/pile"
	"github.com/lox/triominos/internal/stone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

// twos returns a board holding a single ApexDown (2,2,2) at the origin.
func twos(t *testing.T) *board.Board {
	t.Helper()
	b := board.New()
	require.NoError(t, b.PlaceStone(board.Place(stone.New(2, 2, 2), 0, 0)))
	return b
}

func TestParseStrategy(t *testing.T) {
	tests := map[string]Strategy{
		"interactive": Interactive,
		"Human":       Interactive,
		"greedy":      Greedy,
		"easy":        Greedy,
		" maximizing": Maximizing,
		"hard":        Maximizing,
	}
	for name, want := range tests {
		got, err := ParseStrategy(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got)
	}

	_, err := ParseStrategy("random")
	assert.Error(t, err)
	assert.Equal(t, "maximizing", Maximizing.String())
	assert.True(t, Greedy.IsBot())
	assert.False(t, Interactive.IsBot())
}

func TestHandOperations(t *testing.T) {
	p := New("alice", Greedy)
	p.Deal(stone.New(1, 2, 3), stone.New(4, 4, 4), stone.New(0, 5, 5))

	assert.Equal(t, 3, p.HandSize())
	assert.Equal(t, 28, p.HandSum())
	assert.True(t, p.Has(stone.New(3, 2, 1).Key()))

	s, ok := p.Remove(stone.New(2, 1, 3).Rotated(1).Key())
	require.True(t, ok)
	assert.True(t, s.Equal(stone.New(1, 2, 3)), "Remove returns the stone as held")
	assert.Equal(t, 2, p.HandSize())

	_, ok = p.Remove(stone.New(1, 2, 3).Key())
	assert.False(t, ok)

	hand := p.Hand()
	hand[0] = stone.New(0, 0, 0)
	assert.True(t, p.Hand()[0].Equal(stone.New(4, 4, 4)), "Hand returns a copy")

	p.ResetHand()
	assert.Zero(t, p.HandSize())
}

func TestHighestStones(t *testing.T) {
	p := New("bob", Greedy)
	_, ok := p.HighestStone()
	assert.False(t, ok)

	p.Deal(stone.New(1, 1, 1), stone.New(4, 5, 5), stone.New(3, 3, 3), stone.New(0, 0, 0))

	triple, ok := p.HighestTriple()
	require.True(t, ok)
	assert.True(t, triple.Equal(stone.New(3, 3, 3)))

	high, ok := p.HighestStone()
	require.True(t, ok)
	assert.True(t, high.Equal(stone.New(4, 5, 5)))

	q := New("carol", Greedy)
	q.Deal(stone.New(0, 1, 2))
	_, ok = q.HighestTriple()
	assert.False(t, ok)
}

func TestGreedyTakesFirstLegalPlacement(t *testing.T) {
	b := twos(t)
	p := New("greedy", Greedy)
	p.Deal(stone.New(0, 0, 1), stone.New(2, 2, 2), stone.New(2, 2, 5))

	m := p.DetermineMove(context.Background(), b, 0)
	require.False(t, m.IsDraw())
	assert.Equal(t, board.Coord{X: 0, Y: 1}, m.At)
	assert.True(t, m.Stone.Equal(stone.NewOriented(2, 2, 2, stone.ApexUp)))
	assert.Equal(t, 1, b.Len(), "deciding leaves the board untouched")
}

func TestMaximizingTakesBestPlacement(t *testing.T) {
	b := twos(t)
	p := New("max", Maximizing)
	p.Deal(stone.New(0, 0, 1), stone.New(2, 2, 2), stone.New(2, 2, 5))

	m := p.DetermineMove(context.Background(), b, 0)
	require.False(t, m.IsDraw())
	assert.Equal(t, board.Coord{X: 0, Y: 1}, m.At)
	assert.True(t, m.Stone.Equal(stone.NewOriented(2, 2, 5, stone.ApexUp)))
	assert.Equal(t, 9, b.DeterminePoints(m))
}

func TestMaximizingKeepsFirstOnTies(t *testing.T) {
	b := twos(t)
	move, points, ok := Best(b, []stone.Stone{stone.New(2, 2, 2)})
	require.True(t, ok)
	assert.Equal(t, 6, points)
	assert.Equal(t, board.Place(stone.NewOriented(2, 2, 2, stone.ApexUp), 0, 1), move)
}

func TestMaximizingOpensWithBestTriple(t *testing.T) {
	p := New("max", Maximizing)
	p.Deal(stone.New(4, 5, 5), stone.New(0, 0, 0), stone.New(1, 1, 1))

	m := p.DetermineMove(context.Background(), board.New(), 0)
	assert.Equal(t, board.Coord{}, m.At)
	assert.Equal(t, stone.New(0, 0, 0).Key(), m.Stone.Key(), "40 for the zero triple beats 14")
}

func TestStrategiesDrawWithoutLegalMove(t *testing.T) {
	b := twos(t)
	for _, strategy := range []Strategy{Greedy, Maximizing} {
		p := New(strategy.String(), strategy)
		p.Deal(stone.New(0, 0, 1), stone.New(3, 4, 5))
		assert.True(t, p.DetermineMove(context.Background(), b, 10).IsDraw(), strategy.String())
		assert.False(t, p.CanMove(b))
	}
}

func TestCandidatesOnlyYieldLegalMoves(t *testing.T) {
	b := twos(t)
	hand := stone.All()
	count := 0
	candidates(b, hand, func(m board.Move) bool {
		require.True(t, b.IsValidMove(m.Stone, m.At.X, m.At.Y))
		count++
		return true
	})
	assert.Positive(t, count)
}

func TestCommitPlacement(t *testing.T) {
	b := twos(t)
	p := New("alice", Greedy, WithLogger(quietLogger()))
	p.Deal(stone.New(2, 2, 5), stone.New(0, 0, 1))
	pl := pile.FromStones(nil)

	turn := p.MakeMove(context.Background(), b, pl)
	require.NoError(t, turn.Err)
	assert.Equal(t, 9, turn.Points)
	assert.Equal(t, 9, p.Score)
	assert.Equal(t, 1, p.HandSize())
	assert.False(t, p.Has(stone.New(2, 2, 5).Key()))
	assert.Equal(t, 2, b.Len())
}

func TestCommitPlacementError(t *testing.T) {
	b := twos(t)
	p := New("alice", Greedy, WithLogger(quietLogger()))
	p.Deal(stone.New(1, 1, 1))
	p.Score = 20

	turn := p.Commit(b, pile.FromStones(nil), board.Place(stone.New(1, 1, 1), 0, 0))

	var placementErr *board.PlacementError
	require.True(t, errors.As(turn.Err, &placementErr))
	assert.Zero(t, turn.Points)
	assert.Equal(t, 20, p.Score, "a failed commit scores nothing")
	assert.Equal(t, 1, p.HandSize(), "the stone stays in hand")
}

func TestCommitStoneNotInHand(t *testing.T) {
	b := twos(t)
	p := New("alice", Greedy, WithLogger(quietLogger()))

	turn := p.Commit(b, pile.FromStones(nil), board.Place(stone.New(2, 2, 2).Rotated(1), 1, 0))
	assert.ErrorIs(t, turn.Err, ErrStoneNotInHand)
	assert.Equal(t, 1, b.Len())
}

func TestHoldsRejectsMirrorImages(t *testing.T) {
	p := New("alice", Greedy)
	p.Deal(stone.New(0, 1, 2))

	for i := range rotations {
		assert.True(t, p.Holds(stone.New(0, 1, 2).Rotated(i)), "rotation %d", i)
	}
	mirrored := stone.New(0, 2, 1)
	assert.True(t, p.Has(mirrored.Key()), "same values")
	assert.False(t, p.Holds(mirrored))
	assert.False(t, p.Holds(mirrored.Rotated(1)))
	assert.False(t, p.Holds(stone.New(3, 3, 3)))
}

func TestCommitRejectsMirroredStone(t *testing.T) {
	b := board.New()
	p := New("alice", Interactive, WithLogger(quietLogger()))
	p.Deal(stone.New(0, 1, 2))

	turn := p.Commit(b, pile.FromStones(nil), board.Place(stone.New(0, 2, 1), 0, 0))
	assert.ErrorIs(t, turn.Err, ErrStoneNotInHand)
	assert.Zero(t, turn.Points)
	assert.True(t, b.IsEmpty())
	assert.Equal(t, 1, p.HandSize())
}

func TestInteractiveRejectsMirroredStone(t *testing.T) {
	b := board.New()
	answers := []board.Move{
		board.Place(stone.New(0, 2, 1), 0, 0),
		board.Place(stone.New(0, 1, 2).Rotated(2), 0, 0),
	}

	var rejections []error
	calls := 0
	p := New("human", Interactive, WithLogger(quietLogger()), WithPrompt(func(_ context.Context, v View) (board.Move, error) {
		rejections = append(rejections, v.Rejected)
		m := answers[calls]
		calls++
		return m, nil
	}))
	p.Deal(stone.New(0, 1, 2))

	assert.Equal(t, answers[1], p.DetermineMove(context.Background(), b, 0))
	require.Len(t, rejections, 2)
	assert.ErrorIs(t, rejections[1], ErrStoneNotInHand)
}

func TestCommitDraw(t *testing.T) {
	b := twos(t)
	p := New("alice", Greedy, WithLogger(quietLogger()))
	pl := pile.FromStones([]stone.Stone{stone.New(3, 3, 4)})

	turn := p.MakeMove(context.Background(), b, pl)
	require.True(t, turn.Move.IsDraw())
	require.NotNil(t, turn.Drawn)
	assert.True(t, turn.Drawn.Equal(stone.New(3, 3, 4)))
	assert.Equal(t, board.DrawPenalty, turn.Points)
	assert.Equal(t, -5, p.Score)
	assert.Equal(t, 1, p.HandSize())
	assert.True(t, pl.IsEmpty())

	turn = p.MakeMove(context.Background(), b, pl)
	assert.True(t, turn.Passed)
	assert.Zero(t, turn.Points)
	assert.Equal(t, -5, p.Score)
}

func TestInteractivePrompt(t *testing.T) {
	b := twos(t)
	want := board.Place(stone.New(2, 2, 2).Rotated(1), 1, 0)

	var seen View
	p := New("human", Interactive, WithPrompt(func(_ context.Context, v View) (board.Move, error) {
		seen = v
		return want, nil
	}))
	p.Deal(stone.New(2, 2, 2))

	m := p.DetermineMove(context.Background(), b, 12)
	assert.Equal(t, want, m)
	assert.Equal(t, "human", seen.Player)
	assert.Equal(t, 12, seen.PileSize)
	assert.Len(t, seen.Hand, 1)
	assert.Same(t, b, seen.Board)
}

func TestInteractiveRejectsIllegalMoves(t *testing.T) {
	b := twos(t)
	good := board.Place(stone.New(2, 2, 2).Rotated(1), 1, 0)
	answers := []board.Move{
		board.Place(stone.New(5, 5, 5).Rotated(1), 1, 0), // not held
		board.Place(stone.New(2, 2, 2), 1, 0),            // wrong orientation
		good,
	}

	var rejections []error
	calls := 0
	p := New("human", Interactive, WithLogger(quietLogger()), WithPrompt(func(_ context.Context, v View) (board.Move, error) {
		rejections = append(rejections, v.Rejected)
		m := answers[calls]
		calls++
		return m, nil
	}))
	p.Deal(stone.New(2, 2, 2))

	assert.Equal(t, good, p.DetermineMove(context.Background(), b, 0))
	require.Len(t, rejections, 3)
	assert.NoError(t, rejections[0])
	assert.ErrorIs(t, rejections[1], ErrStoneNotInHand)
	assert.ErrorIs(t, rejections[2], ErrIllegalMove)
}

func TestInteractiveGivesUpAfterRepeatedRejections(t *testing.T) {
	b := twos(t)
	calls := 0
	p := New("human", Interactive, WithLogger(quietLogger()), WithPrompt(func(context.Context, View) (board.Move, error) {
		calls++
		return board.Place(stone.New(0, 0, 0), 9, 9), nil
	}))
	p.Deal(stone.New(0, 0, 0))

	assert.True(t, p.DetermineMove(context.Background(), b, 0).IsDraw())
	assert.Equal(t, maxPromptAttempts, calls)
}

func TestInteractiveFallbacks(t *testing.T) {
	b := twos(t)

	noPrompt := New("human", Interactive, WithLogger(quietLogger()))
	assert.True(t, noPrompt.DetermineMove(context.Background(), b, 0).IsDraw())

	failing := New("human", Interactive, WithLogger(quietLogger()), WithPrompt(func(context.Context, View) (board.Move, error) {
		return board.Move{}, io.ErrUnexpectedEOF
	}))
	failing.Deal(stone.New(2, 2, 2))
	assert.True(t, failing.DetermineMove(context.Background(), b, 0).IsDraw())
}
