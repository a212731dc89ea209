// Package player holds a player's hand and score and decides moves for it
// according to its Strategy.
package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/lox/triominos/internal/board"
	"github.com/lox/triominos/internal/pile"
	"github.com/lox/triominos/internal/stone"
)

// maxPromptAttempts bounds how often an interactive player is asked again
// after proposing an illegal move.
const maxPromptAttempts = 3

var (
	// ErrStoneNotInHand is returned for placements of stones the player
	// does not hold.
	ErrStoneNotInHand = errors.New("stone is not in hand")
	// ErrIllegalMove is returned for placements the board rejects.
	ErrIllegalMove = errors.New("placement is not legal")
)

// View is the read-only state handed to an interactive prompt.
type View struct {
	Player   string
	Score    int
	Hand     []stone.Stone
	Board    *board.Board
	PileSize int
	// Rejected carries the reason the previous answer was refused.
	Rejected error
}

// Prompt asks an outside actor for a move. It blocks until a move is
// chosen, ctx is done, or the actor fails.
type Prompt func(ctx context.Context, view View) (board.Move, error)

// Turn records what happened when a player moved.
type Turn struct {
	Player string
	Move   board.Move
	Points int
	// Drawn is set when the player took a stone from the pile.
	Drawn  *stone.Stone
	Passed bool
	Err    error
}

// Player is a participant with a private hand and a running score.
type Player struct {
	Name     string
	Strategy Strategy
	Score    int

	hand   []stone.Stone
	prompt Prompt
	logger *log.Logger
}

// Option configures a Player.
type Option func(*Player)

// WithPrompt sets the prompt used by interactive players
func WithPrompt(prompt Prompt) Option {
	return func(p *Player) {
		p.prompt = prompt
	}
}

// WithLogger sets the player's logger
func WithLogger(logger *log.Logger) Option {
	return func(p *Player) {
		p.logger = logger
	}
}

// New creates a player with an empty hand.
func New(name string, strategy Strategy, opts ...Option) *Player {
	p := &Player{
		Name:     name,
		Strategy: strategy,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Hand returns a copy of the stones held
func (p *Player) Hand() []stone.Stone {
	return slices.Clone(p.hand)
}

// HandSize returns the number of stones held
func (p *Player) HandSize() int { return len(p.hand) }

// HandSum returns the pip total of the hand
func (p *Player) HandSum() int {
	sum := 0
	for _, s := range p.hand {
		sum += s.Sum()
	}
	return sum
}

// Deal adds stones to the hand
func (p *Player) Deal(stones ...stone.Stone) {
	p.hand = append(p.hand, stones...)
}

// ResetHand empties the hand
func (p *Player) ResetHand() {
	p.hand = nil
}

// Has reports whether the hand holds the stone identified by key
func (p *Player) Has(key stone.Key) bool {
	return slices.ContainsFunc(p.hand, func(s stone.Stone) bool { return s.Key() == key })
}

// Holds reports whether s is a held stone in one of its six rotation
// states. Mirror images of a held stone do not count.
func (p *Player) Holds(s stone.Stone) bool {
	for _, held := range p.hand {
		if held.Key() != s.Key() {
			continue
		}
		for i := range rotations {
			if held.Rotated(i).Equal(s) {
				return true
			}
		}
	}
	return false
}

// Remove takes the stone identified by key out of the hand.
func (p *Player) Remove(key stone.Key) (stone.Stone, bool) {
	i := slices.IndexFunc(p.hand, func(s stone.Stone) bool { return s.Key() == key })
	if i < 0 {
		return stone.Stone{}, false
	}
	s := p.hand[i]
	p.hand = slices.Delete(p.hand, i, i+1)
	return s, true
}

// HighestTriple returns the triple with the largest sum in hand.
func (p *Player) HighestTriple() (stone.Stone, bool) {
	return p.highest(stone.Stone.IsTriple)
}

// HighestStone returns the stone with the largest sum in hand.
func (p *Player) HighestStone() (stone.Stone, bool) {
	return p.highest(func(stone.Stone) bool { return true })
}

func (p *Player) highest(include func(stone.Stone) bool) (best stone.Stone, ok bool) {
	for _, s := range p.hand {
		if include(s) && (!ok || s.Sum() > best.Sum()) {
			best, ok = s, true
		}
	}
	return best, ok
}

// CanMove reports whether any stone in hand has a legal placement
func (p *Player) CanMove(b *board.Board) bool {
	return HasLegalMove(b, p.hand)
}

// DetermineMove decides the next move on b without changing any state.
func (p *Player) DetermineMove(ctx context.Context, b *board.Board, pileSize int) board.Move {
	switch p.Strategy {
	case Interactive:
		return p.ask(ctx, b, pileSize)
	case Greedy:
		if m, ok := FirstValid(b, p.hand); ok {
			return m
		}
		return board.Draw()
	case Maximizing:
		if m, _, ok := Best(b, p.hand); ok {
			return m
		}
		return board.Draw()
	default:
		p.logger.Error("unknown strategy, drawing", "player", p.Name, "strategy", p.Strategy)
		return board.Draw()
	}
}

func (p *Player) ask(ctx context.Context, b *board.Board, pileSize int) board.Move {
	if p.prompt == nil {
		p.logger.Warn("no prompt available, drawing", "player", p.Name)
		return board.Draw()
	}

	view := View{
		Player:   p.Name,
		Score:    p.Score,
		Board:    b,
		PileSize: pileSize,
	}

	for attempt := 1; attempt <= maxPromptAttempts; attempt++ {
		view.Hand = p.Hand()

		m, err := p.prompt(ctx, view)
		if err != nil {
			p.logger.Warn("prompt failed, drawing", "player", p.Name, "error", err)
			return board.Draw()
		}

		if err := p.check(b, m); err != nil {
			p.logger.Info("move rejected", "player", p.Name, "move", m, "attempt", attempt, "error", err)
			view.Rejected = err
			continue
		}
		return m
	}

	p.logger.Warn("too many rejected moves, drawing", "player", p.Name)
	return board.Draw()
}

// check validates a move proposed from outside.
func (p *Player) check(b *board.Board, m board.Move) error {
	if m.IsDraw() {
		return nil
	}
	if !p.Holds(m.Stone) {
		return fmt.Errorf("%s: %w", m.Stone, ErrStoneNotInHand)
	}
	if !b.IsValidMove(m.Stone, m.At.X, m.At.Y) {
		return fmt.Errorf("%s: %w", m, ErrIllegalMove)
	}
	return nil
}

// MakeMove decides a move and commits it.
func (p *Player) MakeMove(ctx context.Context, b *board.Board, pl *pile.Pile) Turn {
	return p.Commit(b, pl, p.DetermineMove(ctx, b, pl.Len()))
}

// Commit applies m. A draw moves a stone from the pile into the hand and
// costs the draw penalty; with an empty pile the turn is a pass. A
// placement is scored before it is placed. A failed placement consumes the
// turn with no points.
func (p *Player) Commit(b *board.Board, pl *pile.Pile, m board.Move) Turn {
	turn := Turn{Player: p.Name, Move: m}

	if m.IsDraw() {
		s, ok := pl.Draw()
		if !ok {
			turn.Passed = true
			p.logger.Debug("pile empty, passing", "player", p.Name)
			return turn
		}
		p.hand = append(p.hand, s)
		turn.Drawn = &s
		turn.Points = b.DeterminePoints(m)
		p.Score += turn.Points
		p.logger.Debug("drew stone", "player", p.Name, "stone", s, "points", turn.Points)
		return turn
	}

	if !p.Holds(m.Stone) {
		turn.Err = fmt.Errorf("%s: %w", m.Stone, ErrStoneNotInHand)
		p.logger.Warn("turn lost", "player", p.Name, "error", turn.Err)
		return turn
	}

	points := b.DeterminePoints(m)
	if err := b.PlaceStone(m); err != nil {
		turn.Err = err
		p.logger.Warn("placement failed, turn scores zero", "player", p.Name, "move", m, "error", err)
		return turn
	}

	p.Remove(m.Stone.Key())
	turn.Points = points
	p.Score += points
	p.logger.Debug("stone placed",
		"player", p.Name,
		"stone", m.Stone,
		"x", m.At.X,
		"y", m.At.Y,
		"points", points)

	return turn
}
