// Package game runs rounds of play: dealing, choosing who starts, the turn
// loop, and deciding when a round and the whole game are over.
package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/lox/triominos/internal/board"
	"github.com/lox/triominos/internal/gameid"
	"github.com/lox/triominos/internal/pile"
	"github.com/lox/triominos/internal/player"
	"github.com/lox/triominos/internal/randutil"
	"github.com/lox/triominos/internal/stone"
)

// RoundBonus is the base bonus for emptying a hand when round bonuses are
// enabled.
const RoundBonus = 25

var (
	ErrTooFewPlayers = errors.New("at least 2 players required")
	ErrTooManyStones = errors.New("not enough stones to deal every hand")
	ErrInvariant     = errors.New("stone partition violated")
)

// TurnEvent is passed to turn observers.
type TurnEvent struct {
	GameID string
	Round  int
	Turn   player.Turn
}

// RoundResult summarises a finished round.
type RoundResult struct {
	Round     int
	Turns     int
	EmptyHand string // player who emptied their hand, if any
	Bonus     int
	Blocked   bool // pile empty and nobody could move
	Truncated bool
	Scores    []Score
}

// Score is one player's total at a point in time.
type Score struct {
	Player string
	Score  int
}

// Result summarises a whole game.
type Result struct {
	GameID    string
	Rounds    []RoundResult
	Scores    []Score
	Winner    string
	Truncated bool
}

// Game owns the board, the pile and the players for its whole lifetime.
// It is driven from a single goroutine.
type Game struct {
	ID      string
	Players []*player.Player
	Board   *board.Board
	Pile    *pile.Pile
	Round   int

	current int
	cfg     *gameConfig
	logger  *log.Logger
}

// New creates a game and deals the first round.
func New(players []*player.Player, opts ...Option) (*Game, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if len(players) < 2 {
		return nil, fmt.Errorf("%d players: %w", len(players), ErrTooFewPlayers)
	}
	if cfg.handSize < 1 || len(players)*cfg.handSize > stone.Count {
		return nil, fmt.Errorf("%d players with %d stones each: %w", len(players), cfg.handSize, ErrTooManyStones)
	}
	if cfg.rng == nil {
		cfg.rng = randutil.New(randutil.TimeSeed())
	}
	if cfg.id == "" {
		cfg.id = gameid.NewGenerator(nil, cfg.rng).Generate()
	}

	g := &Game{
		ID:      cfg.id,
		Players: players,
		cfg:     cfg,
		logger:  cfg.logger.With("game", cfg.id),
	}
	g.Initialize()
	return g, nil
}

// Initialize starts a new round: a fresh board and pile, every hand reset
// and dealt in seat order. Scores carry over.
func (g *Game) Initialize() {
	g.Round++
	g.Board = board.New()
	g.Pile = pile.New(g.cfg.rng)

	for _, p := range g.Players {
		p.ResetHand()
	}
	for _, p := range g.Players {
		p.Deal(g.Pile.DrawN(g.cfg.handSize)...)
	}

	g.current = g.FirstPlayer()
	g.logger.Debug("round dealt",
		"round", g.Round,
		"hand_size", g.cfg.handSize,
		"pile", g.Pile.Len(),
		"first", g.Players[g.current].Name)
}

// FirstPlayer returns the seat that opens the round: the holder of the
// highest triple, or failing that the holder of the highest stone. Ties go
// to the earlier seat.
func (g *Game) FirstPlayer() int {
	first, best := -1, -1
	for i, p := range g.Players {
		if s, ok := p.HighestTriple(); ok && s.Sum() > best {
			first, best = i, s.Sum()
		}
	}
	if first >= 0 {
		return first
	}

	first = 0
	for i, p := range g.Players {
		if s, ok := p.HighestStone(); ok && s.Sum() > best {
			first, best = i, s.Sum()
		}
	}
	return first
}

// Current returns the player whose turn it is
func (g *Game) Current() *player.Player {
	return g.Players[g.current]
}

// PlayTurn lets the current player move and passes the turn on.
func (g *Game) PlayTurn(ctx context.Context) (player.Turn, error) {
	if err := ctx.Err(); err != nil {
		return player.Turn{}, err
	}

	p := g.Current()
	turn := p.MakeMove(ctx, g.Board, g.Pile)
	g.current = (g.current + 1) % len(g.Players)

	if turn.Err != nil {
		g.logger.Warn("turn forfeited", "player", p.Name, "error", turn.Err)
	}

	if g.cfg.checkInvariants {
		if err := g.ValidateInvariants(); err != nil {
			return turn, err
		}
	}

	if g.cfg.onTurn != nil {
		g.cfg.onTurn(TurnEvent{GameID: g.ID, Round: g.Round, Turn: turn})
	}
	return turn, nil
}

// CanMove reports whether any player holds a stone with a legal placement.
func (g *Game) CanMove() bool {
	for _, p := range g.Players {
		if p.CanMove(g.Board) {
			return true
		}
	}
	return false
}

// RoundFinished reports whether some hand is empty, or the pile is empty
// and nobody can place a stone.
func (g *Game) RoundFinished() bool {
	if g.emptyHand() != nil {
		return true
	}
	return g.Pile.IsEmpty() && !g.CanMove()
}

func (g *Game) emptyHand() *player.Player {
	for _, p := range g.Players {
		if p.HandSize() == 0 {
			return p
		}
	}
	return nil
}

// Finished reports whether the round is over and someone reached the
// target score.
func (g *Game) Finished() bool {
	if !g.RoundFinished() {
		return false
	}
	for _, p := range g.Players {
		if p.Score >= g.cfg.targetScore {
			return true
		}
	}
	return false
}

// Winner returns the player with the highest score, the earlier seat on
// ties.
func (g *Game) Winner() *player.Player {
	winner := g.Players[0]
	for _, p := range g.Players[1:] {
		if p.Score > winner.Score {
			winner = p
		}
	}
	return winner
}

// Scores returns every player's score in seat order
func (g *Game) Scores() []Score {
	scores := make([]Score, len(g.Players))
	for i, p := range g.Players {
		scores[i] = Score{Player: p.Name, Score: p.Score}
	}
	return scores
}

// PlayRound plays turns until the current round is finished.
func (g *Game) PlayRound(ctx context.Context) (RoundResult, error) {
	result := RoundResult{Round: g.Round}

	for !g.RoundFinished() {
		if result.Turns >= g.cfg.maxTurns {
			g.logger.Warn("turn limit reached, ending round", "round", g.Round, "turns", result.Turns)
			result.Truncated = true
			break
		}
		if _, err := g.PlayTurn(ctx); err != nil {
			return result, fmt.Errorf("round %d turn %d: %w", g.Round, result.Turns+1, err)
		}
		result.Turns++
	}

	if p := g.emptyHand(); p != nil {
		result.EmptyHand = p.Name
		if g.cfg.roundBonus {
			result.Bonus = g.awardRoundBonus(p)
		}
	} else if !result.Truncated {
		result.Blocked = true
	}

	result.Scores = g.Scores()
	g.logger.Info("round finished",
		"round", g.Round,
		"turns", result.Turns,
		"empty_hand", result.EmptyHand,
		"blocked", result.Blocked,
		"leader", g.Winner().Name)

	if g.cfg.onRound != nil {
		g.cfg.onRound(result)
	}
	return result, nil
}

func (g *Game) awardRoundBonus(winner *player.Player) int {
	bonus := RoundBonus
	for _, p := range g.Players {
		if p != winner {
			bonus += p.HandSum()
		}
	}
	winner.Score += bonus
	g.logger.Debug("round bonus", "player", winner.Name, "bonus", bonus)
	return bonus
}

// Play runs rounds until the game is finished or the round limit is hit.
func (g *Game) Play(ctx context.Context) (*Result, error) {
	result := &Result{GameID: g.ID}

	for {
		round, err := g.PlayRound(ctx)
		result.Rounds = append(result.Rounds, round)
		if err != nil {
			return result, err
		}
		if round.Truncated {
			result.Truncated = true
			break
		}
		if g.Finished() {
			break
		}
		if g.Round >= g.cfg.maxRounds {
			g.logger.Warn("round limit reached, ending game", "rounds", g.Round)
			result.Truncated = true
			break
		}
		g.Initialize()
	}

	result.Scores = g.Scores()
	result.Winner = g.Winner().Name
	g.logger.Info("game finished", "rounds", g.Round, "winner", result.Winner, "truncated", result.Truncated)
	return result, nil
}

// ValidateInvariants checks that the board, the hands and the pile together
// hold every stone of the set exactly once.
func (g *Game) ValidateInvariants() error {
	seen := make(map[stone.Key]string, stone.Count)
	add := func(s stone.Stone, where string) error {
		if !s.Valid() {
			return fmt.Errorf("%w: invalid stone %s in %s", ErrInvariant, s, where)
		}
		if prev, dup := seen[s.Key()]; dup {
			return fmt.Errorf("%w: stone %v in both %s and %s", ErrInvariant, s.Key(), prev, where)
		}
		seen[s.Key()] = where
		return nil
	}

	for _, s := range g.Board.Stones() {
		if err := add(s, "board"); err != nil {
			return err
		}
	}
	for _, p := range g.Players {
		for _, s := range p.Hand() {
			if err := add(s, "hand of "+p.Name); err != nil {
				return err
			}
		}
	}
	for _, s := range g.Pile.Stones() {
		if err := add(s, "pile"); err != nil {
			return err
		}
	}

	if len(seen) != stone.Count {
		return fmt.Errorf("%w: %d stones accounted for, want %d", ErrInvariant, len(seen), stone.Count)
	}
	return nil
}
