package game

import (
	"io"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/lox/triominos/internal/randutil"
)

// Defaults for a standard game.
const (
	DefaultHandSize    = 10
	DefaultTargetScore = 400
	DefaultMaxRounds   = 100
	DefaultMaxTurns    = 1000
)

// Option configures a Game during creation.
type Option func(*gameConfig)

type gameConfig struct {
	rng             *rand.Rand
	logger          *log.Logger
	id              string
	handSize        int
	targetScore     int
	maxRounds       int
	maxTurns        int
	roundBonus      bool
	checkInvariants bool
	onTurn          func(TurnEvent)
	onRound         func(RoundResult)
}

func defaultConfig() *gameConfig {
	return &gameConfig{
		logger:      log.New(io.Discard),
		handSize:    DefaultHandSize,
		targetScore: DefaultTargetScore,
		maxRounds:   DefaultMaxRounds,
		maxTurns:    DefaultMaxTurns,
	}
}

// WithRNG sets the random source used to shuffle every round's pile.
func WithRNG(rng *rand.Rand) Option {
	return func(c *gameConfig) {
		c.rng = rng
	}
}

// WithSeed is WithRNG(randutil.New(seed)).
func WithSeed(seed int64) Option {
	return WithRNG(randutil.New(seed))
}

// WithLogger sets the logger
func WithLogger(logger *log.Logger) Option {
	return func(c *gameConfig) {
		c.logger = logger
	}
}

// WithID sets the game id instead of generating one.
func WithID(id string) Option {
	return func(c *gameConfig) {
		c.id = id
	}
}

// WithHandSize sets how many stones each player is dealt.
func WithHandSize(n int) Option {
	return func(c *gameConfig) {
		c.handSize = n
	}
}

// WithTargetScore sets the score that ends the game.
func WithTargetScore(score int) Option {
	return func(c *gameConfig) {
		c.targetScore = score
	}
}

// WithLimits caps rounds per game and turns per round. Zero keeps the
// default.
func WithLimits(maxRounds, maxTurns int) Option {
	return func(c *gameConfig) {
		if maxRounds > 0 {
			c.maxRounds = maxRounds
		}
		if maxTurns > 0 {
			c.maxTurns = maxTurns
		}
	}
}

// WithRoundBonus awards the player who empties their hand RoundBonus plus
// the pips left in every other hand.
func WithRoundBonus(enabled bool) Option {
	return func(c *gameConfig) {
		c.roundBonus = enabled
	}
}

// WithInvariantChecks validates the stone partition after every turn.
func WithInvariantChecks(enabled bool) Option {
	return func(c *gameConfig) {
		c.checkInvariants = enabled
	}
}

// WithTurnObserver registers fn to be called after every turn.
func WithTurnObserver(fn func(TurnEvent)) Option {
	return func(c *gameConfig) {
		c.onTurn = fn
	}
}

// WithRoundObserver registers fn to be called after every finished round.
func WithRoundObserver(fn func(RoundResult)) Option {
	return func(c *gameConfig) {
		c.onRound = fn
	}
}
