package tournament

import (
	"fmt"
	"math"
)

// GameRecord is the outcome of one simulated game.
type GameRecord struct {
	Index     int            `json:"index"`
	Seed      int64          `json:"seed"`
	GameID    string         `json:"game_id"`
	Rounds    int            `json:"rounds"`
	Winner    string         `json:"winner"`
	Scores    map[string]int `json:"scores"`
	Truncated bool           `json:"truncated"`
}

// PlayerStats aggregates one entrant's results.
type PlayerStats struct {
	Name      string  `json:"name"`
	Strategy  string  `json:"strategy"`
	Games     int     `json:"games"`
	Wins      int     `json:"wins"`
	SumScore  float64 `json:"-"`
	SumScore2 float64 `json:"-"`
	MaxScore  int     `json:"max_score"`
}

// Mean returns the average final score
func (p *PlayerStats) Mean() float64 {
	if p.Games == 0 {
		return 0
	}
	return p.SumScore / float64(p.Games)
}

// StdDev returns the sample standard deviation of final scores
func (p *PlayerStats) StdDev() float64 {
	if p.Games < 2 {
		return 0
	}
	mean := p.Mean()
	variance := (p.SumScore2 - float64(p.Games)*mean*mean) / float64(p.Games-1)
	return math.Sqrt(max(variance, 0))
}

// WinRate returns the fraction of games won
func (p *PlayerStats) WinRate() float64 {
	if p.Games == 0 {
		return 0
	}
	return float64(p.Wins) / float64(p.Games)
}

func (p *PlayerStats) add(score int, won bool) {
	p.Games++
	p.SumScore += float64(score)
	p.SumScore2 += float64(score) * float64(score)
	if p.Games == 1 || score > p.MaxScore {
		p.MaxScore = score
	}
	if won {
		p.Wins++
	}
}

// Summary is the aggregate of a tournament.
type Summary struct {
	Seed      int64          `json:"seed"`
	Games     int            `json:"games"`
	Rounds    int            `json:"rounds"`
	Truncated int            `json:"truncated"`
	Players   []*PlayerStats `json:"players"`
	Records   []GameRecord   `json:"records"`
}

// MeanRounds returns the average number of rounds per game
func (s *Summary) MeanRounds() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Rounds) / float64(s.Games)
}

// Add folds a game record into the summary.
func (s *Summary) Add(record GameRecord) {
	s.Games++
	s.Rounds += record.Rounds
	if record.Truncated {
		s.Truncated++
	}
	for _, p := range s.Players {
		score, ok := record.Scores[p.Name]
		if !ok {
			continue
		}
		p.add(score, record.Winner == p.Name)
	}
	s.Records = append(s.Records, record)
}

// Validate checks that every game produced exactly one winner and that
// every entrant played every game.
func (s *Summary) Validate() error {
	wins := 0
	for _, p := range s.Players {
		if p.Games != s.Games {
			return fmt.Errorf("%s played %d of %d games", p.Name, p.Games, s.Games)
		}
		wins += p.Wins
	}
	if wins != s.Games {
		return fmt.Errorf("%d wins recorded for %d games", wins, s.Games)
	}
	return nil
}
