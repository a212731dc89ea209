// Package console draws the game as text and reads moves typed by a human
// player.
package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/lox/triominos/internal/board"
	"github.com/lox/triominos/internal/game"
	"github.com/lox/triominos/internal/player"
	"github.com/lox/triominos/internal/stone"
	"github.com/lox/triominos/internal/tournament"
	"github.com/muesli/termenv"
)

const cellWidth = 9

// Styles holds the text styles used by the renderer.
type Styles struct {
	Header  lipgloss.Style
	Axis    lipgloss.Style
	Stone   lipgloss.Style
	Triple  lipgloss.Style
	Open    lipgloss.Style
	Empty   lipgloss.Style
	Points  lipgloss.Style
	Penalty lipgloss.Style
	Error   lipgloss.Style
	Cell    lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) Styles {
	cell := r.NewStyle().Width(cellWidth).Align(lipgloss.Center)
	return Styles{
		Header: r.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true).
			Padding(0, 1),
		Axis:    r.NewStyle().Foreground(lipgloss.Color("#626262")),
		Stone:   r.NewStyle().Foreground(lipgloss.Color("#FAFAFA")),
		Triple:  r.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true),
		Open:    r.NewStyle().Foreground(lipgloss.Color("#04B575")),
		Empty:   r.NewStyle().Foreground(lipgloss.Color("#3C3C3C")),
		Points:  r.NewStyle().Foreground(lipgloss.Color("#96CEB4")).Bold(true),
		Penalty: r.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
		Error:   r.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
		Cell:    cell,
	}
}

// Renderer turns game state into printable text.
type Renderer struct {
	lg     *lipgloss.Renderer
	styles Styles
}

// NewRenderer creates a renderer for w. With color false every style renders
// as plain text.
func NewRenderer(w io.Writer, color bool) *Renderer {
	lg := lipgloss.NewRenderer(w)
	if !color {
		lg.SetColorProfile(termenv.Ascii)
	}
	return &Renderer{lg: lg, styles: newStyles(lg)}
}

// Board draws the occupied cells and the open fields around them, top row
// first.
func (r *Renderer) Board(b *board.Board) string {
	if b.IsEmpty() {
		return r.styles.Open.Render("empty board, any stone may be placed at (0,0)")
	}

	cells := make(map[board.Coord]stone.Stone, b.Len())
	minX, maxX, minY, maxY := 0, 0, 0, 0
	first := true
	grow := func(c board.Coord) {
		if first {
			minX, maxX, minY, maxY = c.X, c.X, c.Y, c.Y
			first = false
			return
		}
		minX, maxX = min(minX, c.X), max(maxX, c.X)
		minY, maxY = min(minY, c.Y), max(maxY, c.Y)
	}
	for _, c := range b.Cells() {
		cells[c.At] = c.Stone
		grow(c.At)
	}
	open := make(map[board.Coord]stone.Orientation)
	for _, f := range b.OpenFields() {
		open[f.At] = f.Orientation
		grow(f.At)
	}

	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", 5))
	for x := minX; x <= maxX; x++ {
		sb.WriteString(r.styles.Cell.Inherit(r.styles.Axis).Render(strconv.Itoa(x)))
	}
	sb.WriteByte('\n')

	for y := maxY; y >= minY; y-- {
		sb.WriteString(r.styles.Axis.Render(fmt.Sprintf("%4d ", y)))
		for x := minX; x <= maxX; x++ {
			c := board.Coord{X: x, Y: y}
			var text string
			switch s, placed := cells[c]; {
			case placed && s.IsTriple():
				text = r.styles.Triple.Render(s.String())
			case placed:
				text = r.styles.Stone.Render(s.String())
			default:
				if o, ok := open[c]; ok {
					text = r.styles.Open.Render("[" + o.String() + "]")
				} else {
					text = r.styles.Empty.Render("·")
				}
			}
			sb.WriteString(r.styles.Cell.Render(text))
		}
		sb.WriteByte('\n')
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Hand lists the stones numbered from 1, the numbering ParseMove expects.
func (r *Renderer) Hand(hand []stone.Stone) string {
	parts := make([]string, len(hand))
	for i, s := range hand {
		style := r.styles.Stone
		if s.IsTriple() {
			style = r.styles.Triple
		}
		parts[i] = fmt.Sprintf("%d:%s", i+1, style.Render(s.String()))
	}
	return strings.Join(parts, "  ")
}

// View draws everything an interactive player needs to choose a move.
func (r *Renderer) View(v player.View) string {
	var sb strings.Builder
	sb.WriteString(r.styles.Header.Render(fmt.Sprintf("%s  score %d  pile %d", v.Player, v.Score, v.PileSize)))
	sb.WriteString("\n\n")
	sb.WriteString(r.Board(v.Board))
	sb.WriteString("\n\nhand: ")
	sb.WriteString(r.Hand(v.Hand))
	if v.Rejected != nil {
		sb.WriteString("\n")
		sb.WriteString(r.styles.Error.Render("rejected: " + v.Rejected.Error()))
	}
	return sb.String()
}

// Turn describes a finished turn in one line.
func (r *Renderer) Turn(ev game.TurnEvent) string {
	t := ev.Turn
	switch {
	case t.Err != nil:
		return fmt.Sprintf("%s lost the turn: %s", t.Player, r.styles.Error.Render(t.Err.Error()))
	case t.Passed:
		return fmt.Sprintf("%s passed, the pile is empty", t.Player)
	case t.Move.IsDraw():
		return fmt.Sprintf("%s drew a stone %s", t.Player, r.styles.Penalty.Render(fmt.Sprintf("(%+d)", t.Points)))
	default:
		return fmt.Sprintf("%s placed %s at %s %s", t.Player, t.Move.Stone, t.Move.At,
			r.styles.Points.Render(fmt.Sprintf("(%+d)", t.Points)))
	}
}

// Round summarizes a finished round.
func (r *Renderer) Round(rr game.RoundResult) string {
	var how string
	switch {
	case rr.Truncated:
		how = "stopped at the turn limit"
	case rr.Blocked:
		how = "blocked, nobody can move"
	default:
		how = rr.EmptyHand + " emptied their hand"
		if rr.Bonus > 0 {
			how += fmt.Sprintf(" (+%d bonus)", rr.Bonus)
		}
	}
	header := r.styles.Header.Render(fmt.Sprintf("round %d: %s after %d turns", rr.Round, how, rr.Turns))
	return header + "\n" + r.Scores(rr.Scores)
}

// Scores renders a score table in seat order.
func (r *Renderer) Scores(scores []game.Score) string {
	t := r.table("player", "score")
	for _, s := range scores {
		t.Row(s.Player, strconv.Itoa(s.Score))
	}
	return t.String()
}

// Summary renders tournament statistics.
func (r *Renderer) Summary(s *tournament.Summary) string {
	t := r.table("player", "strategy", "games", "wins", "win rate", "mean", "stddev", "max")
	for _, p := range s.Players {
		t.Row(
			p.Name,
			p.Strategy,
			strconv.Itoa(p.Games),
			strconv.Itoa(p.Wins),
			fmt.Sprintf("%.1f%%", 100*p.WinRate()),
			fmt.Sprintf("%.1f", p.Mean()),
			fmt.Sprintf("%.1f", p.StdDev()),
			strconv.Itoa(p.MaxScore),
		)
	}
	footer := fmt.Sprintf("%d games, %.1f rounds per game", s.Games, s.MeanRounds())
	if s.Truncated > 0 {
		footer += r.styles.Penalty.Render(fmt.Sprintf(", %d truncated", s.Truncated))
	}
	return t.String() + "\n" + footer
}

func (r *Renderer) table(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.styles.Axis).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return r.lg.NewStyle().Bold(true).Padding(0, 1)
			}
			return r.lg.NewStyle().Padding(0, 1)
		})
}
