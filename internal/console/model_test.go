package console

import (
	"context"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lox/triominos/internal/board"
	"github.com/lox/triominos/internal/player"
	"github.com/lox/triominos/internal/stone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeLine(m *Model, line string) tea.Cmd {
	for _, r := range line {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return cmd
}

func answered(t *testing.T, m *Model) (answer, bool) {
	t.Helper()
	select {
	case a := <-m.answers:
		return a, true
	default:
		return answer{}, false
	}
}

func twosView() player.View {
	return player.View{
		Player:   "ann",
		Score:    7,
		Hand:     []stone.Stone{stone.New(2, 2, 2)},
		Board:    board.New(),
		PileSize: 20,
	}
}

func TestModelAnswersPendingPrompt(t *testing.T) {
	m := NewModel(NewRenderer(io.Discard, false))
	m.Update(promptMsg{id: 1, view: twosView()})

	view := m.View()
	assert.Contains(t, view, "ann")
	assert.Contains(t, view, "empty board")
	assert.Contains(t, view, "1:2-2-2▼")

	typeLine(m, "help")
	assert.Contains(t, m.View(), "moves:")

	typeLine(m, "nonsense")
	assert.Contains(t, m.View(), ErrBadInput.Error())

	typeLine(m, "hint")
	assert.Contains(t, m.View(), "try place 2-2-2▼ at (0,0)")

	typeLine(m, "open")
	assert.Contains(t, m.View(), "the first stone goes anywhere")

	_, ok := answered(t, m)
	require.False(t, ok, "commands do not answer the prompt")

	typeLine(m, "1 1 0 0")
	a, ok := answered(t, m)
	require.True(t, ok)
	assert.Equal(t, 1, a.id)
	require.NoError(t, a.err)
	assert.Equal(t, board.Place(stone.New(2, 2, 2).Rotated(1), 0, 0), a.move)
	assert.Contains(t, m.View(), "waiting for the other players")
}

func TestModelQueuesEarlyInput(t *testing.T) {
	m := NewModel(NewRenderer(io.Discard, false))

	typeLine(m, "draw")
	_, ok := answered(t, m)
	require.False(t, ok)

	m.Update(promptMsg{id: 4, view: twosView()})
	a, ok := answered(t, m)
	require.True(t, ok)
	assert.Equal(t, 4, a.id)
	assert.True(t, a.move.IsDraw())
}

func TestModelCancel(t *testing.T) {
	m := NewModel(NewRenderer(io.Discard, false))
	m.Update(promptMsg{id: 2, view: twosView()})

	m.Update(cancelMsg{id: 1})
	assert.Contains(t, m.View(), "ann", "stale cancels are ignored")

	m.Update(cancelMsg{id: 2})
	assert.Contains(t, m.View(), "out of time")

	typeLine(m, "draw")
	_, ok := answered(t, m)
	assert.False(t, ok, "nothing is pending after a cancel")
}

func TestModelQuit(t *testing.T) {
	m := NewModel(NewRenderer(io.Discard, false))
	m.Update(promptMsg{id: 1, view: twosView()})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	a, ok := answered(t, m)
	require.True(t, ok)
	assert.ErrorIs(t, a.err, ErrQuit)
}

func TestModelLog(t *testing.T) {
	m := NewModel(NewRenderer(io.Discard, false))
	m.Update(logMsg("bob drew a stone (-5)"))
	m.Update(logMsg("ann placed 2-2-2▼ at (0,0) (+16)"))

	view := m.View()
	assert.Contains(t, view, "bob drew a stone")
	assert.Contains(t, view, "ann placed")
}

func newTestTerminal(t *testing.T) *Terminal {
	t.Helper()
	term := NewTerminal(nil, io.Discard, NewRenderer(io.Discard, false), tea.WithoutSignalHandler())
	term.Start()
	t.Cleanup(func() { _ = term.Close() })
	return term
}

func sendLine(term *Terminal, line string) {
	for _, r := range line {
		term.program.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	term.program.Send(tea.KeyMsg{Type: tea.KeyEnter})
}

func TestTerminalPrompt(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	term := newTestTerminal(t)
	sendLine(term, "1 0 0 0")

	view := twosView()
	m, err := term.Prompt(ctx, view)
	require.NoError(t, err)
	assert.Equal(t, board.Place(stone.New(2, 2, 2), 0, 0), m)

	sendLine(term, "draw")
	m, err = term.Prompt(ctx, view)
	require.NoError(t, err)
	assert.True(t, m.IsDraw())
}

func TestTerminalPromptCancelled(t *testing.T) {
	term := newTestTerminal(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := term.Prompt(ctx, twosView())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTerminalPromptAfterQuit(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	term := newTestTerminal(t)
	term.program.Send(tea.KeyMsg{Type: tea.KeyCtrlC})

	select {
	case <-term.Done():
	case <-ctx.Done():
		t.Fatal("program did not exit")
	}

	_, err := term.Prompt(ctx, twosView())
	assert.ErrorIs(t, err, ErrQuit)
}
