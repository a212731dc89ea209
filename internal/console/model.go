package console

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lox/triominos/internal/board"
	"github.com/lox/triominos/internal/player"
)

// ErrQuit is returned to a waiting prompt when the player leaves the
// terminal.
var ErrQuit = errors.New("player quit")

const usage = `moves:
  <stone#> <turns> <x> <y>   place a hand stone after turning it clockwise
  draw                       draw from the pile
  open                       list open fields
  hint                       suggest the best placement
  help                       show this text`

// promptMsg asks the model for a move on behalf of a waiting Prompt call.
type promptMsg struct {
	id   int
	view player.View
}

// cancelMsg withdraws request id once its caller stopped waiting.
type cancelMsg struct{ id int }

// logMsg appends a line to the game log.
type logMsg string

type answer struct {
	id   int
	move board.Move
	err  error
}

// Model is the bubbletea model behind Terminal. It shows the pending
// request, a scrolling game log and an input line. Lines entered while no
// request is pending are kept and applied to the next one.
type Model struct {
	render *Renderer

	log   viewport.Model
	input textinput.Model
	lines []string

	pending *promptMsg
	queued  []string
	status  string
	answers chan answer
}

// NewModel creates a model drawing with render.
func NewModel(render *Renderer) *Model {
	ti := textinput.New()
	ti.Placeholder = "help"
	ti.Focus()
	ti.CharLimit = 40
	ti.Width = 40
	ti.Prompt = "move> "
	ti.PromptStyle = render.styles.Open.Bold(true)
	ti.TextStyle = render.styles.Stone

	return &Model{
		render:  render,
		log:     viewport.New(80, 6),
		input:   ti,
		answers: make(chan answer, 1),
	}
}

// Init starts the cursor blinking
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages from the program and from Terminal.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.log.Width = msg.Width
		m.log.Height = max(3, msg.Height/4)
		m.input.Width = max(10, msg.Width-len(m.input.Prompt)-2)
		m.log.GotoBottom()
		return m, nil

	case promptMsg:
		m.pending = &msg
		m.status = ""
		for len(m.queued) > 0 && m.pending != nil {
			line := m.queued[0]
			m.queued = m.queued[1:]
			m.submit(line)
		}
		return m, nil

	case cancelMsg:
		if m.pending != nil && m.pending.id == msg.id {
			m.pending = nil
			m.status = "out of time, drawing"
		}
		return m, nil

	case logMsg:
		m.addLine(string(msg))
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			if m.pending != nil {
				m.reply(board.Move{}, ErrQuit)
			}
			return m, tea.Quit
		case tea.KeyEnter:
			line := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if m.pending == nil {
				if line != "" {
					m.queued = append(m.queued, line)
				}
				return m, nil
			}
			m.submit(line)
			return m, nil
		case tea.KeyPgUp, tea.KeyPgDown:
			m.log, cmd = m.log.Update(msg)
			return m, cmd
		}
	}

	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit handles one entered line for the pending request.
func (m *Model) submit(line string) {
	view := m.pending.view

	switch strings.ToLower(line) {
	case "":
		return
	case "help", "?":
		m.status = usage
		return
	case "open":
		m.status = m.openFields(view)
		return
	case "hint":
		if mv, points, ok := player.Best(view.Board, view.Hand); ok {
			m.status = fmt.Sprintf("try %s for %d", mv, points)
		} else {
			m.status = "no stone fits, draw"
		}
		return
	}

	mv, err := ParseMove(line, view.Hand)
	if err != nil {
		m.status = m.render.styles.Error.Render(err.Error())
		return
	}
	m.reply(mv, nil)
}

func (m *Model) reply(mv board.Move, err error) {
	m.answers <- answer{id: m.pending.id, move: mv, err: err}
	m.pending = nil
	m.status = ""
}

func (m *Model) openFields(view player.View) string {
	if view.Board.IsEmpty() {
		return "the first stone goes anywhere, try 0 0"
	}
	var sb strings.Builder
	for i, f := range view.Board.OpenFields() {
		if i > 0 {
			sb.WriteString("  ")
		}
		fmt.Fprintf(&sb, "%s%s", f.At, f.Orientation)
	}
	return sb.String()
}

func (m *Model) addLine(line string) {
	m.lines = append(m.lines, line)
	m.log.SetContent(strings.Join(m.lines, "\n"))
	m.log.GotoBottom()
}

// View renders the pending request above the log and the input line.
func (m *Model) View() string {
	var sb strings.Builder

	if m.pending != nil {
		sb.WriteString(m.render.View(m.pending.view))
	} else {
		sb.WriteString(m.render.styles.Axis.Render("waiting for the other players"))
	}
	sb.WriteString("\n\n")
	sb.WriteString(m.log.View())
	sb.WriteString("\n")
	if m.status != "" {
		sb.WriteString(m.status)
		sb.WriteString("\n")
	}
	sb.WriteString(m.input.View())
	sb.WriteString("\n")
	sb.WriteString(m.render.styles.Axis.Render("enter to submit • pgup/pgdn scroll the log • ctrl+c to quit"))
	return sb.String()
}
