package console

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lox/triominos/internal/board"
	"github.com/lox/triominos/internal/player"
)

// Terminal runs a bubbletea program that human players answer prompts in.
// Prompt is called from the game goroutine and blocks until the program
// hands back a move.
type Terminal struct {
	model   *Model
	program *tea.Program
	done    chan struct{}
	err     error
	nextID  int
}

// NewTerminal creates a terminal reading keys from in and drawing to out.
// Start must be called before Prompt.
func NewTerminal(in io.Reader, out io.Writer, render *Renderer, opts ...tea.ProgramOption) *Terminal {
	model := NewModel(render)
	opts = append([]tea.ProgramOption{tea.WithInput(in), tea.WithOutput(out)}, opts...)

	return &Terminal{
		model:   model,
		program: tea.NewProgram(model, opts...),
		done:    make(chan struct{}),
	}
}

// Start runs the program in the background
func (t *Terminal) Start() {
	go func() {
		defer close(t.done)
		_, t.err = t.program.Run()
	}()
}

// Done is closed once the program has exited.
func (t *Terminal) Done() <-chan struct{} {
	return t.done
}

// Close stops the program and restores the terminal.
func (t *Terminal) Close() error {
	t.program.Quit()
	<-t.done
	return t.err
}

// Println adds a line to the game log.
func (t *Terminal) Println(a ...any) {
	t.program.Send(logMsg(fmt.Sprint(a...)))
}

// Prompt implements player.Prompt. The program works on its own copy of the
// board, so the game may move on as soon as Prompt returns.
func (t *Terminal) Prompt(ctx context.Context, view player.View) (board.Move, error) {
	t.nextID++
	id := t.nextID

	view.Hand = append(view.Hand[:0:0], view.Hand...)
	view.Board = view.Board.Clone()
	t.program.Send(promptMsg{id: id, view: view})

	for {
		select {
		case a := <-t.model.answers:
			if a.id != id {
				continue
			}
			return a.move, a.err
		case <-ctx.Done():
			t.program.Send(cancelMsg{id: id})
			return board.Move{}, ctx.Err()
		case <-t.done:
			return board.Move{}, ErrQuit
		}
	}
}
