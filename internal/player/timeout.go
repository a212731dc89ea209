package player

import (
	"context"
	"time"

	"github.com/coder/quartz"
	"github.com/lox/triominos/internal/board"
)

// WithTimeout wraps prompt so that an unanswered request turns into a Draw
// once timeout has passed on clock. The wrapped prompt's context is
// cancelled when the timer fires, and the wrapper returns only after the
// prompt has, so the caller may change the board afterwards.
func WithTimeout(prompt Prompt, clock quartz.Clock, timeout time.Duration) Prompt {
	if timeout <= 0 {
		return prompt
	}

	return func(ctx context.Context, view View) (board.Move, error) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		timedOut := make(chan struct{})
		timer := clock.AfterFunc(timeout, func() {
			close(timedOut)
			cancel()
		})
		defer timer.Stop()

		type answer struct {
			move board.Move
			err  error
		}
		answers := make(chan answer, 1)
		go func() {
			m, err := prompt(ctx, view)
			answers <- answer{m, err}
		}()

		select {
		case a := <-answers:
			select {
			case <-timedOut:
				return board.Draw(), nil
			default:
				return a.move, a.err
			}
		case <-timedOut:
			<-answers
			return board.Draw(), nil
		}
	}
}
