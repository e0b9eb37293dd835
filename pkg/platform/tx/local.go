package tx

import (
	"context"
	"sync"
)

type journalKey struct{}

type journal struct {
	undo []func()
}

// LocalRunner is the in-memory counterpart of a database transaction. It
// serializes units of work behind one lock and replays registered undo steps
// in reverse order when the unit fails.
type LocalRunner struct {
	mu sync.Mutex
}

func NewLocalRunner() *LocalRunner {
	return &LocalRunner{}
}

// RunInTx runs fn as one unit. Nested calls join the outer unit.
func (r *LocalRunner) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if _, ok := ctx.Value(journalKey{}).(*journal); ok {
		return fn(ctx)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	j := &journal{}
	if err := fn(context.WithValue(ctx, journalKey{}, j)); err != nil {
		for i := len(j.undo) - 1; i >= 0; i-- {
			j.undo[i]()
		}
		return err
	}
	return nil
}

// OnRollback registers undo to run if the enclosing LocalRunner unit fails.
// Outside a unit it does nothing.
func OnRollback(ctx context.Context, undo func()) {
	if j, ok := ctx.Value(journalKey{}).(*journal); ok {
		j.undo = append(j.undo, undo)
	}
}
