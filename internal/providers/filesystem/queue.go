package filesystem

import (
	"context"
)

// job is one mutation waiting for the writer
type job struct {
	ctx  context.Context
	run  func(context.Context) error
	done chan error
}

// writer executes jobs one at a time in submission order. A job whose
// caller gave up before it started is skipped; a started job runs to
// completion with cancellation detached.
func (p *Provider) writer() {
	defer close(p.stopped)
	for {
		select {
		case j := <-p.jobs:
			if err := j.ctx.Err(); err != nil {
				j.done <- err
				continue
			}
			j.done <- j.run(context.WithoutCancel(j.ctx))
		case <-p.quit:
			return
		}
	}
}

// submit queues fn on the writer and waits for its result
func (p *Provider) submit(ctx context.Context, fn func(context.Context) error) error {
	j := job{ctx: ctx, run: fn, done: make(chan error, 1)}

	select {
	case p.jobs <- j:
	case <-p.quit:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-j.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
