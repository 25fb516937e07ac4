package commands

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// dispatchCandidates runs produce in its own goroutine and feeds each candidate to
// consume over an unbuffered channel. The first error from either side cancels the other.
func dispatchCandidates(
	ctx context.Context,
	produce func(context.Context, chan<- string) error,
	consume func(string) error,
) error {
	group, streamCtx := errgroup.WithContext(ctx)
	candidates := make(chan string)

	group.Go(func() error {
		defer close(candidates)
		return produce(streamCtx, candidates)
	})

	group.Go(func() error {
		for {
			select {
			case <-streamCtx.Done():
				return streamCtx.Err()
			case candidatePath, ok := <-candidates:
				if !ok {
					return nil
				}
				if err := consume(candidatePath); err != nil {
					return err
				}
			}
		}
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return ctx.Err()
}
