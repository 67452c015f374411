package stream

import (
	"context"
	"errors"
	"sync"
)

// ErrNoElement is returned by First when the stream completes without
// having emitted a value.
var ErrNoElement = errors.New("stream completed without a value")

// First blocks until src emits its first element or terminates, honoring
// ctx cancellation. The subscription is released before returning.
func First[T any](ctx context.Context, src Stream[T]) (T, error) {
	type outcome struct {
		v   T
		err error
	}
	var (
		once sync.Once
		zero T
	)
	ch := make(chan outcome, 1)
	settle := func(o outcome) {
		once.Do(func() { ch <- o })
	}

	sub := src.Subscribe(Observer[T]{
		Next:     func(v T) { settle(outcome{v: v}) },
		Error:    func(err error) { settle(outcome{err: err}) },
		Complete: func() { settle(outcome{err: ErrNoElement}) },
	})
	defer sub.Unsubscribe()

	select {
	case o := <-ch:
		return o.v, o.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
