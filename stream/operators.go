package stream

import "sync"

// mapped is the stream returned by MapErr.
type mapped[T, U any] struct {
	src Stream[T]
	fn  func(T) (U, error)
}

// MapErr derives a stream by applying fn to every element. When fn returns
// an error the derived stream terminates with that error and the upstream
// subscription is released, so later upstream emissions have no effect.
func MapErr[T, U any](src Stream[T], fn func(T) (U, error)) Stream[U] {
	return &mapped[T, U]{src: src, fn: fn}
}

func (m *mapped[T, U]) Subscribe(obs Observer[U]) *Handle {
	var (
		mu         sync.Mutex
		upstream   *Handle
		terminated bool
	)
	finish := func() bool {
		mu.Lock()
		defer mu.Unlock()
		if terminated {
			return false
		}
		terminated = true
		return true
	}
	release := func() {
		mu.Lock()
		h := upstream
		mu.Unlock()
		if h != nil {
			h.Unsubscribe()
		}
	}

	h := m.src.Subscribe(Observer[T]{
		Next: func(v T) {
			mu.Lock()
			done := terminated
			mu.Unlock()
			if done {
				return
			}
			u, err := m.fn(v)
			if err != nil {
				if finish() {
					if obs.Error != nil {
						obs.Error(err)
					}
					release()
				}
				return
			}
			if obs.Next != nil {
				obs.Next(u)
			}
		},
		Error: func(err error) {
			if finish() && obs.Error != nil {
				obs.Error(err)
			}
		},
		Complete: func() {
			if finish() && obs.Complete != nil {
				obs.Complete()
			}
		},
	})

	mu.Lock()
	upstream = h
	done := terminated
	mu.Unlock()
	if done {
		h.Unsubscribe()
	}
	return h
}

// tapped is the stream returned by TapError.
type tapped[T any] struct {
	src Stream[T]
	fn  func(error)
}

// TapError passes the stream through unchanged but invokes fn with any
// terminal error before observers see it.
func TapError[T any](src Stream[T], fn func(error)) Stream[T] {
	return &tapped[T]{src: src, fn: fn}
}

func (t *tapped[T]) Subscribe(obs Observer[T]) *Handle {
	return t.src.Subscribe(Observer[T]{
		Next: obs.Next,
		Error: func(err error) {
			t.fn(err)
			if obs.Error != nil {
				obs.Error(err)
			}
		},
		Complete: obs.Complete,
	})
}

// distinct is the stream returned by Distinct.
type distinct[T any] struct {
	src   Stream[T]
	equal func(a, b T) bool
}

// Distinct suppresses consecutive elements that equal compares as the same.
// State is kept per subscription.
func Distinct[T any](src Stream[T], equal func(a, b T) bool) Stream[T] {
	return &distinct[T]{src: src, equal: equal}
}

func (d *distinct[T]) Subscribe(obs Observer[T]) *Handle {
	var (
		mu   sync.Mutex
		prev T
		seen bool
	)
	return d.src.Subscribe(Observer[T]{
		Next: func(v T) {
			mu.Lock()
			if seen && d.equal(prev, v) {
				mu.Unlock()
				return
			}
			prev = v
			seen = true
			mu.Unlock()
			if obs.Next != nil {
				obs.Next(v)
			}
		},
		Error:    obs.Error,
		Complete: obs.Complete,
	})
}
