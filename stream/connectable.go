package stream

import "sync"

// Connectable multicasts a source stream with replay-of-one. Nothing is
// pulled from the source until Connect is called, no matter how many
// observers subscribed before that; every subscriber receives the most
// recent element (or the terminal event) immediately on subscription.
//
// When the source fails, observers are notified before the upstream
// subscription is released, so an error-watcher attached to the multicast
// always sees the failure even though the failure also stops the source.
type Connectable[T any] struct {
	src Stream[T]

	mu        sync.Mutex
	connected bool
	conn      *Handle

	out *ReplaySubject[T]
}

// Publish wraps src in a Connectable with replay-of-one.
func Publish[T any](src Stream[T]) *Connectable[T] {
	return &Connectable[T]{src: src, out: NewReplaySubject[T]()}
}

// Connect subscribes the multicast to its source and returns the handle
// controlling that upstream subscription. Connect is one-shot: later calls
// return the same handle.
func (c *Connectable[T]) Connect() *Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.connected {
		return c.conn
	}
	c.connected = true
	up := c.src.Subscribe(Observer[T]{
		Next:     c.out.Publish,
		Error:    c.out.Fail,
		Complete: c.out.Close,
	})
	c.conn = NewHandle(up.Unsubscribe)
	return c.conn
}

// Subscribe registers obs on the multicast. The latest element, if any, is
// replayed first; a sticky terminal event is delivered immediately.
func (c *Connectable[T]) Subscribe(obs Observer[T]) *Handle {
	return c.out.Subscribe(obs)
}
