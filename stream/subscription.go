package stream

import "sync"

// Subscription releases an observer's registration on a stream.
// Implementations must be idempotent.
type Subscription interface {
	Unsubscribe()
}

// Handle is the concrete Subscription returned by this package. A Handle
// owns an optional teardown function plus any child subscriptions adopted
// via Add; Unsubscribe runs the teardown first and then the children in
// reverse adoption order.
type Handle struct {
	mu       sync.Mutex
	closed   bool
	teardown func()
	children []Subscription
}

// NewHandle returns a Handle that runs teardown on Unsubscribe.
// A nil teardown yields a handle that only manages children.
func NewHandle(teardown func()) *Handle {
	return &Handle{teardown: teardown}
}

// closedHandle returns a handle that is already released.
func closedHandle() *Handle {
	return &Handle{closed: true}
}

// Add adopts child as part of this subscription. If the handle is already
// unsubscribed the child is released immediately.
func (h *Handle) Add(child Subscription) {
	if child == nil {
		return
	}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		child.Unsubscribe()
		return
	}
	h.children = append(h.children, child)
	h.mu.Unlock()
}

// Unsubscribe releases the handle, its teardown and all adopted children.
// Safe to call multiple times and safe to call from inside a delivery.
func (h *Handle) Unsubscribe() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	teardown := h.teardown
	children := h.children
	h.teardown = nil
	h.children = nil
	h.mu.Unlock()

	if teardown != nil {
		teardown()
	}
	for i := len(children) - 1; i >= 0; i-- {
		children[i].Unsubscribe()
	}
}

// Closed reports whether the handle has been unsubscribed.
func (h *Handle) Closed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}
