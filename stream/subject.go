package stream

import (
	"sync"

	"go.uber.org/atomic"
)

// Observer receives the events of a stream. Nil callbacks are ignored.
type Observer[T any] struct {
	Next     func(T)
	Error    func(error)
	Complete func()
}

// Stream is anything observers can subscribe to.
type Stream[T any] interface {
	Subscribe(Observer[T]) *Handle
}

// Subject is a hot multicaster. Values published before a terminal event
// are delivered, in order, to every live observer on the publisher's
// goroutine. After Fail or Close the subject is terminated: the terminal
// event is sticky and replayed to late subscribers, and further publishes
// are dropped.
type Subject[T any] struct {
	mu     sync.Mutex
	subs   map[int]*subjectObserver[T]
	nextID int
	done   bool
	failed bool
	err    error
}

type subjectObserver[T any] struct {
	obs    Observer[T]
	closed atomic.Bool
}

// NewSubject returns an empty hot subject.
func NewSubject[T any]() *Subject[T] {
	return &Subject[T]{subs: make(map[int]*subjectObserver[T])}
}

// Subscribe registers obs. If the subject already terminated, the terminal
// event is delivered synchronously and the returned handle is inert.
func (s *Subject[T]) Subscribe(obs Observer[T]) *Handle {
	s.mu.Lock()
	if s.done {
		failed, err := s.failed, s.err
		s.mu.Unlock()
		if failed {
			if obs.Error != nil {
				obs.Error(err)
			}
		} else if obs.Complete != nil {
			obs.Complete()
		}
		return closedHandle()
	}
	id := s.nextID
	s.nextID++
	so := &subjectObserver[T]{obs: obs}
	s.subs[id] = so
	s.mu.Unlock()

	return NewHandle(func() {
		so.closed.Store(true)
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	})
}

// Publish delivers v to all live observers. Dropped after termination.
func (s *Subject[T]) Publish(v T) {
	for _, so := range s.snapshot(false) {
		if !so.closed.Load() && so.obs.Next != nil {
			so.obs.Next(v)
		}
	}
}

// Fail terminates the subject with err and notifies all observers.
func (s *Subject[T]) Fail(err error) {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	s.done = true
	s.failed = true
	s.err = err
	s.mu.Unlock()

	for _, so := range s.snapshot(true) {
		if !so.closed.Load() && so.obs.Error != nil {
			so.obs.Error(err)
		}
	}
}

// Close terminates the subject normally and notifies all observers.
func (s *Subject[T]) Close() {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	s.done = true
	s.mu.Unlock()

	for _, so := range s.snapshot(true) {
		if !so.closed.Load() && so.obs.Complete != nil {
			so.obs.Complete()
		}
	}
}

// snapshot copies the observer list so delivery happens outside the lock;
// observers may therefore unsubscribe (even themselves) mid-delivery.
// With drain set the registration map is also cleared.
func (s *Subject[T]) snapshot(drain bool) []*subjectObserver[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !drain && s.done {
		return nil
	}
	out := make([]*subjectObserver[T], 0, len(s.subs))
	for _, so := range s.subs {
		out = append(out, so)
	}
	if drain {
		s.subs = make(map[int]*subjectObserver[T])
	}
	return out
}

// ReplaySubject is a Subject that additionally replays the most recent
// value to every new subscriber. Configuration sources use it so that a
// subscriber arriving after the initial snapshot still observes it.
type ReplaySubject[T any] struct {
	subject Subject[T]

	mu   sync.Mutex
	has  bool
	last T
}

// NewReplaySubject returns an empty replaying subject.
func NewReplaySubject[T any]() *ReplaySubject[T] {
	return &ReplaySubject[T]{subject: Subject[T]{subs: make(map[int]*subjectObserver[T])}}
}

// Subscribe replays the latest value, if any, before registering obs.
func (r *ReplaySubject[T]) Subscribe(obs Observer[T]) *Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.has && obs.Next != nil {
		obs.Next(r.last)
	}
	return r.subject.Subscribe(obs)
}

// Publish records v as the latest value and multicasts it.
func (r *ReplaySubject[T]) Publish(v T) {
	r.mu.Lock()
	r.last = v
	r.has = true
	r.mu.Unlock()
	r.subject.Publish(v)
}

// Fail terminates the stream with err.
func (r *ReplaySubject[T]) Fail(err error) { r.subject.Fail(err) }

// Close terminates the stream normally.
func (r *ReplaySubject[T]) Close() { r.subject.Close() }
