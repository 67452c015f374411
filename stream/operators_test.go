package stream

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapErr(t *testing.T) {
	t.Run("maps values", func(t *testing.T) {
		s := NewSubject[int]()
		m := MapErr(s, func(v int) (string, error) { return fmt.Sprintf("v%d", v), nil })

		var got []string
		m.Subscribe(Observer[string]{Next: func(v string) { got = append(got, v) }})

		s.Publish(1)
		s.Publish(2)
		assert.Equal(t, []string{"v1", "v2"}, got)
	})

	t.Run("fn error terminates the derived stream", func(t *testing.T) {
		s := NewSubject[int]()
		m := MapErr(s, func(v int) (int, error) {
			if v < 0 {
				return 0, errors.New("negative")
			}
			return v * 10, nil
		})

		var got []int
		var gotErr error
		m.Subscribe(Observer[int]{
			Next:  func(v int) { got = append(got, v) },
			Error: func(err error) { gotErr = err },
		})

		s.Publish(1)
		s.Publish(-1)
		s.Publish(2) // after the error nothing is relayed

		assert.Equal(t, []int{10}, got)
		require.Error(t, gotErr)
		assert.Contains(t, gotErr.Error(), "negative")
	})

	t.Run("fn runs once per element, not per emission after error", func(t *testing.T) {
		s := NewSubject[int]()
		calls := 0
		m := MapErr(s, func(v int) (int, error) {
			calls++
			return 0, errors.New("always")
		})
		m.Subscribe(Observer[int]{})

		s.Publish(1)
		s.Publish(2)
		s.Publish(3)

		assert.Equal(t, 1, calls)
	})

	t.Run("upstream error propagates", func(t *testing.T) {
		s := NewSubject[int]()
		m := MapErr(s, func(v int) (int, error) { return v, nil })

		var gotErr error
		m.Subscribe(Observer[int]{Error: func(err error) { gotErr = err }})

		s.Fail(errors.New("upstream"))
		require.Error(t, gotErr)
	})
}

func TestTapError(t *testing.T) {
	t.Run("side effect fires before observer", func(t *testing.T) {
		s := NewSubject[int]()
		var order []string
		tapped := TapError[int](s, func(err error) { order = append(order, "tap") })
		tapped.Subscribe(Observer[int]{Error: func(error) { order = append(order, "observer") }})

		s.Fail(errors.New("boom"))
		assert.Equal(t, []string{"tap", "observer"}, order)
	})

	t.Run("values pass through untouched", func(t *testing.T) {
		s := NewSubject[int]()
		tapped := TapError[int](s, func(error) { t.Fatal("tap must not fire") })

		var got []int
		tapped.Subscribe(Observer[int]{Next: func(v int) { got = append(got, v) }})
		s.Publish(5)
		assert.Equal(t, []int{5}, got)
	})
}

func TestDistinct(t *testing.T) {
	t.Run("suppresses consecutive equal elements", func(t *testing.T) {
		s := NewSubject[int]()
		d := Distinct[int](s, func(a, b int) bool { return a == b })

		var got []int
		d.Subscribe(Observer[int]{Next: func(v int) { got = append(got, v) }})

		for _, v := range []int{1, 1, 2, 2, 2, 1} {
			s.Publish(v)
		}
		assert.Equal(t, []int{1, 2, 1}, got)
	})

	t.Run("state is per subscription", func(t *testing.T) {
		s := NewSubject[int]()
		d := Distinct[int](s, func(a, b int) bool { return a == b })

		var a []int
		d.Subscribe(Observer[int]{Next: func(v int) { a = append(a, v) }})
		s.Publish(1)

		var b []int
		d.Subscribe(Observer[int]{Next: func(v int) { b = append(b, v) }})
		s.Publish(1) // duplicate for a, first sight for b

		assert.Equal(t, []int{1}, a)
		assert.Equal(t, []int{1}, b)
	})
}

func TestConnectable(t *testing.T) {
	t.Run("no source subscription before connect", func(t *testing.T) {
		s := NewSubject[int]()
		c := Publish[int](s)

		var got []int
		c.Subscribe(Observer[int]{Next: func(v int) { got = append(got, v) }})
		s.Publish(1) // not connected yet, lost to the multicast

		c.Connect()
		s.Publish(2)

		assert.Equal(t, []int{2}, got)
	})

	t.Run("replays latest to late subscriber", func(t *testing.T) {
		s := NewSubject[int]()
		c := Publish[int](s)
		c.Connect()
		s.Publish(1)
		s.Publish(2)

		var got []int
		c.Subscribe(Observer[int]{Next: func(v int) { got = append(got, v) }})
		assert.Equal(t, []int{2}, got)
	})

	t.Run("replays terminal error to late subscriber", func(t *testing.T) {
		s := NewSubject[int]()
		c := Publish[int](s)
		c.Connect()
		s.Fail(errors.New("boom"))

		var gotErr error
		c.Subscribe(Observer[int]{Error: func(err error) { gotErr = err }})
		require.Error(t, gotErr)
	})

	t.Run("connect is one-shot", func(t *testing.T) {
		s := NewSubject[int]()
		c := Publish[int](s)
		h1 := c.Connect()
		h2 := c.Connect()
		assert.Same(t, h1, h2)
	})

	t.Run("error reaches watcher subscribed between value and failure", func(t *testing.T) {
		s := NewSubject[int]()
		c := Publish[int](s)
		c.Connect()
		s.Publish(1)

		var gotErr error
		c.Subscribe(Observer[int]{Error: func(err error) { gotErr = err }})
		s.Fail(errors.New("later"))
		require.Error(t, gotErr)
	})

	t.Run("disconnect stops the multicast", func(t *testing.T) {
		s := NewSubject[int]()
		c := Publish[int](s)
		conn := c.Connect()

		var got []int
		c.Subscribe(Observer[int]{Next: func(v int) { got = append(got, v) }})
		s.Publish(1)
		conn.Unsubscribe()
		s.Publish(2)

		assert.Equal(t, []int{1}, got)
	})
}

func TestFirst(t *testing.T) {
	t.Run("returns first element", func(t *testing.T) {
		s := NewSubject[int]()
		go func() {
			time.Sleep(10 * time.Millisecond)
			s.Publish(42)
		}()
		v, err := First[int](context.Background(), s)
		require.NoError(t, err)
		assert.Equal(t, 42, v)
	})

	t.Run("returns cached value from replaying source", func(t *testing.T) {
		r := NewReplaySubject[int]()
		r.Publish(7)
		v, err := First[int](context.Background(), r)
		require.NoError(t, err)
		assert.Equal(t, 7, v)
	})

	t.Run("returns stream error", func(t *testing.T) {
		s := NewSubject[int]()
		go func() {
			time.Sleep(10 * time.Millisecond)
			s.Fail(errors.New("boom"))
		}()
		_, err := First[int](context.Background(), s)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("completion without value", func(t *testing.T) {
		s := NewSubject[int]()
		go s.Close()
		_, err := First[int](context.Background(), s)
		require.ErrorIs(t, err, ErrNoElement)
	})

	t.Run("honors context cancellation", func(t *testing.T) {
		s := NewSubject[int]()
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err := First[int](ctx, s)
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
