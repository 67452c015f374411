// Package stream provides small hot-stream primitives for pushing
// configuration snapshots and derived values between services.
//
// A Subject multicasts to any number of observers; terminal events are
// sticky, so late subscribers of a failed or closed subject observe the
// terminal event immediately. Publish delivers on the caller's goroutine
// and in emission order. A Connectable (see Publish) adds replay-of-one
// semantics behind an explicit Connect, which is what lifecycle code needs
// when one awaiter and one error-watcher must both see the first result.
//
// Subscriptions compose: a Handle can adopt children via Add, and
// unsubscribing the parent tears the children down as well.
package stream
