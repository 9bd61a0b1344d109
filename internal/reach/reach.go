// Package reach reports binary network reachability transitions.
//
// The platform signal (interface watcher, OS callback) lives outside
// this module; callers feed transitions into a Flag, and the sync
// engine subscribes to them.
package reach

import "sync"

// Monitor is the engine-facing view of reachability.
type Monitor interface {
	Reachable() bool
	Subscribe(fn func(reachable bool))
}

// Flag is a Monitor fed by an external signal. Subscribers are
// notified on transitions only, in subscription order, from the
// goroutine calling Set.
type Flag struct {
	mu        sync.Mutex
	reachable bool
	subs      []func(bool)
}

// NewFlag returns a Flag with the given initial state. No notification
// fires for the initial state.
func NewFlag(reachable bool) *Flag {
	return &Flag{reachable: reachable}
}

// AlwaysUp returns a monitor that reports reachable until told
// otherwise, for callers without a platform signal.
func AlwaysUp() *Flag {
	return NewFlag(true)
}

func (f *Flag) Reachable() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reachable
}

func (f *Flag) Subscribe(fn func(bool)) {
	if fn == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs = append(f.subs, fn)
}

// Set records the new state and notifies subscribers if it changed.
func (f *Flag) Set(reachable bool) {
	f.mu.Lock()
	if f.reachable == reachable {
		f.mu.Unlock()
		return
	}
	f.reachable = reachable
	subs := make([]func(bool), len(f.subs))
	copy(subs, f.subs)
	f.mu.Unlock()

	for _, fn := range subs {
		fn(reachable)
	}
}
