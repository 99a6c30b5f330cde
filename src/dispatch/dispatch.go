/*
The dispatch package serializes work onto a single logical UI goroutine.

The embedded browser engines raise their callbacks on arbitrary
goroutines, while the UI framework expects a single writer over its
component tree. A Dispatcher is that single writer: work submitted to it
runs in submission order, one item at a time, on the dispatcher's own
goroutine.

Work that is already running on the dispatcher must call further work
directly rather than through the Invoke forms, which would deadlock
waiting on themselves. By convention methods that may only run on the
dispatcher are prefixed with an underscore.
*/
package dispatch

import (
	"github.com/Arceliar/phony"
)

// Dispatcher is the single logical UI thread of a window.
type Dispatcher struct {
	phony.Inbox
	onPanic func(interface{})
}

// New returns a ready Dispatcher. A panic raised by fire-and-forget work
// submitted with Post is handed to onPanic; if onPanic is nil the panic
// is re-raised on the dispatcher goroutine and takes the process down.
func New(onPanic func(interface{})) *Dispatcher {
	return &Dispatcher{onPanic: onPanic}
}

// Post schedules f on the dispatcher and returns immediately. Safe to
// call from any goroutine, including from work already running on the
// dispatcher.
func (d *Dispatcher) Post(f func()) {
	d.Act(nil, func() {
		if p := capture(f); p != nil {
			if d.onPanic != nil {
				d.onPanic(p.value)
				return
			}
			panic(p.value)
		}
	})
}

// Invoke runs f on the dispatcher and returns once it has finished. A
// panic raised by f is re-raised at the caller with its original value.
// Must not be called from the dispatcher itself.
func (d *Dispatcher) Invoke(f func()) {
	var p *panicked
	phony.Block(d, func() {
		p = capture(f)
	})
	if p != nil {
		panic(p.value)
	}
}

// InvokeErr runs f on the dispatcher and returns its error once it has
// finished. Panics re-raise at the caller. Must not be called from the
// dispatcher itself.
func (d *Dispatcher) InvokeErr(f func() error) error {
	var err error
	var p *panicked
	phony.Block(d, func() {
		p = capture(func() { err = f() })
	})
	if p != nil {
		panic(p.value)
	}
	return err
}

// InvokeValue runs f on the dispatcher and returns its result once it
// has finished. Panics re-raise at the caller. Must not be called from
// the dispatcher itself.
func (d *Dispatcher) InvokeValue(f func() (interface{}, error)) (interface{}, error) {
	var value interface{}
	var err error
	var p *panicked
	phony.Block(d, func() {
		p = capture(func() { value, err = f() })
	})
	if p != nil {
		panic(p.value)
	}
	return value, err
}

type panicked struct {
	value interface{}
}

// capture runs f and converts a panic into a value, so that the actor
// goroutine survives and the panic can be re-raised where it belongs.
func capture(f func()) (p *panicked) {
	defer func() {
		if r := recover(); r != nil {
			p = &panicked{value: r}
		}
	}()
	f()
	return nil
}
