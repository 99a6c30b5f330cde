package engine

import "sync"

// Deferral is the completion token of one intercepted request. The
// engine holds the native request open until the deferral is completed,
// so every handling path must complete it, including failure paths.
// Calls after the first are no-ops, which lets error paths complete
// without tracking whether a success path already did.
type Deferral struct {
	once    sync.Once
	deliver func(*Response)
}

// NewDeferral wraps deliver so that it runs at most once.
func NewDeferral(deliver func(*Response)) *Deferral {
	return &Deferral{deliver: deliver}
}

// Complete resolves the request, with nil reporting "no response" so
// the engine falls through to its default handling. Only the first call
// has any effect.
func (d *Deferral) Complete(resp *Response) {
	d.once.Do(func() {
		if d.deliver != nil {
			d.deliver(resp)
		}
	})
}
