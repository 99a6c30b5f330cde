package webview

import (
	"sync"
	"time"
)

// readyGate is the single-shot future for engine provisioning. It is
// resolved exactly once, success or permanent failure, and every
// navigation or outbound message waits on it first.
type readyGate struct {
	done chan struct{}
	err  error
	once sync.Once
}

func newReadyGate() *readyGate {
	return &readyGate{done: make(chan struct{})}
}

func (g *readyGate) resolve(err error) {
	g.once.Do(func() {
		g.err = err
		close(g.done)
	})
}

// wait blocks until the gate resolves and returns its outcome. A
// timeout of zero or below waits indefinitely.
func (g *readyGate) wait(timeout time.Duration) error {
	if timeout <= 0 {
		<-g.done
		return g.err
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-g.done:
		return g.err
	case <-timer.C:
		return ErrNotReady
	}
}

func (g *readyGate) ready() bool {
	select {
	case <-g.done:
		return g.err == nil
	default:
		return false
	}
}
