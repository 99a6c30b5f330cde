package webview

import (
	"sync"
	"time"
)

// RequestRecord is one intercepted request as kept in the in-memory
// request log, which the admin socket exposes for diagnostics.
type RequestRecord struct {
	Time    time.Time
	URI     string
	Context string
	Status  int
	Source  string
}

// requestLog is a fixed-size ring of the most recent requests.
type requestLog struct {
	mutex   sync.Mutex
	records []RequestRecord
	next    int
	full    bool
}

func newRequestLog(size int) *requestLog {
	return &requestLog{records: make([]RequestRecord, size)}
}

func (l *requestLog) add(rec RequestRecord) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.records[l.next] = rec
	l.next = (l.next + 1) % len(l.records)
	if l.next == 0 {
		l.full = true
	}
}

// snapshot returns the retained records, oldest first.
func (l *requestLog) snapshot() []RequestRecord {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	if !l.full {
		out := make([]RequestRecord, l.next)
		copy(out, l.records[:l.next])
		return out
	}
	out := make([]RequestRecord, 0, len(l.records))
	out = append(out, l.records[l.next:]...)
	out = append(out, l.records[:l.next]...)
	return out
}
