package engine

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/porthole-app/porthole-go/src/assets"
)

// Bridge serves the virtual origin over a loopback listener, feeding
// every request through the host's interception pipeline. It is the
// request path for engines whose embedding API has no native resource
// interception, and doubles as a plain HTTP surface for debugging the
// app in an external browser.
//
// Each incoming request blocks until its deferral is completed, which
// is what turns the pipeline's asynchronous completion into the
// synchronous response the socket needs.
type Bridge struct {
	mutex    sync.RWMutex
	origin   assets.Origin
	host     Host
	listener net.Listener
	server   *http.Server
	base     string
}

func NewBridge() *Bridge {
	return &Bridge{}
}

// Start binds a loopback listener and begins serving the given virtual
// origin through it.
func (b *Bridge) Start(origin string) error {
	o, err := assets.ParseOrigin(origin)
	if err != nil {
		return err
	}
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("bridge listen: %w", err)
	}
	b.mutex.Lock()
	b.origin = o
	b.listener = listener
	b.base = "http://" + listener.Addr().String()
	b.server = &http.Server{Handler: b}
	server := b.server
	b.mutex.Unlock()
	go func() {
		_ = server.Serve(listener)
	}()
	return nil
}

// SetHost installs the interception host. Must happen before the first
// request arrives.
func (b *Bridge) SetHost(h Host) {
	b.mutex.Lock()
	b.host = h
	b.mutex.Unlock()
}

// BaseURL returns the effective loopback base, e.g.
// "http://127.0.0.1:38041". Empty until Start has succeeded.
func (b *Bridge) BaseURL() string {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	return b.base
}

// Rewrite maps a URI under the virtual origin onto the loopback
// listener, preserving path and query. URIs outside the origin pass
// through unchanged.
func (b *Bridge) Rewrite(uri string) string {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	if b.base == "" || !b.origin.Contains(uri) {
		return uri
	}
	u, err := url.Parse(uri)
	if err != nil {
		return uri
	}
	base, err := url.Parse(b.base)
	if err != nil {
		return uri
	}
	u.Scheme = base.Scheme
	u.Host = base.Host
	return u.String()
}

// Restore maps an effective loopback URI back onto the virtual origin,
// the inverse of Rewrite, so that callers upstream only ever reason
// about virtual-origin URIs. URIs not under the loopback base pass
// through unchanged.
func (b *Bridge) Restore(uri string) string {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	if b.base == "" {
		return uri
	}
	u, err := url.Parse(uri)
	if err != nil {
		return uri
	}
	base, err := url.Parse(b.base)
	if err != nil || u.Host != base.Host {
		return uri
	}
	virtual, err := url.Parse(b.origin.String())
	if err != nil {
		return uri
	}
	u.Scheme = virtual.Scheme
	u.Host = virtual.Host
	return u.String()
}

func (b *Bridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mutex.RLock()
	host := b.host
	origin := b.origin
	b.mutex.RUnlock()
	if host == nil {
		http.Error(w, "no interception host attached", http.StatusServiceUnavailable)
		return
	}

	req := &Request{
		URI:     origin.Resolve(r.URL.RequestURI()),
		Context: assets.ContextFromFetchDest(r.Header.Get("Sec-Fetch-Dest"), r.Header.Get("Accept")),
	}

	done := make(chan *Response, 1)
	host.ResourceRequested(req, NewDeferral(func(resp *Response) { done <- resp }))

	var resp *Response
	select {
	case resp = <-done:
	case <-r.Context().Done():
		return
	}
	if resp == nil {
		http.NotFound(w, r)
		return
	}
	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(resp.Status)
	_, _ = w.Write(resp.Body)
}

// Close shuts the listener down, waiting briefly for in-flight
// requests.
func (b *Bridge) Close() error {
	b.mutex.RLock()
	server := b.server
	b.mutex.RUnlock()
	if server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
