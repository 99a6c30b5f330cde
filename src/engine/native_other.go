//go:build !windows
// +build !windows

package engine

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/webview/webview"
)

// NewNative returns the browser engine for this platform: a WebKit view
// driven through the webview library, with the virtual origin served
// over a loopback bridge since the embedding API has no native resource
// interception.
func NewNative() Engine {
	return &webkitEngine{bridge: NewBridge()}
}

type webkitEngine struct {
	mutex  sync.Mutex
	view   webview.WebView
	bridge *Bridge
	host   Host
	done   bool
}

func (e *webkitEngine) Provision(ctx context.Context, opts Options) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mutex.Lock()
	defer e.mutex.Unlock()
	if e.view != nil {
		return errors.New("engine already provisioned")
	}
	// The webview library has no profile directory knob, so
	// opts.UserDataDir and opts.BrowserExeDir have no effect here.
	view := webview.New(opts.DevTools)
	if view == nil {
		return errors.New("webview creation failed")
	}
	view.SetTitle(opts.Title)
	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = 1024
	}
	if height <= 0 {
		height = 768
	}
	view.SetSize(width, height, webview.HintNone)
	if err := view.Bind("__portholePost", func(source, message string) {
		if h := e.currentHost(); h != nil {
			h.MessageReceived(e.bridge.Restore(source), message)
		}
	}); err != nil {
		view.Destroy()
		return err
	}
	e.view = view
	return ctx.Err()
}

func (e *webkitEngine) AddRequestFilter(prefix string) error {
	return e.bridge.Start(prefix)
}

func (e *webkitEngine) SetHost(h Host) {
	e.mutex.Lock()
	e.host = h
	e.mutex.Unlock()
	e.bridge.SetHost(h)
}

func (e *webkitEngine) currentHost() Host {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.host
}

func (e *webkitEngine) InitScript(script string) {
	e.view.Init(script)
}

func (e *webkitEngine) Navigate(uri string) {
	uri = e.bridge.Rewrite(uri)
	e.view.Dispatch(func() { e.view.Navigate(uri) })
}

func (e *webkitEngine) PostWebMessage(message string) {
	encoded, err := json.Marshal(message)
	if err != nil {
		return
	}
	script := "window.__portholeDeliver(" + string(encoded) + ")"
	e.view.Dispatch(func() { e.view.Eval(script) })
}

func (e *webkitEngine) Dispatch(f func()) {
	e.view.Dispatch(f)
}

func (e *webkitEngine) Run() error {
	e.view.Run()
	e.mutex.Lock()
	e.done = true
	e.mutex.Unlock()
	e.view.Destroy()
	return nil
}

func (e *webkitEngine) Close() error {
	err := e.bridge.Close()
	e.mutex.Lock()
	done := e.done
	e.done = true
	e.mutex.Unlock()
	if !done && e.view != nil {
		e.view.Dispatch(func() { e.view.Terminate() })
	}
	return err
}
