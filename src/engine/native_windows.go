//go:build windows
// +build windows

package engine

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/jchv/go-webview2"
)

// NewNative returns the browser engine for Windows: a WebView2 control
// driven through the go-webview2 bindings, with the virtual origin
// served over a loopback bridge. The bindings bootstrap the WebView2
// runtime loader themselves, so provisioning fails cleanly when the
// runtime is not installed.
func NewNative() Engine {
	return &webview2Engine{bridge: NewBridge()}
}

type webview2Engine struct {
	mutex  sync.Mutex
	view   webview2.WebView
	bridge *Bridge
	host   Host
	done   bool
}

func (e *webview2Engine) Provision(ctx context.Context, opts Options) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mutex.Lock()
	defer e.mutex.Unlock()
	if e.view != nil {
		return errors.New("engine already provisioned")
	}
	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = 1024
	}
	if height <= 0 {
		height = 768
	}
	// The loader has no knob for a fixed browser executable folder, so
	// opts.BrowserExeDir has no effect here.
	view := webview2.NewWithOptions(webview2.WebViewOptions{
		Debug:     opts.DevTools,
		AutoFocus: true,
		DataPath:  opts.UserDataDir,
		WindowOptions: webview2.WindowOptions{
			Title:  opts.Title,
			Width:  uint(width),
			Height: uint(height),
		},
	})
	if view == nil {
		return errors.New("WebView2 runtime unavailable")
	}
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

func (e *webview2Engine) AddRequestFilter(prefix string) error {
	return e.bridge.Start(prefix)
}

func (e *webview2Engine) SetHost(h Host) {
	e.mutex.Lock()
	e.host = h
	e.mutex.Unlock()
	e.bridge.SetHost(h)
}

func (e *webview2Engine) currentHost() Host {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.host
}

func (e *webview2Engine) InitScript(script string) {
	e.view.Init(script)
}

func (e *webview2Engine) Navigate(uri string) {
	uri = e.bridge.Rewrite(uri)
	e.view.Dispatch(func() { e.view.Navigate(uri) })
}

func (e *webview2Engine) PostWebMessage(message string) {
	encoded, err := json.Marshal(message)
	if err != nil {
		return
	}
	script := "window.__portholeDeliver(" + string(encoded) + ")"
	e.view.Dispatch(func() { e.view.Eval(script) })
}

func (e *webview2Engine) Dispatch(f func()) {
	e.view.Dispatch(f)
}

func (e *webview2Engine) Run() error {
	e.view.Run()
	e.mutex.Lock()
	e.done = true
	e.mutex.Unlock()
	e.view.Destroy()
	return nil
}

func (e *webview2Engine) Close() error {
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
