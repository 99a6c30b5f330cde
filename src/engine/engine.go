/*
The engine package abstracts the embedded browser engines behind one
interface. The window manager drives an Engine through a fixed
provisioning sequence and receives its events through the Host
interface, so the manager never touches a native event model directly.

Two native engines are provided, selected by build target: WebView2
through the go-webview2 bindings on Windows, and WebKit through the
webview library elsewhere. Both are attached to a loopback Bridge that
carries the virtual origin's traffic through the interception pipeline.
*/
package engine

import (
	"context"
	"sort"
	"strings"

	"github.com/porthole-app/porthole-go/src/assets"
)

// Decision classifies the outcome of a navigation attempt.
type Decision int

const (
	// DecisionInView lets the navigation proceed inside the embedded view.
	DecisionInView Decision = iota
	// DecisionExternal cancels the in-view navigation; the URI is opened
	// in the platform's default browser instead.
	DecisionExternal
	// DecisionCancel cancels the navigation with nothing opened.
	DecisionCancel
)

func (d Decision) String() string {
	switch d {
	case DecisionInView:
		return "in-view"
	case DecisionExternal:
		return "external"
	default:
		return "cancel"
	}
}

// Request is one intercepted resource request.
type Request struct {
	URI     string
	Context assets.RequestContext
}

// Response carries a synthesized response back to the engine.
type Response struct {
	Status  int
	Reason  string
	Headers map[string]string
	Body    []byte
}

// HeaderBlock renders the headers as newline-joined "Key: Value" lines
// in a stable order, which is the shape native response constructors
// take.
func (r *Response) HeaderBlock() string {
	keys := make([]string, 0, len(r.Headers))
	for k := range r.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+": "+r.Headers[k])
	}
	return strings.Join(lines, "\n")
}

// Host receives engine events. Every method may be raised from an
// arbitrary goroutine; implementations do their own serialization.
type Host interface {
	// ResourceRequested is raised for each request the engine
	// intercepts. The host must complete d exactly once on every path,
	// with nil to leave the request unanswered; the engine holds the
	// request open until then.
	ResourceRequested(req *Request, d *Deferral)
	// MessageReceived is raised when a document posts a string message,
	// tagged with the URI of the posting document.
	MessageReceived(source, message string)
	// NavigationRequested is raised before a top-level navigation. The
	// engine cancels it unless the decision is DecisionInView.
	NavigationRequested(uri string) Decision
	// NewWindowRequested is raised when a page asks for a new window.
	// The engine never opens one itself.
	NewWindowRequested(uri string) Decision
}

// Options configures the native window and engine at provisioning time.
// UserDataDir and BrowserExeDir are honored where the engine's loader
// supports them.
type Options struct {
	Title         string
	Width, Height int
	DevTools      bool
	UserDataDir   string
	BrowserExeDir string
}

// Engine is one embedded browser engine attached to a native window.
// Provision must be called first and Run must be called on the
// program's main goroutine; the remaining methods are safe from any
// goroutine once provisioning has finished.
type Engine interface {
	Provision(ctx context.Context, opts Options) error
	AddRequestFilter(prefix string) error
	SetHost(h Host)
	InitScript(script string)
	Navigate(uri string)
	PostWebMessage(message string)
	Dispatch(f func())
	Run() error
	Close() error
}
