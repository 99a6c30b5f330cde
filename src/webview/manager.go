package webview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gologme/log"

	"github.com/porthole-app/porthole-go/src/assets"
	"github.com/porthole-app/porthole-go/src/components"
	"github.com/porthole-app/porthole-go/src/dispatch"
	"github.com/porthole-app/porthole-go/src/engine"
	"github.com/porthole-app/porthole-go/src/version"
)

var (
	ErrAlreadyStarted = errors.New("window already started")
	ErrNotReady       = errors.New("engine not ready")
)

// The Manager object represents one hosted web window. You should
// create a Manager for each window you plan to show.
type Manager struct {
	// We keep our own copy of the provided options - that way nothing
	// can mutate them behind the engine's back once it is provisioned.
	eng      engine.Engine
	log      Logger
	ui       *dispatch.Dispatcher
	gate     *readyGate
	resolver *assets.Resolver
	roots    *components.Collection
	requests *requestLog
	served   uint64
	mutex    sync.Mutex
	started  bool
	config   struct {
		title       string
		width       int
		height      int
		rawOrigin   string
		origin      assets.Origin
		hostPage    string
		fallback    bool
		devtools    bool
		userDataDir string
		browserDir  string
		timeout     time.Duration
		logRequests bool
		store       assets.Store
		overlay     assets.FileSet
		manifest    []byte
		preInit     PreInit
		postInit    PostInit
		navigate    NavigateHook
		onMessage   MessageHandler
		opener      ExternalOpener
	}
}

func New(eng engine.Engine, logger Logger, opts ...SetupOption) (*Manager, error) {
	if eng == nil {
		return nil, fmt.Errorf("no engine provided")
	}
	m := &Manager{
		eng: eng,
		log: logger,
	}
	if m.log == nil {
		m.log = log.New(io.Discard, "", 0)
	}
	if name := version.BuildName(); name != "unknown" {
		m.log.Infoln("Build name:", name)
	}
	if version := version.BuildVersion(); version != "unknown" {
		m.log.Infoln("Build version:", version)
	}
	m.config.title = "Porthole"
	m.config.width = 1024
	m.config.height = 768
	m.config.hostPage = "index.html"
	m.config.fallback = true
	m.config.timeout = time.Minute
	for _, opt := range opts {
		m._applyOption(opt)
	}
	if m.config.store == nil {
		m.config.store = assets.Placeholder()
	}
	rawOrigin := m.config.rawOrigin
	if rawOrigin == "" {
		rawOrigin = assets.DefaultVirtualHost
	}
	var err error
	if m.config.origin, err = assets.ParseOrigin(rawOrigin); err != nil {
		return nil, fmt.Errorf("invalid virtual host: %w", err)
	}
	if m.resolver, err = assets.NewResolver(assets.ResolverConfig{
		Origin:           m.config.origin,
		Store:            m.config.store,
		HostPage:         m.config.hostPage,
		HostPageFallback: m.config.fallback,
		Overlay:          m.config.overlay,
		ModulesManifest:  m.config.manifest,
	}); err != nil {
		return nil, fmt.Errorf("error building resolver: %w", err)
	}
	m.ui = dispatch.New(func(v interface{}) {
		m.log.Errorf("Panic in dispatched work: %v\n", v)
	})
	m.gate = newReadyGate()
	m.roots = components.NewCollection()
	m.requests = newRequestLog(64)
	return m, nil
}

// Start provisions the engine and resolves the ready gate. The
// provisioning sequence is fixed: the pre-init callback sees the
// window options first, then the engine comes up, then the post-init
// callback sees it, then the request filter, event host and init
// script are installed, and only then is the gate resolved. A failure
// anywhere resolves the gate with that failure permanently; Start is
// not retried.
func (m *Manager) Start() error {
	m.mutex.Lock()
	if m.started {
		m.mutex.Unlock()
		return ErrAlreadyStarted
	}
	m.started = true
	m.mutex.Unlock()
	err := m.provision()
	m.gate.resolve(err)
	if err != nil {
		return err
	}
	// Watch after the gate resolves so that the replayed attach
	// notifications can pass through the gate without blocking.
	m.roots.Watch(m.componentChanged)
	m.log.Infof("Serving %s from %s\n", m.config.origin.String(), m.config.store.String())
	return nil
}

func (m *Manager) provision() error {
	ctx := context.Background()
	if m.config.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.config.timeout)
		defer cancel()
	}
	opts := engine.Options{
		Title:         m.config.title,
		Width:         m.config.width,
		Height:        m.config.height,
		DevTools:      m.config.devtools,
		UserDataDir:   m.config.userDataDir,
		BrowserExeDir: m.config.browserDir,
	}
	if m.config.preInit != nil {
		m.config.preInit(&opts)
	}
	if err := m.eng.Provision(ctx, opts); err != nil {
		return fmt.Errorf("error provisioning engine: %w", err)
	}
	if m.config.postInit != nil {
		m.config.postInit(m.eng)
	}
	if err := m.eng.AddRequestFilter(m.config.origin.String()); err != nil {
		return fmt.Errorf("error installing request filter: %w", err)
	}
	m.eng.SetHost(m)
	m.eng.InitScript(BridgeScript())
	return ctx.Err()
}

// ResourceRequested resolves one intercepted request. It runs on the
// engine's raising goroutine; resolution only reads state fixed at
// construction, so no dispatch is needed. The deferral is completed on
// every path, including panics in caller-provided overlays.
func (m *Manager) ResourceRequested(req *engine.Request, d *engine.Deferral) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Errorf("Panic while resolving %s: %v\n", req.URI, r)
			d.Complete(nil)
		}
	}()
	res, ok := m.resolver.Resolve(req.URI, req.Context)
	if !ok {
		m.record(req, 0, "unanswered")
		d.Complete(nil)
		return
	}
	body := res.Body
	if strings.HasPrefix(res.Headers["Content-Type"], "text/html") {
		body = assets.EnsureBridgeScript(body, BridgeScript(), bridgeMarker)
	}
	m.record(req, res.Status, res.Source)
	atomic.AddUint64(&m.served, 1)
	d.Complete(&engine.Response{
		Status:  res.Status,
		Reason:  res.Reason,
		Headers: res.Headers,
		Body:    body,
	})
}

func (m *Manager) record(req *engine.Request, status int, source string) {
	m.requests.add(RequestRecord{
		Time:    time.Now(),
		URI:     req.URI,
		Context: req.Context.String(),
		Status:  status,
		Source:  source,
	})
	if m.config.logRequests {
		m.log.Debugf("%s %s -> %d (%s)\n", req.Context, req.URI, status, source)
	}
}

// MessageReceived funnels messages from the page onto the dispatcher,
// preserving arrival order. Control frames from the shim are split off
// first and never reach the application handler.
func (m *Manager) MessageReceived(source, message string) {
	if strings.HasPrefix(message, controlPrefix) {
		m.handleControlFrame(source, strings.TrimPrefix(message, controlPrefix))
		return
	}
	if !m.config.origin.Contains(source) {
		m.log.Debugf("Dropping message from %q: outside the served origin\n", source)
		return
	}
	m.ui.Post(func() {
		m._deliverMessage(source, message)
	})
}

// This function is unsafe and should only be ran on the dispatcher.
func (m *Manager) _deliverMessage(source, message string) {
	if m.config.onMessage == nil {
		m.log.Debugln("Dropping message: no handler registered")
		return
	}
	m.config.onMessage(source, message)
}

func (m *Manager) handleControlFrame(source, frame string) {
	if !m.config.origin.Contains(source) {
		m.log.Debugf("Dropping control frame from %q: outside the served origin\n", source)
		return
	}
	kind, uri := frame, ""
	if i := strings.Index(frame, ":"); i >= 0 {
		kind, uri = frame[:i], frame[i+1:]
	}
	switch kind {
	case frameNavigate:
		if m.NavigationRequested(uri) == engine.DecisionInView {
			m.eng.Navigate(uri)
		}
	case frameNewWindow:
		m.NewWindowRequested(uri)
	default:
		m.log.Debugf("Dropping unknown control frame %q\n", kind)
	}
}

// NavigationRequested decides what happens to a top-level navigation.
// Targets within the served origin stay in the view, everything else
// opens externally; the navigation hook may override either default.
func (m *Manager) NavigationRequested(uri string) engine.Decision {
	decision := engine.DecisionExternal
	if m.config.origin.Contains(uri) {
		decision = engine.DecisionInView
	}
	if m.config.navigate != nil {
		decision = m.config.navigate(uri, decision)
	}
	if decision == engine.DecisionExternal {
		m.openExternal(uri)
	}
	if decision != engine.DecisionInView {
		m.log.Debugf("Navigation to %s: %s\n", uri, decision)
	}
	return decision
}

// NewWindowRequested opens the target in the default browser. New
// windows are never granted in-view and the navigation hook is not
// consulted.
func (m *Manager) NewWindowRequested(uri string) engine.Decision {
	m.openExternal(uri)
	return engine.DecisionExternal
}

func (m *Manager) openExternal(uri string) {
	opener := m.config.opener
	if opener == nil {
		opener = launchBrowser
	}
	if err := opener(uri); err != nil {
		m.log.Errorf("Failed to open %s externally: %s\n", uri, err)
	}
}

// SendMessage delivers a string message to the page. Delivery waits
// for engine readiness and preserves submission order; messages sent
// before the page registers a receiver are queued by the shim.
func (m *Manager) SendMessage(message string) {
	m.ui.Post(func() {
		m._postMessage(message)
	})
}

// This function is unsafe and should only be ran on the dispatcher.
func (m *Manager) _postMessage(message string) {
	if err := m.gate.wait(m.config.timeout); err != nil {
		m.log.Errorln("Dropping outbound message:", err)
		return
	}
	m.eng.PostWebMessage(message)
}

// Navigate loads the given path within the served origin. It waits for
// engine readiness first; do not call it from a message handler.
func (m *Manager) Navigate(path string) error {
	if err := m.gate.wait(m.config.timeout); err != nil {
		return err
	}
	m.eng.Navigate(m.config.origin.Resolve(path))
	return nil
}

func (m *Manager) componentChanged(change components.Change) {
	m.ui.Post(func() {
		m._sendComponentOp(change)
	})
}

type componentOp struct {
	Porthole   string                 `json:"porthole"`
	ID         int                    `json:"componentId"`
	Identity   string                 `json:"identity"`
	Selector   string                 `json:"selector"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
}

// This function is unsafe and should only be ran on the dispatcher.
func (m *Manager) _sendComponentOp(change components.Change) {
	if err := m.gate.wait(m.config.timeout); err != nil {
		m.log.Errorln("Dropping component update:", err)
		return
	}
	frame, err := json.Marshal(componentOp{
		Porthole:   string(change.Operation) + "Component",
		ID:         change.Component.ID,
		Identity:   change.Component.Identity,
		Selector:   change.Component.Selector,
		Parameters: change.Component.Parameters,
	})
	if err != nil {
		m.log.Errorln("Failed to encode component update:", err)
		return
	}
	m.eng.PostWebMessage(string(frame))
}

// Ready reports whether provisioning has completed successfully.
func (m *Manager) Ready() bool {
	return m.gate.ready()
}

// WaitReady blocks until provisioning resolves and returns its outcome.
func (m *Manager) WaitReady() error {
	return m.gate.wait(m.config.timeout)
}

// Origin returns the virtual origin being served.
func (m *Manager) Origin() string {
	return m.config.origin.String()
}

// ContentSource describes where served content comes from.
func (m *Manager) ContentSource() string {
	return m.resolver.Store().String()
}

// Components returns the root component collection. Additions and
// removals are reflected to the page over the message channel once the
// engine is ready.
func (m *Manager) Components() *components.Collection {
	return m.roots
}

// RequestsServed returns the number of requests answered so far.
func (m *Manager) RequestsServed() uint64 {
	return atomic.LoadUint64(&m.served)
}

// RecentRequests returns the most recent intercepted requests, oldest
// first.
func (m *Manager) RecentRequests() []RequestRecord {
	return m.requests.snapshot()
}

// SetOverride installs a hot replacement for the given request path,
// applied after resolution until cleared.
func (m *Manager) SetOverride(path string, ov assets.Override) error {
	rel, ok := assets.CleanRequestPath(strings.TrimPrefix(path, "/"))
	if !ok {
		return fmt.Errorf("invalid override path %q", path)
	}
	m.resolver.Overrides().Set(rel, ov)
	return nil
}

// ClearOverride removes a previously installed override.
func (m *Manager) ClearOverride(path string) error {
	rel, ok := assets.CleanRequestPath(strings.TrimPrefix(path, "/"))
	if !ok {
		return fmt.Errorf("invalid override path %q", path)
	}
	m.resolver.Overrides().Clear(rel)
	return nil
}

// Overridden lists the currently overridden request paths.
func (m *Manager) Overridden() []string {
	return m.resolver.Overrides().Paths()
}

// Run hands the calling goroutine to the native window loop and blocks
// until the window closes. Call it on the program's main goroutine.
func (m *Manager) Run() error {
	return m.eng.Run()
}

// Stop closes the engine and its window.
func (m *Manager) Stop() error {
	return m.eng.Close()
}

type Logger interface {
	Printf(string, ...interface{})
	Println(...interface{})
	Infof(string, ...interface{})
	Infoln(...interface{})
	Warnf(string, ...interface{})
	Warnln(...interface{})
	Errorf(string, ...interface{})
	Errorln(...interface{})
	Debugf(string, ...interface{})
	Debugln(...interface{})
}
