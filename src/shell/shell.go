/*
Package shell composes a configured application window. It opens the
content root named by the application config, builds the window
manager from it, and drives the native run loop until the window
closes.
*/
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/gologme/log"

	"github.com/porthole-app/porthole-go/src/assets"
	"github.com/porthole-app/porthole-go/src/config"
	"github.com/porthole-app/porthole-go/src/engine"
	"github.com/porthole-app/porthole-go/src/webview"
)

var ErrAlreadyAttached = errors.New("window already attached")

// Shell owns one application window built from an AppConfig.
type Shell struct {
	cfg      *config.AppConfig
	log      webview.Logger
	mgr      *webview.Manager
	store    assets.Store
	routes   map[string]string
	mutex    sync.Mutex
	attached bool
}

// New builds the window manager for the given configuration. The
// content root is opened here so that a bad path fails before any
// window comes up.
func New(cfg *config.AppConfig, eng engine.Engine, logger webview.Logger) (*Shell, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	store, err := assets.OpenContentStore(cfg.WWWRoot)
	if err != nil {
		return nil, fmt.Errorf("error opening content root: %w", err)
	}
	opts := []webview.SetupOption{
		webview.Title(cfg.WindowTitle),
		webview.WindowSize{Width: cfg.WindowWidth, Height: cfg.WindowHeight},
		webview.HostPage(cfg.HostPage),
		webview.HostPageFallback(cfg.HostPageFallback),
		webview.DevTools(cfg.EnableDevTools),
		webview.UserDataDir(cfg.UserDataDir),
		webview.InitTimeout(time.Duration(cfg.InitTimeoutSeconds) * time.Second),
		webview.LogRequests(cfg.LogRequests),
		webview.Content{Store: store},
	}
	if cfg.VirtualHost != "" {
		opts = append(opts, webview.VirtualHost(cfg.VirtualHost))
	}
	mgr, err := webview.New(eng, logger, opts...)
	if err != nil {
		closeStore(store)
		return nil, err
	}
	routes := make(map[string]string, len(cfg.Routes))
	for name, path := range cfg.Routes {
		routes[name] = path
	}
	return &Shell{
		cfg:    cfg,
		log:    logger,
		mgr:    mgr,
		store:  store,
		routes: routes,
	}, nil
}

// Manager returns the window manager, for admin wiring and embedding.
func (s *Shell) Manager() *webview.Manager {
	return s.mgr
}

// Run starts the window, navigates to the configured start route and
// blocks in the native loop until the window closes or ctx is
// cancelled. It must run on the program's main goroutine.
func (s *Shell) Run(ctx context.Context) error {
	s.mutex.Lock()
	if s.attached {
		s.mutex.Unlock()
		return ErrAlreadyAttached
	}
	s.attached = true
	s.mutex.Unlock()
	defer closeStore(s.store)
	if err := s.mgr.Start(); err != nil {
		return err
	}
	start := s.cfg.StartRoute
	if start == "" {
		start = "/"
	}
	if err := s.mgr.Navigate(start); err != nil {
		return err
	}
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			if err := s.mgr.Stop(); err != nil {
				s.log.Errorln("Error closing window:", err)
			}
		case <-done:
		}
	}()
	return s.mgr.Run()
}

// GoTo navigates the window to a named route from the configuration,
// or to a literal path starting with "/".
func (s *Shell) GoTo(route string) error {
	path, ok := s.routes[route]
	if !ok {
		if !strings.HasPrefix(route, "/") {
			return fmt.Errorf("unknown route %q", route)
		}
		path = route
	}
	return s.mgr.Navigate(path)
}

// Routes returns the configured route names and their paths.
func (s *Shell) Routes() map[string]string {
	out := make(map[string]string, len(s.routes))
	for name, path := range s.routes {
		out[name] = path
	}
	return out
}

func closeStore(store assets.Store) {
	if closer, ok := store.(io.Closer); ok {
		_ = closer.Close()
	}
}
