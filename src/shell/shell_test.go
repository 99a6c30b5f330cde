package shell

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/porthole-app/porthole-go/src/config"
	"github.com/porthole-app/porthole-go/src/engine"
)

type recordingEngine struct {
	mutex   sync.Mutex
	visited []string
}

func (e *recordingEngine) Provision(ctx context.Context, opts engine.Options) error { return nil }
func (e *recordingEngine) AddRequestFilter(prefix string) error                     { return nil }
func (e *recordingEngine) SetHost(h engine.Host)                                    {}
func (e *recordingEngine) InitScript(script string)                                 {}
func (e *recordingEngine) PostWebMessage(message string)                            {}
func (e *recordingEngine) Dispatch(f func())                                        { f() }
func (e *recordingEngine) Run() error                                               { return nil }
func (e *recordingEngine) Close() error                                             { return nil }

func (e *recordingEngine) Navigate(uri string) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.visited = append(e.visited, uri)
}

func (e *recordingEngine) visitedURIs() []string {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	out := make([]string, len(e.visited))
	copy(out, e.visited)
	return out
}

func newTestShell(t *testing.T, mutate func(*config.AppConfig)) (*Shell, *recordingEngine) {
	t.Helper()
	cfg := config.GenerateConfig()
	cfg.AdminListen = "none"
	if mutate != nil {
		mutate(cfg)
	}
	eng := &recordingEngine{}
	s, err := New(cfg, eng, nil)
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	return s, eng
}

func TestShell_PlaceholderContent(t *testing.T) {
	s, _ := newTestShell(t, nil)
	if got := s.Manager().ContentSource(); got != "placeholder" {
		t.Fatal("empty content root did not select the placeholder:", got)
	}
}

func TestShell_ConfigPlumbing(t *testing.T) {
	s, _ := newTestShell(t, func(cfg *config.AppConfig) {
		cfg.VirtualHost = "https://app.local/"
	})
	if got := s.Manager().Origin(); got != "https://app.local/" {
		t.Fatal("virtual host not plumbed through:", got)
	}
}

func TestShell_GoTo(t *testing.T) {
	s, eng := newTestShell(t, func(cfg *config.AppConfig) {
		cfg.Routes = map[string]string{"home": "/", "settings": "/settings"}
	})
	if err := s.Manager().Start(); err != nil {
		t.Fatal("unexpected error:", err)
	}
	if err := s.GoTo("settings"); err != nil {
		t.Fatal("unexpected error:", err)
	}
	if err := s.GoTo("/direct"); err != nil {
		t.Fatal("unexpected error:", err)
	}
	if err := s.GoTo("missing"); err == nil || !strings.Contains(err.Error(), "unknown route") {
		t.Fatal("unknown route did not error:", err)
	}
	visited := eng.visitedURIs()
	if len(visited) != 2 || visited[0] != "https://0.0.0.0/settings" || visited[1] != "https://0.0.0.0/direct" {
		t.Fatal("unexpected navigations:", visited)
	}
}

func TestShell_RunOnce(t *testing.T) {
	s, eng := newTestShell(t, func(cfg *config.AppConfig) {
		cfg.StartRoute = "/welcome"
	})
	if err := s.Run(context.Background()); err != nil {
		t.Fatal("unexpected error:", err)
	}
	visited := eng.visitedURIs()
	if len(visited) != 1 || visited[0] != "https://0.0.0.0/welcome" {
		t.Fatal("start route not visited:", visited)
	}
	if err := s.Run(context.Background()); err != ErrAlreadyAttached {
		t.Fatal("second run did not report already attached:", err)
	}
}

func TestShell_RoutesIsolated(t *testing.T) {
	s, _ := newTestShell(t, func(cfg *config.AppConfig) {
		cfg.Routes = map[string]string{"home": "/"}
	})
	routes := s.Routes()
	routes["home"] = "/changed"
	if got := s.Routes()["home"]; got != "/" {
		t.Fatal("routes snapshot is not isolated:", got)
	}
}
