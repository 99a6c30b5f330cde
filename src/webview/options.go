package webview

import (
	"time"

	"github.com/porthole-app/porthole-go/src/assets"
	"github.com/porthole-app/porthole-go/src/engine"
)

func (m *Manager) _applyOption(opt SetupOption) {
	switch v := opt.(type) {
	case Title:
		m.config.title = string(v)
	case WindowSize:
		m.config.width, m.config.height = v.Width, v.Height
	case VirtualHost:
		m.config.rawOrigin = string(v)
	case HostPage:
		m.config.hostPage = string(v)
	case HostPageFallback:
		m.config.fallback = bool(v)
	case DevTools:
		m.config.devtools = bool(v)
	case UserDataDir:
		m.config.userDataDir = string(v)
	case BrowserExeDir:
		m.config.browserDir = string(v)
	case InitTimeout:
		m.config.timeout = time.Duration(v)
	case LogRequests:
		m.config.logRequests = bool(v)
	case Content:
		m.config.store = v.Store
	case Overlay:
		m.config.overlay = v.Set
	case ModulesManifest:
		m.config.manifest = []byte(v)
	case PreInit:
		m.config.preInit = v
	case PostInit:
		m.config.postInit = v
	case NavigateHook:
		m.config.navigate = v
	case MessageHandler:
		m.config.onMessage = v
	case ExternalOpener:
		m.config.opener = v
	}
}

type SetupOption interface {
	isSetupOption()
}

type Title string
type WindowSize struct {
	Width  int
	Height int
}
type VirtualHost string
type HostPage string
type HostPageFallback bool
type DevTools bool
type UserDataDir string
type BrowserExeDir string
type InitTimeout time.Duration
type LogRequests bool
type Content struct {
	Store assets.Store
}
type Overlay struct {
	Set assets.FileSet
}
type ModulesManifest []byte
type PreInit func(*engine.Options)
type PostInit func(engine.Engine)
type NavigateHook func(uri string, decision engine.Decision) engine.Decision
type MessageHandler func(source, message string)
type ExternalOpener func(uri string) error

func (a Title) isSetupOption()            {}
func (a WindowSize) isSetupOption()       {}
func (a VirtualHost) isSetupOption()      {}
func (a HostPage) isSetupOption()         {}
func (a HostPageFallback) isSetupOption() {}
func (a DevTools) isSetupOption()         {}
func (a UserDataDir) isSetupOption()      {}
func (a BrowserExeDir) isSetupOption()    {}
func (a InitTimeout) isSetupOption()      {}
func (a LogRequests) isSetupOption()      {}
func (a Content) isSetupOption()          {}
func (a Overlay) isSetupOption()          {}
func (a ModulesManifest) isSetupOption()  {}
func (a PreInit) isSetupOption()          {}
func (a PostInit) isSetupOption()         {}
func (a NavigateHook) isSetupOption()     {}
func (a MessageHandler) isSetupOption()   {}
func (a ExternalOpener) isSetupOption()   {}
