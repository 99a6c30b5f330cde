/*
The config package contains the configuration for the window host.

The configuration contains, amongst other things, the content root to
serve the application from, the virtual origin that the embedded browser
engine navigates against, the window parameters and the listen address
of the admin socket.

The configuration can be read from or written to HJSON, which is the
format used by the porthole daemon for its configuration file, and is
tolerant of a UTF-16 byte order mark at the start of the file.
*/
package config

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/hjson/hjson-go"
	"github.com/mitchellh/mapstructure"
	"golang.org/x/text/encoding/unicode"

	"github.com/porthole-app/porthole-go/src/assets"
	"github.com/porthole-app/porthole-go/src/defaults"
)

// AppConfig is the main configuration type, describing the window, the
// content root and the admin socket of a single porthole host.
type AppConfig struct {
	WindowTitle        string            `comment:"Title of the application window."`
	WindowWidth        int               `comment:"Initial width of the application window in logical pixels."`
	WindowHeight       int               `comment:"Initial height of the application window in logical pixels."`
	WWWRoot            string            `comment:"Path to the content root to serve the application from. This is\neither a directory of static assets or a .pak archive produced by\nthe genpak tool. Leave empty to show the built-in placeholder page."`
	HostPage           string            `comment:"Host page served in place of extension-less document requests,\nrelative to the content root. Most applications will keep the\ndefault of index.html."`
	HostPageFallback   bool              `comment:"Serve the host page when a document request names a path that has\nno file extension, which is what client-side routed applications\nexpect. Disable to answer such requests with the content root only."`
	VirtualHost        string            `comment:"Origin that the embedded browser engine navigates against.\nRequests inside this origin are answered from the content root and\nnever reach the network. Requests outside it are treated as\nexternal and are opened in the default browser."`
	StartRoute         string            `comment:"Path within the virtual origin to navigate to once the window is\nready, e.g. / or /settings."`
	Routes             map[string]string `comment:"Named routes that the admin socket can navigate the window to,\ne.g. { \"home\": \"/\", \"settings\": \"/settings\" }."`
	AdminListen        string            `comment:"Listen address for admin connections. Default is to listen for\nlocal connections either on TCP/9090 or a UNIX socket depending\non your platform. Use this value for portholectl -endpoint=X. To\ndisable the admin socket, use the value \"none\" instead."`
	EnableDevTools     bool              `comment:"Expose the browser engine's developer tooling in the window. This\nis decided once at startup and cannot be changed while running."`
	UserDataDir        string            `comment:"Directory for the browser engine's profile data. Leave empty to\nlet the engine choose a per-user default."`
	InitTimeoutSeconds int               `comment:"Upper bound in seconds to wait for the browser engine to become\nready before startup is abandoned. Use 0 to wait indefinitely."`
	LogRequests        bool              `comment:"Log every intercepted request at debug level. Useful when\ndiagnosing why an asset is not being served."`
}

// GenerateConfig produces default configuration with suitable modifications
// for the current platform. This is used when outputting the -genconf
// parameter and before reading a configuration file on top of it.
func GenerateConfig() *AppConfig {
	// Create a configuration and populate it.
	cfg := AppConfig{}
	cfg.WindowTitle = "Porthole"
	cfg.WindowWidth = 1024
	cfg.WindowHeight = 768
	cfg.WWWRoot = ""
	cfg.HostPage = "index.html"
	cfg.HostPageFallback = true
	cfg.VirtualHost = assets.DefaultVirtualHost
	cfg.StartRoute = "/"
	cfg.Routes = map[string]string{}
	cfg.AdminListen = defaults.GetDefaults().DefaultAdminListen
	cfg.EnableDevTools = false
	cfg.UserDataDir = ""
	cfg.InitTimeoutSeconds = 60
	cfg.LogRequests = false

	return &cfg
}

// ReadFrom reads the configuration from the given reader, e.g. an open
// configuration file, and decodes it on top of the existing values.
func (cfg *AppConfig) ReadFrom(r io.Reader) (int64, error) {
	conf, err := io.ReadAll(r)
	n := int64(len(conf))
	if err != nil {
		return n, err
	}
	if err := cfg.UnmarshalHJSON(conf); err != nil {
		return n, err
	}
	return n, nil
}

// UnmarshalHJSON decodes the given HJSON or JSON input on top of the
// existing values. If a UTF-16 byte order mark is present then the input
// is converted to UTF-8 first.
func (cfg *AppConfig) UnmarshalHJSON(conf []byte) error {
	var err error
	if len(conf) > 2 && (bytes.Equal(conf[0:2], []byte{0xFF, 0xFE}) ||
		bytes.Equal(conf[0:2], []byte{0xFE, 0xFF})) {
		utf := unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
		decoder := utf.NewDecoder()
		conf, err = decoder.Bytes(conf)
		if err != nil {
			return err
		}
	}
	var dat map[string]interface{}
	if err := hjson.Unmarshal(conf, &dat); err != nil {
		return err
	}
	return cfg.decode(dat)
}

// MarshalHJSON encodes the configuration in HJSON format, suitable for
// writing out as a configuration file.
func (cfg *AppConfig) MarshalHJSON() ([]byte, error) {
	return hjson.Marshal(cfg)
}

// MarshalPlainJSON encodes the configuration in plain JSON format.
func (cfg *AppConfig) MarshalPlainJSON() ([]byte, error) {
	return json.MarshalIndent(cfg, "", "  ")
}

func (cfg *AppConfig) decode(dat map[string]interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(dat)
}
