package admin

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/porthole-app/porthole-go/src/webview"
)

// TODO: Add authentication

type AdminSocket struct {
	mgr      *webview.Manager
	log      webview.Logger
	listener net.Listener
	handlers map[string]handler
	done     chan struct{}
	config   struct {
		listenaddr ListenAddress
	}
}

type AdminSocketRequest struct {
	Name      string          `json:"request"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
	KeepAlive bool            `json:"keepalive,omitempty"`
}

type AdminSocketResponse struct {
	Status   string             `json:"status"`
	Error    string             `json:"error,omitempty"`
	Request  AdminSocketRequest `json:"request"`
	Response json.RawMessage    `json:"response"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type handler struct {
	desc    string                                     // What does the endpoint do?
	args    []string                                   // List of human-readable argument names
	handler func(json.RawMessage) (interface{}, error) // First is input map, second is output
}

type ListEntry struct {
	Command     string   `json:"command"`
	Description string   `json:"description"`
	Fields      []string `json:"fields,omitempty"`
}

type ListResponse struct {
	List []ListEntry `json:"list"`
}

// AddHandler is called for each admin function to add the handler and help documentation to the API.
func (a *AdminSocket) AddHandler(name, desc string, args []string, handlerfunc func(json.RawMessage) (interface{}, error)) error {
	if _, ok := a.handlers[strings.ToLower(name)]; ok {
		return errors.New("handler already exists")
	}
	a.handlers[strings.ToLower(name)] = handler{
		desc:    desc,
		args:    args,
		handler: handlerfunc,
	}
	return nil
}

// New runs the initial admin setup.
func New(m *webview.Manager, log webview.Logger, opts ...SetupOption) (*AdminSocket, error) {
	a := &AdminSocket{
		mgr:      m,
		log:      log,
		handlers: make(map[string]handler),
	}
	for _, opt := range opts {
		a._applyOption(opt)
	}
	if a.config.listenaddr == "none" || a.config.listenaddr == "" {
		return nil, nil
	}
	_ = a.AddHandler("list", "List available commands", []string{}, func(_ json.RawMessage) (interface{}, error) {
		res := &ListResponse{}
		for name, handler := range a.handlers {
			res.List = append(res.List, ListEntry{
				Command:     name,
				Description: handler.desc,
				Fields:      handler.args,
			})
		}
		sort.SliceStable(res.List, func(i, j int) bool {
			return strings.Compare(res.List[i].Command, res.List[j].Command) < 0
		})
		return res, nil
	})
	return a, nil
}

// SetupAdminHandlers is called for standard admin functions to be
// registered with the admin API.
func (a *AdminSocket) SetupAdminHandlers() {
	_ = a.AddHandler(
		"getSelf", "Show details about this window", []string{},
		func(in json.RawMessage) (interface{}, error) {
			req := &GetSelfRequest{}
			res := &GetSelfResponse{}
			if err := json.Unmarshal(in, &req); err != nil {
				return nil, err
			}
			if err := a.getSelfHandler(req, res); err != nil {
				return nil, err
			}
			return res, nil
		},
	)
	_ = a.AddHandler(
		"getComponents", "Show the mounted root components", []string{},
		func(in json.RawMessage) (interface{}, error) {
			req := &GetComponentsRequest{}
			res := &GetComponentsResponse{}
			if err := json.Unmarshal(in, &req); err != nil {
				return nil, err
			}
			if err := a.getComponentsHandler(req, res); err != nil {
				return nil, err
			}
			return res, nil
		},
	)
	_ = a.AddHandler(
		"addComponent", "Mount a root component into the page", []string{"identity", "selector", "[parameters]"},
		func(in json.RawMessage) (interface{}, error) {
			req := &AddComponentRequest{}
			res := &AddComponentResponse{}
			if err := json.Unmarshal(in, &req); err != nil {
				return nil, err
			}
			if err := a.addComponentHandler(req, res); err != nil {
				return nil, err
			}
			return res, nil
		},
	)
	_ = a.AddHandler(
		"removeComponent", "Unmount a root component", []string{"[id]", "[selector]"},
		func(in json.RawMessage) (interface{}, error) {
			req := &RemoveComponentRequest{}
			res := &RemoveComponentResponse{}
			if err := json.Unmarshal(in, &req); err != nil {
				return nil, err
			}
			if err := a.removeComponentHandler(req, res); err != nil {
				return nil, err
			}
			return res, nil
		},
	)
	_ = a.AddHandler(
		"getRequests", "Show the most recent intercepted requests", []string{},
		func(in json.RawMessage) (interface{}, error) {
			req := &GetRequestsRequest{}
			res := &GetRequestsResponse{}
			if err := json.Unmarshal(in, &req); err != nil {
				return nil, err
			}
			if err := a.getRequestsHandler(req, res); err != nil {
				return nil, err
			}
			return res, nil
		},
	)
	_ = a.AddHandler(
		"sendMessage", "Send a message to the page", []string{"message"},
		func(in json.RawMessage) (interface{}, error) {
			req := &SendMessageRequest{}
			res := &SendMessageResponse{}
			if err := json.Unmarshal(in, &req); err != nil {
				return nil, err
			}
			if err := a.sendMessageHandler(req, res); err != nil {
				return nil, err
			}
			return res, nil
		},
	)
	_ = a.AddHandler(
		"setOverride", "Install a hot replacement for a request path", []string{"path", "[body]", "[status]", "[contenttype]"},
		func(in json.RawMessage) (interface{}, error) {
			req := &SetOverrideRequest{}
			res := &SetOverrideResponse{}
			if err := json.Unmarshal(in, &req); err != nil {
				return nil, err
			}
			if err := a.setOverrideHandler(req, res); err != nil {
				return nil, err
			}
			return res, nil
		},
	)
	_ = a.AddHandler(
		"clearOverride", "Remove a previously installed override", []string{"path"},
		func(in json.RawMessage) (interface{}, error) {
			req := &ClearOverrideRequest{}
			res := &ClearOverrideResponse{}
			if err := json.Unmarshal(in, &req); err != nil {
				return nil, err
			}
			if err := a.clearOverrideHandler(req, res); err != nil {
				return nil, err
			}
			return res, nil
		},
	)
	_ = a.AddHandler(
		"getOverrides", "Show the currently overridden request paths", []string{},
		func(in json.RawMessage) (interface{}, error) {
			req := &GetOverridesRequest{}
			res := &GetOverridesResponse{}
			if err := json.Unmarshal(in, &req); err != nil {
				return nil, err
			}
			if err := a.getOverridesHandler(req, res); err != nil {
				return nil, err
			}
			return res, nil
		},
	)
}

// Start runs the admin API socket to listen for / respond to admin API calls.
func (a *AdminSocket) Start() error {
	if a.config.listenaddr != "none" && a.config.listenaddr != "" {
		a.done = make(chan struct{})
		go a.listen()
	}
	return nil
}

// Stop will stop the admin API and close the socket.
func (a *AdminSocket) Stop() error {
	if a == nil {
		return nil
	}
	if a.listener != nil {
		select {
		case <-a.done:
		default:
			close(a.done)
		}
		return a.listener.Close()
	}
	return nil
}

// listen is run by start and manages API connections.
func (a *AdminSocket) listen() {
	listenaddr := string(a.config.listenaddr)
	u, err := url.Parse(listenaddr)
	if err == nil {
		switch strings.ToLower(u.Scheme) {
		case "unix":
			if _, err := os.Stat(listenaddr[7:]); err == nil {
				a.log.Debugln("Admin socket", listenaddr[7:], "already exists, trying to clean up")
				if _, err := net.DialTimeout("unix", listenaddr[7:], time.Second*2); err == nil || err.(net.Error).Timeout() {
					a.log.Errorln("Admin socket", listenaddr[7:], "already exists and is in use by another process")
					os.Exit(1)
				} else {
					if err := os.Remove(listenaddr[7:]); err == nil {
						a.log.Debugln(listenaddr[7:], "was cleaned up")
					} else {
						a.log.Errorln(listenaddr[7:], "already exists and was not cleaned up:", err)
						os.Exit(1)
					}
				}
			}
			a.listener, err = net.Listen("unix", listenaddr[7:])
			if err == nil {
				switch listenaddr[7:8] {
				case "@": // maybe abstract namespace
				default:
					if err := os.Chmod(listenaddr[7:], 0660); err != nil {
						a.log.Warnln("WARNING:", listenaddr[7:], "may have unsafe permissions!")
					}
				}
			}
		case "tcp":
			a.listener, err = net.Listen("tcp", u.Host)
		default:
			a.listener, err = net.Listen("tcp", listenaddr)
		}
	} else {
		a.listener, err = net.Listen("tcp", listenaddr)
	}
	if err != nil {
		a.log.Errorf("Admin socket failed to listen: %v", err)
		os.Exit(1)
	}
	a.log.Infof("%s admin socket listening on %s\n",
		strings.ToUpper(a.listener.Addr().Network()),
		a.listener.Addr().String())
	defer a.listener.Close()
	for {
		conn, err := a.listener.Accept()
		if err == nil {
			go a.handleRequest(conn)
		} else {
			select {
			case <-a.done:
				// Stop() closed the listener.
				return
			default:
			}
		}
	}
}

// handleRequest calls the request handler for each request sent to the admin API.
func (a *AdminSocket) handleRequest(conn net.Conn) {
	decoder := json.NewDecoder(conn)
	decoder.DisallowUnknownFields()

	encoder := json.NewEncoder(conn)
	encoder.SetIndent("", "  ")

	defer conn.Close()

	defer func() {
		r := recover()
		if r != nil {
			a.log.Debugln("Admin socket error:", r)
			if err := encoder.Encode(&ErrorResponse{
				Error: "Check your syntax and input types",
			}); err != nil {
				a.log.Debugln("Admin socket JSON encode error:", err)
			}
			conn.Close()
		}
	}()

	for {
		var err error
		var req AdminSocketRequest
		var resp AdminSocketResponse
		if err := decoder.Decode(&req); err != nil {
			return
		}
		resp.Request = req
		if req.Arguments == nil {
			req.Arguments = json.RawMessage("{}")
		}
		h, ok := a.handlers[strings.ToLower(req.Name)]
		if !ok {
			resp.Status = "error"
			resp.Error = fmt.Sprintf("unknown action '%s', try 'list' for help", req.Name)
			if err = encoder.Encode(&resp); err != nil {
				a.log.Debugln("Encode error:", err)
			}
			if !req.KeepAlive {
				return
			}
			continue
		}
		res, err := h.handler(req.Arguments)
		if err != nil {
			resp.Status = "error"
			resp.Error = err.Error()
		} else {
			resp.Status = "success"
			if resp.Response, err = json.Marshal(res); err != nil {
				resp.Status = "error"
				resp.Error = err.Error()
			}
		}
		if err = encoder.Encode(&resp); err != nil {
			a.log.Debugln("Encode error:", err)
		}
		if !req.KeepAlive {
			return
		}
	}
}
