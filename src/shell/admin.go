package shell

import (
	"encoding/json"
	"errors"

	"github.com/porthole-app/porthole-go/src/admin"
)

type NavigateRequest struct {
	Route string `json:"route"`
}

type NavigateResponse struct {
	Route string `json:"route"`
}

type GetRoutesRequest struct{}

type GetRoutesResponse struct {
	Routes map[string]string `json:"routes"`
}

func (s *Shell) navigateHandler(req *NavigateRequest, res *NavigateResponse) error {
	if req.Route == "" {
		return errors.New("required: route")
	}
	if err := s.GoTo(req.Route); err != nil {
		return err
	}
	res.Route = req.Route
	return nil
}

func (s *Shell) getRoutesHandler(req *GetRoutesRequest, res *GetRoutesResponse) error {
	res.Routes = s.Routes()
	return nil
}

func (s *Shell) SetupAdminHandlers(a *admin.AdminSocket) {
	_ = a.AddHandler(
		"navigate", "Navigate the window to a named route or path", []string{"route"},
		func(in json.RawMessage) (interface{}, error) {
			req := &NavigateRequest{}
			res := &NavigateResponse{}
			if err := json.Unmarshal(in, &req); err != nil {
				return nil, err
			}
			if err := s.navigateHandler(req, res); err != nil {
				return nil, err
			}
			return res, nil
		},
	)
	_ = a.AddHandler(
		"getRoutes", "Show the configured route names", []string{},
		func(in json.RawMessage) (interface{}, error) {
			req := &GetRoutesRequest{}
			res := &GetRoutesResponse{}
			if err := json.Unmarshal(in, &req); err != nil {
				return nil, err
			}
			if err := s.getRoutesHandler(req, res); err != nil {
				return nil, err
			}
			return res, nil
		},
	)
}
