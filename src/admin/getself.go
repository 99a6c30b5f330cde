package admin

import (
	"github.com/porthole-app/porthole-go/src/version"
)

type GetSelfRequest struct{}

type GetSelfResponse struct {
	BuildName      string `json:"build_name"`
	BuildVersion   string `json:"build_version"`
	Origin         string `json:"origin"`
	Content        string `json:"content"`
	Ready          bool   `json:"ready"`
	RequestsServed uint64 `json:"requests_served"`
}

func (a *AdminSocket) getSelfHandler(req *GetSelfRequest, res *GetSelfResponse) error {
	res.BuildName = version.BuildName()
	res.BuildVersion = version.BuildVersion()
	res.Origin = a.mgr.Origin()
	res.Content = a.mgr.ContentSource()
	res.Ready = a.mgr.Ready()
	res.RequestsServed = a.mgr.RequestsServed()
	return nil
}
