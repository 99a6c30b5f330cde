package admin

import "sort"

type GetOverridesRequest struct{}

type GetOverridesResponse struct {
	Paths []string `json:"paths"`
}

func (a *AdminSocket) getOverridesHandler(req *GetOverridesRequest, res *GetOverridesResponse) error {
	res.Paths = a.mgr.Overridden()
	sort.Strings(res.Paths)
	return nil
}
