package admin

import "errors"

type ClearOverrideRequest struct {
	Path string `json:"path"`
}

type ClearOverrideResponse struct {
	Path string `json:"path"`
}

func (a *AdminSocket) clearOverrideHandler(req *ClearOverrideRequest, res *ClearOverrideResponse) error {
	if req.Path == "" {
		return errors.New("required: path")
	}
	if err := a.mgr.ClearOverride(req.Path); err != nil {
		return err
	}
	res.Path = req.Path
	return nil
}
