package admin

import (
	"errors"

	"github.com/porthole-app/porthole-go/src/assets"
)

type SetOverrideRequest struct {
	Path        string `json:"path"`
	Body        string `json:"body,omitempty"`
	Status      int    `json:"status,omitempty"`
	ContentType string `json:"contenttype,omitempty"`
}

type SetOverrideResponse struct {
	Path string `json:"path"`
}

func (a *AdminSocket) setOverrideHandler(req *SetOverrideRequest, res *SetOverrideResponse) error {
	if req.Path == "" {
		return errors.New("required: path")
	}
	ov := assets.Override{Status: req.Status}
	if req.Body != "" {
		ov.Body = []byte(req.Body)
	}
	if req.ContentType != "" {
		ov.Headers = map[string]string{"Content-Type": req.ContentType}
	}
	if err := a.mgr.SetOverride(req.Path, ov); err != nil {
		return err
	}
	res.Path = req.Path
	return nil
}
