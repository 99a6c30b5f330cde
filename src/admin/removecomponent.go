package admin

import (
	"errors"

	"github.com/porthole-app/porthole-go/src/components"
)

type RemoveComponentRequest struct {
	ID       int    `json:"id,omitempty"`
	Selector string `json:"selector,omitempty"`
}

type RemoveComponentResponse struct {
	Component ComponentEntry `json:"component"`
}

func (a *AdminSocket) removeComponentHandler(req *RemoveComponentRequest, res *RemoveComponentResponse) error {
	var c components.RootComponent
	var err error
	switch {
	case req.Selector != "":
		c, err = a.mgr.Components().RemoveBySelector(req.Selector)
	case req.ID != 0:
		c, err = a.mgr.Components().Remove(req.ID)
	default:
		return errors.New("required: id or selector")
	}
	if err != nil {
		return err
	}
	res.Component = ComponentEntry{
		ID:         c.ID,
		Identity:   c.Identity,
		Selector:   c.Selector,
		Parameters: c.Parameters,
	}
	return nil
}
