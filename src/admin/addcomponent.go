package admin

type AddComponentRequest struct {
	Identity   string                 `json:"identity"`
	Selector   string                 `json:"selector"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
}

type AddComponentResponse struct {
	Component ComponentEntry `json:"component"`
}

func (a *AdminSocket) addComponentHandler(req *AddComponentRequest, res *AddComponentResponse) error {
	c, err := a.mgr.Components().Add(req.Identity, req.Selector, req.Parameters)
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
