package admin

type GetComponentsRequest struct{}

type GetComponentsResponse struct {
	Components []ComponentEntry `json:"components"`
}

type ComponentEntry struct {
	ID         int                    `json:"id"`
	Identity   string                 `json:"identity"`
	Selector   string                 `json:"selector"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
}

func (a *AdminSocket) getComponentsHandler(req *GetComponentsRequest, res *GetComponentsResponse) error {
	for _, c := range a.mgr.Components().Components() {
		res.Components = append(res.Components, ComponentEntry{
			ID:         c.ID,
			Identity:   c.Identity,
			Selector:   c.Selector,
			Parameters: c.Parameters,
		})
	}
	return nil
}
