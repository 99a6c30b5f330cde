package admin

import "time"

type GetRequestsRequest struct{}

type GetRequestsResponse struct {
	Requests []RequestEntry `json:"requests"`
}

type RequestEntry struct {
	Time    string `json:"time"`
	URI     string `json:"uri"`
	Context string `json:"context"`
	Status  int    `json:"status"`
	Source  string `json:"source"`
}

func (a *AdminSocket) getRequestsHandler(req *GetRequestsRequest, res *GetRequestsResponse) error {
	for _, r := range a.mgr.RecentRequests() {
		res.Requests = append(res.Requests, RequestEntry{
			Time:    r.Time.Format(time.RFC3339),
			URI:     r.URI,
			Context: r.Context,
			Status:  r.Status,
			Source:  r.Source,
		})
	}
	return nil
}
