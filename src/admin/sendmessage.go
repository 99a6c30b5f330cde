package admin

import "errors"

type SendMessageRequest struct {
	Message string `json:"message"`
}

type SendMessageResponse struct {
	Sent bool `json:"sent"`
}

func (a *AdminSocket) sendMessageHandler(req *SendMessageRequest, res *SendMessageResponse) error {
	if req.Message == "" {
		return errors.New("required: message")
	}
	a.mgr.SendMessage(req.Message)
	res.Sent = true
	return nil
}
