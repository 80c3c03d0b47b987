package api

import "context"

type CallsAPI struct {
	c Doer
}

func NewCallsAPI(c Doer) *CallsAPI {
	return &CallsAPI{c: c}
}

type CallRoom struct {
	RoomName string `json:"roomName"`
}

func (a *CallsAPI) IssueRoom(ctx context.Context, connectionID string) (*CallRoom, error) {
	var room CallRoom
	body := map[string]string{"connectionId": connectionID}
	if err := a.c.Post(ctx, "/calls/room", body, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (a *CallsAPI) End(ctx context.Context, roomName string) error {
	return a.c.Post(ctx, "/calls/end", map[string]string{"roomName": roomName}, nil)
}
