package api

import (
	"context"

	"github.com/Jill-Vadsola/study-abroad-sub000/internal/models"
)

type ConnectionsAPI struct {
	c Doer
}

func NewConnectionsAPI(c Doer) *ConnectionsAPI {
	return &ConnectionsAPI{c: c}
}

// Lists fetches all four connection lists in one call: accepted,
// pending (incoming), sent (outgoing), and potential matches.
func (a *ConnectionsAPI) Lists(ctx context.Context) (*models.ConnectionLists, error) {
	var result models.ConnectionLists
	if err := a.c.Get(ctx, "/connections", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *ConnectionsAPI) Request(ctx context.Context, userID, connectionType, message string) error {
	body := map[string]string{
		"userId":         userID,
		"connectionType": connectionType,
		"message":        message,
	}
	return a.c.Post(ctx, "/connections", body, nil)
}

func (a *ConnectionsAPI) Accept(ctx context.Context, connectionID string) error {
	return a.c.Put(ctx, "/connections/"+connectionID+"/accept", nil, nil)
}

func (a *ConnectionsAPI) Reject(ctx context.Context, connectionID string) error {
	return a.c.Put(ctx, "/connections/"+connectionID+"/reject", nil, nil)
}

func (a *ConnectionsAPI) Cancel(ctx context.Context, connectionID string) error {
	return a.c.Delete(ctx, "/connections/"+connectionID+"/request", nil)
}

func (a *ConnectionsAPI) Block(ctx context.Context, connectionID string) error {
	return a.c.Put(ctx, "/connections/"+connectionID+"/block", nil, nil)
}

func (a *ConnectionsAPI) Remove(ctx context.Context, connectionID string) error {
	return a.c.Delete(ctx, "/connections/"+connectionID, nil)
}
