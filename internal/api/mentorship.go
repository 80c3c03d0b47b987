package api

import (
	"context"

	"github.com/Jill-Vadsola/study-abroad-sub000/internal/models"
)

type MentorshipAPI struct {
	c Doer
}

func NewMentorshipAPI(c Doer) *MentorshipAPI {
	return &MentorshipAPI{c: c}
}

type ApplyRequest struct {
	ConnectionID string `json:"connectionId"`
	Goals        string `json:"goals"`
	Message      string `json:"message,omitempty"`
}

// ApplyResult carries the application id plus the payment intent client
// secret the card confirmation runs against.
type ApplyResult struct {
	ApplicationID string `json:"applicationId"`
	ClientSecret  string `json:"clientSecret"`
}

func (a *MentorshipAPI) Status(ctx context.Context, connectionID string) (*models.MentorshipStatus, error) {
	var result models.MentorshipStatus
	if err := a.c.Get(ctx, "/mentorship/status/"+connectionID, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *MentorshipAPI) Apply(ctx context.Context, req ApplyRequest) (*ApplyResult, error) {
	if err := validateRequired("connectionId", req.ConnectionID); err != nil {
		return nil, err
	}
	if err := validateRequired("goals", req.Goals); err != nil {
		return nil, err
	}

	var result ApplyResult
	if err := a.c.Post(ctx, "/mentorship/apply", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *MentorshipAPI) Finalize(ctx context.Context, applicationID, paymentIntentID string) error {
	body := map[string]string{"paymentIntentId": paymentIntentID}
	return a.c.Post(ctx, "/mentorship/"+applicationID+"/finalize", body, nil)
}
