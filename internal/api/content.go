package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/Jill-Vadsola/study-abroad-sub000/internal/models"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type ListParams struct {
	Page   int
	Limit  int
	Search string
}

func (p ListParams) query() string {
	page := p.Page
	if page <= 0 {
		page = 1
	}
	limit := p.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	values := url.Values{}
	values.Set("page", strconv.Itoa(page))
	values.Set("limit", strconv.Itoa(limit))
	if p.Search != "" {
		values.Set("search", p.Search)
	}
	return "?" + values.Encode()
}

type ContentAPI struct {
	c Doer
}

func NewContentAPI(c Doer) *ContentAPI {
	return &ContentAPI{c: c}
}

func (a *ContentAPI) Events(ctx context.Context, p ListParams) ([]models.Event, error) {
	var result struct {
		Events []models.Event `json:"events"`
	}
	if err := a.c.Get(ctx, "/events"+p.query(), &result); err != nil {
		return nil, err
	}
	return result.Events, nil
}

func (a *ContentAPI) Jobs(ctx context.Context, p ListParams) ([]models.Job, error) {
	var result struct {
		Jobs []models.Job `json:"jobs"`
	}
	if err := a.c.Get(ctx, "/jobs"+p.query(), &result); err != nil {
		return nil, err
	}
	return result.Jobs, nil
}

func (a *ContentAPI) Resources(ctx context.Context, p ListParams) ([]models.Resource, error) {
	var result struct {
		Resources []models.Resource `json:"resources"`
	}
	if err := a.c.Get(ctx, "/resources"+p.query(), &result); err != nil {
		return nil, err
	}
	return result.Resources, nil
}

func (a *ContentAPI) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	if err := a.c.Get(ctx, "/dashboard/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// LogActivity is best-effort: callers log the error and move on, it never
// gates a primary action.
func (a *ContentAPI) LogActivity(ctx context.Context, activity models.Activity) error {
	return a.c.Post(ctx, "/activity", activity, nil)
}
