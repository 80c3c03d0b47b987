package models

import "time"

type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	StartsAt    time.Time `json:"startsAt"`
	IsVirtual   bool      `json:"isVirtual"`
}

type Job struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Company  string    `json:"company"`
	Location string    `json:"location,omitempty"`
	PostedAt time.Time `json:"postedAt"`
	ApplyURL string    `json:"applyUrl,omitempty"`
}

type Resource struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category,omitempty"`
	URL      string `json:"url"`
}

type DashboardStats struct {
	Connections    int `json:"connections"`
	PendingInvites int `json:"pendingInvites"`
	UnreadMessages int `json:"unreadMessages"`
	UpcomingEvents int `json:"upcomingEvents"`
}

type Activity struct {
	Type      string    `json:"type"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
