package models

const (
	MentorshipPending   = "pending"
	MentorshipActive    = "active"
	MentorshipRejected  = "rejected"
	MentorshipCompleted = "completed"
)

type MentorshipStatus struct {
	MentorshipID string `json:"mentorshipId"`
	Status       string `json:"status"`
}
