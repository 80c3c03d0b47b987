package models

import "time"

const (
	ConnectionPending  = "pending"
	ConnectionAccepted = "accepted"
	ConnectionRejected = "rejected"
	ConnectionBlocked  = "blocked"
)

type Connection struct {
	ID             string      `json:"id"`
	Status         string      `json:"status"`
	OtherUser      UserSummary `json:"otherUser"`
	ConnectionType string      `json:"connectionType"`
	Message        string      `json:"message,omitempty"`
	RequestedAt    time.Time   `json:"requestedAt"`
	RespondedAt    *time.Time  `json:"respondedAt,omitempty"`
	IsFromUser     bool        `json:"isFromUser"`
}

type ConnectionLists struct {
	Connections []Connection `json:"connections"`
	Pending     []Connection `json:"pending"`
	Sent        []Connection `json:"sent"`
	Potential   []Connection `json:"potential"`
}

// CardState is the derived, display-only state of a connection card. The
// server owns the status transitions; the client only picks which actions
// to offer.
type CardState string

const (
	CardPendingIncoming     CardState = "pending-incoming"
	CardPendingOutgoing     CardState = "pending-outgoing"
	CardAcceptedNoMentor    CardState = "accepted-no-mentorship"
	CardAcceptedMentorship  CardState = "accepted-mentorship-pending-or-active"
	CardAcceptedOtherEntity CardState = "accepted-other-entity-type"
)
