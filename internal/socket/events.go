package socket

import (
	"time"

	"github.com/goccy/go-json"
)

const (
	EventReceiveMessage     = "receive_message"
	EventUserTyping         = "user_typing"
	EventMessagesMarkedRead = "messages_marked_read"
	EventUnreadCount        = "unread_count"
	EventOnlineUsers        = "online_users"
	EventIncomingCall       = "incoming-call"
	EventCallEnded          = "call-ended"

	eventRegister = "register"
)

type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type IncomingMessage struct {
	MessageID string    `json:"messageId"`
	SenderID  string    `json:"senderId"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

type TypingEvent struct {
	UserID   string `json:"userId"`
	IsTyping bool   `json:"isTyping"`
}

type MarkedReadEvent struct {
	UserID string `json:"userId"`
}

type UnreadCountEvent struct {
	Total int `json:"total"`
}

type OnlineUsersEvent struct {
	UserIDs []string `json:"userIds"`
}

type IncomingCallEvent struct {
	FromUserID string `json:"fromUserId"`
	RoomName   string `json:"roomName"`
}

type CallEndedEvent struct {
	RoomName string `json:"roomName"`
}
