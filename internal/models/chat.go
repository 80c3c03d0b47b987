package models

import "time"

type ChatMessage struct {
	ID        string    `json:"id"`
	SenderID  string    `json:"senderId"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	IsOwn     bool      `json:"isOwn"`
	IsRead    bool      `json:"isRead"`
	Pending   bool      `json:"-"`
}

type ConversationSummary struct {
	UserID          string    `json:"userId"`
	Name            string    `json:"name"`
	AvatarURL       string    `json:"avatarUrl,omitempty"`
	University      string    `json:"university,omitempty"`
	LastMessage     string    `json:"lastMessage,omitempty"`
	LastMessageTime time.Time `json:"lastMessageTime,omitempty"`
	UnreadCount     int       `json:"unreadCount"`
	IsOnline        bool      `json:"isOnline"`
	IsTyping        bool      `json:"-"`
}
