// internal/models/chat.go
package models

import "time"

type ChatMessage struct {
	ID         string    `json:"_id,omitempty"`
	ChatID     string    `json:"chatId"`
	SenderID   string    `json:"senderId,omitempty"`
	ReceiverID string    `json:"receiverId,omitempty"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt,omitempty"`
}

type ChatRoom struct {
	ChatID string `json:"chatId"`
}

type TypingEvent struct {
	ChatID string `json:"chatId"`
	UserID string `json:"userId,omitempty"`
}

type ReadReceipt struct {
	ChatID     string   `json:"chatId"`
	UserID     string   `json:"userId,omitempty"`
	MessageIDs []string `json:"messageIds,omitempty"`
}

type PresenceEvent struct {
	UserID   string     `json:"userId"`
	Online   bool       `json:"online"`
	LastSeen *time.Time `json:"lastSeen,omitempty"`
}

type OnlineUsers struct {
	UserIDs []string `json:"userIds"`
}
