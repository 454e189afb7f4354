package models

import "time"

// Transcript roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single transcript entry. Insertion order is significant
// and append-only.
type Message struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Session owns one conversation: an ordered transcript and exactly one
// booking record. Created on first reference to an unseen session id.
type Session struct {
	ID        string         `json:"id"`
	Messages  []Message      `json:"messages"`
	Booking   *BookingRecord `json:"booking"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}
