package chat

import "time"

// Session captures a transient in-memory conversation.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}
