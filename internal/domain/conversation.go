package domain

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is uniquely identified by its participant set. Participants
// are kept sorted and deduplicated so set equality reduces to slice
// equality and the store can enforce uniqueness on the normalized key.
type Conversation struct {
	ID            uuid.UUID         `json:"id"`
	Participants  []string          `json:"participants"`
	LastMessage   string            `json:"last_message"`
	LastMessageAt time.Time         `json:"last_message_at"`
	AvatarMap     map[string]string `json:"avatar_map"`
	CreatedAt     time.Time         `json:"created_at"`
}

// HasParticipant reports whether username belongs to the conversation.
func (c *Conversation) HasParticipant(username string) bool {
	for _, p := range c.Participants {
		if p == username {
			return true
		}
	}
	return false
}

// Message belongs to exactly one conversation and is immutable once
// created. Seq is assigned by the store and breaks ties between messages
// sharing a creation timestamp.
type Message struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	Sender         string    `json:"sender"`
	Text           string    `json:"text"`
	Seq            int64     `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}
