package chat

import (
	"strings"
	"time"
)

// Speaker identifies who authored a turn.
type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

// Sentiment is the three-way emotional tag attached to assistant turns.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// ParseSentiment maps raw model output onto the closed sentiment set.
func ParseSentiment(raw string) (Sentiment, bool) {
	switch Sentiment(strings.ToLower(strings.TrimSpace(raw))) {
	case SentimentPositive:
		return SentimentPositive, true
	case SentimentNeutral:
		return SentimentNeutral, true
	case SentimentNegative:
		return SentimentNegative, true
	default:
		return "", false
	}
}

// Turn is one message in a conversation. Turns are immutable once created.
type Turn struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Speaker   Speaker   `json:"speaker"`
	Text      string    `json:"text"`
	Sentiment Sentiment `json:"sentiment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ConversationEntry is the reduced {role, content} projection of a turn
// used as model context and on the proxy wire.
type ConversationEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Entry reduces a turn to its conversation-window projection.
func (t Turn) Entry() ConversationEntry {
	return ConversationEntry{Role: string(t.Speaker), Content: t.Text}
}
