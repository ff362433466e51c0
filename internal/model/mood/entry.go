package mood

import "time"

// Entry is one mood check-in. Entries are append-only; there is no
// update or delete anywhere in the product.
type Entry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Emoji     string    `json:"emoji"`
	Label     string    `json:"label"`
	Journal   string    `json:"journal,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Option is one selectable mood in the check-in screen.
type Option struct {
	Emoji string `json:"emoji"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Options provides the fixed mood palette shared by clients and tests.
func Options() []Option {
	return []Option{
		{Emoji: "😊", Label: "Happy", Value: "happy"},
		{Emoji: "😌", Label: "Calm", Value: "calm"},
		{Emoji: "😐", Label: "Neutral", Value: "neutral"},
		{Emoji: "😔", Label: "Sad", Value: "sad"},
		{Emoji: "😰", Label: "Anxious", Value: "anxious"},
		{Emoji: "😢", Label: "Down", Value: "down"},
	}
}
