package sentiment

import (
	"math/rand"
	"time"

	"github.com/serenelabs/serenity/internal/model/chat"
)

var templates = map[chat.Sentiment][]string{
	chat.SentimentPositive: {
		"I'm so glad to hear that! It's wonderful when we can recognize and celebrate the good moments in our lives. What do you think contributed to this positive feeling?",
		"That's beautiful to hear. Positive emotions are worth savoring. Would you like to tell me more about what's bringing you joy?",
		"How lovely! It sounds like things are going well. Remember to take a moment to appreciate these feelings.",
	},
	chat.SentimentNeutral: {
		"Thank you for sharing that with me. I'm here to listen whenever you need to talk. Is there anything specific on your mind today?",
		"I appreciate you opening up. Sometimes just expressing our thoughts can bring clarity. How are you feeling about things overall?",
		"I hear you. It's okay to just be present with whatever you're experiencing right now. Would you like to explore any particular thoughts?",
	},
	chat.SentimentNegative: {
		"I'm really sorry you're going through this. Your feelings are valid, and it takes courage to express them. I'm here with you. Would you like to tell me more?",
		"That sounds really difficult, and I want you to know that it's okay to feel this way. You don't have to face these feelings alone. What would feel most supportive right now?",
		"I hear you, and I'm truly sorry you're experiencing this. Remember, seeking support is a sign of strength. Let's take this one moment at a time together.",
	},
}

// Templates returns a copy of the canned responses for a sentiment. Unknown
// sentiments fall back to the neutral set.
func Templates(s chat.Sentiment) []string {
	set, ok := templates[s]
	if !ok {
		set = templates[chat.SentimentNeutral]
	}
	return append([]string(nil), set...)
}

// Composer picks an empathetic canned reply for a sentiment. Selection is
// uniform over the sentiment's fixed template set.
type Composer struct {
	rng *rand.Rand
}

// NewComposer returns a Composer driven by rng. A nil rng gets a time-seeded
// source; tests inject a seeded one.
func NewComposer(rng *rand.Rand) *Composer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Composer{rng: rng}
}

// Compose returns one of the sentiment's canned responses.
func (c *Composer) Compose(s chat.Sentiment) string {
	set, ok := templates[s]
	if !ok {
		set = templates[chat.SentimentNeutral]
	}
	return set[c.rng.Intn(len(set))]
}
