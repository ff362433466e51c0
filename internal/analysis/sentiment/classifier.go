package sentiment

import (
	"strings"

	"github.com/serenelabs/serenity/internal/model/chat"
)

// Keyword lists for the degraded-mode classifier. Each list word counts at
// most once per message, regardless of how often it occurs.
var positiveWords = []string{
	"happy", "good", "great", "wonderful", "excited", "love", "grateful",
	"thankful", "joy", "amazing", "better", "hope", "hopeful",
}

var negativeWords = []string{
	"sad", "angry", "upset", "depressed", "anxious", "worried", "stressed",
	"tired", "exhausted", "lonely", "scared", "hurt", "pain", "bad",
	"terrible", "awful",
}

// Classify tags text as positive, neutral, or negative by comparing keyword
// hits from the two fixed lists. Ties, including empty input, are neutral.
// Used only when the remote model is unavailable.
func Classify(text string) chat.Sentiment {
	lower := strings.ToLower(text)

	positive := countHits(lower, positiveWords)
	negative := countHits(lower, negativeWords)

	switch {
	case positive > negative:
		return chat.SentimentPositive
	case negative > positive:
		return chat.SentimentNegative
	default:
		return chat.SentimentNeutral
	}
}

func countHits(lower string, words []string) int {
	hits := 0
	for _, word := range words {
		if strings.Contains(lower, word) {
			hits++
		}
	}
	return hits
}
