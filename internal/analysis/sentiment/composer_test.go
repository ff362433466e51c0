package sentiment

import (
	"math/rand"
	"testing"

	"github.com/serenelabs/serenity/internal/model/chat"
)

func TestComposeStaysInsideTemplateSet(t *testing.T) {
	composer := NewComposer(rand.New(rand.NewSource(1)))

	for _, s := range []chat.Sentiment{chat.SentimentPositive, chat.SentimentNeutral, chat.SentimentNegative} {
		allowed := make(map[string]bool)
		for _, tmpl := range Templates(s) {
			allowed[tmpl] = true
		}
		for i := 0; i < 100; i++ {
			if reply := composer.Compose(s); !allowed[reply] {
				t.Fatalf("compose(%s) returned text outside the template set: %q", s, reply)
			}
		}
	}
}

func TestComposeEventuallyUsesEveryTemplate(t *testing.T) {
	composer := NewComposer(rand.New(rand.NewSource(42)))

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		seen[composer.Compose(chat.SentimentNegative)] = true
	}

	for _, tmpl := range Templates(chat.SentimentNegative) {
		if !seen[tmpl] {
			t.Fatalf("template never selected in 1000 draws: %q", tmpl)
		}
	}
}

func TestComposeUnknownSentimentFallsBackToNeutral(t *testing.T) {
	composer := NewComposer(rand.New(rand.NewSource(7)))

	allowed := make(map[string]bool)
	for _, tmpl := range Templates(chat.SentimentNeutral) {
		allowed[tmpl] = true
	}
	if reply := composer.Compose(chat.Sentiment("confused")); !allowed[reply] {
		t.Fatalf("unknown sentiment should use neutral templates, got %q", reply)
	}
}
