package sentiment

import (
	"testing"

	"github.com/serenelabs/serenity/internal/model/chat"
)

func TestClassifyNegativeOnlyWords(t *testing.T) {
	got := Classify("I feel sad and lonely, so tired of everything")
	if got != chat.SentimentNegative {
		t.Fatalf("expected negative, got %s", got)
	}
}

func TestClassifyPositiveOnlyWords(t *testing.T) {
	got := Classify("Feeling grateful and hopeful today, things are great")
	if got != chat.SentimentPositive {
		t.Fatalf("expected positive, got %s", got)
	}
}

func TestClassifyBalancedCountsAreNeutral(t *testing.T) {
	// One hit from each list.
	got := Classify("a good day after a bad morning")
	if got != chat.SentimentNeutral {
		t.Fatalf("expected neutral for tied counts, got %s", got)
	}
}

func TestClassifyEmptyInput(t *testing.T) {
	if got := Classify(""); got != chat.SentimentNeutral {
		t.Fatalf("expected neutral for empty input, got %s", got)
	}
}

func TestClassifyIsCaseInsensitive(t *testing.T) {
	if got := Classify("WONDERFUL, AMAZING"); got != chat.SentimentPositive {
		t.Fatalf("expected positive for upper-case input, got %s", got)
	}
}
