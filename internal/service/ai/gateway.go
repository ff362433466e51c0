package ai

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/serenelabs/serenity/internal/model/chat"
)

var (
	// ErrRateLimited maps to the gateway's 429 surface.
	ErrRateLimited = errors.New("gateway rate limited")
	// ErrQuotaExceeded maps to the gateway's 402 surface.
	ErrQuotaExceeded = errors.New("gateway quota exhausted")
	// ErrEmptyReply means the call succeeded but carried no usable content.
	ErrEmptyReply = errors.New("gateway returned no content")
)

// Reply is the structured result of one completion: a sentiment tag for the
// user's message plus the companion's response text.
type Reply struct {
	Sentiment chat.Sentiment `json:"sentiment"`
	Response  string         `json:"response"`
}

// Gateway produces one sentiment-tagged reply for a user message given the
// bounded conversation history. Implementations must respect ctx deadlines.
type Gateway interface {
	Complete(ctx context.Context, history []chat.ConversationEntry, userText string) (Reply, error)
}

// ParseReply extracts the structured reply from raw model output. Models are
// asked for a bare JSON object but sometimes wrap it in prose or markdown, so
// the span from the first "{" to the last "}" is tried first. Anything that
// still fails to parse degrades to the raw text with a neutral tag rather
// than an error; only fully empty content is rejected.
func ParseReply(content string) (Reply, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return Reply{}, ErrEmptyReply
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start != -1 && end > start {
		var payload struct {
			Sentiment string `json:"sentiment"`
			Response  string `json:"response"`
		}
		if err := json.Unmarshal([]byte(trimmed[start:end+1]), &payload); err == nil {
			if response := strings.TrimSpace(payload.Response); response != "" {
				tag, ok := chat.ParseSentiment(payload.Sentiment)
				if !ok {
					tag = chat.SentimentNeutral
				}
				return Reply{Sentiment: tag, Response: response}, nil
			}
		}
	}

	return Reply{Sentiment: chat.SentimentNeutral, Response: trimmed}, nil
}

// classifyGatewayError folds provider errors into the shared taxonomy by
// inspecting the message, since the SDKs do not share typed errors.
func classifyGatewayError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "too many requests"):
		return errors.Join(ErrRateLimited, err)
	case strings.Contains(msg, "402") ||
		strings.Contains(msg, "insufficient_quota") ||
		strings.Contains(msg, "payment required") ||
		strings.Contains(msg, "quota"):
		return errors.Join(ErrQuotaExceeded, err)
	default:
		return err
	}
}
