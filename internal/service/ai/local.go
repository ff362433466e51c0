package ai

import (
	"context"
	"math/rand"

	"github.com/serenelabs/serenity/internal/analysis/sentiment"
	"github.com/serenelabs/serenity/internal/model/chat"
)

// LocalGateway is the degraded-mode provider: the keyword classifier plus the
// canned-response composer, packaged behind the Gateway interface so the
// service keeps answering when no remote credentials are configured.
type LocalGateway struct {
	composer *sentiment.Composer
}

// NewLocalGateway builds the fallback provider. rng may be nil outside tests.
func NewLocalGateway(rng *rand.Rand) *LocalGateway {
	return &LocalGateway{composer: sentiment.NewComposer(rng)}
}

// Complete classifies the user message locally and picks a canned empathetic
// reply. History is ignored; the heuristics are single-message.
func (g *LocalGateway) Complete(_ context.Context, _ []chat.ConversationEntry, userText string) (Reply, error) {
	tag := sentiment.Classify(userText)
	return Reply{Sentiment: tag, Response: g.composer.Compose(tag)}, nil
}
