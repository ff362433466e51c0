package ai

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/serenelabs/serenity/internal/config"
	"github.com/serenelabs/serenity/internal/model/chat"
)

// ArkGateway runs completions against Volcengine Ark through an eino chain.
type ArkGateway struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewArkGateway compiles the prompt-template + chat-model chain.
func NewArkGateway(ctx context.Context, cfg config.ArkConfig) (*ArkGateway, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &ArkGateway{chain: runnable}, nil
}

// Complete sends the bounded history plus the new user message and parses the
// structured reply out of the model text.
func (g *ArkGateway) Complete(ctx context.Context, history []chat.ConversationEntry, userText string) (Reply, error) {
	input := map[string]any{
		"system":  SystemPrompt,
		"history": historyMessages(history),
		"query":   userText,
	}

	msg, err := g.chain.Invoke(ctx, input)
	if err != nil {
		return Reply{}, classifyGatewayError(fmt.Errorf("ark completion: %w", err))
	}
	if msg == nil {
		return Reply{}, ErrEmptyReply
	}

	return ParseReply(msg.Content)
}

func historyMessages(history []chat.ConversationEntry) []*schema.Message {
	if len(history) == 0 {
		return nil
	}

	messages := make([]*schema.Message, 0, len(history))
	for _, entry := range history {
		switch entry.Role {
		case string(chat.SpeakerUser):
			messages = append(messages, schema.UserMessage(entry.Content))
		case string(chat.SpeakerAssistant):
			messages = append(messages, schema.AssistantMessage(entry.Content, nil))
		}
	}
	return messages
}
