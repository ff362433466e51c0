package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/serenelabs/serenity/internal/config"
	"github.com/serenelabs/serenity/internal/model/chat"
)

// OpenAIGateway talks to any OpenAI-compatible chat-completion endpoint,
// including the hosted gateway the web client originally used. It requests a
// structured reply via a JSON-schema response format.
type OpenAIGateway struct {
	client      openai.Client
	model       string
	temperature *float64
}

type structuredReply struct {
	Sentiment string `json:"sentiment" jsonschema:"required,enum=positive,enum=neutral,enum=negative"`
	Response  string `json:"response" jsonschema:"required"`
}

// NewOpenAIGateway builds the client. BaseURL is optional; when empty the
// SDK default endpoint is used.
func NewOpenAIGateway(cfg config.OpenAIConfig) (*OpenAIGateway, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("openai credentials missing: provide OPENAI_API_KEY and AI_MODEL")
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIGateway{
		client:      openai.NewClient(opts...),
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}, nil
}

// Complete performs one chat completion over system prompt + history + the
// new user message. Single attempt; retry policy belongs to the caller, and
// the caller here never retries.
func (g *OpenAIGateway) Complete(ctx context.Context, history []chat.ConversationEntry, userText string) (Reply, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	messages = append(messages, openai.SystemMessage(SystemPrompt))
	for _, entry := range history {
		switch entry.Role {
		case string(chat.SpeakerUser):
			messages = append(messages, openai.UserMessage(entry.Content))
		case string(chat.SpeakerAssistant):
			messages = append(messages, openai.AssistantMessage(entry.Content))
		}
	}
	messages = append(messages, openai.UserMessage(userText))

	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(g.model),
		Messages: messages,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   "serenity_reply",
					Schema: replySchema(),
					Strict: openai.Bool(true),
				},
			},
		},
	}
	if g.temperature != nil {
		params.Temperature = openai.Float(*g.temperature)
	}

	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return Reply{}, classifyGatewayError(fmt.Errorf("chat completion: %w", err))
	}
	if len(resp.Choices) == 0 {
		return Reply{}, ErrEmptyReply
	}

	// Structured output is still run through the tolerant parser; some
	// compatible gateways ignore response_format.
	return ParseReply(resp.Choices[0].Message.Content)
}

func replySchema() map[string]any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	schema := reflector.Reflect(&structuredReply{})

	raw, err := schema.MarshalJSON()
	if err != nil {
		panic(fmt.Sprintf("reply schema marshal: %v", err))
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		panic(fmt.Sprintf("reply schema decode: %v", err))
	}
	return out
}
