package exchange

import (
	"context"
	"log"
	"time"

	"github.com/serenelabs/serenity/internal/model/chat"
	"github.com/serenelabs/serenity/internal/service/ai"
	chatservice "github.com/serenelabs/serenity/internal/service/chat"
)

// WindowLimit caps the history sent with each completion.
const WindowLimit = 10

// Outcome is the result of one exchange. NotifyUser is set when the gateway
// failed and the assistant turn is the fixed apology, so the caller can show
// a transient-error indication.
type Outcome struct {
	User       chat.Turn `json:"userTurn"`
	Assistant  chat.Turn `json:"assistantTurn"`
	NotifyUser bool      `json:"notify"`
}

// Service orchestrates one conversational turn: validate, snapshot the
// context window, call the gateway, append the tagged reply. Exchanges are
// single-attempt; every gateway failure resolves to the apology turn.
type Service struct {
	chatSvc *chatservice.Service
	gateway ai.Gateway
	timeout time.Duration
}

// NewService wires the exchange over a conversation service and a gateway.
// timeout bounds the remote call; zero means no bound beyond ctx.
func NewService(chatSvc *chatservice.Service, gateway ai.Gateway, timeout time.Duration) *Service {
	return &Service{chatSvc: chatSvc, gateway: gateway, timeout: timeout}
}

// Run performs one exchange for the session. Validation errors propagate
// untouched with the session unmodified; gateway failures do not.
func (s *Service) Run(ctx context.Context, sessionID, userText string) (Outcome, error) {
	// The outbound history must not contain the turn being exchanged, so the
	// window is captured before the user turn is appended.
	window, err := s.chatSvc.ContextWindow(ctx, sessionID, WindowLimit)
	if err != nil {
		return Outcome{}, err
	}

	userTurn, err := s.chatSvc.AppendUserTurn(ctx, sessionID, userText)
	if err != nil {
		return Outcome{}, err
	}

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	reply, err := s.gateway.Complete(callCtx, window, userTurn.Text)
	if err != nil {
		log.Printf("[exchange] gateway failure for session=%s: %v", sessionID, err)
		return s.fallback(ctx, sessionID, userTurn), nil
	}
	if reply.Response == "" {
		log.Printf("[exchange] empty gateway reply for session=%s", sessionID)
		return s.fallback(ctx, sessionID, userTurn), nil
	}

	assistantTurn, err := s.chatSvc.AppendAssistantTurn(ctx, sessionID, reply.Response, reply.Sentiment)
	if err != nil {
		// Session discarded while the call was in flight; the reply is still
		// returned to the caller, who may ignore it.
		log.Printf("[exchange] failed to record assistant turn for session=%s: %v", sessionID, err)
		assistantTurn = chat.Turn{
			SessionID: sessionID,
			Speaker:   chat.SpeakerAssistant,
			Text:      reply.Response,
			Sentiment: reply.Sentiment,
		}
	}

	return Outcome{User: userTurn, Assistant: assistantTurn}, nil
}

func (s *Service) fallback(ctx context.Context, sessionID string, userTurn chat.Turn) Outcome {
	apology, err := s.chatSvc.AppendAssistantTurn(ctx, sessionID, ai.FallbackResponse, chat.SentimentNeutral)
	if err != nil {
		log.Printf("[exchange] failed to record fallback turn for session=%s: %v", sessionID, err)
		apology = chat.Turn{
			SessionID: sessionID,
			Speaker:   chat.SpeakerAssistant,
			Text:      ai.FallbackResponse,
			Sentiment: chat.SentimentNeutral,
		}
	}
	return Outcome{User: userTurn, Assistant: apology, NotifyUser: true}
}
