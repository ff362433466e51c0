package chat

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/serenelabs/serenity/internal/model/chat"
	"github.com/serenelabs/serenity/internal/service/ai"
	chatservice "github.com/serenelabs/serenity/internal/service/chat"
	"github.com/serenelabs/serenity/internal/service/exchange"
	"github.com/serenelabs/serenity/pkg/utils"
)

// Handler serves the chat surface: the stateless gateway proxy plus the
// session-based conversation endpoints.
type Handler struct {
	chatSvc     *chatservice.Service
	exchangeSvc *exchange.Service
	gateway     ai.Gateway
}

// New creates the chat handler.
func New(chatSvc *chatservice.Service, exchangeSvc *exchange.Service, gateway ai.Gateway) *Handler {
	return &Handler{chatSvc: chatSvc, exchangeSvc: exchangeSvc, gateway: gateway}
}

// RegisterRoutes mounts the chat routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleProxyChat)
	r.Post("/session", h.handleCreateSession)
	r.Get("/session/{sessionID}", h.handleTranscript)
	r.Post("/session/{sessionID}/messages", h.handleSendMessage)
	r.Get("/session/{sessionID}/ws", h.handleWebSocket)
}

type proxyRequest struct {
	Message             string                   `json:"message"`
	ConversationHistory []chat.ConversationEntry `json:"conversationHistory"`
}

type proxyResponse struct {
	Sentiment chat.Sentiment `json:"sentiment"`
	Response  string         `json:"response"`
}

// handleProxyChat is the stateless proxy: the client owns the history, the
// server forwards message + bounded history to the gateway. Error paths match
// the published contract, including the displayable payload on 500.
func (h *Handler) handleProxyChat(w http.ResponseWriter, r *http.Request) {
	var payload proxyRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(payload.Message) == "" {
		utils.RespondError(w, http.StatusBadRequest, "message is required")
		return
	}

	history := payload.ConversationHistory
	if len(history) > exchange.WindowLimit {
		history = history[len(history)-exchange.WindowLimit:]
	}

	reply, err := h.gateway.Complete(r.Context(), history, payload.Message)
	switch {
	case errors.Is(err, ai.ErrRateLimited):
		utils.RespondError(w, http.StatusTooManyRequests, ai.RateLimitedMessage)
	case errors.Is(err, ai.ErrQuotaExceeded):
		utils.RespondError(w, http.StatusPaymentRequired, ai.QuotaMessage)
	case err != nil:
		// Total failure still returns something the client can display.
		utils.RespondJSON(w, http.StatusInternalServerError, map[string]any{
			"error":     "failed to get AI response",
			"sentiment": chat.SentimentNeutral,
			"response":  ai.FallbackResponse,
		})
	default:
		utils.RespondJSON(w, http.StatusOK, proxyResponse{Sentiment: reply.Sentiment, Response: reply.Response})
	}
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.chatSvc.CreateSession(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	turns, err := h.chatSvc.Transcript(r.Context(), session.ID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]any{
		"session": session,
		"turns":   turns,
	})
}

func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	turns, err := h.chatSvc.Transcript(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{"turns": turns})
}

func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var payload struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	outcome, err := h.exchangeSvc.Run(r.Context(), sessionID, payload.Content)
	switch {
	case errors.Is(err, chatservice.ErrEmptyMessage):
		utils.RespondError(w, http.StatusBadRequest, "message text is empty")
	case errors.Is(err, chatservice.ErrSessionNotFound):
		utils.RespondError(w, http.StatusNotFound, "session not found")
	case err != nil:
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
	default:
		utils.RespondJSON(w, http.StatusOK, outcome)
	}
}
