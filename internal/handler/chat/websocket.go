package chat

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	chatservice "github.com/serenelabs/serenity/internal/service/chat"
	"github.com/serenelabs/serenity/pkg/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type wsInbound struct {
	Content string `json:"content"`
}

type wsOutbound struct {
	Type      string `json:"type"`
	Error     string `json:"error,omitempty"`
	Outcome   any    `json:"outcome,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// handleWebSocket runs the same one-turn exchange per inbound frame. Frames
// are processed sequentially, so a session never has two exchanges in flight.
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if _, err := h.chatSvc.GetSession(r.Context(), sessionID); err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed for session=%s: %v", sessionID, err)
		return
	}
	defer conn.Close()

	log.Printf("[ws] connection opened for session=%s", sessionID)

	for {
		var inbound wsInbound
		if err := conn.ReadJSON(&inbound); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] read error for session=%s: %v", sessionID, err)
			}
			return
		}

		outcome, err := h.exchangeSvc.Run(r.Context(), sessionID, inbound.Content)
		if err != nil {
			message := "exchange failed"
			if errors.Is(err, chatservice.ErrEmptyMessage) {
				message = "message text is empty"
			}
			h.writeWS(conn, sessionID, wsOutbound{
				Type:      "error",
				Error:     message,
				Timestamp: time.Now().UnixMilli(),
			})
			continue
		}

		h.writeWS(conn, sessionID, wsOutbound{
			Type:      "reply",
			Outcome:   outcome,
			Timestamp: time.Now().UnixMilli(),
		})
	}
}

func (h *Handler) writeWS(conn *websocket.Conn, sessionID string, msg wsOutbound) {
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("[ws] write error for session=%s: %v", sessionID, err)
	}
}
