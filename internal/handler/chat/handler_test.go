package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	model "github.com/serenelabs/serenity/internal/model/chat"
	"github.com/serenelabs/serenity/internal/service/ai"
	chatservice "github.com/serenelabs/serenity/internal/service/chat"
	"github.com/serenelabs/serenity/internal/service/exchange"
)

type stubGateway struct {
	reply ai.Reply
	err   error
}

func (g *stubGateway) Complete(context.Context, []model.ConversationEntry, string) (ai.Reply, error) {
	if g.err != nil {
		return ai.Reply{}, g.err
	}
	return g.reply, nil
}

func setupRouter(gw ai.Gateway) (*chi.Mux, *chatservice.Service) {
	chatSvc := chatservice.NewService()
	exchangeSvc := exchange.NewService(chatSvc, gw, time.Second)
	handler := New(chatSvc, exchangeSvc, gw)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, chatSvc
}

func postJSON(r http.Handler, path string, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestProxyChatSuccess(t *testing.T) {
	r, _ := setupRouter(&stubGateway{reply: ai.Reply{Sentiment: model.SentimentPositive, Response: "Great!"}})

	resp := postJSON(r, "/chat", map[string]any{
		"message": "I had a lovely day",
		"conversationHistory": []model.ConversationEntry{
			{Role: "assistant", Content: "How are you feeling today?"},
		},
	})

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		Sentiment string `json:"sentiment"`
		Response  string `json:"response"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Sentiment != "positive" || body.Response != "Great!" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestProxyChatEmptyMessage(t *testing.T) {
	r, _ := setupRouter(&stubGateway{})

	resp := postJSON(r, "/chat", map[string]string{"message": "   "})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestProxyChatRateLimited(t *testing.T) {
	r, _ := setupRouter(&stubGateway{err: fmt.Errorf("call: %w", ai.ErrRateLimited)})

	resp := postJSON(r, "/chat", map[string]string{"message": "hello"})
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.Code)
	}

	var body map[string]string
	json.Unmarshal(resp.Body.Bytes(), &body)
	if body["error"] != ai.RateLimitedMessage {
		t.Fatalf("unexpected error body: %v", body)
	}
}

func TestProxyChatQuotaExceeded(t *testing.T) {
	r, _ := setupRouter(&stubGateway{err: fmt.Errorf("call: %w", ai.ErrQuotaExceeded)})

	resp := postJSON(r, "/chat", map[string]string{"message": "hello"})
	if resp.Code != http.StatusPaymentRequired {
		t.Fatalf("expected 402, got %d", resp.Code)
	}
}

func TestProxyChatFailureStillCarriesFallbackPayload(t *testing.T) {
	r, _ := setupRouter(&stubGateway{err: errors.New("connection refused")})

	resp := postJSON(r, "/chat", map[string]string{"message": "hello"})
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}

	var body struct {
		Error     string `json:"error"`
		Sentiment string `json:"sentiment"`
		Response  string `json:"response"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Error == "" {
		t.Fatal("500 body must include an error")
	}
	if body.Sentiment != "neutral" || body.Response != ai.FallbackResponse {
		t.Fatalf("500 body must carry the displayable fallback, got %+v", body)
	}
}

func TestSessionMessageFlow(t *testing.T) {
	r, _ := setupRouter(&stubGateway{reply: ai.Reply{Sentiment: model.SentimentNegative, Response: "I'm sorry."}})

	created := postJSON(r, "/session", nil)
	if created.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", created.Code)
	}

	var createdBody struct {
		Session model.Session `json:"session"`
		Turns   []model.Turn  `json:"turns"`
	}
	if err := json.Unmarshal(created.Body.Bytes(), &createdBody); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if len(createdBody.Turns) != 1 || createdBody.Turns[0].Speaker != model.SpeakerAssistant {
		t.Fatalf("expected the greeting turn, got %+v", createdBody.Turns)
	}

	resp := postJSON(r, "/session/"+createdBody.Session.ID+"/messages", map[string]string{"content": "rough week"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var outcome exchange.Outcome
	if err := json.Unmarshal(resp.Body.Bytes(), &outcome); err != nil {
		t.Fatalf("decode outcome: %v", err)
	}
	if outcome.NotifyUser {
		t.Fatal("success must not set notify")
	}
	if outcome.Assistant.Sentiment != model.SentimentNegative || outcome.Assistant.Text != "I'm sorry." {
		t.Fatalf("unexpected assistant turn: %+v", outcome.Assistant)
	}

	transcript := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/session/"+createdBody.Session.ID, nil)
	r.ServeHTTP(transcript, req)
	if transcript.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", transcript.Code)
	}

	var transcriptBody struct {
		Turns []model.Turn `json:"turns"`
	}
	if err := json.Unmarshal(transcript.Body.Bytes(), &transcriptBody); err != nil {
		t.Fatalf("decode transcript: %v", err)
	}
	if len(transcriptBody.Turns) != 3 {
		t.Fatalf("expected greeting + exchange, got %d turns", len(transcriptBody.Turns))
	}
}

func TestSessionMessageEmptyContent(t *testing.T) {
	r, _ := setupRouter(&stubGateway{})

	created := postJSON(r, "/session", nil)
	var createdBody struct {
		Session model.Session `json:"session"`
	}
	json.Unmarshal(created.Body.Bytes(), &createdBody)

	resp := postJSON(r, "/session/"+createdBody.Session.ID+"/messages", map[string]string{"content": ""})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestSessionMessageUnknownSession(t *testing.T) {
	r, _ := setupRouter(&stubGateway{})

	resp := postJSON(r, "/session/does-not-exist/messages", map[string]string{"content": "hello"})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
