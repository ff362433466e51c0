package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/serenelabs/serenity/internal/model/chat"
)

var (
	ErrEmptyMessage    = errors.New("message text is empty")
	ErrSessionNotFound = errors.New("session not found")
	ErrNegativeLimit   = errors.New("window limit must be >= 0")
)

// Greeting opens every conversation. It carries no sentiment tag.
const Greeting = "Hello, I'm Serenity. I'm here to listen and support you through whatever you're experiencing. This is a safe space — feel free to share anything that's on your mind. How are you feeling today?"

// Service owns conversation state. Turns live in memory for the session's
// lifetime only; nothing here is persisted.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]chat.Session
	turns    map[string][]chat.Turn
}

// NewService bootstraps the in-memory conversation service.
func NewService() *Service {
	return &Service{
		sessions: make(map[string]chat.Session),
		turns:    make(map[string][]chat.Turn),
	}
}

// CreateSession provisions a conversation seeded with the assistant greeting.
func (s *Service) CreateSession(_ context.Context) (chat.Session, error) {
	now := time.Now().UTC()
	session := chat.Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
	}
	greeting := chat.Turn{
		ID:        uuid.NewString(),
		SessionID: session.ID,
		Speaker:   chat.SpeakerAssistant,
		Text:      Greeting,
		CreatedAt: now,
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.turns[session.ID] = append(make([]chat.Turn, 0, 16), greeting)
	s.mu.Unlock()

	return session, nil
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(_ context.Context, sessionID string) (chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return chat.Session{}, ErrSessionNotFound
	}
	return session, nil
}

// AppendUserTurn validates and appends a user turn. Blank input is rejected
// before any state change; the original text is stored untrimmed.
func (s *Service) AppendUserTurn(_ context.Context, sessionID, text string) (chat.Turn, error) {
	if strings.TrimSpace(text) == "" {
		return chat.Turn{}, ErrEmptyMessage
	}

	turn := chat.Turn{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Speaker:   chat.SpeakerUser,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}

	return turn, s.append(turn)
}

// AppendAssistantTurn appends an assistant turn. A missing or out-of-set
// sentiment defaults to neutral.
func (s *Service) AppendAssistantTurn(_ context.Context, sessionID, text string, sentiment chat.Sentiment) (chat.Turn, error) {
	if _, ok := chat.ParseSentiment(string(sentiment)); !ok {
		sentiment = chat.SentimentNeutral
	}

	turn := chat.Turn{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Speaker:   chat.SpeakerAssistant,
		Text:      text,
		Sentiment: sentiment,
		CreatedAt: time.Now().UTC(),
	}

	return turn, s.append(turn)
}

func (s *Service) append(turn chat.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[turn.SessionID]; !ok {
		return ErrSessionNotFound
	}
	s.turns[turn.SessionID] = append(s.turns[turn.SessionID], turn)
	return nil
}

// ContextWindow returns the last limit turns reduced to {role, content},
// oldest first. A read-only projection: it never mutates or reorders.
func (s *Service) ContextWindow(_ context.Context, sessionID string, limit int) ([]chat.ConversationEntry, error) {
	if limit < 0 {
		return nil, ErrNegativeLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	turns, ok := s.turns[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	start := 0
	if len(turns) > limit {
		start = len(turns) - limit
	}

	window := make([]chat.ConversationEntry, 0, len(turns)-start)
	for _, turn := range turns[start:] {
		window = append(window, turn.Entry())
	}
	return window, nil
}

// Transcript returns a copy of every turn in the session, in append order.
func (s *Service) Transcript(_ context.Context, sessionID string) ([]chat.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns, ok := s.turns[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	copied := make([]chat.Turn, len(turns))
	copy(copied, turns)
	return copied, nil
}
