package mood

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/serenelabs/serenity/internal/auth"
	"github.com/serenelabs/serenity/internal/model/mood"
	"github.com/serenelabs/serenity/internal/store"
	"github.com/serenelabs/serenity/pkg/utils"
)

// The client displays 5 recent check-ins out of at most 50 fetched.
const (
	defaultListLimit = 50
	maxListLimit     = 50
)

// Handler serves mood check-ins for the authenticated user.
type Handler struct {
	moods store.MoodStore
}

// New creates the mood handler.
func New(moods store.MoodStore) *Handler {
	return &Handler{moods: moods}
}

// RegisterRoutes mounts the mood routes. They require auth middleware.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/moods", h.handleList)
	r.Post("/moods", h.handleCreate)
	r.Get("/moods/options", h.handleOptions)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			utils.RespondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
		if limit > maxListLimit {
			limit = maxListLimit
		}
	}

	entries, err := h.moods.List(r.Context(), userID, limit)
	if err != nil {
		log.Printf("[mood] list failed for user=%s: %v", userID, err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to load mood history")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var payload struct {
		Emoji   string `json:"emoji"`
		Label   string `json:"label"`
		Journal string `json:"journal"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	payload.Emoji = strings.TrimSpace(payload.Emoji)
	payload.Label = strings.TrimSpace(payload.Label)
	if payload.Emoji == "" || payload.Label == "" {
		utils.RespondError(w, http.StatusBadRequest, "emoji and label are required")
		return
	}

	entry, err := h.moods.Insert(r.Context(), mood.Entry{
		UserID:  userID,
		Emoji:   payload.Emoji,
		Label:   payload.Label,
		Journal: strings.TrimSpace(payload.Journal),
	})
	if err != nil {
		log.Printf("[mood] insert failed for user=%s: %v", userID, err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to save mood check-in")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, entry)
}

func (h *Handler) handleOptions(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{"options": mood.Options()})
}
