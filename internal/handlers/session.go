package handlers

import (
	"context"
	"net/http"

	"github.com/mesa-rpg/api/internal/models"
)

// SessionStore is the storage the session routes need.
type SessionStore interface {
	ListSessions(ctx context.Context) ([]models.SessionSummary, error)
	GetSession(ctx context.Context, id int64) (*models.SessionDetail, error)
	CreateSession(ctx context.Context, req models.NewSession) (*models.Session, error)
}

type SessionHandler struct {
	store SessionStore
}

func NewSessionHandler(store SessionStore) *SessionHandler {
	return &SessionHandler{store: store}
}

func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.store.ListSessions(r.Context())
	if err != nil {
		respondError(w, r, "Sessions", err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, "Sessions", err)
		return
	}

	session, err := h.store.GetSession(r.Context(), id)
	if err != nil {
		respondError(w, r, "Sessions", err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.NewSession
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, "Sessions", err)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, r, "Sessions", err)
		return
	}

	session, err := h.store.CreateSession(r.Context(), req)
	if err != nil {
		respondError(w, r, "Sessions", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"sessao": session})
}
