package handlers

import (
	"context"
	"net/http"

	"github.com/mesa-rpg/api/internal/models"
)

// PlayerStore is the storage the player routes need.
type PlayerStore interface {
	ListPlayers(ctx context.Context) ([]models.PlayerSummary, error)
	GetPlayer(ctx context.Context, id int64) (*models.PlayerDetail, error)
	PlayerCharacters(ctx context.Context, id int64) ([]models.PlayerCharacter, error)
	CreatePlayer(ctx context.Context, req models.NewUser) (*models.User, error)
	UpdatePlayer(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error)
	DeletePlayer(ctx context.Context, id int64) (*models.User, error)
}

type PlayerHandler struct {
	store PlayerStore
}

func NewPlayerHandler(store PlayerStore) *PlayerHandler {
	return &PlayerHandler{store: store}
}

func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	players, err := h.store.ListPlayers(r.Context())
	if err != nil {
		respondError(w, r, "Players", err)
		return
	}
	writeJSON(w, http.StatusOK, players)
}

func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, "Players", err)
		return
	}

	player, err := h.store.GetPlayer(r.Context(), id)
	if err != nil {
		respondError(w, r, "Players", err)
		return
	}
	writeJSON(w, http.StatusOK, player)
}

// Characters lists a player's characters, most experienced first.
func (h *PlayerHandler) Characters(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, "Players", err)
		return
	}

	characters, err := h.store.PlayerCharacters(r.Context(), id)
	if err != nil {
		respondError(w, r, "Players", err)
		return
	}
	writeJSON(w, http.StatusOK, characters)
}

// Create inserts a new user with the player role, or attaches the role to
// the user named by user_id.
func (h *PlayerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.NewUser
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, "Players", err)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, r, "Players", err)
		return
	}

	player, err := h.store.CreatePlayer(r.Context(), req)
	if err != nil {
		respondError(w, r, "Players", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"jogador": player})
}

func (h *PlayerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, "Players", err)
		return
	}
	var patch models.UserPatch
	if err := decodeBody(r, &patch); err != nil {
		respondError(w, r, "Players", err)
		return
	}

	player, err := h.store.UpdatePlayer(r.Context(), id, patch)
	if err != nil {
		respondError(w, r, "Players", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"jogador": player})
}

func (h *PlayerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, "Players", err)
		return
	}

	player, err := h.store.DeletePlayer(r.Context(), id)
	if err != nil {
		respondError(w, r, "Players", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Jogador removido",
		"jogador": player,
	})
}
