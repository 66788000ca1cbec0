package handlers

import (
	"context"
	"net/http"

	"github.com/mesa-rpg/api/internal/models"
)

// CharacterStore is the storage the character routes need.
type CharacterStore interface {
	ListCharacters(ctx context.Context, filter models.CharacterFilter) ([]models.CharacterSummary, error)
	GetCharacter(ctx context.Context, id int64) (*models.CharacterDetail, error)
	CreateCharacter(ctx context.Context, req models.NewCharacter) (*models.Character, error)
	UpdateCharacter(ctx context.Context, id int64, patch models.CharacterPatch) (*models.Character, error)
	DeleteCharacter(ctx context.Context, id int64) (*models.Character, error)
}

type CharacterHandler struct {
	store CharacterStore
}

func NewCharacterHandler(store CharacterStore) *CharacterHandler {
	return &CharacterHandler{store: store}
}

// List returns characters, optionally filtered by name, race and class.
func (h *CharacterHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := models.CharacterFilter{Name: r.URL.Query().Get("nome")}
	var err error
	if filter.RaceID, err = queryID(r, "raca_id"); err != nil {
		respondError(w, r, "Characters", err)
		return
	}
	if filter.ClassID, err = queryID(r, "classe_id"); err != nil {
		respondError(w, r, "Characters", err)
		return
	}

	characters, err := h.store.ListCharacters(r.Context(), filter)
	if err != nil {
		respondError(w, r, "Characters", err)
		return
	}
	writeJSON(w, http.StatusOK, characters)
}

// Get returns one character with its race, class and specialization.
func (h *CharacterHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, "Characters", err)
		return
	}

	character, err := h.store.GetCharacter(r.Context(), id)
	if err != nil {
		respondError(w, r, "Characters", err)
		return
	}
	writeJSON(w, http.StatusOK, character)
}

// Create creates a character, its optional specialization and its inventory.
func (h *CharacterHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.NewCharacter
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, "Characters", err)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, r, "Characters", err)
		return
	}

	character, err := h.store.CreateCharacter(r.Context(), req)
	if err != nil {
		respondError(w, r, "Characters", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"personagem": character})
}

// Update applies a partial update; omitted fields keep their value.
func (h *CharacterHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, "Characters", err)
		return
	}
	var patch models.CharacterPatch
	if err := decodeBody(r, &patch); err != nil {
		respondError(w, r, "Characters", err)
		return
	}

	character, err := h.store.UpdateCharacter(r.Context(), id, patch)
	if err != nil {
		respondError(w, r, "Characters", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"personagem": character})
}

// Delete removes a character and everything hanging off it.
func (h *CharacterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, "Characters", err)
		return
	}

	character, err := h.store.DeleteCharacter(r.Context(), id)
	if err != nil {
		respondError(w, r, "Characters", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "Personagem removido",
		"personagem": character,
	})
}
