package handlers

import (
	"context"
	"net/http"

	"github.com/mesa-rpg/api/internal/models"
)

// CatalogStore is the storage behind the read-only class, race and NPC
// routes.
type CatalogStore interface {
	ListClasses(ctx context.Context) ([]models.Class, error)
	GetClass(ctx context.Context, id int64) (*models.Class, error)
	ListRaces(ctx context.Context) ([]models.Race, error)
	GetRace(ctx context.Context, id int64) (*models.Race, error)
	ListNPCs(ctx context.Context, npcType string) ([]models.NPCSummary, error)
	NPCsByMaster(ctx context.Context, masterID int64) ([]models.MasterNPC, error)
	GetNPC(ctx context.Context, id int64) (*models.NPCDetail, error)
}

type CatalogHandler struct {
	store CatalogStore
}

func NewCatalogHandler(store CatalogStore) *CatalogHandler {
	return &CatalogHandler{store: store}
}

func (h *CatalogHandler) ListClasses(w http.ResponseWriter, r *http.Request) {
	classes, err := h.store.ListClasses(r.Context())
	if err != nil {
		respondError(w, r, "Classes", err)
		return
	}
	writeJSON(w, http.StatusOK, classes)
}

func (h *CatalogHandler) GetClass(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, "Classes", err)
		return
	}

	class, err := h.store.GetClass(r.Context(), id)
	if err != nil {
		respondError(w, r, "Classes", err)
		return
	}
	writeJSON(w, http.StatusOK, class)
}

func (h *CatalogHandler) ListRaces(w http.ResponseWriter, r *http.Request) {
	races, err := h.store.ListRaces(r.Context())
	if err != nil {
		respondError(w, r, "Races", err)
		return
	}
	writeJSON(w, http.StatusOK, races)
}

func (h *CatalogHandler) GetRace(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, "Races", err)
		return
	}

	race, err := h.store.GetRace(r.Context(), id)
	if err != nil {
		respondError(w, r, "Races", err)
		return
	}
	writeJSON(w, http.StatusOK, race)
}

// ListNPCs lists NPCs, optionally filtered by ?tipo=.
func (h *CatalogHandler) ListNPCs(w http.ResponseWriter, r *http.Request) {
	npcs, err := h.store.ListNPCs(r.Context(), r.URL.Query().Get("tipo"))
	if err != nil {
		respondError(w, r, "NPCs", err)
		return
	}
	writeJSON(w, http.StatusOK, npcs)
}

func (h *CatalogHandler) NPCsByMaster(w http.ResponseWriter, r *http.Request) {
	masterID, err := pathID(r, "mestre_id")
	if err != nil {
		respondError(w, r, "NPCs", err)
		return
	}

	npcs, err := h.store.NPCsByMaster(r.Context(), masterID)
	if err != nil {
		respondError(w, r, "NPCs", err)
		return
	}
	writeJSON(w, http.StatusOK, npcs)
}

func (h *CatalogHandler) GetNPC(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, "NPCs", err)
		return
	}

	npc, err := h.store.GetNPC(r.Context(), id)
	if err != nil {
		respondError(w, r, "NPCs", err)
		return
	}
	writeJSON(w, http.StatusOK, npc)
}
