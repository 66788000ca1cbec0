package handlers

import (
	"context"
	"net/http"

	"github.com/mesa-rpg/api/internal/models"
)

// InventoryStore is the storage the inventory routes need.
type InventoryStore interface {
	GetInventory(ctx context.Context, characterID int64) (*models.InventoryView, error)
	AddItem(ctx context.Context, characterID int64, req models.NewItem) (*models.Item, error)
	RemoveItem(ctx context.Context, characterID, itemID int64) (*models.Item, error)
}

type InventoryHandler struct {
	store InventoryStore
}

func NewInventoryHandler(store InventoryStore) *InventoryHandler {
	return &InventoryHandler{store: store}
}

// Get returns the character's items with totals. A missing character is
// reported as an empty inventory rather than 404.
func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	characterID, err := pathID(r, "personagem_id")
	if err != nil {
		respondError(w, r, "Inventories", err)
		return
	}

	inventory, err := h.store.GetInventory(r.Context(), characterID)
	if err != nil {
		respondError(w, r, "Inventories", err)
		return
	}
	writeJSON(w, http.StatusOK, inventory)
}

func (h *InventoryHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	characterID, err := pathID(r, "personagem_id")
	if err != nil {
		respondError(w, r, "Inventories", err)
		return
	}
	var req models.NewItem
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, "Inventories", err)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, r, "Inventories", err)
		return
	}

	item, err := h.store.AddItem(r.Context(), characterID, req)
	if err != nil {
		respondError(w, r, "Inventories", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"item": item})
}

func (h *InventoryHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	characterID, err := pathID(r, "personagem_id")
	if err != nil {
		respondError(w, r, "Inventories", err)
		return
	}
	itemID, err := pathID(r, "item_id")
	if err != nil {
		respondError(w, r, "Inventories", err)
		return
	}

	item, err := h.store.RemoveItem(r.Context(), characterID, itemID)
	if err != nil {
		respondError(w, r, "Inventories", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Item removido",
		"item":    item,
	})
}
