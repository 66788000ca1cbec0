package handlers

import (
	"context"
	"net/http"

	"github.com/mesa-rpg/api/internal/models"
)

// MasterStore is the storage the master routes need.
type MasterStore interface {
	ListMasters(ctx context.Context) ([]models.MasterSummary, error)
	GetMaster(ctx context.Context, id int64) (*models.MasterSummary, error)
	CreateMaster(ctx context.Context, req models.NewUser) (*models.User, error)
}

type MasterHandler struct {
	store MasterStore
}

func NewMasterHandler(store MasterStore) *MasterHandler {
	return &MasterHandler{store: store}
}

func (h *MasterHandler) List(w http.ResponseWriter, r *http.Request) {
	masters, err := h.store.ListMasters(r.Context())
	if err != nil {
		respondError(w, r, "Masters", err)
		return
	}
	writeJSON(w, http.StatusOK, masters)
}

func (h *MasterHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, "Masters", err)
		return
	}

	master, err := h.store.GetMaster(r.Context(), id)
	if err != nil {
		respondError(w, r, "Masters", err)
		return
	}
	writeJSON(w, http.StatusOK, master)
}

func (h *MasterHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.NewUser
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, "Masters", err)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, r, "Masters", err)
		return
	}

	master, err := h.store.CreateMaster(r.Context(), req)
	if err != nil {
		respondError(w, r, "Masters", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"mestre": master})
}
