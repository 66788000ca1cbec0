package handlers

import (
	"context"
	"net/http"

	"github.com/mesa-rpg/api/internal/models"
)

// MissionStore is the storage the mission routes need.
type MissionStore interface {
	ListMissions(ctx context.Context) ([]models.MissionSummary, error)
	MissionsByStatus(ctx context.Context, status string) ([]models.MissionSummary, error)
	GetMission(ctx context.Context, id int64) (*models.MissionDetail, error)
	CreateMission(ctx context.Context, req models.NewMission) (*models.Mission, error)
	UpdateMission(ctx context.Context, id int64, patch models.MissionPatch) (*models.Mission, error)
	DeleteMission(ctx context.Context, id int64) (*models.Mission, error)
	AddParticipant(ctx context.Context, missionID, characterID int64) (*models.Participant, error)
	RemoveParticipant(ctx context.Context, missionID, characterID int64) error
}

type MissionHandler struct {
	store MissionStore
}

func NewMissionHandler(store MissionStore) *MissionHandler {
	return &MissionHandler{store: store}
}

func (h *MissionHandler) List(w http.ResponseWriter, r *http.Request) {
	missions, err := h.store.ListMissions(r.Context())
	if err != nil {
		respondError(w, r, "Missions", err)
		return
	}
	writeJSON(w, http.StatusOK, missions)
}

// ByStatus filters missions by status, ignoring case.
func (h *MissionHandler) ByStatus(w http.ResponseWriter, r *http.Request) {
	missions, err := h.store.MissionsByStatus(r.Context(), r.PathValue("status"))
	if err != nil {
		respondError(w, r, "Missions", err)
		return
	}
	writeJSON(w, http.StatusOK, missions)
}

func (h *MissionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, "Missions", err)
		return
	}

	mission, err := h.store.GetMission(r.Context(), id)
	if err != nil {
		respondError(w, r, "Missions", err)
		return
	}
	writeJSON(w, http.StatusOK, mission)
}

// Create inserts the reward and then the mission as one transaction.
func (h *MissionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.NewMission
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, "Missions", err)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, r, "Missions", err)
		return
	}

	mission, err := h.store.CreateMission(r.Context(), req)
	if err != nil {
		respondError(w, r, "Missions", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"missao": mission})
}

func (h *MissionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, "Missions", err)
		return
	}
	var patch models.MissionPatch
	if err := decodeBody(r, &patch); err != nil {
		respondError(w, r, "Missions", err)
		return
	}

	mission, err := h.store.UpdateMission(r.Context(), id, patch)
	if err != nil {
		respondError(w, r, "Missions", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"missao": mission})
}

func (h *MissionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, "Missions", err)
		return
	}

	mission, err := h.store.DeleteMission(r.Context(), id)
	if err != nil {
		respondError(w, r, "Missions", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Missão removida",
		"missao":  mission,
	})
}

// AddParticipant links the character in the body to the mission.
func (h *MissionHandler) AddParticipant(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, "Missions", err)
		return
	}
	var req models.NewParticipant
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, "Missions", err)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, r, "Missions", err)
		return
	}

	participant, err := h.store.AddParticipant(r.Context(), id, *req.CharacterID)
	if err != nil {
		respondError(w, r, "Missions", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"participante": participant})
}

func (h *MissionHandler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, "Missions", err)
		return
	}
	characterID, err := pathID(r, "personagem_id")
	if err != nil {
		respondError(w, r, "Missions", err)
		return
	}

	if err := h.store.RemoveParticipant(r.Context(), id, characterID); err != nil {
		respondError(w, r, "Missions", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Participante removido"})
}
