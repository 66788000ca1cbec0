package models

import (
	"strings"

	"github.com/mesa-rpg/api/internal/apperr"
)

// StatusOpen is the status of a newly created mission.
const StatusOpen = "Aberta"

// StatusInProgress is the status reported by the missions-in-progress report.
const StatusInProgress = "Em Progresso"

// Mission is a row of the missao table.
type Mission struct {
	ID          int64   `json:"missao_id"`
	Name        string  `json:"nome_missao"`
	Status      string  `json:"status"`
	Description *string `json:"descricao_missao"`
	SessionID   int64   `json:"s_id"`
	RewardID    int64   `json:"mrecompensa_id"`
}

// Reward is a row of the recompensa table. Each reward belongs to exactly one
// mission.
type Reward struct {
	ID         int64   `json:"recompensa_id"`
	Gold       int64   `json:"qtd_ouro"`
	Experience int64   `json:"qtd_xp"`
	Reputation int64   `json:"qtd_reputacao"`
	Title      *string `json:"titulo"`
}

// MissionSummary is a row of the mission listings.
type MissionSummary struct {
	ID           int64   `json:"missao_id"`
	Name         string  `json:"nome_missao"`
	Status       string  `json:"status"`
	Description  *string `json:"descricao_missao"`
	SessionTitle string  `json:"sessao"`
	Gold         int64   `json:"qtd_ouro"`
	Experience   int64   `json:"qtd_xp"`
	RewardTitle  *string `json:"recompensa_titulo"`
	Participants int64   `json:"total_participantes"`
}

// Participant is a character linked to a mission.
type Participant struct {
	ID    int64  `json:"personagem_id"`
	Name  string `json:"nome_personagem"`
	Level int    `json:"nivel"`
}

// MissionDetail is a mission with its session, reward and participants.
type MissionDetail struct {
	Mission
	SessionTitle string        `json:"sessao"`
	Gold         int64         `json:"qtd_ouro"`
	Experience   int64         `json:"qtd_xp"`
	Reputation   int64         `json:"qtd_reputacao"`
	RewardTitle  *string       `json:"recompensa_titulo"`
	Participants []Participant `json:"participantes"`
}

// NewMission is the request body for creating a mission and its reward.
type NewMission struct {
	Name        string  `json:"nome_missao"`
	Description *string `json:"descricao_missao"`
	Status      *string `json:"status"`
	SessionID   *int64  `json:"s_id"`
	Gold        *int64  `json:"qtd_ouro"`
	Experience  *int64  `json:"qtd_xp"`
	Reputation  *int64  `json:"qtd_reputacao"`
	RewardTitle *string `json:"titulo_recompensa"`
}

// Validate performs the presence checks for mission creation.
func (n NewMission) Validate() error {
	if strings.TrimSpace(n.Name) == "" {
		return apperr.Validation("nome_missao", "nome_missao é obrigatório")
	}
	if n.SessionID == nil {
		return apperr.Validation("s_id", "s_id é obrigatório")
	}
	return nil
}

// Reward resolves the reward part of the request, defaulting amounts to 0.
func (n NewMission) Reward() Reward {
	return Reward{
		Gold:       int64Or(n.Gold, 0),
		Experience: int64Or(n.Experience, 0),
		Reputation: int64Or(n.Reputation, 0),
		Title:      n.RewardTitle,
	}
}

// Mission resolves the mission part of the request. The reward id is filled
// in once the reward row exists.
func (n NewMission) Mission() Mission {
	m := Mission{
		Name:        n.Name,
		Status:      StatusOpen,
		Description: n.Description,
	}
	if n.Status != nil && strings.TrimSpace(*n.Status) != "" {
		m.Status = *n.Status
	}
	if n.SessionID != nil {
		m.SessionID = *n.SessionID
	}
	return m
}

// MissionPatch holds a partial mission update. Reward fields update the
// mission's reward row in the same transaction.
type MissionPatch struct {
	Name        *string `json:"nome_missao"`
	Status      *string `json:"status"`
	Description *string `json:"descricao_missao"`
	Gold        *int64  `json:"qtd_ouro"`
	Experience  *int64  `json:"qtd_xp"`
	Reputation  *int64  `json:"qtd_reputacao"`
	RewardTitle *string `json:"titulo_recompensa"`
}

// TouchesReward reports whether any reward field is present.
func (p MissionPatch) TouchesReward() bool {
	return p.Gold != nil || p.Experience != nil || p.Reputation != nil || p.RewardTitle != nil
}

// NewParticipant is the request body for linking a character to a mission.
type NewParticipant struct {
	CharacterID *int64 `json:"personagem_id"`
}

// Validate performs the presence check for a participation link.
func (n NewParticipant) Validate() error {
	if n.CharacterID == nil {
		return apperr.Validation("personagem_id", "personagem_id é obrigatório")
	}
	return nil
}

func int64Or(v *int64, def int64) int64 {
	if v == nil {
		return def
	}
	return *v
}
