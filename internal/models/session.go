package models

import (
	"strings"

	"github.com/mesa-rpg/api/internal/apperr"
)

// Session is a row of the sessao table.
type Session struct {
	ID        int64  `json:"sessao_id"`
	Title     string `json:"titulo"`
	CreatedOn Date   `json:"data_criacao"`
	MasterID  int64  `json:"muser_id"`
}

// SessionSummary is a row of the session listing.
type SessionSummary struct {
	ID            int64  `json:"sessao_id"`
	Title         string `json:"titulo"`
	CreatedOn     Date   `json:"data_criacao"`
	MasterName    string `json:"mestre"`
	TotalMissions int64  `json:"total_missoes"`
}

// SessionMission is a mission listed under its session.
type SessionMission struct {
	ID     int64  `json:"missao_id"`
	Name   string `json:"nome_missao"`
	Status string `json:"status"`
}

// SessionDetail is a session with its master's name and its missions.
type SessionDetail struct {
	Session
	MasterName string           `json:"mestre"`
	Missions   []SessionMission `json:"missoes"`
}

// NewSession is the request body for creating a session.
type NewSession struct {
	Title     string `json:"titulo"`
	MasterID  *int64 `json:"muser_id"`
	CreatedOn Date   `json:"data_criacao"`
}

// Validate performs the presence checks for session creation.
func (n NewSession) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return apperr.Validation("titulo", "titulo é obrigatório")
	}
	if n.MasterID == nil {
		return apperr.Validation("muser_id", "muser_id é obrigatório")
	}
	return nil
}

// Session resolves the request into a row; the creation date defaults to
// today.
func (n NewSession) Session() Session {
	s := Session{Title: n.Title, CreatedOn: n.CreatedOn}
	if !s.CreatedOn.Valid {
		s.CreatedOn = Today()
	}
	if n.MasterID != nil {
		s.MasterID = *n.MasterID
	}
	return s
}
