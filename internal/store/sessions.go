package store

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/mesa-rpg/api/internal/apperr"
	"github.com/mesa-rpg/api/internal/database"
	"github.com/mesa-rpg/api/internal/models"
)

const sessionNotFound = "Sessão não encontrada"

// ListSessions returns every session with its master and mission count,
// newest first.
func (s *Store) ListSessions(ctx context.Context) ([]models.SessionSummary, error) {
	ctx, cancel := s.db.Bound(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT s.sessao_id, s.titulo, s.data_criacao, u.nome_usuario AS mestre,
		       COUNT(m.missao_id) AS total_missoes
		FROM sessao s
		JOIN usuario u ON u.user_id = s.muser_id
		LEFT JOIN missao m ON m.s_id = s.sessao_id
		GROUP BY s.sessao_id, s.titulo, s.data_criacao, u.nome_usuario
		ORDER BY s.data_criacao DESC, s.sessao_id DESC`)
	if err != nil {
		return nil, fail(ctx, "Erro ao listar sessões", err)
	}
	defer rows.Close()

	sessions := []models.SessionSummary{}
	for rows.Next() {
		var ss models.SessionSummary
		if err := rows.Scan(&ss.ID, &ss.Title, &ss.CreatedOn, &ss.MasterName, &ss.TotalMissions); err != nil {
			return nil, fail(ctx, "Erro ao listar sessões", err)
		}
		sessions = append(sessions, ss)
	}
	if err := rows.Err(); err != nil {
		return nil, fail(ctx, "Erro ao listar sessões", err)
	}
	return sessions, nil
}

// GetSession returns one session with its master's name and its missions.
func (s *Store) GetSession(ctx context.Context, id int64) (*models.SessionDetail, error) {
	ctx, cancel := s.db.Bound(ctx)
	defer cancel()

	var d models.SessionDetail
	err := s.db.QueryRowContext(ctx, `
		SELECT s.sessao_id, s.titulo, s.data_criacao, s.muser_id, u.nome_usuario
		FROM sessao s
		JOIN usuario u ON u.user_id = s.muser_id
		WHERE s.sessao_id = $1`, id).Scan(
		&d.ID, &d.Title, &d.CreatedOn, &d.MasterID, &d.MasterName,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound(sessionNotFound)
	}
	if err != nil {
		return nil, fail(ctx, "Erro ao buscar sessão", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT missao_id, nome_missao, status
		FROM missao
		WHERE s_id = $1
		ORDER BY missao_id`, id)
	if err != nil {
		return nil, fail(ctx, "Erro ao buscar sessão", err)
	}
	defer rows.Close()

	d.Missions = []models.SessionMission{}
	for rows.Next() {
		var m models.SessionMission
		if err := rows.Scan(&m.ID, &m.Name, &m.Status); err != nil {
			return nil, fail(ctx, "Erro ao buscar sessão", err)
		}
		d.Missions = append(d.Missions, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fail(ctx, "Erro ao buscar sessão", err)
	}
	return &d, nil
}

// CreateSession inserts a session run by an existing master.
func (s *Store) CreateSession(ctx context.Context, req models.NewSession) (*models.Session, error) {
	ctx, cancel := s.db.Bound(ctx)
	defer cancel()

	session := req.Session()
	err := s.db.InTx(ctx, "create session", func(ctx context.Context, tx *database.Tx) error {
		if err := require(ctx, tx, masterNotFound,
			`SELECT 1 FROM mestre WHERE mestreuser_id = $1`, session.MasterID); err != nil {
			return err
		}

		id, err := s.db.IDs().NextID(ctx, tx, "sessao", "sessao_id")
		if err != nil {
			return err
		}
		session.ID = id
		_, err = tx.ExecContext(ctx,
			`INSERT INTO sessao (sessao_id, titulo, data_criacao, muser_id) VALUES ($1, $2, $3, $4)`,
			session.ID, session.Title, session.CreatedOn, session.MasterID)
		return err
	})
	if err != nil {
		return nil, fail(ctx, "Erro ao criar sessão", err)
	}

	log.Printf("[Sessions] Session %d (%s) created", session.ID, session.Title)
	return &session, nil
}
