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

const missionNotFound = "Missão não encontrada"

const missionColumns = `missao_id, nome_missao, status, descricao_missao, s_id, mrecompensa_id`

func scanMission(row scanner, m *models.Mission) error {
	return row.Scan(&m.ID, &m.Name, &m.Status, &m.Description, &m.SessionID, &m.RewardID)
}

const missionSummaryQuery = `
	SELECT m.missao_id, m.nome_missao, m.status, m.descricao_missao,
	       s.titulo AS sessao, r.qtd_ouro, r.qtd_xp, r.titulo AS recompensa_titulo,
	       COUNT(em.mpersonagem_id) AS total_participantes
	FROM missao m
	JOIN sessao s ON s.sessao_id = m.s_id
	JOIN recompensa r ON r.recompensa_id = m.mrecompensa_id
	LEFT JOIN em_missao em ON em.mmissao_id = m.missao_id`

const missionSummaryGroup = `
	GROUP BY m.missao_id, m.nome_missao, m.status, m.descricao_missao,
	         s.titulo, r.qtd_ouro, r.qtd_xp, r.titulo
	ORDER BY m.missao_id`

func (s *Store) listMissions(ctx context.Context, message, query string, args ...any) ([]models.MissionSummary, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fail(ctx, message, err)
	}
	defer rows.Close()

	missions := []models.MissionSummary{}
	for rows.Next() {
		var m models.MissionSummary
		if err := rows.Scan(
			&m.ID, &m.Name, &m.Status, &m.Description,
			&m.SessionTitle, &m.Gold, &m.Experience, &m.RewardTitle,
			&m.Participants,
		); err != nil {
			return nil, fail(ctx, message, err)
		}
		missions = append(missions, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fail(ctx, message, err)
	}
	return missions, nil
}

// ListMissions returns every mission with its session, reward and
// participant count, in id order.
func (s *Store) ListMissions(ctx context.Context) ([]models.MissionSummary, error) {
	ctx, cancel := s.db.Bound(ctx)
	defer cancel()
	return s.listMissions(ctx, "Erro ao listar missões", missionSummaryQuery+missionSummaryGroup)
}

// MissionsByStatus returns the missions whose status matches, ignoring case.
func (s *Store) MissionsByStatus(ctx context.Context, status string) ([]models.MissionSummary, error) {
	ctx, cancel := s.db.Bound(ctx)
	defer cancel()
	return s.listMissions(ctx, "Erro ao filtrar missões",
		missionSummaryQuery+` WHERE LOWER(m.status) = LOWER($1)`+missionSummaryGroup, status)
}

// GetMission returns one mission with its reward and participants.
func (s *Store) GetMission(ctx context.Context, id int64) (*models.MissionDetail, error) {
	ctx, cancel := s.db.Bound(ctx)
	defer cancel()

	var m models.MissionDetail
	err := s.db.QueryRowContext(ctx, `
		SELECT m.missao_id, m.nome_missao, m.status, m.descricao_missao, m.s_id, m.mrecompensa_id,
		       s.titulo, r.qtd_ouro, r.qtd_xp, r.qtd_reputacao, r.titulo
		FROM missao m
		JOIN sessao s ON s.sessao_id = m.s_id
		JOIN recompensa r ON r.recompensa_id = m.mrecompensa_id
		WHERE m.missao_id = $1`, id).Scan(
		&m.ID, &m.Name, &m.Status, &m.Description, &m.SessionID, &m.RewardID,
		&m.SessionTitle, &m.Gold, &m.Experience, &m.Reputation, &m.RewardTitle,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound(missionNotFound)
	}
	if err != nil {
		return nil, fail(ctx, "Erro ao buscar missão", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT p.personagem_id, p.nome_personagem, p.nivel
		FROM em_missao em
		JOIN personagem p ON p.personagem_id = em.mpersonagem_id
		WHERE em.mmissao_id = $1
		ORDER BY p.personagem_id`, id)
	if err != nil {
		return nil, fail(ctx, "Erro ao buscar missão", err)
	}
	defer rows.Close()

	m.Participants = []models.Participant{}
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.Name, &p.Level); err != nil {
			return nil, fail(ctx, "Erro ao buscar missão", err)
		}
		m.Participants = append(m.Participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fail(ctx, "Erro ao buscar missão", err)
	}
	return &m, nil
}

// CreateMission inserts the reward and then the mission referencing it as
// one transaction.
func (s *Store) CreateMission(ctx context.Context, req models.NewMission) (*models.Mission, error) {
	ctx, cancel := s.db.Bound(ctx)
	defer cancel()

	m := req.Mission()
	reward := req.Reward()

	err := s.db.InTx(ctx, "create mission", func(ctx context.Context, tx *database.Tx) error {
		if err := require(ctx, tx, sessionNotFound,
			`SELECT 1 FROM sessao WHERE sessao_id = $1`, m.SessionID); err != nil {
			return err
		}

		rewardID, err := s.db.IDs().NextID(ctx, tx, "recompensa", "recompensa_id")
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO recompensa (recompensa_id, qtd_ouro, qtd_xp, qtd_reputacao, titulo)
			VALUES ($1, $2, $3, $4, $5)`,
			rewardID, reward.Gold, reward.Experience, reward.Reputation, reward.Title,
		); err != nil {
			return err
		}
		m.RewardID = rewardID

		if m.ID, err = s.db.IDs().NextID(ctx, tx, "missao", "missao_id"); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO missao (`+missionColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			m.ID, m.Name, m.Status, m.Description, m.SessionID, m.RewardID,
		)
		return err
	})
	if err != nil {
		return nil, fail(ctx, "Erro ao criar missão", err)
	}

	log.Printf("[Missions] Mission %d created (reward %d)", m.ID, m.RewardID)
	return &m, nil
}

// UpdateMission applies a partial update to the mission and, when any
// reward field is present, to its reward, as one transaction.
func (s *Store) UpdateMission(ctx context.Context, id int64, patch models.MissionPatch) (*models.Mission, error) {
	ctx, cancel := s.db.Bound(ctx)
	defer cancel()

	var m models.Mission
	err := s.db.InTx(ctx, "update mission", func(ctx context.Context, tx *database.Tx) error {
		err := scanMission(tx.QueryRowContext(ctx, `
			UPDATE missao
			SET nome_missao = COALESCE($1, nome_missao),
			    status = COALESCE($2, status),
			    descricao_missao = COALESCE($3, descricao_missao)
			WHERE missao_id = $4
			RETURNING `+missionColumns,
			patch.Name, patch.Status, patch.Description, id,
		), &m)
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound(missionNotFound)
		}
		if err != nil || !patch.TouchesReward() {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE recompensa
			SET qtd_ouro = COALESCE($1, qtd_ouro),
			    qtd_xp = COALESCE($2, qtd_xp),
			    qtd_reputacao = COALESCE($3, qtd_reputacao),
			    titulo = COALESCE($4, titulo)
			WHERE recompensa_id = $5`,
			patch.Gold, patch.Experience, patch.Reputation, patch.RewardTitle, m.RewardID,
		)
		return err
	})
	if err != nil {
		return nil, fail(ctx, "Erro ao atualizar missão", err)
	}

	log.Printf("[Missions] Mission %d updated", id)
	return &m, nil
}

// DeleteMission removes the mission's participant links, the mission and its
// reward as one transaction.
func (s *Store) DeleteMission(ctx context.Context, id int64) (*models.Mission, error) {
	ctx, cancel := s.db.Bound(ctx)
	defer cancel()

	var m models.Mission
	err := s.db.InTx(ctx, "delete mission", func(ctx context.Context, tx *database.Tx) error {
		err := scanMission(tx.QueryRowContext(ctx,
			`SELECT `+missionColumns+` FROM missao WHERE missao_id = $1`, id), &m)
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound(missionNotFound)
		}
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM em_missao WHERE mmissao_id = $1`, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM missao WHERE missao_id = $1`, id); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM recompensa WHERE recompensa_id = $1`, m.RewardID)
		return err
	})
	if err != nil {
		return nil, fail(ctx, "Erro ao deletar missão", err)
	}

	log.Printf("[Missions] Mission %d removed (reward %d)", id, m.RewardID)
	return &m, nil
}

// AddParticipant links a character to a mission. Linking twice is a no-op.
func (s *Store) AddParticipant(ctx context.Context, missionID, characterID int64) (*models.Participant, error) {
	ctx, cancel := s.db.Bound(ctx)
	defer cancel()

	var p models.Participant
	err := s.db.InTx(ctx, "add participant", func(ctx context.Context, tx *database.Tx) error {
		if err := require(ctx, tx, missionNotFound,
			`SELECT 1 FROM missao WHERE missao_id = $1`, missionID); err != nil {
			return err
		}
		err := tx.QueryRowContext(ctx,
			`SELECT personagem_id, nome_personagem, nivel FROM personagem WHERE personagem_id = $1`,
			characterID).Scan(&p.ID, &p.Name, &p.Level)
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound(characterNotFound)
		}
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO em_missao (mmissao_id, mpersonagem_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			missionID, characterID)
		return err
	})
	if err != nil {
		return nil, fail(ctx, "Erro ao adicionar participante", err)
	}

	log.Printf("[Missions] Character %d joined mission %d", characterID, missionID)
	return &p, nil
}

// RemoveParticipant unlinks a character from a mission.
func (s *Store) RemoveParticipant(ctx context.Context, missionID, characterID int64) error {
	ctx, cancel := s.db.Bound(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM em_missao WHERE mmissao_id = $1 AND mpersonagem_id = $2`, missionID, characterID)
	if err != nil {
		return fail(ctx, "Erro ao remover participante", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fail(ctx, "Erro ao remover participante", err)
	}
	if n == 0 {
		return apperr.NotFound("Participante não encontrado")
	}

	log.Printf("[Missions] Character %d left mission %d", characterID, missionID)
	return nil
}
