package store

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/mesa-rpg/api/internal/apperr"
	"github.com/mesa-rpg/api/internal/models"
)

const masterNotFound = "Mestre não encontrado"

const masterSummaryQuery = `
	SELECT u.user_id, u.nome_usuario, u.email, u.data_nascimento,
	       (SELECT COUNT(*) FROM sessao s WHERE s.muser_id = u.user_id) AS total_sessoes,
	       (SELECT COUNT(*) FROM npc WHERE npc.mestrenpc_id = u.user_id) AS total_npcs
	FROM usuario u
	JOIN mestre m ON m.mestreuser_id = u.user_id`

func scanMasterSummary(row scanner, m *models.MasterSummary) error {
	return row.Scan(
		&m.ID, &m.Username, &m.Email, &m.BirthDate,
		&m.TotalSessions, &m.TotalNPCs,
	)
}

// ListMasters returns every master with session and NPC counts.
func (s *Store) ListMasters(ctx context.Context) ([]models.MasterSummary, error) {
	ctx, cancel := s.db.Bound(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, masterSummaryQuery+` ORDER BY u.nome_usuario, u.user_id`)
	if err != nil {
		return nil, fail(ctx, "Erro ao listar mestres", err)
	}
	defer rows.Close()

	masters := []models.MasterSummary{}
	for rows.Next() {
		var m models.MasterSummary
		if err := scanMasterSummary(rows, &m); err != nil {
			return nil, fail(ctx, "Erro ao listar mestres", err)
		}
		masters = append(masters, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fail(ctx, "Erro ao listar mestres", err)
	}
	return masters, nil
}

// GetMaster returns one master with session and NPC counts.
func (s *Store) GetMaster(ctx context.Context, id int64) (*models.MasterSummary, error) {
	ctx, cancel := s.db.Bound(ctx)
	defer cancel()

	var m models.MasterSummary
	err := scanMasterSummary(s.db.QueryRowContext(ctx, masterSummaryQuery+` WHERE u.user_id = $1`, id), &m)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound(masterNotFound)
	}
	if err != nil {
		return nil, fail(ctx, "Erro ao buscar mestre", err)
	}
	return &m, nil
}

// CreateMaster creates a user holding the master role, or grants the role
// to an existing user.
func (s *Store) CreateMaster(ctx context.Context, req models.NewUser) (*models.User, error) {
	ctx, cancel := s.db.Bound(ctx)
	defer cancel()

	u, err := s.createWithRole(ctx, masterRole, req)
	if err != nil {
		return nil, fail(ctx, "Erro ao criar mestre", err)
	}
	log.Printf("[Masters] Master %d (%s) created", u.ID, u.Username)
	return u, nil
}
