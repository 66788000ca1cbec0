package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mesa-rpg/api/internal/apperr"
	"github.com/mesa-rpg/api/internal/models"
)

// ListNPCs returns every NPC with its creator, highest level first. A
// non-empty npcType keeps only NPCs whose type contains it, ignoring case.
func (s *Store) ListNPCs(ctx context.Context, npcType string) ([]models.NPCSummary, error) {
	ctx, cancel := s.db.Bound(ctx)
	defer cancel()

	var w where
	if npcType != "" {
		w.add(`LOWER(npc.tipo_npc) LIKE LOWER($%d) ESCAPE '\'`, containsPattern(npcType))
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.personagem_id, p.nome_personagem, npc.tipo_npc, p.nivel,
		       u.nome_usuario AS criador, r.nome_raca, c.nome_classe
		FROM npc
		JOIN personagem p ON p.personagem_id = npc.npc_id
		JOIN usuario u ON u.user_id = npc.mestrenpc_id
		JOIN raca r ON r.raca_id = p.personagemraca_id
		LEFT JOIN classe c ON c.classe_id = p.personagemclasse_id`+w.String()+`
		ORDER BY p.nivel DESC, p.personagem_id`, w.args...)
	if err != nil {
		return nil, fail(ctx, "Erro ao listar NPCs", err)
	}
	defer rows.Close()

	npcs := []models.NPCSummary{}
	for rows.Next() {
		var n models.NPCSummary
		if err := rows.Scan(&n.ID, &n.Name, &n.NPCType, &n.Level, &n.Creator, &n.RaceName, &n.ClassName); err != nil {
			return nil, fail(ctx, "Erro ao listar NPCs", err)
		}
		npcs = append(npcs, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fail(ctx, "Erro ao listar NPCs", err)
	}
	return npcs, nil
}

// NPCsByMaster returns the NPCs a master created, highest level first.
func (s *Store) NPCsByMaster(ctx context.Context, masterID int64) ([]models.MasterNPC, error) {
	ctx, cancel := s.db.Bound(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT p.personagem_id, p.nome_personagem, npc.tipo_npc,
		       p.nivel, p.pontos_vida, r.nome_raca, c.nome_classe,
		       p.forca, p.destreza, p.carisma, p.sabedoria, p.inteligencia
		FROM npc
		JOIN personagem p ON p.personagem_id = npc.npc_id
		JOIN raca r ON r.raca_id = p.personagemraca_id
		LEFT JOIN classe c ON c.classe_id = p.personagemclasse_id
		WHERE npc.mestrenpc_id = $1
		ORDER BY p.nivel DESC, p.personagem_id`, masterID)
	if err != nil {
		return nil, fail(ctx, "Erro ao buscar NPCs", err)
	}
	defer rows.Close()

	npcs := []models.MasterNPC{}
	for rows.Next() {
		var n models.MasterNPC
		if err := rows.Scan(
			&n.ID, &n.Name, &n.NPCType, &n.Level, &n.HitPoints, &n.RaceName, &n.ClassName,
			&n.Strength, &n.Dexterity, &n.Charisma, &n.Wisdom, &n.Intelligence,
		); err != nil {
			return nil, fail(ctx, "Erro ao buscar NPCs", err)
		}
		npcs = append(npcs, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fail(ctx, "Erro ao buscar NPCs", err)
	}
	return npcs, nil
}

// GetNPC returns one NPC with its creator, race and class.
func (s *Store) GetNPC(ctx context.Context, id int64) (*models.NPCDetail, error) {
	ctx, cancel := s.db.Bound(ctx)
	defer cancel()

	var n models.NPCDetail
	err := s.db.QueryRowContext(ctx, `
		SELECT p.personagem_id, p.nome_personagem, p.pontos_vida, p.nivel,
		       p.destreza, p.forca, p.carisma, p.sabedoria, p.inteligencia,
		       p.personagemraca_id, p.personagemclasse_id,
		       npc.tipo_npc, u.nome_usuario, r.nome_raca, r.bonus, c.nome_classe, c.dado_vida
		FROM npc
		JOIN personagem p ON p.personagem_id = npc.npc_id
		JOIN usuario u ON u.user_id = npc.mestrenpc_id
		JOIN raca r ON r.raca_id = p.personagemraca_id
		LEFT JOIN classe c ON c.classe_id = p.personagemclasse_id
		WHERE npc.npc_id = $1`, id).Scan(
		&n.ID, &n.Name, &n.HitPoints, &n.Level,
		&n.Dexterity, &n.Strength, &n.Charisma, &n.Wisdom, &n.Intelligence,
		&n.RaceID, &n.ClassID,
		&n.NPCType, &n.Creator, &n.RaceName, &n.RaceBonus, &n.ClassName, &n.HitDie,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("NPC não encontrado")
	}
	if err != nil {
		return nil, fail(ctx, "Erro ao buscar NPC", err)
	}
	return &n, nil
}
