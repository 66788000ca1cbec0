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

const characterNotFound = "Personagem não encontrado"

const characterColumns = `personagem_id, nome_personagem, pontos_vida, nivel, destreza, forca,
	carisma, sabedoria, inteligencia, personagemraca_id, personagemclasse_id`

func scanCharacter(row scanner, c *models.Character) error {
	return row.Scan(
		&c.ID,
		&c.Name,
		&c.HitPoints,
		&c.Level,
		&c.Dexterity,
		&c.Strength,
		&c.Charisma,
		&c.Wisdom,
		&c.Intelligence,
		&c.RaceID,
		&c.ClassID,
	)
}

// ListCharacters returns characters with race and class names, highest
// level first.
func (s *Store) ListCharacters(ctx context.Context, filter models.CharacterFilter) ([]models.CharacterSummary, error) {
	ctx, cancel := s.db.Bound(ctx)
	defer cancel()

	var w where
	if filter.Name != "" {
		w.add(`LOWER(p.nome_personagem) LIKE LOWER($%d) ESCAPE '\'`, containsPattern(filter.Name))
	}
	if filter.RaceID != nil {
		w.add("p.personagemraca_id = $%d", *filter.RaceID)
	}
	if filter.ClassID != nil {
		w.add("p.personagemclasse_id = $%d", *filter.ClassID)
	}

	query := `
		SELECT p.personagem_id, p.nome_personagem, p.nivel, p.pontos_vida,
		       p.destreza, p.forca, p.carisma, p.sabedoria, p.inteligencia,
		       r.nome_raca, c.nome_classe
		FROM personagem p
		JOIN raca r ON r.raca_id = p.personagemraca_id
		LEFT JOIN classe c ON c.classe_id = p.personagemclasse_id` + w.String() + `
		ORDER BY p.nivel DESC, p.personagem_id`

	rows, err := s.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fail(ctx, "Erro ao listar personagens", err)
	}
	defer rows.Close()

	characters := []models.CharacterSummary{}
	for rows.Next() {
		var c models.CharacterSummary
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Level, &c.HitPoints,
			&c.Dexterity, &c.Strength, &c.Charisma, &c.Wisdom, &c.Intelligence,
			&c.RaceName, &c.ClassName,
		); err != nil {
			return nil, fail(ctx, "Erro ao listar personagens", err)
		}
		characters = append(characters, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fail(ctx, "Erro ao listar personagens", err)
	}
	return characters, nil
}

// GetCharacter returns one character with its race, class and
// specialization.
func (s *Store) GetCharacter(ctx context.Context, id int64) (*models.CharacterDetail, error) {
	ctx, cancel := s.db.Bound(ctx)
	defer cancel()

	query := `
		SELECT p.personagem_id, p.nome_personagem, p.pontos_vida, p.nivel,
		       p.destreza, p.forca, p.carisma, p.sabedoria, p.inteligencia,
		       p.personagemraca_id, p.personagemclasse_id,
		       r.nome_raca, r.bonus, r.descricao_raca,
		       c.nome_classe, c.dado_vida, c.dado_energia, c.descricao_classe,
		       pc.pc_jogador_id, pc.experiencia, npc.mestrenpc_id, npc.tipo_npc
		FROM personagem p
		JOIN raca r ON r.raca_id = p.personagemraca_id
		LEFT JOIN classe c ON c.classe_id = p.personagemclasse_id
		LEFT JOIN pc ON pc.pc_id = p.personagem_id
		LEFT JOIN npc ON npc.npc_id = p.personagem_id
		WHERE p.personagem_id = $1`

	var (
		d          models.CharacterDetail
		playerID   sql.NullInt64
		experience sql.NullInt64
		masterID   sql.NullInt64
		npcType    *string
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&d.ID, &d.Name, &d.HitPoints, &d.Level,
		&d.Dexterity, &d.Strength, &d.Charisma, &d.Wisdom, &d.Intelligence,
		&d.RaceID, &d.ClassID,
		&d.RaceName, &d.RaceBonus, &d.RaceDescription,
		&d.ClassName, &d.HitDie, &d.EnergyDie, &d.ClassDescription,
		&playerID, &experience, &masterID, &npcType,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound(characterNotFound)
	}
	if err != nil {
		return nil, fail(ctx, "Erro ao buscar personagem", err)
	}

	switch {
	case playerID.Valid:
		d.Specialization = &models.Specialization{
			Kind:       models.KindPC,
			PlayerID:   &playerID.Int64,
			Experience: &experience.Int64,
		}
	case masterID.Valid:
		d.Specialization = &models.Specialization{
			Kind:     models.KindNPC,
			MasterID: &masterID.Int64,
			NPCType:  npcType,
		}
	}
	return &d, nil
}

// CreateCharacter inserts the character, its optional PC or NPC record and
// its empty inventory as one transaction.
func (s *Store) CreateCharacter(ctx context.Context, req models.NewCharacter) (*models.Character, error) {
	ctx, cancel := s.db.Bound(ctx)
	defer cancel()

	c := req.Character()
	specialization := req.Specialization()

	err := s.db.InTx(ctx, "create character", func(ctx context.Context, tx *database.Tx) error {
		if err := require(ctx, tx, "Raça não encontrada",
			`SELECT 1 FROM raca WHERE raca_id = $1`, c.RaceID); err != nil {
			return err
		}
		if c.ClassID != nil {
			if err := require(ctx, tx, "Classe não encontrada",
				`SELECT 1 FROM classe WHERE classe_id = $1`, *c.ClassID); err != nil {
				return err
			}
		}

		id, err := s.db.IDs().NextID(ctx, tx, "personagem", "personagem_id")
		if err != nil {
			return err
		}
		c.ID = id

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO personagem (`+characterColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			c.ID, c.Name, c.HitPoints, c.Level, c.Dexterity, c.Strength,
			c.Charisma, c.Wisdom, c.Intelligence, c.RaceID, c.ClassID,
		); err != nil {
			return err
		}

		if specialization != nil {
			if err := insertSpecialization(ctx, tx, c.ID, specialization); err != nil {
				return err
			}
		}

		inventoryID, err := s.db.IDs().NextID(ctx, tx, "inventario", "inventario_id")
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO inventario (inventario_id, ipersonagem_id) VALUES ($1, $2)`,
			inventoryID, c.ID)
		return err
	})
	if err != nil {
		return nil, fail(ctx, "Erro ao criar personagem", err)
	}

	log.Printf("[Characters] Character %d (%s) created", c.ID, c.Name)
	return &c, nil
}

func insertSpecialization(ctx context.Context, tx *database.Tx, characterID int64, specialization *models.Specialization) error {
	switch specialization.Kind {
	case models.KindPC:
		if err := require(ctx, tx, "Jogador não encontrado",
			`SELECT 1 FROM jogador WHERE jogadoruser_id = $1`, *specialization.PlayerID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO pc (pc_id, experiencia, pc_jogador_id) VALUES ($1, $2, $3)`,
			characterID, *specialization.Experience, *specialization.PlayerID)
		return err
	case models.KindNPC:
		if err := require(ctx, tx, "Mestre não encontrado",
			`SELECT 1 FROM mestre WHERE mestreuser_id = $1`, *specialization.MasterID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO npc (npc_id, tipo_npc, mestrenpc_id) VALUES ($1, $2, $3)`,
			characterID, specialization.NPCType, *specialization.MasterID)
		return err
	}
	return nil
}

// UpdateCharacter applies a partial update. Fields left nil keep their
// stored value.
func (s *Store) UpdateCharacter(ctx context.Context, id int64, patch models.CharacterPatch) (*models.Character, error) {
	ctx, cancel := s.db.Bound(ctx)
	defer cancel()

	query := `
		UPDATE personagem
		SET nome_personagem = COALESCE($1, nome_personagem),
		    pontos_vida = COALESCE($2, pontos_vida),
		    nivel = COALESCE($3, nivel),
		    destreza = COALESCE($4, destreza),
		    forca = COALESCE($5, forca),
		    carisma = COALESCE($6, carisma),
		    sabedoria = COALESCE($7, sabedoria),
		    inteligencia = COALESCE($8, inteligencia)
		WHERE personagem_id = $9
		RETURNING ` + characterColumns

	var c models.Character
	err := scanCharacter(s.db.QueryRowContext(ctx, query,
		patch.Name, patch.HitPoints, patch.Level, patch.Dexterity,
		patch.Strength, patch.Charisma, patch.Wisdom, patch.Intelligence, id,
	), &c)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound(characterNotFound)
	}
	if err != nil {
		return nil, fail(ctx, "Erro ao atualizar personagem", err)
	}

	log.Printf("[Characters] Character %d updated", id)
	return &c, nil
}

// DeleteCharacter removes the character with its mission links, items,
// inventory and specialization as one transaction.
func (s *Store) DeleteCharacter(ctx context.Context, id int64) (*models.Character, error) {
	ctx, cancel := s.db.Bound(ctx)
	defer cancel()

	var c models.Character
	err := s.db.InTx(ctx, "delete character", func(ctx context.Context, tx *database.Tx) error {
		row := tx.QueryRowContext(ctx, `SELECT `+characterColumns+` FROM personagem WHERE personagem_id = $1`, id)
		if err := scanCharacter(row, &c); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperr.NotFound(characterNotFound)
			}
			return err
		}

		steps := []string{
			`DELETE FROM em_missao WHERE mpersonagem_id = $1`,
			`DELETE FROM item WHERE proprietario_id IN (SELECT inventario_id FROM inventario WHERE ipersonagem_id = $1)`,
			`DELETE FROM inventario WHERE ipersonagem_id = $1`,
			`DELETE FROM pc WHERE pc_id = $1`,
			`DELETE FROM npc WHERE npc_id = $1`,
			`DELETE FROM personagem WHERE personagem_id = $1`,
		}
		for _, step := range steps {
			if _, err := tx.ExecContext(ctx, step, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fail(ctx, "Erro ao deletar personagem", err)
	}

	log.Printf("[Characters] Character %d removed", id)
	return &c, nil
}
