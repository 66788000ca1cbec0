package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mesa-rpg/api/internal/apperr"
	"github.com/mesa-rpg/api/internal/models"
)

const classColumns = `classe_id, nome_classe, dado_vida, dado_energia, descricao_classe`

// abilities loads abilities grouped by class id, cheapest first.
func (s *Store) abilities(ctx context.Context, classID *int64) (map[int64][]models.Ability, error) {
	query := `SELECT habilidade_id, nome, tipo, custo, descricao, classehabilidade_id FROM habilidade`
	var args []any
	if classID != nil {
		query += ` WHERE classehabilidade_id = $1`
		args = append(args, *classID)
	}
	query += ` ORDER BY classehabilidade_id, custo, habilidade_id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byClass := make(map[int64][]models.Ability)
	for rows.Next() {
		var a models.Ability
		if err := rows.Scan(&a.ID, &a.Name, &a.Type, &a.Cost, &a.Description, &a.ClassID); err != nil {
			return nil, err
		}
		byClass[a.ClassID] = append(byClass[a.ClassID], a)
	}
	return byClass, rows.Err()
}

func withAbilities(c *models.Class, byClass map[int64][]models.Ability) {
	c.Abilities = byClass[c.ID]
	if c.Abilities == nil {
		c.Abilities = []models.Ability{}
	}
}

// ListClasses returns every class with its abilities, by name.
func (s *Store) ListClasses(ctx context.Context) ([]models.Class, error) {
	ctx, cancel := s.db.Bound(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `SELECT `+classColumns+` FROM classe ORDER BY nome_classe`)
	if err != nil {
		return nil, fail(ctx, "Erro ao listar classes", err)
	}
	defer rows.Close()

	classes := []models.Class{}
	for rows.Next() {
		var c models.Class
		if err := rows.Scan(&c.ID, &c.Name, &c.HitDie, &c.EnergyDie, &c.Description); err != nil {
			return nil, fail(ctx, "Erro ao listar classes", err)
		}
		classes = append(classes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fail(ctx, "Erro ao listar classes", err)
	}
	rows.Close()

	byClass, err := s.abilities(ctx, nil)
	if err != nil {
		return nil, fail(ctx, "Erro ao listar classes", err)
	}
	for i := range classes {
		withAbilities(&classes[i], byClass)
	}
	return classes, nil
}

// GetClass returns one class with its abilities.
func (s *Store) GetClass(ctx context.Context, id int64) (*models.Class, error) {
	ctx, cancel := s.db.Bound(ctx)
	defer cancel()

	var c models.Class
	err := s.db.QueryRowContext(ctx, `SELECT `+classColumns+` FROM classe WHERE classe_id = $1`, id).
		Scan(&c.ID, &c.Name, &c.HitDie, &c.EnergyDie, &c.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("Classe não encontrada")
	}
	if err != nil {
		return nil, fail(ctx, "Erro ao buscar classe", err)
	}

	byClass, err := s.abilities(ctx, &id)
	if err != nil {
		return nil, fail(ctx, "Erro ao buscar classe", err)
	}
	withAbilities(&c, byClass)
	return &c, nil
}

const raceQuery = `
	SELECT r.raca_id, r.nome_raca, r.bonus, r.descricao_raca,
	       COUNT(p.personagem_id) AS total_personagens,
	       AVG(p.nivel) AS media_nivel
	FROM raca r
	LEFT JOIN personagem p ON p.personagemraca_id = r.raca_id`

const raceGroup = `
	GROUP BY r.raca_id, r.nome_raca, r.bonus, r.descricao_raca`

func scanRace(row scanner, r *models.Race) error {
	var avg sql.NullFloat64
	if err := row.Scan(&r.ID, &r.Name, &r.Bonus, &r.Description, &r.TotalCharacters, &avg); err != nil {
		return err
	}
	if avg.Valid {
		rounded := float64(int64(avg.Float64*10+0.5)) / 10
		r.AverageLevel = &rounded
	}
	return nil
}

// ListRaces returns every race with its character count and average level.
func (s *Store) ListRaces(ctx context.Context) ([]models.Race, error) {
	ctx, cancel := s.db.Bound(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, raceQuery+raceGroup+` ORDER BY total_personagens DESC, r.nome_raca`)
	if err != nil {
		return nil, fail(ctx, "Erro ao listar raças", err)
	}
	defer rows.Close()

	races := []models.Race{}
	for rows.Next() {
		var r models.Race
		if err := scanRace(rows, &r); err != nil {
			return nil, fail(ctx, "Erro ao listar raças", err)
		}
		races = append(races, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fail(ctx, "Erro ao listar raças", err)
	}
	return races, nil
}

// GetRace returns one race with its character count and average level.
func (s *Store) GetRace(ctx context.Context, id int64) (*models.Race, error) {
	ctx, cancel := s.db.Bound(ctx)
	defer cancel()

	var r models.Race
	err := scanRace(s.db.QueryRowContext(ctx, raceQuery+` WHERE r.raca_id = $1`+raceGroup, id), &r)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("Raça não encontrada")
	}
	if err != nil {
		return nil, fail(ctx, "Erro ao buscar raça", err)
	}
	return &r, nil
}
