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

const playerNotFound = "Jogador não encontrado"

const userColumns = `user_id, nome_usuario, email, data_nascimento`

func scanUser(row scanner, u *models.User) error {
	return row.Scan(&u.ID, &u.Username, &u.Email, &u.BirthDate)
}

const playerSummaryQuery = `
	SELECT u.user_id, u.nome_usuario, u.email, u.data_nascimento,
	       COUNT(pc.pc_id) AS total_personagens,
	       COALESCE(SUM(pc.experiencia), 0) AS experiencia_total
	FROM usuario u
	JOIN jogador j ON j.jogadoruser_id = u.user_id
	LEFT JOIN pc ON pc.pc_jogador_id = j.jogadoruser_id`

const playerSummaryGroup = `
	GROUP BY u.user_id, u.nome_usuario, u.email, u.data_nascimento`

func scanPlayerSummary(row scanner, p *models.PlayerSummary) error {
	return row.Scan(
		&p.ID, &p.Username, &p.Email, &p.BirthDate,
		&p.TotalCharacters, &p.TotalExperience,
	)
}

// ListPlayers returns every player with character count and total
// experience, most experienced first.
func (s *Store) ListPlayers(ctx context.Context) ([]models.PlayerSummary, error) {
	ctx, cancel := s.db.Bound(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, playerSummaryQuery+playerSummaryGroup+`
		ORDER BY experiencia_total DESC, u.user_id`)
	if err != nil {
		return nil, fail(ctx, "Erro ao listar jogadores", err)
	}
	defer rows.Close()

	players := []models.PlayerSummary{}
	for rows.Next() {
		var p models.PlayerSummary
		if err := scanPlayerSummary(rows, &p); err != nil {
			return nil, fail(ctx, "Erro ao listar jogadores", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fail(ctx, "Erro ao listar jogadores", err)
	}
	return players, nil
}

// GetPlayer returns one player with aggregates and the roles its user holds.
func (s *Store) GetPlayer(ctx context.Context, id int64) (*models.PlayerDetail, error) {
	ctx, cancel := s.db.Bound(ctx)
	defer cancel()

	var p models.PlayerDetail
	err := scanPlayerSummary(s.db.QueryRowContext(ctx,
		playerSummaryQuery+` WHERE u.user_id = $1`+playerSummaryGroup, id), &p.PlayerSummary)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound(playerNotFound)
	}
	if err != nil {
		return nil, fail(ctx, "Erro ao buscar jogador", err)
	}

	p.Roles.Player = true
	p.Roles.Master, err = exists(ctx, s.db, `SELECT 1 FROM mestre WHERE mestreuser_id = $1`, id)
	if err != nil {
		return nil, fail(ctx, "Erro ao buscar jogador", err)
	}
	return &p, nil
}

// PlayerCharacters returns the player characters owned by a player, most
// experienced first.
func (s *Store) PlayerCharacters(ctx context.Context, id int64) ([]models.PlayerCharacter, error) {
	ctx, cancel := s.db.Bound(ctx)
	defer cancel()

	if err := require(ctx, s.db, playerNotFound,
		`SELECT 1 FROM jogador WHERE jogadoruser_id = $1`, id); err != nil {
		return nil, fail(ctx, "Erro ao buscar personagens do jogador", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT p.personagem_id, p.nome_personagem, p.nivel, pc.experiencia,
		       r.nome_raca, c.nome_classe, p.pontos_vida
		FROM pc
		JOIN personagem p ON p.personagem_id = pc.pc_id
		JOIN raca r ON r.raca_id = p.personagemraca_id
		LEFT JOIN classe c ON c.classe_id = p.personagemclasse_id
		WHERE pc.pc_jogador_id = $1
		ORDER BY pc.experiencia DESC, p.personagem_id`, id)
	if err != nil {
		return nil, fail(ctx, "Erro ao buscar personagens do jogador", err)
	}
	defer rows.Close()

	characters := []models.PlayerCharacter{}
	for rows.Next() {
		var c models.PlayerCharacter
		if err := rows.Scan(&c.ID, &c.Name, &c.Level, &c.Experience, &c.RaceName, &c.ClassName, &c.HitPoints); err != nil {
			return nil, fail(ctx, "Erro ao buscar personagens do jogador", err)
		}
		characters = append(characters, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fail(ctx, "Erro ao buscar personagens do jogador", err)
	}
	return characters, nil
}

// role describes one of the two role tables hanging off usuario.
type role struct {
	table    string
	column   string
	name     string
	notFound string
}

var (
	playerRole = role{table: "jogador", column: "jogadoruser_id", name: "player", notFound: playerNotFound}
	masterRole = role{table: "mestre", column: "mestreuser_id", name: "master", notFound: masterNotFound}
)

// createWithRole inserts a user and its role row as one transaction, or
// attaches the role to an existing user when req.UserID is set.
func (s *Store) createWithRole(ctx context.Context, r role, req models.NewUser) (*models.User, error) {
	var u models.User
	err := s.db.InTx(ctx, "create "+r.name, func(ctx context.Context, tx *database.Tx) error {
		if req.UserID != nil {
			row := tx.QueryRowContext(ctx, `SELECT `+userColumns+` FROM usuario WHERE user_id = $1`, *req.UserID)
			if err := scanUser(row, &u); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return apperr.NotFound("Usuário não encontrado")
				}
				return err
			}
		} else {
			id, err := s.db.IDs().NextID(ctx, tx, "usuario", "user_id")
			if err != nil {
				return err
			}
			u = models.User{ID: id, Username: req.Username, Email: req.Email, BirthDate: req.BirthDate}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO usuario (`+userColumns+`) VALUES ($1, $2, $3, $4)`,
				u.ID, u.Username, u.Email, u.BirthDate,
			); err != nil {
				return err
			}
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO `+r.table+` (`+r.column+`) VALUES ($1) ON CONFLICT DO NOTHING`, u.ID)
		return err
	})
	return &u, err
}

// CreatePlayer creates a user holding the player role.
func (s *Store) CreatePlayer(ctx context.Context, req models.NewUser) (*models.User, error) {
	ctx, cancel := s.db.Bound(ctx)
	defer cancel()

	u, err := s.createWithRole(ctx, playerRole, req)
	if err != nil {
		return nil, fail(ctx, "Erro ao criar jogador", err)
	}
	log.Printf("[Players] Player %d (%s) created", u.ID, u.Username)
	return u, nil
}

// UpdatePlayer applies a partial update to a player's user row.
func (s *Store) UpdatePlayer(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	ctx, cancel := s.db.Bound(ctx)
	defer cancel()

	var u models.User
	err := scanUser(s.db.QueryRowContext(ctx, `
		UPDATE usuario
		SET nome_usuario = COALESCE($1, nome_usuario),
		    email = COALESCE($2, email),
		    data_nascimento = COALESCE($3, data_nascimento)
		WHERE user_id = $4
		  AND EXISTS (SELECT 1 FROM jogador WHERE jogadoruser_id = $4)
		RETURNING `+userColumns,
		patch.Username, patch.Email, patch.BirthDate, id,
	), &u)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound(playerNotFound)
	}
	if err != nil {
		return nil, fail(ctx, "Erro ao atualizar jogador", err)
	}

	log.Printf("[Players] Player %d updated", id)
	return &u, nil
}

// DeletePlayer removes the player role and then the user row in one
// transaction. A user still referenced elsewhere (a master, or a player
// owning characters) fails on the foreign key and nothing is removed.
func (s *Store) DeletePlayer(ctx context.Context, id int64) (*models.User, error) {
	ctx, cancel := s.db.Bound(ctx)
	defer cancel()

	var u models.User
	err := s.db.InTx(ctx, "delete player", func(ctx context.Context, tx *database.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM jogador WHERE jogadoruser_id = $1`, id)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return apperr.NotFound(playerNotFound)
		}

		if err := scanUser(tx.QueryRowContext(ctx,
			`SELECT `+userColumns+` FROM usuario WHERE user_id = $1`, id), &u); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM usuario WHERE user_id = $1`, id)
		return err
	})
	if err != nil {
		return nil, fail(ctx, "Erro ao deletar jogador", err)
	}

	log.Printf("[Players] Player %d removed", id)
	return &u, nil
}
