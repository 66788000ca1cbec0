package store

import (
	"context"
	"database/sql"
	"sort"

	"github.com/mesa-rpg/api/internal/apperr"
	"github.com/mesa-rpg/api/internal/models"
)

// report runs one read-only query and scans its rows.
type report func(ctx context.Context, db *sql.DB) (any, error)

var reports = map[string]report{
	"ranking-xp":           xpRanking,
	"personagens-fortes":   strongestCharacters,
	"missoes-lucrativas":   lucrativeMissions,
	"itens-valiosos":       valuableItems,
	"usuarios-hibridos":    hybridUsers,
	"composicao-racial":    raceClassComposition,
	"valor-inventarios":    inventoryValues,
	"missoes-em-progresso": missionsInProgress,
}

// ReportNames lists the available reports in name order.
func ReportNames() []string {
	names := make([]string, 0, len(reports))
	for name := range reports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Report runs the named report.
func (s *Store) Report(ctx context.Context, name string) (any, error) {
	run, ok := reports[name]
	if !ok {
		return nil, apperr.NotFound("Relatório não encontrado")
	}

	ctx, cancel := s.db.Bound(ctx)
	defer cancel()

	rows, err := run(ctx, s.db.DB)
	if err != nil {
		return nil, fail(ctx, "Erro ao gerar relatório "+name, err)
	}
	return rows, nil
}

// collect scans every row with scan and always returns a non-nil slice.
func collect[T any](ctx context.Context, db *sql.DB, query string, scan func(*sql.Rows, *T) error, args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		var v T
		if err := scan(rows, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func xpRanking(ctx context.Context, db *sql.DB) (any, error) {
	return collect(ctx, db, `
		SELECT u.nome_usuario, p.nome_personagem, pc.experiencia, p.nivel
		FROM pc
		JOIN personagem p ON p.personagem_id = pc.pc_id
		JOIN usuario u ON u.user_id = pc.pc_jogador_id
		ORDER BY pc.experiencia DESC, p.personagem_id`,
		func(rows *sql.Rows, e *models.XPRankingEntry) error {
			return rows.Scan(&e.Username, &e.CharacterName, &e.Experience, &e.Level)
		})
}

func strongestCharacters(ctx context.Context, db *sql.DB) (any, error) {
	return collect(ctx, db, `
		SELECT nome_personagem, forca, destreza, carisma, sabedoria, inteligencia,
		       (forca + destreza + carisma + sabedoria + inteligencia) AS total_atributos
		FROM personagem
		ORDER BY total_atributos DESC, personagem_id
		LIMIT 10`,
		func(rows *sql.Rows, c *models.StrongestCharacter) error {
			return rows.Scan(&c.Name, &c.Strength, &c.Dexterity, &c.Charisma, &c.Wisdom, &c.Intelligence, &c.TotalAttributes)
		})
}

func lucrativeMissions(ctx context.Context, db *sql.DB) (any, error) {
	return collect(ctx, db, `
		SELECT m.nome_missao, m.status, r.qtd_ouro, r.qtd_xp, r.titulo, s.titulo AS sessao
		FROM missao m
		JOIN recompensa r ON r.recompensa_id = m.mrecompensa_id
		JOIN sessao s ON s.sessao_id = m.s_id
		ORDER BY r.qtd_ouro DESC, m.missao_id`,
		func(rows *sql.Rows, m *models.LucrativeMission) error {
			return rows.Scan(&m.Name, &m.Status, &m.Gold, &m.Experience, &m.RewardTitle, &m.SessionTitle)
		})
}

func valuableItems(ctx context.Context, db *sql.DB) (any, error) {
	return collect(ctx, db, `
		SELECT i.nome_item, i.valor, i.tipo_item, p.nome_personagem
		FROM item i
		JOIN inventario inv ON inv.inventario_id = i.proprietario_id
		JOIN personagem p ON p.personagem_id = inv.ipersonagem_id
		ORDER BY i.valor DESC, i.item_id
		LIMIT 15`,
		func(rows *sql.Rows, it *models.ValuableItem) error {
			return rows.Scan(&it.Name, &it.Value, &it.Type, &it.CharacterName)
		})
}

func hybridUsers(ctx context.Context, db *sql.DB) (any, error) {
	return collect(ctx, db, `
		SELECT u.nome_usuario
		FROM usuario u
		JOIN jogador j ON j.jogadoruser_id = u.user_id
		JOIN mestre m ON m.mestreuser_id = u.user_id
		ORDER BY u.nome_usuario, u.user_id`,
		func(rows *sql.Rows, h *models.HybridUser) error {
			h.Roles = models.Roles{Player: true, Master: true}
			return rows.Scan(&h.Username)
		})
}

func raceClassComposition(ctx context.Context, db *sql.DB) (any, error) {
	return collect(ctx, db, `
		SELECT c.nome_classe, r.nome_raca, COUNT(*) AS quantidade
		FROM personagem p
		JOIN classe c ON c.classe_id = p.personagemclasse_id
		JOIN raca r ON r.raca_id = p.personagemraca_id
		GROUP BY c.nome_classe, r.nome_raca
		ORDER BY c.nome_classe, quantidade DESC, r.nome_raca`,
		func(rows *sql.Rows, rc *models.RaceClassCount) error {
			return rows.Scan(&rc.ClassName, &rc.RaceName, &rc.Count)
		})
}

func inventoryValues(ctx context.Context, db *sql.DB) (any, error) {
	return collect(ctx, db, `
		SELECT p.nome_personagem, SUM(i.valor) AS valor_total_inventario, COUNT(i.item_id) AS qtd_itens
		FROM personagem p
		JOIN inventario inv ON inv.ipersonagem_id = p.personagem_id
		JOIN item i ON i.proprietario_id = inv.inventario_id
		GROUP BY p.personagem_id, p.nome_personagem
		ORDER BY valor_total_inventario DESC, p.personagem_id`,
		func(rows *sql.Rows, v *models.InventoryValue) error {
			return rows.Scan(&v.CharacterName, &v.TotalValue, &v.ItemCount)
		})
}

func missionsInProgress(ctx context.Context, db *sql.DB) (any, error) {
	return collect(ctx, db, `
		SELECT m.nome_missao, m.status, p.nome_personagem, u.nome_usuario
		FROM missao m
		JOIN em_missao em ON em.mmissao_id = m.missao_id
		JOIN personagem p ON p.personagem_id = em.mpersonagem_id
		LEFT JOIN pc ON pc.pc_id = p.personagem_id
		LEFT JOIN usuario u ON u.user_id = pc.pc_jogador_id
		WHERE LOWER(m.status) = LOWER($1)
		ORDER BY m.missao_id, p.personagem_id`,
		func(rows *sql.Rows, m *models.MissionInProgress) error {
			return rows.Scan(&m.MissionName, &m.Status, &m.CharacterName, &m.Username)
		}, models.StatusInProgress)
}
