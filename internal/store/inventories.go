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

const itemColumns = `item_id, nome_item, tipo_item, valor, peso, descricao_item, proprietario_id`

func scanItem(row scanner, it *models.Item) error {
	return row.Scan(&it.ID, &it.Name, &it.Type, &it.Value, &it.Weight, &it.Description, &it.InventoryID)
}

// GetInventory returns a character's items, most valuable first, with
// totals. A character without items, or without a row at all, yields the
// empty view.
func (s *Store) GetInventory(ctx context.Context, characterID int64) (*models.InventoryView, error) {
	ctx, cancel := s.db.Bound(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT p.nome_personagem, i.item_id, i.nome_item, i.tipo_item,
		       i.valor, i.peso, i.descricao_item, i.proprietario_id
		FROM personagem p
		JOIN inventario inv ON inv.ipersonagem_id = p.personagem_id
		JOIN item i ON i.proprietario_id = inv.inventario_id
		WHERE p.personagem_id = $1
		ORDER BY i.valor DESC, i.item_id`, characterID)
	if err != nil {
		return nil, fail(ctx, "Erro ao buscar inventário", err)
	}
	defer rows.Close()

	var (
		character string
		items     []models.Item
	)
	for rows.Next() {
		var it models.Item
		if err := rows.Scan(
			&character, &it.ID, &it.Name, &it.Type,
			&it.Value, &it.Weight, &it.Description, &it.InventoryID,
		); err != nil {
			return nil, fail(ctx, "Erro ao buscar inventário", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fail(ctx, "Erro ao buscar inventário", err)
	}

	view := models.NewInventoryView(character, items)
	return &view, nil
}

// AddItem inserts an item into the character's inventory.
func (s *Store) AddItem(ctx context.Context, characterID int64, req models.NewItem) (*models.Item, error) {
	ctx, cancel := s.db.Bound(ctx)
	defer cancel()

	var it models.Item
	err := s.db.InTx(ctx, "add item", func(ctx context.Context, tx *database.Tx) error {
		var inventoryID int64
		err := tx.QueryRowContext(ctx,
			`SELECT inventario_id FROM inventario WHERE ipersonagem_id = $1`, characterID).Scan(&inventoryID)
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("Inventário não encontrado")
		}
		if err != nil {
			return err
		}

		it = req.Item(inventoryID)
		if it.ID, err = s.db.IDs().NextID(ctx, tx, "item", "item_id"); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO item (`+itemColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			it.ID, it.Name, it.Type, it.Value, it.Weight, it.Description, it.InventoryID,
		)
		return err
	})
	if err != nil {
		return nil, fail(ctx, "Erro ao adicionar item", err)
	}

	log.Printf("[Inventories] Item %d (%s) added to character %d", it.ID, it.Name, characterID)
	return &it, nil
}

// RemoveItem deletes an item, provided it belongs to the character's
// inventory.
func (s *Store) RemoveItem(ctx context.Context, characterID, itemID int64) (*models.Item, error) {
	ctx, cancel := s.db.Bound(ctx)
	defer cancel()

	var it models.Item
	err := scanItem(s.db.QueryRowContext(ctx, `
		DELETE FROM item
		WHERE item_id = $1
		  AND proprietario_id IN (SELECT inventario_id FROM inventario WHERE ipersonagem_id = $2)
		RETURNING `+itemColumns, itemID, characterID), &it)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("Item não encontrado")
	}
	if err != nil {
		return nil, fail(ctx, "Erro ao remover item", err)
	}

	log.Printf("[Inventories] Item %d removed from character %d", itemID, characterID)
	return &it, nil
}
