package models

import (
	"strings"

	"github.com/mesa-rpg/api/internal/apperr"
)

// Default values for fields omitted when an item is added.
const (
	DefaultItemWeight = 1
	DefaultItemValue  = 0
)

// EmptyInventoryMessage is reported when a character has no items or does
// not exist.
const EmptyInventoryMessage = "Inventário vazio ou personagem não encontrado"

// Item is a row of the item table.
type Item struct {
	ID          int64   `json:"item_id"`
	Name        string  `json:"nome_item"`
	Type        *string `json:"tipo_item"`
	Value       int64   `json:"valor"`
	Weight      float64 `json:"peso"`
	Description *string `json:"descricao_item"`
	InventoryID int64   `json:"proprietario_id"`
}

// NewItem is the request body for adding an item to an inventory.
type NewItem struct {
	Name        string   `json:"nome_item"`
	Type        *string  `json:"tipo_item"`
	Value       *int64   `json:"valor"`
	Weight      *float64 `json:"peso"`
	Description *string  `json:"descricao_item"`
}

// Validate performs the presence checks for item creation.
func (n NewItem) Validate() error {
	if strings.TrimSpace(n.Name) == "" {
		return apperr.Validation("nome_item", "nome_item é obrigatório")
	}
	return nil
}

// Item resolves the request into a row owned by inventoryID.
func (n NewItem) Item(inventoryID int64) Item {
	it := Item{
		Name:        n.Name,
		Type:        n.Type,
		Value:       DefaultItemValue,
		Weight:      DefaultItemWeight,
		Description: n.Description,
		InventoryID: inventoryID,
	}
	if n.Value != nil {
		it.Value = *n.Value
	}
	if n.Weight != nil {
		it.Weight = *n.Weight
	}
	return it
}

// InventoryView is a character's inventory with totals over its items.
type InventoryView struct {
	Message     string  `json:"message,omitempty"`
	Character   string  `json:"personagem,omitempty"`
	TotalItems  int     `json:"total_itens"`
	TotalValue  int64   `json:"valor_total"`
	TotalWeight float64 `json:"peso_total"`
	Items       []Item  `json:"itens"`
}

// NewInventoryView totals the given items. With no items it returns the
// explicit empty shape.
func NewInventoryView(character string, items []Item) InventoryView {
	if len(items) == 0 {
		return InventoryView{Message: EmptyInventoryMessage, Items: []Item{}}
	}
	v := InventoryView{Character: character, TotalItems: len(items), Items: items}
	for _, it := range items {
		v.TotalValue += it.Value
		v.TotalWeight += it.Weight
	}
	return v
}
