package models

// XPRankingEntry is a player character ranked by experience.
type XPRankingEntry struct {
	Username      string `json:"nome_usuario"`
	CharacterName string `json:"nome_personagem"`
	Experience    int64  `json:"experiencia"`
	Level         int    `json:"nivel"`
}

// StrongestCharacter is a character ranked by the sum of its ability scores.
type StrongestCharacter struct {
	Name            string `json:"nome_personagem"`
	Strength        int    `json:"forca"`
	Dexterity       int    `json:"destreza"`
	Charisma        int    `json:"carisma"`
	Wisdom          int    `json:"sabedoria"`
	Intelligence    int    `json:"inteligencia"`
	TotalAttributes int    `json:"total_atributos"`
}

// LucrativeMission is a mission ranked by its gold reward.
type LucrativeMission struct {
	Name         string  `json:"nome_missao"`
	Status       string  `json:"status"`
	Gold         int64   `json:"qtd_ouro"`
	Experience   int64   `json:"qtd_xp"`
	RewardTitle  *string `json:"titulo"`
	SessionTitle string  `json:"sessao"`
}

// ValuableItem is an item ranked by value, with its owner.
type ValuableItem struct {
	Name          string  `json:"nome_item"`
	Value         int64   `json:"valor"`
	Type          *string `json:"tipo_item"`
	CharacterName string  `json:"nome_personagem"`
}

// HybridUser is a user holding both the player and master roles.
type HybridUser struct {
	Username string `json:"nome_usuario"`
	Roles    Roles  `json:"papeis"`
}

// RaceClassCount is the number of characters of one race in one class.
type RaceClassCount struct {
	ClassName string `json:"nome_classe"`
	RaceName  string `json:"nome_raca"`
	Count     int64  `json:"quantidade"`
}

// InventoryValue is the total value of one character's inventory.
type InventoryValue struct {
	CharacterName string `json:"nome_personagem"`
	TotalValue    int64  `json:"valor_total_inventario"`
	ItemCount     int64  `json:"qtd_itens"`
}

// MissionInProgress is a participant of a mission currently in progress.
type MissionInProgress struct {
	MissionName   string  `json:"nome_missao"`
	Status        string  `json:"status"`
	CharacterName string  `json:"nome_personagem"`
	Username      *string `json:"nome_usuario"`
}
