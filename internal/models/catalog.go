package models

// Ability is a row of the habilidade table.
type Ability struct {
	ID          int64   `json:"habilidade_id"`
	Name        string  `json:"nome"`
	Type        *string `json:"tipo"`
	Cost        *int    `json:"custo"`
	Description *string `json:"descricao"`
	ClassID     int64   `json:"-"`
}

// Class is a row of the classe table with its abilities.
type Class struct {
	ID          int64     `json:"classe_id"`
	Name        string    `json:"nome_classe"`
	HitDie      *string   `json:"dado_vida"`
	EnergyDie   *string   `json:"dado_energia"`
	Description *string   `json:"descricao_classe"`
	Abilities   []Ability `json:"habilidades"`
}

// Race is a row of the raca table with stats over its characters.
type Race struct {
	ID              int64    `json:"raca_id"`
	Name            string   `json:"nome_raca"`
	Bonus           *string  `json:"bonus"`
	Description     *string  `json:"descricao_raca"`
	TotalCharacters int64    `json:"total_personagens"`
	AverageLevel    *float64 `json:"media_nivel"`
}

// NPCSummary is a row of the NPC listing.
type NPCSummary struct {
	ID        int64   `json:"personagem_id"`
	Name      string  `json:"nome_personagem"`
	NPCType   *string `json:"tipo_npc"`
	Level     int     `json:"nivel"`
	Creator   string  `json:"criador"`
	RaceName  string  `json:"nome_raca"`
	ClassName *string `json:"nome_classe"`
}

// MasterNPC is an NPC listed under its master, with its ability scores.
type MasterNPC struct {
	ID           int64   `json:"personagem_id"`
	Name         string  `json:"nome_personagem"`
	NPCType      *string `json:"tipo_npc"`
	Level        int     `json:"nivel"`
	HitPoints    int     `json:"pontos_vida"`
	RaceName     string  `json:"nome_raca"`
	ClassName    *string `json:"nome_classe"`
	Strength     int     `json:"forca"`
	Dexterity    int     `json:"destreza"`
	Charisma     int     `json:"carisma"`
	Wisdom       int     `json:"sabedoria"`
	Intelligence int     `json:"inteligencia"`
}

// NPCDetail is an NPC with its creator, race and class.
type NPCDetail struct {
	Character
	NPCType   *string `json:"tipo_npc"`
	Creator   string  `json:"criador"`
	RaceName  string  `json:"nome_raca"`
	RaceBonus *string `json:"bonus"`
	ClassName *string `json:"nome_classe"`
	HitDie    *string `json:"dado_vida"`
}
