package models

import (
	"strings"

	"github.com/mesa-rpg/api/internal/apperr"
)

// Default values for fields omitted when a character is created.
const (
	DefaultAbilityScore = 10
	DefaultHitPoints    = 10
	DefaultLevel        = 1
)

// Character is a row of the personagem table.
type Character struct {
	ID           int64  `json:"personagem_id"`
	Name         string `json:"nome_personagem"`
	HitPoints    int    `json:"pontos_vida"`
	Level        int    `json:"nivel"`
	Dexterity    int    `json:"destreza"`
	Strength     int    `json:"forca"`
	Charisma     int    `json:"carisma"`
	Wisdom       int    `json:"sabedoria"`
	Intelligence int    `json:"inteligencia"`
	RaceID       int64  `json:"personagemraca_id"`
	ClassID      *int64 `json:"personagemclasse_id"`
}

// CharacterKind tags which specialization a character carries.
type CharacterKind string

const (
	KindPC  CharacterKind = "pc"
	KindNPC CharacterKind = "npc"
)

// Specialization is the exclusive player-character or NPC record of a
// character. Only the fields of its Kind are set.
type Specialization struct {
	Kind       CharacterKind `json:"tipo"`
	PlayerID   *int64        `json:"jogador_id,omitempty"`
	Experience *int64        `json:"experiencia,omitempty"`
	MasterID   *int64        `json:"mestre_id,omitempty"`
	NPCType    *string       `json:"tipo_npc,omitempty"`
}

// CharacterSummary is a row of the character listing.
type CharacterSummary struct {
	ID           int64   `json:"personagem_id"`
	Name         string  `json:"nome_personagem"`
	Level        int     `json:"nivel"`
	HitPoints    int     `json:"pontos_vida"`
	Dexterity    int     `json:"destreza"`
	Strength     int     `json:"forca"`
	Charisma     int     `json:"carisma"`
	Wisdom       int     `json:"sabedoria"`
	Intelligence int     `json:"inteligencia"`
	RaceName     string  `json:"nome_raca"`
	ClassName    *string `json:"nome_classe"`
}

// CharacterDetail is a character with its race, class and specialization.
type CharacterDetail struct {
	Character
	RaceName         string          `json:"nome_raca"`
	RaceBonus        *string         `json:"bonus"`
	RaceDescription  *string         `json:"descricao_raca"`
	ClassName        *string         `json:"nome_classe"`
	HitDie           *string         `json:"dado_vida"`
	EnergyDie        *string         `json:"dado_energia"`
	ClassDescription *string         `json:"descricao_classe"`
	Specialization   *Specialization `json:"especializacao"`
}

// CharacterFilter narrows the character listing. Zero values match all rows.
type CharacterFilter struct {
	Name    string
	RaceID  *int64
	ClassID *int64
}

// NewCharacter is the request body for creating a character.
type NewCharacter struct {
	Name         string `json:"nome_personagem"`
	HitPoints    *int   `json:"pontos_vida"`
	Level        *int   `json:"nivel"`
	Dexterity    *int   `json:"destreza"`
	Strength     *int   `json:"forca"`
	Charisma     *int   `json:"carisma"`
	Wisdom       *int   `json:"sabedoria"`
	Intelligence *int   `json:"inteligencia"`
	RaceID       *int64 `json:"personagemraca_id"`
	ClassID      *int64 `json:"personagemclasse_id"`

	PlayerID   *int64  `json:"jogador_id"`
	Experience *int64  `json:"experiencia"`
	MasterID   *int64  `json:"mestre_id"`
	NPCType    *string `json:"tipo_npc"`
}

// Validate performs the presence checks for character creation.
func (n NewCharacter) Validate() error {
	if strings.TrimSpace(n.Name) == "" {
		return apperr.Validation("nome_personagem", "nome_personagem é obrigatório")
	}
	if n.RaceID == nil {
		return apperr.Validation("personagemraca_id", "personagemraca_id é obrigatório")
	}
	if n.PlayerID != nil && n.MasterID != nil {
		return apperr.Validation("jogador_id", "um personagem não pode ser PC e NPC ao mesmo tempo")
	}
	return nil
}

// Character resolves the request into a row, applying defaults to omitted
// fields. An explicit zero is kept.
func (n NewCharacter) Character() Character {
	c := Character{
		Name:         n.Name,
		HitPoints:    intOr(n.HitPoints, DefaultHitPoints),
		Level:        intOr(n.Level, DefaultLevel),
		Dexterity:    intOr(n.Dexterity, DefaultAbilityScore),
		Strength:     intOr(n.Strength, DefaultAbilityScore),
		Charisma:     intOr(n.Charisma, DefaultAbilityScore),
		Wisdom:       intOr(n.Wisdom, DefaultAbilityScore),
		Intelligence: intOr(n.Intelligence, DefaultAbilityScore),
		ClassID:      n.ClassID,
	}
	if n.RaceID != nil {
		c.RaceID = *n.RaceID
	}
	return c
}

// Specialization returns the PC or NPC record requested, or nil for a plain
// character.
func (n NewCharacter) Specialization() *Specialization {
	switch {
	case n.PlayerID != nil:
		xp := int64(0)
		if n.Experience != nil {
			xp = *n.Experience
		}
		return &Specialization{Kind: KindPC, PlayerID: n.PlayerID, Experience: &xp}
	case n.MasterID != nil:
		return &Specialization{Kind: KindNPC, MasterID: n.MasterID, NPCType: n.NPCType}
	}
	return nil
}

// CharacterPatch holds a partial character update; nil fields keep the
// stored value.
type CharacterPatch struct {
	Name         *string `json:"nome_personagem"`
	HitPoints    *int    `json:"pontos_vida"`
	Level        *int    `json:"nivel"`
	Dexterity    *int    `json:"destreza"`
	Strength     *int    `json:"forca"`
	Charisma     *int    `json:"carisma"`
	Wisdom       *int    `json:"sabedoria"`
	Intelligence *int    `json:"inteligencia"`
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
