package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mesa-rpg/api/internal/apperr"
)

const dateLayout = "2006-01-02"

// Date is a nullable calendar date. It travels as "YYYY-MM-DD" in JSON and as
// a DATE value in SQL.
type Date struct {
	Time  time.Time
	Valid bool
}

// NewDate returns a valid Date truncated to the day of t.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
}

// Today returns the current UTC date.
func Today() Date {
	return NewDate(time.Now().UTC())
}

// String formats the date, or returns "" when unset.
func (d Date) String() string {
	if !d.Valid {
		return ""
	}
	return d.Time.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := parseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	if !d.Valid {
		return nil, nil
	}
	return d.String(), nil
}

// Scan implements sql.Scanner. Postgres hands back time.Time; sqlite may hand
// back the stored text.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = NewDate(v)
		return nil
	case string:
		parsed, err := parseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		parsed, err := parseDate(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}

func parseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	for _, layout := range []string{dateLayout, time.RFC3339Nano, "2006-01-02 15:04:05Z07:00", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewDate(t), nil
		}
	}
	if len(s) >= len(dateLayout) {
		if t, err := time.Parse(dateLayout, s[:len(dateLayout)]); err == nil {
			return NewDate(t), nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
}

// User is the base identity shared by players and masters.
type User struct {
	ID        int64  `json:"user_id"`
	Username  string `json:"nome_usuario"`
	Email     string `json:"email"`
	BirthDate Date   `json:"data_nascimento"`
}

// Roles is the set of role records a user holds.
type Roles struct {
	Player bool `json:"jogador"`
	Master bool `json:"mestre"`
}

// PlayerSummary is a player with aggregate stats over their characters.
type PlayerSummary struct {
	User
	TotalCharacters int64 `json:"total_personagens"`
	TotalExperience int64 `json:"experiencia_total"`
}

// PlayerDetail adds the user's full role set.
type PlayerDetail struct {
	PlayerSummary
	Roles Roles `json:"papeis"`
}

// PlayerCharacter is one of a player's characters.
type PlayerCharacter struct {
	ID         int64   `json:"personagem_id"`
	Name       string  `json:"nome_personagem"`
	Level      int     `json:"nivel"`
	Experience int64   `json:"experiencia"`
	RaceName   string  `json:"nome_raca"`
	ClassName  *string `json:"nome_classe"`
	HitPoints  int     `json:"pontos_vida"`
}

// MasterSummary is a master with counts of what they run.
type MasterSummary struct {
	User
	TotalSessions int64 `json:"total_sessoes"`
	TotalNPCs     int64 `json:"total_npcs"`
}

// NewUser is the request body for creating a player or a master. When UserID
// is set the role is attached to that existing user and the other fields are
// ignored.
type NewUser struct {
	UserID    *int64 `json:"user_id"`
	Username  string `json:"nome_usuario"`
	Email     string `json:"email"`
	BirthDate Date   `json:"data_nascimento"`
}

// Validate checks the fields required to insert a new user row.
func (n NewUser) Validate() error {
	if n.UserID != nil {
		return nil
	}
	if strings.TrimSpace(n.Username) == "" {
		return apperr.Validation("nome_usuario", "nome_usuario é obrigatório")
	}
	if strings.TrimSpace(n.Email) == "" {
		return apperr.Validation("email", "email é obrigatório")
	}
	return nil
}

// UserPatch holds a partial user update; nil fields keep the stored value.
type UserPatch struct {
	Username  *string `json:"nome_usuario"`
	Email     *string `json:"email"`
	BirthDate *Date   `json:"data_nascimento"`
}

