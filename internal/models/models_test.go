package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mesa-rpg/api/internal/apperr"
)

func TestNewCharacterDefaults(t *testing.T) {
	var req NewCharacter
	if err := json.Unmarshal([]byte(`{"nome_personagem":"Vex","personagemRaca_id":2}`), &req); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	c := req.Character()
	if c.HitPoints != 10 || c.Level != 1 {
		t.Fatalf("hp/level = %d/%d, want 10/1", c.HitPoints, c.Level)
	}
	for name, got := range map[string]int{
		"destreza": c.Dexterity, "forca": c.Strength, "carisma": c.Charisma,
		"sabedoria": c.Wisdom, "inteligencia": c.Intelligence,
	} {
		if got != DefaultAbilityScore {
			t.Fatalf("%s = %d, want %d", name, got, DefaultAbilityScore)
		}
	}
	if c.RaceID != 2 {
		t.Fatalf("race id = %d, want 2", c.RaceID)
	}
	if c.ClassID != nil {
		t.Fatalf("class id = %v, want nil", *c.ClassID)
	}
}

func TestNewCharacterKeepsExplicitValues(t *testing.T) {
	var req NewCharacter
	body := `{"nome_personagem":"Grog","personagemraca_id":1,"forca":0,"nivel":7,"pontos_vida":null}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("decode: %v", err)
	}
	c := req.Character()
	if c.Strength != 0 {
		t.Fatalf("forca = %d, want explicit 0", c.Strength)
	}
	if c.Level != 7 {
		t.Fatalf("nivel = %d, want 7", c.Level)
	}
	if c.HitPoints != DefaultHitPoints {
		t.Fatalf("pontos_vida = %d, want default for null", c.HitPoints)
	}
}

func TestNewCharacterValidate(t *testing.T) {
	race := int64(1)
	player := int64(3)
	master := int64(4)

	tests := []struct {
		name  string
		req   NewCharacter
		field string
	}{
		{"missing name", NewCharacter{RaceID: &race}, "nome_personagem"},
		{"blank name", NewCharacter{Name: "  ", RaceID: &race}, "nome_personagem"},
		{"missing race", NewCharacter{Name: "Pike"}, "personagemraca_id"},
		{"pc and npc", NewCharacter{Name: "Pike", RaceID: &race, PlayerID: &player, MasterID: &master}, "jogador_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			var appErr *apperr.Error
			if !asAppErr(err, &appErr) || appErr.Code != apperr.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
			if appErr.Field != tt.field {
				t.Fatalf("field = %q, want %q", appErr.Field, tt.field)
			}
		})
	}
}

func TestNewCharacterSpecialization(t *testing.T) {
	player := int64(3)
	if specialization := (NewCharacter{PlayerID: &player}).Specialization(); specialization == nil || specialization.Kind != KindPC || *specialization.Experience != 0 {
		t.Fatalf("unexpected pc specialization: %+v", specialization)
	}

	master := int64(4)
	kind := "Mercador"
	specialization := NewCharacter{MasterID: &master, NPCType: &kind}.Specialization()
	if specialization == nil || specialization.Kind != KindNPC || *specialization.NPCType != "Mercador" {
		t.Fatalf("unexpected npc specialization: %+v", specialization)
	}

	if specialization := (NewCharacter{}).Specialization(); specialization != nil {
		t.Fatalf("expected no specialization, got %+v", specialization)
	}
}

func TestNewMissionDefaults(t *testing.T) {
	session := int64(1)
	req := NewMission{Name: "Resgate", SessionID: &session}
	if err := req.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	m := req.Mission()
	if m.Status != StatusOpen {
		t.Fatalf("status = %q, want %q", m.Status, StatusOpen)
	}
	r := req.Reward()
	if r.Gold != 0 || r.Experience != 0 || r.Reputation != 0 {
		t.Fatalf("reward = %+v, want zero amounts", r)
	}

	if err := (NewMission{Name: "Resgate"}).Validate(); err == nil {
		t.Fatal("expected missing s_id to fail")
	}
}

func TestMissionPatchTouchesReward(t *testing.T) {
	name := "x"
	if (MissionPatch{Name: &name}).TouchesReward() {
		t.Fatal("name-only patch should not touch reward")
	}
	gold := int64(50)
	if !(MissionPatch{Gold: &gold}).TouchesReward() {
		t.Fatal("gold patch should touch reward")
	}
}

func TestNewInventoryViewTotals(t *testing.T) {
	items := []Item{
		{Name: "Espada", Value: 150, Weight: 3},
		{Name: "Poção", Value: 50, Weight: 0.5},
	}
	v := NewInventoryView("Vex", items)
	if v.TotalItems != 2 || v.TotalValue != 200 || v.TotalWeight != 3.5 {
		t.Fatalf("totals = %d/%d/%v, want 2/200/3.5", v.TotalItems, v.TotalValue, v.TotalWeight)
	}
	if v.Message != "" || v.Character != "Vex" {
		t.Fatalf("unexpected header: %+v", v)
	}
}

func TestNewInventoryViewEmptyShape(t *testing.T) {
	v := NewInventoryView("", nil)
	if v.Message != EmptyInventoryMessage {
		t.Fatalf("message = %q", v.Message)
	}
	body, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(body), `"itens":[]`) {
		t.Fatalf("expected explicit empty item list, got %s", body)
	}
}

func TestNewItemDefaults(t *testing.T) {
	it := NewItem{Name: "Corda"}.Item(9)
	if it.Weight != DefaultItemWeight || it.Value != DefaultItemValue || it.InventoryID != 9 {
		t.Fatalf("item = %+v", it)
	}
}

func TestNewSessionDefaultsDate(t *testing.T) {
	master := int64(2)
	s := NewSession{Title: "Sessão 1", MasterID: &master}.Session()
	if !s.CreatedOn.Valid {
		t.Fatal("expected creation date default")
	}
	if s.CreatedOn.String() != time.Now().UTC().Format("2006-01-02") {
		t.Fatalf("created on = %s", s.CreatedOn)
	}
}

func TestNewUserValidate(t *testing.T) {
	if err := (NewUser{Username: "ana"}).Validate(); err == nil {
		t.Fatal("expected missing email to fail")
	}
	id := int64(5)
	if err := (NewUser{UserID: &id}).Validate(); err != nil {
		t.Fatalf("attaching role to existing user should not need fields: %v", err)
	}
}

func TestDateJSON(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"1990-05-10"`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	out, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"1990-05-10"` {
		t.Fatalf("marshal = %s", out)
	}

	if err := json.Unmarshal([]byte(`"2024-01-02T15:04:05Z"`), &d); err != nil || d.String() != "2024-01-02" {
		t.Fatalf("rfc3339 = %v, %v", d, err)
	}
	if err := json.Unmarshal([]byte(`"10/05/1990"`), &d); err == nil {
		t.Fatal("expected invalid date to fail")
	}
	out, _ = json.Marshal(Date{})
	if string(out) != "null" {
		t.Fatalf("zero date = %s, want null", out)
	}
}

func TestDateScan(t *testing.T) {
	var d Date
	if err := d.Scan(time.Date(2023, 3, 4, 18, 0, 0, 0, time.UTC)); err != nil || d.String() != "2023-03-04" {
		t.Fatalf("scan time = %v, %v", d, err)
	}
	if err := d.Scan("2023-03-05 00:00:00+00:00"); err != nil || d.String() != "2023-03-05" {
		t.Fatalf("scan text = %v, %v", d, err)
	}
	if err := d.Scan(nil); err != nil || d.Valid {
		t.Fatalf("scan nil = %v, %v", d, err)
	}
	v, err := NewDate(time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)).Value()
	if err != nil || v != "2020-01-02" {
		t.Fatalf("value = %v, %v", v, err)
	}
}

func asAppErr(err error, target **apperr.Error) bool {
	e, ok := err.(*apperr.Error)
	if ok {
		*target = e
	}
	return ok
}
