package handlers

import (
	"context"
	"log"
	"net/http"
	"time"
)

// Version is reported by the index route.
const Version = "1.0.0"

// Pinger checks that the database is reachable.
type Pinger interface {
	Health(ctx context.Context) error
}

type SystemHandler struct {
	db      Pinger
	reports []string
}

// NewSystemHandler serves the index and health routes. reports is the list of
// report names shown in the index.
func NewSystemHandler(db Pinger, reports []string) *SystemHandler {
	return &SystemHandler{db: db, reports: reports}
}

var endpoints = map[string]string{
	"/personagens":                                 "GET, POST - Gerenciar personagens",
	"/personagens/{id}":                            "GET, PUT, DELETE - Personagem específico",
	"/jogadores":                                   "GET, POST - Gerenciar jogadores",
	"/jogadores/{id}":                              "GET, PUT, DELETE - Jogador específico",
	"/jogadores/{id}/personagens":                  "GET - Personagens de um jogador",
	"/mestres":                                     "GET, POST - Gerenciar mestres",
	"/mestres/{id}":                                "GET - Mestre específico",
	"/missoes":                                     "GET, POST - Gerenciar missões",
	"/missoes/{id}":                                "GET, PUT, DELETE - Missão específica",
	"/missoes/status/{status}":                     "GET - Filtrar por status",
	"/missoes/{id}/participantes":                  "POST - Adicionar participante",
	"/missoes/{id}/participantes/{personagem_id}":  "DELETE - Remover participante",
	"/sessoes":                                     "GET, POST - Gerenciar sessões",
	"/sessoes/{id}":                                "GET - Sessão específica",
	"/inventarios/{personagem_id}":                 "GET - Inventário de personagem",
	"/inventarios/{personagem_id}/itens":           "POST - Adicionar item",
	"/inventarios/{personagem_id}/itens/{item_id}": "DELETE - Remover item",
	"/classes":                                     "GET - Listar classes com habilidades",
	"/classes/{id}":                                "GET - Classe específica",
	"/racas":                                       "GET - Estatísticas de raça",
	"/racas/{id}":                                  "GET - Raça específica",
	"/npcs":                                        "GET - Listar NPCs (?tipo=)",
	"/npcs/{id}":                                   "GET - NPC específico",
	"/npcs/mestre/{mestre_id}":                     "GET - NPCs de um mestre",
	"/relatorios/{nome}":                           "GET - Relatórios",
}

// Index lists the available endpoints.
func (h *SystemHandler) Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "API RPG de Mesa",
		"endpoints":  endpoints,
		"relatorios": h.reports,
		"version":    Version,
	})
}

// Health reports liveness and whether the database answers a ping.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	status, code := "healthy", http.StatusOK
	if err := h.db.Health(r.Context()); err != nil {
		log.Printf("[API] Health check failed: %v", err)
		status, code = "unhealthy", http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	})
}
