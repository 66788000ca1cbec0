package handlers

import "net/http"

// Store is everything the routes read and write.
type Store interface {
	CharacterStore
	PlayerStore
	MasterStore
	MissionStore
	SessionStore
	InventoryStore
	CatalogStore
	ReportStore
}

// Register mounts every route on mux.
func Register(mux *http.ServeMux, store Store, db Pinger, reports []string) {
	system := NewSystemHandler(db, reports)
	characters := NewCharacterHandler(store)
	players := NewPlayerHandler(store)
	masters := NewMasterHandler(store)
	missions := NewMissionHandler(store)
	sessions := NewSessionHandler(store)
	inventories := NewInventoryHandler(store)
	catalog := NewCatalogHandler(store)
	reportHandler := NewReportHandler(store)

	mux.HandleFunc("GET /{$}", system.Index)
	mux.HandleFunc("GET /health", system.Health)

	// Character routes
	mux.HandleFunc("GET /personagens", characters.List)
	mux.HandleFunc("POST /personagens", characters.Create)
	mux.HandleFunc("GET /personagens/{id}", characters.Get)
	mux.HandleFunc("PUT /personagens/{id}", characters.Update)
	mux.HandleFunc("DELETE /personagens/{id}", characters.Delete)

	// Player routes
	mux.HandleFunc("GET /jogadores", players.List)
	mux.HandleFunc("POST /jogadores", players.Create)
	mux.HandleFunc("GET /jogadores/{id}", players.Get)
	mux.HandleFunc("PUT /jogadores/{id}", players.Update)
	mux.HandleFunc("DELETE /jogadores/{id}", players.Delete)
	mux.HandleFunc("GET /jogadores/{id}/personagens", players.Characters)

	// Master routes
	mux.HandleFunc("GET /mestres", masters.List)
	mux.HandleFunc("POST /mestres", masters.Create)
	mux.HandleFunc("GET /mestres/{id}", masters.Get)

	// Mission routes
	mux.HandleFunc("GET /missoes", missions.List)
	mux.HandleFunc("POST /missoes", missions.Create)
	mux.HandleFunc("GET /missoes/status/{status}", missions.ByStatus)
	mux.HandleFunc("GET /missoes/{id}", missions.Get)
	mux.HandleFunc("PUT /missoes/{id}", missions.Update)
	mux.HandleFunc("DELETE /missoes/{id}", missions.Delete)
	mux.HandleFunc("POST /missoes/{id}/participantes", missions.AddParticipant)
	mux.HandleFunc("DELETE /missoes/{id}/participantes/{personagem_id}", missions.RemoveParticipant)

	// Session routes
	mux.HandleFunc("GET /sessoes", sessions.List)
	mux.HandleFunc("POST /sessoes", sessions.Create)
	mux.HandleFunc("GET /sessoes/{id}", sessions.Get)

	// Inventory routes
	mux.HandleFunc("GET /inventarios/{personagem_id}", inventories.Get)
	mux.HandleFunc("POST /inventarios/{personagem_id}/itens", inventories.AddItem)
	mux.HandleFunc("DELETE /inventarios/{personagem_id}/itens/{item_id}", inventories.RemoveItem)

	// Catalog routes
	mux.HandleFunc("GET /classes", catalog.ListClasses)
	mux.HandleFunc("GET /classes/{id}", catalog.GetClass)
	mux.HandleFunc("GET /racas", catalog.ListRaces)
	mux.HandleFunc("GET /racas/{id}", catalog.GetRace)
	mux.HandleFunc("GET /npcs", catalog.ListNPCs)
	mux.HandleFunc("GET /npcs/mestre/{mestre_id}", catalog.NPCsByMaster)
	mux.HandleFunc("GET /npcs/{id}", catalog.GetNPC)

	mux.HandleFunc("GET /relatorios/{nome}", reportHandler.Get)
}
