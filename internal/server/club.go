package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"wh40k-club-tracker/internal/domain"
	"wh40k-club-tracker/internal/service"

	"github.com/rs/zerolog"
)

// ClubServer is the JSON HTTP surface of the club tracker. It also serves
// the shared-storage contract on /api/data, so one deployment can act as
// the shared store for other clubs.
type ClubServer struct {
	playerSvc *service.PlayerService
	battleSvc *service.BattleService
	seasonSvc *service.SeasonService
	statsSvc  *service.StatsService
	syncSvc   *service.SyncService
	logger    zerolog.Logger
}

func NewClubServer(
	playerSvc *service.PlayerService,
	battleSvc *service.BattleService,
	seasonSvc *service.SeasonService,
	statsSvc *service.StatsService,
	syncSvc *service.SyncService,
	logger zerolog.Logger,
) *ClubServer {
	return &ClubServer{
		playerSvc: playerSvc,
		battleSvc: battleSvc,
		seasonSvc: seasonSvc,
		statsSvc:  statsSvc,
		syncSvc:   syncSvc,
		logger:    logger,
	}
}

func (s *ClubServer) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/players", s.listPlayers)
	mux.HandleFunc("POST /api/players", s.addPlayer)
	mux.HandleFunc("GET /api/players/{id}", s.getPlayer)
	mux.HandleFunc("PUT /api/players/{id}", s.updatePlayer)
	mux.HandleFunc("DELETE /api/players/{id}", s.removePlayer)
	mux.HandleFunc("GET /api/players/{id}/games", s.playerGames)
	mux.HandleFunc("POST /api/players/import", s.importPlayers)

	mux.HandleFunc("GET /api/games", s.listGames)
	mux.HandleFunc("POST /api/games", s.createGame)
	mux.HandleFunc("DELETE /api/games", s.clearGames)
	mux.HandleFunc("GET /api/games/{id}", s.getGame)
	mux.HandleFunc("POST /api/games/import", s.importGames)

	mux.HandleFunc("GET /api/seasons", s.listSeasons)
	mux.HandleFunc("POST /api/seasons", s.createSeason)
	mux.HandleFunc("GET /api/seasons/active", s.activeSeason)
	mux.HandleFunc("POST /api/seasons/finish", s.finishSeason)
	mux.HandleFunc("GET /api/seasons/{id}/leaderboard", s.seasonLeaderboard)
	mux.HandleFunc("GET /api/seasons/{id}/summary", s.seasonSummary)

	mux.HandleFunc("GET /api/stats/players", s.playerStats)
	mux.HandleFunc("GET /api/stats/armies", s.armyStats)
	mux.HandleFunc("GET /api/stats/player-armies", s.playerArmyStats)

	mux.HandleFunc("GET /api/armies", s.listArmies)

	mux.HandleFunc("GET /api/export", s.exportSnapshot)
	mux.HandleFunc("POST /api/import", s.importSnapshot)

	mux.HandleFunc("GET /api/data", s.sharedRead)
	mux.HandleFunc("POST /api/data", s.sharedWrite)
}

// --- players ---

func (s *ClubServer) listPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := s.playerSvc.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, players)
}

type playerRequest struct {
	Name   string   `json:"name"`
	Armies []string `json:"armies"`
	Avatar string   `json:"avatar,omitempty"`
}

func (s *ClubServer) addPlayer(w http.ResponseWriter, r *http.Request) {
	var req playerRequest
	if !s.decode(w, r, &req) {
		return
	}
	player, err := s.playerSvc.Add(r.Context(), req.Name, req.Armies, req.Avatar)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.syncSvc.PushAsync()
	s.writeJSON(w, http.StatusCreated, player)
}

func (s *ClubServer) getPlayer(w http.ResponseWriter, r *http.Request) {
	player, err := s.playerSvc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, player)
}

func (s *ClubServer) updatePlayer(w http.ResponseWriter, r *http.Request) {
	var req playerRequest
	if !s.decode(w, r, &req) {
		return
	}
	player, err := s.playerSvc.Update(r.Context(), r.PathValue("id"), req.Name, req.Armies, req.Avatar)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.syncSvc.PushAsync()
	s.writeJSON(w, http.StatusOK, player)
}

func (s *ClubServer) removePlayer(w http.ResponseWriter, r *http.Request) {
	if err := s.playerSvc.Remove(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.syncSvc.PushAsync()
	w.WriteHeader(http.StatusNoContent)
}

func (s *ClubServer) playerGames(w http.ResponseWriter, r *http.Request) {
	battles, err := s.battleSvc.ListByPlayer(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, battles)
}

func (s *ClubServer) importPlayers(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	count, err := s.playerSvc.Import(r.Context(), raw)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.syncSvc.PushAsync()
	s.writeJSON(w, http.StatusOK, map[string]any{"imported": count})
}

// --- games ---

func (s *ClubServer) listGames(w http.ResponseWriter, r *http.Request) {
	battles, err := s.battleSvc.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, battles)
}

func (s *ClubServer) createGame(w http.ResponseWriter, r *http.Request) {
	var form domain.BattleForm
	if !s.decode(w, r, &form) {
		return
	}
	battle, err := s.battleSvc.Create(r.Context(), &form)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.syncSvc.PushAsync()
	s.writeJSON(w, http.StatusCreated, battle)
}

func (s *ClubServer) clearGames(w http.ResponseWriter, r *http.Request) {
	if err := s.battleSvc.ClearAll(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.syncSvc.PushAsync()
	w.WriteHeader(http.StatusNoContent)
}

func (s *ClubServer) getGame(w http.ResponseWriter, r *http.Request) {
	battle, err := s.battleSvc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, battle)
}

func (s *ClubServer) importGames(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	count, err := s.battleSvc.Import(r.Context(), raw)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.syncSvc.PushAsync()
	s.writeJSON(w, http.StatusOK, map[string]any{"imported": count})
}

// --- seasons ---

func (s *ClubServer) listSeasons(w http.ResponseWriter, r *http.Request) {
	seasons, err := s.seasonSvc.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, seasons)
}

type seasonRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func (s *ClubServer) createSeason(w http.ResponseWriter, r *http.Request) {
	var req seasonRequest
	if !s.decode(w, r, &req) {
		return
	}
	season, err := s.seasonSvc.Create(r.Context(), req.Name, req.Description)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.syncSvc.PushAsync()
	s.writeJSON(w, http.StatusCreated, season)
}

func (s *ClubServer) activeSeason(w http.ResponseWriter, r *http.Request) {
	season, err := s.seasonSvc.Active(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if season == nil {
		// No active season is a valid state, not an error.
		s.writeJSON(w, http.StatusOK, nil)
		return
	}
	s.writeJSON(w, http.StatusOK, season)
}

func (s *ClubServer) finishSeason(w http.ResponseWriter, r *http.Request) {
	season, err := s.seasonSvc.FinishCurrent(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.syncSvc.PushAsync()
	s.writeJSON(w, http.StatusOK, season)
}

func (s *ClubServer) seasonLeaderboard(w http.ResponseWriter, r *http.Request) {
	standings, err := s.seasonSvc.Leaderboard(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, standings)
}

func (s *ClubServer) seasonSummary(w http.ResponseWriter, r *http.Request) {
	seasonID := r.PathValue("id")
	battleCount, err := s.seasonSvc.BattleCount(r.Context(), seasonID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	playerCount, err := s.seasonSvc.PlayerCount(r.Context(), seasonID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int{
		"battleCount": battleCount,
		"playerCount": playerCount,
	})
}

// --- stats ---

func (s *ClubServer) playerStats(w http.ResponseWriter, r *http.Request) {
	result, err := s.statsSvc.PlayerStats(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *ClubServer) armyStats(w http.ResponseWriter, r *http.Request) {
	result, err := s.statsSvc.ArmyStats(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *ClubServer) playerArmyStats(w http.ResponseWriter, r *http.Request) {
	result, err := s.statsSvc.PlayerArmyStats(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *ClubServer) listArmies(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, domain.DefaultArmies)
}

// --- export / import ---

func (s *ClubServer) exportSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.syncSvc.ExportSnapshot(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, snapshot)
}

func (s *ClubServer) importSnapshot(w http.ResponseWriter, r *http.Request) {
	var snapshot domain.ClubSnapshot
	if !s.decode(w, r, &snapshot) {
		return
	}
	if err := s.syncSvc.ImportSnapshot(r.Context(), &snapshot); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.syncSvc.PushAsync()
	s.writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// --- shared-storage contract ---

type sharedWriteRequest struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type sharedResponse struct {
	Success     bool   `json:"success"`
	Data        any    `json:"data,omitempty"`
	Message     string `json:"message,omitempty"`
	Error       string `json:"error,omitempty"`
	LastUpdated string `json:"lastUpdated,omitempty"`
}

func (s *ClubServer) sharedRead(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.syncSvc.ExportSnapshot(r.Context())
	if err != nil {
		s.writeJSON(w, http.StatusInternalServerError, sharedResponse{Success: false, Error: "internal server error"})
		return
	}
	s.writeJSON(w, http.StatusOK, sharedResponse{
		Success:     true,
		Data:        snapshot,
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *ClubServer) sharedWrite(w http.ResponseWriter, r *http.Request) {
	var req sharedWriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, sharedResponse{Success: false, Error: "invalid request body"})
		return
	}

	var err error
	switch req.Type {
	case "players":
		_, err = s.playerSvc.Import(r.Context(), req.Data)
	case "games":
		_, err = s.battleSvc.Import(r.Context(), req.Data)
	case "seasons":
		err = s.importSeasonsShared(r, req.Data)
	case "full":
		var snapshot domain.ClubSnapshot
		if err = json.Unmarshal(req.Data, &snapshot); err == nil {
			err = s.syncSvc.ImportSnapshot(r.Context(), &snapshot)
		}
	default:
		s.writeJSON(w, http.StatusBadRequest, sharedResponse{Success: false, Error: "invalid data type"})
		return
	}

	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrInvalid) {
			status = http.StatusBadRequest
		}
		s.writeJSON(w, status, sharedResponse{Success: false, Error: err.Error()})
		return
	}

	s.writeJSON(w, http.StatusOK, sharedResponse{
		Success:     true,
		Message:     "Data saved successfully",
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *ClubServer) importSeasonsShared(r *http.Request, raw json.RawMessage) error {
	snapshot, err := s.syncSvc.ExportSnapshot(r.Context())
	if err != nil {
		return err
	}
	var seasons []domain.Season
	if err := json.Unmarshal(raw, &seasons); err != nil {
		return service.ErrInvalid
	}
	snapshot.Seasons = seasons
	return s.syncSvc.ImportSnapshot(r.Context(), snapshot)
}

// --- helpers ---

func (s *ClubServer) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

func (s *ClubServer) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *ClubServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInvalid):
		status = http.StatusBadRequest
	}

	logger := zerolog.Ctx(r.Context())
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	} else {
		logger.Debug().Err(err).Str("path", r.URL.Path).Msg("request rejected")
	}

	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
