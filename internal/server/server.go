package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"ranked-clicker/internal/domain"
	"ranked-clicker/internal/match"
	"ranked-clicker/internal/rank"
	"ranked-clicker/internal/rccs"
	"ranked-clicker/internal/season"
	"ranked-clicker/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// GameServer exposes the game core to the browser UI as a JSON API.
type GameServer struct {
	game         *service.GameService
	leaderboards *service.LeaderboardService
	rccs         *service.RCCSService
	logger       zerolog.Logger
}

func NewGameServer(game *service.GameService, leaderboards *service.LeaderboardService, rccsSvc *service.RCCSService, logger zerolog.Logger) *GameServer {
	return &GameServer{game: game, leaderboards: leaderboards, rccs: rccsSvc, logger: logger}
}

// Routes mounts every endpoint under /api.
func (s *GameServer) Routes() chi.Router {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/profile", s.handleProfile)
		r.Post("/profile/title", s.handleEquipTitle)

		r.Post("/queue/start", s.handleStartQueue)
		r.Post("/queue/cancel", s.handleCancelQueue)
		r.Get("/queue", s.handleQueueState)

		r.Post("/game/tick", s.handleTick)
		r.Post("/game/click", s.handleClick)
		r.Get("/game/state", s.handleMatchState)
		r.Get("/game/result", s.handleResult)

		r.Get("/leaderboard/{mode}", s.handleLeaderboard)
		r.Get("/history", s.handleHistory)

		r.Get("/rccs/week", s.handleRCCSWeek)
		r.Post("/rccs/simulate", s.handleRCCS)
		r.Post("/season/reset", s.handleSeasonReset)
	})
	return r
}

type profileResponse struct {
	Username      string                 `json:"username"`
	Level         int                    `json:"level"`
	XP            int                    `json:"xp"`
	CasualMMR     int                    `json:"casualMmr"`
	PeakCasualMMR int                    `json:"peakCasualMmr"`
	Modes         map[string]modeStats   `json:"modes"`
	Titles        []string               `json:"titles"`
	EquippedTitle string                 `json:"equippedTitle,omitempty"`
	TotalGames    int                    `json:"totalGames"`
	TotalWins     int                    `json:"totalWins"`
	RewardsByMode map[string]rewardStats `json:"rewards"`
}

type modeStats struct {
	MMR               int    `json:"mmr"`
	PeakMMR           int    `json:"peakMmr"`
	Rank              string `json:"rank"`
	SeasonWins        int    `json:"seasonWins"`
	PlacementMatches  int    `json:"placementMatches"`
	PlacementComplete bool   `json:"placementComplete"`
}

type rewardStats struct {
	Earned   string `json:"earned"`
	Progress int    `json:"progress"`
	Total    int    `json:"total"`
}

func (s *GameServer) handleProfile(w http.ResponseWriter, r *http.Request) {
	p := s.game.Profile()

	resp := profileResponse{
		Username:      p.Username,
		Level:         p.Level,
		XP:            p.XP,
		CasualMMR:     p.CasualMMR,
		PeakCasualMMR: p.PeakCasualMMR,
		Modes:         make(map[string]modeStats, len(domain.Modes)),
		Titles:        p.Titles,
		EquippedTitle: p.EquippedTitle,
		TotalGames:    p.TotalGames,
		TotalWins:     p.TotalWins,
		RewardsByMode: make(map[string]rewardStats, len(domain.Modes)),
	}
	for _, mode := range domain.Modes {
		resp.Modes[string(mode)] = modeStats{
			MMR:               p.RankedMMR[mode],
			PeakMMR:           p.PeakRankedMMR[mode],
			Rank:              rank.Format(p.Rank[mode]),
			SeasonWins:        p.SeasonWins[mode],
			PlacementMatches:  p.PlacementMatches[mode],
			PlacementComplete: p.PlacementComplete[mode],
		}
		earned, progress, total := rank.RewardProgress(p.SeasonWins[mode], p.Rank[mode].Rank)
		resp.RewardsByMode[string(mode)] = rewardStats{
			Earned:   string(earned),
			Progress: progress,
			Total:    total,
		}
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *GameServer) handleEquipTitle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.game.EquipTitle(r.Context(), req.Title); err != nil {
		if errors.Is(err, season.ErrTitleNotOwned) {
			s.writeError(w, http.StatusBadRequest, "title not owned")
			return
		}
		s.writeError(w, http.StatusInternalServerError, "failed to equip title")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"equippedTitle": req.Title})
}

func (s *GameServer) handleStartQueue(w http.ResponseWriter, r *http.Request) {
	var req struct {
		QueueType string `json:"queueType"`
		Mode      string `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.game.SelectQueueType(domain.QueueType(req.QueueType)); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid queue type")
		return
	}
	if err := s.game.SelectMode(domain.Mode(req.Mode)); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid game mode")
		return
	}

	state, err := s.game.StartQueue()
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyQueuing):
			s.writeError(w, http.StatusConflict, "already in queue")
		case errors.Is(err, service.ErrMatchInProgress):
			s.writeError(w, http.StatusConflict, "match already in progress")
		default:
			s.writeError(w, http.StatusInternalServerError, "failed to start queue")
		}
		return
	}
	s.writeJSON(w, http.StatusOK, state)
}

func (s *GameServer) handleCancelQueue(w http.ResponseWriter, r *http.Request) {
	s.game.CancelQueue()
	w.WriteHeader(http.StatusNoContent)
}

func (s *GameServer) handleQueueState(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.game.QueueState())
}

type matchStateResponse struct {
	Phase            string     `json:"phase"`
	Mode             string     `json:"mode"`
	QueueType        string     `json:"queueType"`
	PlayerTeam       string     `json:"playerTeam"`
	Countdown        float64    `json:"countdown"`
	TimeRemaining    float64    `json:"timeRemaining"`
	RedScore         int        `json:"redScore"`
	BlueScore        int        `json:"blueScore"`
	PlayerClicks     int        `json:"playerClicks"`
	PlayerCPS        float64    `json:"playerCps"`
	StopClicking     bool       `json:"stopClickingActive"`
	StopClickingLeft float64    `json:"stopClickingTimeRemaining"`
	Roster           []aiPlayer `json:"roster"`
}

type aiPlayer struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	MMR      int    `json:"mmr"`
	Rank     string `json:"rank"`
	Title    string `json:"title,omitempty"`
	Team     string `json:"team"`
}

func toMatchStateResponse(m *match.State) matchStateResponse {
	resp := matchStateResponse{
		Phase:            string(m.Phase),
		Mode:             string(m.Mode),
		QueueType:        string(m.QueueType),
		PlayerTeam:       string(m.PlayerTeam),
		Countdown:        m.Countdown,
		TimeRemaining:    m.TimeRemaining,
		RedScore:         m.RedScore,
		BlueScore:        m.BlueScore,
		PlayerClicks:     m.PlayerClicks,
		PlayerCPS:        m.PlayerCurrentCPS,
		StopClicking:     m.StopClickingActive,
		StopClickingLeft: m.StopClickingTimeRemaining,
	}
	for _, ai := range m.Roster {
		resp.Roster = append(resp.Roster, aiPlayer{
			ID:       ai.ID,
			Username: ai.Username,
			MMR:      ai.MMR,
			Rank:     rank.Format(ai.Standing),
			Title:    ai.Title,
			Team:     string(ai.Team),
		})
	}
	return resp
}

func (s *GameServer) handleTick(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DeltaMs float64 `json:"deltaMs"`
		Clicked bool    `json:"clicked"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DeltaMs < 0 {
		s.writeError(w, http.StatusBadRequest, "deltaMs must be non-negative")
		return
	}

	state, err := s.game.Tick(r.Context(), req.DeltaMs, req.Clicked)
	if err != nil {
		s.writeError(w, http.StatusNotFound, "no active match")
		return
	}
	s.writeJSON(w, http.StatusOK, toMatchStateResponse(state))
}

func (s *GameServer) handleClick(w http.ResponseWriter, r *http.Request) {
	state, err := s.game.Tick(r.Context(), 0, true)
	if err != nil {
		s.writeError(w, http.StatusNotFound, "no active match")
		return
	}
	s.writeJSON(w, http.StatusOK, toMatchStateResponse(state))
}

func (s *GameServer) handleMatchState(w http.ResponseWriter, r *http.Request) {
	state, err := s.game.MatchState()
	if err != nil {
		s.writeError(w, http.StatusNotFound, "no active match")
		return
	}
	s.writeJSON(w, http.StatusOK, toMatchStateResponse(state))
}

func (s *GameServer) handleResult(w http.ResponseWriter, r *http.Request) {
	result, ok := s.game.LastResult()
	if !ok {
		s.writeError(w, http.StatusNotFound, "no finished match")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"won":       result.Won,
		"mmrChange": result.MMRChange,
		"newMmr":    result.NewMMR,
		"newRank":   rank.Format(result.NewStanding),
		"opponents": result.Opponents,
	})
}

type leaderboardEntry struct {
	Position int    `json:"position"`
	Username string `json:"username"`
	MMR      int    `json:"mmr"`
	Rank     string `json:"rank"`
	Title    string `json:"title,omitempty"`
}

func (s *GameServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	mode := domain.Mode(chi.URLParam(r, "mode"))
	if !mode.Valid() {
		s.writeError(w, http.StatusBadRequest, "invalid game mode")
		return
	}

	top, err := s.leaderboards.Top(r.Context(), mode)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to load leaderboard")
		return
	}

	entries := make([]leaderboardEntry, 0, len(top))
	for i, p := range top {
		entries = append(entries, leaderboardEntry{
			Position: i + 1,
			Username: p.Username,
			MMR:      p.MMR[mode],
			Rank:     rank.Format(p.Standing[mode]),
			Title:    p.Title,
		})
	}

	playerMMR := s.game.Profile().RankedMMR[mode]
	resp := map[string]any{
		"entries":       entries,
		"playerVisible": s.leaderboards.Visible(playerMMR),
	}
	if pos, ok, err := s.leaderboards.PlayerPosition(r.Context(), mode, playerMMR); err == nil && ok && s.leaderboards.Visible(playerMMR) {
		resp["playerPosition"] = pos
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *GameServer) handleHistory(w http.ResponseWriter, r *http.Request) {
	records, err := s.game.History(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to load match history")
		return
	}
	if records == nil {
		records = []domain.MatchRecord{}
	}
	s.writeJSON(w, http.StatusOK, records)
}

func (s *GameServer) handleRCCSWeek(w http.ResponseWriter, r *http.Request) {
	week, description := s.rccs.Week(time.Now())
	s.writeJSON(w, http.StatusOK, map[string]any{
		"week":        week,
		"description": description,
	})
}

func (s *GameServer) handleRCCS(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tournament string `json:"tournament"`
		Mode       string `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	outcome, err := s.rccs.Simulate(r.Context(), rccs.TournamentType(req.Tournament), domain.Mode(req.Mode))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid tournament or mode")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"placement":    outcome.Result.Placement,
		"participants": outcome.Result.Participants,
		"title":        outcome.Result.Title,
		"newTitles":    outcome.NewTitles,
		"eliteEarned":  outcome.EliteEarned,
	})
}

func (s *GameServer) handleSeasonReset(w http.ResponseWriter, r *http.Request) {
	p := s.game.ResetSeason(r.Context())

	modes := make(map[string]modeStats, len(domain.Modes))
	for _, mode := range domain.Modes {
		modes[string(mode)] = modeStats{
			MMR:               p.RankedMMR[mode],
			PeakMMR:           p.PeakRankedMMR[mode],
			Rank:              rank.Format(p.Rank[mode]),
			SeasonWins:        p.SeasonWins[mode],
			PlacementMatches:  p.PlacementMatches[mode],
			PlacementComplete: p.PlacementComplete[mode],
		}
	}
	s.writeJSON(w, http.StatusOK, modes)
}

func (s *GameServer) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *GameServer) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
