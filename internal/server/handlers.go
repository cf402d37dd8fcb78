package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"roster-tracker/internal/stats"
	"roster-tracker/internal/store"
)

const defaultPageSize = 10

// handleMatches serves three shapes from one route: a single match by id,
// a player's full match list, or the paginated recent listing.
func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	ctx := r.Context()

	if matchID := r.URL.Query().Get("matchId"); matchID != "" {
		match, err := s.matches.MatchByID(ctx, matchID)
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		if match == nil {
			writeError(w, http.StatusNotFound, "Match not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"matches": []store.Match{*match}})
		return
	}

	if puuid := r.URL.Query().Get("playerPuuid"); puuid != "" {
		matches, err := s.matches.MatchesByPlayer(ctx, puuid)
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		if matches == nil {
			matches = []store.Match{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"matches": matches})
		return
	}

	limit := queryInt(r, "limit", defaultPageSize)
	page := queryInt(r, "page", 1)

	matches, pagination, err := s.matches.RecentMatchesPage(ctx, limit, page)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if matches == nil {
		matches = []store.Match{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"matches":    matches,
		"pagination": pagination,
	})
}

// handlePlayerProfile serves /api/player/{puuid}.
func (s *Server) handlePlayerProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	puuid := strings.TrimPrefix(r.URL.Path, "/api/player/")
	if puuid == "" {
		writeError(w, http.StatusBadRequest, "Player PUUID required")
		return
	}

	profile, err := s.profiles.Build(r.Context(), puuid)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if profile == nil {
		writeError(w, http.StatusNotFound, "Player not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"profile": profile})
}

// handlePlayers serves the roster leaderboard.
func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	players, err := s.leaderboard.Build(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if players == nil {
		players = []stats.LeaderboardEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"players": players})
}

// handleSummonerStats serves /api/summoner-stats/{puuid}?champion=&position=.
func (s *Server) handleSummonerStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	puuid := strings.TrimPrefix(r.URL.Path, "/api/summoner-stats/")
	if puuid == "" {
		writeError(w, http.StatusBadRequest, "Player PUUID required")
		return
	}
	champion := r.URL.Query().Get("champion")
	position := r.URL.Query().Get("position")

	result, err := s.winrates.Lookup(r.Context(), puuid, champion, position)
	if errors.Is(err, stats.ErrMissingParameter) {
		writeError(w, http.StatusBadRequest, "champion and position query params required")
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleHealth reports store reachability for the container probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "store unreachable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// serverError hides internals from the response body; details go to the log.
func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
