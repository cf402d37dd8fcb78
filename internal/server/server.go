// Package server is the HTTP transport for the tracker. Handlers translate
// typed outcomes from the services into status codes: nil results become
// 404s, caller-contract violations 400s, and everything else a 500. The
// aggregation core itself stays HTTP-agnostic.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"roster-tracker/internal/service"
	"roster-tracker/internal/stats"
	"roster-tracker/internal/store"

	"github.com/google/uuid"
)

// Server wires the aggregation services behind the API routes.
type Server struct {
	logger *slog.Logger
	repo   store.Repository

	matches     *service.MatchList
	winrates    *stats.WinrateAggregator
	leaderboard *stats.LeaderboardBuilder
	profiles    *stats.ProfileBuilder
}

// New creates the server. cache may be nil to serve winrate lookups
// uncached.
func New(repo store.Repository, cache stats.Cache, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		logger:      logger,
		repo:        repo,
		matches:     service.NewMatchList(repo),
		winrates:    stats.NewWinrateAggregator(repo, cache),
		leaderboard: stats.NewLeaderboardBuilder(repo, logger),
		profiles:    stats.NewProfileBuilder(repo, logger),
	}
}

// Handler returns the routed handler with request logging applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/matches", s.handleMatches)
	mux.HandleFunc("/api/player/", s.handlePlayerProfile)
	mux.HandleFunc("/api/players", s.handlePlayers)
	mux.HandleFunc("/api/summoner-stats/", s.handleSummonerStats)
	mux.HandleFunc("/api/health", s.handleHealth)
	return s.withRequestLog(mux)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withRequestLog tags every request with an id and logs its outcome.
func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		s.logger.Info("request",
			"id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
