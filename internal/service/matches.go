// Package service composes the repository into the match listing operations
// the transport layer serves.
package service

import (
	"context"
	"fmt"

	"roster-tracker/internal/store"
)

// Pagination describes one page of the recent-matches listing.
// TotalPages is always at least 1, even for an empty store.
type Pagination struct {
	Page            int `json:"page"`
	Limit           int `json:"limit"`
	Total           int `json:"total"`
	TotalPages      int `json:"totalPages"`
	TrackedLastWeek int `json:"trackedLastWeek"`
}

// MatchList is a thin read-side facade over the Repository.
type MatchList struct {
	repo store.Repository
}

// NewMatchList creates the service.
func NewMatchList(repo store.Repository) *MatchList {
	return &MatchList{repo: repo}
}

// MatchByID returns the match or nil when absent; the transport layer maps
// nil to a 404.
func (s *MatchList) MatchByID(ctx context.Context, matchID string) (*store.Match, error) {
	return s.repo.MatchByID(ctx, matchID)
}

// MatchesByPlayer returns every match containing the player, newest first.
func (s *MatchList) MatchesByPlayer(ctx context.Context, puuid string) ([]store.Match, error) {
	return s.repo.MatchesByPlayer(ctx, puuid)
}

// RecentMatches returns the newest matches with tracked players' stale
// embedded names overwritten from the current roster. Live roster identity
// always wins over the snapshot stored at match-write time.
func (s *MatchList) RecentMatches(ctx context.Context, limit int) ([]store.Match, error) {
	matches, err := s.repo.RecentMatches(ctx, limit)
	if err != nil {
		return nil, err
	}
	if err := s.overlayRosterNames(ctx, matches); err != nil {
		return nil, err
	}
	return matches, nil
}

// RecentMatchesPage returns one page of recent matches, roster names
// overlaid, with the pagination counters. limit is clamped to [1,50] and
// page to >= 1 before computing offsets, so the echoed pagination reflects
// what was actually served.
func (s *MatchList) RecentMatchesPage(ctx context.Context, limit, page int) ([]store.Match, *Pagination, error) {
	limit, page = store.ClampPageArgs(limit, page)

	result, err := s.repo.RecentMatchesPage(ctx, limit, page)
	if err != nil {
		return nil, nil, err
	}
	if err := s.overlayRosterNames(ctx, result.Items); err != nil {
		return nil, nil, err
	}

	totalPages := (result.Total + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}

	return result.Items, &Pagination{
		Page:            page,
		Limit:           limit,
		Total:           result.Total,
		TotalPages:      totalPages,
		TrackedLastWeek: result.TrackedLastWeek,
	}, nil
}

// overlayRosterNames rewrites player-row name snapshots from the current
// roster. One roster fetch serves the whole batch.
func (s *MatchList) overlayRosterNames(ctx context.Context, matches []store.Match) error {
	if len(matches) == 0 {
		return nil
	}
	roster, err := s.repo.AllSummoners(ctx)
	if err != nil {
		return fmt.Errorf("fetch roster: %w", err)
	}
	byPUUID := make(map[string]store.Summoner, len(roster))
	for _, sm := range roster {
		byPUUID[sm.PUUID] = sm
	}

	for i := range matches {
		players := matches[i].Players
		for j := range players {
			sm, ok := byPUUID[players[j].PUUID]
			if !ok {
				continue
			}
			if sm.DisplayName != "" {
				players[j].SummonerName = sm.DisplayName
			}
			if sm.RealName != "" {
				players[j].RealName = sm.RealName
			}
		}
	}
	return nil
}
