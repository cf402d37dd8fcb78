package store

import (
	"context"
	"sort"
	"time"
)

// Memory is an in-process Repository with the same clamping and counting
// semantics as the Postgres store. It backs the package tests and serves as
// the reference for the in-memory form of the aggregation pipeline.
type Memory struct {
	matches   []Match
	summoners []Summoner

	// Now is the clock for the tracked-last-week window. Tests pin it.
	Now func() time.Time
}

// NewMemory creates an in-memory store over the given fixtures. Roster order
// is preserved; matches are kept sorted by timestamp descending.
func NewMemory(summoners []Summoner, matches []Match) *Memory {
	sorted := make([]Match, len(matches))
	copy(sorted, matches)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp > sorted[j].Timestamp
	})
	return &Memory{
		matches:   sorted,
		summoners: summoners,
		Now:       time.Now,
	}
}

// Ping always succeeds.
func (s *Memory) Ping(ctx context.Context) error { return nil }

// RecentMatches returns up to limit matches, newest first.
func (s *Memory) RecentMatches(ctx context.Context, limit int) ([]Match, error) {
	if limit < 0 {
		limit = 0
	}
	if limit > len(s.matches) {
		limit = len(s.matches)
	}
	out := make([]Match, limit)
	copy(out, s.matches[:limit])
	return out, nil
}

// MatchByID returns the match or nil when absent.
func (s *Memory) MatchByID(ctx context.Context, matchID string) (*Match, error) {
	for i := range s.matches {
		if s.matches[i].MatchID == matchID {
			m := s.matches[i]
			return &m, nil
		}
	}
	return nil, nil
}

// MatchesByPlayer returns every match containing this puuid, newest first.
func (s *Memory) MatchesByPlayer(ctx context.Context, puuid string) ([]Match, error) {
	return s.MatchesByPlayerSince(ctx, puuid, "")
}

// MatchesByPlayerSince restricts MatchesByPlayer to timestamps at or after
// the ISO-8601 cutoff.
func (s *Memory) MatchesByPlayerSince(ctx context.Context, puuid, since string) ([]Match, error) {
	var out []Match
	for i := range s.matches {
		m := &s.matches[i]
		if since != "" && m.Timestamp < since {
			continue
		}
		if m.PlayerRow(puuid) != nil {
			out = append(out, *m)
		}
	}
	return out, nil
}

// RecentMatchesPage returns one page of recent matches plus counters.
func (s *Memory) RecentMatchesPage(ctx context.Context, pageSize, page int) (*MatchPage, error) {
	pageSize, page = ClampPageArgs(pageSize, page)

	weekAgo := s.Now().UTC().AddDate(0, 0, -7).Format(time.RFC3339)
	tracked := 0
	for i := range s.matches {
		if s.matches[i].Timestamp >= weekAgo && s.matches[i].HasTrackedPlayer() {
			tracked++
		}
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(s.matches) {
		start = len(s.matches)
	}
	if end > len(s.matches) {
		end = len(s.matches)
	}
	items := make([]Match, end-start)
	copy(items, s.matches[start:end])

	return &MatchPage{
		Items:           items,
		Total:           len(s.matches),
		TrackedLastWeek: tracked,
	}, nil
}

// SummonerByPUUID returns the roster member or nil when absent.
func (s *Memory) SummonerByPUUID(ctx context.Context, puuid string) (*Summoner, error) {
	for i := range s.summoners {
		if s.summoners[i].PUUID == puuid {
			sm := s.summoners[i]
			return &sm, nil
		}
	}
	return nil, nil
}

// AllSummoners returns the roster in the order it was supplied.
func (s *Memory) AllSummoners(ctx context.Context) ([]Summoner, error) {
	out := make([]Summoner, len(s.summoners))
	copy(out, s.summoners)
	return out, nil
}
