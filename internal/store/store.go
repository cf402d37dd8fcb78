package store

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when the underlying store cannot be reached or a
// read times out. Not-found conditions are nil results, never errors, and
// nothing in this package retries; the caller decides whether to re-request.
var ErrUnavailable = errors.New("store unavailable")

// Page size bounds for paginated match listings.
const (
	MinPageSize = 1
	MaxPageSize = 50
)

// MatchPage is one page of recent matches plus the counters the pagination
// header needs.
type MatchPage struct {
	Items []Match
	// Total is the number of matches in the store, not just this page.
	Total int
	// TrackedLastWeek counts matches from the last 7 days that contain at
	// least one tracked player row.
	TrackedLastWeek int
}

// Repository is read-only access to the summoners and matches collections.
// Implementations never mutate match data.
type Repository interface {
	// RecentMatches returns up to limit matches sorted by timestamp descending.
	RecentMatches(ctx context.Context, limit int) ([]Match, error)

	// MatchByID returns the match or nil when absent.
	MatchByID(ctx context.Context, matchID string) (*Match, error)

	// MatchesByPlayer returns every match containing a participant row with
	// this puuid, sorted by timestamp descending.
	MatchesByPlayer(ctx context.Context, puuid string) ([]Match, error)

	// MatchesByPlayerSince is MatchesByPlayer restricted to timestamps at or
	// after the ISO-8601 cutoff. This is the filter stage of the aggregation
	// pipeline; the unwind/join stage is PlayerGames.
	MatchesByPlayerSince(ctx context.Context, puuid, since string) ([]Match, error)

	// RecentMatchesPage returns one page of recent matches. pageSize is
	// clamped to [MinPageSize, MaxPageSize] and page to >= 1; a page past the
	// end returns an empty slice with counters intact.
	RecentMatchesPage(ctx context.Context, pageSize, page int) (*MatchPage, error)

	// SummonerByPUUID returns the roster member or nil when absent.
	SummonerByPUUID(ctx context.Context, puuid string) (*Summoner, error)

	// AllSummoners returns the full roster in stable stored order.
	AllSummoners(ctx context.Context) ([]Summoner, error)

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error
}

// ClampPageArgs applies the pagination bounds shared by every Repository
// implementation.
func ClampPageArgs(pageSize, page int) (int, int) {
	if pageSize < MinPageSize {
		pageSize = MinPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	if page < 1 {
		page = 1
	}
	return pageSize, page
}
