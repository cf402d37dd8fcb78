package stats

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"roster-tracker/internal/store"
)

// KDA is a per-match average of kills, deaths, and assists, each rounded to
// one decimal.
type KDA struct {
	Kills   float64 `json:"kills"`
	Deaths  float64 `json:"deaths"`
	Assists float64 `json:"assists"`
}

// LeaderboardEntry is one roster member's summary over the trailing window.
type LeaderboardEntry struct {
	PUUID              string  `json:"puuid"`
	DisplayName        string  `json:"display_name"`
	RealName           string  `json:"real_name"`
	TotalMatches       int     `json:"totalMatches"`
	WinRate            float64 `json:"winRate"`
	AverageKDA         KDA     `json:"averageKDA"`
	MostPlayedChampion string  `json:"mostPlayedChampion"`
	MainRole           string  `json:"mainRole"`
}

// LeaderboardBuilder ranks every roster member by activity over a 14-day
// trailing window.
type LeaderboardBuilder struct {
	repo   store.Repository
	logger *slog.Logger

	now func() time.Time
}

// NewLeaderboardBuilder creates the builder.
func NewLeaderboardBuilder(repo store.Repository, logger *slog.Logger) *LeaderboardBuilder {
	if logger == nil {
		logger = slog.Default()
	}
	return &LeaderboardBuilder{repo: repo, logger: logger, now: time.Now}
}

// Build computes one entry per active roster member, sorted by totalMatches
// descending. Roster members with no matches in the window are excluded
// entirely; ties keep roster order. Per-player aggregations are independent
// and run concurrently with no shared accumulator.
func (b *LeaderboardBuilder) Build(ctx context.Context) ([]LeaderboardEntry, error) {
	roster, err := b.repo.AllSummoners(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch roster: %w", err)
	}

	cutoff := b.now().UTC().AddDate(0, 0, -leaderboardWindowDays).Format(time.RFC3339)

	results := make([]*LeaderboardEntry, len(roster))
	errs := make([]error, len(roster))

	var wg sync.WaitGroup
	for i, sm := range roster {
		wg.Add(1)
		go func(i int, sm store.Summoner) {
			defer wg.Done()
			results[i], errs[i] = b.buildEntry(ctx, sm, cutoff)
		}(i, sm)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	entries := make([]LeaderboardEntry, 0, len(roster))
	for _, e := range results {
		if e != nil {
			entries = append(entries, *e)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalMatches > entries[j].TotalMatches
	})
	return entries, nil
}

// buildEntry aggregates one summoner's window. Returns nil for a summoner
// with no matches.
func (b *LeaderboardBuilder) buildEntry(ctx context.Context, sm store.Summoner, cutoff string) (*LeaderboardEntry, error) {
	matches, err := b.repo.MatchesByPlayerSince(ctx, sm.PUUID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("fetch window for %s: %w", sm.PUUID, err)
	}

	games := store.PlayerGames(matches, sm.PUUID)
	if len(games) == 0 {
		return nil, nil
	}

	var wins, kills, deaths, assists int
	champions := newFreqTable()
	positions := newFreqTable()
	for _, g := range games {
		won := g.WonKnown && g.Won
		if !g.Match.HasWinner() {
			b.logger.Warn("match has no winning team, counting as loss",
				"match_id", g.Match.MatchID, "puuid", sm.PUUID)
		}
		if won {
			wins++
		}
		kills += g.Player.Kills
		deaths += g.Player.Deaths
		assists += g.Player.Assists
		champions.Add(g.Player.ChampionName, won)
		positions.Add(g.Player.Position, won)
	}

	total := len(games)
	return &LeaderboardEntry{
		PUUID:        sm.PUUID,
		DisplayName:  sm.DisplayName,
		RealName:     sm.RealName,
		TotalMatches: total,
		WinRate:      percentage(wins, total),
		AverageKDA: KDA{
			Kills:   average(float64(kills), total),
			Deaths:  average(float64(deaths), total),
			Assists: average(float64(assists), total),
		},
		MostPlayedChampion: champions.MostPlayed(),
		MainRole:           positions.MostPlayed(),
	}, nil
}
