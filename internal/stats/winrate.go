package stats

import (
	"context"
	"fmt"
	"strings"
	"time"

	"roster-tracker/internal/store"
)

// Winrate is the champion/position-conditioned winrate lookup result. Rates
// are percentages rounded to one decimal.
type Winrate struct {
	ChampionWinrate float64 `json:"championWinrate"`
	OverallWinrate  float64 `json:"overallWinrate"`
	PositionWinrate float64 `json:"positionWinrate"`
	TotalGames      int     `json:"totalGames"`
	ChampionGames   int     `json:"championGames"`
	PositionGames   int     `json:"positionGames"`
}

// WinrateAggregator answers "how has this player performed recently, overall
// vs. on this champion vs. in this role?" over a 15-day trailing window.
type WinrateAggregator struct {
	repo  store.Repository
	cache Cache

	now func() time.Time
}

// NewWinrateAggregator creates the aggregator. cache may be nil to disable
// memoization.
func NewWinrateAggregator(repo store.Repository, cache Cache) *WinrateAggregator {
	return &WinrateAggregator{repo: repo, cache: cache, now: time.Now}
}

// Lookup computes the winrate triple for one player. Champion and position
// are required; a blank value is a caller error, not a zero-stats result.
// Position is matched case-sensitively against the stored value.
func (a *WinrateAggregator) Lookup(ctx context.Context, puuid, champion, position string) (*Winrate, error) {
	if strings.TrimSpace(champion) == "" {
		return nil, fmt.Errorf("%w: champion", ErrMissingParameter)
	}
	if strings.TrimSpace(position) == "" {
		return nil, fmt.Errorf("%w: position", ErrMissingParameter)
	}

	key := cacheKey(puuid, champion, position)
	if a.cache != nil {
		if cached, ok := a.cache.Get(ctx, key); ok {
			return cached, nil
		}
	}

	cutoff := a.now().UTC().AddDate(0, 0, -winrateWindowDays).Format(time.RFC3339)
	matches, err := a.repo.MatchesByPlayerSince(ctx, puuid, cutoff)
	if err != nil {
		return nil, fmt.Errorf("fetch window for %s: %w", puuid, err)
	}

	var totalWins, championWins, positionWins int
	var result Winrate
	for _, g := range store.PlayerGames(matches, puuid) {
		won := g.WonKnown && g.Won

		result.TotalGames++
		if won {
			totalWins++
		}
		if g.Player.ChampionName == champion {
			result.ChampionGames++
			if won {
				championWins++
			}
		}
		if g.Player.Position == position {
			result.PositionGames++
			if won {
				positionWins++
			}
		}
	}

	result.OverallWinrate = percentage(totalWins, result.TotalGames)
	result.ChampionWinrate = percentage(championWins, result.ChampionGames)
	result.PositionWinrate = percentage(positionWins, result.PositionGames)

	if a.cache != nil {
		a.cache.Set(ctx, key, &result)
	}
	return &result, nil
}

func cacheKey(puuid, champion, position string) string {
	return fmt.Sprintf("winrate:%s:%s:%s", puuid, champion, position)
}
