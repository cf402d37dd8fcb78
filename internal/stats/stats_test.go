package stats

import (
	"testing"
	"time"

	"roster-tracker/internal/store"
)

var testNow = time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)

func tsDaysAgo(days int) string {
	return testNow.AddDate(0, 0, -days).Format(time.RFC3339)
}

// newMatch builds a two-team match. winner is 100, 200, or 0 for a game with
// no recorded winner.
func newMatch(id string, daysAgo, winner int, players ...store.MatchPlayer) store.Match {
	return store.Match{
		MatchID:   id,
		Timestamp: tsDaysAgo(daysAgo),
		Teams: []store.Team{
			{TeamID: 100, Win: winner == 100},
			{TeamID: 200, Win: winner == 200},
		},
		Players: players,
	}
}

// tracked builds a tracked participant row.
func tracked(puuid, champion, position string, teamID int) store.MatchPlayer {
	return store.MatchPlayer{
		PUUID:        puuid,
		ChampionName: champion,
		Position:     position,
		TeamID:       teamID,
		MVPScore:     5,
	}
}

func withKDA(p store.MatchPlayer, kills, deaths, assists int) store.MatchPlayer {
	p.Kills = kills
	p.Deaths = deaths
	p.Assists = assists
	return p
}

func TestPercentage(t *testing.T) {
	cases := []struct {
		wins, games int
		want        float64
	}{
		{0, 0, 0},
		{1, 2, 50.0},
		{2, 3, 66.7},
		{3, 3, 100.0},
		{1, 3, 33.3},
	}
	for _, tc := range cases {
		if got := percentage(tc.wins, tc.games); got != tc.want {
			t.Errorf("percentage(%d, %d) = %v, want %v", tc.wins, tc.games, got, tc.want)
		}
	}
}

func TestFreqTable_FirstSeenTieBreak(t *testing.T) {
	table := newFreqTable()
	table.Add("Ahri", true)
	table.Add("Zed", false)
	table.Add("Zed", true)
	table.Add("Ahri", false)
	table.Add("Lux", true)

	// Ahri and Zed are tied at 2; Ahri was seen first.
	if got := table.MostPlayed(); got != "Ahri" {
		t.Errorf("MostPlayed() = %q, want Ahri (first-seen tie-break)", got)
	}

	top := table.Top(2)
	if len(top) != 2 || top[0].Key != "Ahri" || top[1].Key != "Zed" {
		t.Errorf("Top(2) = %+v, want [Ahri Zed]", top)
	}
	if top[0].Games != 2 || top[0].Wins != 1 {
		t.Errorf("Ahri entry = %+v, want 2 games 1 win", top[0])
	}
}

func TestFreqTable_Empty(t *testing.T) {
	table := newFreqTable()
	if got := table.MostPlayed(); got != "" {
		t.Errorf("MostPlayed() on empty table = %q, want empty", got)
	}
	if top := table.Top(5); len(top) != 0 {
		t.Errorf("Top(5) on empty table = %+v, want empty", top)
	}
}
