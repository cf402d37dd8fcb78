package stats

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"roster-tracker/internal/store"
)

func pinnedLeaderboard(repo store.Repository) *LeaderboardBuilder {
	b := NewLeaderboardBuilder(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
	b.now = func() time.Time { return testNow }
	return b
}

func TestLeaderboardBuild(t *testing.T) {
	roster := []store.Summoner{
		{PUUID: "a", DisplayName: "Alpha", RealName: "Al"},
		{PUUID: "b", DisplayName: "Beta", RealName: "Bea"},
	}
	// A has no matches in the window; B has 5 (3 wins).
	var matches []store.Match
	for i := 0; i < 5; i++ {
		winner := 200
		if i < 3 {
			winner = 100
		}
		matches = append(matches, newMatch(
			matchID(i), i+1, winner,
			withKDA(tracked("b", "Jinx", "BOTTOM", 100), 5, 2, 8),
		))
	}

	entries, err := pinnedLeaderboard(pinnedMemory(roster, matches)).Build(context.Background())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1 (inactive roster members excluded)", len(entries))
	}

	e := entries[0]
	if e.PUUID != "b" || e.DisplayName != "Beta" || e.RealName != "Bea" {
		t.Errorf("identity = %+v", e)
	}
	if e.TotalMatches != 5 || e.WinRate != 60.0 {
		t.Errorf("totalMatches=%d winRate=%v, want 5, 60.0", e.TotalMatches, e.WinRate)
	}
	if e.AverageKDA != (KDA{Kills: 5, Deaths: 2, Assists: 8}) {
		t.Errorf("averageKDA = %+v", e.AverageKDA)
	}
	if e.MostPlayedChampion != "Jinx" || e.MainRole != "BOTTOM" {
		t.Errorf("champion=%q role=%q", e.MostPlayedChampion, e.MainRole)
	}
}

func TestLeaderboardBuild_SortsByActivity(t *testing.T) {
	roster := []store.Summoner{
		{PUUID: "a", DisplayName: "Alpha"},
		{PUUID: "b", DisplayName: "Beta"},
		{PUUID: "c", DisplayName: "Gamma"},
	}
	var matches []store.Match
	add := func(puuid string, n int) {
		for i := 0; i < n; i++ {
			matches = append(matches, newMatch(
				puuid+matchID(i), 1, 100, tracked(puuid, "Ahri", "MIDDLE", 100),
			))
		}
	}
	add("a", 2)
	add("b", 7)
	add("c", 2)

	entries, err := pinnedLeaderboard(pinnedMemory(roster, matches)).Build(context.Background())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	if entries[0].PUUID != "b" {
		t.Errorf("most active first: got %s", entries[0].PUUID)
	}
	// a and c tie at 2; roster order breaks the tie.
	if entries[1].PUUID != "a" || entries[2].PUUID != "c" {
		t.Errorf("tie must keep roster order, got %s then %s", entries[1].PUUID, entries[2].PUUID)
	}
}

func TestLeaderboardBuild_NoWinnerCountsAsLoss(t *testing.T) {
	roster := []store.Summoner{{PUUID: "a", DisplayName: "Alpha"}}
	matches := []store.Match{
		newMatch("win", 1, 100, tracked("a", "Ahri", "MIDDLE", 100)),
		newMatch("remake", 2, 0, tracked("a", "Ahri", "MIDDLE", 100)),
	}

	entries, err := pinnedLeaderboard(pinnedMemory(roster, matches)).Build(context.Background())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].TotalMatches != 2 || entries[0].WinRate != 50.0 {
		t.Errorf("totalMatches=%d winRate=%v, want 2, 50.0",
			entries[0].TotalMatches, entries[0].WinRate)
	}
}

func TestLeaderboardBuild_EmptyRoster(t *testing.T) {
	entries, err := pinnedLeaderboard(pinnedMemory(nil, nil)).Build(context.Background())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries, want 0", len(entries))
	}
}

func matchID(i int) string {
	return fmt.Sprintf("m%d", i)
}
