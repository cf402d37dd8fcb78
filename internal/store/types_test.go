package store

import (
	"encoding/json"
	"testing"
)

func TestTeamUnmarshal_NormalizesLegacyKey(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want int
	}{
		{"snake_case", `{"team_id": 100, "win": true}`, 100},
		{"legacy_camelCase", `{"teamId": 200, "win": false}`, 200},
		{"both_prefers_canonical", `{"team_id": 100, "teamId": 200}`, 100},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var team Team
			if err := json.Unmarshal([]byte(tc.doc), &team); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if team.TeamID != tc.want {
				t.Errorf("TeamID = %d, want %d", team.TeamID, tc.want)
			}
		})
	}
}

func TestTeamMarshal_EmitsCanonicalKey(t *testing.T) {
	data, err := json.Marshal(Team{TeamID: 100, Win: true})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("re-parse failed: %v", err)
	}
	if _, ok := raw["team_id"]; !ok {
		t.Error("marshaled team missing team_id")
	}
	if _, ok := raw["teamId"]; ok {
		t.Error("marshaled team must not emit legacy teamId")
	}
}

func TestMatchPlayer_MissingFieldsDecodeToZero(t *testing.T) {
	var p MatchPlayer
	if err := json.Unmarshal([]byte(`{"puuid": "p1"}`), &p); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if p.Kills != 0 || p.MVPScore != 0 || p.ChampionName != "" || p.Position != "" {
		t.Errorf("missing fields must decode to zero values, got %+v", p)
	}
}

func TestTeamWon(t *testing.T) {
	m := Match{Teams: []Team{{TeamID: 100, Win: false}, {TeamID: 200, Win: true}}}

	won, ok := m.TeamWon(200)
	if !ok || !won {
		t.Errorf("TeamWon(200) = %v, %v, want true, true", won, ok)
	}
	won, ok = m.TeamWon(100)
	if !ok || won {
		t.Errorf("TeamWon(100) = %v, %v, want false, true", won, ok)
	}
	if _, ok := m.TeamWon(300); ok {
		t.Error("TeamWon(300) reported ok for a missing team")
	}
}

func TestHasTrackedPlayer(t *testing.T) {
	tracked := Match{Players: []MatchPlayer{{PUUID: "a"}, {PUUID: "b", MVPScore: 7.5}}}
	if !tracked.HasTrackedPlayer() {
		t.Error("match with mvp_score > 0 must be tracked")
	}

	untracked := Match{Players: []MatchPlayer{{PUUID: "a"}, {PUUID: "b"}}}
	if untracked.HasTrackedPlayer() {
		t.Error("match with no mvp_score > 0 rows must not be tracked")
	}
}

func TestPlayerGames_JoinsTeamResult(t *testing.T) {
	matches := []Match{
		{
			MatchID: "m1",
			Teams:   []Team{{TeamID: 100, Win: true}, {TeamID: 200, Win: false}},
			Players: []MatchPlayer{{PUUID: "p1", TeamID: 100}},
		},
		{
			MatchID: "m2",
			Teams:   []Team{{TeamID: 100, Win: false}, {TeamID: 200, Win: true}},
			Players: []MatchPlayer{{PUUID: "p1", TeamID: 100}},
		},
		{
			// Malformed: player's team_id matches no team row.
			MatchID: "m3",
			Teams:   []Team{{TeamID: 100, Win: true}},
			Players: []MatchPlayer{{PUUID: "p1", TeamID: 200}},
		},
		{
			MatchID: "m4",
			Teams:   []Team{{TeamID: 100, Win: true}, {TeamID: 200, Win: false}},
			Players: []MatchPlayer{{PUUID: "other", TeamID: 100}},
		},
	}

	games := PlayerGames(matches, "p1")
	if len(games) != 3 {
		t.Fatalf("got %d games, want 3", len(games))
	}
	if !games[0].Won || !games[0].WonKnown {
		t.Errorf("m1: Won=%v WonKnown=%v, want win", games[0].Won, games[0].WonKnown)
	}
	if games[1].Won || !games[1].WonKnown {
		t.Errorf("m2: Won=%v WonKnown=%v, want known loss", games[1].Won, games[1].WonKnown)
	}
	if games[2].WonKnown {
		t.Error("m3: result must be unknown when the team row is missing")
	}
}
