package store

import "encoding/json"

// Summoner is a tracked roster member. Rows are long-lived reference data
// managed outside this service.
type Summoner struct {
	PUUID       string `json:"puuid"`
	DisplayName string `json:"display_name"`
	RealName    string `json:"real_name"`
}

// Match is one game document, written once by the ingestion process and never
// updated. Timestamps are ISO-8601 strings in UTC.
type Match struct {
	MatchID             string        `json:"match_id"`
	Timestamp           string        `json:"timestamp"`
	NumTrackedSummoners int           `json:"num_tracked_summoners"`
	GameDurationSeconds int           `json:"game_duration_seconds"`
	GameModeID          int           `json:"game_mode_id"`
	QueueID             int           `json:"queue_id"`
	Teams               []Team        `json:"teams"`
	Players             []MatchPlayer `json:"players"`
}

// Team is one side of a match (team_id 100 or 200).
type Team struct {
	TeamID     int            `json:"team_id"`
	Win        bool           `json:"win"`
	Objectives TeamObjectives `json:"objectives"`
	Bans       []BanEntry     `json:"bans"`
}

// teamDoc exists to absorb the legacy camelCase team key. Older documents
// carry teamId on team rows while player rows always use team_id; the
// canonical form everywhere past the repository boundary is team_id.
type teamDoc struct {
	TeamID       *int           `json:"team_id"`
	TeamIDLegacy *int           `json:"teamId"`
	Win          bool           `json:"win"`
	Objectives   TeamObjectives `json:"objectives"`
	Bans         []BanEntry     `json:"bans"`
}

// UnmarshalJSON normalizes team_id/teamId into Team.TeamID.
func (t *Team) UnmarshalJSON(data []byte) error {
	var doc teamDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	t.Win = doc.Win
	t.Objectives = doc.Objectives
	t.Bans = doc.Bans
	switch {
	case doc.TeamID != nil:
		t.TeamID = *doc.TeamID
	case doc.TeamIDLegacy != nil:
		t.TeamID = *doc.TeamIDLegacy
	}
	return nil
}

// TeamObjectives holds per-team objective counters and first-take flags.
type TeamObjectives struct {
	AtakhanFirst    bool `json:"atakhan_first"`
	AtakhanKills    int  `json:"atakhan_kills"`
	BaronFirst      bool `json:"baron_first"`
	BaronKills      int  `json:"baron_kills"`
	ChampionFirst   bool `json:"champion_first"`
	ChampionKills   int  `json:"champion_kills"`
	DragonFirst     bool `json:"dragon_first"`
	DragonKills     int  `json:"dragon_kills"`
	InhibitorFirst  bool `json:"inhibitor_first"`
	InhibitorKills  int  `json:"inhibitor_kills"`
	RiftHeraldFirst bool `json:"rift_herald_first"`
	RiftHeraldKills int  `json:"rift_herald_kills"`
	TowerFirst      bool `json:"tower_first"`
	TowerKills      int  `json:"tower_kills"`
}

// BanEntry is one champion ban.
type BanEntry struct {
	ChampionID int `json:"champion_id"`
}

// MatchPlayer is one participant row embedded in its match. MVPScore > 0
// marks the row as belonging to a tracked roster member; the other rows are
// opponents and randoms. Missing numeric fields decode to 0 and missing
// strings to "".
type MatchPlayer struct {
	MatchID      string `json:"match_id"`
	PUUID        string `json:"puuid"`
	SummonerName string `json:"summoner_name"`
	RealName     string `json:"real_name"`

	ChampionName  string `json:"champion_name"`
	ChampionID    int    `json:"champion_id"`
	ChampionLevel int    `json:"champion_level"`
	Position      string `json:"position"`
	TeamID        int    `json:"team_id"`

	Kills   int `json:"kills"`
	Deaths  int `json:"deaths"`
	Assists int `json:"assists"`

	MVPScore float64 `json:"mvp_score"`

	TotalDmgDealt          int `json:"total_dmg_dealt"`
	TotalDmgDealtChampions int `json:"total_dmg_dealt_champions"`
	TimeCCingOthers        int `json:"time_ccing_others"`
	VisionScore            int `json:"vision_score"`
	GoldEarned             int `json:"gold_earned"`
	HealingDone            int `json:"healing_done"`
	ProfileIcon            int `json:"profile_icon"`
	ObjectivesStolen       int `json:"objectives_stolen"`

	Item0 int `json:"item_0"`
	Item1 int `json:"item_1"`
	Item2 int `json:"item_2"`
	Item3 int `json:"item_3"`
	Item4 int `json:"item_4"`
	Item5 int `json:"item_5"`
	Item6 int `json:"item_6"`

	LargestMultiKill       int `json:"largest_multi_kill"`
	LongestTimeSpentLiving int `json:"longest_time_spent_living"`
	QuadraKills            int `json:"quadra_kills"`
	PentaKills             int `json:"penta_kills"`
	TotalMinionsKilled     int `json:"total_minions_killed"`
	TotalTimeCCDealt       int `json:"total_time_cc_dealt"`
	TotalTimeSpentDead     int `json:"total_time_spent_dead"`

	Summoner1ID int `json:"summoner1_id"`
	Summoner2ID int `json:"summoner2_id"`

	PushPings          int `json:"push_pings"`
	RetreatPings       int `json:"retreat_pings"`
	AllInPings         int `json:"all_in_pings"`
	AssistMePings      int `json:"assist_me_pings"`
	BasicPings         int `json:"basic_pings"`
	CommandPings       int `json:"command_pings"`
	DangerPings        int `json:"danger_pings"`
	EnemyMissingPings  int `json:"enemy_missing_pings"`
	EnemyVisionPings   int `json:"enemy_vision_pings"`
	GetBackPings       int `json:"get_back_pings"`
	HoldPings          int `json:"hold_pings"`
	NeedVisionPings    int `json:"need_vision_pings"`
	OnMyWayPings       int `json:"on_my_way_pings"`
	VisionClearedPings int `json:"vision_cleared_pings"`

	WardsKilled int `json:"wards_killed"`
	WardsPlaced int `json:"wards_placed"`

	GameEndedInEarlySurrender bool `json:"game_ended_in_early_surrender"`
	GameEndedInSurrender      bool `json:"game_ended_in_surrender"`
}

// PlayerRow returns this player's participant row, or nil if the puuid is not
// in the match.
func (m *Match) PlayerRow(puuid string) *MatchPlayer {
	for i := range m.Players {
		if m.Players[i].PUUID == puuid {
			return &m.Players[i]
		}
	}
	return nil
}

// TeamWon looks up the team with the given id and reports its win flag.
// ok is false when no team row matches, in which case the match must not
// count toward wins or losses.
func (m *Match) TeamWon(teamID int) (won, ok bool) {
	for i := range m.Teams {
		if m.Teams[i].TeamID == teamID {
			return m.Teams[i].Win, true
		}
	}
	return false, false
}

// HasWinner reports whether any team row carries win=true. Early-surrender
// games can end with no winner recorded.
func (m *Match) HasWinner() bool {
	for i := range m.Teams {
		if m.Teams[i].Win {
			return true
		}
	}
	return false
}

// HasTrackedPlayer reports whether at least one participant row belongs to a
// tracked roster member (mvp_score > 0).
func (m *Match) HasTrackedPlayer() bool {
	for i := range m.Players {
		if m.Players[i].MVPScore > 0 {
			return true
		}
	}
	return false
}

// PlayerGame is one unwound row of the filter-unwind-join pipeline: a
// player's participant row joined against their team's win flag.
type PlayerGame struct {
	Match  *Match
	Player *MatchPlayer
	// Won is the joined team's win flag; WonKnown is false when the player's
	// team_id matched no team row.
	Won      bool
	WonKnown bool
}

// PlayerGames unwinds each match to the given player's row and joins it with
// the team result. Matches not containing the player are skipped, so callers
// can pass pre-filtered or raw match lists interchangeably.
func PlayerGames(matches []Match, puuid string) []PlayerGame {
	games := make([]PlayerGame, 0, len(matches))
	for i := range matches {
		m := &matches[i]
		row := m.PlayerRow(puuid)
		if row == nil {
			continue
		}
		won, ok := m.TeamWon(row.TeamID)
		games = append(games, PlayerGame{Match: m, Player: row, Won: won, WonKnown: ok})
	}
	return games
}
