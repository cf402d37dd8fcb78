package stats

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"roster-tracker/internal/store"
)

// ChampionStat is one entry of the most-played champions list.
type ChampionStat struct {
	Champion string  `json:"champion"`
	Games    int     `json:"games"`
	WinRate  float64 `json:"win_rate"`
}

// PositionStat is one entry of the most-played positions list.
type PositionStat struct {
	Position string `json:"position"`
	Games    int    `json:"games"`
}

// TeammateStat summarizes games shared with one other roster member.
// GamesPlayed counts co-occurrence on either team; wins and losses count
// only games on the same team as the subject player.
type TeammateStat struct {
	PUUID           string  `json:"puuid"`
	DisplayName     string  `json:"display_name"`
	RealName        string  `json:"real_name"`
	GamesPlayed     int     `json:"games_played"`
	Wins            int     `json:"wins"`
	Losses          int     `json:"losses"`
	WinRate         float64 `json:"win_rate"`
	AverageKills    float64 `json:"average_kills"`
	AverageDeaths   float64 `json:"average_deaths"`
	AverageAssists  float64 `json:"average_assists"`
	AverageMVPScore float64 `json:"average_mvp_score"`
}

// PlayerProfile is a player's whole tracked career: aggregate averages,
// most-played champions and positions, teammate synergy, and their most
// recent full match documents.
type PlayerProfile struct {
	PUUID       string `json:"puuid"`
	DisplayName string `json:"display_name"`
	RealName    string `json:"real_name"`

	TotalMatches int     `json:"total_matches"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	WinRate      float64 `json:"win_rate"`

	AverageKills             float64 `json:"average_kills"`
	AverageDeaths            float64 `json:"average_deaths"`
	AverageAssists           float64 `json:"average_assists"`
	AverageMVPScore          float64 `json:"average_mvp_score"`
	AverageDamageDealt       float64 `json:"average_damage_dealt"`
	AverageDamageToChampions float64 `json:"average_damage_to_champions"`
	AverageGoldEarned        float64 `json:"average_gold_earned"`
	AverageVisionScore       float64 `json:"average_vision_score"`
	AverageWardsPlaced       float64 `json:"average_wards_placed"`
	AverageWardsKilled       float64 `json:"average_wards_killed"`

	MostPlayedChampions []ChampionStat `json:"most_played_champions"`
	MostPlayedPositions []PositionStat `json:"most_played_positions"`
	TeammatesStats      []TeammateStat `json:"teammates_stats"`
	RecentMatches       []store.Match  `json:"recent_matches"`
}

// ProfileBuilder computes full career profiles. No time window: the whole
// match history counts.
type ProfileBuilder struct {
	repo   store.Repository
	logger *slog.Logger
}

// NewProfileBuilder creates the builder.
func NewProfileBuilder(repo store.Repository, logger *slog.Logger) *ProfileBuilder {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileBuilder{repo: repo, logger: logger}
}

type teammateAcc struct {
	summoner store.Summoner
	games    int
	wins     int
	losses   int
	kills    int
	deaths   int
	assists  int
	mvpScore float64
}

// Build returns the profile, or nil when the player has no matches.
func (b *ProfileBuilder) Build(ctx context.Context, puuid string) (*PlayerProfile, error) {
	matches, err := b.repo.MatchesByPlayer(ctx, puuid)
	if err != nil {
		return nil, fmt.Errorf("fetch history for %s: %w", puuid, err)
	}
	games := store.PlayerGames(matches, puuid)
	if len(games) == 0 {
		return nil, nil
	}

	roster, err := b.repo.AllSummoners(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch roster: %w", err)
	}

	teammates := make(map[string]*teammateAcc)
	var teammateOrder []string
	for _, sm := range roster {
		if sm.PUUID == puuid {
			continue
		}
		teammates[sm.PUUID] = &teammateAcc{summoner: sm}
		teammateOrder = append(teammateOrder, sm.PUUID)
	}

	var wins, losses int
	var kills, deaths, assists int
	var dmgDealt, dmgToChampions, gold int
	var visionScore, wardsPlaced, wardsKilled int
	var mvpScore float64
	champions := newFreqTable()
	positions := newFreqTable()

	for _, g := range games {
		won := g.WonKnown && g.Won
		if !g.Match.HasWinner() {
			b.logger.Warn("match has no winning team, counting as loss",
				"match_id", g.Match.MatchID, "puuid", puuid)
		}
		switch {
		case !g.WonKnown:
			// Player's team_id matched no team row: the match counts toward
			// totals but neither wins nor losses.
		case g.Won:
			wins++
		default:
			losses++
		}

		p := g.Player
		kills += p.Kills
		deaths += p.Deaths
		assists += p.Assists
		mvpScore += p.MVPScore
		dmgDealt += p.TotalDmgDealt
		dmgToChampions += p.TotalDmgDealtChampions
		gold += p.GoldEarned
		visionScore += p.VisionScore
		wardsPlaced += p.WardsPlaced
		wardsKilled += p.WardsKilled
		champions.Add(p.ChampionName, won)
		positions.Add(p.Position, won)

		for _, tmPUUID := range teammateOrder {
			row := g.Match.PlayerRow(tmPUUID)
			if row == nil {
				continue
			}
			acc := teammates[tmPUUID]
			acc.games++
			acc.kills += row.Kills
			acc.deaths += row.Deaths
			acc.assists += row.Assists
			acc.mvpScore += row.MVPScore
			if row.TeamID == p.TeamID && g.WonKnown {
				if g.Won {
					acc.wins++
				} else {
					acc.losses++
				}
			}
		}
	}

	total := len(games)

	profile := &PlayerProfile{
		PUUID:        puuid,
		TotalMatches: total,
		Wins:         wins,
		Losses:       losses,
		WinRate:      percentage(wins, total),

		AverageKills:             average(float64(kills), total),
		AverageDeaths:            average(float64(deaths), total),
		AverageAssists:           average(float64(assists), total),
		AverageMVPScore:          round2(mvpScore / float64(total)),
		AverageDamageDealt:       average(float64(dmgDealt), total),
		AverageDamageToChampions: average(float64(dmgToChampions), total),
		AverageGoldEarned:        average(float64(gold), total),
		AverageVisionScore:       average(float64(visionScore), total),
		AverageWardsPlaced:       average(float64(wardsPlaced), total),
		AverageWardsKilled:       average(float64(wardsKilled), total),
	}

	// Live roster identity wins over the snapshot embedded in match rows.
	sm, err := b.repo.SummonerByPUUID(ctx, puuid)
	if err != nil {
		return nil, fmt.Errorf("fetch summoner %s: %w", puuid, err)
	}
	if sm != nil {
		profile.DisplayName = sm.DisplayName
		profile.RealName = sm.RealName
	} else {
		profile.DisplayName = games[0].Player.SummonerName
		profile.RealName = games[0].Player.RealName
	}

	for _, e := range champions.Top(topChampionCount) {
		profile.MostPlayedChampions = append(profile.MostPlayedChampions, ChampionStat{
			Champion: e.Key,
			Games:    e.Games,
			WinRate:  percentage(e.Wins, e.Games),
		})
	}
	for _, e := range positions.Top(0) {
		profile.MostPlayedPositions = append(profile.MostPlayedPositions, PositionStat{
			Position: e.Key,
			Games:    e.Games,
		})
	}

	for _, tmPUUID := range teammateOrder {
		acc := teammates[tmPUUID]
		if acc.games == 0 {
			continue
		}
		profile.TeammatesStats = append(profile.TeammatesStats, TeammateStat{
			PUUID:           acc.summoner.PUUID,
			DisplayName:     acc.summoner.DisplayName,
			RealName:        acc.summoner.RealName,
			GamesPlayed:     acc.games,
			Wins:            acc.wins,
			Losses:          acc.losses,
			WinRate:         percentage(acc.wins, acc.games),
			AverageKills:    average(float64(acc.kills), acc.games),
			AverageDeaths:   average(float64(acc.deaths), acc.games),
			AverageAssists:  average(float64(acc.assists), acc.games),
			AverageMVPScore: round2(acc.mvpScore / float64(acc.games)),
		})
	}
	sort.SliceStable(profile.TeammatesStats, func(i, j int) bool {
		return profile.TeammatesStats[i].GamesPlayed > profile.TeammatesStats[j].GamesPlayed
	})

	recent := profileRecentCount
	if recent > len(matches) {
		recent = len(matches)
	}
	profile.RecentMatches = matches[:recent]

	return profile, nil
}
