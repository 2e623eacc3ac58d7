package stats

import (
	"math"
	"sort"

	"wh40k-club-tracker/internal/domain"
)

// SeasonStanding is one row of a season leaderboard. Unlike the roster view,
// average points and win rate are rounded to whole numbers and placement is
// decided by cumulative total points, not win percentage.
type SeasonStanding struct {
	SeasonID      string `json:"seasonId"`
	PlayerID      string `json:"playerId"`
	PlayerName    string `json:"playerName"`
	GamesPlayed   int    `json:"gamesPlayed"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	Draws         int    `json:"draws"`
	TotalPoints   int    `json:"totalPoints"`
	AveragePoints int    `json:"averagePoints"`
	WinRate       int    `json:"winRate"`
	Rank          int    `json:"rank"`
}

// BuildLeaderboard ranks every player appearing in the season's battles.
// Players are keyed by playerId from the battle records themselves, so a
// player removed from the roster still holds their placement. An empty
// season yields an empty leaderboard, not an error.
//
// Sort order: total points desc, then wins desc, then player name asc.
// Ranks are dense, 1..N.
func BuildLeaderboard(season domain.Season, battles []domain.Battle) []SeasonStanding {
	inSeason := make(map[string]bool, len(season.GameIDs))
	for _, id := range season.GameIDs {
		inSeason[id] = true
	}

	buckets := map[string]*SeasonStanding{}
	var order []string

	for _, battle := range battles {
		if !inSeason[battle.ID] {
			continue
		}
		for _, side := range []domain.BattleParticipant{battle.Player1, battle.Player2} {
			standing, ok := buckets[side.PlayerID]
			if !ok {
				standing = &SeasonStanding{
					SeasonID:   season.ID,
					PlayerID:   side.PlayerID,
					PlayerName: side.PlayerName,
				}
				buckets[side.PlayerID] = standing
				order = append(order, side.PlayerID)
			}
			standing.GamesPlayed++
			standing.TotalPoints += side.TotalPoints
			switch side.Result {
			case domain.ResultWin:
				standing.Wins++
			case domain.ResultLoss:
				standing.Losses++
			case domain.ResultDraw:
				standing.Draws++
			}
		}
	}

	standings := make([]SeasonStanding, 0, len(order))
	for _, playerID := range order {
		standing := buckets[playerID]
		standing.AveragePoints = int(math.Round(float64(standing.TotalPoints) / float64(standing.GamesPlayed)))
		standing.WinRate = int(math.Round(float64(standing.Wins) / float64(standing.GamesPlayed) * 100))
		standings = append(standings, *standing)
	}

	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].TotalPoints != standings[j].TotalPoints {
			return standings[i].TotalPoints > standings[j].TotalPoints
		}
		if standings[i].Wins != standings[j].Wins {
			return standings[i].Wins > standings[j].Wins
		}
		return standings[i].PlayerName < standings[j].PlayerName
	})

	for i := range standings {
		standings[i].Rank = i + 1
	}
	return standings
}
