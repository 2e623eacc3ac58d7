// Package stats derives player, army and player-army aggregates from a raw
// battle list. Everything here is pure: inputs are never mutated, no I/O,
// and recomputing over the same battles yields identical output.
//
// Win rates are returned unrounded; rounding is a presentation concern.
// The roster view rounds to a whole percent, the combinations views to one
// decimal, and the season leaderboard applies its own integer rounding.
package stats

import (
	"sort"

	"wh40k-club-tracker/internal/domain"
)

type PlayerStat struct {
	PlayerID      string  `json:"playerId"`
	PlayerName    string  `json:"playerName"`
	GamesPlayed   int     `json:"gamesPlayed"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Draws         int     `json:"draws"`
	TotalPoints   int     `json:"totalPoints"`
	AveragePoints float64 `json:"averagePoints"`
	WinRate       float64 `json:"winRate"`
	MostPlayed    string  `json:"mostPlayedArmy"`
}

type ArmyStat struct {
	Army          string  `json:"army"`
	GamesPlayed   int     `json:"gamesPlayed"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Draws         int     `json:"draws"`
	TotalPoints   int     `json:"totalPoints"`
	AveragePoints float64 `json:"averagePoints"`
	WinRate       float64 `json:"winRate"`
}

type PlayerArmyStat struct {
	PlayerName    string  `json:"playerName"`
	Army          string  `json:"army"`
	GamesPlayed   int     `json:"gamesPlayed"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Draws         int     `json:"draws"`
	TotalPoints   int     `json:"totalPoints"`
	AveragePoints float64 `json:"averagePoints"`
	WinRate       float64 `json:"winRate"`
}

// ComputePlayerStats aggregates battles per roster player. Players with no
// battles in the list are excluded. Battles referencing a playerId absent
// from the roster simply do not contribute here; they still count in the
// army-level views.
//
// Sort order: win rate desc, then games played desc, then name asc.
func ComputePlayerStats(players []domain.Player, battles []domain.Battle) []PlayerStat {
	stats := make([]PlayerStat, 0, len(players))

	for _, player := range players {
		stat := PlayerStat{PlayerID: player.ID, PlayerName: player.Name}
		var armyUse []armyCount

		for _, battle := range battles {
			var side *domain.BattleParticipant
			switch player.ID {
			case battle.Player1.PlayerID:
				side = &battle.Player1
			case battle.Player2.PlayerID:
				side = &battle.Player2
			default:
				continue
			}

			stat.GamesPlayed++
			stat.TotalPoints += side.TotalPoints
			switch side.Result {
			case domain.ResultWin:
				stat.Wins++
			case domain.ResultLoss:
				stat.Losses++
			case domain.ResultDraw:
				stat.Draws++
			}
			armyUse = bump(armyUse, side.Army)
		}

		if stat.GamesPlayed == 0 {
			continue
		}

		stat.AveragePoints = float64(stat.TotalPoints) / float64(stat.GamesPlayed)
		stat.WinRate = float64(stat.Wins) / float64(stat.GamesPlayed) * 100
		stat.MostPlayed = mostUsed(armyUse, firstArmy(player))
		stats = append(stats, stat)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].WinRate != stats[j].WinRate {
			return stats[i].WinRate > stats[j].WinRate
		}
		if stats[i].GamesPlayed != stats[j].GamesPlayed {
			return stats[i].GamesPlayed > stats[j].GamesPlayed
		}
		return stats[i].PlayerName < stats[j].PlayerName
	})
	return stats
}

// ComputeArmyStats aggregates both sides of every battle into per-army
// buckets keyed by army name, regardless of who fielded it.
//
// Sort order: win rate desc, then army name asc.
func ComputeArmyStats(battles []domain.Battle) []ArmyStat {
	buckets := map[string]*ArmyStat{}
	var order []string

	for _, battle := range battles {
		for _, side := range []domain.BattleParticipant{battle.Player1, battle.Player2} {
			bucket, ok := buckets[side.Army]
			if !ok {
				bucket = &ArmyStat{Army: side.Army}
				buckets[side.Army] = bucket
				order = append(order, side.Army)
			}
			bucket.GamesPlayed++
			bucket.TotalPoints += side.TotalPoints
			switch side.Result {
			case domain.ResultWin:
				bucket.Wins++
			case domain.ResultLoss:
				bucket.Losses++
			case domain.ResultDraw:
				bucket.Draws++
			}
		}
	}

	stats := make([]ArmyStat, 0, len(order))
	for _, army := range order {
		bucket := buckets[army]
		bucket.AveragePoints = float64(bucket.TotalPoints) / float64(bucket.GamesPlayed)
		bucket.WinRate = float64(bucket.Wins) / float64(bucket.GamesPlayed) * 100
		stats = append(stats, *bucket)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].WinRate != stats[j].WinRate {
			return stats[i].WinRate > stats[j].WinRate
		}
		return stats[i].Army < stats[j].Army
	})
	return stats
}

type playerArmyKey struct {
	playerName string
	army       string
}

// ComputePlayerArmyStats aggregates per (player, army) combination, keyed by
// the denormalized player name so battles survive roster deletions. The key
// is a structured pair, so a separator in either field cannot collide.
//
// Sort order: win rate desc, then player name asc, then army asc.
func ComputePlayerArmyStats(battles []domain.Battle) []PlayerArmyStat {
	buckets := map[playerArmyKey]*PlayerArmyStat{}
	var order []playerArmyKey

	for _, battle := range battles {
		for _, side := range []domain.BattleParticipant{battle.Player1, battle.Player2} {
			key := playerArmyKey{playerName: side.PlayerName, army: side.Army}
			bucket, ok := buckets[key]
			if !ok {
				bucket = &PlayerArmyStat{PlayerName: side.PlayerName, Army: side.Army}
				buckets[key] = bucket
				order = append(order, key)
			}
			bucket.GamesPlayed++
			bucket.TotalPoints += side.TotalPoints
			switch side.Result {
			case domain.ResultWin:
				bucket.Wins++
			case domain.ResultLoss:
				bucket.Losses++
			case domain.ResultDraw:
				bucket.Draws++
			}
		}
	}

	stats := make([]PlayerArmyStat, 0, len(order))
	for _, key := range order {
		bucket := buckets[key]
		bucket.AveragePoints = float64(bucket.TotalPoints) / float64(bucket.GamesPlayed)
		bucket.WinRate = float64(bucket.Wins) / float64(bucket.GamesPlayed) * 100
		stats = append(stats, *bucket)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].WinRate != stats[j].WinRate {
			return stats[i].WinRate > stats[j].WinRate
		}
		if stats[i].PlayerName != stats[j].PlayerName {
			return stats[i].PlayerName < stats[j].PlayerName
		}
		return stats[i].Army < stats[j].Army
	})
	return stats
}

type armyCount struct {
	army  string
	count int
}

func bump(counts []armyCount, army string) []armyCount {
	for i := range counts {
		if counts[i].army == army {
			counts[i].count++
			return counts
		}
	}
	return append(counts, armyCount{army: army, count: 1})
}

// mostUsed picks the army with the highest usage, first-seen order breaking
// ties, falling back when the player has no battles on record.
func mostUsed(counts []armyCount, fallback string) string {
	best := fallback
	bestCount := 0
	for _, c := range counts {
		if c.count > bestCount {
			best = c.army
			bestCount = c.count
		}
	}
	return best
}

func firstArmy(player domain.Player) string {
	if len(player.Armies) > 0 {
		return player.Armies[0]
	}
	return ""
}
